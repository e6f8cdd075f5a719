// Package cache implements the invalidation contract between mutations and
// cached views: every successful mutation bumps the version of the logical
// paths it affects, and the HTTP layer uses those versions for freshness
// checks.
package cache

import (
	"fmt"
	"sync"

	"github.com/vytor/studydeck/internal/logger"
)

// Invalidator marks a logical view path as stale.
type Invalidator interface {
	Invalidate(path string)
}

// Logical view paths affected by mutations. The dashboard is scoped per
// owner so one tenant's mutations never move another tenant's versions.

func DashboardPath(ownerID string) string {
	return fmt.Sprintf("/dashboard/%s", ownerID)
}

func DeckPath(deckID int64) string {
	return fmt.Sprintf("/decks/%d", deckID)
}

func CardEditPath(deckID, cardID int64) string {
	return fmt.Sprintf("/decks/%d/cards/%d/edit", deckID, cardID)
}

func StudyPath(deckID int64) string {
	return fmt.Sprintf("/decks/%d/study", deckID)
}

// Memory is an in-process Invalidator keeping a version counter per path.
type Memory struct {
	mu       sync.Mutex
	versions map[string]uint64
	log      *logger.Logger
}

func NewMemory() *Memory {
	return &Memory{
		versions: map[string]uint64{},
		log:      logger.Default().WithPrefix("cache"),
	}
}

func (m *Memory) Invalidate(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[path]++
	m.log.Debug("invalidated path %s (version %d)", path, m.versions[path])
}

// Version returns the current version of a path. Zero means never invalidated.
func (m *Memory) Version(path string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[path]
}
