package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/studydeck/internal/cache"
)

func TestMemoryVersions(t *testing.T) {
	m := cache.NewMemory()

	dashboard := cache.DashboardPath("user-1")
	assert.Equal(t, uint64(0), m.Version(dashboard))

	m.Invalidate(dashboard)
	m.Invalidate(dashboard)
	assert.Equal(t, uint64(2), m.Version(dashboard))

	// Paths version independently.
	m.Invalidate(cache.DeckPath(7))
	assert.Equal(t, uint64(1), m.Version(cache.DeckPath(7)))
	assert.Equal(t, uint64(0), m.Version(cache.DeckPath(8)))
	assert.Equal(t, uint64(2), m.Version(dashboard))
}

func TestDashboardScopedPerOwner(t *testing.T) {
	m := cache.NewMemory()

	m.Invalidate(cache.DashboardPath("user-1"))
	assert.Equal(t, uint64(1), m.Version(cache.DashboardPath("user-1")))
	assert.Equal(t, uint64(0), m.Version(cache.DashboardPath("user-2")))
}

func TestPathConstructors(t *testing.T) {
	assert.Equal(t, "/dashboard/user-1", cache.DashboardPath("user-1"))
	assert.Equal(t, "/decks/7", cache.DeckPath(7))
	assert.Equal(t, "/decks/7/cards/9/edit", cache.CardEditPath(7, 9))
	assert.Equal(t, "/decks/7/study", cache.StudyPath(7))
}
