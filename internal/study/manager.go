package study

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/vytor/studydeck/internal/models"
)

type entry struct {
	session *Session
	ownerID string
}

// Manager is a token-keyed registry of live sessions. Each session is bound
// to the identity that started it; sessions share nothing with each other.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]entry
	rater    Rater
	timeout  time.Duration
}

// NewManager creates a session registry submitting ratings through rater,
// each bounded by timeout.
func NewManager(rater Rater, timeout time.Duration) *Manager {
	return &Manager{
		sessions: map[string]entry{},
		rater:    rater,
		timeout:  timeout,
	}
}

// Start creates a session over the given cards, owned by ownerID, and
// returns its token.
func (m *Manager) Start(ownerID string, deckID int64, cards []models.Card, opts ...Option) (string, *Session, error) {
	opts = append([]Option{WithRateTimeout(m.timeout)}, opts...)
	session, err := NewSession(deckID, cards, m.rater, opts...)
	if err != nil {
		return "", nil, err
	}

	token := newToken()
	m.mu.Lock()
	m.sessions[token] = entry{session: session, ownerID: ownerID}
	m.mu.Unlock()
	return token, session, nil
}

// Get returns the session for a token if it belongs to ownerID. A token held
// by a different identity behaves exactly like an unknown one.
func (m *Manager) Get(token, ownerID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[token]
	if !ok || e.ownerID != ownerID {
		return nil, false
	}
	return e.session, true
}

// End discards the session for a token if it belongs to ownerID.
func (m *Manager) End(token, ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[token]; ok && e.ownerID == ownerID {
		delete(m.sessions, token)
	}
}

func newToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
