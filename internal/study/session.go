// Package study implements the in-memory study session: a shuffled traversal
// of one deck's cards with front/back flipping, free back-and-forth
// navigation, and mastery ratings submitted to the card service. Session
// state is private to one client and never persisted; the card list is a
// snapshot taken at session start.
package study

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
)

var (
	// ErrNoCards is returned when a session is constructed over an empty deck.
	ErrNoCards = errors.New("study session requires at least one card")
	// ErrRatingInFlight is returned by Rate while a previous rating is still
	// being submitted.
	ErrRatingInFlight = errors.New("rating submission already in flight")
)

// Rater records a study result for a card. Implemented by the card service.
type Rater interface {
	StudyCard(ctx context.Context, cardID int64, masteryLevel int) (*models.Card, error)
}

// Session is a state machine over a fixed set of cards. Completion means
// "every card has been the current card at least once", not "reached the last
// index": shuffling and back-navigation make those different conditions.
type Session struct {
	mu         sync.Mutex
	deckID     int64
	source     []models.Card // snapshot in original order, used by Restart
	order      []models.Card
	position   int
	flipped    bool
	visited    map[int64]struct{}
	completed  bool // latch: completion already signalled for this traversal
	submitting bool
	rng        *rand.Rand
	rater      Rater
	timeout    time.Duration
	onComplete func()
	log        *logger.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for shuffling. Tests inject a seeded
// source for deterministic orderings.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithRateTimeout bounds each rating submission. A hung persistence call
// would otherwise hold the in-flight guard forever.
func WithRateTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithCompletionFunc registers a callback invoked exactly once per completion
// event.
func WithCompletionFunc(fn func()) Option {
	return func(s *Session) { s.onComplete = fn }
}

// WithLogger sets the session logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Session) { s.log = log }
}

// NewSession starts a session over the given cards. The slice is copied; a
// one-card session completes immediately, before any transition.
func NewSession(deckID int64, cards []models.Card, rater Rater, opts ...Option) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	s := &Session{
		deckID:  deckID,
		source:  append([]models.Card(nil), cards...),
		rater:   rater,
		timeout: 10 * time.Second,
		log:     logger.Default().WithPrefix("study"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
	return s, nil
}

// reset starts a fresh traversal from the source snapshot. Caller holds mu.
func (s *Session) reset() {
	s.order = append([]models.Card(nil), s.source...)
	s.reshuffle()
}

// reshuffle randomizes the current order and restarts the traversal.
// Caller holds mu.
func (s *Session) reshuffle() {
	s.rng.Shuffle(len(s.order), func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})
	s.position = 0
	s.flipped = false
	s.visited = map[int64]struct{}{}
	s.completed = false
	s.visitCurrent()
}

// visitCurrent marks the current card as seen and fires the completion
// signal when the set covers every card. Caller holds mu.
func (s *Session) visitCurrent() {
	s.visited[s.order[s.position].ID] = struct{}{}
	if s.completed || len(s.visited) < len(s.order) {
		return
	}
	s.completed = true
	s.log.Debug("session complete: deck_id=%d, cards=%d", s.deckID, len(s.order))
	if s.onComplete != nil {
		s.onComplete()
	}
}

// Flip toggles between the front and back face of the current card.
func (s *Session) Flip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flipped = !s.flipped
}

// Next advances to the following card. At the last position it is a no-op;
// there is no wraparound.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.position >= len(s.order)-1 {
		return
	}
	s.position++
	s.flipped = false
	s.visitCurrent()
}

// Previous steps back to the preceding card. At position 0 it is a no-op.
// Revisiting counts toward completion.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.position <= 0 {
		return
	}
	s.position--
	s.flipped = false
	s.visitCurrent()
}

// Shuffle re-randomizes the order and restarts the traversal, clearing the
// completion latch.
func (s *Session) Shuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reshuffle()
}

// Restart rebuilds the session from the original card snapshot: new random
// order, cleared progress and completion latch.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Rate submits a mastery rating for the current card, then advances. Only one
// submission may be in flight at a time; the guard blocks further ratings but
// never navigation. Submission failures are logged and the session continues
// with local-only progress.
func (s *Session) Rate(ctx context.Context, masteryLevel int) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrRatingInFlight
	}
	s.submitting = true
	card := s.order[s.position]
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.rater.StudyCard(ctx, card.ID, masteryLevel); err != nil {
		// Includes cards deleted mid-session; skip forward regardless.
		s.log.Warn("study result not recorded for card %d: %v", card.ID, err)
	}

	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()

	s.Next()
	return nil
}

// State is a snapshot of the session for rendering.
type State struct {
	DeckID     int64       `json:"deck_id"`
	Card       models.Card `json:"card"`
	Position   int         `json:"position"`
	Total      int         `json:"total"`
	Flipped    bool        `json:"flipped"`
	Visited    int         `json:"visited"`
	Complete   bool        `json:"complete"`
	Submitting bool        `json:"submitting"`
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		DeckID:     s.deckID,
		Card:       s.order[s.position],
		Position:   s.position,
		Total:      len(s.order),
		Flipped:    s.flipped,
		Visited:    len(s.visited),
		Complete:   s.completed,
		Submitting: s.submitting,
	}
}
