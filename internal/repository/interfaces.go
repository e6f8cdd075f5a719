package repository

import (
	"context"
	"time"

	"github.com/vytor/studydeck/internal/models"
)

// DeckUpdateParams holds the mutable deck fields; nil means "leave unchanged".
type DeckUpdateParams struct {
	Name        *string
	Description *string
}

// CardUpdateParams holds the mutable card text fields; nil means "leave unchanged".
type CardUpdateParams struct {
	Front *string
	Back  *string
}

// DeckRepository handles deck data access. Every read and write except Insert is
// scoped to an owner; lookups that miss (absent row or different owner) return
// nil without an error.
type DeckRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Deck, error)
	Get(ctx context.Context, id int64, ownerID string) (*models.Deck, error)
	Insert(ctx context.Context, ownerID, name, description string) (*models.Deck, error)
	Update(ctx context.Context, id int64, ownerID string, params DeckUpdateParams) (*models.Deck, error)
	Delete(ctx context.Context, id int64, ownerID string) error
}

// CardRepository handles card data access. Cards carry no owner column;
// GetOwned resolves ownership through the parent deck in a single joined
// query. Get, Delete and DeleteByDeck are unscoped and expect the caller to
// have checked ownership already.
type CardRepository interface {
	ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	Get(ctx context.Context, id int64) (*models.Card, error)
	GetOwned(ctx context.Context, id int64, ownerID string) (*models.Card, error)
	Insert(ctx context.Context, deckID int64, front, back string) (*models.Card, error)
	Update(ctx context.Context, id int64, params CardUpdateParams) (*models.Card, error)
	UpdateStudyProgress(ctx context.Context, id int64, studiedCount int, lastStudied time.Time, masteryLevel int) (*models.Card, error)
	Delete(ctx context.Context, id int64) error
	DeleteByDeck(ctx context.Context, deckID int64) error
}

// StatsRepository maintains the per-deck aggregate cache.
type StatsRepository interface {
	Refresh(ctx context.Context, deckID int64) error
	Get(ctx context.Context, deckID int64) (*models.DeckStats, error)
}
