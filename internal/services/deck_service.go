package services

import (
	"context"

	"github.com/vytor/studydeck/internal/auth"
	"github.com/vytor/studydeck/internal/cache"
	"github.com/vytor/studydeck/internal/errors"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

// DeckService handles deck-related business logic. Every mutation follows the
// same contract: validate the input, authenticate the caller, authorize
// against the owning row, execute, then invalidate affected views.
type DeckService interface {
	ListDecks(ctx context.Context) ([]models.Deck, error)
	GetDeck(ctx context.Context, deckID int64) (*models.Deck, error)
	CreateDeck(ctx context.Context, name, description string) (*models.Deck, error)
	UpdateDeck(ctx context.Context, deckID int64, name, description string) (*models.Deck, error)
	DeleteDeck(ctx context.Context, deckID int64) error
	DeckStats(ctx context.Context, deckID int64) (*models.DeckStats, error)
}

type deckService struct {
	decks       repository.DeckRepository
	stats       repository.StatsRepository
	invalidator cache.Invalidator
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository, stats repository.StatsRepository, invalidator cache.Invalidator) DeckService {
	return &deckService{decks: decks, stats: stats, invalidator: invalidator}
}

func (s *deckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	ownerID, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, errors.NewUnauthorizedError()
	}

	decks, err := s.decks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) GetDeck(ctx context.Context, deckID int64) (*models.Deck, error) {
	fields := map[string]string{}
	checkPositiveID(fields, "deckId", deckID)
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields)
	}

	ownerID, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, errors.NewUnauthorizedError()
	}

	deck, err := s.decks.Get(ctx, deckID, ownerID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck")
	}
	return deck, nil
}

func (s *deckService) CreateDeck(ctx context.Context, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	fields := map[string]string{}
	checkRequiredText(fields, "name", name, maxNameLen)
	checkOptionalText(fields, "description", description, maxDescriptionLen)
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields)
	}

	ownerID, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, errors.NewUnauthorizedError()
	}

	// New resource, no ownership check needed; owner is the caller.
	deck, err := s.decks.Insert(ctx, ownerID, name, description)
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewInternalError(err)
	}

	s.invalidator.Invalidate(cache.DashboardPath(ownerID))

	log.Info("deck created: id=%d", deck.ID)
	return deck, nil
}

func (s *deckService) UpdateDeck(ctx context.Context, deckID int64, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	fields := map[string]string{}
	checkPositiveID(fields, "deckId", deckID)
	checkRequiredText(fields, "name", name, maxNameLen)
	checkOptionalText(fields, "description", description, maxDescriptionLen)
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields)
	}

	ownerID, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, errors.NewUnauthorizedError()
	}

	// The update itself is owner-scoped, so authorization and execution are
	// one statement with no gap in between.
	deck, err := s.decks.Update(ctx, deckID, ownerID, repository.DeckUpdateParams{
		Name:        &name,
		Description: &description,
	})
	if err != nil {
		log.Error("failed to update deck %d: %v", deckID, err)
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		log.Debug("update rejected, deck %d absent or not owned by caller", deckID)
		return nil, errors.NewNotFoundError("deck")
	}

	s.invalidator.Invalidate(cache.DeckPath(deckID))
	s.invalidator.Invalidate(cache.DashboardPath(ownerID))

	log.Info("deck updated: id=%d", deckID)
	return deck, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, deckID int64) error {
	log := logger.FromContext(ctx)

	fields := map[string]string{}
	checkPositiveID(fields, "deckId", deckID)
	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}

	ownerID, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return errors.NewUnauthorizedError()
	}

	deck, err := s.decks.Get(ctx, deckID, ownerID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if deck == nil {
		log.Debug("delete rejected, deck %d absent or not owned by caller", deckID)
		return errors.NewNotFoundError("deck")
	}

	if err := s.decks.Delete(ctx, deckID, ownerID); err != nil {
		log.Error("failed to delete deck %d: %v", deckID, err)
		return errors.NewInternalError(err)
	}

	s.invalidator.Invalidate(cache.DeckPath(deckID))
	s.invalidator.Invalidate(cache.StudyPath(deckID))
	s.invalidator.Invalidate(cache.DashboardPath(ownerID))

	log.Info("deck deleted: id=%d", deckID)
	return nil
}

func (s *deckService) DeckStats(ctx context.Context, deckID int64) (*models.DeckStats, error) {
	fields := map[string]string{}
	checkPositiveID(fields, "deckId", deckID)
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields)
	}

	ownerID, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, errors.NewUnauthorizedError()
	}

	deck, err := s.decks.Get(ctx, deckID, ownerID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck")
	}

	stats, err := s.stats.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats == nil {
		// No cached row yet, compute it now.
		if err := s.stats.Refresh(ctx, deckID); err != nil {
			return nil, errors.NewInternalError(err)
		}
		if stats, err = s.stats.Get(ctx, deckID); err != nil {
			return nil, errors.NewInternalError(err)
		}
	}
	return stats, nil
}
