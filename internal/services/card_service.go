package services

import (
	"context"
	"time"

	"github.com/vytor/studydeck/internal/auth"
	"github.com/vytor/studydeck/internal/cache"
	"github.com/vytor/studydeck/internal/errors"
	"github.com/vytor/studydeck/internal/jobs"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

// CardService handles card-related business logic. Card ownership is always
// resolved through the parent deck.
type CardService interface {
	ListCards(ctx context.Context, deckID int64) ([]models.Card, error)
	GetCard(ctx context.Context, cardID int64) (*models.Card, error)
	CreateCard(ctx context.Context, deckID int64, front, back string) (*models.Card, error)
	UpdateCard(ctx context.Context, cardID int64, front, back string) (*models.Card, error)
	DeleteCard(ctx context.Context, cardID int64) error
	StudyCard(ctx context.Context, cardID int64, masteryLevel int) (*models.Card, error)
}

type cardService struct {
	decks       repository.DeckRepository
	cards       repository.CardRepository
	queue       jobs.Queue
	invalidator cache.Invalidator
}

// NewCardService creates a new CardService
func NewCardService(decks repository.DeckRepository, cards repository.CardRepository, queue jobs.Queue, invalidator cache.Invalidator) CardService {
	return &cardService{decks: decks, cards: cards, queue: queue, invalidator: invalidator}
}

func (s *cardService) ListCards(ctx context.Context, deckID int64) ([]models.Card, error) {
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

	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) GetCard(ctx context.Context, cardID int64) (*models.Card, error) {
	fields := map[string]string{}
	checkPositiveID(fields, "cardId", cardID)
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields)
	}

	ownerID, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, errors.NewUnauthorizedError()
	}

	card, err := s.cards.GetOwned(ctx, cardID, ownerID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card")
	}
	return card, nil
}

func (s *cardService) CreateCard(ctx context.Context, deckID int64, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx)

	fields := map[string]string{}
	checkPositiveID(fields, "deckId", deckID)
	checkRequiredText(fields, "front", front, maxCardTextLen)
	checkRequiredText(fields, "back", back, maxCardTextLen)
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
		log.Debug("create card rejected, deck %d absent or not owned by caller", deckID)
		return nil, errors.NewNotFoundError("deck")
	}

	card, err := s.cards.Insert(ctx, deckID, front, back)
	if err != nil {
		log.Error("failed to create card in deck %d: %v", deckID, err)
		return nil, errors.NewInternalError(err)
	}

	s.invalidator.Invalidate(cache.DeckPath(deckID))
	s.invalidator.Invalidate(cache.DashboardPath(ownerID))

	log.Info("card created: id=%d, deck_id=%d", card.ID, deckID)
	return card, nil
}

func (s *cardService) UpdateCard(ctx context.Context, cardID int64, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx)

	fields := map[string]string{}
	checkPositiveID(fields, "cardId", cardID)
	checkRequiredText(fields, "front", front, maxCardTextLen)
	checkRequiredText(fields, "back", back, maxCardTextLen)
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields)
	}

	ownerID, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, errors.NewUnauthorizedError()
	}

	card, err := s.cards.GetOwned(ctx, cardID, ownerID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		log.Debug("update rejected, card %d absent or not owned by caller", cardID)
		return nil, errors.NewNotFoundError("card")
	}

	updated, err := s.cards.Update(ctx, cardID, repository.CardUpdateParams{
		Front: &front,
		Back:  &back,
	})
	if err != nil {
		log.Error("failed to update card %d: %v", cardID, err)
		return nil, errors.NewInternalError(err)
	}
	if updated == nil {
		return nil, errors.NewNotFoundError("card")
	}

	s.invalidator.Invalidate(cache.DeckPath(card.DeckID))
	s.invalidator.Invalidate(cache.CardEditPath(card.DeckID, cardID))
	s.invalidator.Invalidate(cache.DashboardPath(ownerID))

	log.Info("card updated: id=%d", cardID)
	return updated, nil
}

func (s *cardService) DeleteCard(ctx context.Context, cardID int64) error {
	log := logger.FromContext(ctx)

	fields := map[string]string{}
	checkPositiveID(fields, "cardId", cardID)
	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}

	ownerID, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return errors.NewUnauthorizedError()
	}

	card, err := s.cards.GetOwned(ctx, cardID, ownerID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if card == nil {
		log.Debug("delete rejected, card %d absent or not owned by caller", cardID)
		return errors.NewNotFoundError("card")
	}

	if err := s.cards.Delete(ctx, cardID); err != nil {
		log.Error("failed to delete card %d: %v", cardID, err)
		return errors.NewInternalError(err)
	}

	s.invalidator.Invalidate(cache.DeckPath(card.DeckID))
	s.invalidator.Invalidate(cache.DashboardPath(ownerID))

	log.Info("card deleted: id=%d", cardID)
	return nil
}

func (s *cardService) StudyCard(ctx context.Context, cardID int64, masteryLevel int) (*models.Card, error) {
	log := logger.FromContext(ctx)

	fields := map[string]string{}
	checkPositiveID(fields, "cardId", cardID)
	checkMasteryLevel(fields, "masteryLevel", masteryLevel)
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields)
	}

	ownerID, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, errors.NewUnauthorizedError()
	}

	card, err := s.cards.GetOwned(ctx, cardID, ownerID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		log.Debug("study rejected, card %d absent or not owned by caller", cardID)
		return nil, errors.NewNotFoundError("card")
	}

	updated, err := s.cards.UpdateStudyProgress(ctx, cardID, card.StudiedCount+1, time.Now().UTC(), masteryLevel)
	if err != nil {
		log.Error("failed to record study result for card %d: %v", cardID, err)
		return nil, errors.NewInternalError(err)
	}
	if updated == nil {
		// Card vanished between the ownership check and the write.
		return nil, errors.NewNotFoundError("card")
	}

	s.invalidator.Invalidate(cache.DeckPath(card.DeckID))
	s.invalidator.Invalidate(cache.StudyPath(card.DeckID))

	// Stats refresh is best-effort; the next study result catches up.
	if err := s.queue.EnqueueStatsRefresh(card.DeckID); err != nil {
		log.Warn("failed to enqueue stats refresh for deck %d: %v", card.DeckID, err)
	}

	log.Debug("study result recorded: card_id=%d, mastery_level=%d, studied_count=%d", cardID, masteryLevel, updated.StudiedCount)
	return updated, nil
}
