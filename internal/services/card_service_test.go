package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studydeck/internal/cache"
	apperrors "github.com/vytor/studydeck/internal/errors"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/services"
	"github.com/vytor/studydeck/internal/testutil/mocks"
)

func newCardServiceMocks() (services.CardService, *mocks.MockDeckRepository, *mocks.MockCardRepository, *mocks.MockQueue, *mocks.MockInvalidator) {
	decks := new(mocks.MockDeckRepository)
	cards := new(mocks.MockCardRepository)
	queue := new(mocks.MockQueue)
	invalidator := new(mocks.MockInvalidator)
	svc := services.NewCardService(decks, cards, queue, invalidator)
	return svc, decks, cards, queue, invalidator
}

func TestCreateCard(t *testing.T) {
	svc, decks, cards, _, invalidator := newCardServiceMocks()
	ctx := authedCtx("user-1")

	decks.On("Get", mock.Anything, int64(3), "user-1").Return(&models.Deck{ID: 3, OwnerID: "user-1"}, nil)
	want := &models.Card{ID: 9, DeckID: 3, Front: "hola", Back: "hello"}
	cards.On("Insert", mock.Anything, int64(3), "hola", "hello").Return(want, nil)
	invalidator.On("Invalidate", cache.DeckPath(3)).Return()
	invalidator.On("Invalidate", cache.DashboardPath("user-1")).Return()

	card, err := svc.CreateCard(ctx, 3, "hola", "hello")
	require.NoError(t, err)
	assert.Equal(t, want, card)

	cards.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestCreateCardValidation(t *testing.T) {
	svc, _, cards, _, _ := newCardServiceMocks()
	ctx := authedCtx("user-1")

	tests := []struct {
		testName string
		front    string
		back     string
		field    string
	}{
		{"empty front", "", "hello", "front"},
		{"empty back", "hola", "", "back"},
		{"front too long", strings.Repeat("a", 1001), "hello", "front"},
		{"back too long", "hola", strings.Repeat("a", 1001), "back"},
	}

	for _, tt := range tests {
		t.Run(tt.testName, func(t *testing.T) {
			card, err := svc.CreateCard(ctx, 3, tt.front, tt.back)
			assert.Nil(t, card)
			appErr := asAppError(t, err, apperrors.ErrCodeValidation)
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}

	cards.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCardDeckNotOwned(t *testing.T) {
	svc, decks, cards, _, _ := newCardServiceMocks()
	ctx := authedCtx("user-2")

	decks.On("Get", mock.Anything, int64(3), "user-2").Return(nil, nil)

	card, err := svc.CreateCard(ctx, 3, "hola", "hello")
	assert.Nil(t, card)
	asAppError(t, err, apperrors.ErrCodeNotFound)

	cards.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListCardsDeckNotOwned(t *testing.T) {
	svc, decks, cards, _, _ := newCardServiceMocks()
	ctx := authedCtx("user-2")

	decks.On("Get", mock.Anything, int64(3), "user-2").Return(nil, nil)

	got, err := svc.ListCards(ctx, 3)
	assert.Nil(t, got)
	asAppError(t, err, apperrors.ErrCodeNotFound)

	cards.AssertNotCalled(t, "ListByDeck", mock.Anything, mock.Anything)
}

func TestUpdateCard(t *testing.T) {
	svc, _, cards, _, invalidator := newCardServiceMocks()
	ctx := authedCtx("user-1")

	existing := &models.Card{ID: 9, DeckID: 3, Front: "hola", Back: "helo"}
	updated := &models.Card{ID: 9, DeckID: 3, Front: "hola", Back: "hello"}
	cards.On("GetOwned", mock.Anything, int64(9), "user-1").Return(existing, nil)
	cards.On("Update", mock.Anything, int64(9), mock.Anything).Return(updated, nil)
	invalidator.On("Invalidate", cache.DeckPath(3)).Return()
	invalidator.On("Invalidate", cache.CardEditPath(3, 9)).Return()
	invalidator.On("Invalidate", cache.DashboardPath("user-1")).Return()

	card, err := svc.UpdateCard(ctx, 9, "hola", "hello")
	require.NoError(t, err)
	assert.Equal(t, updated, card)

	invalidator.AssertExpectations(t)
}

func TestUpdateCardNotOwned(t *testing.T) {
	svc, _, cards, _, _ := newCardServiceMocks()
	ctx := authedCtx("user-2")

	cards.On("GetOwned", mock.Anything, int64(9), "user-2").Return(nil, nil)

	card, err := svc.UpdateCard(ctx, 9, "hola", "hello")
	assert.Nil(t, card)
	asAppError(t, err, apperrors.ErrCodeNotFound)

	cards.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteCard(t *testing.T) {
	svc, _, cards, _, invalidator := newCardServiceMocks()
	ctx := authedCtx("user-1")

	cards.On("GetOwned", mock.Anything, int64(9), "user-1").Return(&models.Card{ID: 9, DeckID: 3}, nil)
	cards.On("Delete", mock.Anything, int64(9)).Return(nil)
	invalidator.On("Invalidate", cache.DeckPath(3)).Return()
	invalidator.On("Invalidate", cache.DashboardPath("user-1")).Return()

	require.NoError(t, svc.DeleteCard(ctx, 9))

	cards.AssertExpectations(t)
}

func TestStudyCard(t *testing.T) {
	svc, _, cards, queue, invalidator := newCardServiceMocks()
	ctx := authedCtx("user-1")

	existing := &models.Card{ID: 9, DeckID: 3, StudiedCount: 4}
	updated := &models.Card{ID: 9, DeckID: 3, StudiedCount: 5, MasteryLevel: 3}
	cards.On("GetOwned", mock.Anything, int64(9), "user-1").Return(existing, nil)
	cards.On("UpdateStudyProgress", mock.Anything, int64(9), 5, mock.AnythingOfType("time.Time"), 3).Return(updated, nil)
	invalidator.On("Invalidate", cache.DeckPath(3)).Return()
	invalidator.On("Invalidate", cache.StudyPath(3)).Return()
	queue.On("EnqueueStatsRefresh", int64(3)).Return(nil)

	card, err := svc.StudyCard(ctx, 9, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, card.StudiedCount)
	assert.Equal(t, 3, card.MasteryLevel)

	cards.AssertExpectations(t)
	queue.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestStudyCardRepeatedIncrements(t *testing.T) {
	svc, _, cards, queue, invalidator := newCardServiceMocks()
	ctx := authedCtx("user-1")

	first := &models.Card{ID: 9, DeckID: 3, StudiedCount: 0}
	afterFirst := &models.Card{ID: 9, DeckID: 3, StudiedCount: 1, MasteryLevel: 5}
	afterSecond := &models.Card{ID: 9, DeckID: 3, StudiedCount: 2, MasteryLevel: 5}

	cards.On("GetOwned", mock.Anything, int64(9), "user-1").Return(first, nil).Once()
	cards.On("UpdateStudyProgress", mock.Anything, int64(9), 1, mock.AnythingOfType("time.Time"), 5).Return(afterFirst, nil).Once()
	cards.On("GetOwned", mock.Anything, int64(9), "user-1").Return(afterFirst, nil).Once()
	cards.On("UpdateStudyProgress", mock.Anything, int64(9), 2, mock.AnythingOfType("time.Time"), 5).Return(afterSecond, nil).Once()
	invalidator.On("Invalidate", mock.Anything).Return()
	queue.On("EnqueueStatsRefresh", int64(3)).Return(nil)

	card, err := svc.StudyCard(ctx, 9, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, card.StudiedCount)

	card, err = svc.StudyCard(ctx, 9, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, card.StudiedCount)

	cards.AssertExpectations(t)
}

func TestStudyCardInvalidMastery(t *testing.T) {
	svc, _, cards, _, _ := newCardServiceMocks()
	ctx := authedCtx("user-1")

	for _, level := range []int{-1, 6} {
		card, err := svc.StudyCard(ctx, 9, level)
		assert.Nil(t, card)
		appErr := asAppError(t, err, apperrors.ErrCodeValidation)
		assert.Contains(t, appErr.Fields, "masteryLevel")
	}

	cards.AssertNotCalled(t, "GetOwned", mock.Anything, mock.Anything, mock.Anything)
}

func TestStudyCardUnauthenticated(t *testing.T) {
	svc, _, cards, _, _ := newCardServiceMocks()

	card, err := svc.StudyCard(context.Background(), 9, 3)
	assert.Nil(t, card)
	asAppError(t, err, apperrors.ErrCodeUnauthorized)

	cards.AssertNotCalled(t, "GetOwned", mock.Anything, mock.Anything, mock.Anything)
	cards.AssertNotCalled(t, "UpdateStudyProgress", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStudyCardQueueFullIsNotFatal(t *testing.T) {
	svc, _, cards, queue, invalidator := newCardServiceMocks()
	ctx := authedCtx("user-1")

	existing := &models.Card{ID: 9, DeckID: 3, StudiedCount: 0}
	updated := &models.Card{ID: 9, DeckID: 3, StudiedCount: 1, MasteryLevel: 2}
	cards.On("GetOwned", mock.Anything, int64(9), "user-1").Return(existing, nil)
	cards.On("UpdateStudyProgress", mock.Anything, int64(9), 1, mock.AnythingOfType("time.Time"), 2).Return(updated, nil)
	invalidator.On("Invalidate", mock.Anything).Return()
	queue.On("EnqueueStatsRefresh", int64(3)).Return(assert.AnError)

	card, err := svc.StudyCard(ctx, 9, 2)
	require.NoError(t, err)
	assert.Equal(t, updated, card)
}
