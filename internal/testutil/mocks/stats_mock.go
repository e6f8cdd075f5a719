package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studydeck/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Refresh(ctx context.Context, deckID int64) error {
	args := m.Called(ctx, deckID)
	return args.Error(0)
}

func (m *MockStatsRepository) Get(ctx context.Context, deckID int64) (*models.DeckStats, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckStats), args.Error(1)
}

// MockQueue is a mock implementation of jobs.Queue
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) EnqueueStatsRefresh(deckID int64) error {
	args := m.Called(deckID)
	return args.Error(0)
}

// MockInvalidator is a mock implementation of cache.Invalidator
type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(path string) {
	m.Called(path)
}
