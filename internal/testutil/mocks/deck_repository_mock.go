package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

// MockDeckRepository is a mock implementation of repository.DeckRepository
type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Deck, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deck), args.Error(1)
}

func (m *MockDeckRepository) Get(ctx context.Context, id int64, ownerID string) (*models.Deck, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) Insert(ctx context.Context, ownerID, name, description string) (*models.Deck, error) {
	args := m.Called(ctx, ownerID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) Update(ctx context.Context, id int64, ownerID string, params repository.DeckUpdateParams) (*models.Deck, error) {
	args := m.Called(ctx, id, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) Delete(ctx context.Context, id int64, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}
