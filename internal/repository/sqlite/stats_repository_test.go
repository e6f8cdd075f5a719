package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
	"github.com/vytor/studydeck/internal/repository/sqlite"
	"github.com/vytor/studydeck/internal/testutil"
)

type StatsRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	cards repository.CardRepository
	repo  repository.StatsRepository
	deck  *models.Deck
}

func (s *StatsRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.cards = sqlite.NewCardRepository(s.db)
	s.repo = sqlite.NewStatsRepository(s.db)

	deck, err := sqlite.NewDeckRepository(s.db).Insert(context.Background(), "user-a", "Spanish", "")
	s.Require().NoError(err)
	s.deck = deck
}

func (s *StatsRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StatsRepositorySuite) TestGetWithoutRefresh() {
	stats, err := s.repo.Get(context.Background(), s.deck.ID)
	s.Require().NoError(err)
	s.Assert().Nil(stats)
}

func (s *StatsRepositorySuite) TestRefreshEmptyDeck() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Refresh(ctx, s.deck.ID))

	stats, err := s.repo.Get(ctx, s.deck.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stats)
	s.Assert().Equal(0, stats.CardCount)
	s.Assert().Equal(0, stats.StudiedCardCount)
	s.Assert().Equal(0.0, stats.AvgMastery)
}

func (s *StatsRepositorySuite) TestRefreshAggregates() {
	ctx := context.Background()

	studied, err := s.cards.Insert(ctx, s.deck.ID, "hola", "hello")
	s.Require().NoError(err)
	_, err = s.cards.Insert(ctx, s.deck.ID, "adios", "bye")
	s.Require().NoError(err)
	_, err = s.cards.UpdateStudyProgress(ctx, studied.ID, 1, time.Now().UTC(), 4)
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Refresh(ctx, s.deck.ID))

	stats, err := s.repo.Get(ctx, s.deck.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stats)
	s.Assert().Equal(s.deck.ID, stats.DeckID)
	s.Assert().Equal(2, stats.CardCount)
	s.Assert().Equal(1, stats.StudiedCardCount)
	s.Assert().InDelta(2.0, stats.AvgMastery, 0.001)
	s.Assert().False(stats.RefreshedAt.IsZero())
}

func (s *StatsRepositorySuite) TestRefreshReplacesPreviousRow() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Refresh(ctx, s.deck.ID))

	_, err := s.cards.Insert(ctx, s.deck.ID, "hola", "hello")
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Refresh(ctx, s.deck.ID))

	stats, err := s.repo.Get(ctx, s.deck.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stats)
	s.Assert().Equal(1, stats.CardCount)
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositorySuite))
}
