package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Refresh(ctx context.Context, deckID int64) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("refreshing deck stats: deck_id=%d", deckID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO deck_stats (deck_id, card_count, studied_card_count, avg_mastery, refreshed_at)
SELECT
    ?,
    COUNT(c.id),
    COUNT(CASE WHEN c.studied_count > 0 THEN c.id END),
    COALESCE(AVG(c.mastery_level), 0),
    CURRENT_TIMESTAMP
FROM cards c
WHERE c.deck_id = ?
ON CONFLICT(deck_id) DO UPDATE SET
    card_count = excluded.card_count,
    studied_card_count = excluded.studied_card_count,
    avg_mastery = excluded.avg_mastery,
    refreshed_at = excluded.refreshed_at
`, deckID, deckID)
	if err != nil {
		log.Error("failed to refresh deck stats: %v", err)
	}
	return err
}

func (r *statsRepository) Get(ctx context.Context, deckID int64) (*models.DeckStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("getting deck stats: deck_id=%d", deckID)

	var s models.DeckStats
	err := r.db.QueryRowContext(ctx, `
SELECT deck_id, card_count, studied_card_count, avg_mastery, refreshed_at
FROM deck_stats
WHERE deck_id = ?
`, deckID).Scan(&s.DeckID, &s.CardCount, &s.StudiedCardCount, &s.AvgMastery, &s.RefreshedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no cached stats for deck: deck_id=%d", deckID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck stats: %v", err)
		return nil, err
	}
	return &s, nil
}
