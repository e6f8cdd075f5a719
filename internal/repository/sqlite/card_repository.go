package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

const cardColumns = "id, deck_id, front, back, studied_count, last_studied, mastery_level, created_at, updated_at"

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func scanCard(row interface{ Scan(...any) error }) (*models.Card, error) {
	var c models.Card
	var lastStudied sql.NullTime
	err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.StudiedCount, &lastStudied, &c.MasteryLevel, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastStudied.Valid {
		t := lastStudied.Time
		c.LastStudied = &t
	}
	return &c, nil
}

func (r *cardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: deck_id=%d", deckID)

	sqlStr, args, err := sqlBuilder.Select(cardColumns).
		From("cards").
		Where(squirrel.Eq{"deck_id": deckID}).
		OrderBy("updated_at DESC", "id DESC").
		ToSql()
	if err != nil {
		log.Error("failed to build list query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, *c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	c, err := scanCard(r.db.QueryRowContext(ctx, `
SELECT `+cardColumns+`
FROM cards
WHERE id = ?
`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) GetOwned(ctx context.Context, id int64, ownerID string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card with ownership check: id=%d, owner_id=%s", id, ownerID)

	// Single join so there is no gap between checking deck ownership and
	// reading the card.
	c, err := scanCard(r.db.QueryRowContext(ctx, `
SELECT c.id, c.deck_id, c.front, c.back, c.studied_count, c.last_studied, c.mastery_level, c.created_at, c.updated_at
FROM cards c
JOIN decks d ON d.id = c.deck_id
WHERE c.id = ? AND d.owner_id = ?
`, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found or not owned: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get owned card: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) Insert(ctx context.Context, deckID int64, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d", deckID)

	c, err := scanCard(r.db.QueryRowContext(ctx, `
INSERT INTO cards (deck_id, front, back)
VALUES (?, ?, ?)
RETURNING `+cardColumns+`
`, deckID, front, back))
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, err
	}
	log.Debug("card inserted: id=%d", c.ID)
	return c, nil
}

func (r *cardRepository) Update(ctx context.Context, id int64, params repository.CardUpdateParams) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%d", id)

	query := sqlBuilder.Update("cards").
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + cardColumns)
	if params.Front != nil {
		query = query.Set("front", *params.Front)
	}
	if params.Back != nil {
		query = query.Set("back", *params.Back)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build update query: %v", err)
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found for update: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to update card: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) UpdateStudyProgress(ctx context.Context, id int64, studiedCount int, lastStudied time.Time, masteryLevel int) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating study progress: id=%d, studied_count=%d, mastery_level=%d", id, studiedCount, masteryLevel)

	c, err := scanCard(r.db.QueryRowContext(ctx, `
UPDATE cards
SET studied_count = ?, last_studied = ?, mastery_level = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
RETURNING `+cardColumns+`
`, studiedCount, lastStudied, masteryLevel, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found for study update: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to update study progress: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
	}
	return err
}

func (r *cardRepository) DeleteByDeck(ctx context.Context, deckID int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting all cards in deck: deck_id=%d", deckID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = ?`, deckID)
	if err != nil {
		log.Error("failed to delete cards for deck %d: %v", deckID, err)
	}
	return err
}
