package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

const deckColumns = "id, owner_id, name, description, created_at, updated_at"

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func scanDeck(row interface{ Scan(...any) error }) (*models.Deck, error) {
	var d models.Deck
	err := row.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: owner_id=%s", ownerID)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+deckColumns+`
FROM decks
WHERE owner_id = ?
ORDER BY created_at ASC
`, ownerID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, *d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Get(ctx context.Context, id int64, ownerID string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d, owner_id=%s", id, ownerID)

	d, err := scanDeck(r.db.QueryRowContext(ctx, `
SELECT `+deckColumns+`
FROM decks
WHERE id = ? AND owner_id = ?
`, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found or not owned: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return d, nil
}

func (r *deckRepository) Insert(ctx context.Context, ownerID, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: owner_id=%s, name=%s", ownerID, name)

	d, err := scanDeck(r.db.QueryRowContext(ctx, `
INSERT INTO decks (owner_id, name, description)
VALUES (?, ?, ?)
RETURNING `+deckColumns+`
`, ownerID, name, description))
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return nil, err
	}
	log.Debug("deck inserted: id=%d", d.ID)
	return d, nil
}

func (r *deckRepository) Update(ctx context.Context, id int64, ownerID string, params repository.DeckUpdateParams) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%d, owner_id=%s", id, ownerID)

	query := sqlBuilder.Update("decks").
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		Suffix("RETURNING " + deckColumns)
	if params.Name != nil {
		query = query.Set("name", *params.Name)
	}
	if params.Description != nil {
		query = query.Set("description", *params.Description)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build update query: %v", err)
		return nil, err
	}

	d, err := scanDeck(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found or not owned for update: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to update deck: %v", err)
		return nil, err
	}
	return d, nil
}

func (r *deckRepository) Delete(ctx context.Context, id int64, ownerID string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck and its cards: id=%d, owner_id=%s", id, ownerID)

	// Explicit child delete inside the transaction so the cascade does not
	// depend on the connection having foreign keys enabled.
	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM cards
WHERE deck_id IN (SELECT id FROM decks WHERE id = ? AND owner_id = ?)
`, id, ownerID); err != nil {
			log.Error("failed to delete cards for deck %d: %v", id, err)
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM decks WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
			log.Error("failed to delete deck %d: %v", id, err)
			return err
		}
		return nil
	})
}
