package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/vocabbot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// CardRepository handles database operations for cards
type CardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new repository instance
func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Insert stores a new card. ID, owner fields, word and translation must be
// set by the caller; the mastery count always starts at zero.
func (r *CardRepository) Insert(ctx context.Context, card *models.Card) error {
	query := r.db.Rebind(`
		INSERT INTO cards (id, owner_id, pending_owner, word, translation, mastery_count)
		VALUES (?, ?, ?, ?, ?, 0)
	`)
	_, err := r.db.ExecContext(ctx, query,
		card.ID, card.OwnerID, card.PendingOwner, card.Word, card.Translation)
	if err != nil {
		return fmt.Errorf("failed to insert card: %v", err)
	}
	return nil
}

// GetByID returns a card by its id.
func (r *CardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	var card models.Card
	query := r.db.Rebind("SELECT * FROM cards WHERE id = ?")
	if err := r.db.GetContext(ctx, &card, query, id); err != nil {
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}
	return &card, nil
}

// CountByOwner returns how many cards an owner currently has.
func (r *CardRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM cards WHERE owner_id = ?")
	if err := r.db.GetContext(ctx, &count, query, ownerID); err != nil {
		return 0, fmt.Errorf("failed to count cards: %v", err)
	}
	return count, nil
}

// RandomByOwner returns one of the owner's cards, chosen uniformly at
// random. Returns sql.ErrNoRows (wrapped) when the owner has no cards.
func (r *CardRepository) RandomByOwner(ctx context.Context, ownerID int64) (*models.Card, error) {
	var card models.Card
	query := r.db.Rebind("SELECT * FROM cards WHERE owner_id = ? ORDER BY RANDOM() LIMIT 1")
	if err := r.db.GetContext(ctx, &card, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to sample card: %w", err)
	}
	return &card, nil
}

// ListByOwner returns all of an owner's cards, oldest first.
func (r *CardRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Card, error) {
	var cards []models.Card
	query := r.db.Rebind("SELECT * FROM cards WHERE owner_id = ? ORDER BY created_at, id")
	if err := r.db.SelectContext(ctx, &cards, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list cards: %v", err)
	}
	return cards, nil
}

// IncrementMastery atomically adds one to a card's mastery count and returns
// the post-increment record.
func (r *CardRepository) IncrementMastery(ctx context.Context, id string) (*models.Card, error) {
	if r.db.DriverName() == "postgres" {
		var card models.Card
		query := `
			UPDATE cards
			SET mastery_count = mastery_count + 1, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		`
		if err := r.db.GetContext(ctx, &card, query, id); err != nil {
			return nil, fmt.Errorf("failed to increment mastery: %w", err)
		}
		return &card, nil
	}

	// SQLite has no RETURNING on this driver version; the pool is pinned to
	// a single connection, so the read-back observes our own update.
	res, err := r.db.ExecContext(ctx,
		"UPDATE cards SET mastery_count = mastery_count + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to increment mastery: %v", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("failed to increment mastery: %w", sql.ErrNoRows)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a card.
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind("DELETE FROM cards WHERE id = ?")
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete card: %v", err)
	}
	return nil
}

// DeleteByOwner removes every card belonging to one owner and reports how
// many were deleted. Cards of other owners are never touched.
func (r *CardRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	query := r.db.Rebind("DELETE FROM cards WHERE owner_id = ?")
	res, err := r.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cards: %v", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted cards: %v", err)
	}
	return deleted, nil
}

// ReassignPending re-points all cards waiting on a display name to a real
// user id. Returns the number of cards adopted.
func (r *CardRepository) ReassignPending(ctx context.Context, pendingName string, ownerID int64) (int64, error) {
	query := r.db.Rebind(`
		UPDATE cards
		SET owner_id = ?, pending_owner = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE owner_id IS NULL AND pending_owner = ?
	`)
	res, err := r.db.ExecContext(ctx, query, ownerID, pendingName)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign pending cards: %v", err)
	}
	adopted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count reassigned cards: %v", err)
	}
	return adopted, nil
}
