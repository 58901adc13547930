package database

import (
	"context"
	"fmt"

	"github.com/example/vocabbot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername returns the user record for a display name. Callers get
// sql.ErrNoRows (wrapped) when no such user exists.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT * FROM users WHERE username = ?")
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return &user, nil
}

// FindByTelegramID returns the user record for a Telegram id.
func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT * FROM users WHERE telegram_id = ?")
	if err := r.db.GetContext(ctx, &user, query, telegramID); err != nil {
		return nil, fmt.Errorf("failed to find user by telegram id: %w", err)
	}
	return &user, nil
}

// Upsert inserts a user or refreshes the username of an existing record.
// Called on every conversation start, so it must be idempotent.
func (r *UserRepository) Upsert(ctx context.Context, telegramID int64, username string) error {
	query := r.db.Rebind(`
		INSERT INTO users (telegram_id, username)
		VALUES (?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = excluded.username,
			updated_at = CURRENT_TIMESTAMP
	`)
	if _, err := r.db.ExecContext(ctx, query, telegramID, username); err != nil {
		return fmt.Errorf("failed to upsert user: %v", err)
	}
	return nil
}

// InsertPlaceholder creates a user record with no Telegram id for someone a
// teacher assigned cards to before their first contact.
func (r *UserRepository) InsertPlaceholder(ctx context.Context, username string) (*models.User, error) {
	query := r.db.Rebind(`
		INSERT INTO users (telegram_id, username, created_by_teacher)
		VALUES (NULL, ?, true)
	`)
	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return nil, fmt.Errorf("failed to insert placeholder user: %v", err)
	}
	return r.FindByUsername(ctx, username)
}

// DeletePlaceholder removes a placeholder record once its cards have been
// re-pointed to a real user.
func (r *UserRepository) DeletePlaceholder(ctx context.Context, id int64) error {
	query := r.db.Rebind("DELETE FROM users WHERE id = ? AND telegram_id IS NULL")
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete placeholder user: %v", err)
	}
	return nil
}

// ListRegistered returns all users who have contacted the bot themselves.
func (r *UserRepository) ListRegistered(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users,
		"SELECT * FROM users WHERE telegram_id IS NOT NULL ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to list registered users: %v", err)
	}
	return users, nil
}
