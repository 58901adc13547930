// Package directory resolves identities: who a Telegram id belongs to,
// whether an actor holds teacher privileges, and which user a teacher-named
// assignment target maps to.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/example/vocabbot/internal/database"
	"github.com/example/vocabbot/pkg/models"
)

// ErrNotFound is returned by lookups that must not auto-create a user.
var ErrNotFound = errors.New("user not found")

// Directory owns identity resolution and the teacher-privilege check.
type Directory struct {
	users      *database.UserRepository
	cards      *database.CardRepository
	teacherIDs map[int64]bool
}

// New creates a directory backed by the given repositories. teacherIDs is
// the set of privileged identities allowed to assign cards to others.
func New(users *database.UserRepository, cards *database.CardRepository, teacherIDs map[int64]bool) *Directory {
	if teacherIDs == nil {
		teacherIDs = make(map[int64]bool)
	}
	return &Directory{users: users, cards: cards, teacherIDs: teacherIDs}
}

// IsTeacher reports whether the id belongs to a configured teacher.
func (d *Directory) IsTeacher(telegramID int64) bool {
	return d.teacherIDs[telegramID]
}

// RegisterOrTouch upserts the identity for a conversation start. If a
// teacher previously created a placeholder for this username, all cards
// waiting on that name are re-pointed to the real id and the placeholder
// record is dropped.
func (d *Directory) RegisterOrTouch(ctx context.Context, telegramID int64, username string) error {
	placeholder := d.findPlaceholder(ctx, username)

	if err := d.users.Upsert(ctx, telegramID, username); err != nil {
		return err
	}

	if placeholder == nil {
		return nil
	}

	adopted, err := d.cards.ReassignPending(ctx, username, telegramID)
	if err != nil {
		return fmt.Errorf("failed to adopt assigned cards: %w", err)
	}
	if adopted > 0 {
		log.Printf("User %d (@%s) adopted %d pre-assigned cards", telegramID, username, adopted)
	}

	return d.users.DeletePlaceholder(ctx, placeholder.ID)
}

// findPlaceholder returns the teacher-created placeholder for a username,
// or nil when there is none.
func (d *Directory) findPlaceholder(ctx context.Context, username string) *models.User {
	if username == "" {
		return nil
	}
	user, err := d.users.FindByUsername(ctx, username)
	if err != nil || user.TelegramID.Valid || !user.CreatedByTeacher {
		return nil
	}
	return user
}

// ResolveAssignmentTarget maps a display name to a card owner. An existing
// user resolves to their id; an unknown name gets a placeholder record and
// resolves to a pending owner keyed by that name.
func (d *Directory) ResolveAssignmentTarget(ctx context.Context, username string) (models.Owner, error) {
	user, err := d.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return models.Owner{}, err
		}
		if _, err := d.users.InsertPlaceholder(ctx, username); err != nil {
			return models.Owner{}, err
		}
		return models.PendingOwner(username), nil
	}

	if user.TelegramID.Valid {
		return models.ResolvedOwner(user.TelegramID.Int64), nil
	}
	// Placeholder from an earlier assignment; keep stacking cards on it.
	return models.PendingOwner(username), nil
}

// Lookup finds an existing user by display name without ever creating one.
func (d *Directory) Lookup(ctx context.Context, username string) (*models.User, error) {
	user, err := d.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
