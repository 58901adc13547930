// Package cards owns the flashcard lifecycle: creation, teacher assignment,
// the mastery-progression state machine and bulk deletion.
package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/vocabbot/internal/database"
	"github.com/example/vocabbot/internal/directory"
	"github.com/example/vocabbot/pkg/models"
	"github.com/google/uuid"
)

// DefaultMasteryThreshold is the number of correct answers after which a
// card is retired.
const DefaultMasteryThreshold = 6

var (
	// ErrMalformedInput signals an empty word or translation.
	ErrMalformedInput = errors.New("word and translation must be non-empty")
	// ErrPermissionDenied signals a non-teacher assigning cards to others.
	ErrPermissionDenied = errors.New("only a teacher may assign cards to other users")
	// ErrNoCards signals an operation on an owner with an empty collection.
	ErrNoCards = errors.New("no cards for this user")
)

// Progress reports where a card stands after a correct answer.
type Progress struct {
	Count     int
	Threshold int
	Mastered  bool
}

// String renders progress in the "n/6" form shown to users.
func (p Progress) String() string {
	return fmt.Sprintf("%d/%d", p.Count, p.Threshold)
}

// Registry is the service object for card operations.
type Registry struct {
	cards     *database.CardRepository
	dir       *directory.Directory
	threshold int
}

// New creates a registry. A non-positive threshold falls back to the
// default of 6.
func New(cards *database.CardRepository, dir *directory.Directory, threshold int) *Registry {
	if threshold <= 0 {
		threshold = DefaultMasteryThreshold
	}
	return &Registry{cards: cards, dir: dir, threshold: threshold}
}

// Threshold returns the configured mastery threshold.
func (r *Registry) Threshold() int {
	return r.threshold
}

// Add validates and stores a new card with a zero mastery count.
func (r *Registry) Add(ctx context.Context, owner models.Owner, word, translation string) (*models.Card, error) {
	word = strings.TrimSpace(word)
	translation = strings.TrimSpace(translation)
	if word == "" || translation == "" {
		return nil, ErrMalformedInput
	}

	card := &models.Card{
		ID:          uuid.NewString(),
		Word:        word,
		Translation: translation,
	}
	if id, ok := owner.Resolved(); ok {
		card.OwnerID = sql.NullInt64{Int64: id, Valid: true}
	} else {
		card.PendingOwner = sql.NullString{String: owner.PendingName(), Valid: true}
	}

	if err := r.cards.Insert(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// AddForTarget stores a card for another user, named by display name. Only
// configured teachers may do this; the target need not be registered yet.
func (r *Registry) AddForTarget(ctx context.Context, requesterID int64, targetName, word, translation string) (*models.Card, error) {
	if !r.dir.IsTeacher(requesterID) {
		return nil, ErrPermissionDenied
	}
	// Validate before touching the directory so a bad pair never leaves a
	// stray placeholder behind.
	if strings.TrimSpace(word) == "" || strings.TrimSpace(translation) == "" {
		return nil, ErrMalformedInput
	}

	owner, err := r.dir.ResolveAssignmentTarget(ctx, targetName)
	if err != nil {
		return nil, err
	}
	return r.Add(ctx, owner, word, translation)
}

// AdvanceMastery runs the single state transition of the system: one more
// correct answer for a card. Below the threshold the card stays in play and
// the new count is reported; at the threshold the card is deleted, so a
// card with mastery_count >= threshold is never observable.
func (r *Registry) AdvanceMastery(ctx context.Context, cardID string) (Progress, error) {
	card, err := r.cards.IncrementMastery(ctx, cardID)
	if err != nil {
		return Progress{}, err
	}

	if card.MasteryCount >= r.threshold {
		if err := r.cards.Delete(ctx, cardID); err != nil {
			return Progress{}, err
		}
		return Progress{Count: card.MasteryCount, Threshold: r.threshold, Mastered: true}, nil
	}

	return Progress{Count: card.MasteryCount, Threshold: r.threshold}, nil
}

// ClearAll deletes every card the owner has and reports the count. There is
// deliberately no way to clear someone else's cards, teacher or not.
func (r *Registry) ClearAll(ctx context.Context, ownerID int64) (int64, error) {
	return r.cards.DeleteByOwner(ctx, ownerID)
}

// Count returns how many cards the owner has.
func (r *Registry) Count(ctx context.Context, ownerID int64) (int, error) {
	return r.cards.CountByOwner(ctx, ownerID)
}

// Random samples one of the owner's cards uniformly. Returns ErrNoCards for
// an empty collection.
func (r *Registry) Random(ctx context.Context, ownerID int64) (*models.Card, error) {
	card, err := r.cards.RandomByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoCards
		}
		return nil, err
	}
	return card, nil
}

// List returns the owner's cards, oldest first.
func (r *Registry) List(ctx context.Context, ownerID int64) ([]models.Card, error) {
	return r.cards.ListByOwner(ctx, ownerID)
}
