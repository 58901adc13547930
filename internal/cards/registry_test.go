package cards

import (
	"context"
	"testing"

	"github.com/example/vocabbot/internal/database"
	"github.com/example/vocabbot/internal/directory"
	"github.com/example/vocabbot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, teacherIDs map[int64]bool) (*Registry, *database.UserRepository) {
	t.Helper()
	db, err := database.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := database.NewUserRepository(db)
	cardRepo := database.NewCardRepository(db)
	dir := directory.New(users, cardRepo, teacherIDs)
	return New(cardRepo, dir, 0), users
}

func TestAddValidatesInput(t *testing.T) {
	registry, _ := newTestRegistry(t, nil)
	ctx := context.Background()
	owner := models.ResolvedOwner(1)

	_, err := registry.Add(ctx, owner, "", "chien")
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = registry.Add(ctx, owner, "dog", "   ")
	assert.ErrorIs(t, err, ErrMalformedInput)

	count, err := registry.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "invalid input must not insert anything")
}

func TestAddStartsAtZero(t *testing.T) {
	registry, _ := newTestRegistry(t, nil)
	ctx := context.Background()

	card, err := registry.Add(ctx, models.ResolvedOwner(1), "  dog ", " chien ")
	require.NoError(t, err)

	assert.Equal(t, "dog", card.Word)
	assert.Equal(t, "chien", card.Translation)
	assert.Equal(t, 0, card.MasteryCount)
}

func TestAddForTargetRequiresTeacher(t *testing.T) {
	registry, users := newTestRegistry(t, map[int64]bool{7: true})
	ctx := context.Background()

	_, err := registry.AddForTarget(ctx, 8, "bob", "cat", "chat")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Denied requests must leave nothing behind, placeholder included.
	_, err = users.FindByUsername(ctx, "bob")
	assert.Error(t, err)
}

func TestAddForTargetUnregisteredName(t *testing.T) {
	registry, users := newTestRegistry(t, map[int64]bool{7: true})
	ctx := context.Background()

	card, err := registry.AddForTarget(ctx, 7, "bob", "cat", "chat")
	require.NoError(t, err)

	assert.False(t, card.OwnerID.Valid, "card waits on the name until bob registers")
	require.True(t, card.PendingOwner.Valid)
	assert.Equal(t, "bob", card.PendingOwner.String)

	user, err := users.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, user.CreatedByTeacher)
}

func TestAdvanceMasteryProgression(t *testing.T) {
	registry, _ := newTestRegistry(t, nil)
	ctx := context.Background()

	card, err := registry.Add(ctx, models.ResolvedOwner(1), "dog", "chien")
	require.NoError(t, err)

	progress, err := registry.AdvanceMastery(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Count)
	assert.False(t, progress.Mastered)
	assert.Equal(t, "1/6", progress.String())

	count, err := registry.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "card below the threshold must survive")
}

func TestMasteryThresholdRetiresCard(t *testing.T) {
	registry, _ := newTestRegistry(t, nil)
	ctx := context.Background()

	card, err := registry.Add(ctx, models.ResolvedOwner(1), "dog", "chien")
	require.NoError(t, err)

	for i := 1; i < DefaultMasteryThreshold; i++ {
		progress, err := registry.AdvanceMastery(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, i, progress.Count)
		assert.False(t, progress.Mastered)
	}

	progress, err := registry.AdvanceMastery(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, progress.Mastered)

	// A retired card is gone, not stored at the threshold.
	count, err := registry.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = registry.Random(ctx, 1)
	assert.ErrorIs(t, err, ErrNoCards)
}

func TestClearAllIsScopedToOwner(t *testing.T) {
	registry, _ := newTestRegistry(t, nil)
	ctx := context.Background()

	_, err := registry.Add(ctx, models.ResolvedOwner(1), "dog", "chien")
	require.NoError(t, err)
	_, err = registry.Add(ctx, models.ResolvedOwner(1), "cat", "chat")
	require.NoError(t, err)
	_, err = registry.Add(ctx, models.ResolvedOwner(2), "bird", "oiseau")
	require.NoError(t, err)

	deleted, err := registry.ClearAll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err := registry.Count(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRandomEmptyCollection(t *testing.T) {
	registry, _ := newTestRegistry(t, nil)

	_, err := registry.Random(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoCards)
}
