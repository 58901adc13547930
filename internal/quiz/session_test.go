package quiz

import (
	"context"
	"fmt"
	"testing"

	"github.com/example/vocabbot/internal/cards"
	"github.com/example/vocabbot/internal/database"
	"github.com/example/vocabbot/internal/directory"
	"github.com/example/vocabbot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conversationID = int64(1000)

func newTestSessions(t *testing.T) (*Sessions, *cards.Registry) {
	t.Helper()
	db, err := database.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cardRepo := database.NewCardRepository(db)
	dir := directory.New(database.NewUserRepository(db), cardRepo, nil)
	registry := cards.New(cardRepo, dir, 0)
	return NewSessions(registry), registry
}

func TestPoseRandomEmptyCollection(t *testing.T) {
	sessions, _ := newTestSessions(t)

	_, err := sessions.PoseRandom(context.Background(), conversationID, 1)
	assert.ErrorIs(t, err, cards.ErrNoCards)
}

func TestCheckAnswerWithoutPose(t *testing.T) {
	sessions, registry := newTestSessions(t)
	ctx := context.Background()

	_, err := registry.Add(ctx, models.ResolvedOwner(1), "dog", "chien")
	require.NoError(t, err)

	answer, err := sessions.CheckAnswer(ctx, conversationID, "dog")
	require.NoError(t, err)
	assert.Equal(t, NoActivePose, answer.Outcome)

	// Free chat must not mutate anything.
	count, err := registry.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCheckAnswerTrimsAndIgnoresCase(t *testing.T) {
	sessions, registry := newTestSessions(t)
	ctx := context.Background()

	_, err := registry.Add(ctx, models.ResolvedOwner(1), "dog", "chien")
	require.NoError(t, err)

	card, err := sessions.PoseRandom(ctx, conversationID, 1)
	require.NoError(t, err)
	assert.Equal(t, "chien", card.Translation)

	answer, err := sessions.CheckAnswer(ctx, conversationID, "  Dog ")
	require.NoError(t, err)
	assert.Equal(t, Correct, answer.Outcome)
	assert.Equal(t, "1/6", answer.Progress.String())
}

func TestIncorrectAnswerRevealsAndClears(t *testing.T) {
	sessions, registry := newTestSessions(t)
	ctx := context.Background()

	card, err := registry.Add(ctx, models.ResolvedOwner(1), "dog", "chien")
	require.NoError(t, err)

	_, err = sessions.PoseRandom(ctx, conversationID, 1)
	require.NoError(t, err)

	answer, err := sessions.CheckAnswer(ctx, conversationID, "cat")
	require.NoError(t, err)
	assert.Equal(t, Incorrect, answer.Outcome)
	assert.Equal(t, "dog", answer.Expected)

	// Wrong answers leave the count alone and spend the pose.
	fresh, err := registry.Random(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, card.ID, fresh.ID)
	assert.Equal(t, 0, fresh.MasteryCount)

	answer, err = sessions.CheckAnswer(ctx, conversationID, "dog")
	require.NoError(t, err)
	assert.Equal(t, NoActivePose, answer.Outcome)
}

func TestNewPoseSupersedesOldOne(t *testing.T) {
	sessions, registry := newTestSessions(t)
	ctx := context.Background()

	_, err := registry.Add(ctx, models.ResolvedOwner(1), "dog", "chien")
	require.NoError(t, err)
	_, err = registry.Add(ctx, models.ResolvedOwner(1), "cat", "chat")
	require.NoError(t, err)

	_, err = sessions.PoseRandom(ctx, conversationID, 1)
	require.NoError(t, err)
	second, err := sessions.PoseRandom(ctx, conversationID, 1)
	require.NoError(t, err)

	// Only the latest pose counts, whichever card it happens to be.
	answer, err := sessions.CheckAnswer(ctx, conversationID, second.Word)
	require.NoError(t, err)
	assert.Equal(t, Correct, answer.Outcome)

	answer, err = sessions.CheckAnswer(ctx, conversationID, "anything")
	require.NoError(t, err)
	assert.Equal(t, NoActivePose, answer.Outcome, "the first pose was discarded, not queued")
}

func TestSessionsArePerConversation(t *testing.T) {
	sessions, registry := newTestSessions(t)
	ctx := context.Background()

	_, err := registry.Add(ctx, models.ResolvedOwner(1), "dog", "chien")
	require.NoError(t, err)

	_, err = sessions.PoseRandom(ctx, conversationID, 1)
	require.NoError(t, err)

	answer, err := sessions.CheckAnswer(ctx, conversationID+1, "dog")
	require.NoError(t, err)
	assert.Equal(t, NoActivePose, answer.Outcome)
}

func TestSixCorrectAnswersMasterTheCard(t *testing.T) {
	sessions, registry := newTestSessions(t)
	ctx := context.Background()

	_, err := registry.Add(ctx, models.ResolvedOwner(1), "dog", "chien")
	require.NoError(t, err)

	for i := 1; i <= 6; i++ {
		card, err := sessions.PoseRandom(ctx, conversationID, 1)
		require.NoError(t, err)
		assert.Equal(t, "chien", card.Translation)

		answer, err := sessions.CheckAnswer(ctx, conversationID, "Dog ")
		require.NoError(t, err)
		require.Equal(t, Correct, answer.Outcome)

		if i < 6 {
			assert.False(t, answer.Progress.Mastered)
			assert.Equal(t, fmt.Sprintf("%d/6", i), answer.Progress.String())
		} else {
			assert.True(t, answer.Progress.Mastered)
		}
	}

	// Mastered means gone: nothing left to pose.
	count, err := registry.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = sessions.PoseRandom(ctx, conversationID, 1)
	assert.ErrorIs(t, err, cards.ErrNoCards)
}
