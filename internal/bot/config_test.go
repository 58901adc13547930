package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TEACHER_USER_IDS", "7, 42,oops")
	t.Setenv("MASTERY_THRESHOLD", "4")
	t.Setenv("REMINDER_HOUR", "18")
	t.Setenv("ENABLE_SCHEDULER", "")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Token)
	assert.True(t, cfg.TeacherIDs[7])
	assert.True(t, cfg.TeacherIDs[42])
	assert.Len(t, cfg.TeacherIDs, 2, "malformed ids are skipped, not fatal")
	assert.Equal(t, 4, cfg.MasteryThreshold)
	assert.Equal(t, 18, cfg.ReminderHour)
	assert.True(t, cfg.SchedulerEnabled)
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TEACHER_USER_IDS", "")
	t.Setenv("MASTERY_THRESHOLD", "")
	t.Setenv("REMINDER_HOUR", "")
	t.Setenv("ENABLE_SCHEDULER", "false")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.MasteryThreshold)
	assert.Equal(t, 9, cfg.ReminderHour)
	assert.Empty(t, cfg.TeacherIDs)
	assert.False(t, cfg.SchedulerEnabled)
}

func TestConfigFromEnvRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := ConfigFromEnv()
	assert.Error(t, err)
}

func TestConfigFromEnvRejectsBadThreshold(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("MASTERY_THRESHOLD", "zero")

	_, err := ConfigFromEnv()
	assert.Error(t, err)
}
