package bot

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the bot reads from the environment.
type Config struct {
	// Telegram bot token
	Token string
	// Set of user ids allowed to assign cards to other users
	TeacherIDs map[int64]bool
	// Correct answers needed before a card is retired
	MasteryThreshold int
	// Whether the daily practice reminder runs
	SchedulerEnabled bool
	// Hour of day (0-23) for the practice reminder
	ReminderHour int
}

// ConfigFromEnv builds the configuration from environment variables.
func ConfigFromEnv() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	cfg := &Config{
		Token:            token,
		TeacherIDs:       make(map[int64]bool),
		MasteryThreshold: 6,
		SchedulerEnabled: os.Getenv("ENABLE_SCHEDULER") != "false",
		ReminderHour:     9,
	}

	if ids := os.Getenv("TEACHER_USER_IDS"); ids != "" {
		for _, idStr := range strings.Split(ids, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				log.Printf("Warning: Invalid teacher user ID: %s", idStr)
				continue
			}
			cfg.TeacherIDs[id] = true
		}
	}

	if v := os.Getenv("MASTERY_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid MASTERY_THRESHOLD: %s", v)
		}
		cfg.MasteryThreshold = n
	}

	if v := os.Getenv("REMINDER_HOUR"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h < 0 || h > 23 {
			return nil, fmt.Errorf("invalid REMINDER_HOUR: %s", v)
		}
		cfg.ReminderHour = h
	}

	return cfg, nil
}
