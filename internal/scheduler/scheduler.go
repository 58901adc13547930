// Package scheduler sends a daily nudge to users who still have cards to
// practice.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/vocabbot/internal/database"
	"github.com/go-co-op/gocron"
)

// Notifier is the outbound side of reminders; the Telegram bot implements it.
type Notifier interface {
	SendReminder(userID int64, count int) error
}

// Scheduler manages the daily reminder job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	users     *database.UserRepository
	cards     *database.CardRepository
	hour      int
}

// New creates a scheduler that fires once a day at the given hour.
func New(notifier Notifier, users *database.UserRepository, cards *database.CardRepository, hour int) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		notifier:  notifier,
		users:     users,
		cards:     cards,
		hour:      hour,
	}
}

// Start begins running the reminder job in the background.
func (s *Scheduler) Start() {
	at := fmt.Sprintf("%02d:00", s.hour)
	s.scheduler.Every(1).Day().At(at).Do(s.sendReminders)
	s.scheduler.StartAsync()
	log.Printf("Practice reminder scheduled daily at %s", at)
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sendReminders notifies every registered user who has open cards.
func (s *Scheduler) sendReminders() {
	ctx := context.Background()

	users, err := s.users.ListRegistered(ctx)
	if err != nil {
		log.Printf("Error listing users for reminders: %v", err)
		return
	}

	for _, user := range users {
		if !user.TelegramID.Valid {
			continue
		}
		count, err := s.cards.CountByOwner(ctx, user.TelegramID.Int64)
		if err != nil {
			log.Printf("Error counting cards for user %d: %v", user.TelegramID.Int64, err)
			continue
		}
		if count == 0 {
			continue
		}
		if err := s.notifier.SendReminder(user.TelegramID.Int64, count); err != nil {
			log.Printf("Error sending reminder to user %d: %v", user.TelegramID.Int64, err)
		}
	}
}
