package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/vocabbot/internal/bot"
	"github.com/example/vocabbot/internal/cards"
	"github.com/example/vocabbot/internal/database"
	"github.com/example/vocabbot/internal/directory"
	"github.com/example/vocabbot/internal/quiz"
	"github.com/example/vocabbot/internal/scheduler"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	config, err := bot.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.Connect(os.Getenv("DATABASE_URL"), os.Getenv("DATA_DIR"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	users := database.NewUserRepository(db)
	cardRepo := database.NewCardRepository(db)
	dir := directory.New(users, cardRepo, config.TeacherIDs)
	registry := cards.New(cardRepo, dir, config.MasteryThreshold)
	sessions := quiz.NewSessions(registry)

	b, err := bot.New(config, dir, registry, sessions, nil)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	if config.SchedulerEnabled {
		b.SetScheduler(scheduler.New(b, users, cardRepo, config.ReminderHour))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Printf("Bot error: %v", err)
	}

	b.Stop()
	log.Println("Bot stopped successfully")
}
