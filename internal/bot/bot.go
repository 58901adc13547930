package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/example/vocabbot/internal/cards"
	"github.com/example/vocabbot/internal/directory"
	"github.com/example/vocabbot/internal/quiz"
	"github.com/example/vocabbot/internal/scheduler"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the Telegram transport around the flashcard core. It dispatches
// inbound commands and free text to the directory, registry and sessions,
// and renders their results as replies.
type Bot struct {
	api       *tgbotapi.BotAPI
	config    *Config
	dir       *directory.Directory
	registry  *cards.Registry
	sessions  *quiz.Sessions
	scheduler *scheduler.Scheduler
}

// New creates a bot instance. The scheduler may be nil when reminders are
// disabled.
func New(config *Config, dir *directory.Directory, registry *cards.Registry, sessions *quiz.Sessions, sched *scheduler.Scheduler) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %v", err)
	}

	return &Bot{
		api:       api,
		config:    config,
		dir:       dir,
		registry:  registry,
		sessions:  sessions,
		scheduler: sched,
	}, nil
}

// SetScheduler attaches a scheduler built after the bot (the scheduler
// needs the bot as its Notifier).
func (b *Bot) SetScheduler(s *scheduler.Scheduler) {
	b.scheduler = s
}

// Start begins long polling and blocks until the context is canceled.
func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	if b.scheduler != nil {
		b.scheduler.Start()
	}

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		go b.handleUpdate(ctx, update)
	}

	return ctx.Err()
}

// Stop shuts down background work.
func (b *Bot) Stop() {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	log.Println("Bot stopped")
}

// SendReminder implements scheduler.Notifier: nudges a user who still has
// cards to practice.
func (b *Bot) SendReminder(userID int64, count int) error {
	// For private chats the chat id equals the user id.
	text := fmt.Sprintf("📚 You have %d word(s) waiting. Send /study to practice!", count)
	_, err := b.api.Send(tgbotapi.NewMessage(userID, text))
	if err != nil {
		log.Printf("Error sending reminder to user %d: %v", userID, err)
	}
	return err
}

// handleUpdate routes one inbound update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	var err error
	if message.IsCommand() {
		err = b.handleCommand(ctx, message)
	} else if message.Text != "" {
		err = b.handleAnswer(ctx, message)
	}

	if err != nil {
		// A failed interaction must not take the process down; log and move on.
		log.Printf("Error handling update from user %d: %v", message.From.ID, err)
	}
}

// reply sends plain text back to a chat.
func (b *Bot) reply(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// replyMarkdown sends text with bold/emphasis markup.
func (b *Bot) replyMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	_, err := b.api.Send(msg)
	return err
}
