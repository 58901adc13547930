package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/vocabbot/internal/cards"
	"github.com/example/vocabbot/internal/quiz"
	"github.com/example/vocabbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// resolvedSender is the message sender viewed as a card owner.
func resolvedSender(message *tgbotapi.Message) models.Owner {
	return models.ResolvedOwner(message.From.ID)
}

// handleCommand dispatches a slash command to its handler.
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message)
	case "add":
		return b.handleAdd(ctx, message)
	case "assign":
		return b.handleAssign(ctx, message)
	case "study":
		return b.handleStudy(ctx, message)
	case "run":
		return b.handleRun(ctx, message)
	case "list":
		return b.handleList(ctx, message)
	case "delete":
		return b.handleDelete(ctx, message)
	default:
		return b.reply(message.Chat.ID, "Unknown command. Send /start to see what I can do.")
	}
}

// handleStart registers (or refreshes) the user and shows the command help.
// Registration also adopts any cards a teacher assigned to this username
// before the user's first contact.
func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	err := b.dir.RegisterOrTouch(ctx, message.From.ID, message.From.UserName)
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	return b.reply(message.Chat.ID,
		"📚 Welcome!\n\n"+
			"Use:\n"+
			"/add word = translation\n"+
			"/study\n"+
			"/run (go through all words and translations)\n"+
			"/list (show your words and progress)\n"+
			"/delete (delete all words, be careful with this one)\n")
}

// splitPair parses "word = translation" input.
func splitPair(text string) (word, translation string, ok bool) {
	parts := strings.SplitN(text, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// handleAdd stores a new card for the sender.
func (b *Bot) handleAdd(ctx context.Context, message *tgbotapi.Message) error {
	word, translation, ok := splitPair(message.CommandArguments())
	if !ok {
		return b.reply(message.Chat.ID, "❌ Format:\n/add word = translation")
	}

	card, err := b.registry.Add(ctx, resolvedSender(message), word, translation)
	if err != nil {
		if errors.Is(err, cards.ErrMalformedInput) {
			return b.reply(message.Chat.ID, "❌ Format:\n/add word = translation")
		}
		return err
	}

	return b.reply(message.Chat.ID, fmt.Sprintf("✅ Added:\n%s → %s", card.Word, card.Translation))
}

// handleAssign stores a card for another user, named by username. Teachers
// only; the target may not have contacted the bot yet.
func (b *Bot) handleAssign(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.TrimSpace(message.CommandArguments())
	target, rest, found := strings.Cut(args, " ")
	target = strings.TrimPrefix(target, "@")
	if !found || target == "" {
		return b.reply(message.Chat.ID, "❌ Format:\n/assign name word = translation")
	}

	word, translation, ok := splitPair(rest)
	if !ok {
		return b.reply(message.Chat.ID, "❌ Format:\n/assign name word = translation")
	}

	card, err := b.registry.AddForTarget(ctx, message.From.ID, target, word, translation)
	if err != nil {
		switch {
		case errors.Is(err, cards.ErrPermissionDenied):
			return b.reply(message.Chat.ID, "🚫 Only a teacher can assign words to other users.")
		case errors.Is(err, cards.ErrMalformedInput):
			return b.reply(message.Chat.ID, "❌ Format:\n/assign name word = translation")
		}
		return err
	}

	return b.reply(message.Chat.ID,
		fmt.Sprintf("✅ Assigned to @%s:\n%s → %s", target, card.Word, card.Translation))
}

// handleStudy poses a random card: the translation is shown and the user is
// expected to answer with the word.
func (b *Bot) handleStudy(ctx context.Context, message *tgbotapi.Message) error {
	card, err := b.sessions.PoseRandom(ctx, message.Chat.ID, message.From.ID)
	if err != nil {
		if errors.Is(err, cards.ErrNoCards) {
			return b.reply(message.Chat.ID, "📭 No words yet.")
		}
		return err
	}

	return b.replyMarkdown(message.Chat.ID, fmt.Sprintf("🧠 Translate:\n\n**%s**", card.Translation))
}

// handleRun is the passive-review variant: it reveals a random pair
// outright. The pose is still recorded, so typing the word afterwards
// counts as practice.
func (b *Bot) handleRun(ctx context.Context, message *tgbotapi.Message) error {
	card, err := b.sessions.PoseRandom(ctx, message.Chat.ID, message.From.ID)
	if err != nil {
		if errors.Is(err, cards.ErrNoCards) {
			return b.reply(message.Chat.ID, "📭 No words yet.")
		}
		return err
	}

	return b.replyMarkdown(message.Chat.ID, fmt.Sprintf("%s  %s", card.Word, card.Translation))
}

// handleList shows the sender's cards with their progress counts.
func (b *Bot) handleList(ctx context.Context, message *tgbotapi.Message) error {
	list, err := b.registry.List(ctx, message.From.ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return b.reply(message.Chat.ID, "📭 No words yet.")
	}

	var sb strings.Builder
	sb.WriteString("📚 Your words\n\n")
	for i, card := range list {
		sb.WriteString(fmt.Sprintf("%d. %s → %s (%d/%d)\n",
			i+1, card.Word, card.Translation, card.MasteryCount, b.registry.Threshold()))
	}
	sb.WriteString(fmt.Sprintf("\nTotal: %d", len(list)))

	return b.reply(message.Chat.ID, sb.String())
}

// handleDelete wipes all of the sender's cards.
func (b *Bot) handleDelete(ctx context.Context, message *tgbotapi.Message) error {
	deleted, err := b.registry.ClearAll(ctx, message.From.ID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return b.reply(message.Chat.ID, "📭 Nothing to delete.")
	}
	return b.reply(message.Chat.ID, fmt.Sprintf("🗑 Deleted %d words.", deleted))
}

// handleAnswer grades free text against the conversation's open pose.
// Unrelated chatter (no pose outstanding) gets no reply at all.
func (b *Bot) handleAnswer(ctx context.Context, message *tgbotapi.Message) error {
	answer, err := b.sessions.CheckAnswer(ctx, message.Chat.ID, message.Text)
	if err != nil {
		return err
	}

	switch answer.Outcome {
	case quiz.NoActivePose:
		return nil
	case quiz.Incorrect:
		return b.replyMarkdown(message.Chat.ID,
			fmt.Sprintf("❌ Nope\nCorrect: **%s**", answer.Expected))
	}

	if answer.Progress.Mastered {
		return b.reply(message.Chat.ID, "🎉 Correct!\n\nThis word is mastered and removed 🧠✨")
	}
	return b.reply(message.Chat.ID, fmt.Sprintf("✅ Correct!\nProgress: %s", answer.Progress))
}
