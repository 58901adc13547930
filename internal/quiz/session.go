// Package quiz holds the per-conversation answer-checking state: which card
// is currently posed and what answer it expects.
package quiz

import (
	"context"
	"strings"
	"sync"

	"github.com/example/vocabbot/internal/cards"
	"github.com/example/vocabbot/pkg/models"
)

// Outcome classifies the result of an answer submission.
type Outcome int

const (
	// NoActivePose means nothing was asked; the text is ordinary chat and
	// must not produce a reply.
	NoActivePose Outcome = iota
	Correct
	Incorrect
)

// Answer is the result of checking a submission. Progress is set on
// Correct; Expected carries the revealed answer on Incorrect.
type Answer struct {
	Outcome  Outcome
	Progress cards.Progress
	Expected string
}

// pose snapshots the question in flight. The expected answer is copied at
// pose time so it stays stable even if the card is deleted underneath.
type pose struct {
	cardID   string
	expected string
}

// Sessions tracks at most one open pose per conversation. State lives only
// in memory; a pose lost to a restart is simply re-posable.
type Sessions struct {
	mu       sync.Mutex
	active   map[int64]pose
	registry *cards.Registry
}

// NewSessions creates an empty session store on top of a card registry.
func NewSessions(registry *cards.Registry) *Sessions {
	return &Sessions{
		active:   make(map[int64]pose),
		registry: registry,
	}
}

// PoseRandom picks one of the owner's cards at random and records it as the
// open question for the conversation, superseding any unanswered pose.
// Returns cards.ErrNoCards when the owner has nothing to practice.
func (s *Sessions) PoseRandom(ctx context.Context, conversationID, ownerID int64) (*models.Card, error) {
	card, err := s.registry.Random(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.active[conversationID] = pose{cardID: card.ID, expected: card.Word}
	s.mu.Unlock()

	return card, nil
}

// CheckAnswer consumes the conversation's open pose and grades the
// submission against it: trimmed, case-insensitive, exact match. A correct
// answer advances the card's mastery; a wrong one reveals the expected
// word. Either way the pose is spent.
func (s *Sessions) CheckAnswer(ctx context.Context, conversationID int64, submitted string) (Answer, error) {
	s.mu.Lock()
	p, ok := s.active[conversationID]
	if ok {
		delete(s.active, conversationID)
	}
	s.mu.Unlock()

	if !ok {
		return Answer{Outcome: NoActivePose}, nil
	}

	if !strings.EqualFold(strings.TrimSpace(submitted), p.expected) {
		return Answer{Outcome: Incorrect, Expected: p.expected}, nil
	}

	progress, err := s.registry.AdvanceMastery(ctx, p.cardID)
	if err != nil {
		return Answer{}, err
	}
	return Answer{Outcome: Correct, Progress: progress}, nil
}
