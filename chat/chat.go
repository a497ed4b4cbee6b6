// Package chat screens chat messages before they are persisted.
package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/datar-psa/chatmod/api"
)

// RedactedPlaceholder replaces the displayed text of a toxic message
const RedactedPlaceholder = "[message removed by moderation]"

// Screener classifies text. *chatmod.Moderator implements it.
type Screener interface {
	Classify(ctx context.Context, text string, allowRemote bool) api.Verdict
}

// Message is a message being sent or edited
type Message struct {
	ID      string
	Room    string
	Author  string
	Content string
	At      time.Time
	Edited  bool
}

// ModeratedMessage is what the caller persists: the original message, its
// verdict, and the text to display
type ModeratedMessage struct {
	Message
	Verdict     api.Verdict
	Display     string
	ModeratedAt time.Time
}

// Screen classifies msg and derives its display text. A message without an ID gets one.
func Screen(ctx context.Context, s Screener, msg Message, allowRemote bool) ModeratedMessage {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	verdict := s.Classify(ctx, msg.Content, allowRemote)
	display := msg.Content
	if verdict.IsToxic {
		display = RedactedPlaceholder
	}
	return ModeratedMessage{
		Message:     msg,
		Verdict:     verdict,
		Display:     display,
		ModeratedAt: time.Now().UTC(),
	}
}

// Worker screens posted messages read from a channel
type Worker struct {
	screener    Screener
	allowRemote bool
	posted      <-chan Message
	moderated   chan<- ModeratedMessage
	log         *slog.Logger
}

// NewWorker creates a Worker that reads from posted and writes every screened message to moderated
func NewWorker(screener Screener, allowRemote bool,
	posted <-chan Message, moderated chan<- ModeratedMessage, log *slog.Logger) *Worker {
	return &Worker{
		screener:    screener,
		allowRemote: allowRemote,
		posted:      posted,
		moderated:   moderated,
		log:         log,
	}
}

// Run screens messages until ctx is done or posted is closed
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case msg, ok := <-w.posted:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			screened := Screen(ctx, w.screener, msg, w.allowRemote)
			if screened.Verdict.IsToxic {
				w.log.Info("Message redacted",
					"id", screened.ID,
					"room", screened.Room,
					"author", screened.Author,
					"method", string(screened.Verdict.Method),
					"confidence", screened.Verdict.Confidence)
			}
			select {
			case <-ctx.Done():
				w.log.Debug("Stopping worker")
				return ctx.Err()
			case w.moderated <- screened:
			}
		}
	}
}
