package chat

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/datar-psa/chatmod"
	"github.com/datar-psa/chatmod/api"
)

// fakeScreener flags any text listed in toxic
type fakeScreener struct {
	toxic       map[string]bool
	allowRemote []bool
}

func (f *fakeScreener) Classify(_ context.Context, text string, allowRemote bool) api.Verdict {
	f.allowRemote = append(f.allowRemote, allowRemote)
	return api.Verdict{IsToxic: f.toxic[text], Confidence: 0.5, Categories: []string{}, Method: api.MethodLexicon}
}

func TestScreen(t *testing.T) {
	r := require.New(t)
	screener := &fakeScreener{toxic: map[string]bool{"you bastard": true}}

	clean := Screen(context.Background(), screener, Message{ID: "m1", Content: "hello"}, true)
	r.Equal("hello", clean.Display)
	r.Equal("m1", clean.ID)
	r.False(clean.Verdict.IsToxic)

	toxic := Screen(context.Background(), screener, Message{Content: "you bastard", Edited: true}, false)
	r.Equal(RedactedPlaceholder, toxic.Display)
	r.Equal("you bastard", toxic.Content)
	r.NotEmpty(toxic.ID)
	r.True(toxic.Edited)
	r.Equal([]bool{true, false}, screener.allowRemote)
}

func TestWorker_Run(t *testing.T) {
	r := require.New(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	posted := make(chan Message, 2)
	moderated := make(chan ModeratedMessage, 2)
	screener := &fakeScreener{toxic: map[string]bool{"die": true}}

	w := NewWorker(screener, true, posted, moderated, log)
	posted <- Message{Room: "general", Author: "ana", Content: "hi"}
	posted <- Message{Room: "general", Author: "bob", Content: "die"}
	close(posted)

	r.NoError(w.Run(context.Background()))
	r.Len(moderated, 2)
	r.Equal("hi", (<-moderated).Display)
	r.Equal(RedactedPlaceholder, (<-moderated).Display)
}

func TestWorker_StopsOnCancel(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	posted := make(chan Message)
	w := NewWorker(&fakeScreener{}, true, posted, make(chan ModeratedMessage), log)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestScreen_WithLocalModerator(t *testing.T) {
	r := require.New(t)
	m := chatmod.New(chatmod.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	screened := Screen(context.Background(), m, Message{Content: "Ta gueule connard"}, true)

	r.True(screened.Verdict.IsToxic)
	r.Equal(api.MethodLexicon, screened.Verdict.Method)
	r.Equal(RedactedPlaceholder, screened.Display)
}
