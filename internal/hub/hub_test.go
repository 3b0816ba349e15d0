package hub

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"ctchen222/tictactoe-hotseat/internal/events"
	"ctchen222/tictactoe-hotseat/internal/game"
	"ctchen222/tictactoe-hotseat/internal/game/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type publishedEvent struct {
	eventType string
	payload   any
}

// fakeFeed hands out gomock presenters and records lifecycle events.
type fakeFeed struct {
	ctrl   *gomock.Controller
	mu     sync.Mutex
	events []publishedEvent
	closed []string
}

func (f *fakeFeed) ForSession(string) game.Presenter {
	p := mocks.NewMockPresenter(f.ctrl)
	p.EXPECT().UpdateScoreboard(gomock.Any(), gomock.Any()).AnyTimes()
	p.EXPECT().Render(gomock.Any(), gomock.Any()).AnyTimes()
	p.EXPECT().SetMessage(gomock.Any()).AnyTimes()
	p.EXPECT().ToggleButtons(gomock.Any()).AnyTimes()
	return p
}

func (f *fakeFeed) PublishEvent(_ context.Context, eventType string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{eventType: eventType, payload: payload})
	return nil
}

func (f *fakeFeed) CloseSession(_ context.Context, sessionID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, sessionID+":"+reason)
	return nil
}

type idleConn struct{}

func (idleConn) WriteMessage(int, []byte) error    { return nil }
func (idleConn) ReadMessage() (int, []byte, error) { return 0, nil, io.EOF }
func (idleConn) Close() error                      { return nil }
func (idleConn) SetWriteDeadline(time.Time) error  { return nil }

func TestHub_CreateGetRemove(t *testing.T) {
	ctx := context.Background()
	feed := &fakeFeed{ctrl: gomock.NewController(t)}
	h := NewHub(feed, time.Minute)

	s := h.Create(ctx)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, h.Len())

	got, err := h.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	// Sessions are independent games.
	other := h.Create(ctx)
	s.Start(ctx, "Alice", "Bob")
	s.Play(ctx, 0)
	assert.Equal(t, game.StatusNotStarted, other.State().Status)
	assert.Equal(t, game.None, other.State().Cells[0])

	require.NoError(t, h.Remove(ctx, s.ID))
	_, err = h.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, h.Remove(ctx, s.ID), ErrSessionNotFound)

	assert.Equal(t, []publishedEvent{
		{eventType: events.TypeSessionCreated, payload: events.SessionPayload{SessionID: s.ID}},
		{eventType: events.TypeSessionCreated, payload: events.SessionPayload{SessionID: other.ID}},
		{eventType: events.TypeSessionClosed, payload: events.SessionPayload{SessionID: s.ID, Reason: "closed"}},
	}, feed.events)
	assert.Equal(t, []string{s.ID + ":closed"}, feed.closed)
}

func TestHub_WithoutFeed(t *testing.T) {
	ctx := context.Background()
	h := NewHub(nil, time.Minute)

	s := h.Create(ctx)
	s.Start(ctx, "", "")

	assert.Equal(t, "Player 1", s.State().PlayerX.Name)
	assert.NoError(t, h.Remove(ctx, s.ID))
}

func TestHub_Sweep(t *testing.T) {
	ctx := context.Background()
	h := NewHub(nil, time.Minute)

	idle := h.Create(ctx)
	busy := h.Create(ctx)
	require.NoError(t, busy.Attach(ctx, idleConn{}))

	// Nothing is old enough yet.
	assert.Equal(t, 0, h.sweep(ctx))

	h.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.Equal(t, 1, h.sweep(ctx))

	_, err := h.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = h.Get(busy.ID)
	assert.NoError(t, err)
}

func TestHub_SweepClosesFeed(t *testing.T) {
	ctx := context.Background()
	feed := &fakeFeed{ctrl: gomock.NewController(t)}
	h := NewHub(feed, time.Minute)

	s := h.Create(ctx)
	h.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	assert.Equal(t, 1, h.sweep(ctx))
	assert.Equal(t, []string{s.ID + ":idle"}, feed.closed)
}

func TestHub_RunStopsOnCancel(t *testing.T) {
	h := NewHub(nil, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
