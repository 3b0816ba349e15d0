package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ctchen222/tictactoe-hotseat/internal/game"
	"ctchen222/tictactoe-hotseat/pkg/proto"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

func receive(t *testing.T, ch <-chan *redis.Message) *proto.ServerToClientMessage {
	t.Helper()
	select {
	case msg := <-ch:
		var out proto.ServerToClientMessage
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &out))
		return &out
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for feed message")
		return nil
	}
}

func TestPublisher_SessionFeed(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	publisher := NewPublisher(rdb)
	t.Cleanup(publisher.Close)

	pubsub, err := publisher.Subscribe(ctx, "abc")
	require.NoError(t, err)
	defer pubsub.Close()
	ch := pubsub.Channel()

	// Given: a controller reporting to the feed
	c := game.NewController(publisher.ForSession("abc"))

	// When: a game starts
	c.StartGame("Alice", "Bob")

	// Then: the feed carries scoreboard, render and message in order
	scoreboard := receive(t, ch)
	assert.Equal(t, proto.TypeScoreboard, scoreboard.Type)
	assert.Equal(t, "Alice", scoreboard.PlayerX.Name)
	assert.Equal(t, "Bob", scoreboard.PlayerO.Name)

	render := receive(t, ch)
	assert.Equal(t, proto.TypeRender, render.Type)
	assert.Len(t, render.Cells, game.BoardSize)
	assert.Nil(t, render.Highlight)

	message := receive(t, ch)
	assert.Equal(t, proto.TypeMessage, message.Type)
	assert.Equal(t, "Alice's turn (X)", message.Text)

	// Toggles travel too.
	publisher.ForSession("abc").ToggleButtons(false)
	toggle := receive(t, ch)
	assert.Equal(t, proto.TypeToggle, toggle.Type)
	require.NotNil(t, toggle.GameStarted)
	assert.False(t, *toggle.GameStarted)
}

func TestPublisher_PublishEvent(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	publisher := NewPublisher(rdb)
	t.Cleanup(publisher.Close)

	pubsub := rdb.Subscribe(ctx, EventsChannel)
	defer pubsub.Close()
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, publisher.PublishEvent(ctx, TypeSessionClosed, SessionPayload{SessionID: "abc", Reason: "idle"}))

	select {
	case msg := <-pubsub.Channel():
		var event Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, TypeSessionClosed, event.Type)

		var payload SessionPayload
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, SessionPayload{SessionID: "abc", Reason: "idle"}, payload)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublisher_CloseSessionEndsFeed(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	publisher := NewPublisher(rdb)
	t.Cleanup(publisher.Close)

	pubsub, err := publisher.Subscribe(ctx, "abc")
	require.NoError(t, err)
	defer pubsub.Close()
	ch := pubsub.Channel()

	publisher.ForSession("abc").SetMessage("Alice wins!")
	require.NoError(t, publisher.CloseSession(ctx, "abc", "idle"))

	// The closing message arrives after everything queued before it.
	assert.Equal(t, "Alice wins!", receive(t, ch).Text)
	closed := receive(t, ch)
	assert.Equal(t, proto.TypeClosed, closed.Type)
	assert.Equal(t, "idle", closed.Text)
}

func TestPublisher_FeedDoesNotWaitForRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	publisher := NewPublisher(rdb)

	feed := publisher.ForSession("abc")
	start := time.Now()
	c := game.NewController(feed)
	c.StartGame("Alice", "Bob")
	for _, i := range []int{0, 1, 3, 4, 6} {
		c.PlayRound(i)
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	publisher.Close()
	assert.ErrorIs(t, publisher.CloseSession(context.Background(), "abc", "closed"), ErrPublisherClosed)
	assert.NotPanics(t, func() { feed.SetMessage("after close") })
}

func TestSessionChannel(t *testing.T) {
	assert.Equal(t, "channel:session:42", SessionChannel("42"))
}
