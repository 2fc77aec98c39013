package redis

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisBroker_InvalidURL(t *testing.T) {
	_, err := NewRedisBroker(context.Background(), Config{URL: "://nope"}, zerolog.Nop())
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}

func TestRedisBroker_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	// nothing listens on port 1
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	b := newBroker(client, zerolog.Nop())
	defer b.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		assert.Error(t, b.Publish(ctx, "events", map[string]string{"n": "x"}))
	}
	require.Equal(t, gobreaker.StateOpen, b.cb.State())
	assert.ErrorIs(t, b.Publish(ctx, "events", "x"), gobreaker.ErrOpenState)
}
