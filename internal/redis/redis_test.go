package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Pings(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), Config{Addr: mr.Addr(), DB: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	v, err := mr.DB(1).Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestNew_FailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), Config{Addr: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.New")
}

func TestQueueConnOpt_UsesQueueDB(t *testing.T) {
	opt := QueueConnOpt(Config{Addr: "cache:6379", Password: "pw", DB: 0, PoolSize: 20}, 3)

	assert.Equal(t, "cache:6379", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 3, opt.DB)
	assert.Equal(t, 20, opt.PoolSize)
}
