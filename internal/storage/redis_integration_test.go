//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentd/pkg/platform/sentinel"
	"consentd/pkg/testutil/containers"
)

func TestRedisAdapter(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(ctx))

	adapter := NewRedis(rc.Client)

	t.Run("available while redis answers pings", func(t *testing.T) {
		assert.True(t, adapter.Available(ctx))
	})

	t.Run("missing blob is not found", func(t *testing.T) {
		_, err := adapter.Get(ctx, "consentd:preferences")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("blob round trip with no expiry", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, "consentd:preferences", `{"default":{}}`))

		got, err := adapter.Get(ctx, "consentd:preferences")
		require.NoError(t, err)
		assert.Equal(t, `{"default":{}}`, got)

		ttl, err := rc.Client.TTL(ctx, "consentd:preferences").Result()
		require.NoError(t, err)
		assert.Negative(t, ttl, "preference blobs must not expire")
	})
}
