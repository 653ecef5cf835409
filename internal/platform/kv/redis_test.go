package kv

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestCollectionFor(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  redis.Cmder
		want string
	}{
		{"places cache key", redis.NewStringCmd(ctx, "get", "cache:places:gas_station:150:9yv3r5k2"), "places"},
		{"prefixed key", redis.NewStatusCmd(ctx, "set", "session:42", "x"), "session"},
		{"bare key", redis.NewStringCmd(ctx, "get", "counter"), ""},
		{"no key", redis.NewStatusCmd(ctx, "ping"), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, collectionFor(tc.cmd))
		})
	}
}
