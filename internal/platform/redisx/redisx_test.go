package redisx

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRequiresAddr(t *testing.T) {
	_, err := Connect(context.Background(), Config{})
	assert.ErrorContains(t, err, "REDIS_ADDR")
}

func TestConnectPings(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis test")
	}
	rdb, err := Connect(context.Background(), Config{Addr: addr})
	require.NoError(t, err)
	defer rdb.Close()
}
