package infra

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, production := range []bool{true, false} {
		log, err := NewLogger(production)
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}

func TestNewDB_RejectsMalformedDSN(t *testing.T) {
	_, err := NewDB(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedis(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}

func TestNewDB_Live(t *testing.T) {
	dsn := os.Getenv("COMPASS_TEST_DSN")
	if dsn == "" {
		t.Skip("COMPASS_TEST_DSN not set; skipping DB-backed tests")
	}
	pool, err := NewDB(context.Background(), dsn)
	require.NoError(t, err)
	pool.Close()
}
