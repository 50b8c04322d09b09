package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnString(t *testing.T) {
	assert.Equal(t,
		"postgres://postgres@localhost:5432/weightrec",
		ConnString(NewDBPoolParams{DBHost: "localhost", DBPort: "5432", DBName: "weightrec"}),
	)
	assert.Equal(t,
		"postgres://lifter:s%40cret@db:6543/weightrec",
		ConnString(NewDBPoolParams{DBHost: "db", DBPort: "6543", DBName: "weightrec", DBUser: "lifter", DBPassword: "s@cret"}),
	)
}

func TestNewDBPool_LazyConnect(t *testing.T) {
	// pgxpool connects lazily, so building a pool does not need a running server
	pool, err := NewDBPool(context.Background(), NewDBPoolParams{
		DBHost:         "localhost",
		DBPort:         "1",
		DBName:         "weightrec",
		MaxConns:       2,
		TracingEnabled: true,
	})
	require.NoError(t, err)
	defer pool.Close()
	assert.Equal(t, int32(2), pool.Config().MaxConns)
}
