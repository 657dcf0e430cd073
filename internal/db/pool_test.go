package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnString(t *testing.T) {
	assert.Equal(t,
		"postgres://postgres@localhost:5432/mapty?sslmode=disable",
		ConnString(NewDBPoolParams{DBHost: "localhost", DBPort: "5432", DBName: "mapty"}),
	)
	assert.Equal(t,
		"postgres://mapty:s3cr%40t@db:6543/workouts?sslmode=disable",
		ConnString(NewDBPoolParams{
			DBHost:     "db",
			DBPort:     "6543",
			DBName:     "workouts",
			DBUser:     "mapty",
			DBPassword: "s3cr@t",
		}),
	)
}

func TestNewDBPool_Lazy(t *testing.T) {
	// pgxpool does not connect until first use
	pool, err := NewDBPool(context.Background(), NewDBPoolParams{
		DBHost:         "localhost",
		DBPort:         "1",
		DBName:         "mapty",
		TracingEnabled: true,
	})
	require.NoError(t, err)
	require.NotNil(t, pool)
	pool.Close()
}
