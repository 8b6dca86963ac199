package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{URL: "postgres://x", MaxOpenConns: 3}.withDefaults()

	assert.Equal(t, 3, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.PingTimeout)
}

func TestPoolHealthAndClose(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	cp := &ConnectionPool{db: db, cfg: Config{}.withDefaults()}
	require.NoError(t, cp.Health(context.Background()))

	mock.ExpectClose()
	require.NoError(t, cp.Close())
	require.NoError(t, cp.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
