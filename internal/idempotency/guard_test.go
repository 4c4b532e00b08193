package idempotency

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
)

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.ProcessedOrder{}))
	return conn
}

func TestGuard_AcceptOnceThenReject(t *testing.T) {
	conn := newTestDB(t, "guard_accept")
	g, err := NewGuard(conn)
	require.NoError(t, err)
	ctx := context.Background()

	var first, second bool
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		first, err = g.Accept(ctx, tx, "order-1")
		return err
	}))
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		second, err = g.Accept(ctx, tx, " order-1 ")
		return err
	}))

	assert.True(t, first)
	assert.False(t, second)

	seen, err := g.Seen(ctx, "order-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestGuard_RolledBackAcceptCanRetry(t *testing.T) {
	conn := newTestDB(t, "guard_rollback")
	g, _ := NewGuard(conn)
	ctx := context.Background()

	boom := errors.New("insufficient gold")
	err := conn.Transaction(func(tx *gorm.DB) error {
		ok, err := g.Accept(ctx, tx, "capacity-1")
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	require.ErrorIs(t, err, boom)

	seen, err := g.Seen(ctx, "capacity-1")
	require.NoError(t, err)
	assert.False(t, seen)

	var retried bool
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		retried, err = g.Accept(ctx, tx, "capacity-1")
		return err
	}))
	assert.True(t, retried)
}

func TestGuard_ClearAndValidation(t *testing.T) {
	conn := newTestDB(t, "guard_clear")
	g, _ := NewGuard(conn)
	ctx := context.Background()

	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		_, err := g.Accept(ctx, tx, "order-2")
		return err
	}))
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return g.Clear(ctx, tx)
	}))

	seen, err := g.Seen(ctx, "order-2")
	require.NoError(t, err)
	assert.False(t, seen)

	_, err = g.Accept(ctx, nil, "order-3")
	assert.Error(t, err)
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		_, err := g.Accept(ctx, tx, "  ")
		assert.Error(t, err)
		return nil
	}))

	_, err = NewGuard(nil)
	assert.Error(t, err)
}
