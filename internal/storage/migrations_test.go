package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/spendsense/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_ReachesExpectedVersion(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	var version int
	require.NoError(t, store.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	var columns int
	require.NoError(t, store.db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('kv_store') WHERE name IN ('key', 'value', 'updated_at')`,
	).Scan(&columns))
	assert.Equal(t, 3, columns)
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Migrate(context.Background()))
}

func TestMigrate_NilContext(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	//nolint:staticcheck // exercising nil-context validation
	assert.ErrorIs(t, store.Migrate(nil), ErrNilContext)
}

func TestMigrate_UpgradesVersionOne(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.db.Exec(`DROP TABLE kv_store`)
	require.NoError(t, err)
	_, err = store.db.Exec(`CREATE TABLE kv_store (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	_, err = store.db.Exec(`PRAGMA user_version = 1`)
	require.NoError(t, err)

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Put(ctx, KeyMemory, []byte(`{}`)))

	var updated int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM kv_store WHERE updated_at IS NOT NULL`).Scan(&updated))
	assert.Equal(t, 1, updated)
}

func TestMigrate_NewerSchemaRejected(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.db.Exec(`PRAGMA user_version = 9`)
	require.NoError(t, err)
	assert.ErrorIs(t, store.Migrate(context.Background()), common.ErrStoreCorrupted)
}
