package credentialstore_test

import (
	"context"
	"testing"

	"ratingsexporter/lib/credentialstore"
	"ratingsexporter/lib/netflix/credential"
	"ratingsexporter/lib/sqliteutil"
	"ratingsexporter/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]credentialstore.Store {
	db, err := sqliteutil.OpenDB(credentialstore.Schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]credentialstore.Store{
		"sqlite": credentialstore.NewSqliteStore(db),
		"memory": credentialstore.NewMemoryStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:credentialstore")
	defer cleanup()

	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			c := &credential.Credential{NetflixID: "abc", SecureNetflixID: "def"}

			stored, err := store.IsStored(ctx, c)
			require.NoError(t, err)
			require.False(t, stored)

			err = store.Restore(ctx, &credential.Credential{NetflixID: "x", SecureNetflixID: "y"})
			require.ErrorIs(t, err, credentialstore.ErrItemNotFound)

			require.NoError(t, store.Store(ctx, c))

			stored, err = store.IsStored(ctx, c)
			require.NoError(t, err)
			require.True(t, stored)

			restored := &credential.Credential{}
			require.NoError(t, store.Restore(ctx, restored))
			require.Equal(t, *c, *restored)

			// storing again updates in place
			c.NetflixID = "updated"
			require.NoError(t, store.Store(ctx, c))
			restored = &credential.Credential{}
			require.NoError(t, store.Restore(ctx, restored))
			require.Equal(t, "updated", restored.NetflixID)

			require.NoError(t, store.Clear(ctx, c))
			stored, err = store.IsStored(ctx, c)
			require.NoError(t, err)
			require.False(t, stored)
		})
	}
}

func TestStoreRejectsEmptyValues(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			incomplete := &credential.Credential{NetflixID: "only-one"}
			err := store.Store(ctx, incomplete)
			require.ErrorIs(t, err, credentialstore.ErrInvalidAttributes)
		})
	}
}
