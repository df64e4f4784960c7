package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func TestStore_CreateGetCommit(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			addr := AddressFromName("acct")
			owner := AddressFromName("owner")
			data := []byte{1, 2, 3}
			require.NoError(t, store.Create(ctx, &Account{Address: addr, Owner: owner, Data: data}))
			data[0] = 9

			got, err := store.Get(ctx, addr)
			require.NoError(t, err)
			assert.Equal(t, owner, got.Owner)
			assert.False(t, got.Executable)
			assert.Equal(t, []byte{1, 2, 3}, got.Data)

			got.Data[1] = 7
			again, err := store.Get(ctx, addr)
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3}, again.Data)

			err = store.Create(ctx, &Account{Address: addr})
			assert.ErrorIs(t, err, ErrAccountExists)

			require.NoError(t, store.Commit(ctx, []AccountUpdate{{Address: addr, Data: []byte{4, 5, 6}}}))
			got, err = store.Get(ctx, addr)
			require.NoError(t, err)
			assert.Equal(t, []byte{4, 5, 6}, got.Data)
			assert.Equal(t, owner, got.Owner)
		})
	}
}

func TestStore_Missing(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			addr := AddressFromName("nobody")
			_, err := store.Get(ctx, addr)
			assert.ErrorIs(t, err, ErrAccountNotFound)
			assert.ErrorIs(t, store.Commit(ctx, []AccountUpdate{{Address: addr, Data: []byte{1}}}), ErrAccountNotFound)
		})
	}
}

func TestStore_Executable(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			addr := AddressFromName("prog")
			require.NoError(t, store.Create(ctx, &Account{Address: addr, Owner: LoaderAddress, Executable: true}))
			got, err := store.Get(ctx, addr)
			require.NoError(t, err)
			assert.True(t, got.Executable)
			assert.Empty(t, got.Data)
		})
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")
	addr := AddressFromName("game")

	sq, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, sq.Create(ctx, &Account{Address: addr, Data: []byte{0xaa}}))
	require.NoError(t, sq.Close())

	sq, err = OpenSQLite(path)
	require.NoError(t, err)
	defer sq.Close()
	got, err := sq.Get(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa}, got.Data)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()
	assert.ErrorIs(t, s.Create(ctx, &Account{}), context.Canceled)
	assert.Equal(t, 0, s.Len())
}

func TestStore_CommitIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			a := AddressFromName("a")
			b := AddressFromName("b")
			require.NoError(t, store.Create(ctx, &Account{Address: a, Data: []byte{1}}))
			require.NoError(t, store.Create(ctx, &Account{Address: b, Data: []byte{2}}))

			err := store.Commit(ctx, []AccountUpdate{
				{Address: a, Data: []byte{9}},
				{Address: AddressFromName("missing"), Data: []byte{9}},
			})
			assert.ErrorIs(t, err, ErrAccountNotFound)
			got, err := store.Get(ctx, a)
			require.NoError(t, err)
			assert.Equal(t, []byte{1}, got.Data)

			require.NoError(t, store.Commit(ctx, []AccountUpdate{
				{Address: a, Data: []byte{3}},
				{Address: b, Data: []byte{4}},
			}))
			for addr, want := range map[Address][]byte{a: {3}, b: {4}} {
				got, err := store.Get(ctx, addr)
				require.NoError(t, err)
				assert.Equal(t, want, got.Data)
			}
		})
	}
}
