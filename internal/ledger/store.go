package ledger

import (
	"context"
	"errors"
)

var (
	ErrAccountNotFound      = errors.New("ledger: account not found")
	ErrAccountExists        = errors.New("ledger: account already exists")
	ErrProgramNotFound      = errors.New("ledger: program not found")
	ErrNotExecutable        = errors.New("ledger: account is not executable")
	ErrMissingSignature     = errors.New("ledger: missing required signature")
	ErrReadonlyModified     = errors.New("ledger: instruction modified a read-only account")
	ErrExternalModification = errors.New("ledger: instruction modified data of an account it does not own")
	ErrSeedTooLong          = errors.New("ledger: seed too long")
	ErrStoreNotConfigured   = errors.New("ledger: store is not configured")
)

// AccountUpdate is the new data of one account in a committed instruction.
type AccountUpdate struct {
	Address Address
	Data    []byte
}

// Store persists accounts. Implementations copy data on the way in and out,
// so callers never share buffers with the store.
type Store interface {
	// Create inserts a new account, failing with ErrAccountExists.
	Create(ctx context.Context, acct *Account) error
	// Get returns the account at addr, or ErrAccountNotFound.
	Get(ctx context.Context, addr Address) (*Account, error)
	// Commit replaces the data of existing accounts. It applies every update
	// or none of them, failing with ErrAccountNotFound for unknown addresses.
	Commit(ctx context.Context, updates []AccountUpdate) error
	Close() error
}
