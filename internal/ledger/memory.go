package ledger

import (
	"context"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryStore keeps accounts in a concurrent in-process map.
type MemoryStore struct {
	accounts *xsync.MapOf[Address, *Account]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: xsync.NewMapOf[Address, *Account]()}
}

func (s *MemoryStore) Create(ctx context.Context, acct *Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, loaded := s.accounts.LoadOrStore(acct.Address, acct.clone()); loaded {
		return ErrAccountExists
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, addr Address) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	acct, ok := s.accounts.Load(addr)
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct.clone(), nil
}

// Commit checks that every account exists before touching any of them.
// Accounts are never removed from an open store, so the writes cannot fail
// halfway.
func (s *MemoryStore) Commit(ctx context.Context, updates []AccountUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, u := range updates {
		if _, ok := s.accounts.Load(u.Address); !ok {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, u.Address)
		}
	}
	for _, u := range updates {
		data := u.Data
		s.accounts.Compute(u.Address, func(old *Account, loaded bool) (*Account, bool) {
			next := old.clone()
			next.Data = append([]byte(nil), data...)
			return next, false
		})
	}
	return nil
}

// Len returns the number of stored accounts.
func (s *MemoryStore) Len() int {
	return s.accounts.Size()
}

func (s *MemoryStore) Close() error {
	s.accounts.Clear()
	return nil
}

var _ Store = (*MemoryStore)(nil)
