// Package ledger is a small in-process account ledger. It stores accounts,
// hosts native programs at fixed addresses and runs instructions against them
// with the signer, ownership and write-back rules of a real chain.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// LoaderAddress owns every deployed program account.
var LoaderAddress = AddressFromName("native-loader")

// AccountEvent reports an account whose data changed in a committed
// instruction.
type AccountEvent struct {
	Slot    uint64
	Address Address
	Data    []byte
}

// EventHandler receives account events after each successful invocation.
type EventHandler func(AccountEvent)

// Ledger runs instructions against a Store. Invocations are serialized.
type Ledger struct {
	store    Store
	logger   *slog.Logger
	programs *xsync.MapOf[Address, Program]

	mu       sync.Mutex
	slot     atomic.Uint64
	handlers []EventHandler
	cleanup  []func() error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for ledger activity.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// New creates a ledger on top of store. The ledger closes the store.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		logger:   slog.Default(),
		programs: xsync.NewMapOf[Address, Program](),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.AddCleanup(store.Close)
	return l
}

// AddCleanup registers f to run on Close.
func (l *Ledger) AddCleanup(f func() error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cleanup = append(l.cleanup, f)
}

// Close runs the registered cleanup functions in reverse order and returns
// the first error.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var first error
	for i := len(l.cleanup) - 1; i >= 0; i-- {
		if err := l.cleanup[i](); err != nil && first == nil {
			first = err
		}
	}
	l.cleanup = nil
	return first
}

// Subscribe registers h for account events.
func (l *Ledger) Subscribe(h EventHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, h)
}

// Slot returns the number of committed invocations.
func (l *Ledger) Slot() uint64 {
	return l.slot.Load()
}

// Deploy installs p at id. The program account is created if it does not
// exist yet; redeploying replaces the code.
func (l *Ledger) Deploy(ctx context.Context, id Address, p Program) error {
	err := l.store.Create(ctx, &Account{Address: id, Owner: LoaderAddress, Executable: true})
	if err != nil && !errors.Is(err, ErrAccountExists) {
		return fmt.Errorf("deploy %s: %w", id, err)
	}
	l.programs.Store(id, p)
	l.logger.Info("program deployed", "program", id)
	return nil
}

// CreateAccountWithSeed creates a zeroed account of space bytes owned by
// owner at the address derived from base and seed.
func (l *Ledger) CreateAccountWithSeed(ctx context.Context, base Address, seed string, space int, owner Address) (Address, error) {
	if space < 0 {
		return Address{}, fmt.Errorf("invalid account space %d", space)
	}
	addr, err := DeriveAddress(base, seed, owner)
	if err != nil {
		return Address{}, err
	}
	if err := l.store.Create(ctx, &Account{Address: addr, Owner: owner, Data: make([]byte, space)}); err != nil {
		return Address{}, fmt.Errorf("create account %s: %w", addr, err)
	}
	l.logger.Info("account created", "address", addr, "owner", owner, "space", space)
	return addr, nil
}

// Account returns a copy of the account at addr.
func (l *Ledger) Account(ctx context.Context, addr Address) (*Account, error) {
	return l.store.Get(ctx, addr)
}

// Invoke runs ins with the given signers. Account data changes are persisted
// only when the program returns no error. Event handlers run after the
// invocation has committed and the ledger lock is released, so they may call
// back into the ledger.
func (l *Ledger) Invoke(ctx context.Context, ins Instruction, signers ...Address) error {
	events, handlers, err := l.invoke(ctx, ins, signers)
	if err != nil {
		return err
	}
	for _, ev := range events {
		for _, h := range handlers {
			h(ev)
		}
	}
	return nil
}

func (l *Ledger) invoke(ctx context.Context, ins Instruction, signers []Address) ([]AccountEvent, []EventHandler, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	log := l.logger.With("program", ins.ProgramID)
	prog, ok := l.programs.Load(ins.ProgramID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrProgramNotFound, ins.ProgramID)
	}
	progAcct, err := l.store.Get(ctx, ins.ProgramID)
	if err != nil {
		return nil, nil, fmt.Errorf("load program %s: %w", ins.ProgramID, err)
	}
	if !progAcct.Executable {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotExecutable, ins.ProgramID)
	}

	infos := make([]*AccountInfo, len(ins.Accounts))
	// Snapshot of each account as stored. Programs may rewrite AccountInfo
	// fields, so write-back checks only trust these.
	stored := make([]AccountInfo, len(ins.Accounts))
	for i, meta := range ins.Accounts {
		if meta.IsSigner && !containsAddress(signers, meta.Address) {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingSignature, meta.Address)
		}
		info := &AccountInfo{
			Address:    meta.Address,
			Owner:      SystemAddress,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		}
		acct, err := l.store.Get(ctx, meta.Address)
		switch {
		case err == nil:
			info.Owner = acct.Owner
			info.Data = acct.Data
		case !errors.Is(err, ErrAccountNotFound):
			return nil, nil, fmt.Errorf("load account %s: %w", meta.Address, err)
		}
		stored[i] = *info
		stored[i].Data = append([]byte(nil), info.Data...)
		infos[i] = info
	}

	log.Debug("invoke", "accounts", len(infos), "data_len", len(ins.Data))
	if err := prog.Process(ctx, ins.ProgramID, infos, ins.Data); err != nil {
		log.Warn("instruction failed", "error", err)
		return nil, nil, err
	}

	var updates []AccountUpdate
	for i, info := range infos {
		if bytes.Equal(stored[i].Data, info.Data) {
			continue
		}
		switch {
		case !stored[i].IsWritable:
			return nil, nil, fmt.Errorf("%w: %s", ErrReadonlyModified, stored[i].Address)
		case stored[i].Owner != ins.ProgramID:
			return nil, nil, fmt.Errorf("%w: %s", ErrExternalModification, stored[i].Address)
		case len(info.Data) != len(stored[i].Data):
			return nil, nil, fmt.Errorf("account %s data resized from %d to %d bytes", stored[i].Address, len(stored[i].Data), len(info.Data))
		}
		updates = append(updates, AccountUpdate{Address: stored[i].Address, Data: append([]byte(nil), info.Data...)})
	}
	if len(updates) > 0 {
		if err := l.store.Commit(ctx, updates); err != nil {
			return nil, nil, fmt.Errorf("commit instruction: %w", err)
		}
	}

	slot := l.slot.Add(1)
	log.Debug("instruction committed", "slot", slot, "changed", len(updates))
	events := make([]AccountEvent, len(updates))
	for i, u := range updates {
		events[i] = AccountEvent{Slot: slot, Address: u.Address, Data: u.Data}
	}
	return events, append([]EventHandler(nil), l.handlers...), nil
}

func containsAddress(list []Address, addr Address) bool {
	for _, a := range list {
		if a == addr {
			return true
		}
	}
	return false
}
