package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const accountsSchema = `CREATE TABLE IF NOT EXISTS accounts (
	address    BLOB PRIMARY KEY,
	owner      BLOB NOT NULL,
	executable INTEGER NOT NULL DEFAULT 0,
	data       BLOB NOT NULL
)`

// SQLiteStore persists accounts in a SQLite database file.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the account database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(accountsSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create accounts table: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, acct *Account) error {
	if s == nil || s.sqlDB == nil {
		return ErrStoreNotConfigured
	}
	data := acct.Data
	if data == nil {
		data = []byte{}
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO accounts (address, owner, executable, data) VALUES (?, ?, ?, ?)`,
		acct.Address[:], acct.Owner[:], acct.Executable, data,
	)
	if isUniqueViolation(err) {
		return ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("insert account %s: %w", acct.Address, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, addr Address) (*Account, error) {
	if s == nil || s.sqlDB == nil {
		return nil, ErrStoreNotConfigured
	}
	var (
		owner []byte
		data  []byte
		acct  = &Account{Address: addr}
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT owner, executable, data FROM accounts WHERE address = ?`, addr[:],
	).Scan(&owner, &acct.Executable, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", addr, err)
	}
	if len(owner) != len(acct.Owner) {
		return nil, fmt.Errorf("get account %s: stored owner has %d bytes", addr, len(owner))
	}
	copy(acct.Owner[:], owner)
	acct.Data = append([]byte{}, data...)
	return acct, nil
}

// Commit writes all updates in one transaction.
func (s *SQLiteStore) Commit(ctx context.Context, updates []AccountUpdate) (err error) {
	if s == nil || s.sqlDB == nil {
		return ErrStoreNotConfigured
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, u := range updates {
		data := u.Data
		if data == nil {
			data = []byte{}
		}
		res, err := tx.ExecContext(ctx, `UPDATE accounts SET data = ? WHERE address = ?`, data, u.Address[:])
		if err != nil {
			return fmt.Errorf("update account %s: %w", u.Address, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update account %s: %w", u.Address, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, u.Address)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit accounts: %w", err)
	}
	return nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ Store = (*SQLiteStore)(nil)
