// Package sqlite provides an embedded SQLite store for accounts and transactions.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/simaogato/simplebanking-backend/internal/domain"
)

// Schema defines the SQL statements to create database tables.
// Amounts are stored as decimal strings to keep exact arithmetic.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    account_number TEXT NOT NULL UNIQUE,
    balance TEXT NOT NULL DEFAULT '0',
    created_date TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES accounts(id),
    transaction_type TEXT NOT NULL,   -- discriminator, e.g. 'DepositTransaction'
    amount TEXT NOT NULL,
    date TIMESTAMP NOT NULL,
    approval_code TEXT UNIQUE,
    payee TEXT,
    phone_number TEXT
);

CREATE INDEX IF NOT EXISTS idx_transactions_account_date
    ON transactions(account_id, date);
`

// Connection manages a SQLite database connection.
type Connection struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Open opens a SQLite database connection and initializes the schema.
// Every transaction is started with BEGIN IMMEDIATE so write units of work
// are serialized by the database write lock.
func Open(dbPath string) (*Connection, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_txlock=immediate&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared and avoids SQLITE_BUSY between writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Connection{
		db:     db,
		dbPath: dbPath,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the database connection.
func (c *Connection) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (c *Connection) Path() string {
	return c.dbPath
}

// Accounts returns an AccountRepository bound to the connection
func (c *Connection) Accounts() domain.AccountRepository {
	return &accountRepository{db: c.db, now: c.now}
}

// Transactions returns a TransactionRepository bound to the connection
func (c *Connection) Transactions() domain.TransactionRepository {
	return &transactionRepository{db: c.db}
}

// WithinTx executes fn within a transaction.
// If fn returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
func (c *Connection) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	repos := domain.Repositories{
		Accounts:     &accountRepository{db: tx, now: c.now},
		Transactions: &transactionRepository{db: tx},
	}
	if err := fn(ctx, repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
