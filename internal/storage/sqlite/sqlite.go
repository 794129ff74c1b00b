// Package sqlite implements storage.FriendStore on an in-memory SQLite
// database. The database lives only as long as the store: closing it (or
// exiting the process) drops every friend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"eatsplit/internal/core"
	"eatsplit/internal/storage"
)

var _ storage.FriendStore = (*Store)(nil)

type Store struct {
	db  *sql.DB
	dsn string
}

// MemoryDSN returns a shared-cache in-memory DSN. Connections opened with the
// same name see the same database while at least one of them is open.
func MemoryDSN(name string) string {
	if name == "" {
		name = "eatsplit-" + uuid.NewString()
	}
	return "file:" + url.PathEscape(name) + "?mode=memory&cache=shared"
}

// New opens an in-memory database under the given name and applies the schema.
func New(name string) (*Store, error) {
	dsn := MemoryDSN(name)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection keeps the in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, f core.Friend) error {
	if err := f.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO friends (id, name, image, balance_cents) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		f.ID, f.Name, f.Image, f.Balance.Cents,
	)
	if err != nil {
		return fmt.Errorf("insert friend: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert friend rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("insert %s: %w", f.ID, storage.ErrDuplicateID)
	}

	slog.DebugContext(ctx, "Friend saved to SQLite",
		"id", f.ID,
		"name", f.Name,
		"balance_cents", f.Balance.Cents)
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (core.Friend, error) {
	var f core.Friend
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, image, balance_cents FROM friends WHERE id = ?",
		id,
	).Scan(&f.ID, &f.Name, &f.Image, &f.Balance.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Friend{}, core.ErrFriendNotFound
	}
	if err != nil {
		return core.Friend{}, fmt.Errorf("get friend: %w", err)
	}
	return f, nil
}

func (s *Store) AdjustBalance(ctx context.Context, id string, delta core.Money) (core.Friend, error) {
	var f core.Friend
	err := s.db.QueryRowContext(ctx,
		`UPDATE friends SET balance_cents = balance_cents + ? WHERE id = ?
		 RETURNING id, name, image, balance_cents`,
		delta.Cents, id,
	).Scan(&f.ID, &f.Name, &f.Image, &f.Balance.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Friend{}, core.ErrFriendNotFound
	}
	if err != nil {
		return core.Friend{}, fmt.Errorf("adjust balance: %w", err)
	}
	return f, nil
}

func (s *Store) List(ctx context.Context) ([]core.Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, image, balance_cents FROM friends ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	var friends []core.Friend
	for rows.Next() {
		var f core.Friend
		if err := rows.Scan(&f.ID, &f.Name, &f.Image, &f.Balance.Cents); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friends: %w", err)
	}
	return friends, nil
}
