package credentialstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// SqliteStore keeps credential items in a local sqlite database.
type SqliteStore struct {
	db *sql.DB
}

func NewSqliteStore(db *sql.DB) SqliteStore {
	return SqliteStore{db: db}
}

func (s SqliteStore) IsStored(ctx context.Context, c Storable) (bool, error) {
	for _, item := range c.StorageItems() {
		var value string
		err := s.db.QueryRowContext(
			ctx,
			"select value from credentials where name = ?",
			item.Name,
		).Scan(&value)
		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("query credential item %q: %w", item.Name, err)
		}
	}
	return true, nil
}

func (s SqliteStore) Store(ctx context.Context, c Storable) error {
	items := c.StorageItems()
	for _, item := range items {
		if item.Name == "" || item.Value == "" {
			return fmt.Errorf("%w: %q", ErrInvalidAttributes, item.Name)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, item := range items {
		_, err := tx.ExecContext(
			ctx,
			`insert into credentials (name, value, description) values (?, ?, ?)
			on conflict (name) do update set value = excluded.value, description = excluded.description`,
			item.Name, item.Value, item.Description,
		)
		if err != nil {
			return fmt.Errorf("store credential item %q: %w", item.Name, err)
		}
	}
	return tx.Commit()
}

func (s SqliteStore) Restore(ctx context.Context, c Storable) error {
	var restored []Item
	for _, item := range c.StorageItems() {
		var value string
		err := s.db.QueryRowContext(
			ctx,
			"select value from credentials where name = ?",
			item.Name,
		).Scan(&value)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: %q", ErrItemNotFound, item.Name)
		}
		if err != nil {
			return fmt.Errorf("restore credential item %q: %w", item.Name, err)
		}
		if value == "" {
			return fmt.Errorf("%w: %q", ErrInvalidData, item.Name)
		}
		restored = append(restored, Item{Name: item.Name, Value: value})
	}
	return c.RestoreItems(restored)
}

func (s SqliteStore) Clear(ctx context.Context, c Storable) error {
	for _, item := range c.StorageItems() {
		_, err := s.db.ExecContext(
			ctx,
			"delete from credentials where name = ?",
			item.Name,
		)
		if err != nil {
			return fmt.Errorf("clear credential item %q: %w", item.Name, err)
		}
	}
	return nil
}
