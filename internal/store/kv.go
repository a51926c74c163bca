package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	entriesTableName = "kv_entries"
	columnKey        = "key"
	columnValue      = "value"
	columnUpdatedAt  = "updated_at"
)

var (
	// EntriesColumns holds the columns for the "kv_entries" table.
	EntriesColumns = []*schema.Column{
		{Name: columnKey, Type: field.TypeString, Unique: true},
		{Name: columnValue, Type: field.TypeString, Size: 2147483647},
		{Name: columnUpdatedAt, Type: field.TypeTime},
	}
	// EntriesTable holds the schema information for the "kv_entries" table.
	EntriesTable = &schema.Table{
		Name:       entriesTableName,
		Columns:    EntriesColumns,
		PrimaryKey: []*schema.Column{EntriesColumns[0]},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		EntriesTable,
	}
)

// sqliteKV implements KV on the kv_entries table.
type sqliteKV struct {
	db *sql.DB
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *sqliteKV) Get(ctx context.Context, key string) (string, bool, error) {
	query, args := builder().
		Select(columnValue).
		From(entsql.Table(entriesTableName)).
		Where(entsql.EQ(columnKey, key)).
		Query()

	var value string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (r *sqliteKV) Set(ctx context.Context, key, value string) error {
	query, args := builder().
		Insert(entriesTableName).
		Columns(columnKey, columnValue, columnUpdatedAt).
		Values(key, value, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns(columnKey),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (r *sqliteKV) Remove(ctx context.Context, key string) error {
	query, args := builder().
		Delete(entriesTableName).
		Where(entsql.EQ(columnKey, key)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

func (r *sqliteKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	sel := builder().
		Select(columnKey).
		From(entsql.Table(entriesTableName)).
		OrderBy(columnKey)
	if prefix != "" {
		sel = sel.Where(entsql.HasPrefix(columnKey, prefix))
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
