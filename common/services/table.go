package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"
)

// ErrNoRowsAffected is returned when an update matched no row
var ErrNoRowsAffected = errors.New("no rows affected")

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Column pairs a column name with a value
type Column struct {
	Name  string
	Value any
}

// Col builds a Column
func Col(name string, value any) Column {
	return Column{Name: name, Value: value}
}

// table runs generic insert, equality lookup and update-by-id statements against one table
type table struct {
	db   DBTX
	name string
}

func quote(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

func placeholders(from, n int) []string {
	return lo.Times(n, func(i int) string {
		return fmt.Sprintf("$%d", from+i)
	})
}

func (t table) insertSQL(columns []Column) (string, []any) {
	names := lo.Map(columns, func(c Column, _ int) string { return quote(c.Name) })
	args := lo.Map(columns, func(c Column, _ int) any { return c.Value })
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(t.name), strings.Join(names, ", "), strings.Join(placeholders(1, len(columns)), ", "))
	return sql, args
}

func (t table) existsSQL(where []Column) (string, []any) {
	conds := lo.Map(where, func(c Column, i int) string {
		return fmt.Sprintf("%s = $%d", quote(c.Name), i+1)
	})
	args := lo.Map(where, func(c Column, _ int) any { return c.Value })
	sql := fmt.Sprintf("SELECT id FROM %s WHERE %s LIMIT 1", quote(t.name), strings.Join(conds, " AND "))
	return sql, args
}

func (t table) updateSQL(id string, set []Column) (string, []any) {
	assignments := lo.Map(set, func(c Column, i int) string {
		return fmt.Sprintf("%s = $%d", quote(c.Name), i+1)
	})
	args := append(lo.Map(set, func(c Column, _ int) any { return c.Value }), id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		quote(t.name), strings.Join(assignments, ", "), len(set)+1)
	return sql, args
}

// Insert inserts one row
func (t table) Insert(ctx context.Context, columns []Column) error {
	sql, args := t.insertSQL(columns)
	if _, err := t.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", t.name, err)
	}
	return nil
}

// FindIDBy returns the id of the first row whose columns all equal the given values
func (t table) FindIDBy(ctx context.Context, where ...Column) (string, bool, error) {
	sql, args := t.existsSQL(where)
	var id string
	if err := t.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("lookup in %s: %w", t.name, err)
	}
	return id, true, nil
}

// UpdateByID sets columns on the row with the given id
func (t table) UpdateByID(ctx context.Context, id string, set []Column) error {
	sql, args := t.updateSQL(id, set)
	tag, err := t.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", t.name, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s %s: %w", t.name, id, ErrNoRowsAffected)
	}
	return nil
}
