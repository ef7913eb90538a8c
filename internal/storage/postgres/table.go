package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"portfolio-backend-go/internal/storage"
)

type builder[E any] interface {
	Build() E
}

type patcher[E any] interface {
	ApplyTo(*E)
}

// table maps one entity kind onto a relational table whose primary key is a
// serial id column.
type table[E any, In builder[E], P patcher[E]] struct {
	db      *sqlx.DB
	name    string
	columns []string
	values  func(*E) []any
	orderBy string
}

func (t *table[E, In, P]) List(ctx context.Context) ([]E, error) {
	rows := []E{}
	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY %s`, t.name, t.orderBy)
	if err := t.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, t.wrap("list", err)
	}
	return rows, nil
}

func (t *table[E, In, P]) Get(ctx context.Context, id int) (E, error) {
	var row E
	query := fmt.Sprintf(`SELECT * FROM %s WHERE id = $1`, t.name)
	if err := t.db.GetContext(ctx, &row, query, id); err != nil {
		return row, t.wrap("get", err)
	}
	return row, nil
}

func (t *table[E, In, P]) Create(ctx context.Context, in In) (E, error) {
	row := in.Build()
	return t.insert(ctx, t.db, &row)
}

func (t *table[E, In, P]) insert(ctx context.Context, q sqlx.QueryerContext, row *E) (E, error) {
	placeholders := make([]string, len(t.columns))
	for i := range t.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING *`,
		t.name, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "))
	var created E
	if err := sqlx.GetContext(ctx, q, &created, query, t.values(row)...); err != nil {
		return created, t.wrap("create", err)
	}
	return created, nil
}

func (t *table[E, In, P]) Update(ctx context.Context, id int, patch P) (E, error) {
	var updated E
	err := withTx(ctx, t.db, func(tx *sqlx.Tx) error {
		var row E
		query := fmt.Sprintf(`SELECT * FROM %s WHERE id = $1 FOR UPDATE`, t.name)
		if err := tx.GetContext(ctx, &row, query, id); err != nil {
			return err
		}
		patch.ApplyTo(&row)
		var err error
		updated, err = t.update(ctx, tx, id, &row)
		return err
	})
	if err != nil {
		return updated, t.wrap("update", err)
	}
	return updated, nil
}

func (t *table[E, In, P]) update(ctx context.Context, q sqlx.QueryerContext, id int, row *E) (E, error) {
	assignments := make([]string, len(t.columns))
	for i, column := range t.columns {
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}
	args := append(t.values(row), id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING *`,
		t.name, strings.Join(assignments, ", "), len(args))
	var updated E
	err := sqlx.GetContext(ctx, q, &updated, query, args...)
	return updated, err
}

func (t *table[E, In, P]) Delete(ctx context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name)
	result, err := t.db.ExecContext(ctx, query, id)
	if err != nil {
		return t.wrap("delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return t.wrap("delete", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (t *table[E, In, P]) wrap(op string, err error) error {
	return mapError(fmt.Sprintf("%s %s", op, t.name), err)
}

type orderedTable[E any, In builder[E], P patcher[E]] struct {
	*table[E, In, P]
}

func (t orderedTable[E, In, P]) Reorder(ctx context.Context, ids []int) ([]E, error) {
	err := withTx(ctx, t.db, func(tx *sqlx.Tx) error {
		existing := []int{}
		if err := tx.SelectContext(ctx, &existing, fmt.Sprintf(`SELECT id FROM %s FOR UPDATE`, t.name)); err != nil {
			return err
		}
		if err := storage.CheckOrder(existing, ids); err != nil {
			return err
		}
		query := fmt.Sprintf(`UPDATE %s SET display_order = $1 WHERE id = $2`, t.name)
		for position, id := range ids {
			if _, err := tx.ExecContext(ctx, query, position, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var missing *storage.MissingIDError
		if errors.As(err, &missing) {
			return nil, err
		}
		return nil, t.wrap("reorder", err)
	}
	return t.List(ctx)
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return fmt.Errorf("%s: %w: %s", op, storage.ErrInvalidReference, pgErr.ConstraintName)
		case "23505":
			return fmt.Errorf("%s: %w: %s", op, storage.ErrConflict, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
