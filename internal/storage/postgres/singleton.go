package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// singleton keeps at most one row in its table. Writers take a table lock so
// two first writes cannot both insert.
type singleton[E any, PE identified[E], P patcher[E]] struct {
	rows     *table[E, noInput[E], P]
	defaults func() E
	touch    func(*E)
}

type identified[E any] interface {
	*E
	GetID() int
}

type noInput[E any] struct{}

func (noInput[E]) Build() E {
	var zero E
	return zero
}

func (s *singleton[E, PE, P]) Get(ctx context.Context) (E, error) {
	row, found, err := s.first(ctx, s.rows.db, false)
	if err != nil {
		return row, s.rows.wrap("get", err)
	}
	if !found {
		return s.defaults(), nil
	}
	return row, nil
}

func (s *singleton[E, PE, P]) Upsert(ctx context.Context, patch P) (E, error) {
	var saved E
	err := withTx(ctx, s.rows.db, func(tx *sqlx.Tx) error {
		lock := fmt.Sprintf(`LOCK TABLE %s IN SHARE ROW EXCLUSIVE MODE`, s.rows.name)
		if _, err := tx.ExecContext(ctx, lock); err != nil {
			return err
		}
		row, found, err := s.first(ctx, tx, true)
		if err != nil {
			return err
		}
		if !found {
			row = s.defaults()
		}
		patch.ApplyTo(&row)
		if s.touch != nil {
			s.touch(&row)
		}
		if found {
			saved, err = s.rows.update(ctx, tx, PE(&row).GetID(), &row)
			return err
		}
		saved, err = s.rows.insert(ctx, tx, &row)
		return err
	})
	if err != nil {
		return saved, s.rows.wrap("upsert", err)
	}
	return saved, nil
}

// exists reports whether the row has been written.
func (s *singleton[E, PE, P]) exists(ctx context.Context) (bool, error) {
	_, found, err := s.first(ctx, s.rows.db, false)
	return found, err
}

func (s *singleton[E, PE, P]) first(ctx context.Context, q sqlx.QueryerContext, forUpdate bool) (E, bool, error) {
	var row E
	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY id LIMIT 1`, s.rows.name)
	if forUpdate {
		query += ` FOR UPDATE`
	}
	err := sqlx.GetContext(ctx, q, &row, query)
	if errors.Is(err, sql.ErrNoRows) {
		return row, false, nil
	}
	return row, err == nil, err
}
