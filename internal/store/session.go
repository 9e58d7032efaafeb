package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type sessionRepo struct {
	db *sql.DB
}

var sessionColumns = []string{
	"id", "username", "cookie", "expires_at", "created_at",
}

func (r *sessionRepo) Save(ctx context.Context, s *Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	del, delArgs := builder().Delete(SessionsTable.Name).Query()
	if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("clear previous session: %w", err)
	}

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	var expires any
	if s.ExpiresAt != nil {
		expires = s.ExpiresAt.UTC()
	}
	ins, insArgs := builder().Insert(SessionsTable.Name).
		Columns(sessionColumns[1:]...).
		Values(s.Username, s.Cookie, expires, s.CreatedAt).
		Query()
	res, err := tx.ExecContext(ctx, ins, insArgs...)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		s.ID = int(id)
	}
	return tx.Commit()
}

func (r *sessionRepo) Current(ctx context.Context) (*Session, error) {
	query, args := builder().Select(sessionColumns...).
		From(entsql.Table(SessionsTable.Name)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Query()

	var s Session
	var expires sql.NullTime
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.Username, &s.Cookie, &expires, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	if expires.Valid {
		t := expires.Time
		s.ExpiresAt = &t
	}
	return &s, nil
}

func (r *sessionRepo) Clear(ctx context.Context) error {
	query, args := builder().Delete(SessionsTable.Name).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
