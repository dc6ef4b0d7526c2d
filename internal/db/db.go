// Package db implements the relational store on Postgres via pgx. Every
// mutation is a single-row update scoped by primary key or by the
// conditional claim predicate; no multi-row transactions are relied on.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	Pool *pgxpool.Pool

	// maxAttempts bounds automatic retries of a queue item; once attempts
	// reaches it a failed item is no longer returned to pending.
	maxAttempts int
}

func New(conn string, maxAttempts int) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), conn)
	if err != nil {
		return nil, err
	}

	return &Store{Pool: pool, maxAttempts: maxAttempts}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}
