package repository

import (
	"context"

	"users-api/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// DB is the part of *pgxpool.Pool the repositories need
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// inTx runs fn inside its own transaction. The transaction is committed when
// fn returns nil and rolled back otherwise. Every failure comes back as a
// storage error tagged with description.
func inTx(ctx context.Context, db DB, description string, fn func(tx pgx.Tx) error) error {
	log.Debug().Str("txn", description).Msg("Running transaction")

	tx, err := db.Begin(ctx)
	if err != nil {
		return errs.Storage(description, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Warn().Err(rbErr).Str("txn", description).Msg("Failed to roll back transaction")
		}
		return errs.Storage(description, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Storage(description, err)
	}
	return nil
}
