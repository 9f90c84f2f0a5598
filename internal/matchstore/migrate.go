package matchstore

import (
	"context"
	"database/sql"
	"fmt"

	"puttanesca/internal/components/errs"
)

type migration = func(ctx context.Context, tx *sql.Tx) error

// migrations maps a schema version to the step that upgrades it to the
// next version.
var migrations = map[int]migration{}

func (s Store) migrate(ctx context.Context, from int) error {
	return s.migrateWith(ctx, from, CurrentVersion, migrations)
}

func (s Store) migrateWith(ctx context.Context, from, to int, steps map[int]migration) error {
	if from == to {
		return nil
	}
	if from > to {
		return fmt.Errorf(
			"%w: stored schema version %d is newer than %d",
			errs.ErrStorageWrite, from, to,
		)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: migrate: %w", errs.ErrStorageWrite, err)
	}
	defer tx.Rollback()

	for version := from; version < to; version++ {
		step, ok := steps[version]
		if !ok {
			return fmt.Errorf("%w: no migration from schema version %d", errs.ErrStorageWrite, version)
		}
		s.tel.ReportDebug("migrating schema", version, version+1)
		err = step(ctx, tx)
		if err != nil {
			return fmt.Errorf("%w: migrate from %d: %w", errs.ErrStorageWrite, version, err)
		}
	}

	_, err = tx.ExecContext(ctx, "UPDATE schema_version SET version = ?", to)
	if err != nil {
		return fmt.Errorf("%w: migrate: %w", errs.ErrStorageWrite, err)
	}
	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("%w: migrate: %w", errs.ErrStorageWrite, err)
	}
	return nil
}
