package matchstore

import (
	"context"
	"database/sql"
	"fmt"

	"puttanesca/internal/components/errs"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 1

// one statement per element, executed in order
var schema = []string{
	`CREATE TABLE schema_version (
	version INTEGER NOT NULL
)`,
	`CREATE TABLE matches (
	team1 TEXT NOT NULL,
	team2 TEXT NOT NULL,
	match_day INTEGER NOT NULL,
	match_date TEXT NOT NULL,
	team1_score INTEGER,
	team2_score INTEGER,
	PRIMARY KEY (team1, team2)
)`,
}

// Version returns the stored schema version, `ok` is false when the
// database has never been initialized.
func (s Store) Version(ctx context.Context) (version int, ok bool, err error) {
	var count int
	err = s.db.QueryRowContext(
		ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	).Scan(&count)
	if err != nil {
		return 0, false, fmt.Errorf("%w: read schema version: %w", errs.ErrStorageWrite, err)
	}
	if count == 0 {
		return 0, false, nil
	}

	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, false, fmt.Errorf("%w: schema_version has no rows", errs.ErrStorageWrite)
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: read schema version: %w", errs.ErrStorageWrite, err)
	}
	return version, true, nil
}

func (s Store) initialize(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		_, err = tx.ExecContext(ctx, stmt)
		if err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", CurrentVersion)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// EnsureSchema creates the tables of an empty database or brings an older
// one up to CurrentVersion.
func (s Store) EnsureSchema(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "EnsureSchema")
	defer span.End()

	version, ok, err := s.Version(ctx)
	if err != nil {
		return err
	}
	if !ok {
		s.tel.ReportDebug("initializing schema", CurrentVersion)
		err = s.initialize(ctx)
		if err != nil {
			return fmt.Errorf("%w: initialize schema: %w", errs.ErrStorageWrite, err)
		}
		return nil
	}
	return s.migrate(ctx, version)
}
