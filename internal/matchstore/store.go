package matchstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"puttanesca/internal/components/assert"
	"puttanesca/internal/components/errs"
	"puttanesca/internal/components/telemetry"
	"puttanesca/internal/matches"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	tracer = otel.Tracer("puttanesca.matchstore")
	meter  = otel.Meter("puttanesca.matchstore")
)

const (
	report_store_upsert = "store.upsert"
)

type OpenOptions struct {
	// when false, a missing database file is an error
	Create bool
}

// Store persists matches in a sqlite compatible database.
type Store struct {
	db      *sql.DB
	tel     telemetry.API
	upserts metric.Int64Counter
}

func newStore(db *sql.DB, tel telemetry.API) (Store, error) {
	assert.NotNil(tel)

	upserts, err := meter.Int64Counter(
		"matchstore.upserts",
		metric.WithDescription("matches written to the store"),
	)
	if err != nil {
		return Store{}, err
	}
	return Store{
		db:      db,
		tel:     telemetry.NewScopedAPI("matchstore", tel),
		upserts: upserts,
	}, nil
}

// dsn builds a "file:" uri, the path is made absolute and escaped so that
// characters like '#' or '?' stay part of the file name.
func dsn(path string, opts OpenOptions) (string, error) {
	mode := "rw"
	if opts.Create {
		mode = "rwc"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	uri := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "mode=" + mode,
	}
	return uri.String(), nil
}

func isCantOpen(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CANTOPEN
}

func validate(ctx context.Context, db *sql.DB) error {
	var version int
	return db.QueryRowContext(ctx, "PRAGMA schema_version").Scan(&version)
}

// Open opens (and with OpenOptions.Create, creates) the sqlite file at
// `path` and checks that it is a readable database.
func Open(ctx context.Context, path string, opts OpenOptions, tel telemetry.API) (Store, error) {
	assert.NotEmptyStr(path)

	ctx, span := tracer.Start(ctx, "Open")
	defer span.End()

	span.SetAttributes(
		attribute.String("matchstore.path", path),
		attribute.Bool("matchstore.create", opts.Create),
	)

	source, err := dsn(path, opts)
	if err != nil {
		return Store{}, fmt.Errorf("%w: %s: %w", errs.ErrStorageOpen, path, err)
	}
	db, err := sql.Open("sqlite", source)
	if err != nil {
		return Store{}, fmt.Errorf("%w: %s: %w", errs.ErrStorageOpen, path, err)
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)

	err = validate(ctx, db)
	if isCantOpen(err) {
		db.Close()
		span.SetStatus(codes.Error, "cannot open")
		return Store{}, fmt.Errorf(
			"%w: %w: cannot open %s, try --create: %w",
			errs.ErrStorageOpen, errs.ErrCannotOpen, path, err,
		)
	}
	if err != nil {
		db.Close()
		span.SetStatus(codes.Error, "invalid database")
		return Store{}, fmt.Errorf("%w: %s: %w", errs.ErrStorageOpen, path, err)
	}

	_, err = db.ExecContext(ctx, "PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return Store{}, fmt.Errorf("%w: enable wal %s: %w", errs.ErrStorageOpen, path, err)
	}

	store, err := newStore(db, tel)
	if err != nil {
		db.Close()
		return Store{}, fmt.Errorf("%w: %w", errs.ErrStorageOpen, err)
	}
	return store, nil
}

// OpenRemote wraps an already opened remote database (ex. libsql), it is
// validated the same way as a local file but journaling is left alone.
func OpenRemote(ctx context.Context, db *sql.DB, tel telemetry.API) (Store, error) {
	ctx, span := tracer.Start(ctx, "OpenRemote")
	defer span.End()

	err := validate(ctx, db)
	if err != nil {
		db.Close()
		span.SetStatus(codes.Error, "invalid database")
		return Store{}, fmt.Errorf("%w: %w", errs.ErrStorageOpen, err)
	}
	store, err := newStore(db, tel)
	if err != nil {
		db.Close()
		return Store{}, fmt.Errorf("%w: %w", errs.ErrStorageOpen, err)
	}
	return store, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

func nullScore(score *int) sql.NullInt64 {
	if score == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*score), Valid: true}
}

func scoreFromNull(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	return matches.Score(int(value.Int64))
}

const upsertMatch = `INSERT INTO matches (team1, team2, match_day, match_date, team1_score, team2_score)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (team1, team2) DO UPDATE SET
	match_day = excluded.match_day,
	match_date = excluded.match_date,
	team1_score = excluded.team1_score,
	team2_score = excluded.team2_score`

// Upsert writes a match, replacing the stored row of the same pair of teams.
func (s Store) Upsert(ctx context.Context, m matches.Match) error {
	_, err := s.db.ExecContext(
		ctx,
		upsertMatch,
		m.Team1,
		m.Team2,
		m.MatchDay,
		m.MatchDate.String(),
		nullScore(m.Team1Score),
		nullScore(m.Team2Score),
	)
	if err != nil {
		s.tel.ReportBroken(report_store_upsert, err, m.Team1, m.Team2)
		return fmt.Errorf("%w: upsert %s vs %s: %w", errs.ErrStorageWrite, m.Team1, m.Team2, err)
	}
	s.upserts.Add(ctx, 1)
	return nil
}

const listMatches = `SELECT team1, team2, match_day, match_date, team1_score, team2_score
FROM matches
ORDER BY match_day, match_date, team1, team2`

// Matches lists every stored match, icons are not persisted.
func (s Store) Matches(ctx context.Context) ([]matches.Match, error) {
	rows, err := s.db.QueryContext(ctx, listMatches)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []matches.Match
	for rows.Next() {
		var m matches.Match
		var date string
		var team1Score, team2Score sql.NullInt64
		err := rows.Scan(&m.Team1, &m.Team2, &m.MatchDay, &date, &team1Score, &team2Score)
		if err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		parsed, ok := matches.ParseMatchDate(date)
		if !ok {
			s.tel.ReportWarning("store.matches", "invalid stored date", date)
		}
		m.MatchDate = parsed
		m.Team1Score = scoreFromNull(team1Score)
		m.Team2Score = scoreFromNull(team2Score)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}
