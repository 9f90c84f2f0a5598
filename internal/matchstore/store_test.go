package matchstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"puttanesca/internal/components/errs"
	"puttanesca/internal/matches"
	"puttanesca/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func openTestStore(t testing.TB) (Store, string) {
	path := testutil.TempDbPath(t)
	store, err := Open(context.Background(), path, OpenOptions{Create: true}, &testutil.Recorder{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store, path
}

func date(t testing.TB, value string) matches.MatchDate {
	d, ok := matches.ParseMatchDate(value)
	if !ok {
		t.Fatal("invalid date", value)
	}
	return d
}

func TestSchemaBootstrap(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	store, _ := openTestStore(t)

	_, ok, err := store.Version(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	err = store.EnsureSchema(ctx)
	require.NoError(t, err)

	version, ok, err := store.Version(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, CurrentVersion, version)

	// idempotent once initialized
	err = store.EnsureSchema(ctx)
	require.NoError(t, err)

	found, err := store.Matches(ctx)
	require.NoError(t, err)
	require.Len(t, found, 0)
}

func TestSchemaStatements(t *testing.T) {
	for _, stmt := range schema {
		require.NotContains(t, stmt, ";")
	}

	ctx := context.Background()
	store, _ := openTestStore(t)
	require.NoError(t, store.EnsureSchema(ctx))

	var tables []string
	rows, err := store.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []string{"matches", "schema_version"}, tables)
}

func TestUpsertOverwrite(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	store, _ := openTestStore(t)
	require.NoError(t, store.EnsureSchema(ctx))

	first := matches.Match{
		MatchDay:  2,
		MatchDate: date(t, "2000-01-01"),
		Team1:     "Blue",
		Team2:     "Red",
	}
	second := matches.Match{
		MatchDay:   2,
		MatchDate:  date(t, "2000-01-02"),
		Team1:      "Blue",
		Team2:      "Red",
		Team1Score: matches.Score(3),
		Team2Score: matches.Score(1),
	}
	require.NoError(t, store.Upsert(ctx, first))
	require.NoError(t, store.Upsert(ctx, second))

	found, err := store.Matches(ctx)
	require.NoError(t, err)

	expected := []matches.Match{{
		MatchDay:   2,
		MatchDate:  date(t, "2000-01-02"),
		Team1:      "Blue",
		Team2:      "Red",
		Team1Score: matches.Score(3),
		Team2Score: matches.Score(1),
	}}
	diff := cmp.Diff(expected, found)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestMatchesOrdering(t *testing.T) {
	ctx := context.Background()

	store, _ := openTestStore(t)
	require.NoError(t, store.EnsureSchema(ctx))

	input := []matches.Match{
		{MatchDay: 2, MatchDate: date(t, "2023-8-28"), Team1: "Lazio", Team2: "Genoa"},
		{MatchDay: 1, MatchDate: date(t, "2023-8-20"), Team1: "Roma", Team2: "Salernitana"},
		{MatchDay: 1, MatchDate: date(t, "2023-8-19"), Team1: "Inter", Team2: "Monza", Team1Score: matches.Score(2), Team2Score: matches.Score(0)},
		{MatchDay: 1, MatchDate: date(t, "2023-8-19"), Team1: "Empoli", Team2: "Hellas Verona", Team2Score: matches.Score(1)},
	}
	for _, m := range input {
		require.NoError(t, store.Upsert(ctx, m))
	}

	found, err := store.Matches(ctx)
	require.NoError(t, err)

	lines := make([]string, len(found))
	for i, m := range found {
		lines[i] = m.String()
	}
	require.Equal(t, []string{
		"Match #1 2023-08-19: Empoli vs Hellas Verona (? - 1)",
		"Match #1 2023-08-19: Inter vs Monza (2 - 0)",
		"Match #1 2023-08-20: Roma vs Salernitana (? - ?)",
		"Match #2 2023-08-28: Lazio vs Genoa (? - ?)",
	}, lines)
}

func TestDsn(t *testing.T) {
	dir := t.TempDir()

	source, err := dsn(filepath.Join(dir, "league#1.db"), OpenOptions{Create: true})
	require.NoError(t, err)
	require.Equal(t, "file://"+filepath.ToSlash(dir)+"/league%231.db?mode=rwc", source)

	source, err = dsn(filepath.Join(dir, "what?.db"), OpenOptions{})
	require.NoError(t, err)
	require.Equal(t, "file://"+filepath.ToSlash(dir)+"/what%3F.db?mode=rw", source)
}

func TestOpenSpecialCharacters(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"league#1.db", "what?.db", "with space.db", "100%.db"} {
		dir := t.TempDir()
		path := filepath.Join(dir, name)

		store, err := Open(ctx, path, OpenOptions{Create: true}, &testutil.Recorder{})
		require.NoError(t, err, name)
		require.NoError(t, store.EnsureSchema(ctx), name)
		require.NoError(t, store.Upsert(ctx, matches.Match{
			MatchDay:  1,
			MatchDate: date(t, "2023-8-19"),
			Team1:     "Inter",
			Team2:     "Monza",
		}), name)
		require.NoError(t, store.Close(), name)

		_, err = os.Stat(path)
		require.NoError(t, err, name)

		reopened, err := Open(ctx, path, OpenOptions{}, &testutil.Recorder{})
		require.NoError(t, err, name)
		found, err := reopened.Matches(ctx)
		require.NoError(t, err, name)
		require.Len(t, found, 1, name)
		require.NoError(t, reopened.Close(), name)
	}
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingWithoutCreate", func(t *testing.T) {
		path := testutil.TempDbPath(t)
		_, err := Open(ctx, path, OpenOptions{Create: false}, &testutil.Recorder{})
		require.ErrorIs(t, err, errs.ErrStorageOpen)
		require.ErrorIs(t, err, errs.ErrCannotOpen)
		require.Contains(t, err.Error(), "try --create")

		_, err = os.Stat(path)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("NotADatabase", func(t *testing.T) {
		path := testutil.TempDbPath(t)
		err := os.WriteFile(path, []byte(strings.Repeat("this is not a sqlite database\n", 64)), 0600)
		require.NoError(t, err)

		_, err = Open(ctx, path, OpenOptions{Create: true}, &testutil.Recorder{})
		require.ErrorIs(t, err, errs.ErrStorageOpen)
		require.NotErrorIs(t, err, errs.ErrCannotOpen)
	})

	t.Run("ExistingWithoutCreate", func(t *testing.T) {
		store, path := openTestStore(t)
		require.NoError(t, store.EnsureSchema(ctx))
		require.NoError(t, store.Close())

		reopened, err := Open(ctx, path, OpenOptions{Create: false}, &testutil.Recorder{})
		require.NoError(t, err)
		defer reopened.Close()

		version, ok, err := reopened.Version(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, CurrentVersion, version)
	})
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	store, _ := openTestStore(t)
	require.NoError(t, store.EnsureSchema(ctx))

	steps := map[int]migration{
		1: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "ALTER TABLE matches ADD COLUMN venue TEXT")
			return err
		},
	}

	err := store.migrateWith(ctx, 1, 3, steps)
	require.ErrorIs(t, err, errs.ErrStorageWrite)
	version, _, err := store.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, version)

	err = store.migrateWith(ctx, 1, 2, steps)
	require.NoError(t, err)
	version, _, err = store.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, version)

	err = store.migrate(ctx, 2)
	require.ErrorIs(t, err, errs.ErrStorageWrite)
}
