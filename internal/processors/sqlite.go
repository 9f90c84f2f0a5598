package processors

import (
	"context"

	"puttanesca/internal/components/telemetry"
	"puttanesca/internal/hunters"
	"puttanesca/internal/matchstore"

	"go.opentelemetry.io/otel/attribute"
)

const sqliteProcessorName = "Sqlite Processor"

// SqliteProcessor upserts every match into a local sqlite file.
type SqliteProcessor struct {
	path   string
	create bool
	tel    telemetry.API
}

func (SqliteProcessor) Name() string {
	return sqliteProcessorName
}

func (p SqliteProcessor) Path() string {
	return p.path
}

func (p SqliteProcessor) Process(ctx context.Context, hunter hunters.Hunter) (err error) {
	ctx, span := tracer.Start(ctx, "sqlite:Process")
	defer span.End()

	span.SetAttributes(attribute.String("processors.sqlite.path", p.path))

	store, err := matchstore.Open(ctx, p.path, matchstore.OpenOptions{Create: p.create}, p.tel)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := store.Close()
		if err == nil {
			err = closeErr
		}
	}()

	return storeMatches(ctx, store, hunter, p.tel)
}

// storeMatches brings the schema up to date and upserts the hunted matches,
// stopping at the first failure. Earlier upserts stay committed.
func storeMatches(ctx context.Context, store matchstore.Store, hunter hunters.Hunter, tel telemetry.API) error {
	err := store.EnsureSchema(ctx)
	if err != nil {
		return err
	}

	found, err := hunter.FindMatches(ctx)
	if err != nil {
		return err
	}
	for _, m := range found {
		err = store.Upsert(ctx, m)
		if err != nil {
			return err
		}
	}

	tel.ReportCount(report_process, int64(len(found)))
	return nil
}
