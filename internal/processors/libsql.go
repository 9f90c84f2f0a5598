package processors

import (
	"context"
	"fmt"

	"puttanesca/internal/components/errs"
	"puttanesca/internal/components/telemetry"
	"puttanesca/internal/hunters"
	"puttanesca/internal/matchstore"
	configlibsql "puttanesca/lib/configutil/libsql"
)

const libsqlProcessorName = "Libsql Processor"

// LibsqlProcessor is SqliteProcessor against a remote libsql database.
type LibsqlProcessor struct {
	url    string
	config configlibsql.Struct
	tel    telemetry.API
}

func (LibsqlProcessor) Name() string {
	return libsqlProcessorName
}

func (p LibsqlProcessor) Process(ctx context.Context, hunter hunters.Hunter) (err error) {
	ctx, span := tracer.Start(ctx, "libsql:Process")
	defer span.End()

	db, err := p.config.OpenDB(p.url)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrConfig, err)
	}
	store, err := matchstore.OpenRemote(ctx, db, p.tel)
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
