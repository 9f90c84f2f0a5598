// Package harvest resolves a hunter and a processor by name and runs one
// pass of the pipeline between them.
package harvest

import (
	"context"
	"fmt"
	"io"

	"puttanesca/internal/components/errs"
	"puttanesca/internal/components/telemetry"
	"puttanesca/internal/hunters"
	"puttanesca/internal/matches"
	"puttanesca/internal/matchstore"
	"puttanesca/internal/processors"
	"puttanesca/internal/scrapers/sky"
	"puttanesca/lib/configutil"
	configlibsql "puttanesca/lib/configutil/libsql"
	"puttanesca/lib/restyutil"
)

const DefaultConfigPath = "puttanesca.json5"

type Config struct {
	Sky    sky.Options         `json:"sky"`
	Libsql configlibsql.Struct `json:"libsql"`
}

func DefaultConfig() Config {
	return Config{
		Sky: sky.Options{
			Url:            sky.DefaultUrl,
			TimeoutSeconds: int(sky.DefaultTimeout.Seconds()),
		},
	}
}

// LoadConfig reads the config file at `path` (and its .local override),
// a missing file gives DefaultConfig.
func LoadConfig(path string) (Config, error) {
	config, err := configutil.ReadConfigWithDefaults(path, DefaultConfig())
	if err != nil {
		return Config{}, fmt.Errorf("%w: read %s: %w", errs.ErrConfig, path, err)
	}
	return config, nil
}

type Options struct {
	Config Config
	Stdout io.Writer
	Create bool
	// directory that receives a dump of every http exchange, optional
	DumpHttp string
	Tel      telemetry.API
}

func (o Options) tel() telemetry.API {
	if o.Tel == nil {
		return telemetry.SlogAPI{}
	}
	return o.Tel
}

// Run hunts with `hunterKey` and hands the matches to `processorSpec`.
// Both are resolved before any I/O happens.
func Run(ctx context.Context, hunterKey, processorSpec string, opts Options) error {
	tel := opts.tel()

	_, err := hunters.Find(hunterKey)
	if err != nil {
		return err
	}
	processor, err := processors.New(processorSpec, processors.Options{
		Stdout: opts.Stdout,
		Create: opts.Create,
		Libsql: opts.Config.Libsql,
		Tel:    tel,
	})
	if err != nil {
		return err
	}

	skyOpts := opts.Config.Sky
	if opts.DumpHttp != "" {
		output, err := restyutil.NewFilesystemOutput(opts.DumpHttp)
		if err != nil {
			return fmt.Errorf("%w: dump directory: %w", errs.ErrConfig, err)
		}
		tel.ReportDebug("dumping http exchanges", output.Directory())
		skyOpts.Dump = output
	}

	hunter, err := hunters.New(hunterKey, hunters.Options{
		Sky: skyOpts,
		Tel: tel,
	})
	if err != nil {
		return err
	}

	tel.ReportDebug("harvest", hunter.Name(), processor.Name())
	return processor.Process(ctx, hunter)
}

// StoredPath returns the database file of a sqlite processor specification,
// other processors do not keep matches.
func StoredPath(processorSpec string) (string, error) {
	processor, err := processors.New(processorSpec, processors.Options{})
	if err != nil {
		return "", err
	}
	sqliteProcessor, ok := processor.(processors.SqliteProcessor)
	if !ok {
		return "", fmt.Errorf("%w: %s does not keep matches", errs.ErrConfig, processor.Name())
	}
	return sqliteProcessor.Path(), nil
}

// Stored lists the matches persisted by a sqlite processor specification.
func Stored(ctx context.Context, processorSpec string, tel telemetry.API) ([]matches.Match, error) {
	path, err := StoredPath(processorSpec)
	if err != nil {
		return nil, err
	}

	store, err := matchstore.Open(ctx, path, matchstore.OpenOptions{}, tel)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Matches(ctx)
}
