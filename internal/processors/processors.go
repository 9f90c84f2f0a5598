package processors

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"puttanesca/internal/components/errs"
	"puttanesca/internal/components/telemetry"
	"puttanesca/internal/hunters"
	configlibsql "puttanesca/lib/configutil/libsql"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("puttanesca.processors")

const (
	report_process = "process"
)

// Processor consumes the matches found by a hunter.
type Processor interface {
	Name() string
	Process(ctx context.Context, hunter hunters.Hunter) error
}

type Options struct {
	// console output, defaults to os.Stdout
	Stdout io.Writer
	// create the database file of a sqlite processor when missing
	Create bool
	Libsql configlibsql.Struct
	Tel    telemetry.API
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o Options) tel() telemetry.API {
	if o.Tel == nil {
		return telemetry.SlogAPI{}
	}
	return telemetry.NewScopedAPI("processors", o.Tel)
}

// Info describes a processor specification form.
type Info struct {
	Spec string
	Name string
}

// Available lists the processor specification forms New accepts.
func Available() []Info {
	return []Info{
		{Spec: "console", Name: consoleProcessorName},
		{Spec: "sqlite:<path>", Name: sqliteProcessorName},
		{Spec: "libsql:<url>", Name: libsqlProcessorName},
	}
}

// splitSpec splits "<kind>:<argument>" at the first colon, `ok` is false
// when there is no colon or the argument is empty.
func splitSpec(spec, kind string) (string, bool) {
	rest, found := strings.CutPrefix(spec, kind+":")
	if !found || rest == "" {
		return "", false
	}
	return rest, true
}

// New resolves a processor specification, it does not touch the
// filesystem or the network.
func New(spec string, opts Options) (Processor, error) {
	switch {
	case spec == "console":
		return ConsoleProcessor{out: opts.stdout()}, nil
	case strings.HasPrefix(spec, "sqlite"):
		path, ok := splitSpec(spec, "sqlite")
		if !ok {
			return nil, fmt.Errorf(`%w: %q: expected "sqlite:<path>"`, errs.ErrConfig, spec)
		}
		return SqliteProcessor{
			path:   path,
			create: opts.Create,
			tel:    opts.tel(),
		}, nil
	case strings.HasPrefix(spec, "libsql"):
		url, ok := splitSpec(spec, "libsql")
		if !ok {
			return nil, fmt.Errorf(`%w: %q: expected "libsql:<url>"`, errs.ErrConfig, spec)
		}
		return LibsqlProcessor{
			url:    url,
			config: opts.Libsql,
			tel:    opts.tel(),
		}, nil
	}
	return nil, fmt.Errorf("%w: processor %q", errs.ErrNotFound, spec)
}
