package processors

import (
	"context"
	"fmt"
	"io"

	"puttanesca/internal/hunters"
)

const consoleProcessorName = "Console Processor"

// ConsoleProcessor prints one line per match.
type ConsoleProcessor struct {
	out io.Writer
}

func (ConsoleProcessor) Name() string {
	return consoleProcessorName
}

func (p ConsoleProcessor) Process(ctx context.Context, hunter hunters.Hunter) error {
	ctx, span := tracer.Start(ctx, "console:Process")
	defer span.End()

	found, err := hunter.FindMatches(ctx)
	if err != nil {
		return err
	}
	for _, m := range found {
		_, err := fmt.Fprintln(p.out, m.String())
		if err != nil {
			return err
		}
	}
	return nil
}
