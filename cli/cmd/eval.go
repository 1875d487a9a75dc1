package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/confxml/lang"
)

// Eval evaluates an expression with the document's dictionaries in scope.
type Eval struct {
	Expr   string   `arg:"" help:"Expression such as 'SERVER.PORT + 1' or 'len(SERVER)'." name:"expr"`
	Source []string `       help:"Source input file(s) or '-' for stdin."                               default:"-" short:"f"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	res, err := parseSources(ctx, e.Source)
	if err != nil {
		return err
	}

	result, err := res.Document.Evaluate(ctx, e.Expr, parseOptionsFrom(ctx)...)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "eval"))
	}

	if _, err := fmt.Fprintln(outputFrom(ctx), lang.FormatResult(result)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
