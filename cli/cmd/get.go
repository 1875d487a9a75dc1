package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/confxml/lang"
)

// Get prints one value selected by a dotted path.
type Get struct {
	Path   string `arg:"" help:"Dotted path such as SERVER.PORT or OUTER.N.INNER.X." name:"path"`
	Indent int    `default:"4" help:"Indent width when the value is a dictionary." short:"i"`

	Input `embed:""`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	res, err := parseSources(ctx, g.Source)
	if err != nil {
		return err
	}

	value, err := res.Document.Lookup(g.Path)
	if err != nil {
		return err
	}

	out := outputFrom(ctx)

	if value.Type == lang.TypeDictionary {
		return value.Dict.Format(ctx, out, g.Indent, parseOptionsFrom(ctx)...)
	}

	if _, err := fmt.Fprintln(out, value.Text()); err != nil {
		return ErrWriteOutput.With(slog.String("path", g.Path)).Wrap(err)
	}

	return nil
}
