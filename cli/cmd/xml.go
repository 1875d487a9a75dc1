package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/confxml/log"
)

// XML converts configuration sources to an XML document.
type XML struct {
	Indent int    `default:"4" help:"Indent width for XML output, 0 for compact output." short:"i"`
	Output string `default:"-" help:"Output file or '-' for stdout."                     short:"o" type:"path"`

	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the xml command.
func (x *XML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	res, err := parseSources(ctx, x.Source)
	if err != nil {
		return err
	}

	out := outputFrom(ctx)

	for _, line := range res.Reports {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	if x.Output == stdinSource {
		return res.Document.WriteXML(ctx, out, x.Indent, parseOptionsFrom(ctx)...)
	}

	err = writeFile(x.Output, func(w io.Writer) error {
		return res.Document.WriteXML(ctx, w, x.Indent, parseOptionsFrom(ctx)...)
	})
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "results saved",
		slog.String("path", x.Output),
		slog.Int("dictionary_count", res.Document.Len()),
	)

	return nil
}

// writeFile creates path and passes it to write, closing it afterward.
func writeFile(path string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return ErrWriteOutput.With(slog.String("file", path)).Wrap(err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = ErrWriteOutput.With(slog.String("file", path)).Wrap(cerr)
		}
	}()

	if err := write(file); err != nil {
		return ErrWriteOutput.With(slog.String("file", path)).Wrap(err)
	}

	return nil
}
