package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/confxml/lang"
)

// Fmt parses sources and re-renders the document in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native confxml syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	Markup Markup `cmd:""                    help:"Format as XML."                               name:"xml"`
}

// Input holds the positional arguments shared by the fmt subcommands.
type Input struct {
	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// render parses the sources and hands the document to write.
func (s *Input) render(
	ctx context.Context,
	format string,
	write func(context.Context, *lang.Document, io.Writer) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	res, err := parseSources(ctx, s.Source)
	if err != nil {
		return err
	}

	err = write(ctx, res.Document, outputFrom(ctx))
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", format))
	}

	return nil
}

// Native formats input as native confxml syntax.
type Native struct {
	Indent int `default:"4" help:"Indent width for formatted output" short:"i"`

	Input `embed:""`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) error {
	return f.render(ctx, "native",
		func(ctx context.Context, doc *lang.Document, w io.Writer) error {
			return doc.Format(ctx, w, f.Indent, parseOptionsFrom(ctx)...)
		})
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output, 0 for compact output." short:"i"`

	Input `embed:""`
}

// Run executes the fmt json command.
func (f *JSON) Run(ctx context.Context) error {
	return f.render(ctx, "json",
		func(ctx context.Context, doc *lang.Document, w io.Writer) error {
			return doc.FormatJSON(ctx, w, f.Indent)
		})
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output, 0 for flow style." short:"i"`

	Input `embed:""`
}

// Run executes the fmt yaml command.
func (f *YAML) Run(ctx context.Context) error {
	return f.render(ctx, "yaml",
		func(ctx context.Context, doc *lang.Document, w io.Writer) error {
			return doc.FormatYAML(ctx, w, f.Indent)
		})
}

// Markup formats input as XML without report lines.
type Markup struct {
	Indent int `default:"4" help:"Indent width for XML output, 0 for compact output." short:"i"`

	Input `embed:""`
}

// Run executes the fmt xml command.
func (f *Markup) Run(ctx context.Context) error {
	return f.render(ctx, "xml",
		func(ctx context.Context, doc *lang.Document, w io.Writer) error {
			return doc.WriteXML(ctx, w, f.Indent, parseOptionsFrom(ctx)...)
		})
}
