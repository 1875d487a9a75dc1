package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/confxml/lang"
	"github.com/ardnew/confxml/log"
)

// Loader returns the current source text.
type Loader func(context.Context) ([]byte, error)

// commands are the words the REPL handles itself. A leading ':' is optional.
var commands = []string{"help", "list", "reload", "quit"}

func helpMessage() string {
	return `Commands:

  :help     Print this message
  :list     List dictionaries and their entries
  :reload   Re-read the source if it changed
  :quit     Exit

Anything else is evaluated as an expression with every dictionary in scope,
for example SERVER.PORT + 1 or len(SERVER).

Tab / Shift-Tab cycle completions, Up/Down browse history,
Ctrl+C on an empty line or Ctrl+D exits.`
}

// session holds the loaded document and evaluates input lines. It has no
// terminal state.
type session struct {
	ctx     context.Context
	load    Loader
	opts    []lang.Option
	logger  log.Logger
	doc     *lang.Document
	reports []string
	hash    uint64
	loaded  bool
}

func newSession(
	ctx context.Context,
	load Loader,
	logger log.Logger,
	opts ...lang.Option,
) *session {
	return &session{
		ctx:    ctx,
		load:   load,
		opts:   append([]lang.Option{lang.WithLogger(logger)}, opts...),
		logger: logger,
	}
}

// reload reads the source and parses it if its content hash changed. The
// previous document is kept when reading or parsing fails.
func (s *session) reload() (changed bool, err error) {
	if s.load == nil {
		return false, ErrNoLoader
	}

	data, err := s.load(s.ctx)
	if err != nil {
		return false, err
	}

	sum := xxh3.Hash(data)
	if s.loaded && sum == s.hash {
		s.logger.TraceContext(s.ctx, "repl source unchanged",
			slog.Uint64("hash", sum),
		)

		return false, nil
	}

	res, err := lang.ParseString(s.ctx, string(data), s.opts...)
	if err != nil {
		return false, err
	}

	s.doc, s.reports, s.hash, s.loaded = res.Document, res.Reports, sum, true

	s.logger.TraceContext(s.ctx, "repl source loaded",
		slog.Uint64("hash", sum),
		slog.Int("dictionary_count", s.doc.Len()),
	)

	return true, nil
}

// command returns the command named by line, if any.
func command(line string) (string, bool) {
	word := strings.TrimPrefix(strings.TrimSpace(line), ":")

	for _, c := range commands {
		if word == c {
			return c, true
		}
	}

	if word == "exit" {
		return "quit", true
	}

	return "", false
}

// execute runs one input line and returns the text to print and whether the
// REPL should exit.
func (s *session) execute(line string) (out string, quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	if name, ok := command(line); ok {
		switch name {
		case "help":
			return hintStyle.Render(helpMessage()), false

		case "list":
			return s.list(), false

		case "reload":
			changed, err := s.reload()
			if err != nil {
				return errorStyle.Render("error: " + err.Error()), false
			}

			if !changed {
				return hintStyle.Render("source unchanged"), false
			}

			return resultStyle.Render(
				fmt.Sprintf("reloaded %d dictionaries", s.doc.Len()),
			), false

		case "quit":
			return "", true
		}
	}

	if s.doc == nil {
		return errorStyle.Render("error: no document loaded"), false
	}

	result, err := s.doc.Evaluate(s.ctx, line, s.opts...)
	if err != nil {
		return errorStyle.Render("error: " + err.Error()), false
	}

	return resultStyle.Render(lang.FormatResult(result)), false
}

// list renders one line per dictionary with its keys.
func (s *session) list() string {
	if s.doc == nil || s.doc.Len() == 0 {
		return hintStyle.Render("no dictionaries")
	}

	var b strings.Builder

	for dict := range s.doc.All() {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(nameStyle.Render(dict.Name))
		b.WriteString(hintStyle.Render(
			fmt.Sprintf(" (%d) ", dict.Len()) + strings.Join(dict.Keys(), " "),
		))
	}

	return b.String()
}
