package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/confxml/lang"
	"github.com/ardnew/confxml/log"
)

type (
	kongContextKey  struct{}
	inputKey        struct{}
	outputKey       struct{}
	parseOptionsKey struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, kongContextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(kongContextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithInput returns a new context.Context whose commands read "-" from r
// instead of os.Stdin.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// WithOutput returns a new context.Context whose commands print to w instead
// of os.Stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithParseOptions returns a new context.Context carrying options applied to
// every parse performed by a command.
func WithParseOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, parseOptionsKey{}, opts)
}

func parseOptionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(parseOptionsKey{}).([]lang.Option)

	return append([]lang.Option{lang.WithLogger(log.Default())}, opts...)
}

// ConfigKey returns the entry key holding the value of the named flag in the
// configuration file, e.g. "LOGLEVEL" for "log-level".
func ConfigKey(flag string) string {
	return strings.ToUpper(strings.ReplaceAll(flag, "-", ""))
}

// ConfigOptions returns the parser options the configuration file is read and
// written with. The comment marker only counts as a word, so keys such as
// LOGCALLER keep every letter.
func ConfigOptions() []lang.Option {
	return []lang.Option{lang.WithWordComments(true)}
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// sourceFiles reads a list of sources as one input. A line break is inserted
// between sources so the last line of one never joins the first of the next.
type sourceFiles struct {
	files    []*os.File
	hasStdin bool
	stdin    io.Reader
}

// Reader returns a reader over all sources in order, stdin last.
func (s *sourceFiles) Reader() io.Reader {
	readers := make([]io.Reader, 0, 2*len(s.files)+1)

	for i, f := range s.files {
		if i > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, f)
	}

	if s.hasStdin {
		if len(readers) > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, s.stdin)
	}

	return io.MultiReader(readers...)
}

// Name returns a display name for the sources.
func (s *sourceFiles) Name() string {
	names := make([]string, 0, len(s.files)+1)
	for _, f := range s.files {
		names = append(names, f.Name())
	}

	if s.hasStdin {
		names = append(names, "<stdin>")
	}

	return strings.Join(names, ",")
}

// Close closes every opened file.
func (s *sourceFiles) Close() error {
	var errs []error
	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks and relative paths.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens the given sources for reading.
//
// Duplicates are dropped by comparing device/inode pairs after resolving
// symlinks. Every "-" collapses into one stdin reader placed last. An empty
// list reads stdin.
func openSources(sources []string, stdin io.Reader) (*sourceFiles, error) {
	srcs := &sourceFiles{stdin: stdin}

	if len(sources) == 0 {
		srcs.hasStdin = true

		return srcs, nil
	}

	seen := make(map[fileKey]struct{})

	for _, src := range sources {
		if src == stdinSource {
			srcs.hasStdin = true

			continue
		}

		file, ok, err := openUniqueFile(src, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrReadSource.With(slog.String("source", src)).Wrap(err)
		}

		if ok {
			srcs.files = append(srcs.files, file)
		}
	}

	return srcs, nil
}

// openUniqueFile opens the file at path unless an identical file is in seen.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, bool, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// parseSources opens and parses the given sources as one document.
func parseSources(ctx context.Context, sources []string) (*lang.Result, error) {
	srcs, err := openSources(sources, inputFrom(ctx))
	if err != nil {
		return nil, err
	}
	defer srcs.Close()

	log.DebugContext(ctx, "parsing sources", slog.String("source", srcs.Name()))

	return lang.ParseReader(ctx, srcs.Reader(), parseOptionsFrom(ctx)...)
}
