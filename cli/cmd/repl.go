package cmd

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/ardnew/confxml/cli/cmd/repl"
	"github.com/ardnew/confxml/log"
)

// Repl starts an interactive expression shell over a document.
type Repl struct {
	Input `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, r.loader(ctx), cacheDir, log.Default(),
		parseOptionsFrom(ctx)...)
}

// loader returns a [repl.Loader] re-reading the sources on every call.
// Stdin can only be read once, so a source list including it is read once
// and the same content served afterward.
func (r *Repl) loader(ctx context.Context) repl.Loader {
	read := func(context.Context) ([]byte, error) {
		srcs, err := openSources(r.Source, inputFrom(ctx))
		if err != nil {
			return nil, err
		}
		defer srcs.Close()

		data, err := io.ReadAll(srcs.Reader())
		if err != nil {
			return nil, ErrReadSource.Wrap(err)
		}

		return data, nil
	}

	if len(r.Source) > 0 && !slices.Contains(r.Source, stdinSource) {
		return read
	}

	once := sync.OnceValues(func() ([]byte, error) { return read(ctx) })

	return func(context.Context) ([]byte, error) { return once() }
}
