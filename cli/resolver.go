package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/confxml/cli/cmd"
	"github.com/ardnew/confxml/lang"
	"github.com/ardnew/confxml/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag defaults from
// the dictionary called name in a configuration file written in the confxml
// language.
//
// Each entry key is a flag name upper-cased with hyphens removed, as returned
// by [cmd.ConfigKey]. Integers and strings are handed to kong as text, so
// booleans are written as strings:
//
//	CONFIG
//	begin
//	  LOGLEVEL := 'debug';
//	  LOGPRETTY := 'false';
//	  PARSEMAXDEPTH := 16;
//	end
//
// The file is parsed with [cmd.ConfigOptions] followed by opts. Command-line
// flags override config file values. A file that fails to parse or lacks the
// dictionary contributes nothing.
func resolve(
	ctx context.Context,
	name string,
	opts ...lang.Option,
) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		res, err := lang.ParseReader(ctx, r, append(cmd.ConfigOptions(), opts...)...)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		dict, ok := res.Document.Dictionary(name)
		if !ok {
			log.DebugContext(ctx, "configuration dictionary undefined",
				slog.String("name", name),
			)

			return config{}, nil
		}

		return makeConfig(ctx, dict), nil
	}
}

// config implements [kong.Resolver] over the entries of a dictionary.
type config map[string]string

// makeConfig collects the scalar entries of dict. Nested dictionaries name no
// flag and are skipped.
func makeConfig(ctx context.Context, dict *lang.Dictionary) config {
	c := make(config, dict.Len())

	for key, value := range dict.All() {
		if value.Type == lang.TypeDictionary {
			log.DebugContext(ctx, "skipping nested configuration entry",
				slog.String("key", key),
			)

			continue
		}

		c[key] = value.Text()
	}

	return c
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[cmd.ConfigKey(flag.Name)]; ok {
		return value, nil
	}

	// Not found, let kong use the default.
	return nil, nil
}
