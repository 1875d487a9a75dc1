package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/confxml/lang"
	"github.com/ardnew/confxml/log"
	"github.com/ardnew/confxml/profile"
)

// defaultConfigIndent is the indent width of a generated configuration file.
const defaultConfigIndent = 2

// Init writes a configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrNoKongConfig
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || confPath == "" {
		return ErrNoKongConfig
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	doc := lang.NewDocument()
	doc.Define(configDictionary(ktx))

	err = writeFile(confPath, func(w io.Writer) error {
		return doc.Format(ctx, w, defaultConfigIndent, ConfigOptions()...)
	})
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.InfoContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configDictionary builds the CONFIG dictionary from the application flags.
// Help and profiling flags are skipped, as are values the language cannot
// express.
func configDictionary(ktx *kong.Context) *lang.Dictionary {
	dict := lang.NewDictionary(ConfigDictionary)

	skip := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(skip, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if value := flagValue(ktx.FlagValue(flag)); value != nil {
			dict.Set(ConfigKey(flag.Name), value)
		}
	}

	return dict
}

// flagValue converts a flag value to a dictionary value, or nil if it has
// no representation.
func flagValue(v any) *lang.Value {
	switch x := v.(type) {
	case nil:
		return nil

	case bool:
		return lang.NewString(strconv.FormatBool(x))

	case int:
		if x < 0 {
			return lang.NewString(strconv.Itoa(x))
		}

		return lang.NewInteger(big.NewInt(int64(x)))

	case int64:
		if x < 0 {
			return lang.NewString(strconv.FormatInt(x, 10))
		}

		return lang.NewInteger(big.NewInt(x))

	case uint:
		return lang.NewInteger(new(big.Int).SetUint64(uint64(x)))

	case uint64:
		return lang.NewInteger(new(big.Int).SetUint64(x))

	case string:
		if x == "" || strings.ContainsAny(x, "'\r\n") {
			return nil
		}

		return lang.NewString(x)

	case fmt.Stringer:
		return flagValue(x.String())

	default:
		return flagValue(fmt.Sprint(x))
	}
}
