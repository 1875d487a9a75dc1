package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/confxml/cli/cmd"
	"github.com/ardnew/confxml/pkg"
)

// CLI is the top-level command-line interface for confxml.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Parse parseConfig `embed:"" group:"parse" prefix:"parse-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	XML  cmd.XML  `cmd:"" default:"withargs" help:"Convert configuration to XML"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Format configuration"`
	Get  cmd.Get  `cmd:""                    help:"Print the value at a dotted path"`
	Eval cmd.Eval `cmd:""                    help:"Evaluate an expression"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive shell"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the confxml CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(cmd.ConfigIdentifier)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Parse.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports any parse error.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Parse.group(), cli.Pprof.group()},
		),
		// Resolved when a command runs, after ctx gains the values below.
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(
			resolve(ctx, cmd.ConfigDictionary),
			configFilePath,
		),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithParseOptions(ctx, cli.Parse.options()...)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli)
}
