// Program xon reads XON documents and prints, queries, validates and
// converts them.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/isaacmuliro/Xerxis-Object-Notation/internal/config"
	"github.com/isaacmuliro/Xerxis-Object-Notation/internal/errors"
)

// Version information
const Version = "0.1.0"

// CLI defines the command-line interface
type CLI struct {
	Config  string           `help:"Path to a configuration file (YAML, or XON if it ends in .xon). By default, the nearest .xon.yml is used." short:"c" type:"path" placeholder:"FILE"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Print printCmd `cmd:"" help:"Print the syntax tree of a document."`
	Get   getCmd   `cmd:"" help:"Print the value at a key path, e.g. server.port or features[0]."`
	Keys  keysCmd  `cmd:"" help:"List the keys of an object, in document order."`
	JSON  jsonCmd  `cmd:"" name:"json" help:"Convert a document to JSON."`
	YAML  yamlCmd  `cmd:"" name:"yaml" help:"Convert a document to YAML."`
	Fmt   fmtCmd   `cmd:"" help:"Reformat a document."`
	Check checkCmd `cmd:"" help:"Check that documents are well-formed."`
}

// Context holds the runtime context shared by all commands.
type Context struct {
	Config *config.Config
	Log    *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the program with the given arguments and I/O streams, and
// returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (status int) {
	var cli CLI
	exited := false
	parser, err := kong.New(&cli,
		kong.Name("xon"),
		kong.Description("Read, query and convert XON documents."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": "xon version " + Version},
		kong.Exit(func(code int) { exited = true; status = code }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "xon: %v\n", err)
		return 2
	}
	kctx, err := parser.Parse(args)
	if exited {
		return status // --help or --version
	} else if err != nil {
		fmt.Fprintf(stderr, "xon: %v\n", err)
		return 2
	}

	ctx, err := newContext(&cli, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, errors.UserFriendlyError(err))
		return 1
	}
	ctx.Log.Debug("running command", "command", kctx.Command(), "config", cli.Config)

	if err := kctx.Run(ctx); err != nil {
		fmt.Fprintln(stderr, errors.UserFriendlyError(err))
		return 1
	}
	return 0
}

func newContext(cli *CLI, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	path := cli.Config
	if path == "" {
		path = config.FindConfigFile(".")
	}
	cfg := config.NewConfig()
	if path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, errors.NewConfigError("cannot load "+path, err)
		}
	}
	if cli.Debug {
		cfg.Dev.Debug = true
	}
	lvl, err := cfg.LogLevel()
	if err != nil {
		return nil, errors.NewConfigError("invalid log level", err)
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))
	return &Context{
		Config: cfg,
		Log:    log,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}, nil
}
