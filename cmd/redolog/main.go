package main

import (
	"os"
	"path"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/redolog/internal/cli"
	"github.com/julianstephens/redolog/internal/logger"
	"github.com/julianstephens/redolog/internal/redolog"
)

var (
	version = "redolog v0.1.0"
)

type LogOpts struct {
	Level  string `help:"Logging level (debug, info, warn, error)" default:"info" envvar:"REDOLOG_LOG_LEVEL"`
	Debug  bool   `help:"Enable debug logging (overrides --level)"                envvar:"REDOLOG_DEBUG"`
	Stream bool   `help:"Log to stdout/stderr in addition to file"                envvar:"REDOLOG_LOG_STREAM"`
}

type CLI struct {
	Init       cli.InitCmd       `cmd:"" help:"Initialize a new database directory"`
	Set        cli.SetCmd        `cmd:"" help:"Log and apply a key-value pair"`
	Get        cli.GetCmd        `cmd:"" help:"Get a value by key"`
	Del        cli.DelCmd        `cmd:"" help:"Log and apply a key deletion"`
	Dump       cli.DumpCmd       `cmd:"" help:"Print every entry currently in the WAL"`
	Checkpoint cli.CheckpointCmd `cmd:"" help:"Truncate the WAL after its entries are applied"`
	Stats      cli.StatsCmd      `cmd:"" help:"Display database statistics"`
	Manifest   cli.ManifestCmd   `cmd:"" help:"Print the database manifest"`
	Shell      cli.ShellCmd      `cmd:"" help:"Run an interactive session"`

	LogOpts LogOpts          `embed:"" prefix:"log-" help:"Logging options"`
	Version kong.VersionFlag `help:"Show version information" short:"V"`
}

func createLogger(opts LogOpts) (logger.Logger, error) {
	var level string
	if opts.Debug {
		level = "debug"
	} else {
		level = opts.Level
	}

	consoleLogger := logger.NewConsoleLogger(level)

	if opts.Stream {
		return consoleLogger, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	logDir := path.Join(homeDir, redolog.DefaultAppDir, redolog.DefaultLogDir)
	fileLogger, err := logger.NewFileLogger(
		logDir,
		redolog.DefaultLogFileName,
		redolog.DefaultLogMaxSize,
		redolog.DefaultLogMaxBackups,
	)
	if err != nil {
		return nil, err
	}

	return fileLogger, nil
}

func main() {
	cliApp := &CLI{}
	ctx := kong.Parse(cliApp,
		kong.Name("redolog"),
		kong.Description("A write-ahead-logged key/value store"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	lg, err := createLogger(cliApp.LogOpts)
	if err != nil {
		ctx.FatalIfErrorf(err)
	}

	defer func() {
		if c, ok := lg.(logger.Closeable); ok {
			_ = c.Close()
		}
	}()

	ctx.BindTo(lg, (*logger.Logger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
