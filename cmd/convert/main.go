package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/price-convert/internal/config"
	"github.com/rxtech-lab/price-convert/internal/logger"
	"github.com/rxtech-lab/price-convert/internal/version"
	"github.com/rxtech-lab/price-convert/pkg/converter"
	"github.com/rxtech-lab/price-convert/pkg/dataset/writer"
	"github.com/rxtech-lab/price-convert/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// Exit statuses by error kind.
const (
	exitOK           = 0
	exitFailure      = 1
	exitFileNotFound = 2
	exitParse        = 3
	exitWrite        = 4
	exitConfig       = 5
)

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	switch errors.GetKind(err) {
	case errors.KindFileNotFound:
		return exitFileNotFound
	case errors.KindParse:
		return exitParse
	case errors.KindWrite:
		return exitWrite
	case errors.KindConfig:
		return exitConfig
	default:
		return exitFailure
	}
}

// resolveConfig layers the config file and explicitly set flags over the defaults.
func resolveConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}

		cfg = loaded
	}

	if cmd.IsSet("input") {
		cfg.Input = cmd.String("input")
	}

	if cmd.IsSet("output") {
		cfg.Output = cmd.String("output")
	}

	if cmd.IsSet("format") {
		cfg.Format = cmd.String("format")
	}

	if cmd.IsSet("indent") {
		cfg.Indent = int(cmd.Int("indent"))
	}

	if cmd.IsSet("strict") {
		cfg.Strict = cmd.Bool("strict")
	}

	if cmd.IsSet("progress") {
		cfg.Progress = cmd.Bool("progress")
	}

	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// convertAction runs a single conversion with the resolved configuration.
func convertAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var format writer.Format
	if cfg.Format != "" {
		format, err = writer.ParseFormat(cfg.Format)
		if err != nil {
			return err
		}
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create logger", err)
	}
	defer func() { _ = log.Sync() }()

	conv := converter.NewConverter(converter.Options{
		Format:         format,
		Indent:         cfg.Indent,
		Strict:         cfg.Strict,
		Progress:       cfg.Progress,
		ProgressOutput: cmd.Root().ErrWriter,
	}, log)

	if _, err := conv.Convert(ctx, cfg.Input, cfg.Output); err != nil {
		log.Error("Conversion failed",
			zap.String("input", cfg.Input),
			zap.String("output", cfg.Output),
			zap.Error(err),
		)

		return err
	}

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := config.SchemaJSON()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, schema)

	return err
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a CSV price history into a JSON array of row objects",
		Version:   version.GetVersion(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Path of the CSV file to read",
				Value:   config.DefaultInput,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path of the file to write",
				Value:   config.DefaultOutput,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: fmt.Sprintf("Output format (%s or %s). Inferred from the output extension when empty", writer.FormatJSON, writer.FormatParquet),
			},
			&cli.IntFlag{
				Name:  "indent",
				Usage: "Spaces used to indent JSON output, 0 for compact",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when a renamed source column is missing",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a progress bar on stderr",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config `FILE`",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Minimum log level (debug, info, warn, error)",
				Value: config.DefaultLogLevel,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config file",
				Action: schemaAction,
			},
		},
		Action: convertAction,
	}
}

// run executes the command line and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := newCommand(stdout, stderr).Run(ctx, args); err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)

		return exitCode(err)
	}

	return exitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
