package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cybertec-postgresql/pgsplit/internal/cli"
	"github.com/cybertec-postgresql/pgsplit/internal/logger"
	"github.com/cybertec-postgresql/pgsplit/pkg/types"
	urfavecli "github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	app := &urfavecli.Command{
		Name:    "pgsplit",
		Usage:   "Split PostgreSQL scripts into statements",
		Version: version,
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:  "config",
				Usage: "Configuration file (default: ./" + cli.ConfigName + ".yaml if present)",
			},
			&urfavecli.StringFlag{
				Name:  "standard-conforming-strings",
				Usage: "Treat backslashes in ordinary strings as escapes when off (auto, on or off)",
			},
			&urfavecli.StringFlag{
				Name:    "connection",
				Aliases: []string{"c"},
				Usage:   "PostgreSQL connection string (URI or key=value format). Supports standard PG* environment variables.",
			},
			&urfavecli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug output",
			},
		},
		Commands: []*urfavecli.Command{
			{
				Name:      "split",
				Usage:     "Print the statements of SQL files (standard input when no path is given)",
				ArgsUsage: "[path ...]",
				Action:    splitCommand,
				Flags: append(outputFlags(),
					&urfavecli.BoolFlag{
						Name:  "strip-comments",
						Usage: "Remove comments from printed statements",
					},
					&urfavecli.BoolFlag{
						Name:  "keep-empty",
						Usage: "Print statements that hold only comments or whitespace",
					},
				),
			},
			{
				Name:      "check",
				Usage:     "Compare statement boundaries with the PostgreSQL parser",
				ArgsUsage: "[path ...]",
				Action:    checkCommand,
				Flags: append(outputFlags(),
					&urfavecli.IntFlag{
						Name:  "parallel",
						Usage: "Maximum concurrent files (1 = sequential)",
					},
				),
			},
			{
				Name:      "exec",
				Usage:     "Execute every statement against PostgreSQL, one at a time",
				ArgsUsage: "[path ...]",
				Action:    execCommand,
				Flags: append(outputFlags(),
					&urfavecli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-statement timeout (0 = none)",
					},
					&urfavecli.IntFlag{
						Name:  "parallel",
						Usage: "Maximum concurrent files (1 = sequential)",
					},
					&urfavecli.BoolFlag{
						Name:  "single-transaction",
						Usage: "Run each file in one transaction",
					},
					&urfavecli.BoolFlag{
						Name:  "temp-db",
						Usage: "Run each file in its own scratch database",
					},
				),
			},
			{
				Name:      "watch",
				Usage:     "Re-scan a file whenever it changes",
				ArgsUsage: "<file>",
				Action:    watchCommand,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.Run(ctx, os.Args)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var cfgErr *types.ConfigError
		if stderrors.As(err, &cfgErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func outputFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "format",
			Usage: "Output format (text or json)",
		},
		&urfavecli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (use - for stdout)",
		},
	}
}

// loadConfig merges the config file, environment and flags, then validates
func loadConfig(cmd *urfavecli.Command) *cli.Config {
	config, err := cli.LoadConfig(cmd.String("config"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cli.ApplyFlagsToConfig(config, cli.Flags{
		Connection:                cmd.String("connection"),
		StandardConformingStrings: cmd.String("standard-conforming-strings"),
		Timeout:                   cmd.Duration("timeout"),
		Parallel:                  int(cmd.Int("parallel")),
		Format:                    cmd.String("format"),
		Output:                    cmd.String("output"),
		StripComments:             cmd.Bool("strip-comments"),
		KeepEmpty:                 cmd.Bool("keep-empty"),
		SingleTransaction:         cmd.Bool("single-transaction"),
		TempDatabase:              cmd.Bool("temp-db"),
		Verbose:                   cmd.Bool("verbose"),
	})

	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	return config
}

func exit(exitCode int, err error) error {
	if err != nil {
		return err
	}
	if exitCode != 0 {
		_ = logger.Sync()
		os.Exit(exitCode)
	}
	return nil
}

// splitCommand handles the 'pgsplit split' command
func splitCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := loadConfig(cmd)
	return exit(cli.Split(ctx, config, cmd.Args().Slice()))
}

// checkCommand handles the 'pgsplit check' command
func checkCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := loadConfig(cmd)
	return exit(cli.Check(ctx, config, cmd.Args().Slice()))
}

// execCommand handles the 'pgsplit exec' command
func execCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := loadConfig(cmd)
	return exit(cli.Exec(ctx, config, cmd.Args().Slice()))
}

// watchCommand handles the 'pgsplit watch' command
func watchCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := loadConfig(cmd)
	return cli.Watch(ctx, config, cmd.Args().First())
}
