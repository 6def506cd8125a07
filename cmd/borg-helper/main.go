// Package main is the entry point for the borg-helper CLI application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/borg-helper/borg-helper/internal/berrors"
	bhcli "github.com/borg-helper/borg-helper/internal/cli"
	"github.com/borg-helper/borg-helper/pkg/version"
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "borg-helper",
		Usage:     "Configuration-driven wrapper around the borg backup tool",
		UsageText: "borg-helper [-d] [-i] <repository> [borg arguments]\nborg-helper list",
		Version:   version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("BORG_HELPER_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Ask before executing the borg command",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List configured repositories",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return bhcli.List(logLevel(cmd), nil)
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a borg-helper configuration file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					configPath := ""
					if cmd.Args().Len() > 0 {
						configPath = cmd.Args().Get(0)
					}
					return bhcli.Validate(configPath)
				},
			},
			{
				Name:      "schema",
				Usage:     "Display or export the JSON Schema for configuration files",
				ArgsUsage: "[output-file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout if not specified)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					outputPath := cmd.String("output")
					if outputPath == "" && cmd.Args().Len() > 0 {
						outputPath = cmd.Args().Get(0)
					}
					return bhcli.Schema(outputPath)
				},
			},
			{
				Name:  "init",
				Usage: "Create a sample config file in the current directory or user config dir",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "global",
						Aliases: []string{"g"},
						Usage:   "Create the config in ~/.config instead of the current directory",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return bhcli.Init(cmd.Bool("global"))
				},
			},
		},
		// Flag parsing stops at the first positional argument, so borg's
		// own flags reach the repository dispatch untouched.
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) == 0 {
				_ = cli.ShowAppHelp(cmd)
				return berrors.NewUsageError("repository name required")
			}

			return bhcli.Run(ctx, bhcli.RunParams{
				LogLevel:    logLevel(cmd),
				Interactive: cmd.Bool("interactive"),
				Repository:  args[0],
				Args:        args[1:],
			})
		},
	}
}

func logLevel(cmd *cli.Command) string {
	if cmd.Bool("debug") {
		return "debug"
	}
	return cmd.String("log-level")
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		if !berrors.Silent(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(berrors.ExitCode(err))
	}
}
