package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
)

func main() {
	cmd := &cli.Command{
		Name:                  "voyage-geo",
		Usage:                 "Measure brand visibility across AI assistant answers",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a JSON or YAML config file",
				Sources: cli.EnvVars("VOYAGE_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			runsCommand(),
			trendsCommand(),
			providersCommand(),
			serveCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.WithModule("cli").Error("command failed", "error", err)
		os.Exit(1)
	}
}
