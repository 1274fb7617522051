package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/engine"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/providers"
)

func runsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List stored runs, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory holding run artifacts",
				Sources: cli.EnvVars("VOYAGE_OUTPUT_DIR"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg, err := loadConfig(command)
			if err != nil {
				return err
			}

			log.Setup(cfg.LogLevel)

			runs, err := engine.New(cfg).ListRuns()
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No runs found.")

				return nil
			}

			for _, run := range runs {
				fmt.Printf("%-32s %-10s started %s\n", run.RunID, run.Status, run.StartedAt)
			}

			return nil
		},
	}
}

func providersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "Show provider configuration status",
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg, err := loadConfig(command)
			if err != nil {
				return err
			}

			log.Setup(cfg.LogLevel)

			for _, name := range providers.Known() {
				pc, ok := cfg.Providers[name]
				if !ok {
					continue
				}

				state := "missing API key"
				if pc.APIKey != "" {
					state = "configured"
					if !pc.Enabled {
						state = "configured, disabled"
					}
				}

				fmt.Printf("%-16s %-24s %s\n", name, pc.Model, state)
			}

			return nil
		},
	}
}
