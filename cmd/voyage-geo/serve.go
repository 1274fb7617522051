package main

import (
	"context"

	cli "github.com/urfave/cli/v3"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/web"
)

const defaultPort = 8000

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP API for launching and inspecting runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
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
			logger := log.WithModule("serve")
			logger.InfoContext(ctx, "starting API server", "port", command.Int("port"))

			return web.NewServer(cfg).Start(command.Int("port"))
		},
	}
}
