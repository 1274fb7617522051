package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/engine"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute a brand visibility run",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "brand",
				Aliases: []string{"b"},
				Usage:   "Brand name to measure",
				Sources: cli.EnvVars("VOYAGE_BRAND"),
			},
			&cli.StringFlag{
				Name:    "website",
				Aliases: []string{"w"},
				Usage:   "Brand website URL",
				Sources: cli.EnvVars("VOYAGE_WEBSITE"),
			},
			&cli.StringSliceFlag{
				Name:  "competitors",
				Usage: "Competitor brand names",
			},
			&cli.StringSliceFlag{
				Name:    "providers",
				Aliases: []string{"p"},
				Usage:   "Providers to query (default: every provider with an API key)",
			},
			&cli.IntFlag{
				Name:    "queries",
				Aliases: []string{"q"},
				Usage:   "Total number of queries to generate",
			},
			&cli.IntFlag{
				Name:  "iterations",
				Usage: "Times each query is sent to each provider",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Concurrent provider calls",
			},
			&cli.StringSliceFlag{
				Name:  "formats",
				Usage: "Report formats (json, csv, markdown)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for run artifacts",
				Sources: cli.EnvVars("VOYAGE_OUTPUT_DIR"),
			},
			&cli.StringFlag{
				Name:  "stop-after",
				Usage: "Stop the pipeline after the named stage",
			},
			&cli.StringFlag{
				Name:  "resume",
				Usage: "Reuse the brand profile and queries of an existing run ID",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg, err := loadConfig(command)
			if err != nil {
				return err
			}

			log.Setup(cfg.LogLevel)
			logger := log.WithModule("cli")
			logger.InfoContext(ctx, "starting run", "brand", cfg.Brand, "providers", cfg.EnabledProviders())

			final, err := engine.New(cfg).Run(ctx, engine.Options{
				StopAfter: command.String("stop-after"),
				Resume:    command.String("resume"),
			})
			if err != nil {
				return err
			}

			printRunSummary(final.RunID, final.Status, cfg, final.Analysis)

			return nil
		},
	}
}

// loadConfig builds the effective configuration: file and environment first,
// then command line overrides on top.
func loadConfig(command *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(command.String("config"))
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = command.String("log-level")

	if v := command.String("brand"); v != "" {
		cfg.Brand = v
	}

	if v := command.String("website"); v != "" {
		cfg.Website = v
	}

	if v := command.StringSlice("competitors"); len(v) > 0 {
		cfg.Competitors = v
	}

	if v := command.StringSlice("providers"); len(v) > 0 {
		selectProviders(cfg, v)
	}

	if v := command.Int("queries"); v > 0 {
		cfg.Queries.Count = v
	}

	if v := command.Int("iterations"); v > 0 {
		cfg.Execution.Iterations = v
	}

	if v := command.Int("concurrency"); v > 0 {
		cfg.Execution.Concurrency = v
	}

	if v := command.StringSlice("formats"); len(v) > 0 {
		cfg.Report.Formats = v
	}

	if v := command.String("output"); v != "" {
		cfg.OutputDir = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// selectProviders narrows the run to the named providers, leaving API keys
// from the environment intact.
func selectProviders(cfg *config.Config, names []string) {
	selected := make(map[string]bool, len(names))
	for _, name := range names {
		selected[name] = true
	}

	for name, pc := range cfg.Providers {
		pc.Enabled = selected[name]
		cfg.Providers[name] = pc
	}
}

func printRunSummary(runID string, status models.RunStatus, cfg *config.Config, analysis *models.AnalysisResult) {
	fmt.Printf("Run %s finished with status %s\n", runID, status)
	fmt.Printf("Artifacts: %s/%s\n", cfg.OutputDir, runID)

	if analysis == nil {
		return
	}

	fmt.Printf("Mention rate: %.1f%% (%d of %d responses)\n",
		analysis.MentionRate.Overall*100,
		analysis.MentionRate.TotalMentions,
		analysis.MentionRate.TotalResponses)
	fmt.Printf("Mindshare: %.1f%% (rank %d of %d brands)\n",
		analysis.Mindshare.Overall*100,
		analysis.Mindshare.Rank,
		analysis.Mindshare.TotalBrandsDetected)
	fmt.Printf("Sentiment: %s (%.2f, confidence %.2f)\n",
		analysis.Sentiment.Label,
		analysis.Sentiment.Overall,
		analysis.Sentiment.Confidence)
}
