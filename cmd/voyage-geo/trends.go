package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/engine"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/log"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/trends"
)

func trendsCommand() *cli.Command {
	return &cli.Command{
		Name:  "trends",
		Usage: "Summarize visibility scores across stored runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "brand",
				Aliases: []string{"b"},
				Usage:   "Only include runs for this brand",
				Sources: cli.EnvVars("VOYAGE_BRAND"),
			},
			&cli.StringSliceFlag{
				Name:  "competitors",
				Usage: "Competitor brands to chart (default: every tracked competitor)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory holding run artifacts",
				Sources: cli.EnvVars("VOYAGE_OUTPUT_DIR"),
			},
			&cli.StringFlag{
				Name:  "index",
				Usage: "Write the collected records as a JSON index to this path",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg, err := loadConfig(command)
			if err != nil {
				return err
			}

			log.Setup(cfg.LogLevel)

			records, err := trends.Collect(engine.New(cfg).Storage(), command.String("brand"))
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("No analyzed runs found.")

				return nil
			}

			fmt.Printf("%-12s %-32s %-8s %-8s %-10s %s\n", "DATE", "RUN", "SCORE", "RANK", "MENTION", "MINDSHARE")

			for _, r := range records {
				fmt.Printf("%-12s %-32s %-8.1f %-8d %-10.1f %.1f\n",
					r.AsOfDate, r.RunID, r.OverallScore, r.MindshareRank,
					r.MentionRate*100, r.Mindshare*100)
			}

			series := trends.CompetitorSeries(records, command.StringSlice("competitors"))
			for name, points := range series {
				last := points[len(points)-1]
				fmt.Printf("%s: mindshare %.1f%% as of %s over %d runs\n",
					name, last.Mindshare*100, last.AsOfDate, len(points))
			}

			if path := command.String("index"); path != "" {
				if err := trends.WriteIndex(records, path); err != nil {
					return err
				}

				fmt.Printf("Trend index written to %s\n", path)
			}

			return nil
		},
	}
}
