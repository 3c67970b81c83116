package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/guarzo/freestuff/api"
	"github.com/guarzo/freestuff/client"
	"github.com/guarzo/freestuff/internal/render"
	"github.com/guarzo/freestuff/internal/watch"
)

func pingCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "check that the API is reachable and the key is accepted",
		Action: func(c *cli.Context) error {
			if _, err := e.client.Ping(c.Context); err != nil {
				return err
			}
			_, err := fmt.Fprintln(e.out, "pong")
			return err
		},
	}
}

func listCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list game ids in a category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "all, approved or free (default from FREESTUFF_CATEGORY)",
			},
		},
		Action: func(c *cli.Context) error {
			ids, err := e.client.GameList(c.Context, e.category(c))
			if err != nil {
				return err
			}
			return render.WriteIDs(e.out, e.format, ids)
		},
	}
}

func detailsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "details",
		Usage:     "show details for one or more games",
		ArgsUsage: "ID [ID...]",
		Action: func(c *cli.Context) error {
			ids, err := parseIDs(c.Args().Slice())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return errors.New("at least one game id is required")
			}

			games, err := watch.FetchDetails(c.Context, e.client, ids, e.cfg.BatchSize, e.cfg.Concurrency)
			if err != nil {
				return err
			}
			return render.Write(e.out, e.format, games)
		},
	}
}

func watchCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "poll a category and print games as they appear",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "all, approved or free (default from FREESTUFF_CATEGORY)",
			},
			&cli.StringFlag{
				Name:  "schedule",
				Usage: "cron spec or descriptor (default from FREESTUFF_WATCH_SCHEDULE)",
			},
			&cli.BoolFlag{
				Name:  "skip-initial",
				Usage: "only report games that appear after the first poll",
			},
		},
		Action: func(c *cli.Context) error {
			schedule := e.cfg.WatchSchedule
			if c.IsSet("schedule") {
				schedule = c.String("schedule")
			}

			w, err := watch.New(e.client, watch.Config{
				Category:    e.category(c),
				Schedule:    schedule,
				BatchSize:   e.cfg.BatchSize,
				Concurrency: e.cfg.Concurrency,
				SkipInitial: c.Bool("skip-initial"),
				Logger:      &e.logger,
			}, func(id api.GameID, g api.GameInfo) {
				if err := render.WriteRecords(e.out, e.format, []render.Record{render.NewRecord(id, g)}); err != nil {
					e.logger.Error().Err(err).Uint64("id", id).Msg("failed to print game")
				}
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}
}

func (e *env) category(c *cli.Context) client.Category {
	if c.IsSet("category") {
		return client.Category(c.String("category"))
	}
	return client.Category(e.cfg.Category)
}
