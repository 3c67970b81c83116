package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/guarzo/freestuff/client"
	"github.com/guarzo/freestuff/internal/config"
	"github.com/guarzo/freestuff/internal/logging"
	"github.com/guarzo/freestuff/internal/render"
)

// env is the state shared by every command, filled in by setup.
type env struct {
	out       io.Writer
	newClient func(client.Config) (*client.Client, error)

	cfg    *config.Config
	client *client.Client
	format render.Format
	logger zerolog.Logger
}

func newApp(e *env) *cli.App {
	return &cli.App{
		Name:    "freestuff",
		Usage:   "query the freestuffbot.xyz game-deals API",
		Version: client.Version,
		Writer:  e.out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file with FREESTUFF_* variables; ignored when missing",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"o"},
				Value:   string(render.FormatText),
				Usage:   "output format: text, json, yaml or csv",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level, overrides FREESTUFF_LOG_LEVEL",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "human-readable logs instead of JSON",
			},
		},
		Before: e.setup,
		Commands: []*cli.Command{
			pingCommand(e),
			listCommand(e),
			detailsCommand(e),
			watchCommand(e),
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	if first := c.Args().First(); first == "" || first == "help" || first == "h" {
		return nil
	}

	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	e.cfg = cfg

	level := cfg.LogLevel
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	e.logger = logging.Configure(level, c.Bool("pretty"), c.App.ErrWriter)

	e.format, err = render.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	cc := cfg.ClientConfig()
	cc.Logger = &e.logger
	e.client, err = e.newClient(cc)
	if err != nil {
		return errors.Wrap(err, "failed to create client")
	}
	return nil
}
