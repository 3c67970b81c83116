package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/guarzo/freestuff/client"
)

func main() {
	e := &env{out: os.Stdout, newClient: client.New}
	if err := newApp(e).Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("freestuff failed")
	}
}
