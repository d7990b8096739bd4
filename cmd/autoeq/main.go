package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/autoeq/cmd/autoeq/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Error().Err(err).Msg("autoeq failed")
		os.Exit(1)
	}
}
