package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/openlearn/learnportal-be/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cmd.Execute()
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// .env is optional; deployments normally configure through the environment
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded environment from .env")
	}
}
