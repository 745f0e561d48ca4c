package main

import (
	"context"
	"fmt"
	"os"

	"clickupai/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func main() {
	log.Logger = logger.Get()

	// Load .env file if any
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Warning: failed to load .env file")
		}
	}

	if err := NewRootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "clickupai",
		Usage: "Analyze a ClickUp workspace and get AI productivity recommendations",
		Commands: []*cli.Command{
			NewServeCommand(),
			NewAnalyzeCommand(),
			NewAuthCommand(),
		},
	}
}
