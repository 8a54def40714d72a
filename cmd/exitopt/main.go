package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/optionslab/exitopt/cmd/exitopt/commands"
)

func main() {
	// Optional .env for local defaults (EXITOPT_TRADES, EXITOPT_CONFIG).
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
