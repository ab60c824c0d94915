package main

import (
	"context"
	"log"
	"os"

	"github.com/i474232898/flow-weather/internal/cli"
	"github.com/i474232898/flow-weather/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := cli.New(cfg).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
