package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/outer-user-333/recon-0-lite/internal/infra/app"
	"github.com/outer-user-333/recon-0-lite/internal/infra/config"
)

func main() {
	// .env is optional; real deployments inject environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	platform, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	if err := platform.Run(ctx); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
