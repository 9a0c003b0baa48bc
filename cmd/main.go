package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/avatar-backend/internal/app"
	"github.com/yungbote/avatar-backend/internal/config"
	"github.com/yungbote/avatar-backend/internal/platform/shutdown"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (json or yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx, *cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		a.Log.Error("Server stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("Server stopped")
}
