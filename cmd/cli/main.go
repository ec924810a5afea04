package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"cvkeeper/internal/client/cli"
	"cvkeeper/internal/client/config"
	"cvkeeper/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logFile, err := os.OpenFile("cvkeeper.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	defer logFile.Close()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(logFile, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
