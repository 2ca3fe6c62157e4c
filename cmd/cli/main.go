package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dpetrovs/marksync/internal/buildinfo"
	"github.com/dpetrovs/marksync/internal/client/cli"
	"github.com/dpetrovs/marksync/internal/client/config"
	"github.com/dpetrovs/marksync/internal/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	// Logs rotate on disk; the terminal stays free for the REPL.
	logWriter := &lumberjack.Logger{
		Filename:   "marksync.log",
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(logWriter, nil)))

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
