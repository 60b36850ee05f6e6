package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/abrezinsky/tourneytracker/internal/app"
	"github.com/abrezinsky/tourneytracker/internal/config"
	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/pkg/tracker"
)

var (
	version = "dev"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%sconfiguration error:%s %v\n", red, reset, err)
		return 2
	}

	if cfg.ShowVersion {
		fmt.Printf("tourneytracker %s\n", version)
		return 0
	}

	appLog := logger.NewWithOptions(logger.Options{
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
		HTTPLogging: cfg.HTTPLog,
	})
	slog.SetDefault(appLog.Slog())

	// Remote tracker URL is supplied per import request
	remote := tracker.NewHTTPClient("", appLog)

	a, err := app.New(appLog, cfg, remote)
	if err != nil {
		appLog.Error("Failed to initialize application", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(cfg.Addr())
	}()

	quit := make(chan struct{})
	if !cfg.NoKeyboard && term.IsTerminal(int(os.Stdin.Fd())) {
		printBanner(cfg.Addr())
		printKeyboardHelp()
		con := &console{log: appLog, backup: a.Backup, quit: quit}
		go con.listen(os.Stdin)
	}

	exit := 0
	select {
	case err := <-serverErr:
		if err != nil {
			appLog.Error("Server failed", "error", err)
			exit = 1
		}
	case <-ctx.Done():
		appLog.Info("Shutdown signal received")
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Graceful shutdown failed", "error", err)
		exit = 1
	}
	appLog.Info("Server stopped")
	return exit
}
