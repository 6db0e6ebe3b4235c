// Package main runs a local backend that serves a generated day of traffic,
// so the dashboard can be developed without a real analytics server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pan93412/Stats/internal/demo"
	"github.com/pan93412/Stats/internal/logger"
	"github.com/pan93412/Stats/internal/version"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "listen address")
	verbose := flag.Bool("verbose", false, "log every request")
	showVersion := flag.Bool("version", false, "show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*addr); err != nil {
		logger.Error("demo backend failed", "error", err)
		os.Exit(1)
	}
}

func run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           demo.NewServeMux(demo.NewHandler(time.Now)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("demo backend listening", "addr", addr)
		fmt.Printf("Serving demo data on http://%s (POST /demo/fail toggles outages)\n", addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
