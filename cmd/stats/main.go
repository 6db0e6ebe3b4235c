// Package main is the entry point for the stats dashboard.
// It loads configuration, starts the backend poller and runs the Bubble Tea program.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pan93412/Stats/internal/app"
	"github.com/pan93412/Stats/internal/config"
	"github.com/pan93412/Stats/internal/logger"
	"github.com/pan93412/Stats/internal/services"
	"github.com/pan93412/Stats/internal/ui/tabs/dashboard"
	"github.com/pan93412/Stats/internal/ui/tabs/info"
	"github.com/pan93412/Stats/internal/ui/tabs/sessions"
	"github.com/pan93412/Stats/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := logger.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logFile.Close()

	logger.Info("starting", "version", version.GetVersion(), "backend", cfg.BaseURL, "env", cfg.EnvPath)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			logger.Error("error closing services", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svcManager.Start(ctx)

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state), // 1: today's pageviews
		sessions.New(state),  // 2: live visitor sessions
		info.New(state),      // 3: configuration and build info
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, quitting", "signal", sig.String())
			p.Quit()
		case <-ctx.Done():
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info("stopped")
	return nil
}

func printUsage() {
	fmt.Printf(`%s - live terminal dashboard for today's site traffic

Usage:
  stats [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Dashboard, Sessions, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Scroll or move the selection
  Enter/Esc       Enter or leave a session's event list
  r               Refresh now
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  %-22s Backend base URL (default: http://localhost:8080)
  %-22s Polling interval (default: 5s)
  %-22s Per-request timeout (default: 10s)
  %-22s IANA zone for the day window (default: system zone)
  %-22s Number of top paths to show (default: 10)
  %-22s Desktop notifications on outages (default: true)
  %-22s Log file path
  %-22s debug, info, warn or error (default: info)

Configuration:
  The first .env file found is read and watched for changes:
  - ./.env
  - ~/.config/stats-tui/.env
  - ~/.stats/.env
  - ../.env and ../../.env
`,
		version.Short(),
		config.KeyBaseURL,
		config.KeyPollInterval,
		config.KeyRequestTimeout,
		config.KeyTimezone,
		config.KeyTopPaths,
		config.KeyNotify,
		config.KeyLogFile,
		config.KeyLogLevel,
	)
}
