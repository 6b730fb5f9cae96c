// Command parley is a terminal client for a parley chat server.
//
// Usage:
//
//	parley [flags]
//
// Flags:
//
//	-config string      Path to config file (default ~/.parley/config.toml)
//	-server string      Server base URL (overrides config and PARLEY_SERVER)
//	-token-file string  Path to the persisted auth token (default ~/.parley/token.json)
//	-debug-log string   Path to a debug log file (overrides config)
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mjaros/parley"
	"github.com/mjaros/parley/api"
	bt "github.com/mjaros/parley/bubbletea"
	"github.com/mjaros/parley/config"
	"github.com/mjaros/parley/internal/logging"
	parleyjson "github.com/mjaros/parley/json"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse flags.
	var (
		configPath = flag.String("config", config.DefaultPath(), "Path to config file")
		server     = flag.String("server", "", "Server base URL (overrides config and PARLEY_SERVER)")
		tokenPath  = flag.String("token-file", defaultTokenPath(), "Path to the persisted auth token")
		debugLog   = flag.String("debug-log", "", "Path to a debug log file (overrides config)")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *server != "" {
		cfg.Server = *server
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if *debugLog != "" {
		cfg.DebugLog = *debugLog
	}

	// Logs go to a file so they never draw over the TUI.
	log, closeLog, err := logging.New(cfg.DebugLog)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	store := parleyjson.NewTokenStore(*tokenPath)
	client := api.New(store,
		api.WithBaseURL(cfg.Server),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
	)

	// Restore the saved session, if any. A rejected or unreachable token
	// falls back to the login screen; only a broken token store aborts.
	auth := parley.NewAuth(client, store, parley.WithAuthLogger(log))
	if err := auth.Bootstrap(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	session := parley.NewChatSession(client, parley.WithChatLogger(log))

	m := bt.New(auth, session, client, parley.DefaultTheme())
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".parley", "token.json")
}
