package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pbxdeck/pbxdeck/internal/api"
	"github.com/pbxdeck/pbxdeck/internal/bridge"
	"github.com/pbxdeck/pbxdeck/internal/cli"
	"github.com/pbxdeck/pbxdeck/internal/db"
	"github.com/pbxdeck/pbxdeck/internal/repository"
	"github.com/pbxdeck/pbxdeck/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.pbxdeck/pbxdeck.db
	dbPath := os.Getenv("PBXDECK_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".pbxdeck", "pbxdeck.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	tenantRepo := repository.NewSQLiteTenantRepo(database)
	flowRepo := repository.NewSQLiteFlowRepo(database)
	extensionRepo := repository.NewSQLiteExtensionRepo(database)
	recordRepo := repository.NewSQLiteCallRecordRepo(database)

	// Call engine client; endpoint defaults to a local engine.
	engineURL := os.Getenv("PBXDECK_API_URL")
	if engineURL == "" {
		engineURL = "http://127.0.0.1:8088"
	}
	engine := api.NewClient(api.Config{
		Endpoint: engineURL,
		Token:    os.Getenv("PBXDECK_TOKEN"),
		Timeout:  10 * time.Second,
	})

	app := &cli.App{
		Tenants:    service.NewTenantService(tenantRepo),
		Flows:      service.NewFlowService(flowRepo, tenantRepo, bridge.DefaultRetryPolicy()),
		Extensions: service.NewExtensionService(extensionRepo, tenantRepo),
		Calls:      service.NewCallService(engine, recordRepo),
	}

	// Live call events are optional; without the stream the editor and
	// the calls view simply work from snapshots.
	if wsURL := os.Getenv("PBXDECK_WS_URL"); wsURL != "" {
		app.Bridge = bridge.NewClient(wsURL, bridge.DefaultRetryPolicy(), nil, nil)
	}

	// Detect interactive terminal; the flow editor requires one.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
