package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/quantumblockchains/ontochat/config"
	"github.com/quantumblockchains/ontochat/errors"
	"github.com/quantumblockchains/ontochat/internal/version"
	"github.com/quantumblockchains/ontochat/logger"
	"github.com/quantumblockchains/ontochat/ontology"
	"github.com/quantumblockchains/ontochat/server"
)

var servePortFlag int

// ServeCmd starts the chat web server
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat web server",
	Long: `Start the websocket chat server with the embedded web UI.

The server answers questions over a websocket chat session (with
per-connection history) and a one-shot POST /api/ask endpoint.

Examples:
  ontochat serve               # Listen on the configured port
  ontochat serve --port 9000   # Override the port`,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().IntVar(&servePortFlag, "port", 0, "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if servePortFlag > 0 {
		cfg.Server.Port = servePortFlag
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := ontology.NewSQLStore(database, logger.Logger)
	catalog, err := ontology.NewCatalog(ctx, store)
	if err != nil {
		return errors.Wrap(err, "failed to build concept catalog")
	}

	srv := server.NewChatServer(cfg, ontology.NewKnowledgeQuery(store, logger.Logger), catalog, logger.Logger)

	printServeBanner(cfg, catalog.Size())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	pterm.Info.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printServeBanner(cfg *config.Config, conceptCount int) {
	info := version.Get()

	pterm.DefaultHeader.WithFullWidth().Println("OntoChat — Quantum Cryptography Assistant")
	pterm.Println()
	pterm.Info.Printfln("Version:   %s (commit %s)", info.Version, info.Short())
	pterm.Info.Printfln("Database:  %s", cfg.Database.Path)
	pterm.Info.Printfln("Concepts:  %d", conceptCount)
	pterm.Info.Printfln("Listening: http://localhost:%d", cfg.Server.Port)
	pterm.Println()
	fmt.Println("Press Ctrl+C to stop")
}
