package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/quantumblockchains/ontochat/config"
	"github.com/quantumblockchains/ontochat/errors"
	"github.com/quantumblockchains/ontochat/logger"
	"github.com/quantumblockchains/ontochat/ontology"
)

// LoadCmd ingests an ontology file into the knowledge base
var LoadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Ingest an ontology file into the knowledge base",
	Long: `Parse a YAML ontology document and persist its triples.

Ingestion is idempotent: triples already present are skipped, so the
same file can be loaded repeatedly after edits.

Examples:
  ontochat load                 # Load the configured ontology file
  ontochat load ontology.yaml   # Load a specific file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}
		path = cfg.Ontology.Path
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := ontology.NewSQLStore(database, logger.Logger)

	spinner, _ := pterm.DefaultSpinner.Start("Ingesting ", path)
	inserted, err := ontology.Ingest(context.Background(), store, path, logger.Logger)
	if err != nil {
		spinner.Fail("Ingestion failed")
		return err
	}
	spinner.Success()

	pterm.Success.Printfln("Ingested %s: %d new triples", path, inserted)
	return nil
}
