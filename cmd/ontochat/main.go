package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantumblockchains/ontochat/cmd/ontochat/commands"
	"github.com/quantumblockchains/ontochat/logger"
)

var rootCmd = &cobra.Command{
	Use:   "ontochat",
	Short: "ontochat - Quantum cryptography knowledge assistant",
	Long: `ontochat - Ontology-backed question answering for quantum cryptography.

ontochat loads a concept ontology into a local SQLite triple store and
answers free-text questions about definitions, acronyms, references,
hierarchy, and related concepts.

Available commands:
  ask     - Answer one question on the command line
  serve   - Start the chat web server
  load    - Ingest an ontology file into the knowledge base
  db      - Manage the knowledge base database
  version - Show version information

Examples:
  ontochat load ontology.yaml        # Ingest the ontology
  ontochat ask "What is QKD?"        # One-shot question
  ontochat serve                     # Start the chat server
  ontochat db stats                  # Show knowledge base statistics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(false); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		verbosity, _ := cmd.Flags().GetCount("verbose")
		return logger.SetLevel(logger.LevelForVerbosity(verbosity))
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail)")

	rootCmd.AddCommand(commands.AskCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.LoadCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
