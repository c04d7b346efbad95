package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantumblockchains/ontochat/config"
	"github.com/quantumblockchains/ontochat/ontology"
)

// DbCmd manages the knowledge base database
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the knowledge base database",
	Long: `Manage knowledge base database operations.

Examples:
  ontochat db stats     # Show triple store statistics
  ontochat db migrate   # Apply pending schema migrations`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	RunE:  runDbStats,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runDbMigrate,
}

func init() {
	DbCmd.AddCommand(dbStatsCmd)
	DbCmd.AddCommand(dbMigrateCmd)
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	var totalTriples, uniqueSubjects, uniquePredicates, labels int
	err = database.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(DISTINCT subject),
			COUNT(DISTINCT predicate),
			COUNT(CASE WHEN predicate = ? THEN 1 END)
		FROM triples
	`, ontology.PredicateLabel).Scan(&totalTriples, &uniqueSubjects, &uniquePredicates, &labels)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to query store stats: %w", err)
	}

	fmt.Println("Knowledge Base Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()
	fmt.Printf("Database Path:     %s\n", cfg.Database.Path)
	fmt.Printf("Total Triples:     %d\n", totalTriples)
	fmt.Printf("Unique Concepts:   %d\n", uniqueSubjects)
	fmt.Printf("Unique Predicates: %d\n", uniquePredicates)
	fmt.Printf("Labeled Concepts:  %d\n", labels)
	return nil
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	// openDatabase migrates as part of opening
	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Println("Migrations applied")
	return nil
}
