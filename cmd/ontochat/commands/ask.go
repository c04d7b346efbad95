package commands

import (
	"context"
	"regexp"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/quantumblockchains/ontochat/answer"
	"github.com/quantumblockchains/ontochat/ask"
	"github.com/quantumblockchains/ontochat/config"
	"github.com/quantumblockchains/ontochat/errors"
	"github.com/quantumblockchains/ontochat/logger"
	"github.com/quantumblockchains/ontochat/ontology"
)

// AskCmd answers one question and exits
var AskCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question on the command line",
	Long: `Answer a single free-text question against the knowledge base.

Examples:
  ontochat ask "What is QKD?"
  ontochat ask "Where can I find the wiki link for quantum entanglement?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := ontology.NewSQLStore(database, logger.Logger)
	catalog, err := ontology.NewCatalog(ctx, store)
	if err != nil {
		return errors.Wrap(err, "failed to build concept catalog")
	}
	if catalog.Size() == 0 {
		pterm.Warning.Println("Knowledge base is empty. Run `ontochat load <file>` first.")
	}

	processor := ask.NewProcessor(catalog, logger.Logger)
	composer := answer.NewComposer(ontology.NewKnowledgeQuery(store, logger.Logger), logger.Logger, cfg.Answer.MaxConcepts)

	parsed := processor.Process(question)
	pterm.Println(stripAnchors(composer.Compose(ctx, parsed)))
	return nil
}

var anchorTagRe = regexp.MustCompile(`<a\b[^>]*>([^<]*)</a>`)

// stripAnchors replaces HTML anchors with their bare text for terminal
// output. The web front end gets the anchors, the terminal gets URLs.
func stripAnchors(text string) string {
	return anchorTagRe.ReplaceAllString(text, "$1")
}
