package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/config"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/orchestrator"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	askQuestion       string
	askPDFPath        string
	askNonInteractive bool
)

// askCmd represents the blocking question-answering command.
var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question about a PDF, blocking until the final answer",
	Long: `ask loads a PDF, answers the given question using internal retrieval and
(when enabled) external research tools, and prints the verified answer as
JSON.

Examples:
  # Ask about a 10-K
  bfsi-research-agent ask --pdf ./10-k.pdf --question "What was total revenue in 2024?"

  # Run without any interactive credential prompts
  bfsi-research-agent ask --pdf ./10-k.pdf --question "What was the CET1 ratio?" --non-interactive`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "Question to ask (required)")
	askCmd.Flags().StringVarP(&askPDFPath, "pdf", "p", "", "Path to the source PDF (required)")
	askCmd.Flags().BoolVar(&askNonInteractive, "non-interactive", false, "never prompt for missing tool credentials")

	_ = askCmd.MarkFlagRequired("question")
	_ = askCmd.MarkFlagRequired("pdf")
}

func runAsk(_ *cobra.Command, _ []string) error {
	logger := util.NewLogger(zerolog.ErrorLevel)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ask: load config: %w", err)
	}
	if askNonInteractive {
		cfg.Interactive = false
	}

	orch, err := orchestrator.New(cfg, nil)
	if err != nil {
		return fmt.Errorf("ask: construct orchestrator: %w", err)
	}

	ctx := context.Background()
	result := orch.Run(ctx, askQuestion, askPDFPath)

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("ask: failed to encode result")
		return fmt.Errorf("ask: encode result: %w", err)
	}

	fmt.Fprintln(os.Stdout, string(encoded))
	return nil
}
