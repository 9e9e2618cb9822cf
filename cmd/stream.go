package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/config"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/orchestrator"
	"github.com/spf13/cobra"
)

var (
	streamQuestion       string
	streamPDFPath        string
	streamNonInteractive bool
)

// streamCmd represents the streaming question-answering command.
var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Answer a question about a PDF, streaming log/token/final events as JSON lines",
	Long: `stream behaves like ask, but prints each orchestrator event (log, token,
error, final) as its own JSON line as soon as it is produced, instead of
waiting for the whole pipeline to finish.`,
	RunE: runStream,
}

func init() {
	rootCmd.AddCommand(streamCmd)

	streamCmd.Flags().StringVarP(&streamQuestion, "question", "q", "", "Question to ask (required)")
	streamCmd.Flags().StringVarP(&streamPDFPath, "pdf", "p", "", "Path to the source PDF (required)")
	streamCmd.Flags().BoolVar(&streamNonInteractive, "non-interactive", false, "never prompt for missing tool credentials")

	_ = streamCmd.MarkFlagRequired("question")
	_ = streamCmd.MarkFlagRequired("pdf")
}

func runStream(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("stream: load config: %w", err)
	}
	if streamNonInteractive {
		cfg.Interactive = false
	}

	orch, err := orchestrator.New(cfg, nil)
	if err != nil {
		return fmt.Errorf("stream: construct orchestrator: %w", err)
	}

	ctx := context.Background()
	encoder := json.NewEncoder(os.Stdout)
	for event := range orch.RunStream(ctx, streamQuestion, streamPDFPath) {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("stream: encode event: %w", err)
		}
	}

	return nil
}
