package cmd

import (
	"github.com/joho/godotenv"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bfsi-research-agent",
	Short: "A CLI for answering BFSI questions over a financial PDF",
	Long: `bfsi-research-agent answers questions about a financial PDF (an annual
report, a regulatory filing, a credit memo) by combining retrieval over the
document itself with optional external research tools, then verifying and
returning a confidence-scored answer with full provenance.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger := util.NewLogger(zerolog.ErrorLevel)
		logger.Fatal().Err(err).Msg("command failed")
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig optionally loads a local .env. A missing .env is not
// fatal: every variable it would set has a default in config.Config,
// and most deployments configure the environment directly rather than
// via a checked-in file.
func initConfig() {
	logger := util.NewLogger(zerolog.ErrorLevel)
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file found, continuing with process environment")
	}
}
