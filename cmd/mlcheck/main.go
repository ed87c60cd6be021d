// Command mlcheck is the host-side CLI around pkg/verify: it loads gamma,
// claim, and proof byte streams from disk, drives the checker, and reports
// acceptance or the fatal error that rejected the proof. It also exposes a
// compose subcommand for re-verifying and chaining prior receipts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose  bool
	cfgPath  string
	stripVer bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mlcheck",
	Short: "Matching logic proof checker",
	Long: `mlcheck verifies matching-logic Hilbert-style proofs encoded as
a three-phase (gamma, claim, proof) byte-coded instruction stream.

It is the host-side counterpart to the in-guest checker: the same
pkg/verify logic that a ZK-VM guest runs is driven here directly against
files on disk, for local development and for composing receipts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to mlcheck.yaml (default: none)")
	rootCmd.PersistentFlags().BoolVar(&stripVer, "strip-version-prefix", false, "strip a leading 3-byte version tag from each input stream")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(composeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
