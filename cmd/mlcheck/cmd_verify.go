package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mlproof/mlcheck/internal/host"
	"github.com/mlproof/mlcheck/internal/metrics"
	"github.com/mlproof/mlcheck/pkg/journal"
	"github.com/mlproof/mlcheck/pkg/verify"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	gammaPath  string
	claimPath  string
	proofPath  string
	journalOut string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a gamma/claim/proof stream triple",
	Long: `verify loads the three byte streams from disk, runs them through
the checker's gamma, claim, and proof phases in order, and reports either
acceptance (with the claim and cycle counts) or the fatal error that
rejected the proof.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&gammaPath, "gamma", "", "path to the gamma-phase byte stream (falls back to mlcheck.yaml's gamma key)")
	verifyCmd.Flags().StringVar(&claimPath, "claim", "", "path to the claim-phase byte stream (falls back to mlcheck.yaml's claim key)")
	verifyCmd.Flags().StringVar(&proofPath, "proof", "", "path to the proof-phase byte stream (falls back to mlcheck.yaml's proof key)")
	verifyCmd.Flags().StringVar(&journalOut, "journal-out", "", "write the committed journal entry to this path")
}

// resolvePath returns the flag value if set, otherwise the config value,
// erroring if neither names a path.
func resolvePath(flagVal, cfgVal, name string) (string, error) {
	if flagVal != "" {
		return flagVal, nil
	}
	if cfgVal != "" {
		return cfgVal, nil
	}
	return "", fmt.Errorf("no %s path given: pass --%s or set it in the config file", name, name)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	strip := stripVer || cfg.StripVersionPrefix

	gamma, err := resolvePath(gammaPath, cfg.Gamma, "gamma")
	if err != nil {
		return err
	}
	claim, err := resolvePath(claimPath, cfg.Claim, "claim")
	if err != nil {
		return err
	}
	proof, err := resolvePath(proofPath, cfg.Proof, "proof")
	if err != nil {
		return err
	}

	streams, err := host.LoadStreams(gamma, claim, proof, strip)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)

	res, err := verify.Verify(streams.Gamma, streams.Claim, streams.Proof)
	if err != nil {
		rec.RecordFailure()
		logger.Error("proof rejected", zap.Error(err))
		return err
	}
	rec.RecordSuccess(res.CycleCount, res.Claims)

	logger.Info("proof accepted",
		zap.Int("claims", res.Claims),
		zap.Uint64("cycles", res.CycleCount),
		zap.Int("memory_entries", len(res.Memory)),
	)
	fmt.Printf("accepted: %d claim(s) discharged in %d cycles\n", res.Claims, res.CycleCount)

	if journalOut != "" {
		entry := journal.Entry{
			CycleCount: res.CycleCount,
			Gamma:      res.Gamma,
			Claims:     res.ClaimBytes,
		}
		if err := writeFile(journalOut, journal.Commit(entry)); err != nil {
			return fmt.Errorf("writing journal: %w", err)
		}
	}
	return nil
}
