package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mlproof/mlcheck/internal/compose"
	"github.com/mlproof/mlcheck/pkg/journal"
)

var (
	receiptsPath   string
	maxConcurrency int
)

// receiptManifest is the on-disk description of a set of receipts to chain:
// a journal file (as written by `verify --journal-out`), a claim stream,
// and a proof stream per receipt.
type receiptManifest struct {
	Receipts []struct {
		Journal string `yaml:"journal"`
		Claim   string `yaml:"claim"`
		Proof   string `yaml:"proof"`
	} `yaml:"receipts"`
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Re-verify and chain a set of prior receipts",
	Long: `compose reads a manifest of previously committed receipts,
independently re-verifies each one, and concatenates the Proved patterns
each run left in memory into a single chain result. It fails closed: if any receipt
does not independently re-verify, nothing is chained.`,
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringVar(&receiptsPath, "manifest", "", "path to a YAML receipt manifest (required)")
	composeCmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 0, "max simultaneous re-verifications (0 = unbounded)")
	composeCmd.MarkFlagRequired("manifest")
}

func runCompose(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(receiptsPath)
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", receiptsPath, err)
	}
	var manifest receiptManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("parsing manifest %s: %w", receiptsPath, err)
	}

	receipts := make([]compose.Receipt, 0, len(manifest.Receipts))
	for _, r := range manifest.Receipts {
		jBytes, err := os.ReadFile(r.Journal)
		if err != nil {
			return fmt.Errorf("reading journal %s: %w", r.Journal, err)
		}
		entry, err := journal.Read(bytes.NewReader(jBytes))
		if err != nil {
			return fmt.Errorf("decoding journal %s: %w", r.Journal, err)
		}
		claim, err := os.ReadFile(r.Claim)
		if err != nil {
			return fmt.Errorf("reading claim %s: %w", r.Claim, err)
		}
		proof, err := os.ReadFile(r.Proof)
		if err != nil {
			return fmt.Errorf("reading proof %s: %w", r.Proof, err)
		}
		receipts = append(receipts, compose.Receipt{Journal: entry, Claim: claim, Proof: proof})
	}

	c := compose.NewComposer(maxConcurrency)
	result, err := c.Chain(context.Background(), receipts)
	if err != nil {
		logger.Error("chain failed", zap.Error(err))
		return err
	}

	logger.Info("chain verified",
		zap.String("chain_id", result.ID.String()),
		zap.Int("claims", len(result.Claims)),
		zap.Int("completed", result.Stats.Completed),
	)

	out, err := json.MarshalIndent(struct {
		ChainID string `json:"chain_id"`
		Claims  int    `json:"claims"`
	}{result.ID.String(), len(result.Claims)}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
