// Package verify drives the stack machine through its three phases over
// three independent byte streams and reports acceptance or rejection
// (spec.md §4.5). Verify is a pure function, up to a fatal abort: its only
// resources are the three input byte slices and the machine it allocates
// locally.
package verify

import (
	"fmt"

	"github.com/mlproof/mlcheck/pkg/machine"
	"github.com/mlproof/mlcheck/pkg/mlogic"
)

// Result carries the outcome of a successful Verify call: the memory
// accumulated over the Γ and Proof phases, and the claims that were
// checked. It exists so a caller (the CLI, the journal writer, the
// composition layer) can inspect what was proved without re-running the
// machine.
type Result struct {
	Memory     []mlogic.Term
	Claims     int
	CycleCount uint64
	Gamma      []byte
	ClaimBytes []byte
}

// Verify runs gamma, claim, and proof as Γ-phase, Claim-phase, and
// Proof-phase in order over a single machine. Any failure along the way
// aborts the whole verification and is returned as-is; the taxonomy of
// spec.md §7 is preserved in the underlying error types.
func Verify(gamma, claim, proof []byte) (*Result, error) {
	m := machine.NewMachine()

	if err := m.Run(machine.PhaseGamma, gamma); err != nil {
		return nil, fmt.Errorf("gamma phase: %w", err)
	}
	if err := m.Run(machine.PhaseClaim, claim); err != nil {
		return nil, fmt.Errorf("claim phase: %w", err)
	}
	claimCount := len(m.Claims)
	if err := m.Run(machine.PhaseProof, proof); err != nil {
		return nil, fmt.Errorf("proof phase: %w", err)
	}

	return &Result{
		Memory:     m.Memory,
		Claims:     claimCount,
		CycleCount: m.CycleCount,
		Gamma:      gamma,
		ClaimBytes: claim,
	}, nil
}
