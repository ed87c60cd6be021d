// Package compose implements the thin, in-scope slice of the composition
// layer spec.md §1 places outside the checker core: re-verifying multiple
// sub-proof receipts and combining the Proved patterns their runs left in
// memory. It does not touch receipt cryptography (that belongs to the
// ZK-VM host).
package compose

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mlproof/mlcheck/pkg/journal"
	"github.com/mlproof/mlcheck/pkg/mlogic"
	"github.com/mlproof/mlcheck/pkg/verify"
)

// Receipt is one prior verification's committed journal plus the proof
// bytes needed to re-check it — the composer re-verifies every link
// before trusting its claims, rather than taking the journal on faith.
type Receipt struct {
	Journal journal.Entry
	Claim   []byte
	Proof   []byte
}

// Stats tracks how a Chain call spent its work, mirroring the
// submitted/completed/failed counters of a worker-pool execution report.
type Stats struct {
	mu        sync.Mutex
	Submitted int
	Completed int
	Failed    int
}

func (s *Stats) recordSubmitted() {
	s.mu.Lock()
	s.Submitted++
	s.mu.Unlock()
}

func (s *Stats) recordCompleted() {
	s.mu.Lock()
	s.Completed++
	s.mu.Unlock()
}

func (s *Stats) recordFailed() {
	s.mu.Lock()
	s.Failed++
	s.mu.Unlock()
}

// ChainID identifies one Chain call for logging and metrics correlation.
type ChainID = uuid.UUID

// Composer re-verifies a set of independent receipts concurrently — each
// receipt's journal is independently well-formed, so validating N of them
// parallelizes even though any single Verify call stays single-threaded
// (spec.md §5 bounds concurrency inside the core, not above it).
type Composer struct {
	MaxConcurrency int
}

// NewComposer returns a Composer bounded to maxConcurrency simultaneous
// Verify calls. A non-positive value leaves the bound to errgroup's
// default (unbounded).
func NewComposer(maxConcurrency int) *Composer {
	return &Composer{MaxConcurrency: maxConcurrency}
}

// ChainResult is the outcome of composing a set of receipts: a fresh chain
// identifier, the Proved patterns each receipt's run left in memory (see
// claimsFromMachineMemory), and stats describing how the verification
// fan-out went. The claim patterns discharged by Proof-phase Publish are
// not written to memory and so are not part of Claims.
type ChainResult struct {
	ID     ChainID
	Claims []*mlogic.Pattern
	Stats  Stats
}

// Chain re-verifies every receipt against its own gamma and claims, then
// concatenates each receipt's Proved memory entries in receipt order. It fails closed: if
// any receipt does not independently verify, Chain returns an error and no
// partial result.
func (c *Composer) Chain(ctx context.Context, receipts []Receipt) (*ChainResult, error) {
	result := &ChainResult{ID: uuid.New()}
	claims := make([][]*mlogic.Pattern, len(receipts))

	g, ctx := errgroup.WithContext(ctx)
	if c.MaxConcurrency > 0 {
		g.SetLimit(c.MaxConcurrency)
	}

	for i, r := range receipts {
		i, r := i, r
		result.Stats.recordSubmitted()
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			res, err := verify.Verify(r.Journal.Gamma, r.Claim, r.Proof)
			if err != nil {
				result.Stats.recordFailed()
				return fmt.Errorf("receipt %d: %w", i, err)
			}
			result.Stats.recordCompleted()
			claims[i] = claimsFromMachineMemory(res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, cs := range claims {
		result.Claims = append(result.Claims, cs...)
	}
	return result, nil
}

// claimsFromMachineMemory extracts the Proved patterns a verification run
// deposited into memory (Γ-phase Publish and Save of a Proved term), in
// the order they were written.
func claimsFromMachineMemory(res *verify.Result) []*mlogic.Pattern {
	var out []*mlogic.Pattern
	for _, entry := range res.Memory {
		if entry.Kind == mlogic.KindProved {
			out = append(out, entry.Pattern)
		}
	}
	return out
}
