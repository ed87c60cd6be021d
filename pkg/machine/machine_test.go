package machine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlproof/mlcheck/pkg/machine"
	"github.com/mlproof/mlcheck/pkg/mlogic"
)

func op(o machine.Op, operands ...byte) []byte {
	return append([]byte{byte(o)}, operands...)
}

func join(chunks ...[]byte) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func TestConstructPhi0ImpliesPhi0(t *testing.T) {
	proof := join(
		op(machine.OpMetaVar, 0, 0, 0, 0, 0, 0),
		op(machine.OpSave),
		op(machine.OpLoad, 0),
		op(machine.OpImplies),
	)

	m := machine.NewMachine()
	err := m.Run(machine.PhaseProof, proof)
	require.NoError(t, err)
	require.Len(t, m.Stack, 1)

	phi0 := mlogic.NewCleanMetaVar(0)
	want := mlogic.NewImplies(phi0, phi0)
	got, err := m.Stack[0].ExpectPattern("test")
	require.NoError(t, err)
	require.True(t, got.Equal(want))
}

func TestHilbertPhi0ImpliesPhi0(t *testing.T) {
	proof := join(
		op(machine.OpMetaVar, 0, 0, 0, 0, 0, 0),
		op(machine.OpSave),
		op(machine.OpLoad, 0),
		op(machine.OpLoad, 0),
		op(machine.OpImplies),
		op(machine.OpSave),
		op(machine.OpProp2),
		op(machine.OpInstantiate, 1, 1),
		op(machine.OpInstantiate, 1, 2),
		op(machine.OpLoad, 1),
		op(machine.OpProp1),
		op(machine.OpInstantiate, 1, 1),
		op(machine.OpModusPonens),
		op(machine.OpLoad, 0),
		op(machine.OpProp1),
		op(machine.OpInstantiate, 1, 1),
		op(machine.OpModusPonens),
	)

	m := machine.NewMachine()
	err := m.Run(machine.PhaseProof, proof)
	require.NoError(t, err)
	require.Len(t, m.Stack, 1)

	phi0 := mlogic.NewCleanMetaVar(0)
	want := mlogic.NewImplies(phi0, phi0)
	got, err := m.Stack[0].ExpectProved("test")
	require.NoError(t, err)
	require.True(t, got.Equal(want))
}

func TestGeneralizationLiftsExists(t *testing.T) {
	gamma := join(
		op(machine.OpSymbol, 0),
		op(machine.OpSymbol, 1),
		op(machine.OpImplies),
		op(machine.OpPublish),
	)
	proof := join(
		op(machine.OpLoad, 0),
		op(machine.OpGeneralization, 0),
	)

	m := machine.NewMachine()
	require.NoError(t, m.Run(machine.PhaseGamma, gamma))
	require.NoError(t, m.Run(machine.PhaseProof, proof))

	want := mlogic.NewImplies(mlogic.NewExists(0, mlogic.NewSymbol(0)), mlogic.NewSymbol(1))
	got, err := m.Stack[0].ExpectProved("test")
	require.NoError(t, err)
	require.True(t, got.Equal(want))
	require.Empty(t, m.Claims)
}

func TestPublishThreePhases(t *testing.T) {
	symbol0 := op(machine.OpSymbol, 0)
	gamma := join(symbol0, op(machine.OpPublish))
	claim := join(symbol0, op(machine.OpPublish))
	proof := join(op(machine.OpLoad, 0), op(machine.OpPublish))

	m := machine.NewMachine()
	require.NoError(t, m.Run(machine.PhaseGamma, gamma))
	require.Len(t, m.Memory, 1)
	require.Empty(t, m.Stack)

	require.NoError(t, m.Run(machine.PhaseClaim, claim))
	require.Len(t, m.Claims, 1)
	require.Empty(t, m.Stack)

	require.NoError(t, m.Run(machine.PhaseProof, proof))
	require.Empty(t, m.Claims)
	require.Empty(t, m.Stack)
}

func TestClaimMismatchFatal(t *testing.T) {
	claim := join(op(machine.OpSymbol, 0), op(machine.OpPublish))

	m := machine.NewMachine()
	require.NoError(t, m.Run(machine.PhaseGamma, nil))
	require.NoError(t, m.Run(machine.PhaseClaim, claim))
	// Proof-phase never discharges the claim: the stream is empty, so the
	// phase ends with a non-empty claim queue.
	err := m.Run(machine.PhaseProof, nil)
	require.Error(t, err)
}

func TestCaptureAvoidanceFatalThroughInstantiate(t *testing.T) {
	// Builds the pending substitution MetaVar(5)[EVar(0)/e1], then
	// instantiates meta-variable 5 with Exists(0, EVar(1)) as its plug.
	// Resolving the pending substitution after instantiation requires
	// apply_esubst(Exists(0, EVar 1), 1, EVar 0) — exactly the capture the
	// spec's end-to-end scenario names, reached indirectly through
	// Instantiate rather than called directly.
	proof := join(
		op(machine.OpEVar, 1),
		op(machine.OpExists, 0), // plug: Exists(0, EVar(1))
		op(machine.OpCleanMetaVar, 5),
		op(machine.OpEVar, 0),
		op(machine.OpESubst, 1), // head: MetaVar(5)[EVar(0)/e1]
		op(machine.OpInstantiate, 1, 5),
	)
	m := machine.NewMachine()
	err := m.Run(machine.PhaseProof, proof)
	require.Error(t, err)
}

func TestInstantiateRejectsSSubstPlugForAppCtxHoleWithoutPanic(t *testing.T) {
	// A prover builds MetaVar(0) constrained by app_ctx_hole(1), then tries
	// to instantiate it with a well-formed pending SSubst as the plug. An
	// SSubst can never witness an app-ctx hole, so this must fail closed
	// with an ordinary error rather than crash the machine.
	proof := join(
		op(machine.OpCleanMetaVar, 2),
		op(machine.OpSVar, 3),
		op(machine.OpSSubst, 0),
		op(machine.OpMetaVar, 0, 0, 0, 0, 0, 1, 1),
		op(machine.OpInstantiate, 1, 0),
	)
	m := machine.NewMachine()
	require.NotPanics(t, func() {
		err := m.Run(machine.PhaseProof, proof)
		require.Error(t, err)
	})
}

func TestUnknownOpcodeIsFatal(t *testing.T) {
	m := machine.NewMachine()
	err := m.Run(machine.PhaseProof, []byte{250})
	require.Error(t, err)
}

func TestReservedOpcodesRejected(t *testing.T) {
	for _, reserved := range []machine.Op{machine.OpSingleton, machine.OpPropagationOr, machine.OpPropagationExists} {
		m := machine.NewMachine()
		err := m.Run(machine.PhaseProof, []byte{byte(reserved)})
		require.Error(t, err, "opcode %s must be rejected, not silently succeed", reserved)
	}
}

func TestPopFromEmptyStackIsStackDisciplineError(t *testing.T) {
	m := machine.NewMachine()
	err := m.Run(machine.PhaseProof, []byte{byte(machine.OpPop)})
	require.Error(t, err)
	var discErr *mlogic.StackDisciplineError
	require.ErrorAs(t, err, &discErr)
}

func TestVersionMismatchIsFatal(t *testing.T) {
	m := machine.NewMachine()
	err := m.Run(machine.PhaseProof, []byte{byte(machine.OpVersion), 9, 9})
	require.Error(t, err)
}

func TestGammaPhaseRejectsNonEmptyStackAfterPublish(t *testing.T) {
	// Two symbols pushed, only one consumed by Publish: the stack still
	// has one entry left, which is a stack discipline violation.
	gamma := join(op(machine.OpSymbol, 0), op(machine.OpSymbol, 1), op(machine.OpPublish))
	m := machine.NewMachine()
	err := m.Run(machine.PhaseGamma, gamma)
	require.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	proof := join(op(machine.OpSymbol, 7), op(machine.OpSave), op(machine.OpPop), op(machine.OpLoad, 0))
	m := machine.NewMachine()
	require.NoError(t, m.Run(machine.PhaseProof, proof))
	require.Len(t, m.Stack, 1)
	p, err := m.Stack[0].ExpectPattern("test")
	require.NoError(t, err)
	require.True(t, p.Equal(mlogic.NewSymbol(7)))
}

func TestCycleCountIncrementsPerInstruction(t *testing.T) {
	proof := join(op(machine.OpSymbol, 0), op(machine.OpPop))
	m := machine.NewMachine()
	require.NoError(t, m.Run(machine.PhaseProof, proof))
	require.Equal(t, uint64(2), m.CycleCount)
}
