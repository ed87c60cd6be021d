package mlogic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlproof/mlcheck/pkg/mlogic"
)

func TestApplyESubstIdentityWhenFresh(t *testing.T) {
	p := mlogic.NewEVar(1)
	result, err := mlogic.ApplyESubst(p, 0, mlogic.NewSymbol(9))
	require.NoError(t, err)
	require.Same(t, p, result, "substitution for a fresh variable is a no-op and should return the original")
}

func TestApplyESubstReplacesMatchingVar(t *testing.T) {
	p := mlogic.NewEVar(0)
	plug := mlogic.NewSymbol(9)
	result, err := mlogic.ApplyESubst(p, 0, plug)
	require.NoError(t, err)
	require.True(t, result.Equal(plug))
}

func TestApplyESubstWrapsMetaVar(t *testing.T) {
	mv := mlogic.NewCleanMetaVar(0)
	result, err := mlogic.ApplyESubst(mv, 1, mlogic.NewEVar(2))
	require.NoError(t, err)
	require.Equal(t, mlogic.TagESubst, result.Tag())
}

func TestApplyESubstCaptureAvoidance(t *testing.T) {
	// Exists(1, EVar(1))[EVar(0)/0] would not cross the binder (x=0 != 1).
	// But instantiating φ0 with Exists(0, EVar(1)) in Quantifier(1,0),
	// φ0[EVar(0)/1] -> ∃1. φ0, needs Exists(0, EVar(1))[EVar(0)/1], which
	// would capture the free EVar(0) plug under the Exists(0, ...) binder.
	p := mlogic.NewExists(0, mlogic.NewEVar(1))
	_, err := mlogic.ApplyESubst(p, 1, mlogic.NewEVar(0))
	require.Error(t, err)
}

func TestApplyESubstCrossesExistsWhenSafe(t *testing.T) {
	p := mlogic.NewExists(0, mlogic.NewEVar(1))
	result, err := mlogic.ApplyESubst(p, 1, mlogic.NewSymbol(9))
	require.NoError(t, err)
	require.Equal(t, mlogic.TagExists, result.Tag())
	require.True(t, result.Body().Equal(mlogic.NewSymbol(9)))
}

func TestApplySSubstCaptureAvoidance(t *testing.T) {
	p := mlogic.NewMu(0, mlogic.NewSVar(1))
	_, err := mlogic.ApplySSubst(p, 1, mlogic.NewSVar(0))
	require.Error(t, err)
}

func TestInstantiateChecksEFresh(t *testing.T) {
	mv, err := mlogic.NewMetaVar(0, mlogic.MetaVarConstraints{EFresh: []mlogic.ID{1}})
	require.NoError(t, err)

	// EVar(1) is not fresh in itself, so it violates the e_fresh(1) constraint.
	_, err = mlogic.Instantiate(mv, []mlogic.ID{0}, []*mlogic.Pattern{mlogic.NewEVar(1)})
	require.Error(t, err)

	// Symbol(9) is fresh in everything, so it satisfies e_fresh(1).
	result, err := mlogic.Instantiate(mv, []mlogic.ID{0}, []*mlogic.Pattern{mlogic.NewSymbol(9)})
	require.NoError(t, err)
	require.True(t, result.Equal(mlogic.NewSymbol(9)))
}

func TestInstantiateRejectsSSubstPlugForAppCtxHole(t *testing.T) {
	mv, err := mlogic.NewMetaVar(0, mlogic.MetaVarConstraints{AppCtxHoles: []mlogic.ID{1}})
	require.NoError(t, err)

	// A pending set-substitution can never witness an app_ctx_hole, so
	// instantiating with one as the plug must fail closed with an ordinary
	// side-condition error, not propagate a panic.
	plug, err := mlogic.NewSSubst(mlogic.NewCleanMetaVar(2), 0, mlogic.NewSVar(3))
	require.NoError(t, err)

	_, err = mlogic.Instantiate(mv, []mlogic.ID{0}, []*mlogic.Pattern{plug})
	require.Error(t, err)
	var sideErr *mlogic.SideConditionError
	require.ErrorAs(t, err, &sideErr)
}

func TestInstantiateIdentityWhenNoMatch(t *testing.T) {
	p := mlogic.NewImplies(mlogic.NewEVar(0), mlogic.NewSymbol(1))
	result, err := mlogic.Instantiate(p, []mlogic.ID{9}, []*mlogic.Pattern{mlogic.NewSymbol(2)})
	require.NoError(t, err)
	require.Same(t, p, result, "no meta-variable matched; the identity optimisation should return the input")
}

func TestInstantiateLeavesNonMetaVarsAlone(t *testing.T) {
	p := mlogic.NewImplies(mlogic.NewSymbol(0), mlogic.NewSymbol(0))
	result, err := mlogic.Instantiate(p, []mlogic.ID{0}, []*mlogic.Pattern{mlogic.NewSymbol(9)})
	require.NoError(t, err)
	require.Same(t, p, result)
}
