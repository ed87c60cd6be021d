package mlogic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlproof/mlcheck/pkg/mlogic"
)

func TestProp1Shape(t *testing.T) {
	p := mlogic.Prop1()
	require.Equal(t, mlogic.TagImplies, p.Tag())
	require.Equal(t, mlogic.TagMetaVar, p.Left().Tag())
	require.Equal(t, mlogic.TagImplies, p.Right().Tag())
}

func TestProp3IsDoubleNegationShape(t *testing.T) {
	p := mlogic.Prop3()
	require.Equal(t, mlogic.TagImplies, p.Tag())
	notNotPhi0 := p.Left()
	require.Equal(t, mlogic.TagImplies, notNotPhi0.Tag())
	require.Equal(t, mlogic.TagBot, notNotPhi0.Right().Tag())
}

func TestQuantifierAppliesSubstitution(t *testing.T) {
	p, err := mlogic.Quantifier(0, 1)
	require.NoError(t, err)
	require.Equal(t, mlogic.TagImplies, p.Tag())
	require.Equal(t, mlogic.TagExists, p.Right().Tag())
	require.Equal(t, mlogic.ID(0), p.Right().ID())
}

func TestExistenceShape(t *testing.T) {
	p := mlogic.Existence(3)
	require.Equal(t, mlogic.TagExists, p.Tag())
	require.Equal(t, mlogic.ID(3), p.ID())
	require.Equal(t, mlogic.TagEVar, p.Body().Tag())
}

func TestPreFixpointBuildsPositiveMu(t *testing.T) {
	p, err := mlogic.PreFixpoint(2)
	require.NoError(t, err)
	require.Equal(t, mlogic.TagImplies, p.Tag())
	fp := p.Right()
	require.Equal(t, mlogic.TagMu, fp.Tag())
	require.Equal(t, mlogic.ID(2), fp.ID())
}
