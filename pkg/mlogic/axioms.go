package mlogic

// Axiom schemas (spec.md §4.3). Each is a parameterised builder: Prop1-3
// close over three unconstrained meta-variables, while Quantifier,
// Existence, and PreFixpoint additionally take one or two identifiers
// supplied by the instruction stream that invokes them.

func phi(n ID) *Pattern { return NewCleanMetaVar(n) }

// Not builds ¬p ≡ p -> Bot, used by Prop3.
func Not(p *Pattern) *Pattern { return NewImplies(p, Bot) }

// Prop1 builds φ0 -> (φ1 -> φ0).
func Prop1() *Pattern {
	phi0, phi1 := phi(0), phi(1)
	return NewImplies(phi0, NewImplies(phi1, phi0))
}

// Prop2 builds (φ0 -> (φ1 -> φ2)) -> ((φ0 -> φ1) -> (φ0 -> φ2)).
func Prop2() *Pattern {
	phi0, phi1, phi2 := phi(0), phi(1), phi(2)
	lhs := NewImplies(phi0, NewImplies(phi1, phi2))
	rhs := NewImplies(NewImplies(phi0, phi1), NewImplies(phi0, phi2))
	return NewImplies(lhs, rhs)
}

// Prop3 builds ¬¬φ0 -> φ0.
func Prop3() *Pattern {
	phi0 := phi(0)
	return NewImplies(Not(Not(phi0)), phi0)
}

// Quantifier builds φ0[y/x] -> ∃x. φ0, via ApplyESubst on an unconstrained
// φ0.
func Quantifier(x, y ID) (*Pattern, error) {
	phi0 := phi(0)
	substituted, err := ApplyESubst(phi0, x, NewEVar(y))
	if err != nil {
		return nil, err
	}
	return NewImplies(substituted, NewExists(x, phi0)), nil
}

// Existence builds ∃x. x.
func Existence(x ID) *Pattern {
	return NewExists(x, NewEVar(x))
}

// PreFixpoint builds φ[fp/X] -> fp, where φ = metavar positive in X and
// fp = μX. φ, via ApplySSubst.
func PreFixpoint(x ID) (*Pattern, error) {
	phiX, err := NewMetaVar(0, MetaVarConstraints{Positive: []ID{x}})
	if err != nil {
		return nil, err
	}
	fp, err := MustNewMu(x, phiX)
	if err != nil {
		return nil, err
	}
	substituted, err := ApplySSubst(phiX, x, fp)
	if err != nil {
		return nil, err
	}
	return NewImplies(substituted, fp), nil
}
