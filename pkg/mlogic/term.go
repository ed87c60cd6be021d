package mlogic

import "fmt"

// TermKind distinguishes a raw Pattern from one carrying the semantic
// promise that it is a theorem of Γ in the current phase. The two are
// never interchangeable (spec.md §3.3): every inference rule below checks
// the kind of what it pops before touching the pattern inside.
type TermKind uint8

const (
	KindPattern TermKind = iota
	KindProved
)

func (k TermKind) String() string {
	if k == KindProved {
		return "Proved"
	}
	return "Pattern"
}

// Term is a stack or memory cell: a pattern tagged with whether it is a
// bare pattern or a proved theorem.
type Term struct {
	Kind    TermKind
	Pattern *Pattern
}

// AsPattern wraps p as an untagged Term.
func AsPattern(p *Pattern) Term { return Term{Kind: KindPattern, Pattern: p} }

// AsProved wraps p as a Term carrying the "is a theorem" promise.
func AsProved(p *Pattern) Term { return Term{Kind: KindProved, Pattern: p} }

// WithKind re-tags p with the given kind — used by Instantiate (opcode 26),
// which preserves whichever tag its operand term already had.
func WithKind(k TermKind, p *Pattern) Term { return Term{Kind: k, Pattern: p} }

// ExpectPattern returns t.Pattern if t is a raw Pattern, or a stack
// discipline error otherwise (spec.md §7: "expecting Pattern but finding
// Proved, or vice versa").
func (t Term) ExpectPattern(context string) (*Pattern, error) {
	if t.Kind != KindPattern {
		return nil, NewStackDisciplineError(context, "expected Pattern, found Proved")
	}
	return t.Pattern, nil
}

// ExpectProved returns t.Pattern if t is a Proved term, or a stack
// discipline error otherwise.
func (t Term) ExpectProved(context string) (*Pattern, error) {
	if t.Kind != KindProved {
		return nil, NewStackDisciplineError(context, "expected Proved, found Pattern")
	}
	return t.Pattern, nil
}

func (t Term) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Pattern)
}
