// Package mlogic implements the matching-logic term representation and its
// decidable side conditions: pattern construction, element/set-variable
// freshness, polarity, application-context holes, and capture-avoiding
// substitution.
//
// Patterns are immutable once constructed. Structural sharing is expected —
// callers are free to hand the same *Pattern to many parents — and equality
// is always structural (Equal), never reference identity.
package mlogic

import "fmt"

// Tag identifies which variant a Pattern holds.
type Tag uint8

const (
	TagBot Tag = iota
	TagEVar
	TagSVar
	TagSymbol
	TagImplies
	TagApp
	TagExists
	TagMu
	TagMetaVar
	TagESubst
	TagSSubst
)

func (t Tag) String() string {
	switch t {
	case TagBot:
		return "Bot"
	case TagEVar:
		return "EVar"
	case TagSVar:
		return "SVar"
	case TagSymbol:
		return "Symbol"
	case TagImplies:
		return "Implies"
	case TagApp:
		return "App"
	case TagExists:
		return "Exists"
	case TagMu:
		return "Mu"
	case TagMetaVar:
		return "MetaVar"
	case TagESubst:
		return "ESubst"
	case TagSSubst:
		return "SSubst"
	default:
		return fmt.Sprintf("Tag(%d)", t)
	}
}

// ID is the 8-bit identifier space shared by EVars, SVars, symbols, and
// meta-variables. The spaces are disjoint by construction: a given uint8
// value means different things under different tags.
type ID = uint8

// Pattern is a matching-logic formula. All variants are reached through the
// constructors below, which enforce the invariants from spec.md §3.2 at
// construction time; there is no public way to build a Pattern that skips
// them.
type Pattern struct {
	tag Tag

	id ID // EVar, SVar, Symbol, Mu/Exists binder, ESubst/SSubst variable

	left  *Pattern // Implies.l, App.l
	right *Pattern // Implies.r, App.r, ESubst/SSubst plug q

	body *Pattern // Exists.p, Mu.p, ESubst/SSubst.p

	meta *metaVarFields
}

// metaVarFields holds the five ordered constraint sequences of a MetaVar.
// They are stored as sorted, de-duplicated slices so contains is O(log n)
// and structural equality is a plain slice comparison.
type metaVarFields struct {
	eFresh      []ID
	sFresh      []ID
	positive    []ID
	negative    []ID
	appCtxHoles []ID
}

// Bot is the unique falsum pattern. Spec.md §3.2 allows either a primitive
// Bot node or a μX.X desugaring; this implementation picks the primitive
// node uniformly (see SPEC_FULL.md §5).
var Bot = &Pattern{tag: TagBot}

// NewEVar constructs an element variable.
func NewEVar(id ID) *Pattern { return &Pattern{tag: TagEVar, id: id} }

// NewSVar constructs a set variable.
func NewSVar(id ID) *Pattern { return &Pattern{tag: TagSVar, id: id} }

// NewSymbol constructs a constant symbol.
func NewSymbol(id ID) *Pattern { return &Pattern{tag: TagSymbol, id: id} }

// NewImplies constructs l -> r.
func NewImplies(l, r *Pattern) *Pattern {
	return &Pattern{tag: TagImplies, left: l, right: r}
}

// NewApp constructs the application l . r.
func NewApp(l, r *Pattern) *Pattern {
	return &Pattern{tag: TagApp, left: l, right: r}
}

// NewExists constructs ∃v. p, binding the element variable v.
func NewExists(v ID, p *Pattern) *Pattern {
	return &Pattern{tag: TagExists, id: v, body: p}
}

// NewMu constructs μv. p, binding the set variable v. The caller must
// already know p.Positive(v) holds; NewMu does not check it. Use MustNewMu
// (as the opcode dispatcher does) to get a WellFormednessError instead of
// a silent invariant violation.
func NewMu(v ID, p *Pattern) *Pattern {
	return &Pattern{tag: TagMu, id: v, body: p}
}

// MustNewMu constructs μv. p after asserting p.Positive(v).
func MustNewMu(v ID, p *Pattern) (*Pattern, error) {
	if !p.Positive(v) {
		return nil, &WellFormednessError{Reason: fmt.Sprintf("Mu(%d, _): body is not positive in binder %d", v, v)}
	}
	return NewMu(v, p), nil
}

// MetaVarConstraints bundles the five ordered id sequences a MetaVar is
// constrained by.
type MetaVarConstraints struct {
	EFresh      []ID
	SFresh      []ID
	Positive    []ID
	Negative    []ID
	AppCtxHoles []ID
}

// NewMetaVar constructs a constrained meta-variable placeholder. It returns
// an error if the meta-variable would not be well-formed (an id appears in
// both EFresh and AppCtxHoles, per spec.md §3.2).
func NewMetaVar(id ID, c MetaVarConstraints) (*Pattern, error) {
	fields := &metaVarFields{
		eFresh:      sortedCopy(c.EFresh),
		sFresh:      sortedCopy(c.SFresh),
		positive:    sortedCopy(c.Positive),
		negative:    sortedCopy(c.Negative),
		appCtxHoles: sortedCopy(c.AppCtxHoles),
	}
	if overlaps(fields.eFresh, fields.appCtxHoles) {
		return nil, &WellFormednessError{Reason: fmt.Sprintf("MetaVar(%d): e_fresh and app_ctx_holes overlap", id)}
	}
	return &Pattern{tag: TagMetaVar, id: id, meta: fields}, nil
}

// NewCleanMetaVar constructs a MetaVar with all five constraint lists
// empty — the common case, and the target of opcode 137 (CleanMetaVar).
func NewCleanMetaVar(id ID) *Pattern {
	p, _ := NewMetaVar(id, MetaVarConstraints{})
	return p
}

// NewESubst constructs the pending substitution p[q/x]. It is an error to
// build a redundant substitution, or one whose left operand is not a
// MetaVar/ESubst/SSubst (spec.md §3.2 invariant on pending substitutions).
func NewESubst(p *Pattern, x ID, q *Pattern) (*Pattern, error) {
	if IsRedundantESubst(p, x, q) {
		return nil, &WellFormednessError{Reason: fmt.Sprintf("ESubst(_, %d, _): redundant substitution", x)}
	}
	if !isPendingSubstHost(p) {
		return nil, &WellFormednessError{Reason: "ESubst: left operand must be MetaVar, ESubst, or SSubst"}
	}
	return &Pattern{tag: TagESubst, id: x, body: p, right: q}, nil
}

// NewSSubst constructs the pending substitution p[q/X]. Dual of NewESubst.
func NewSSubst(p *Pattern, x ID, q *Pattern) (*Pattern, error) {
	if IsRedundantSSubst(p, x, q) {
		return nil, &WellFormednessError{Reason: fmt.Sprintf("SSubst(_, %d, _): redundant substitution", x)}
	}
	if !isPendingSubstHost(p) {
		return nil, &WellFormednessError{Reason: "SSubst: left operand must be MetaVar, ESubst, or SSubst"}
	}
	return &Pattern{tag: TagSSubst, id: x, body: p, right: q}, nil
}

// isPendingSubstHost reports whether p is a legal left operand of a
// pending ESubst/SSubst: a MetaVar, or another pending substitution.
func isPendingSubstHost(p *Pattern) bool {
	switch p.tag {
	case TagMetaVar, TagESubst, TagSSubst:
		return true
	default:
		return false
	}
}

// Tag returns the pattern's variant tag.
func (p *Pattern) Tag() Tag { return p.tag }

// ID returns the identifier carried by EVar/SVar/Symbol/MetaVar, or the
// binder of Exists/Mu, or the substituted variable of ESubst/SSubst.
// It panics if called on a variant with no id field (Bot, Implies, App).
func (p *Pattern) ID() ID {
	switch p.tag {
	case TagEVar, TagSVar, TagSymbol, TagExists, TagMu, TagMetaVar, TagESubst, TagSSubst:
		return p.id
	default:
		panic(fmt.Sprintf("mlogic: Pattern.ID called on %s", p.tag))
	}
}

// Left returns the left child of Implies/App.
func (p *Pattern) Left() *Pattern { return p.left }

// Right returns the right child of Implies/App, or the plug of ESubst/SSubst.
func (p *Pattern) Right() *Pattern { return p.right }

// Body returns the bound sub-pattern of Exists/Mu, or the host pattern of
// ESubst/SSubst (the "p" in p[q/x]).
func (p *Pattern) Body() *Pattern { return p.body }

// MetaVarConstraints returns the five constraint sequences of a MetaVar.
// It panics if called on any other tag.
func (p *Pattern) MetaVarConstraints() MetaVarConstraints {
	if p.tag != TagMetaVar {
		panic("mlogic: MetaVarConstraints called on non-MetaVar pattern")
	}
	return MetaVarConstraints{
		EFresh:      p.meta.eFresh,
		SFresh:      p.meta.sFresh,
		Positive:    p.meta.positive,
		Negative:    p.meta.negative,
		AppCtxHoles: p.meta.appCtxHoles,
	}
}

// Equal reports whether p and q are structurally equal. This is the only
// notion of pattern equality the checker uses; reference identity is
// never observed (SPEC_FULL.md / spec.md §9).
func (p *Pattern) Equal(q *Pattern) bool {
	if p == q {
		return true
	}
	if p == nil || q == nil || p.tag != q.tag {
		return false
	}
	switch p.tag {
	case TagBot:
		return true
	case TagEVar, TagSVar, TagSymbol:
		return p.id == q.id
	case TagImplies, TagApp:
		return p.left.Equal(q.left) && p.right.Equal(q.right)
	case TagExists, TagMu:
		return p.id == q.id && p.body.Equal(q.body)
	case TagMetaVar:
		return p.id == q.id &&
			idsEqual(p.meta.eFresh, q.meta.eFresh) &&
			idsEqual(p.meta.sFresh, q.meta.sFresh) &&
			idsEqual(p.meta.positive, q.meta.positive) &&
			idsEqual(p.meta.negative, q.meta.negative) &&
			idsEqual(p.meta.appCtxHoles, q.meta.appCtxHoles)
	case TagESubst, TagSSubst:
		return p.id == q.id && p.body.Equal(q.body) && p.right.Equal(q.right)
	default:
		return false
	}
}

// String renders a pattern for diagnostics. It is not a parser-compatible
// serialization; the checker never re-parses patterns from text (spec.md
// §1 Non-goals: no pretty-printer of matching-logic patterns is part of
// the core's contract — this exists purely for error messages and tests).
func (p *Pattern) String() string {
	switch p.tag {
	case TagBot:
		return "Bot"
	case TagEVar:
		return fmt.Sprintf("EVar(%d)", p.id)
	case TagSVar:
		return fmt.Sprintf("SVar(%d)", p.id)
	case TagSymbol:
		return fmt.Sprintf("Symbol(%d)", p.id)
	case TagImplies:
		return fmt.Sprintf("(%s -> %s)", p.left, p.right)
	case TagApp:
		return fmt.Sprintf("(%s . %s)", p.left, p.right)
	case TagExists:
		return fmt.Sprintf("(Exists %d. %s)", p.id, p.body)
	case TagMu:
		return fmt.Sprintf("(Mu %d. %s)", p.id, p.body)
	case TagMetaVar:
		return fmt.Sprintf("MetaVar(%d)", p.id)
	case TagESubst:
		return fmt.Sprintf("%s[%s/e%d]", p.body, p.right, p.id)
	case TagSSubst:
		return fmt.Sprintf("%s[%s/s%d]", p.body, p.right, p.id)
	default:
		return "<invalid pattern>"
	}
}

func sortedCopy(ids []ID) []ID {
	if len(ids) == 0 {
		return nil
	}
	out := append([]ID(nil), ids...)
	// insertion sort: id lists are at most 256 elements and usually tiny
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	// de-duplicate
	n := 0
	for i, v := range out {
		if i == 0 || v != out[i-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}

func contains(sorted []ID, id ID) bool {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case sorted[mid] == id:
			return true
		case sorted[mid] < id:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false
}

func overlaps(a, b []ID) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}

func idsEqual(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
