package machine

import (
	"fmt"

	"github.com/mlproof/mlcheck/pkg/mlogic"
)

// Phase distinguishes how Publish behaves (spec.md §3.4/§4.4).
type Phase uint8

const (
	PhaseGamma Phase = iota
	PhaseClaim
	PhaseProof
)

func (p Phase) String() string {
	switch p {
	case PhaseGamma:
		return "Gamma"
	case PhaseClaim:
		return "Claim"
	case PhaseProof:
		return "Proof"
	default:
		return "UnknownPhase"
	}
}

// Machine is the stack machine's mutable state: a transient stack, a
// named-register memory retained across phases, and a claim queue
// populated in Claim-phase and drained in Proof-phase (spec.md §3.3-§3.4).
type Machine struct {
	Stack      []mlogic.Term
	Memory     []mlogic.Term
	Claims     []*mlogic.Pattern
	Phase      Phase
	CycleCount uint64 // instructions executed across every Run call
}

// NewMachine returns a machine with empty stack, memory, and claim queue.
func NewMachine() *Machine {
	return &Machine{}
}

// ClearStack empties the stack at a phase boundary; memory and the claim
// queue are untouched (spec.md §3.4).
func (m *Machine) ClearStack() { m.Stack = nil }

func (m *Machine) push(t mlogic.Term) { m.Stack = append(m.Stack, t) }

func (m *Machine) pop(context string) (mlogic.Term, error) {
	if len(m.Stack) == 0 {
		return mlogic.Term{}, mlogic.NewStackDisciplineError(context, "pop from empty stack")
	}
	top := m.Stack[len(m.Stack)-1]
	m.Stack = m.Stack[:len(m.Stack)-1]
	return top, nil
}

func (m *Machine) popPattern(context string) (*mlogic.Pattern, error) {
	t, err := m.pop(context)
	if err != nil {
		return nil, err
	}
	return t.ExpectPattern(context)
}

func (m *Machine) popProved(context string) (*mlogic.Pattern, error) {
	t, err := m.pop(context)
	if err != nil {
		return nil, err
	}
	return t.ExpectProved(context)
}

// Run decodes and executes every instruction in code under the given
// phase, starting from an empty stack. It returns an error on the first
// fatal condition (spec.md §7); nothing is retried.
func (m *Machine) Run(phase Phase, code []byte) error {
	m.Phase = phase
	m.ClearStack()
	r := newReader(code)
	for !r.atEnd() {
		opByte, err := r.byte()
		if err != nil {
			return err
		}
		if err := m.step(r, Op(opByte)); err != nil {
			return err
		}
		m.CycleCount++
	}
	switch phase {
	case PhaseGamma, PhaseClaim:
		if len(m.Stack) != 0 {
			return mlogic.NewStackDisciplineError(phase.String(), "stack is not empty at end of phase")
		}
	case PhaseProof:
		if len(m.Claims) != 0 {
			return mlogic.NewStackDisciplineError(phase.String(), "claim queue is not empty at end of proof phase")
		}
	}
	return nil
}

// step decodes one instruction's operands (op's byte has already been
// consumed) and executes its effect on the machine.
func (m *Machine) step(r *reader, op Op) error {
	switch op {
	case OpBot:
		m.push(mlogic.AsPattern(mlogic.Bot))
	case OpEVar:
		id, err := r.id()
		if err != nil {
			return err
		}
		m.push(mlogic.AsPattern(mlogic.NewEVar(id)))
	case OpSVar:
		id, err := r.id()
		if err != nil {
			return err
		}
		m.push(mlogic.AsPattern(mlogic.NewSVar(id)))
	case OpSymbol:
		id, err := r.id()
		if err != nil {
			return err
		}
		m.push(mlogic.AsPattern(mlogic.NewSymbol(id)))
	case OpImplies:
		return m.binaryConstructor("Implies", mlogic.NewImplies)
	case OpApp:
		return m.binaryConstructor("App", mlogic.NewApp)
	case OpMu:
		id, err := r.id()
		if err != nil {
			return err
		}
		q, err := m.popPattern("Mu")
		if err != nil {
			return err
		}
		mu, err := mlogic.MustNewMu(id, q)
		if err != nil {
			return err
		}
		m.push(mlogic.AsPattern(mu))
	case OpExists:
		id, err := r.id()
		if err != nil {
			return err
		}
		q, err := m.popPattern("Exists")
		if err != nil {
			return err
		}
		m.push(mlogic.AsPattern(mlogic.NewExists(id, q)))
	case OpMetaVar:
		return m.metaVar(r, false)
	case OpCleanMetaVar:
		return m.metaVar(r, true)
	case OpESubst:
		return m.substOp(r, "ESubst", mlogic.NewESubst)
	case OpSSubst:
		return m.substOp(r, "SSubst", mlogic.NewSSubst)
	case OpProp1:
		m.push(mlogic.AsProved(mlogic.Prop1()))
	case OpProp2:
		m.push(mlogic.AsProved(mlogic.Prop2()))
	case OpProp3:
		m.push(mlogic.AsProved(mlogic.Prop3()))
	case OpQuantifier:
		x, err := r.id()
		if err != nil {
			return err
		}
		y, err := r.id()
		if err != nil {
			return err
		}
		p, err := mlogic.Quantifier(x, y)
		if err != nil {
			return err
		}
		m.push(mlogic.AsProved(p))
	case OpPreFixpoint:
		x, err := r.id()
		if err != nil {
			return err
		}
		p, err := mlogic.PreFixpoint(x)
		if err != nil {
			return err
		}
		m.push(mlogic.AsProved(p))
	case OpExistence:
		x, err := r.id()
		if err != nil {
			return err
		}
		m.push(mlogic.AsProved(mlogic.Existence(x)))
	case OpSingleton, OpPropagationOr, OpPropagationExists:
		return fmt.Errorf("opcode %s is reserved and not implemented", op)
	case OpModusPonens:
		return m.modusPonens()
	case OpGeneralization:
		x, err := r.id()
		if err != nil {
			return err
		}
		return m.generalization(x)
	case OpFraming:
		h, err := r.id()
		if err != nil {
			return err
		}
		return m.framing(h)
	case OpSubstitution:
		x, err := r.id()
		if err != nil {
			return err
		}
		return m.substitutionRule(x)
	case OpKnasterTarski:
		x, err := r.id()
		if err != nil {
			return err
		}
		return m.knasterTarski(x)
	case OpInstantiate:
		return m.instantiate(r)
	case OpPop:
		_, err := m.pop("Pop")
		return err
	case OpSave:
		return m.save()
	case OpLoad:
		i, err := r.byte()
		if err != nil {
			return err
		}
		return m.load(int(i))
	case OpVersion:
		return m.version(r)
	case OpPublish:
		return m.publish()
	default:
		return &DecodeError{Offset: r.pos - 1, Reason: fmt.Sprintf("unknown opcode %d", op)}
	}
	return nil
}

func (m *Machine) binaryConstructor(name string, build func(l, r *mlogic.Pattern) *mlogic.Pattern) error {
	right, err := m.popPattern(name)
	if err != nil {
		return err
	}
	left, err := m.popPattern(name)
	if err != nil {
		return err
	}
	m.push(mlogic.AsPattern(build(left, right)))
	return nil
}

func (m *Machine) metaVar(r *reader, clean bool) error {
	id, err := r.id()
	if err != nil {
		return err
	}
	c := mlogic.MetaVarConstraints{}
	if !clean {
		lists := make([][]mlogic.ID, 5)
		for i := range lists {
			lists[i], err = r.idList()
			if err != nil {
				return err
			}
		}
		c = mlogic.MetaVarConstraints{
			EFresh:      lists[0],
			SFresh:      lists[1],
			Positive:    lists[2],
			Negative:    lists[3],
			AppCtxHoles: lists[4],
		}
	}
	mv, err := mlogic.NewMetaVar(id, c)
	if err != nil {
		return err
	}
	m.push(mlogic.AsPattern(mv))
	return nil
}

func (m *Machine) substOp(r *reader, name string, build func(p *mlogic.Pattern, x mlogic.ID, q *mlogic.Pattern) (*mlogic.Pattern, error)) error {
	id, err := r.id()
	if err != nil {
		return err
	}
	q, err := m.popPattern(name)
	if err != nil {
		return err
	}
	p, err := m.popPattern(name)
	if err != nil {
		return err
	}
	built, err := build(p, id, q)
	if err != nil {
		return err
	}
	m.push(mlogic.AsPattern(built))
	return nil
}

// modusPonens pops Proved(p2), Proved(p1); requires p1 = Implies(a, b)
// with a = p2; pushes Proved(b).
func (m *Machine) modusPonens() error {
	p2, err := m.popProved("ModusPonens")
	if err != nil {
		return err
	}
	p1, err := m.popProved("ModusPonens")
	if err != nil {
		return err
	}
	if p1.Tag() != mlogic.TagImplies {
		return mlogic.NewRuleShapeError("ModusPonens", "first premise is not an implication")
	}
	if !p1.Left().Equal(p2) {
		return mlogic.NewRuleShapeError("ModusPonens", "antecedent does not match second premise")
	}
	m.push(mlogic.AsProved(p1.Right()))
	return nil
}

// generalization pops Proved(Implies(l, r)); requires e_fresh(r, x);
// pushes Proved(Implies(Exists(x, l), r)).
func (m *Machine) generalization(x mlogic.ID) error {
	p, err := m.popProved("Generalization")
	if err != nil {
		return err
	}
	if p.Tag() != mlogic.TagImplies {
		return mlogic.NewRuleShapeError("Generalization", "premise is not an implication")
	}
	if !p.Right().EFresh(x) {
		return mlogic.NewSideConditionError("Generalization", "binder %d is not fresh in the conclusion", x)
	}
	m.push(mlogic.AsProved(mlogic.NewImplies(mlogic.NewExists(x, p.Left()), p.Right())))
	return nil
}

// framing pops Proved(Implies(l, r)); builds φ = metavar app-ctx-hole in h;
// pushes Proved(Implies(φ[l/h], φ[r/h])).
func (m *Machine) framing(h mlogic.ID) error {
	p, err := m.popProved("Framing")
	if err != nil {
		return err
	}
	if p.Tag() != mlogic.TagImplies {
		return mlogic.NewRuleShapeError("Framing", "premise is not an implication")
	}
	phi, err := mlogic.NewMetaVar(0, mlogic.MetaVarConstraints{AppCtxHoles: []mlogic.ID{h}})
	if err != nil {
		return err
	}
	left, err := mlogic.ApplyESubst(phi, h, p.Left())
	if err != nil {
		return err
	}
	right, err := mlogic.ApplyESubst(phi, h, p.Right())
	if err != nil {
		return err
	}
	m.push(mlogic.AsProved(mlogic.NewImplies(left, right)))
	return nil
}

// substitutionRule pops Proved(p), Pattern(q); pushes Proved(p[q/X]).
func (m *Machine) substitutionRule(x mlogic.ID) error {
	p, err := m.popProved("Substitution")
	if err != nil {
		return err
	}
	q, err := m.popPattern("Substitution")
	if err != nil {
		return err
	}
	result, err := mlogic.ApplySSubst(p, x, q)
	if err != nil {
		return err
	}
	m.push(mlogic.AsProved(result))
	return nil
}

// knasterTarski pops Proved(Implies(l, r)), then Pattern(phi); requires
// phi.Positive(X) and phi[r/X] = l; pushes Proved(Implies(Mu(X, phi), r)).
func (m *Machine) knasterTarski(x mlogic.ID) error {
	implication, err := m.popProved("KnasterTarski")
	if err != nil {
		return err
	}
	phiPattern, err := m.popPattern("KnasterTarski")
	if err != nil {
		return err
	}
	if implication.Tag() != mlogic.TagImplies {
		return mlogic.NewRuleShapeError("KnasterTarski", "premise is not an implication")
	}
	if !phiPattern.Positive(x) {
		return mlogic.NewSideConditionError("KnasterTarski", "body is not positive in %d", x)
	}
	substituted, err := mlogic.ApplySSubst(phiPattern, x, implication.Right())
	if err != nil {
		return err
	}
	if !substituted.Equal(implication.Left()) {
		return mlogic.NewRuleShapeError("KnasterTarski", "substitution does not match the implication antecedent")
	}
	mu, err := mlogic.MustNewMu(x, phiPattern)
	if err != nil {
		return err
	}
	m.push(mlogic.AsProved(mlogic.NewImplies(mu, implication.Right())))
	return nil
}

// instantiate reads operand n followed by n ids v[0..n]; pops one Term t,
// then pops n Pattern plugs u[0..n] (the plug list is popped after the
// head, so v[0] pairs with the first-popped plug). It applies
// Instantiate(t, v, u) and pushes the result with t's original tag.
func (m *Machine) instantiate(r *reader) error {
	n, err := r.byte()
	if err != nil {
		return err
	}
	vars := make([]mlogic.ID, n)
	for i := range vars {
		vars[i], err = r.id()
		if err != nil {
			return err
		}
	}
	head, err := m.pop("Instantiate")
	if err != nil {
		return err
	}
	plugs := make([]*mlogic.Pattern, n)
	for i := 0; i < int(n); i++ {
		plugs[i], err = m.popPattern("Instantiate")
		if err != nil {
			return err
		}
	}
	result, err := mlogic.Instantiate(head.Pattern, vars, plugs)
	if err != nil {
		return err
	}
	m.push(mlogic.WithKind(head.Kind, result))
	return nil
}

func (m *Machine) save() error {
	if len(m.Stack) == 0 {
		return mlogic.NewStackDisciplineError("Save", "stack is empty")
	}
	top := m.Stack[len(m.Stack)-1]
	m.Memory = append(m.Memory, top)
	return nil
}

func (m *Machine) load(i int) error {
	if i < 0 || i >= len(m.Memory) {
		return mlogic.NewStackDisciplineError("Load", "memory index %d out of range (len %d)", i, len(m.Memory))
	}
	m.push(m.Memory[i])
	return nil
}

func (m *Machine) version(r *reader) error {
	major, err := r.byte()
	if err != nil {
		return err
	}
	minor, err := r.byte()
	if err != nil {
		return err
	}
	if int(major) != VersionMajor || int(minor) != VersionMinor {
		return &DecodeError{Offset: r.pos - 2, Reason: fmt.Sprintf("version mismatch: stream declares %d.%d, checker is %d.%d", major, minor, VersionMajor, VersionMinor)}
	}
	return nil
}

// publish is phase-sensitive (spec.md §4.4):
//   - Gamma: pop Pattern(p); append Proved(p) to memory; stack must end empty.
//   - Claim: pop Pattern(p); append p to the claim queue; stack must end empty.
//   - Proof: pop one claim from the queue; pop Proved(t); require p = t.
func (m *Machine) publish() error {
	switch m.Phase {
	case PhaseGamma:
		p, err := m.popPattern("Publish/Gamma")
		if err != nil {
			return err
		}
		m.Memory = append(m.Memory, mlogic.AsProved(p))
		if len(m.Stack) != 0 {
			return mlogic.NewStackDisciplineError("Publish/Gamma", "stack is not empty after publish")
		}
		return nil
	case PhaseClaim:
		p, err := m.popPattern("Publish/Claim")
		if err != nil {
			return err
		}
		m.Claims = append(m.Claims, p)
		if len(m.Stack) != 0 {
			return mlogic.NewStackDisciplineError("Publish/Claim", "stack is not empty after publish")
		}
		return nil
	case PhaseProof:
		if len(m.Claims) == 0 {
			return mlogic.NewStackDisciplineError("Publish/Proof", "claim queue is empty")
		}
		claim := m.Claims[len(m.Claims)-1]
		m.Claims = m.Claims[:len(m.Claims)-1]
		proved, err := m.popProved("Publish/Proof")
		if err != nil {
			return err
		}
		if !claim.Equal(proved) {
			return fmt.Errorf("claim mismatch: proved term does not match the next claim")
		}
		return nil
	default:
		return fmt.Errorf("publish: unknown phase %v", m.Phase)
	}
}
