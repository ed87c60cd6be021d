// Package machine implements the three-phase stack-machine interpreter: a
// byte-opcode decoder and dispatcher over a stack, a named-register memory,
// and a claim queue (spec.md §4.4-§4.5).
package machine

// Op is a single instruction byte. Unknown opcodes are a decoding error
// (spec.md §7); reserved-but-unimplemented opcodes decode successfully but
// are fatal at dispatch time (SPEC_FULL.md §4.3).
type Op byte

const (
	OpBot     Op = 1
	OpEVar    Op = 2
	OpSVar    Op = 3
	OpSymbol  Op = 4
	OpImplies Op = 5
	OpApp     Op = 6
	OpMu      Op = 7
	OpExists  Op = 8
	OpMetaVar Op = 9
	OpESubst  Op = 10
	OpSSubst  Op = 11

	OpProp1       Op = 12
	OpProp2       Op = 13
	OpProp3       Op = 14
	OpQuantifier  Op = 15
	OpPreFixpoint Op = 18
	OpExistence   Op = 19

	// Reserved, no execution semantics in either attested source
	// (spec.md §9): must decode, must be rejected at dispatch.
	OpPropagationOr     Op = 16
	OpPropagationExists Op = 17
	OpSingleton         Op = 20

	OpModusPonens    Op = 21
	OpGeneralization Op = 22
	OpFraming        Op = 23
	OpSubstitution   Op = 24
	OpKnasterTarski  Op = 25
	OpInstantiate    Op = 26

	OpPop     Op = 27
	OpSave    Op = 28
	OpLoad    Op = 29
	OpVersion Op = 31

	// OpPublish is the current encoding's Publish opcode. The older
	// encoding's byte 30 is not accepted by this checker (SPEC_FULL.md
	// §5): the dispatcher rejects it as an unknown opcode, and a stream
	// whose Version instruction declares anything other than
	// VersionMajor.VersionMinor is rejected when that instruction runs.
	OpPublish Op = 255

	// VersionMajor and VersionMinor are the compile-time constants every
	// Version instruction is checked against (spec.md §6.1).
	VersionMajor = 3
	VersionMinor = 0
)

func (op Op) String() string {
	switch op {
	case OpBot:
		return "Bot"
	case OpEVar:
		return "EVar"
	case OpSVar:
		return "SVar"
	case OpSymbol:
		return "Symbol"
	case OpImplies:
		return "Implies"
	case OpApp:
		return "App"
	case OpMu:
		return "Mu"
	case OpExists:
		return "Exists"
	case OpMetaVar:
		return "MetaVar"
	case OpESubst:
		return "ESubst"
	case OpSSubst:
		return "SSubst"
	case OpProp1:
		return "Prop1"
	case OpProp2:
		return "Prop2"
	case OpProp3:
		return "Prop3"
	case OpQuantifier:
		return "Quantifier"
	case OpPreFixpoint:
		return "PreFixpoint"
	case OpExistence:
		return "Existence"
	case OpPropagationOr:
		return "PropagationOr"
	case OpPropagationExists:
		return "PropagationExists"
	case OpSingleton:
		return "Singleton"
	case OpModusPonens:
		return "ModusPonens"
	case OpGeneralization:
		return "Generalization"
	case OpFraming:
		return "Framing"
	case OpSubstitution:
		return "Substitution"
	case OpKnasterTarski:
		return "KnasterTarski"
	case OpInstantiate:
		return "Instantiate"
	case OpPop:
		return "Pop"
	case OpSave:
		return "Save"
	case OpLoad:
		return "Load"
	case OpVersion:
		return "Version"
	case OpPublish:
		return "Publish"
	default:
		return "Unknown"
	}
}

// OpCleanMetaVar (byte 137) is the all-empty-constraint-lists shorthand
// for MetaVar.
const OpCleanMetaVar Op = 137
