// Package truth implements Kleene's strong three-valued logic.
//
// There are three possible values: True, False and Unknown. Unknown is the
// zero value, so a freshly built node starts out undecided. The connectives
// treat Unknown as "not decided yet" rather than as a fourth boolean:
//
//	Or(True, Unknown)  = True
//	Or(False, Unknown) = Unknown
//	And(True, Unknown)  = Unknown
//	And(False, Unknown) = False
package truth

// Value is a tri-state truth value.
type Value int8

const (
	// Unknown means the fact has not been decided either way.
	Unknown Value = iota
	// True means the fact holds.
	True
	// False means the fact does not hold.
	False
)

// FromBool converts a plain boolean assertion into a Value.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Known reports whether the value has been decided either way.
func (v Value) Known() bool {
	return v != Unknown
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Or is the three-valued disjunction over its operands: True if any operand
// is True, False if all operands are False, Unknown otherwise. Or() of no
// operands is False, the identity of disjunction.
func Or(vs ...Value) Value {
	unknown := false
	for _, v := range vs {
		if v == True {
			return True
		}
		if v == Unknown {
			unknown = true
		}
	}
	if unknown {
		return Unknown
	}
	return False
}

// And is the three-valued conjunction over its operands: False if any operand
// is False, True if all operands are True, Unknown otherwise. And() of no
// operands is True, the identity of conjunction.
func And(vs ...Value) Value {
	unknown := false
	for _, v := range vs {
		if v == False {
			return False
		}
		if v == Unknown {
			unknown = true
		}
	}
	if unknown {
		return Unknown
	}
	return True
}
