package truth

import "testing"

func TestOrPairs(t *testing.T) {
	cases := []struct {
		a, b Value
		want Value
	}{
		{True, True, True},
		{True, False, True},
		{True, Unknown, True},
		{False, True, True},
		{False, False, False},
		{False, Unknown, Unknown},
		{Unknown, True, True},
		{Unknown, False, Unknown},
		{Unknown, Unknown, Unknown},
	}

	for _, tc := range cases {
		if got := Or(tc.a, tc.b); got != tc.want {
			t.Errorf("Or(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestAndPairs(t *testing.T) {
	cases := []struct {
		a, b Value
		want Value
	}{
		{True, True, True},
		{True, False, False},
		{True, Unknown, Unknown},
		{False, True, False},
		{False, False, False},
		{False, Unknown, False},
		{Unknown, True, Unknown},
		{Unknown, False, False},
		{Unknown, Unknown, Unknown},
	}

	for _, tc := range cases {
		if got := And(tc.a, tc.b); got != tc.want {
			t.Errorf("And(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestOrShortCircuitsOnTrue(t *testing.T) {
	// One True operand decides the disjunction no matter how many
	// operands are still Unknown.
	if got := Or(Unknown, Unknown, True, Unknown); got != True {
		t.Errorf("Or with a True operand = %v, want True", got)
	}
}

func TestAndShortCircuitsOnFalse(t *testing.T) {
	if got := And(Unknown, True, False, Unknown); got != False {
		t.Errorf("And with a False operand = %v, want False", got)
	}
}

func TestOrEmpty(t *testing.T) {
	if got := Or(); got != False {
		t.Errorf("Or() = %v, want False (identity of disjunction)", got)
	}
}

func TestAndEmpty(t *testing.T) {
	if got := And(); got != True {
		t.Errorf("And() = %v, want True (identity of conjunction)", got)
	}
}

func TestSingleOperand(t *testing.T) {
	for _, v := range []Value{True, False, Unknown} {
		if got := Or(v); got != v {
			t.Errorf("Or(%v) = %v, want %v", v, got, v)
		}
		if got := And(v); got != v {
			t.Errorf("And(%v) = %v, want %v", v, got, v)
		}
	}
}

func TestZeroValueIsUnknown(t *testing.T) {
	var v Value
	if v != Unknown {
		t.Errorf("zero Value = %v, want Unknown", v)
	}
	if v.Known() {
		t.Error("zero Value should not be Known")
	}
}

func TestKnown(t *testing.T) {
	if !True.Known() {
		t.Error("True should be Known")
	}
	if !False.Known() {
		t.Error("False should be Known")
	}
	if Unknown.Known() {
		t.Error("Unknown should not be Known")
	}
}

func TestFromBool(t *testing.T) {
	if FromBool(true) != True {
		t.Error("FromBool(true) should be True")
	}
	if FromBool(false) != False {
		t.Error("FromBool(false) should be False")
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{True, "true"},
		{False, "false"},
		{Unknown, "unknown"},
		{Value(42), "unknown"}, // out-of-range values read as undecided
	}

	for _, tc := range cases {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", int8(tc.v), got, tc.want)
		}
	}
}
