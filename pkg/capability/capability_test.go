package capability

import "testing"

type debuggedValue struct{ n int }

func (d debuggedValue) Debug() string { return "debugged" }

func TestDebugString(t *testing.T) {
	if got := DebugString(debuggedValue{n: 1}); got != "debugged" {
		t.Errorf("DebugString() = %q, want %q", got, "debugged")
	}

	type plain struct{ N int }
	if got := DebugString(plain{N: 7}); got != "{N:7}" {
		t.Errorf("DebugString() = %q, want %q", got, "{N:7}")
	}
}
