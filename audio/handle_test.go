package audio

import "testing"

func TestStopHandle(t *testing.T) {
	cases := []struct {
		name    string
		h       StopHandle
		valid   bool
		primary bool
		index   int
		str     string
	}{
		{"zero", 0, false, false, -1, "0#0"},
		{"primary", makeHandle(primarySlot, 3), true, true, -1, "primary#3"},
		{"pooled", makeHandle(5, 1), true, false, 4, "4#1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.h.Valid() != tc.valid || tc.h.Primary() != tc.primary {
				t.Fatalf("valid=%v primary=%v", tc.h.Valid(), tc.h.Primary())
			}
			idx, ok := tc.h.PoolIndex()
			if tc.index < 0 && ok {
				t.Fatalf("expected no pool index, got %d", idx)
			}
			if tc.index >= 0 && (!ok || idx != tc.index) {
				t.Fatalf("expected pool index %d, got %d", tc.index, idx)
			}
			if tc.valid && tc.h.String() != tc.str {
				t.Fatalf("expected %q, got %q", tc.str, tc.h.String())
			}
		})
	}
}

func TestHandleGenerationChangesOnReuse(t *testing.T) {
	h := newHarness(t, 0)
	a := h.mustPlay(t, sample("a", 0), true)
	h.m.Stop(a)
	b := h.mustPlay(t, sample("b", 0), true)

	if a.slot() != b.slot() {
		t.Fatalf("expected the same voice to be reused")
	}
	if a == b || b.generation() <= a.generation() {
		t.Fatalf("reuse should issue a newer handle: %v then %v", a, b)
	}
}
