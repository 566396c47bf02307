package domain

import "testing"

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{
		"low":      PriorityLow,
		"MEDIUM":   PriorityMedium,
		" high ":   PriorityHigh,
		"Critical": PriorityCritical,
		"":         PriorityAny,
	}
	for raw, want := range cases {
		got, err := ParsePriority(raw)
		if err != nil {
			t.Fatalf("ParsePriority(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParsePriority(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatal("expected error for unknown priority")
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	for i := 1; i < len(Priorities); i++ {
		if Priorities[i-1].Rank() >= Priorities[i].Rank() {
			t.Fatalf("expected %s to rank below %s", Priorities[i-1], Priorities[i])
		}
	}
	if Priority("bogus").Rank() != 0 {
		t.Fatal("unknown priority should rank 0")
	}
}

func TestPriorityNextFilterWrapsToAny(t *testing.T) {
	if got := PriorityCritical.NextFilter(); got != PriorityAny {
		t.Fatalf("expected wrap to any, got %q", got)
	}
	if got := PriorityAny.NextFilter(); got != PriorityLow {
		t.Fatalf("expected low after any, got %q", got)
	}
	if PriorityHigh.Label() != "High" {
		t.Fatalf("unexpected label %q", PriorityHigh.Label())
	}
}
