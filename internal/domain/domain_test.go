package domain

import (
	"testing"
	"time"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		raw  string
		want Language
		ok   bool
	}{
		{"python", LanguagePython, true},
		{"  Java ", LanguageJava, true},
		{"CPP", LanguageCpp, true},
		{"c++", "", false},
		{"", "", false},
		{"rust", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseLanguage(tc.raw)
		if ok != tc.ok {
			t.Errorf("ParseLanguage(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestRuntimeFor(t *testing.T) {
	rt, ok := RuntimeFor(LanguageCpp)
	if !ok {
		t.Fatal("expected cpp runtime")
	}
	if rt.Name != "c++" || rt.FileName != "main.cpp" {
		t.Errorf("unexpected runtime %+v", rt)
	}
	if _, ok := RuntimeFor(Language("perl")); ok {
		t.Error("expected no runtime for perl")
	}
}

func TestMatchElapsed(t *testing.T) {
	start := time.Now()
	m := &Match{StartedAt: &start}

	if got := m.Elapsed(start.Add(90 * time.Second)); got != 90 {
		t.Errorf("Elapsed = %v, want 90", got)
	}
	// Clock skew never yields negative elapsed time
	if got := m.Elapsed(start.Add(-time.Minute)); got != 0 {
		t.Errorf("Elapsed with skew = %v, want 0", got)
	}
	if got := (&Match{}).Elapsed(start); got != 0 {
		t.Errorf("Elapsed without start = %v, want 0", got)
	}
}

func TestMatchAllCompleted(t *testing.T) {
	if (&Match{}).AllCompleted() {
		t.Error("empty match must not count as completed")
	}

	m := &Match{Players: []*PlayerProgress{
		{PlayerID: "a", Completed: true},
		{PlayerID: "b"},
	}}
	if m.AllCompleted() {
		t.Error("pending player must block completion")
	}
	m.Players[1].Completed = true
	if !m.AllCompleted() {
		t.Error("all finished players must complete the match")
	}
}

func TestExecutionStatusTerminal(t *testing.T) {
	if ExecutionStatusQueued.Terminal() || ExecutionStatusRunning.Terminal() {
		t.Error("queued and running are not terminal")
	}
	if !ExecutionStatusCompleted.Terminal() || !ExecutionStatusFailed.Terminal() {
		t.Error("completed and failed are terminal")
	}
}

func TestValidationOutcomeAllPassed(t *testing.T) {
	if (&ValidationOutcome{}).AllPassed() {
		t.Error("empty outcome must not pass")
	}
	if (&ValidationOutcome{PassedCount: 2, TotalCount: 3}).AllPassed() {
		t.Error("partial outcome must not pass")
	}
	if !(&ValidationOutcome{PassedCount: 3, TotalCount: 3}).AllPassed() {
		t.Error("full outcome must pass")
	}
}
