package types

import "testing"

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		to     Status
		expect bool
	}{
		{"draft to published", StatusDraft, StatusPublished, true},
		{"draft to deleted", StatusDraft, StatusDeleted, true},
		{"published to deleted", StatusPublished, StatusDeleted, true},
		{"published to draft", StatusPublished, StatusDraft, false},
		{"published to published", StatusPublished, StatusPublished, false},
		{"deleted to published", StatusDeleted, StatusPublished, false},
		{"deleted to draft", StatusDeleted, StatusDraft, false},
		{"deleted to deleted", StatusDeleted, StatusDeleted, false},
		{"draft to draft", StatusDraft, StatusDraft, false},
		{"unknown source", Status("archived"), StatusPublished, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.expect {
				t.Errorf("CanTransition(%q -> %q) = %v, want %v", tt.from, tt.to, got, tt.expect)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusPublished, StatusDeleted} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Status("archived").Valid() {
		t.Error("expected unknown status to be invalid")
	}
	if Status("").Valid() {
		t.Error("expected empty status to be invalid")
	}
}
