package normalize

import (
	"encoding/json"
	"testing"

	"foliogen/internal/types"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Software Engineer", "Software Engineer"},
		{"sentinel alone", "UNKNOWN", ""},
		{"sentinel embedded", "City: UNKNOWN", ""},
		{"bullet prefix", "- Built the billing service", "Built the billing service"},
		{"numbered prefix", "1. Led a team of four", "Led a team of four"},
		{"stacked markers", "- - Shipped v2", "Shipped v2"},
		{"unicode bullet", "• Maintained CI", "Maintained CI"},
		{"markdown stripped", "**Senior** `Go` _Engineer_", "Senior Go Engineer"},
		{"newlines joined", "Built APIs\nMentored juniors", "Built APIs. Mentored juniors"},
		{"newline after period", "Built APIs.\nMentored juniors", "Built APIs. Mentored juniors"},
		{"blank lines dropped", "First\n\n\nSecond", "First. Second"},
		{"bulleted lines", "- First\n- Second", "First. Second"},
		{"whitespace collapsed", "  too   many    spaces  ", "too many spaces"},
		{"crlf", "one\r\ntwo", "one. two"},
		{"decimal survives", "10.5 years of experience", "10.5 years of experience"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"- bullet\n- list\n- items",
		"**bold** and `code`",
		"1. one\n2. two",
		"ends with period.\nnext line",
		"UNKNOWN location",
		"   spaced   out   ",
	}

	for _, input := range inputs {
		once := CleanText(input)
		twice := CleanText(once)
		if once != twice {
			t.Errorf("CleanText not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func rawList(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestProfileDefaults(t *testing.T) {
	tests := []struct {
		name      string
		raw       types.RawProfile
		wantName  string
		wantTitle string
	}{
		{"both empty", types.RawProfile{}, "Candidate", "Professional"},
		{
			"sentinel values",
			types.RawProfile{PersonalInfo: types.RawPersonalInfo{FullName: "UNKNOWN", Title: "UNKNOWN"}},
			"Candidate", "Professional",
		},
		{
			"real values kept",
			types.RawProfile{PersonalInfo: types.RawPersonalInfo{FullName: "Jane Doe", Title: "Backend Engineer"}},
			"Jane Doe", "Backend Engineer",
		},
		{
			"whitespace only",
			types.RawProfile{PersonalInfo: types.RawPersonalInfo{FullName: "   ", Title: "\n"}},
			"Candidate", "Professional",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := Profile(tt.raw)
			if profile.PersonalInfo.FullName != tt.wantName {
				t.Errorf("fullName = %q, want %q", profile.PersonalInfo.FullName, tt.wantName)
			}
			if profile.PersonalInfo.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", profile.PersonalInfo.Title, tt.wantTitle)
			}
		})
	}
}

func TestProfileListCoercion(t *testing.T) {
	// Non-array shapes must coerce to empty lists, never error
	shapes := []json.RawMessage{
		nil,
		json.RawMessage(`null`),
		json.RawMessage(`"a string"`),
		json.RawMessage(`{"an":"object"}`),
		json.RawMessage(`42`),
		json.RawMessage(`not even json`),
	}

	for _, shape := range shapes {
		raw := types.RawProfile{Experience: shape, Projects: shape, Skills: shape}
		profile := Profile(raw)
		if profile.Experience == nil || len(profile.Experience) != 0 {
			t.Errorf("experience for %q: want empty non-nil slice, got %#v", shape, profile.Experience)
		}
		if profile.Projects == nil || len(profile.Projects) != 0 {
			t.Errorf("projects for %q: want empty non-nil slice, got %#v", shape, profile.Projects)
		}
		if profile.Skills == nil || len(profile.Skills) != 0 {
			t.Errorf("skills for %q: want empty non-nil slice, got %#v", shape, profile.Skills)
		}
	}
}

func TestProfileListsCleaned(t *testing.T) {
	raw := types.RawProfile{
		Experience: rawList(t, []types.Experience{
			{Title: "- Senior Engineer", Company: "**Acme**", Period: "2020 - Present", Description: "Did X\nDid Y"},
		}),
		Skills: rawList(t, []string{"Go", "UNKNOWN", "  ", "Postgres"}),
	}

	profile := Profile(raw)

	if len(profile.Experience) != 1 {
		t.Fatalf("expected 1 experience entry, got %d", len(profile.Experience))
	}
	exp := profile.Experience[0]
	if exp.Title != "Senior Engineer" {
		t.Errorf("title = %q", exp.Title)
	}
	if exp.Company != "Acme" {
		t.Errorf("company = %q", exp.Company)
	}
	if exp.Description != "Did X. Did Y" {
		t.Errorf("description = %q", exp.Description)
	}

	want := []string{"Go", "Postgres"}
	if len(profile.Skills) != len(want) {
		t.Fatalf("skills = %v, want %v", profile.Skills, want)
	}
	for i := range want {
		if profile.Skills[i] != want[i] {
			t.Errorf("skills[%d] = %q, want %q", i, profile.Skills[i], want[i])
		}
	}
}

func TestProfileSocialLinks(t *testing.T) {
	raw := types.RawProfile{
		PersonalInfo: types.RawPersonalInfo{
			FullName: "Jane",
			SocialLinks: rawList(t, []types.SocialLink{
				{Platform: "github", URL: "https://github.com/jane"},
				{Platform: "linkedin", URL: ""},
				{Platform: "UNKNOWN", URL: "https://example.com"},
				{Platform: "site", URL: "UNKNOWN"},
			}),
		},
	}

	links := Profile(raw).PersonalInfo.SocialLinks
	if len(links) != 1 {
		t.Fatalf("expected 1 surviving link, got %d: %#v", len(links), links)
	}
	if links[0].Platform != "github" || links[0].URL != "https://github.com/jane" {
		t.Errorf("unexpected link %#v", links[0])
	}
}
