package ai

import (
	"testing"

	"foliogen/internal/errors"
	"foliogen/internal/types"
)

func TestDecodeModelOutput(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantName string
	}{
		{
			"clean json",
			`{"personalInfo":{"fullName":"Jane Doe"}}`,
			"Jane Doe",
		},
		{
			"fenced with language tag",
			"```json\n{\"personalInfo\":{\"fullName\":\"Jane Doe\"}}\n```",
			"Jane Doe",
		},
		{
			"fenced without language tag",
			"```\n{\"personalInfo\":{\"fullName\":\"Jane Doe\"}}\n```",
			"Jane Doe",
		},
		{
			"prose around json",
			"Here is the extracted profile:\n{\"personalInfo\":{\"fullName\":\"Jane Doe\"}}\nLet me know if you need anything else.",
			"Jane Doe",
		},
		{
			"leading whitespace",
			"\n\n  {\"personalInfo\":{\"fullName\":\"Jane Doe\"}}",
			"Jane Doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw types.RawProfile
			if err := DecodeModelOutput(tt.raw, &raw); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if raw.PersonalInfo.FullName != tt.wantName {
				t.Errorf("fullName = %q, want %q", raw.PersonalInfo.FullName, tt.wantName)
			}
		})
	}
}

func TestDecodeModelOutputUnparseable(t *testing.T) {
	inputs := []string{
		"",
		"I could not process this resume.",
		"{broken json",
		"``` not json either ```",
	}

	for _, input := range inputs {
		var raw types.RawProfile
		err := DecodeModelOutput(input, &raw)
		if err == nil {
			t.Fatalf("expected error for %q", input)
		}
		appErr, ok := err.(*errors.AppError)
		if !ok {
			t.Fatalf("expected AppError, got %T", err)
		}
		if appErr.Code != errors.ErrCodeAIOutputUnparseable {
			t.Errorf("code = %s, want AI_OUTPUT_UNPARSEABLE", appErr.Code)
		}
	}
}

func TestDecodeModelOutputAttachesRawOutput(t *testing.T) {
	var raw types.RawProfile
	err := DecodeModelOutput("definitely not json", &raw)
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Context["raw_output"] != "definitely not json" {
		t.Errorf("raw output not attached: %#v", appErr.Context)
	}
}

func TestDecodeScorecard(t *testing.T) {
	raw := `{"overallScore":72,"atsScore":65,"totalIssues":2,"sections":[` +
		`{"name":"experience","score":80,"issues":[{"severity":"warning","message":"No metrics","suggestion":"Quantify impact"}]},` +
		`{"name":"skills","score":60,"issues":[{"severity":"info","message":"Long list","suggestion":"Group related skills"}]}]}`

	sc, err := decodeScorecard(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.OverallScore != 72 || sc.ATSScore != 65 || sc.TotalIssues != 2 {
		t.Errorf("unexpected scores: %+v", sc)
	}
	if len(sc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sc.Sections))
	}
	if sc.Sections[0].Issues[0].Severity != "warning" {
		t.Errorf("issue severity = %q", sc.Sections[0].Issues[0].Severity)
	}
}

func TestDecodeScorecardSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"sections is a string", `{"overallScore":50,"sections":"not a list"}`},
		{"sections is an object", `{"overallScore":50,"sections":{"name":"x"}}`},
		{"sections missing", `{"overallScore":50}`},
		{"sections null", `{"overallScore":50,"sections":null}`},
		{"sections entries wrong shape", `{"overallScore":50,"sections":[{"name":"x","score":"high","issues":[]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeScorecard(tt.raw)
			if err == nil {
				t.Fatal("expected schema error")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeAIOutputSchema {
				t.Errorf("code = %s, want AI_OUTPUT_SCHEMA", appErr.Code)
			}
		})
	}
}

func TestDecodeScorecardUnparseableIsDistinct(t *testing.T) {
	_, err := decodeScorecard("the resume looks fine to me")
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeAIOutputUnparseable {
		t.Errorf("code = %s, want AI_OUTPUT_UNPARSEABLE", appErr.Code)
	}
}
