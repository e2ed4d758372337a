package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"foliogen/internal/errors"
	"foliogen/internal/types"
)

// fencedJSON matches a markdown code fence, with or without a language tag,
// capturing the body
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

const rawOutputContextLimit = 2000

// DecodeModelOutput parses model text into out. The response schema forces
// JSON output, but models still occasionally wrap it in markdown fences or
// surrounding prose, so the decode degrades gracefully: direct parse first,
// then the contents of a fenced block, then the substring from the first "{"
// to the last "}". When everything fails the error carries the raw output so
// the failure can be inspected from logs.
func DecodeModelOutput(raw string, out any) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" && json.Unmarshal([]byte(trimmed), out) == nil {
		return nil
	}

	if m := fencedJSON.FindStringSubmatch(trimmed); m != nil {
		if json.Unmarshal([]byte(m[1]), out) == nil {
			return nil
		}
	}

	if start, end := strings.Index(trimmed, "{"), strings.LastIndex(trimmed, "}"); start >= 0 && end > start {
		if json.Unmarshal([]byte(trimmed[start:end+1]), out) == nil {
			return nil
		}
	}

	return errors.NewAIError(errors.ErrCodeAIOutputUnparseable,
		"model output could not be parsed as JSON", nil).
		WithContext("raw_output", truncateForContext(raw))
}

// decodeScorecard parses model text into a Scorecard, distinguishing
// unparseable output from output that parsed but violates the expected shape
func decodeScorecard(raw string) (types.Scorecard, error) {
	var probe struct {
		OverallScore int             `json:"overallScore"`
		ATSScore     int             `json:"atsScore"`
		TotalIssues  int             `json:"totalIssues"`
		Sections     json.RawMessage `json:"sections"`
	}
	if err := DecodeModelOutput(raw, &probe); err != nil {
		return types.Scorecard{}, err
	}

	sections := strings.TrimSpace(string(probe.Sections))
	if !strings.HasPrefix(sections, "[") {
		return types.Scorecard{}, errors.NewAIError(errors.ErrCodeAIOutputSchema,
			"scorecard sections field is not a list", nil).
			WithContext("sections", truncateForContext(sections))
	}

	var parsed []types.ScoreSection
	if err := json.Unmarshal(probe.Sections, &parsed); err != nil {
		return types.Scorecard{}, errors.NewAIError(errors.ErrCodeAIOutputSchema,
			"scorecard sections entries have the wrong shape", err).
			WithContext("sections", truncateForContext(sections))
	}

	return types.Scorecard{
		OverallScore: probe.OverallScore,
		ATSScore:     probe.ATSScore,
		TotalIssues:  probe.TotalIssues,
		Sections:     parsed,
	}, nil
}

func truncateForContext(s string) string {
	if len(s) > rawOutputContextLimit {
		return s[:rawOutputContextLimit]
	}
	return s
}
