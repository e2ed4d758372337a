package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"foliogen/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "CandidateProfile", &ProfileTextFormatter{})
	registry.RegisterFormatter("markdown", "CandidateProfile", &ProfileMarkdownFormatter{})
	registry.RegisterFormatter("text", "Scorecard", &ScorecardTextFormatter{})
	registry.RegisterFormatter("markdown", "Scorecard", &ScorecardMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.CandidateProfile:
		return "CandidateProfile"
	case types.Scorecard:
		return "Scorecard"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ProfileTextFormatter handles text formatting for candidate profiles
type ProfileTextFormatter struct{}

func (ptf *ProfileTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CandidateProfile)
	if !ok {
		return "", fmt.Errorf("expected CandidateProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CANDIDATE PROFILE ===\n\n")
	output.WriteString(fmt.Sprintf("Name:     %s\n", result.PersonalInfo.FullName))
	output.WriteString(fmt.Sprintf("Title:    %s\n", result.PersonalInfo.Title))
	if result.PersonalInfo.Location != "" {
		output.WriteString(fmt.Sprintf("Location: %s\n", result.PersonalInfo.Location))
	}
	if result.PersonalInfo.Email != "" {
		output.WriteString(fmt.Sprintf("Email:    %s\n", result.PersonalInfo.Email))
	}
	if result.PersonalInfo.Bio != "" {
		output.WriteString("\n")
		output.WriteString(result.PersonalInfo.Bio)
		output.WriteString("\n")
	}

	if len(result.PersonalInfo.SocialLinks) > 0 {
		output.WriteString("\nLinks:\n")
		for _, link := range result.PersonalInfo.SocialLinks {
			output.WriteString(fmt.Sprintf("- %s: %s\n", link.Platform, link.URL))
		}
	}

	if len(result.Experience) > 0 {
		output.WriteString("\n=== EXPERIENCE ===\n\n")
		for _, exp := range result.Experience {
			output.WriteString(fmt.Sprintf("%s at %s", exp.Title, exp.Company))
			if exp.Period != "" {
				output.WriteString(fmt.Sprintf(" (%s)", exp.Period))
			}
			output.WriteString("\n")
			if exp.Description != "" {
				output.WriteString(exp.Description)
				output.WriteString("\n")
			}
			output.WriteString("\n")
		}
	}

	if len(result.Projects) > 0 {
		output.WriteString("=== PROJECTS ===\n\n")
		for _, project := range result.Projects {
			output.WriteString(project.Title)
			output.WriteString("\n")
			if project.Description != "" {
				output.WriteString(project.Description)
				output.WriteString("\n")
			}
			if project.Link != "" {
				output.WriteString(fmt.Sprintf("Link: %s\n", project.Link))
			}
			if len(project.TechStack) > 0 {
				output.WriteString(fmt.Sprintf("Tech: %s\n", strings.Join(project.TechStack, ", ")))
			}
			output.WriteString("\n")
		}
	}

	if len(result.Skills) > 0 {
		output.WriteString("=== SKILLS ===\n")
		for _, skill := range result.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}

	return output.String(), nil
}

func (ptf *ProfileTextFormatter) SupportedType() string {
	return "CandidateProfile"
}

// ProfileMarkdownFormatter handles markdown formatting for candidate profiles
type ProfileMarkdownFormatter struct{}

func (pmf *ProfileMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CandidateProfile)
	if !ok {
		return "", fmt.Errorf("expected CandidateProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# %s\n\n", result.PersonalInfo.FullName))
	output.WriteString(fmt.Sprintf("**%s**", result.PersonalInfo.Title))
	if result.PersonalInfo.Location != "" {
		output.WriteString(fmt.Sprintf(" · %s", result.PersonalInfo.Location))
	}
	if result.PersonalInfo.Email != "" {
		output.WriteString(fmt.Sprintf(" · %s", result.PersonalInfo.Email))
	}
	output.WriteString("\n\n")

	if result.PersonalInfo.Bio != "" {
		output.WriteString(result.PersonalInfo.Bio)
		output.WriteString("\n\n")
	}

	if len(result.PersonalInfo.SocialLinks) > 0 {
		for _, link := range result.PersonalInfo.SocialLinks {
			output.WriteString(fmt.Sprintf("- [%s](%s)\n", link.Platform, link.URL))
		}
		output.WriteString("\n")
	}

	if len(result.Experience) > 0 {
		output.WriteString("## Experience\n\n")
		for _, exp := range result.Experience {
			output.WriteString(fmt.Sprintf("### %s, %s", exp.Title, exp.Company))
			if exp.Period != "" {
				output.WriteString(fmt.Sprintf(" (%s)", exp.Period))
			}
			output.WriteString("\n\n")
			if exp.Description != "" {
				output.WriteString(exp.Description)
				output.WriteString("\n\n")
			}
		}
	}

	if len(result.Projects) > 0 {
		output.WriteString("## Projects\n\n")
		for _, project := range result.Projects {
			if project.Link != "" {
				output.WriteString(fmt.Sprintf("### [%s](%s)\n\n", project.Title, project.Link))
			} else {
				output.WriteString(fmt.Sprintf("### %s\n\n", project.Title))
			}
			if project.Description != "" {
				output.WriteString(project.Description)
				output.WriteString("\n\n")
			}
			if len(project.TechStack) > 0 {
				output.WriteString(fmt.Sprintf("**Tech:** %s\n\n", strings.Join(project.TechStack, ", ")))
			}
		}
	}

	if len(result.Skills) > 0 {
		output.WriteString("## Skills\n\n")
		for _, skill := range result.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}

	return output.String(), nil
}

func (pmf *ProfileMarkdownFormatter) SupportedType() string {
	return "CandidateProfile"
}

// ScorecardTextFormatter handles text formatting for resume scorecards
type ScorecardTextFormatter struct{}

func (stf *ScorecardTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Scorecard)
	if !ok {
		return "", fmt.Errorf("expected Scorecard, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME SCORECARD ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("ATS Score:     %d/100\n", result.ATSScore))
	output.WriteString(fmt.Sprintf("Total Issues:  %d\n\n", result.TotalIssues))

	for _, section := range result.Sections {
		output.WriteString(fmt.Sprintf("=== %s ===\n", strings.ToUpper(section.Name)))
		output.WriteString(fmt.Sprintf("Score: %d/100\n\n", section.Score))
		if len(section.Issues) > 0 {
			for i, issue := range section.Issues {
				output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, issue.Severity, issue.Message))
				if issue.Suggestion != "" {
					output.WriteString(fmt.Sprintf("   Suggestion: %s\n", issue.Suggestion))
				}
			}
			output.WriteString("\n")
		} else {
			output.WriteString("No issues found.\n\n")
		}
	}

	return output.String(), nil
}

func (stf *ScorecardTextFormatter) SupportedType() string {
	return "Scorecard"
}

// ScorecardMarkdownFormatter handles markdown formatting for resume scorecards
type ScorecardMarkdownFormatter struct{}

func (smf *ScorecardMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Scorecard)
	if !ok {
		return "", fmt.Errorf("expected Scorecard, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Scorecard\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("**ATS Score:** %d/100\n\n", result.ATSScore))
	output.WriteString(fmt.Sprintf("**Total Issues:** %d\n\n", result.TotalIssues))

	for _, section := range result.Sections {
		output.WriteString(fmt.Sprintf("## %s\n\n", section.Name))
		output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", section.Score))
		if len(section.Issues) > 0 {
			for _, issue := range section.Issues {
				output.WriteString(fmt.Sprintf("- **%s:** %s", issue.Severity, issue.Message))
				if issue.Suggestion != "" {
					output.WriteString(fmt.Sprintf(" _(%s)_", issue.Suggestion))
				}
				output.WriteString("\n")
			}
			output.WriteString("\n")
		} else {
			output.WriteString("No issues found.\n\n")
		}
	}

	return output.String(), nil
}

func (smf *ScorecardMarkdownFormatter) SupportedType() string {
	return "Scorecard"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
