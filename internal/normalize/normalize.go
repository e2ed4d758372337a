// Package normalize turns loosely shaped model output into the canonical
// portfolio profile. Every function here is pure: same input, same output,
// no I/O.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"foliogen/internal/types"
)

// Sentinel is the placeholder the extraction prompt instructs the model to
// emit for fields it cannot find. Any field containing it is treated as empty.
const Sentinel = "UNKNOWN"

const (
	// DefaultFullName fills the name when the model found none
	DefaultFullName = "Candidate"
	// DefaultTitle fills the headline when the model found none
	DefaultTitle = "Professional"
)

var (
	bulletPrefix = regexp.MustCompile(`^(?:[-–—•·◦▪*>]+\s*|\d+[.)]\s+)`)
	markdownRuns = regexp.MustCompile("[*_`]+")
	periodRuns   = regexp.MustCompile(`\.(\s*\.)+`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// stripBullets removes list markers from the start of a line, repeating until
// none remain so that stacked markers cannot survive a single pass
func stripBullets(s string) string {
	for {
		stripped := bulletPrefix.ReplaceAllString(s, "")
		if stripped == s {
			return s
		}
		s = stripped
	}
}

// CleanText sanitizes a single text field from the model. The operation is
// idempotent: CleanText(CleanText(s)) == CleanText(s).
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.Contains(s, Sentinel) {
		return ""
	}

	s = markdownRuns.ReplaceAllString(s, "")

	// Multi-line values become a single sentence-joined line
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(stripBullets(strings.TrimSpace(line)))
		if line != "" {
			parts = append(parts, line)
		}
	}
	s = strings.Join(parts, ". ")

	s = periodRuns.ReplaceAllString(s, ".")
	s = spaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// cleanWithDefault cleans a field and substitutes a default when nothing is left
func cleanWithDefault(s, fallback string) string {
	if cleaned := CleanText(s); cleaned != "" {
		return cleaned
	}
	return fallback
}

// decodeList unmarshals a raw JSON value into a typed slice. Anything that is
// not array-shaped (null, a bare string, an object, malformed JSON) becomes an
// empty slice rather than an error.
func decodeList[T any](raw json.RawMessage) []T {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || !strings.HasPrefix(trimmed, "[") {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return []T{}
	}
	return out
}

// Profile converts the raw extraction result into a clean CandidateProfile.
// Missing or sentinel-valued name and title receive defaults; all list fields
// coerce to empty slices when the model returned something that is not a list.
func Profile(raw types.RawProfile) types.CandidateProfile {
	profile := types.CandidateProfile{
		PersonalInfo: types.PersonalInfo{
			FullName:    cleanWithDefault(raw.PersonalInfo.FullName, DefaultFullName),
			Title:       cleanWithDefault(raw.PersonalInfo.Title, DefaultTitle),
			Bio:         CleanText(raw.PersonalInfo.Bio),
			Location:    CleanText(raw.PersonalInfo.Location),
			Email:       CleanText(raw.PersonalInfo.Email),
			SocialLinks: normalizeSocialLinks(raw.PersonalInfo.SocialLinks),
		},
		Experience: []types.Experience{},
		Projects:   []types.Project{},
		Skills:     []string{},
	}

	for _, exp := range decodeList[types.Experience](raw.Experience) {
		profile.Experience = append(profile.Experience, types.Experience{
			Title:       CleanText(exp.Title),
			Company:     CleanText(exp.Company),
			Period:      CleanText(exp.Period),
			Description: CleanText(exp.Description),
		})
	}

	for _, proj := range decodeList[types.Project](raw.Projects) {
		techStack := []string{}
		for _, tech := range proj.TechStack {
			if cleaned := CleanText(tech); cleaned != "" {
				techStack = append(techStack, cleaned)
			}
		}
		profile.Projects = append(profile.Projects, types.Project{
			Title:       CleanText(proj.Title),
			Description: CleanText(proj.Description),
			Link:        CleanText(proj.Link),
			TechStack:   techStack,
		})
	}

	for _, skill := range decodeList[string](raw.Skills) {
		if cleaned := CleanText(skill); cleaned != "" {
			profile.Skills = append(profile.Skills, cleaned)
		}
	}

	return profile
}

// normalizeSocialLinks keeps only links that carry a usable URL. A link is
// dropped when its URL is missing or when either field contains the sentinel.
func normalizeSocialLinks(raw json.RawMessage) []types.SocialLink {
	links := []types.SocialLink{}
	for _, link := range decodeList[types.SocialLink](raw) {
		if strings.Contains(link.URL, Sentinel) || strings.Contains(link.Platform, Sentinel) {
			continue
		}
		url := strings.TrimSpace(link.URL)
		if url == "" {
			continue
		}
		links = append(links, types.SocialLink{
			Platform: CleanText(link.Platform),
			URL:      url,
		})
	}
	return links
}
