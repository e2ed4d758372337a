package normalize

import (
	"regexp"
	"strings"
	"testing"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+-[a-z0-9]{5}$`)

func TestSlugShape(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		title    string
		wantBase string
	}{
		{"name and title", "Jane Doe", "Backend Engineer", "jane-doe-backend-engineer"},
		{"name only", "Jane Doe", "", "jane-doe"},
		{"title only", "", "Backend Engineer", "backend-engineer"},
		{"both empty", "", "", "portfolio"},
		{"punctuation stripped", "José O'Brien!", "C++ Dev", "jos-obrien-c-dev"},
		{"underscores become hyphens", "jane_doe", "dev_ops", "jane-doe-dev-ops"},
		{"symbols only", "@#$%", "!!!", "portfolio"},
		{"uppercase lowered", "JANE DOE", "CTO", "jane-doe-cto"},
		{"separator runs collapse", "Jane   -  Doe", "", "jane-doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug := Slug(tt.fullName, tt.title)
			if !slugPattern.MatchString(slug) {
				t.Fatalf("slug %q does not match required pattern", slug)
			}
			base := slug[:strings.LastIndex(slug, "-")]
			if base != tt.wantBase {
				t.Errorf("base = %q, want %q (full slug %q)", base, tt.wantBase, slug)
			}
		})
	}
}

func TestSlugSuffixVaries(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		seen[Slug("Jane Doe", "Engineer")] = true
	}
	// 50 identical slugs would mean the suffix is not random at all
	if len(seen) < 2 {
		t.Errorf("expected varying suffixes, got %d distinct slugs", len(seen))
	}
}
