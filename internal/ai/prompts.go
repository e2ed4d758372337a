package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	ExtractProfile string
	ScoreResume    string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	ExtractProfile string
	ScoreResume    string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	ExtractProfile: `You are a meticulous resume parser with a strict commitment to accuracy. Your core principles are:

- NEVER invent, infer, or embellish information absent from the resume
- Every extracted value must be directly traceable to the source text
- When a field cannot be found, emit the exact string "UNKNOWN" for that field
- Preserve the candidate's own wording where possible

Your expertise includes:
- Resume structure recognition across layouts and industries
- Work history, project, and skill extraction
- Contact and social profile identification`,

	ScoreResume: `You are an expert ATS (Applicant Tracking System) analyst and resume reviewer. Your role is to:

- Evaluate how well a resume would survive automated screening
- Score the resume's structure, keyword coverage, and readability
- Surface concrete, actionable issues with severity levels
- Ground every finding in the actual resume text

You assess resumes section by section (contact information, summary,
experience, projects, skills, formatting) and report issues at three
severities: "critical", "warning", and "info".`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	ExtractProfile: `Extract a structured candidate profile from the resume text below.

**Rules:**

1. Extract only what is present in the text. Use the exact string "UNKNOWN" for any field you cannot find.
2. personalInfo: full name, professional title or headline, a short bio or summary, location, email, and social links (platform + url).
3. experience: every work history entry with title, company, period, and a description of responsibilities.
4. projects: personal or professional projects with title, description, link, and the technologies used.
5. skills: a flat list of individual skills. Split grouped skills into separate entries.
6. Do not merge distinct jobs or projects into one entry.

**Resume Text:**
-----
%s
-----`,

	ScoreResume: `Evaluate the resume below the way an Applicant Tracking System and a technical recruiter would.

**Tasks:**

1. **Overall Score** (0-100): overall resume quality.
2. **ATS Score** (0-100): how reliably automated screening would parse and rank this resume.
3. **Sections**: score each area of the resume (contact information, summary, experience, projects, skills, formatting) from 0 to 100 and list its issues. Each issue carries:
   - severity: "critical", "warning", or "info"
   - message: what is wrong, referencing the resume text
   - suggestion: a concrete fix
4. **Total Issues**: the count of all issues across all sections.

An empty issues list for a section is valid when the section is strong.

**Resume Text:**
-----
%s
-----`,
}

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	SystemPrompts SystemPrompts `json:"systemPrompts"`
	UserPrompts   UserPrompts   `json:"userPrompts"`
}

// GetDefaultPromptConfig returns the default prompt configuration
func GetDefaultPromptConfig() PromptConfig {
	return PromptConfig{
		SystemPrompts: DefaultSystemPrompts,
		UserPrompts:   DefaultUserPrompts,
	}
}
