package model

// UI-shaped resume document as edited in a builder session. Entry IDs are
// client-generated, unique within their list and never persisted.

type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Summary  string `json:"summary"`
}

type EducationEntry struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa,omitempty"`
}

type ExperienceEntry struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
	Current     bool   `json:"current"`
}

type SkillEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type CertificateEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssueDate    string `json:"issueDate"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
}

type ResumeDocument struct {
	PersonalInfo PersonalInfo       `json:"personalInfo"`
	Education    []EducationEntry   `json:"education"`
	Experience   []ExperienceEntry  `json:"experience"`
	Skills       []SkillEntry       `json:"skills"`
	Certificates []CertificateEntry `json:"certificates"`
}

// NewResumeDocument returns the empty document a session starts from.
// Lists are allocated so encoders emit [] rather than null.
func NewResumeDocument() *ResumeDocument {
	return &ResumeDocument{
		Education:    []EducationEntry{},
		Experience:   []ExperienceEntry{},
		Skills:       []SkillEntry{},
		Certificates: []CertificateEntry{},
	}
}

// Skill proficiency levels recognized by the renderer.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelExpert       = "Expert"
)

// TemplateChoice selects one of the visual layouts.
type TemplateChoice string

const (
	TemplateModern       TemplateChoice = "modern"
	TemplateProfessional TemplateChoice = "professional"
	TemplateCreative     TemplateChoice = "creative"
)

// ParseTemplateChoice maps a stored template name to a TemplateChoice,
// falling back to modern for unknown or empty input.
func ParseTemplateChoice(s string) TemplateChoice {
	switch TemplateChoice(s) {
	case TemplateProfessional:
		return TemplateProfessional
	case TemplateCreative:
		return TemplateCreative
	default:
		return TemplateModern
	}
}

func (t TemplateChoice) String() string { return string(t) }
