package model

import "encoding/json"

// Storage-shaped profile record as exchanged with the profile store. The
// record is keyed by email; the share UUID is assigned server-side on save.

type EducationRecord struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Year   string `json:"year"`
}

type ExperienceRecord struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
	Current     bool   `json:"current"`
}

// SkillRecord tolerates two wire shapes: a structured {name, level} object
// and a bare name string. Older records stored skills as plain strings, so
// UnmarshalJSON normalizes both into the structured form, defaulting the
// level to Intermediate.
type SkillRecord struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

func (s *SkillRecord) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		s.Name = name
		s.Level = LevelIntermediate
		return nil
	}

	type alias SkillRecord
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	s.Name = a.Name
	s.Level = a.Level
	if s.Level == "" {
		s.Level = LevelIntermediate
	}
	return nil
}

type CertificateRecord struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssueDate    string `json:"issueDate"`
	ExpiryDate   string `json:"expiryDate"`
	CredentialID string `json:"credentialId"`
}

type ProfileRecord struct {
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Education    []EducationRecord   `json:"education"`
	Experience   []ExperienceRecord  `json:"experience"`
	Skills       []SkillRecord       `json:"skills"`
	Certificates []CertificateRecord `json:"certificates"`
	Template     string              `json:"template"`
	UUID         string              `json:"uuid,omitempty"`
}
