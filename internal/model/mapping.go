package model

import (
	"strconv"
	"strings"
	"time"
)

// degreeSep joins degree and field into the single degree string the store
// keeps. The split on the way back is best-effort: a field whose name itself
// contains " in " cannot be recovered unambiguously.
const degreeSep = " in "

var yearLayouts = []string{"2006-01-02", "2006-01", "2006"}

func yearOf(date string) string {
	if date == "" {
		return ""
	}
	for _, layout := range yearLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006")
		}
	}
	return ""
}

// ToProfile flattens a UI-shaped document into the storage shape: entry IDs
// are dropped, education collapses to {school, degree, year} with degree and
// field joined, and the education year is derived from the end date.
func ToProfile(doc *ResumeDocument, template TemplateChoice) ProfileRecord {
	rec := ProfileRecord{
		Name:         doc.PersonalInfo.FullName,
		Email:        doc.PersonalInfo.Email,
		Phone:        doc.PersonalInfo.Phone,
		Education:    []EducationRecord{},
		Experience:   []ExperienceRecord{},
		Skills:       []SkillRecord{},
		Certificates: []CertificateRecord{},
		Template:     template.String(),
	}

	for _, edu := range doc.Education {
		degree := edu.Degree
		if edu.Field != "" {
			degree += degreeSep + edu.Field
		}
		rec.Education = append(rec.Education, EducationRecord{
			School: edu.Institution,
			Degree: degree,
			Year:   yearOf(edu.EndDate),
		})
	}

	for _, exp := range doc.Experience {
		rec.Experience = append(rec.Experience, ExperienceRecord{
			Company:     exp.Company,
			Role:        exp.Position,
			StartDate:   exp.StartDate,
			EndDate:     exp.EndDate,
			Description: exp.Description,
			Current:     exp.Current,
		})
	}

	for _, skill := range doc.Skills {
		rec.Skills = append(rec.Skills, SkillRecord{Name: skill.Name, Level: skill.Level})
	}

	for _, cert := range doc.Certificates {
		rec.Certificates = append(rec.Certificates, CertificateRecord{
			Name:         cert.Name,
			Issuer:       cert.Issuer,
			IssueDate:    cert.IssueDate,
			ExpiryDate:   cert.ExpiryDate,
			CredentialID: cert.CredentialID,
		})
	}

	return rec
}

// FromProfile hydrates a UI-shaped document from a stored record. Entry IDs
// are assigned fresh and sequential, a bare education year becomes a
// start-of-June end date, and an absent skill level defaults to
// Intermediate. Missing sections become empty lists.
func FromProfile(rec ProfileRecord) *ResumeDocument {
	doc := NewResumeDocument()
	doc.PersonalInfo = PersonalInfo{
		FullName: rec.Name,
		Email:    rec.Email,
		Phone:    rec.Phone,
	}

	for i, edu := range rec.Education {
		degree, field := splitDegree(edu.Degree)
		endDate := ""
		if edu.Year != "" {
			endDate = edu.Year + "-06"
		}
		doc.Education = append(doc.Education, EducationEntry{
			ID:          strconv.Itoa(i),
			Institution: edu.School,
			Degree:      degree,
			Field:       field,
			EndDate:     endDate,
		})
	}

	for i, exp := range rec.Experience {
		doc.Experience = append(doc.Experience, ExperienceEntry{
			ID:          strconv.Itoa(i),
			Company:     exp.Company,
			Position:    exp.Role,
			StartDate:   exp.StartDate,
			EndDate:     exp.EndDate,
			Description: exp.Description,
			Current:     exp.Current,
		})
	}

	for i, skill := range rec.Skills {
		level := skill.Level
		if level == "" {
			level = LevelIntermediate
		}
		doc.Skills = append(doc.Skills, SkillEntry{
			ID:    strconv.Itoa(i),
			Name:  skill.Name,
			Level: level,
		})
	}

	for i, cert := range rec.Certificates {
		doc.Certificates = append(doc.Certificates, CertificateEntry{
			ID:           strconv.Itoa(i),
			Name:         cert.Name,
			Issuer:       cert.Issuer,
			IssueDate:    cert.IssueDate,
			ExpiryDate:   cert.ExpiryDate,
			CredentialID: cert.CredentialID,
		})
	}

	return doc
}

func splitDegree(joined string) (degree, field string) {
	if idx := strings.Index(joined, degreeSep); idx >= 0 {
		return joined[:idx], joined[idx+len(degreeSep):]
	}
	return joined, ""
}
