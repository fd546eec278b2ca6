// Package render turns a resume document into a self-contained HTML page.
// Rendering is pure: the same (document, template) pair always yields the
// same output, and no storage or network access happens here. The capture
// root of every variant carries id="resume-preview" so the PDF collaborator
// can locate exactly this region.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"resume-builder/internal/model"
)

// AnchorID is the element id of the anchored preview region.
const AnchorID = "resume-preview"

var templateFiles = map[model.TemplateChoice]string{
	model.TemplateModern:       "modern.html",
	model.TemplateProfessional: "professional.html",
	model.TemplateCreative:     "creative.html",
}

type Renderer struct {
	tpls map[model.TemplateChoice]*template.Template
}

// New parses the three layout templates from tplDir.
func New(tplDir string) (*Renderer, error) {
	funcs := template.FuncMap{
		"fmtDate":    FormatDate,
		"skillWidth": SkillWidth,
		"endLabel":   EndLabel,
	}

	tpls := make(map[model.TemplateChoice]*template.Template, len(templateFiles))
	for choice, name := range templateFiles {
		tpl, err := template.New(name).Funcs(funcs).ParseFiles(filepath.Join(tplDir, name))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		tpls[choice] = tpl
	}
	return &Renderer{tpls: tpls}, nil
}

// Render produces the HTML page for the given document and template choice.
// Unknown choices fall back to modern.
func (r *Renderer) Render(doc *model.ResumeDocument, choice model.TemplateChoice) (string, error) {
	tpl, ok := r.tpls[choice]
	if !ok {
		tpl = r.tpls[model.TemplateModern]
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("execute template %s: %w", choice, err)
	}
	return buf.String(), nil
}

var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// FormatDate renders a stored date string as "Jan 2006". Empty input passes
// through unchanged, as does anything that fails to parse.
func FormatDate(date string) string {
	if date == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return date
}

// SkillWidth maps a proficiency level to a percentage of the skill bar.
// Unrecognized levels fall back to the Intermediate width.
func SkillWidth(level string) int {
	switch level {
	case model.LevelBeginner:
		return 25
	case model.LevelIntermediate:
		return 50
	case model.LevelAdvanced:
		return 75
	case model.LevelExpert:
		return 100
	default:
		return 50
	}
}

// EndLabel returns the end-date label of an experience entry. In-progress
// entries read "Present" no matter what end date is stored.
func EndLabel(exp model.ExperienceEntry) string {
	if exp.Current {
		return "Present"
	}
	return FormatDate(exp.EndDate)
}
