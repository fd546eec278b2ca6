package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"resume-builder/internal/model"
	"resume-builder/internal/render"
)

// Renders a saved {resumeData, selectedTemplate} JSON file to an HTML page
// for eyeballing template changes without running the server.
func main() {
	in := "resume.json"
	if len(os.Args) > 1 {
		in = os.Args[1]
	}

	b, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read document: %v\n", err)
		os.Exit(2)
	}

	var payload struct {
		ResumeData       *model.ResumeDocument `json:"resumeData"`
		SelectedTemplate string                `json:"selectedTemplate"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}
	if payload.ResumeData == nil {
		payload.ResumeData = model.NewResumeDocument()
	}

	renderer, err := render.New("templates")
	if err != nil {
		fmt.Fprintf(os.Stderr, "templates: %v\n", err)
		os.Exit(2)
	}

	html, err := renderer.Render(payload.ResumeData, model.ParseTemplateChoice(payload.SelectedTemplate))
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(2)
	}

	outFile := filepath.Join("resume-data", "generated", "resume_preview.html")
	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(2)
	}
	if err := os.WriteFile(outFile, []byte(html), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write out: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", outFile)
}
