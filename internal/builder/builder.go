// Package builder holds the canonical resume document for an editing
// session and mediates every externally visible action: section updates,
// fetch/save against the profile store, local persistence, share links and
// PDF export.
package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"resume-builder/internal/model"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// Local persistence keys. The last-local-save pair lives under the two
// fixed keys; each share action writes a separate snapshot under its id.
const (
	keyResumeData       = "resumeData"
	keySelectedTemplate = "selectedTemplate"
	sharePrefix         = "shared_resume_"
)

// DefaultExportName names the exported file when the document has no
// full name.
const DefaultExportName = "Resume"

// ProfileClient talks to the remote profile store.
type ProfileClient interface {
	Save(ctx context.Context, rec model.ProfileRecord) (*model.ProfileRecord, error)
	FetchByEmail(ctx context.Context, email string) (*model.ProfileRecord, error)
}

// LocalStore is the session's persistent key/value storage.
type LocalStore interface {
	Put(key, value string) error
	Get(key string) (string, bool, error)
}

// Clipboard receives generated share links.
type Clipboard interface {
	Write(text string) error
}

// HTMLRenderer produces the preview page for a (document, template) pair.
type HTMLRenderer interface {
	Render(doc *model.ResumeDocument, choice model.TemplateChoice) (string, error)
}

// PDFRenderer rasterizes a rendered preview into PDF bytes.
type PDFRenderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Session owns the canonical document and template choice. All mutation
// goes through the methods below; the mutex protects struct access only,
// so out-of-order responses from concurrent fetches still resolve
// last-write-wins.
type Session struct {
	mu         sync.Mutex
	doc        *model.ResumeDocument
	template   model.TemplateChoice
	fullScreen bool
	preview    *PreviewLayout

	renderer HTMLRenderer
	pdf      PDFRenderer
	client   ProfileClient
	store    LocalStore
	clip     Clipboard
	baseURL  string
}

// NewSession starts an empty editing session with the modern template.
func NewSession(renderer HTMLRenderer, pdf PDFRenderer, client ProfileClient, store LocalStore, clip Clipboard, baseURL string) *Session {
	return &Session{
		doc:      model.NewResumeDocument(),
		template: model.TemplateModern,
		preview:  NewPreviewLayout(),
		renderer: renderer,
		pdf:      pdf,
		client:   client,
		store:    store,
		clip:     clip,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Document returns a copy of the canonical document.
func (s *Session) Document() *model.ResumeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyDocument(s.doc)
}

// Template returns the selected template choice.
func (s *Session) Template() model.TemplateChoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// SelectTemplate switches the active layout.
func (s *Session) SelectTemplate(choice model.TemplateChoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = choice
}

// ToggleFullScreen flips the preview view state and returns the new value.
// Pure view-state change: the document is untouched.
func (s *Session) ToggleFullScreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullScreen = !s.fullScreen
	if s.preview == nil {
		return s.fullScreen
	}
	if s.fullScreen {
		s.preview.Scale = 0.8
		s.preview.Position = "fixed"
	} else {
		s.preview.Scale = 1.0
		s.preview.Position = "absolute"
	}
	return s.fullScreen
}

// ClosePreview detaches the preview region, as when the preview pane is not
// shown. Export is refused until the region is reattached.
func (s *Session) ClosePreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = nil
}

// OpenPreview reattaches the preview region with its initial layout. A no-op
// when the region is already attached.
func (s *Session) OpenPreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview == nil {
		s.preview = NewPreviewLayout()
	}
}

// FullScreen reports the current view state.
func (s *Session) FullScreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullScreen
}

// PreviewLayout returns a snapshot of the preview region's layout state. A
// detached region reads as the zero layout.
func (s *Session) PreviewLayout() PreviewLayout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview == nil {
		return PreviewLayout{}
	}
	return *s.preview
}

// SetPersonalInfo replaces the personal info section wholesale.
func (s *Session) SetPersonalInfo(info model.PersonalInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.PersonalInfo = info
}

// SetEducation replaces the education list wholesale.
func (s *Session) SetEducation(entries []model.EducationEntry) {
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Education = entries
}

// SetExperience replaces the experience list wholesale.
func (s *Session) SetExperience(entries []model.ExperienceEntry) {
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Experience = entries
}

// SetSkills replaces the skills list wholesale.
func (s *Session) SetSkills(entries []model.SkillEntry) {
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		if entries[i].Level == "" {
			entries[i].Level = model.LevelIntermediate
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Skills = entries
}

// SetCertificates replaces the certificates list wholesale.
func (s *Session) SetCertificates(entries []model.CertificateEntry) {
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Certificates = entries
}

// UpdateSection replaces one named section from raw JSON supplied by a form
// editor. Entries arriving without an id get a fresh one; no partial merges
// happen within a section.
func (s *Session) UpdateSection(section string, raw []byte) error {
	switch section {
	case "personalInfo":
		var info model.PersonalInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return fmt.Errorf("decode personalInfo: %w", err)
		}
		s.SetPersonalInfo(info)
	case "education":
		var entries []model.EducationEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("decode education: %w", err)
		}
		s.SetEducation(entries)
	case "experience":
		var entries []model.ExperienceEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("decode experience: %w", err)
		}
		s.SetExperience(entries)
	case "skills":
		var entries []model.SkillEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("decode skills: %w", err)
		}
		s.SetSkills(entries)
	case "certificates":
		var entries []model.CertificateEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("decode certificates: %w", err)
		}
		s.SetCertificates(entries)
	default:
		return fmt.Errorf("unknown section %q", section)
	}
	return nil
}

// FetchByEmail loads the profile stored under the given email and replaces
// the whole canonical document with it, adopting the stored template choice
// (modern when absent). A miss or transport failure leaves state untouched.
func (s *Session) FetchByEmail(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	rec, err := s.client.FetchByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if rec == nil {
		return ErrNotFound
	}

	doc := model.FromProfile(*rec)
	choice := model.ParseTemplateChoice(rec.Template)

	s.mu.Lock()
	s.doc = doc
	s.template = choice
	s.mu.Unlock()
	return nil
}

// SaveLocal serializes the canonical document and template choice under the
// fixed local keys, fully overwriting any prior save.
func (s *Session) SaveLocal() error {
	s.mu.Lock()
	doc := copyDocument(s.doc)
	choice := s.template
	s.mu.Unlock()

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.store.Put(keyResumeData, string(b)); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if err := s.store.Put(keySelectedTemplate, choice.String()); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// LoadLocal restores the last local save into the session. ErrNotFound is
// returned when nothing was saved yet; state stays untouched then.
func (s *Session) LoadLocal() error {
	raw, ok, err := s.store.Get(keyResumeData)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	var doc model.ResumeDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	choice := model.TemplateModern
	if tplRaw, ok, err := s.store.Get(keySelectedTemplate); err != nil {
		return fmt.Errorf("load template: %w", err)
	} else if ok {
		choice = model.ParseTemplateChoice(tplRaw)
	}

	s.mu.Lock()
	s.doc = &doc
	s.template = choice
	s.mu.Unlock()
	return nil
}

// SaveRemote maps the canonical document to the storage shape and submits
// it to the profile store, which upserts on email and assigns a fresh share
// uuid. The stored post-update record is returned; no retry on failure.
func (s *Session) SaveRemote(ctx context.Context) (*model.ProfileRecord, error) {
	s.mu.Lock()
	rec := model.ToProfile(s.doc, s.template)
	s.mu.Unlock()

	saved, err := s.client.Save(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return saved, nil
}

// ShareLink is the result of a share action.
type ShareLink struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	HostLabel string `json:"hostLabel"`
}

// Share snapshots the current (document, template) pair under a fresh
// opaque identifier, builds the share URL and copies it to the clipboard.
// A clipboard failure is reported via ErrClipboard but the snapshot and
// the returned link stay valid.
func (s *Session) Share() (*ShareLink, error) {
	s.mu.Lock()
	snapshot := shareSnapshot{
		ResumeData:       copyDocument(s.doc),
		SelectedTemplate: s.template.String(),
	}
	s.mu.Unlock()

	snapshot.ID = uuid.NewString()
	b, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode share snapshot: %w", err)
	}
	if err := s.store.Put(sharePrefix+snapshot.ID, string(b)); err != nil {
		return nil, fmt.Errorf("store share snapshot: %w", err)
	}

	link := &ShareLink{
		ID:        snapshot.ID,
		URL:       s.baseURL + "/?shared=" + url.QueryEscape(snapshot.ID),
		HostLabel: hostLabel(s.baseURL),
	}

	if err := s.clip.Write(link.URL); err != nil {
		return link, fmt.Errorf("%w: %v", ErrClipboard, err)
	}
	return link, nil
}

// ResolveShare returns the (document, template) pair snapshotted when the
// given share identifier was generated.
func (s *Session) ResolveShare(id string) (*model.ResumeDocument, model.TemplateChoice, error) {
	raw, ok, err := s.store.Get(sharePrefix + id)
	if err != nil {
		return nil, "", fmt.Errorf("load share snapshot: %w", err)
	}
	if !ok {
		return nil, "", ErrNotFound
	}

	var snapshot shareSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, "", fmt.Errorf("decode share snapshot: %w", err)
	}
	return snapshot.ResumeData, model.ParseTemplateChoice(snapshot.SelectedTemplate), nil
}

// RenderPreview renders the live preview for the current session state.
func (s *Session) RenderPreview() (string, error) {
	s.mu.Lock()
	doc := copyDocument(s.doc)
	choice := s.template
	s.mu.Unlock()
	return s.renderer.Render(doc, choice)
}

// Export is a finished PDF export.
type Export struct {
	Filename string
	Data     []byte
}

// ExportPDF captures the anchored preview region into a single A4 PDF named
// after the person. The preview layout is normalized for the capture and
// restored exactly afterwards, whether or not rasterization succeeds.
func (s *Session) ExportPDF(ctx context.Context) (*Export, error) {
	s.mu.Lock()
	if s.preview == nil {
		s.mu.Unlock()
		return nil, ErrRenderTargetMissing
	}
	doc := copyDocument(s.doc)
	choice := s.template
	restore := s.preview.normalizeForCapture()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		restore()
		s.mu.Unlock()
	}()

	html, err := s.renderer.Render(doc, choice)
	if err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}

	pdfBytes, err := s.renderPDFWithRetry(ctx, html)
	if err != nil {
		return nil, err
	}

	name := doc.PersonalInfo.FullName
	if name == "" {
		name = DefaultExportName
	}
	return &Export{Filename: name + ".pdf", Data: pdfBytes}, nil
}

// renderPDFWithRetry drives the rasterization collaborator, retrying with
// exponential backoff and validating the PDF signature.
func (s *Session) renderPDFWithRetry(ctx context.Context, html string) ([]byte, error) {
	const attempts = 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		pdfBytes, err := s.pdf.RenderHTMLToPDF(ctx, html)
		if err == nil {
			if bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
				return pdfBytes, nil
			}
			err = fmt.Errorf("invalid PDF output (len=%d)", len(pdfBytes))
		}
		lastErr = err
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("render pdf: %w", lastErr)
}

type shareSnapshot struct {
	ResumeData       *model.ResumeDocument `json:"resumeData"`
	SelectedTemplate string                `json:"selectedTemplate"`
	ID               string                `json:"id"`
}

// hostLabel derives a tidy display label for the share host, preferring the
// eTLD+1 of the base URL.
func hostLabel(baseURL string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Hostname() == "" {
		return baseURL
	}
	host := parsed.Hostname()
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}

func copyDocument(doc *model.ResumeDocument) *model.ResumeDocument {
	out := &model.ResumeDocument{
		PersonalInfo: doc.PersonalInfo,
		Education:    append([]model.EducationEntry{}, doc.Education...),
		Experience:   append([]model.ExperienceEntry{}, doc.Experience...),
		Skills:       append([]model.SkillEntry{}, doc.Skills...),
		Certificates: append([]model.CertificateEntry{}, doc.Certificates...),
	}
	return out
}
