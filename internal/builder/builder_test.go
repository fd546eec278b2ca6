package builder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/model"
)

type fakeClient struct {
	record   *model.ProfileRecord
	err      error
	saved    []model.ProfileRecord
	saveResp *model.ProfileRecord
}

func (f *fakeClient) Save(_ context.Context, rec model.ProfileRecord) (*model.ProfileRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.saved = append(f.saved, rec)
	if f.saveResp != nil {
		return f.saveResp, nil
	}
	return &rec, nil
}

func (f *fakeClient) FetchByEmail(_ context.Context, _ string) (*model.ProfileRecord, error) {
	return f.record, f.err
}

type memStore struct {
	data map[string]string
	err  error
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Put(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Get(key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

type fakeClipboard struct {
	texts []string
	err   error
}

func (f *fakeClipboard) Write(text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

type fakeHTMLRenderer struct {
	err   error
	calls int
}

func (f *fakeHTMLRenderer) Render(doc *model.ResumeDocument, choice model.TemplateChoice) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf(`<div id="resume-preview">%s/%s</div>`, doc.PersonalInfo.FullName, choice), nil
}

type fakePDFRenderer struct {
	err   error
	calls int
}

func (f *fakePDFRenderer) RenderHTMLToPDF(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type sessionDeps struct {
	client *fakeClient
	store  *memStore
	clip   *fakeClipboard
	html   *fakeHTMLRenderer
	pdf    *fakePDFRenderer
}

func newTestSession(t *testing.T) (*Session, *sessionDeps) {
	t.Helper()
	deps := &sessionDeps{
		client: &fakeClient{},
		store:  newMemStore(),
		clip:   &fakeClipboard{},
		html:   &fakeHTMLRenderer{},
		pdf:    &fakePDFRenderer{},
	}
	s := NewSession(deps.html, deps.pdf, deps.client, deps.store, deps.clip, "https://resumes.example.com")
	return s, deps
}

func TestSectionReplaceIsWholesale(t *testing.T) {
	s, _ := newTestSession(t)

	s.SetExperience([]model.ExperienceEntry{{Company: "Acme", Position: "Engineer"}})
	s.SetExperience([]model.ExperienceEntry{{Company: "Globex", Position: "Manager"}})

	doc := s.Document()
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "Globex", doc.Experience[0].Company)
	assert.NotEmpty(t, doc.Experience[0].ID, "entries get an id at creation time")
}

func TestEntryIDsAreUniqueWithinList(t *testing.T) {
	s, _ := newTestSession(t)

	s.SetSkills([]model.SkillEntry{{Name: "Go"}, {Name: "SQL"}, {Name: "CSS"}})

	doc := s.Document()
	seen := map[string]bool{}
	for _, skill := range doc.Skills {
		require.NotEmpty(t, skill.ID)
		assert.False(t, seen[skill.ID], "duplicate id %s", skill.ID)
		seen[skill.ID] = true
		assert.Equal(t, model.LevelIntermediate, skill.Level, "blank level defaults")
	}
}

func TestUpdateSectionUnknownName(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.UpdateSection("hobbies", []byte(`[]`))
	require.Error(t, err)
}

func TestUpdateSectionFromJSON(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, s.UpdateSection("personalInfo", []byte(`{"fullName":"Ada Lovelace","email":"ada@example.com"}`)))
	require.NoError(t, s.UpdateSection("skills", []byte(`[{"name":"Go","level":"Expert"}]`)))

	doc := s.Document()
	assert.Equal(t, "Ada Lovelace", doc.PersonalInfo.FullName)
	require.Len(t, doc.Skills, 1)
	assert.Equal(t, "Expert", doc.Skills[0].Level)
}

func TestFetchByEmailSuccess(t *testing.T) {
	s, deps := newTestSession(t)
	deps.client.record = &model.ProfileRecord{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Template: "creative",
	}

	require.NoError(t, s.FetchByEmail(context.Background(), "ada@example.com"))
	assert.Equal(t, "Ada Lovelace", s.Document().PersonalInfo.FullName)
	assert.Equal(t, model.TemplateCreative, s.Template())
}

func TestFetchByEmailAdoptsModernWhenTemplateAbsent(t *testing.T) {
	s, deps := newTestSession(t)
	s.SelectTemplate(model.TemplateProfessional)
	deps.client.record = &model.ProfileRecord{Email: "ada@example.com"}

	require.NoError(t, s.FetchByEmail(context.Background(), "ada@example.com"))
	assert.Equal(t, model.TemplateModern, s.Template())
}

func TestFetchByEmailNotFoundLeavesStateUntouched(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetPersonalInfo(model.PersonalInfo{FullName: "Ada Lovelace"})
	s.SelectTemplate(model.TemplateCreative)

	err := s.FetchByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "Ada Lovelace", s.Document().PersonalInfo.FullName)
	assert.Equal(t, model.TemplateCreative, s.Template())
}

func TestFetchByEmailTransportFailureLeavesStateUntouched(t *testing.T) {
	s, deps := newTestSession(t)
	s.SetPersonalInfo(model.PersonalInfo{FullName: "Ada Lovelace"})
	deps.client.err = errors.New("connection refused")

	err := s.FetchByEmail(context.Background(), "ada@example.com")
	require.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "Ada Lovelace", s.Document().PersonalInfo.FullName)
}

func TestFetchByEmailRequiresEmail(t *testing.T) {
	s, _ := newTestSession(t)
	require.Error(t, s.FetchByEmail(context.Background(), ""))
}

func TestLocalSaveReloadRoundTrip(t *testing.T) {
	s, deps := newTestSession(t)
	s.SetPersonalInfo(model.PersonalInfo{FullName: "Ada Lovelace", Email: "ada@example.com"})
	s.SetExperience([]model.ExperienceEntry{{Company: "Acme", Position: "Engineer", Current: true}})
	s.SelectTemplate(model.TemplateProfessional)

	require.NoError(t, s.SaveLocal())
	saved := s.Document()

	// simulate a reload: fresh session over the same store
	s2 := NewSession(deps.html, deps.pdf, deps.client, deps.store, deps.clip, "https://resumes.example.com")
	require.NoError(t, s2.LoadLocal())

	assert.Equal(t, saved, s2.Document())
	assert.Equal(t, model.TemplateProfessional, s2.Template())
}

func TestLoadLocalWithoutSave(t *testing.T) {
	s, _ := newTestSession(t)
	require.ErrorIs(t, s.LoadLocal(), ErrNotFound)
}

func TestSaveLocalOverwritesPriorSave(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetPersonalInfo(model.PersonalInfo{FullName: "First"})
	require.NoError(t, s.SaveLocal())
	s.SetPersonalInfo(model.PersonalInfo{FullName: "Second"})
	require.NoError(t, s.SaveLocal())

	require.NoError(t, s.LoadLocal())
	assert.Equal(t, "Second", s.Document().PersonalInfo.FullName)
}

func TestSaveRemoteMapsThroughToProfile(t *testing.T) {
	s, deps := newTestSession(t)
	s.SetPersonalInfo(model.PersonalInfo{FullName: "Ada Lovelace", Email: "ada@example.com"})
	s.SelectTemplate(model.TemplateCreative)
	deps.client.saveResp = &model.ProfileRecord{Email: "ada@example.com", UUID: "assigned-by-store"}

	saved, err := s.SaveRemote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "assigned-by-store", saved.UUID)

	require.Len(t, deps.client.saved, 1)
	assert.Equal(t, "Ada Lovelace", deps.client.saved[0].Name)
	assert.Equal(t, "creative", deps.client.saved[0].Template)
}

func TestSaveRemoteFailure(t *testing.T) {
	s, deps := newTestSession(t)
	deps.client.err = errors.New("boom")

	_, err := s.SaveRemote(context.Background())
	require.ErrorIs(t, err, ErrTransport)
}

func TestShareProducesDistinctResolvableSnapshots(t *testing.T) {
	s, deps := newTestSession(t)
	s.SetPersonalInfo(model.PersonalInfo{FullName: "First"})

	first, err := s.Share()
	require.NoError(t, err)

	s.SetPersonalInfo(model.PersonalInfo{FullName: "Second"})
	s.SelectTemplate(model.TemplateCreative)

	second, err := s.Share()
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Contains(t, first.URL, "?shared="+first.ID)
	assert.Equal(t, "example.com", first.HostLabel)
	assert.Equal(t, []string{first.URL, second.URL}, deps.clip.texts)

	// each id resolves to the pair current at generation time
	doc1, tpl1, err := s.ResolveShare(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", doc1.PersonalInfo.FullName)
	assert.Equal(t, model.TemplateModern, tpl1)

	doc2, tpl2, err := s.ResolveShare(second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second", doc2.PersonalInfo.FullName)
	assert.Equal(t, model.TemplateCreative, tpl2)
}

func TestShareClipboardFailureKeepsSnapshot(t *testing.T) {
	s, deps := newTestSession(t)
	deps.clip.err = errors.New("denied")

	link, err := s.Share()
	require.ErrorIs(t, err, ErrClipboard)
	require.NotNil(t, link)

	// the snapshot write is not rolled back
	_, _, resolveErr := s.ResolveShare(link.ID)
	assert.NoError(t, resolveErr)
}

func TestResolveShareUnknownID(t *testing.T) {
	s, _ := newTestSession(t)
	_, _, err := s.ResolveShare("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestToggleFullScreenIsViewStateOnly(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetPersonalInfo(model.PersonalInfo{FullName: "Ada Lovelace"})
	before := s.Document()

	assert.True(t, s.ToggleFullScreen())
	assert.Equal(t, 0.8, s.PreviewLayout().Scale)
	assert.Equal(t, "fixed", s.PreviewLayout().Position)
	assert.Equal(t, before, s.Document())

	assert.False(t, s.ToggleFullScreen())
	assert.Equal(t, 1.0, s.PreviewLayout().Scale)
}

func TestExportPDF(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetPersonalInfo(model.PersonalInfo{FullName: "Ada Lovelace"})

	export, err := s.ExportPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace.pdf", export.Filename)
	assert.NotEmpty(t, export.Data)
}

func TestExportPDFDefaultFilename(t *testing.T) {
	s, _ := newTestSession(t)

	export, err := s.ExportPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Resume.pdf", export.Filename)
}

func TestExportRestoresLayoutOnSuccess(t *testing.T) {
	s, _ := newTestSession(t)
	s.ToggleFullScreen()
	before := s.PreviewLayout()

	_, err := s.ExportPDF(context.Background())
	require.NoError(t, err)

	assert.Equal(t, before, s.PreviewLayout())
}

func TestExportRestoresLayoutOnFailure(t *testing.T) {
	s, deps := newTestSession(t)
	deps.pdf.err = errors.New("chrome crashed")
	s.ToggleFullScreen()
	before := s.PreviewLayout()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // skip retry backoffs

	_, err := s.ExportPDF(ctx)
	require.Error(t, err)
	assert.Equal(t, before, s.PreviewLayout())
}

func TestExportClosedPreviewAbortsBeforeAnyWork(t *testing.T) {
	s, deps := newTestSession(t)
	s.ClosePreview()

	_, err := s.ExportPDF(context.Background())
	require.ErrorIs(t, err, ErrRenderTargetMissing)
	assert.Zero(t, deps.html.calls, "nothing is rendered")
	assert.Zero(t, deps.pdf.calls, "nothing is rasterized")
	assert.Equal(t, PreviewLayout{}, s.PreviewLayout())
}

func TestOpenPreviewRestoresInitialLayout(t *testing.T) {
	s, _ := newTestSession(t)
	s.ClosePreview()
	s.ToggleFullScreen() // view flag flips; no layout to mutate
	s.OpenPreview()

	assert.Equal(t, *NewPreviewLayout(), s.PreviewLayout())

	_, err := s.ExportPDF(context.Background())
	require.NoError(t, err)
}

func TestExportRestoresLayoutWhenRenderFails(t *testing.T) {
	s, deps := newTestSession(t)
	deps.html.err = errors.New("bad template")
	before := s.PreviewLayout()

	_, err := s.ExportPDF(context.Background())
	require.Error(t, err)
	assert.Equal(t, before, s.PreviewLayout())
}

func TestDocumentReturnsCopy(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetSkills([]model.SkillEntry{{Name: "Go", Level: "Expert"}})

	doc := s.Document()
	doc.Skills[0].Name = "mutated"
	doc.PersonalInfo.FullName = "mutated"

	fresh := s.Document()
	assert.Equal(t, "Go", fresh.Skills[0].Name)
	assert.Equal(t, "", fresh.PersonalInfo.FullName)
}
