package http

import (
	"errors"
	"log/slog"

	"resume-builder/internal/builder"
	"resume-builder/internal/model"

	"github.com/gofiber/fiber/v2"
)

// BuilderHandler exposes the editing session over HTTP.
type BuilderHandler struct {
	session *builder.Session
}

func NewBuilderHandler(session *builder.Session) *BuilderHandler {
	return &BuilderHandler{session: session}
}

// Register mounts the builder routes on the app.
func (h *BuilderHandler) Register(app *fiber.App) {
	app.Get("/builder/document", h.GetDocument)
	app.Put("/builder/section/:name", h.UpdateSection)
	app.Put("/builder/template", h.SelectTemplate)
	app.Post("/builder/fullscreen", h.ToggleFullScreen)
	app.Get("/builder/preview", h.Preview)
	app.Post("/builder/preview/open", h.OpenPreview)
	app.Post("/builder/preview/close", h.ClosePreview)
	app.Post("/builder/fetch", h.Fetch)
	app.Post("/builder/save/local", h.SaveLocal)
	app.Post("/builder/load/local", h.LoadLocal)
	app.Post("/builder/save/remote", h.SaveRemote)
	app.Post("/builder/share", h.Share)
	app.Get("/builder/share/:id", h.ResolveShare)
	app.Post("/builder/export", h.Export)
}

// GetDocument returns the canonical document and template choice.
func (h *BuilderHandler) GetDocument(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"resumeData":       h.session.Document(),
		"selectedTemplate": h.session.Template(),
	})
}

// UpdateSection replaces one named section wholesale with the request body.
func (h *BuilderHandler) UpdateSection(c *fiber.Ctx) error {
	if err := h.session.UpdateSection(c.Params("name"), c.Body()); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "updated"})
}

type templateReq struct {
	Template string `json:"template"`
}

// SelectTemplate switches the active layout.
func (h *BuilderHandler) SelectTemplate(c *fiber.Ctx) error {
	var req templateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	h.session.SelectTemplate(model.ParseTemplateChoice(req.Template))
	return c.JSON(fiber.Map{"template": h.session.Template()})
}

// ToggleFullScreen flips the preview view state.
func (h *BuilderHandler) ToggleFullScreen(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"fullScreen": h.session.ToggleFullScreen()})
}

// Preview renders the live preview HTML for the current session state.
func (h *BuilderHandler) Preview(c *fiber.Ctx) error {
	html, err := h.session.RenderPreview()
	if err != nil {
		slog.Error("preview render failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render preview"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}

// OpenPreview attaches the preview region with its initial layout.
func (h *BuilderHandler) OpenPreview(c *fiber.Ctx) error {
	h.session.OpenPreview()
	return c.JSON(fiber.Map{"preview": "open"})
}

// ClosePreview detaches the preview region; export is refused until it is
// reopened.
func (h *BuilderHandler) ClosePreview(c *fiber.Ctx) error {
	h.session.ClosePreview()
	return c.JSON(fiber.Map{"preview": "closed"})
}

type fetchReq struct {
	Email string `json:"email"`
}

// Fetch loads the profile stored under an email into the session.
func (h *BuilderHandler) Fetch(c *fiber.Ctx) error {
	var req fetchReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	}

	switch err := h.session.FetchByEmail(c.Context(), req.Email); {
	case err == nil:
		return c.JSON(fiber.Map{
			"resumeData":       h.session.Document(),
			"selectedTemplate": h.session.Template(),
		})
	case errors.Is(err, builder.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no profile found for this email"})
	case errors.Is(err, builder.ErrTransport):
		slog.Error("profile fetch failed", "email", req.Email, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to fetch profile"})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
}

// SaveLocal writes the session to local persistent storage.
func (h *BuilderHandler) SaveLocal(c *fiber.Ctx) error {
	if err := h.session.SaveLocal(); err != nil {
		slog.Error("local save failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save resume"})
	}
	return c.JSON(fiber.Map{"status": "saved"})
}

// LoadLocal restores the last local save into the session.
func (h *BuilderHandler) LoadLocal(c *fiber.Ctx) error {
	switch err := h.session.LoadLocal(); {
	case err == nil:
		return c.JSON(fiber.Map{
			"resumeData":       h.session.Document(),
			"selectedTemplate": h.session.Template(),
		})
	case errors.Is(err, builder.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no local save found"})
	default:
		slog.Error("local load failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load resume"})
	}
}

// SaveRemote submits the session to the profile store.
func (h *BuilderHandler) SaveRemote(c *fiber.Ctx) error {
	saved, err := h.session.SaveRemote(c.Context())
	if err != nil {
		slog.Error("remote save failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to save resume to server"})
	}
	return c.JSON(saved)
}

// Share snapshots the session under a fresh identifier and returns the
// share link. A clipboard failure still returns the link alongside a
// warning; the snapshot is never rolled back.
func (h *BuilderHandler) Share(c *fiber.Ctx) error {
	link, err := h.session.Share()
	if errors.Is(err, builder.ErrClipboard) {
		return c.JSON(fiber.Map{"link": link, "warning": "failed to copy link to clipboard"})
	}
	if err != nil {
		slog.Error("share failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to share profile"})
	}
	return c.JSON(fiber.Map{"link": link})
}

// ResolveShare returns the (document, template) snapshot behind a share id.
func (h *BuilderHandler) ResolveShare(c *fiber.Ctx) error {
	doc, choice, err := h.session.ResolveShare(c.Params("id"))
	if errors.Is(err, builder.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown share id"})
	}
	if err != nil {
		slog.Error("share resolve failed", "id", c.Params("id"), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to resolve share"})
	}
	return c.JSON(fiber.Map{"resumeData": doc, "selectedTemplate": choice})
}

// Export captures the preview into a PDF download.
func (h *BuilderHandler) Export(c *fiber.Ctx) error {
	export, err := h.session.ExportPDF(c.Context())
	if errors.Is(err, builder.ErrRenderTargetMissing) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "resume preview not found"})
	}
	if err != nil {
		slog.Error("pdf export failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to export PDF"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	return c.Send(export.Data)
}
