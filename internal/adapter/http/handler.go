package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"resume-builder/internal/model"

	"github.com/gofiber/fiber/v2"
)

// ProfilesRepo is the storage surface the store handlers need.
type ProfilesRepo interface {
	Upsert(ctx context.Context, rec model.ProfileRecord) (*model.ProfileRecord, error)
	GetByEmail(ctx context.Context, email string) (*model.ProfileRecord, error)
	GetByShareID(ctx context.Context, shareID string) (*model.ProfileRecord, error)
}

// Handler serves the profile store API.
type Handler struct {
	repo       ProfilesRepo
	schemaPath string
}

func NewHandler(repo ProfilesRepo, schemaPath string) *Handler {
	return &Handler{repo: repo, schemaPath: schemaPath}
}

// Register mounts the store routes on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/api/profile/save", h.SaveProfile)
	app.Get("/api/profile/share/:uuid", h.GetShared)
	app.Get("/api/profile/:email", h.GetProfile)
}

// SaveProfile upserts the posted record on email, assigning a fresh share
// uuid, and returns the stored post-update record.
func (h *Handler) SaveProfile(c *fiber.Ctx) error {
	if err := model.ValidateProfilePayload(h.schemaPath, c.Body()); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var rec model.ProfileRecord
	if err := json.Unmarshal(c.Body(), &rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if rec.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	}

	saved, err := h.repo.Upsert(c.Context(), rec)
	if err != nil {
		slog.Error("save profile failed", "email", rec.Email, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save profile"})
	}
	return c.JSON(saved)
}

// GetProfile returns the record stored under the email, or JSON null.
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	email := c.Params("email")
	if decoded, err := url.PathUnescape(email); err == nil {
		email = decoded
	}

	rec, err := h.repo.GetByEmail(c.Context(), email)
	if err != nil {
		slog.Error("fetch profile failed", "email", email, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch profile"})
	}
	return c.JSON(rec)
}

// GetShared returns the record matching the share uuid, or JSON null.
func (h *Handler) GetShared(c *fiber.Ctx) error {
	rec, err := h.repo.GetByShareID(c.Context(), c.Params("uuid"))
	if err != nil {
		slog.Error("fetch shared profile failed", "uuid", c.Params("uuid"), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch profile"})
	}
	return c.JSON(rec)
}
