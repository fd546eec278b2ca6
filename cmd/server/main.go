package main

import (
	"context"
	"log"
	"path/filepath"

	"resume-builder/internal/adapter/localstore"
	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/builder"
	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/render"
	infra "resume-builder/pkg/infrastructure"

	httpadapter "resume-builder/internal/adapter/http"

	"github.com/gofiber/fiber/v2"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// infra setup
	pool, err := infra.NewProfilesPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("warning: profiles DB not available: %v", err)
	}
	if pool != nil {
		if err := migration.RunMigrations(ctx, pool); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	store, err := localstore.Open(cfg.LocalStorePath)
	if err != nil {
		log.Fatalf("local store: %v", err)
	}
	defer store.Close()

	renderer, err := render.New(cfg.TemplatesDir)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	session := builder.NewSession(
		renderer,
		infra.NewChromedpRenderer(cfg.ChromePath),
		builder.NewStoreClient(cfg.ProfileAPIURL),
		store,
		infra.NewSystemClipboard(),
		cfg.PublicBaseURL,
	)

	app := fiber.New()

	profilesRepo := repository.NewProfilesRepo(pool)
	schemaPath := filepath.Join(cfg.TemplatesDir, "profile.schema.json")
	httpadapter.NewHandler(profilesRepo, schemaPath).Register(app)
	httpadapter.NewBuilderHandler(session).Register(app)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
