package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"medidoc-backend/internal/documents"
	"medidoc-backend/internal/extract"
	"medidoc-backend/internal/llm"
	"medidoc-backend/internal/llm/gemini"
	"medidoc-backend/internal/llm/groq"
	"medidoc-backend/internal/ocr"
	"medidoc-backend/internal/search"
	"medidoc-backend/internal/shared/config"
	"medidoc-backend/internal/shared/server"
	"medidoc-backend/internal/shared/storage/db"
	"medidoc-backend/internal/shared/storage/files"
	"medidoc-backend/internal/shared/telemetry"
)

// App holds the fully wired application.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB // nil when running on the in-memory repo
}

// Build wires storage, OCR, the LLM client and the HTTP surface from config.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	database, dialect, err := openDatabase(ctx, cfg)
	if err != nil {
		if cfg.Env == "production" {
			return nil, err
		}
		telemetry.Error("db.unavailable", map[string]any{"error": err.Error()})
		database = nil
	}
	if database != nil {
		if err := db.RunMigrations(ctx, database, dialect); err != nil {
			database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	var repo documents.Repo
	storage := string(dialect)
	if database != nil {
		repo = &documents.SQLRepo{DB: database, Dialect: dialect}
	} else {
		telemetry.Info("db.fallback", map[string]any{"mode": "memory"})
		repo = documents.NewMemoryRepo()
		storage = "memory"
	}

	store, err := files.New(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init upload dir: %w", err)
	}

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftoppm:  cfg.PdftoppmBin,
		Tesseract: cfg.TesseractBin,
		Lang:      cfg.TesseractLang,
		DPI:       cfg.OCRDPI,
	})

	client, err := buildLLMClient(ctx, cfg)
	if err != nil {
		if cfg.Env == "production" {
			return nil, err
		}
		telemetry.Error("llm.unconfigured", map[string]any{"error": err.Error()})
		client = llm.PlaceholderClient{}
	}

	docSvc := &documents.Service{
		Files:      store,
		Extractor:  extractor,
		Classifier: extract.NewClassifier(client),
		Repo:       repo,
	}
	searchSvc := search.NewService(repo, client)

	var ping func(ctx context.Context) error
	if database != nil {
		ping = database.PingContext
	}

	router := server.NewRouter(server.RouterDeps{
		Config:           cfg,
		DocumentsHandler: documents.NewHandler(docSvc),
		SearchHandler:    search.NewHandler(searchSvc),
		DBPing:           ping,
	})

	telemetry.Info("app.ready", map[string]any{
		"env":      cfg.Env,
		"provider": cfg.LLMProvider,
		"storage":  storage,
	})

	return &App{Config: cfg, Router: router, DB: database}, nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

func openDatabase(ctx context.Context, cfg config.Config) (*sql.DB, db.Dialect, error) {
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	if cfg.DatabaseURL != "" {
		database, err := db.ConnectPostgres(ctx, cfg.DatabaseURL, opts)
		return database, db.DialectPostgres, err
	}
	database, err := db.OpenSQLite(ctx, cfg.SQLitePath, opts)
	return database, db.DialectSQLite, err
}

func buildLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		return groq.NewClient(cfg.GroqAPIKey, cfg.LLMModel)
	}
}
