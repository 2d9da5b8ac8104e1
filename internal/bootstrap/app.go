package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"docsum-backend/internal/documents"
	"docsum-backend/internal/llm"
	"docsum-backend/internal/llm/provider"
	"docsum-backend/internal/services/health"
	"docsum-backend/internal/shared/config"
	"docsum-backend/internal/shared/server"
	"docsum-backend/internal/shared/storage/db"
	"docsum-backend/internal/shared/storage/mongodb"
	"docsum-backend/internal/shared/storage/object"
	localstore "docsum-backend/internal/shared/storage/object/local"
	s3store "docsum-backend/internal/shared/storage/object/s3"
	"docsum-backend/internal/shared/telemetry"
	"docsum-backend/internal/summarize"
)

const closeTimeout = 5 * time.Second

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Mongo            *mongo.Client
	Store            object.ObjectStore
	Generator        llm.Generator
	DocumentsRepo    documents.Repo
	DocumentsService *documents.Service
	Summarizer       *summarize.Client
	Health           *health.Service
}

// Options override pieces of the graph, mainly for tests.
type Options struct {
	// Generator replaces the provider selected by LLM_PROVIDER.
	Generator llm.Generator
	// SkipMigrations leaves the Postgres schema untouched.
	SkipMigrations bool
}

// Build validates configuration and wires the document store, object store,
// language model and HTTP router.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if opts.Generator == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	app := &App{Config: cfg}

	repo, err := app.buildRepo(ctx, opts)
	if err != nil {
		return nil, err
	}
	app.DocumentsRepo = repo

	store, err := buildStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	gen := opts.Generator
	if gen == nil {
		gen, err = provider.New(ctx, cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
	}
	app.Generator = gen

	sum, err := summarize.New(gen)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Summarizer = sum

	var pdfFont []byte
	if cfg.ExportPDFFont != "" {
		pdfFont, err = os.ReadFile(cfg.ExportPDFFont)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("read EXPORT_PDF_FONT: %w", err)
		}
	}

	app.DocumentsService = &documents.Service{
		Repo:           repo,
		Summarizer:     sum,
		Store:          store,
		MaxUploadBytes: cfg.MaxUploadBytes,
		LockTTL:        cfg.SummarizeLockTTL,
		PDFFont:        pdfFont,
	}
	app.Health = health.NewService(repo, storeName(cfg))
	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		DocumentHandler:  documents.NewHandler(app.DocumentsService),
		SummarizeHandler: summarize.NewHandler(sum),
		Health:           app.Health,
	})

	telemetry.L().Info("bootstrap.ready",
		zap.String("store", storeName(cfg)),
		zap.String("object_store", cfg.ObjectStoreType),
		zap.String("llm_provider", sum.Provider()),
		zap.Bool("pdf_unicode_font", len(pdfFont) > 0),
	)
	return app, nil
}

func (a *App) buildRepo(ctx context.Context, opts Options) (documents.Repo, error) {
	cfg := a.Config
	switch cfg.DocumentStore {
	case config.StoreMemory:
		return documents.NewMemoryRepo(), nil
	case config.StoreMongo:
		client, database, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, mongodb.DefaultOptions())
		if err != nil {
			return nil, err
		}
		a.Mongo = client
		repo := documents.NewMongoRepo(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			a.Close()
			return nil, err
		}
		return repo, nil
	case config.StorePostgres, "":
		sqlDB, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.DB = sqlDB
		if !opts.SkipMigrations {
			if err := db.RunMigrations(ctx, sqlDB); err != nil {
				a.Close()
				return nil, err
			}
		}
		return &documents.PGRepo{DB: sqlDB}, nil
	default:
		return nil, fmt.Errorf("unsupported DOCUMENT_STORE %q: %w", cfg.DocumentStore, config.ErrConfiguration)
	}
}

func connectDB(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required: %w", config.ErrConfiguration)
	}
	profile := db.RuntimeProfile()
	opts := db.OptionsFromEnv(db.Defaults(profile))
	if profile == db.ProfileLambda {
		return db.Shared(ctx, databaseURL, opts)
	}
	return db.Connect(ctx, databaseURL, opts)
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func storeName(cfg config.Config) string {
	if cfg.DocumentStore == "" {
		return config.StorePostgres
	}
	return cfg.DocumentStore
}

// Close releases database connections. The shared Lambda pool stays open.
func (a *App) Close() {
	var errs []error
	if a.DB != nil && !db.IsLambdaRuntime() {
		errs = append(errs, a.DB.Close())
	}
	if a.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		errs = append(errs, a.Mongo.Disconnect(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		telemetry.L().Warn("bootstrap.close_failed", zap.Error(err))
	}
}
