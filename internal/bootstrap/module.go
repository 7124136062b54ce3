package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"lifestory/internal/bootstrap/config"
	"lifestory/internal/bootstrap/database"
	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/domain/catalog"
	"lifestory/internal/errs"
	cacheinfra "lifestory/internal/infrastructure/cache"
	llmanthropic "lifestory/internal/infrastructure/llm/anthropic"
	pdfinfra "lifestory/internal/infrastructure/pdf"
	sqliterepo "lifestory/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "lifestory/internal/infrastructure/persistence/sqlite/uow"
	transcriptionopenai "lifestory/internal/infrastructure/transcription/openai"
	"lifestory/internal/ports"
	"lifestory/internal/usecase/pipeline"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.New,
			fx.As(new(ports.PipelineRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(
		fx.Annotate(
			provideGenerator,
			fx.As(new(ports.TextGenerator)),
		),
	),
	fx.Provide(
		fx.Annotate(
			provideTranscriber,
			fx.As(new(ports.Transcriber)),
		),
	),
	fx.Provide(
		fx.Annotate(
			providePDFRenderer,
			fx.As(new(ports.DocumentRenderer)),
		),
	),
	fx.Provide(providePipelineOptions),
	fx.Provide(pipeline.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithComponent(p.Ctx, "bootstrap.fx")
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithComponent(ctx, "bootstrap.fx")

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideGenerator(cfg config.Config) *llmanthropic.Generator {
	return llmanthropic.NewGenerator(cfg.LLM)
}

func provideTranscriber(cfg config.Config) *transcriptionopenai.Transcriber {
	return transcriptionopenai.NewTranscriber(cfg.Transcription)
}

func providePDFRenderer(cfg config.Config) *pdfinfra.Renderer {
	return pdfinfra.NewRenderer(cfg.PDF)
}

func providePipelineOptions(ctx context.Context, cfg config.Config) (pipeline.Options, error) {
	cat, err := loadCatalog(ctx, cfg.Catalog)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		WritingMaxTokens:   cfg.LLM.WritingMaxTokens,
		RiskCheckMaxTokens: cfg.LLM.RiskCheckMaxTokens,
		RiskCheckCacheTTL:  cfg.LLM.RiskCheckCacheTTL,
		OutputDir:          cfg.PDF.OutputDir,
		Catalog:            cat,
	}, nil
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Path == "" {
		return catalog.Default(), nil
	}
	raw, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, errs.Wrapf(err, "read catalog %q", cfg.Path)
	}
	cat, err := catalog.Parse(raw)
	if err != nil {
		return nil, errs.Wrapf(err, "parse catalog %q", cfg.Path)
	}
	logging.Info(
		logging.WithComponent(ctx, "bootstrap.fx"),
		"using catalog file",
		slog.String("path", cfg.Path),
		slog.Int("sessions", cat.SessionCount()),
		slog.Int("chapters", cat.ChapterCount()),
	)
	return cat, nil
}
