package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"DailyKnowledge/internal/config"
	"DailyKnowledge/internal/infrastructure/llm"
	"DailyKnowledge/internal/infrastructure/parser"
	"DailyKnowledge/internal/infrastructure/scheduler"
	"DailyKnowledge/internal/infrastructure/wikipedia"
	"DailyKnowledge/internal/logging"
	"DailyKnowledge/internal/ports"
	"DailyKnowledge/internal/prompt"
	"DailyKnowledge/internal/seed"
	"DailyKnowledge/internal/topics"
	"DailyKnowledge/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	scheduler *usecase.Scheduler
	logger    *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	templates, enrichment, err := buildEnrichment(cfg, baseLogger)
	if err != nil {
		return nil, err
	}

	generator, err := buildGenerator(cfg.Gemini, baseLogger.With("component", "llm"))
	if err != nil {
		return nil, err
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Settings:   config.NewSettingsLoader(cfg.Settings.Path),
		Enrichment: enrichment,
		Assembler:  prompt.NewAssembler(templates),
		Generator:  generator,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewCronScheduler(cfg.Scheduler.Location(), baseLogger.With("component", "scheduler"))
	sched := usecase.NewScheduler(driver, pipeline, cfg.Scheduler.CronExpression, baseLogger.With("component", "job"))

	return &Application{
		cfg:       cfg,
		scheduler: sched,
		logger:    baseLogger,
	}, nil
}

// Run fires one eager run, then serves scheduled runs until ctx is cancelled.
// An in-flight run is abandoned on shutdown.
func (a *Application) Run(ctx context.Context) error {
	a.logger.Info("starting daily knowledge job scheduler", "cron", a.cfg.Scheduler.CronExpression)

	if a.cfg.Scheduler.Eager() {
		a.scheduler.RunOnce(ctx, time.Now().In(a.cfg.Scheduler.Location()))
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	a.logger.Info("shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.scheduler.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}

func buildEnrichment(cfg config.Config, log *slog.Logger) (prompt.Templates, *usecase.Enrichment, error) {
	if !cfg.Enrichment.Active() {
		return prompt.Plain(), nil, nil
	}

	templates := prompt.Enriched()
	if dir := cfg.Prompt.TemplateDir; dir != "" {
		loaded, err := prompt.LoadDir(dir)
		if err != nil {
			return prompt.Templates{}, nil, fmt.Errorf("load prompt templates: %w", err)
		}
		templates = loaded
	}

	httpClient := &http.Client{Timeout: 20 * time.Second}
	registry := topics.NewRegistry()
	registry.Register(wikipedia.NewRandomSource(httpClient, wikipedia.Options{
		Endpoint:  cfg.Enrichment.Endpoint,
		Limit:     cfg.Enrichment.Limit,
		Namespace: cfg.Enrichment.Namespace,
		UserAgent: cfg.Enrichment.UserAgent,
	}, log.With("component", "topics.wikipedia")))
	registry.Register(parser.NewHTMLSource(httpClient,
		cfg.Enrichment.HTML.URL,
		cfg.Enrichment.HTML.Selector,
		cfg.Enrichment.Limit,
		cfg.Enrichment.UserAgent,
		log.With("component", "topics.html"),
	))

	source, err := registry.Resolve(cfg.Enrichment.Source)
	if err != nil {
		return prompt.Templates{}, nil, err
	}

	return templates, &usecase.Enrichment{Seeder: seed.New(nil), Topics: source}, nil
}

func buildGenerator(cfg config.GeminiConfig, log *slog.Logger) (ports.FactGenerator, error) {
	switch cfg.Backend {
	case "", "http":
		return llm.NewGeminiClient(cfg.Endpoint, nil, log), nil
	case "sdk":
		return llm.NewSDKClient(cfg.Model, cfg.BaseURL, nil, log), nil
	default:
		return nil, fmt.Errorf("unknown gemini backend %q (valid: http, sdk)", cfg.Backend)
	}
}
