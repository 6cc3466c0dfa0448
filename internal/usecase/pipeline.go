package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"DailyKnowledge/internal/domain"
	"DailyKnowledge/internal/ports"
	"DailyKnowledge/internal/prompt"
)

// Enrichment mixes a random seed and topic hints into the prompt.
type Enrichment struct {
	Seeder ports.Seeder
	Topics ports.TopicSource
}

// PipelineDeps wires all driven adapters into the fact pipeline.
type PipelineDeps struct {
	Settings   ports.SettingsLoader
	Enrichment *Enrichment
	Assembler  *prompt.Assembler
	Generator  ports.FactGenerator
	Logger     *slog.Logger
}

// Pipeline implements one fact-of-the-day run.
type Pipeline struct {
	settings   ports.SettingsLoader
	enrichment *Enrichment
	assembler  *prompt.Assembler
	generator  ports.FactGenerator
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		settings:   deps.Settings,
		enrichment: deps.Enrichment,
		assembler:  deps.Assembler,
		generator:  deps.Generator,
		logger:     logger,
	}
}

// Run loads settings, builds the request and generates a fact. The first
// failing stage aborts the run.
func (p *Pipeline) Run(ctx context.Context, trigger time.Time) (domain.Fact, error) {
	if p.settings == nil || p.assembler == nil || p.generator == nil {
		return domain.Fact{}, fmt.Errorf("pipeline is not fully configured")
	}

	log := p.logger.With("run_id", uuid.NewString())
	log.Info("run started", "trigger", trigger.Format(time.RFC3339))

	settings, err := p.settings.Load(ctx)
	if err != nil {
		return domain.Fact{}, fmt.Errorf("load settings: %w", err)
	}
	log.Info("recipients", "emails", settings.Recipients)

	req, err := p.buildRequest(ctx, log)
	if err != nil {
		return domain.Fact{}, err
	}

	fact, err := p.generator.Generate(ctx, settings.APICredential, req)
	if err != nil {
		return domain.Fact{}, fmt.Errorf("generate fact: %w", err)
	}

	log.Info("fact generated", "title", fact.Title, "category", fact.Category, "content", fact.Content)
	return fact, nil
}

func (p *Pipeline) buildRequest(ctx context.Context, log *slog.Logger) (domain.GenerationRequest, error) {
	if p.enrichment == nil {
		return p.assembler.Assemble("", nil), nil
	}

	var seed string
	if p.enrichment.Seeder != nil {
		seed = p.enrichment.Seeder.Seed()
	}

	var titles []string
	if p.enrichment.Topics != nil {
		var err error
		titles, err = p.enrichment.Topics.Titles(ctx)
		if err != nil {
			return domain.GenerationRequest{}, fmt.Errorf("fetch topics from %s: %w", p.enrichment.Topics.Name(), err)
		}
	}

	log.Debug("prompt enriched", "seed", seed, "titles", len(titles))
	return p.assembler.Assemble(seed, titles), nil
}
