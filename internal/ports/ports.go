package ports

import (
	"context"
	"time"

	"DailyKnowledge/internal/domain"
)

// SettingsLoader returns a fresh Settings record for each run.
type SettingsLoader interface {
	Load(ctx context.Context) (domain.Settings, error)
}

// Seeder produces the opaque token mixed into the prompt.
type Seeder interface {
	Seed() string
}

// TopicSource pulls unrelated titles used as topic-diversity hints.
type TopicSource interface {
	Name() string
	Titles(ctx context.Context) ([]string, error)
}

// FactGenerator asks the generative model for a fact and decodes it.
type FactGenerator interface {
	Generate(ctx context.Context, apiKey string, req domain.GenerationRequest) (domain.Fact, error)
}

// Scheduler fires registered jobs on their cron expressions.
type Scheduler interface {
	Schedule(spec string, job func(time.Time)) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
