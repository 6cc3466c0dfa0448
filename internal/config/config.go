package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "UTC"
	configPathEnv    = "DAILY_KNOWLEDGE_CONFIG"
	settingsPathEnv  = "DAILY_KNOWLEDGE_SETTINGS"
	cronExprEnv      = "DAILY_KNOWLEDGE_CRON"
	geminiModelEnv   = "GEMINI_MODEL"
	geminiBackendEnv = "GEMINI_BACKEND"
	logLevelEnv      = "LOG_LEVEL"
	enrichmentEnv    = "DAILY_KNOWLEDGE_ENRICH"
)

// Config holds process-wide settings resolved once at startup.
type Config struct {
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Settings   SettingsConfig   `yaml:"settings"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Prompt     PromptConfig     `yaml:"prompt"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SchedulerConfig defines when the job should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	RunOnStart     *bool          `yaml:"runOnStart"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Eager reports whether a run fires immediately at startup.
func (s SchedulerConfig) Eager() bool {
	return s.RunOnStart == nil || *s.RunOnStart
}

// SettingsConfig points at the per-run settings file.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// GeminiConfig defines how to contact the generative model.
type GeminiConfig struct {
	Backend  string `yaml:"backend"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"baseUrl"`
}

// EnrichmentConfig controls the seed and topic-hint stage.
type EnrichmentConfig struct {
	Enabled   *bool      `yaml:"enabled"`
	Source    string     `yaml:"source"`
	Endpoint  string     `yaml:"endpoint"`
	Limit     int        `yaml:"limit"`
	Namespace int        `yaml:"namespace"`
	UserAgent string     `yaml:"userAgent"`
	HTML      HTMLConfig `yaml:"html"`
}

// Active reports whether seed and titles are mixed into the prompt.
func (e EnrichmentConfig) Active() bool {
	return e.Enabled == nil || *e.Enabled
}

// HTMLConfig describes a page scraped for topic hints.
type HTMLConfig struct {
	URL      string `yaml:"url"`
	Selector string `yaml:"selector"`
}

// PromptConfig allows replacing the embedded templates.
type PromptConfig struct {
	TemplateDir string `yaml:"templateDir"`
}

// LoggingConfig sets the minimal slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(settingsPathEnv); v != "" {
		c.Settings.Path = v
	}

	if v := os.Getenv(cronExprEnv); v != "" {
		c.Scheduler.CronExpression = v
	}

	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}

	if v := os.Getenv(geminiBackendEnv); v != "" {
		c.Gemini.Backend = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v, ok := parseBool(os.Getenv(enrichmentEnv)); ok {
		c.Enrichment.Enabled = &v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	if override.Scheduler.RunOnStart != nil {
		base.Scheduler.RunOnStart = override.Scheduler.RunOnStart
	}

	if override.Settings.Path != "" {
		base.Settings.Path = override.Settings.Path
	}

	if override.Gemini.Backend != "" {
		base.Gemini.Backend = override.Gemini.Backend
	}
	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.BaseURL != "" {
		base.Gemini.BaseURL = override.Gemini.BaseURL
	}

	if override.Enrichment.Enabled != nil {
		base.Enrichment.Enabled = override.Enrichment.Enabled
	}
	if override.Enrichment.Source != "" {
		base.Enrichment.Source = override.Enrichment.Source
	}
	if override.Enrichment.Endpoint != "" {
		base.Enrichment.Endpoint = override.Enrichment.Endpoint
	}
	if override.Enrichment.Limit > 0 {
		base.Enrichment.Limit = override.Enrichment.Limit
	}
	if override.Enrichment.Namespace != 0 {
		base.Enrichment.Namespace = override.Enrichment.Namespace
	}
	if override.Enrichment.UserAgent != "" {
		base.Enrichment.UserAgent = override.Enrichment.UserAgent
	}
	if override.Enrichment.HTML.URL != "" {
		base.Enrichment.HTML.URL = override.Enrichment.HTML.URL
	}
	if override.Enrichment.HTML.Selector != "" {
		base.Enrichment.HTML.Selector = override.Enrichment.HTML.Selector
	}

	if override.Prompt.TemplateDir != "" {
		base.Prompt.TemplateDir = override.Prompt.TemplateDir
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Scheduler: SchedulerConfig{CronExpression: "0 0 0 * * *", Timezone: defaultTimezone, location: tz},
		Settings:  SettingsConfig{Path: "settings.toml"},
		Gemini: GeminiConfig{
			Backend:  "http",
			Endpoint: "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
			Model:    "gemini-2.0-flash",
		},
		Enrichment: EnrichmentConfig{
			Source:    "wikipedia",
			Endpoint:  "https://en.wikipedia.org/w/api.php",
			Limit:     25,
			Namespace: 0,
			UserAgent: "daily-knowledge/1.0 (scheduled fact-of-the-day generator)",
			HTML: HTMLConfig{
				URL:      "https://en.wikipedia.org/wiki/Special:Random",
				Selector: "#mw-content-text li a",
			},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

func parseBool(v string) (bool, bool) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
