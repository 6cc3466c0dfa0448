package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"DailyKnowledge/internal/domain"
	"DailyKnowledge/internal/ports"
)

const geminiKeyEnv = "GEMINI_API_KEY"

type settingsFile struct {
	Emails    []string `toml:"emails" yaml:"emails"`
	GeminiKey string   `toml:"gemini_key" yaml:"gemini_key"`
}

// SettingsLoader reads the settings file from disk on every call.
type SettingsLoader struct {
	path string
}

var _ ports.SettingsLoader = (*SettingsLoader)(nil)

// NewSettingsLoader binds the loader to a file path.
func NewSettingsLoader(path string) *SettingsLoader {
	return &SettingsLoader{path: path}
}

// Load decodes the file by extension (.toml, .yaml, .yml). Nothing is cached.
func (l *SettingsLoader) Load(ctx context.Context) (domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, domain.NewError(domain.KindConfigRead, "read settings", err)
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Settings{}, domain.NewError(domain.KindConfigRead, "read settings", err)
	}

	var file settingsFile
	switch strings.ToLower(filepath.Ext(l.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	default:
		err = toml.Unmarshal(raw, &file)
	}
	if err != nil {
		return domain.Settings{}, domain.NewError(domain.KindConfigParse, "parse settings", err)
	}

	if v := os.Getenv(geminiKeyEnv); v != "" {
		file.GeminiKey = v
	}
	if strings.TrimSpace(file.GeminiKey) == "" {
		return domain.Settings{}, domain.NewError(domain.KindConfigParse, "parse settings",
			fmt.Errorf("missing field gemini_key in %s", l.path))
	}

	recipients := make([]string, len(file.Emails))
	copy(recipients, file.Emails)

	return domain.Settings{
		Recipients:    recipients,
		APICredential: file.GeminiKey,
	}, nil
}
