package prompt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"DailyKnowledge/internal/domain"
)

// Placeholder tokens replaced during assembly.
const (
	SeedToken              = "<seed>"
	ArticlesToken          = "<articles>"
	SystemInstructionToken = "<system_instruction>"
	PromptToken            = "<prompt>"
)

//go:embed assets/*
var assets embed.FS

// Templates is the static text the request is assembled from.
type Templates struct {
	Prompt            string
	SystemInstruction string
	Request           string
}

// Enriched returns the embedded templates that take a seed and titles.
func Enriched() Templates {
	return Templates{
		Prompt:            mustAsset("assets/prompt.txt"),
		SystemInstruction: mustAsset("assets/system_instruction.txt"),
		Request:           mustAsset("assets/request.json"),
	}
}

// Plain returns the embedded templates with only a <prompt> slot.
func Plain() Templates {
	return Templates{
		Prompt:  mustAsset("assets/prompt_plain.txt"),
		Request: mustAsset("assets/request_plain.json"),
	}
}

// LoadDir reads prompt.txt, system_instruction.txt and request.json from dir.
// The system instruction file is optional.
func LoadDir(dir string) (Templates, error) {
	var t Templates
	var err error

	if t.Prompt, err = readFile(dir, "prompt.txt"); err != nil {
		return Templates{}, err
	}
	if t.Request, err = readFile(dir, "request.json"); err != nil {
		return Templates{}, err
	}
	t.SystemInstruction, err = readFile(dir, "system_instruction.txt")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Templates{}, err
	}

	return t, nil
}

// Assembler merges templates with per-run values by literal substitution.
// Values are not escaped.
type Assembler struct {
	templates Templates
}

// NewAssembler binds a template set.
func NewAssembler(t Templates) *Assembler {
	return &Assembler{templates: t}
}

// Prompt fills <seed> and then <articles> (titles joined by ", ").
func (a *Assembler) Prompt(seed string, titles []string) string {
	out := strings.ReplaceAll(a.templates.Prompt, SeedToken, seed)
	return strings.ReplaceAll(out, ArticlesToken, strings.Join(titles, ", "))
}

// Request fills <system_instruction> and then <prompt> in the body template.
func (a *Assembler) Request(prompt string) string {
	out := strings.ReplaceAll(a.templates.Request, SystemInstructionToken, a.templates.SystemInstruction)
	return strings.ReplaceAll(out, PromptToken, prompt)
}

// Assemble builds the full generation request for one run.
func (a *Assembler) Assemble(seed string, titles []string) domain.GenerationRequest {
	p := a.Prompt(seed, titles)
	return domain.GenerationRequest{
		Prompt:            p,
		SystemInstruction: a.templates.SystemInstruction,
		Payload:           a.Request(p),
	}
}

func mustAsset(name string) string {
	raw, err := assets.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("prompt: embedded asset %s: %v", name, err))
	}
	return string(raw)
}

func readFile(dir, name string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	return string(raw), nil
}
