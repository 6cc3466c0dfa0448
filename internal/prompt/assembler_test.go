package prompt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPromptSubstitution(t *testing.T) {
	t.Parallel()

	a := NewAssembler(Templates{Prompt: "seed=<seed>; topics=<articles>."})
	got := a.Prompt("S", []string{"A", "B"})

	if got != "seed=S; topics=A, B." {
		t.Fatalf("unexpected prompt: %q", got)
	}
	if strings.Contains(got, SeedToken) || strings.Contains(got, ArticlesToken) {
		t.Fatalf("placeholder left in prompt: %q", got)
	}
}

func TestPromptTitleWithTokenIsNotExpanded(t *testing.T) {
	t.Parallel()

	a := NewAssembler(Templates{Prompt: "<seed>|<articles>"})
	got := a.Prompt("S", []string{"<seed>"})

	if got != "S|<seed>" {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func TestRequestSubstitution(t *testing.T) {
	t.Parallel()

	a := NewAssembler(Templates{
		SystemInstruction: "be brief",
		Request:           `{"sys":"<system_instruction>","user":"<prompt>"}`,
	})

	got := a.Request("hello")
	if got != `{"sys":"be brief","user":"hello"}` {
		t.Fatalf("unexpected request: %s", got)
	}
}

func TestEmbeddedTemplatesProduceJSON(t *testing.T) {
	t.Parallel()

	for name, tpl := range map[string]Templates{"enriched": Enriched(), "plain": Plain()} {
		req := NewAssembler(tpl).Assemble(strings.Repeat("x", 64), []string{"Alpha", "Beta"})

		for _, token := range []string{SeedToken, ArticlesToken, SystemInstructionToken, PromptToken} {
			if strings.Contains(req.Payload, token) {
				t.Fatalf("%s: token %s left in payload", name, token)
			}
		}

		var doc map[string]any
		if err := json.Unmarshal([]byte(req.Payload), &doc); err != nil {
			t.Fatalf("%s: payload is not valid JSON: %v", name, err)
		}
		if _, ok := doc["contents"]; !ok {
			t.Fatalf("%s: payload misses contents", name)
		}
	}
}

func TestEnrichedPayloadCarriesSeedAndTitles(t *testing.T) {
	t.Parallel()

	req := NewAssembler(Enriched()).Assemble("SEED123", []string{"Alpha", "Beta"})

	if !strings.Contains(req.Prompt, "SEED123") {
		t.Fatalf("seed missing from prompt: %s", req.Prompt)
	}
	if !strings.Contains(req.Payload, "Alpha, Beta") {
		t.Fatalf("titles missing from payload: %s", req.Payload)
	}
	if req.SystemInstruction == "" || !strings.Contains(req.Payload, req.SystemInstruction) {
		t.Fatalf("system instruction missing from payload")
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	t.Parallel()

	a := NewAssembler(Enriched())
	titles := []string{"One", "Two", "Three"}

	first := a.Assemble("fixed", titles).Payload
	second := a.Assemble("fixed", titles).Payload
	if first != second {
		t.Fatal("identical inputs produced different payloads")
	}
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("prompt.txt", "P <seed>")
	write("request.json", `{"p":"<prompt>"}`)

	tpl, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if tpl.SystemInstruction != "" {
		t.Fatalf("expected empty system instruction, got %q", tpl.SystemInstruction)
	}

	got := NewAssembler(tpl).Assemble("s", nil).Payload
	if got != `{"p":"P s"}` {
		t.Fatalf("unexpected payload: %s", got)
	}
}

func TestLoadDirMissingPrompt(t *testing.T) {
	t.Parallel()

	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Fatal("expected error for empty directory")
	}
}
