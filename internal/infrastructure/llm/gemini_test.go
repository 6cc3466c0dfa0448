package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"DailyKnowledge/internal/domain"
)

const okEnvelope = `{"candidates":[{"content":{"parts":[{"text":"{\"title\":\"T\",\"category\":\"C\",\"content\":\"X\"}"}]}}]}`

func TestDecodeEnvelopeAndFact(t *testing.T) {
	t.Parallel()

	text, err := DecodeEnvelope([]byte(okEnvelope))
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}

	fact, err := DecodeFact(text)
	if err != nil {
		t.Fatalf("DecodeFact: %v", err)
	}

	want := domain.Fact{Title: "T", Category: "C", Content: "X"}
	if fact != want {
		t.Fatalf("unexpected fact: %+v", fact)
	}
}

func TestDecodeEnvelopeErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		kind domain.ErrorKind
	}{
		{name: "empty candidates", body: `{"candidates":[]}`, kind: domain.KindShapeMismatch},
		{name: "no parts", body: `{"candidates":[{"content":{}}]}`, kind: domain.KindShapeMismatch},
		{name: "api error", body: `{"error":{"code":429}}`, kind: domain.KindShapeMismatch},
		{name: "non-string text", body: `{"candidates":[{"content":{"parts":[{"text":42}]}}]}`, kind: domain.KindShapeMismatch},
		{name: "candidates not array", body: `{"candidates":{"0":1}}`, kind: domain.KindShapeMismatch},
		{name: "malformed", body: `{"candidates":`, kind: domain.KindDecode},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeEnvelope([]byte(tc.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if kind := domain.KindOf(err); kind != tc.kind {
				t.Fatalf("expected kind %s, got %s (%v)", tc.kind, kind, err)
			}
		})
	}
}

func TestDecodeEnvelopeMissingPathIncludesBody(t *testing.T) {
	t.Parallel()

	_, err := DecodeEnvelope([]byte(`{"candidates":[]}`))
	if err == nil || !strings.Contains(err.Error(), `{"candidates":[]}`) {
		t.Fatalf("expected raw body in error, got %v", err)
	}
}

func TestDecodeFactErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		kind domain.ErrorKind
	}{
		{name: "not json", text: "Here is your fact: ...", kind: domain.KindDecode},
		{name: "missing content", text: `{"title":"T","category":"C"}`, kind: domain.KindShapeMismatch},
		{name: "mistyped title", text: `{"title":1,"category":"C","content":"X"}`, kind: domain.KindDecode},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeFact(tc.text)
			if kind := domain.KindOf(err); kind != tc.kind {
				t.Fatalf("expected kind %s, got %s (%v)", tc.kind, kind, err)
			}
		})
	}
}

func TestGeminiClientGenerate(t *testing.T) {
	t.Parallel()

	payload := `{"contents":[{"parts":[{"text":"hi"}]}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.Header.Get("X-goog-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %s", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != payload {
			t.Errorf("payload was altered: %s", body)
		}
		_, _ = w.Write([]byte(okEnvelope))
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, server.Client(), nil)
	fact, err := client.Generate(context.Background(), "secret", domain.GenerationRequest{Payload: payload})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if fact.Title != "T" || fact.Category != "C" || fact.Content != "X" {
		t.Fatalf("unexpected fact: %+v", fact)
	}
}

func TestGeminiClientErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, server.Client(), nil)
	_, err := client.Generate(context.Background(), "bad", domain.GenerationRequest{Payload: "{}"})
	if domain.KindOf(err) != domain.KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("expected upstream message in error, got %v", err)
	}
}

func TestGeminiClientTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	_, err := NewGeminiClient(endpoint, nil, nil).Generate(context.Background(), "k", domain.GenerationRequest{Payload: "{}"})
	if domain.KindOf(err) != domain.KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestSDKClientGenerate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okEnvelope))
	}))
	defer server.Close()

	client := NewSDKClient("gemini-2.0-flash", server.URL, server.Client(), nil)
	fact, err := client.Generate(context.Background(), "secret", domain.GenerationRequest{
		Prompt:            "tell me something",
		SystemInstruction: "be brief",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if fact.Title != "T" || fact.Content != "X" {
		t.Fatalf("unexpected fact: %+v", fact)
	}
}
