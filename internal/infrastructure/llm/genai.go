package llm

import (
	"context"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"DailyKnowledge/internal/domain"
	"DailyKnowledge/internal/ports"
)

// SDKClient generates facts through the google.golang.org/genai SDK. It uses
// the prompt and system instruction and ignores the raw payload.
type SDKClient struct {
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.FactGenerator = (*SDKClient)(nil)

// NewSDKClient builds a client; an empty baseURL uses the SDK default.
func NewSDKClient(model, baseURL string, httpClient *http.Client, log *slog.Logger) *SDKClient {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &SDKClient{model: model, baseURL: baseURL, httpClient: httpClient, logger: log}
}

// Generate builds a client for apiKey, asks for a JSON reply and decodes it.
func (c *SDKClient) Generate(ctx context.Context, apiKey string, req domain.GenerationRequest) (domain.Fact, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.baseURL},
	})
	if err != nil {
		return domain.Fact{}, domain.NewError(domain.KindConfigParse, "create genai client", err)
	}

	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	if c.logger != nil {
		c.logger.Info("generation request", "model", c.model, "prompt", req.Prompt)
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return domain.Fact{}, domain.NewError(domain.KindNetwork, "send generation request", err)
	}

	text := resp.Text()
	if text == "" {
		return domain.Fact{}, domain.Errorf(domain.KindShapeMismatch, "decode ai envelope",
			"response carried no text in %s", textPathLabel)
	}

	return DecodeFact(text)
}
