package llm

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"DailyKnowledge/internal/domain"
	"DailyKnowledge/internal/ports"
)

// DefaultEndpoint is the generateContent URL of the default model.
const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// GeminiClient posts pre-assembled request bodies to the Gemini REST API.
type GeminiClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.FactGenerator = (*GeminiClient)(nil)

// NewGeminiClient builds a client; nil httpClient gets a 60 second timeout.
func NewGeminiClient(endpoint string, httpClient *http.Client, log *slog.Logger) *GeminiClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &GeminiClient{endpoint: endpoint, httpClient: httpClient, logger: log}
}

// Generate sends req.Payload verbatim and decodes the nested fact.
func (c *GeminiClient) Generate(ctx context.Context, apiKey string, req domain.GenerationRequest) (domain.Fact, error) {
	if c.logger != nil {
		c.logger.Info("generation request", "body", req.Payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(req.Payload))
	if err != nil {
		return domain.Fact{}, domain.NewError(domain.KindNetwork, "build generation request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.Fact{}, domain.NewError(domain.KindNetwork, "send generation request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Fact{}, domain.NewError(domain.KindNetwork, "read generation response", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.Fact{}, domain.Errorf(domain.KindNetwork, "send generation request",
			"gemini error %s: %s", resp.Status, strings.TrimSpace(truncate(body, 1024)))
	}

	text, err := DecodeEnvelope(body)
	if err != nil {
		return domain.Fact{}, err
	}

	return DecodeFact(text)
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n])
}
