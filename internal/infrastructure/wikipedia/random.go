package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"DailyKnowledge/internal/domain"
	"DailyKnowledge/internal/ports"
)

const (
	defaultEndpoint  = "https://en.wikipedia.org/w/api.php"
	defaultLimit     = 25
	defaultUserAgent = "daily-knowledge/1.0"
)

// Options configures a RandomSource. Zero values fall back to defaults.
type Options struct {
	Endpoint  string
	Limit     int
	Namespace int
	UserAgent string
}

// RandomSource lists random article titles through the MediaWiki query API.
type RandomSource struct {
	client    *http.Client
	endpoint  string
	limit     int
	namespace int
	userAgent string
	logger    *slog.Logger
}

var _ ports.TopicSource = (*RandomSource)(nil)

// NewRandomSource wires an HTTP client; nil gets a 20 second timeout.
func NewRandomSource(client *http.Client, opts Options, log *slog.Logger) *RandomSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if opts.Endpoint == "" {
		opts.Endpoint = defaultEndpoint
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &RandomSource{
		client:    client,
		endpoint:  opts.Endpoint,
		limit:     opts.Limit,
		namespace: opts.Namespace,
		userAgent: opts.UserAgent,
		logger:    log,
	}
}

// Name identifies the source inside the registry.
func (s *RandomSource) Name() string {
	return "wikipedia"
}

type randomResponse struct {
	Query *struct {
		Random []struct {
			Title string `json:"title"`
		} `json:"random"`
	} `json:"query"`
}

// Titles performs one request and returns titles in the order the service sent them.
func (s *RandomSource) Titles(ctx context.Context) ([]string, error) {
	reqURL, err := s.buildURL()
	if err != nil {
		return nil, domain.NewError(domain.KindNetwork, "build random articles url", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.NewError(domain.KindNetwork, "build random articles request", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.KindNetwork, "request random articles", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewError(domain.KindNetwork, "read random articles", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, domain.Errorf(domain.KindNetwork, "request random articles", "wikipedia returned %s", resp.Status)
	}

	var decoded randomResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, domain.NewError(domain.KindDecode, "decode random articles", err)
	}
	if decoded.Query == nil || decoded.Query.Random == nil {
		return nil, domain.Errorf(domain.KindShapeMismatch, "decode random articles", "missing query.random in response: %s", truncate(body, 512))
	}

	titles := make([]string, 0, len(decoded.Query.Random))
	for _, page := range decoded.Query.Random {
		titles = append(titles, page.Title)
	}

	s.debug("random articles fetched", "count", len(titles))
	return titles, nil
}

func (s *RandomSource) buildURL() (string, error) {
	parsed, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %s: %w", s.endpoint, err)
	}

	query := parsed.Query()
	query.Set("action", "query")
	query.Set("format", "json")
	query.Set("list", "random")
	query.Set("rnnamespace", strconv.Itoa(s.namespace))
	query.Set("rnlimit", strconv.Itoa(s.limit))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (s *RandomSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
