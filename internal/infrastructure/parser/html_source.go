package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"DailyKnowledge/internal/domain"
	"DailyKnowledge/internal/ports"
)

const defaultSelector = "#mw-content-text li a"

// HTMLSource scrapes link texts from a page and uses them as topic hints.
type HTMLSource struct {
	client    *http.Client
	pageURL   string
	selector  string
	limit     int
	userAgent string
	logger    *slog.Logger
}

var _ ports.TopicSource = (*HTMLSource)(nil)

// NewHTMLSource wires an HTTP client; the selector defaults to article-body links.
func NewHTMLSource(client *http.Client, pageURL, selector string, limit int, userAgent string, log *slog.Logger) *HTMLSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if selector == "" {
		selector = defaultSelector
	}
	if limit <= 0 {
		limit = 25
	}
	return &HTMLSource{
		client:    client,
		pageURL:   pageURL,
		selector:  selector,
		limit:     limit,
		userAgent: userAgent,
		logger:    log,
	}
}

// Name identifies the source inside the registry.
func (h *HTMLSource) Name() string {
	return "html"
}

// Titles returns up to limit distinct, non-empty texts in document order.
func (h *HTMLSource) Titles(ctx context.Context) ([]string, error) {
	doc, err := h.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}

	titles := extractTitles(doc, h.selector, h.limit)
	if len(titles) == 0 {
		return nil, domain.Errorf(domain.KindShapeMismatch, "extract titles", "selector %q matched nothing on %s", h.selector, h.pageURL)
	}

	if h.logger != nil {
		h.logger.Debug("html titles extracted", "url", h.pageURL, "count", len(titles))
	}
	return titles, nil
}

func (h *HTMLSource) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.pageURL, nil)
	if err != nil {
		return nil, domain.NewError(domain.KindNetwork, "build request", err)
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.KindNetwork, "request document", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewError(domain.KindNetwork, "request document", fmt.Errorf("%s returned %s", h.pageURL, resp.Status))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, domain.NewError(domain.KindDecode, "parse document", err)
	}

	return doc, nil
}

func extractTitles(doc *goquery.Document, selector string, limit int) []string {
	var (
		titles []string
		seen   = map[string]struct{}{}
	)

	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" {
			return true
		}
		if _, ok := seen[text]; ok {
			return true
		}
		seen[text] = struct{}{}
		titles = append(titles, text)
		return len(titles) < limit
	})

	return titles
}
