package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
)

const (
	maxSnippetsPerProvider = 5
	toolCallTimeout        = 10 * time.Second
)

// executorFunc executes one provider call and returns its normalized
// snippets. It must never return an error to the caller — failures are
// represented as error snippets, per §4.6.
type executorFunc func(ctx context.Context, e *Executor, providerID string, query string, category Category) []models.ToolSnippet

// Executor invokes chosen providers under hard timeouts and normalizes
// their output into snippets. Dispatch is a tagged-variant table keyed by
// category, with a per-provider override map taking precedence — the
// same shape the planner's category catalog assumes, per §9's guidance
// against deep class hierarchies.
type Executor struct {
	registry           *Registry
	httpClient         *http.Client
	categoryExecutors  map[Category]executorFunc
	providerOverrides  map[string]executorFunc
	logger             zerolog.Logger
}

// NewExecutor constructs an Executor backed by registry.
func NewExecutor(registry *Registry) *Executor {
	e := &Executor{
		registry:   registry,
		httpClient: &http.Client{Timeout: toolCallTimeout},
		logger:     util.NewLogger(zerolog.ErrorLevel),
	}

	e.categoryExecutors = map[Category]executorFunc{
		CategoryGeneric: genericSearch,
	}
	e.providerOverrides = map[string]executorFunc{}

	return e
}

// RegisterProviderOverride installs a provider-specific executor that
// takes precedence over the category-level dispatch for providerID.
func (e *Executor) RegisterProviderOverride(providerID string, fn executorFunc) {
	e.providerOverrides[providerID] = fn
}

// Execute runs readyProviders against query/category, returning the
// concatenation of every provider's snippets (capped per provider at
// maxSnippetsPerProvider). Execute itself never raises: any per-provider
// failure becomes an error snippet.
func (e *Executor) Execute(ctx context.Context, readyProviders []string, query string, category Category) []models.ToolSnippet {
	var all []models.ToolSnippet

	for _, providerID := range readyProviders {
		ctx, cancel := context.WithTimeout(ctx, toolCallTimeout)
		snippets := e.executeOne(ctx, providerID, query, category)
		cancel()

		if len(snippets) > maxSnippetsPerProvider {
			snippets = snippets[:maxSnippetsPerProvider]
		}
		all = append(all, snippets...)
	}

	return all
}

func (e *Executor) executeOne(ctx context.Context, providerID, query string, category Category) []models.ToolSnippet {
	if fn, ok := e.providerOverrides[providerID]; ok {
		return safeCall(fn, ctx, e, providerID, query, category)
	}
	if fn, ok := e.categoryExecutors[category]; ok {
		return safeCall(fn, ctx, e, providerID, query, category)
	}
	return genericHTTPProvider(ctx, e, providerID, query, category)
}

// safeCall wraps an executorFunc so a panic inside a provider
// implementation degrades to an error snippet rather than crashing the
// query, matching §4.6's "every call is wrapped" contract.
func safeCall(fn executorFunc, ctx context.Context, e *Executor, providerID, query string, category Category) (snippets []models.ToolSnippet) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Str("provider", providerID).Msg("tool executor panicked")
			snippets = []models.ToolSnippet{errorSnippet(providerID, category)}
		}
	}()
	return fn(ctx, e, providerID, query, category)
}

func errorSnippet(providerID string, category Category) models.ToolSnippet {
	return models.ToolSnippet{
		Tool:      providerID,
		Category:  string(category),
		Text:      "Tool failed or unavailable",
		URL:       "",
		FetchedAt: time.Now().Unix(),
		Error:     true,
	}
}

// genericSearch implements the generic category: SerpAPI first, falling
// back to a DuckDuckGo HTML scrape on failure.
func genericSearch(ctx context.Context, e *Executor, providerID, query string, category Category) []models.ToolSnippet {
	if providerID == "serpapi" || e.registry.IsReady("serpapi") {
		if snippets := serpAPISearch(ctx, e, query, category); snippets != nil {
			return snippets
		}
	}
	return duckDuckGoScrape(ctx, e, query, category)
}

func serpAPISearch(ctx context.Context, e *Executor, query string, category Category) []models.ToolSnippet {
	creds := e.registry.Credentials("serpapi")
	apiKey := creds["api_key"]
	if apiKey == "" {
		return nil
	}

	endpoint := fmt.Sprintf(
		"https://serpapi.com/search.json?q=%s&api_key=%s",
		url.QueryEscape(query), url.QueryEscape(apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var parsed struct {
		OrganicResults []struct {
			Snippet string `json:"snippet"`
			Link    string `json:"link"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil
	}

	snippets := make([]models.ToolSnippet, 0, len(parsed.OrganicResults))
	for _, r := range parsed.OrganicResults {
		if r.Snippet == "" {
			continue
		}
		snippets = append(snippets, models.ToolSnippet{
			Tool:      "serpapi",
			Category:  string(category),
			Text:      r.Snippet,
			URL:       r.Link,
			FetchedAt: time.Now().Unix(),
		})
	}
	if len(snippets) == 0 {
		return nil
	}
	return snippets
}

// duckDuckGoScrape scrapes DuckDuckGo's HTML (non-JS) search results page
// using goquery, normalizing each result snippet through
// html-to-markdown so provider-specific markup never leaks into the
// synthesizer's fact lists.
func duckDuckGoScrape(ctx context.Context, e *Executor, query string, category Category) []models.ToolSnippet {
	endpoint := "https://html.duckduckgo.com/html/?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return []models.ToolSnippet{errorSnippet("duckduckgo_html", category)}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; bfsi-research-agent/1.0)")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return []models.ToolSnippet{errorSnippet("duckduckgo_html", category)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return []models.ToolSnippet{errorSnippet("duckduckgo_html", category)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return []models.ToolSnippet{errorSnippet("duckduckgo_html", category)}
	}

	converter := htmltomarkdown.NewConverter("", true, nil)

	var snippets []models.ToolSnippet
	doc.Find(".result__body").Each(func(_ int, s *goquery.Selection) {
		if len(snippets) >= maxSnippetsPerProvider {
			return
		}

		link, _ := s.Find(".result__a").Attr("href")
		snippetHTML, err := s.Find(".result__snippet").Html()
		if err != nil {
			return
		}

		text, err := converter.ConvertString(snippetHTML)
		if err != nil {
			text = s.Find(".result__snippet").Text()
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}

		snippets = append(snippets, models.ToolSnippet{
			Tool:      "duckduckgo_html",
			Category:  string(category),
			Text:      text,
			URL:       link,
			FetchedAt: time.Now().Unix(),
		})
	})

	if len(snippets) == 0 {
		return []models.ToolSnippet{errorSnippet("duckduckgo_html", category)}
	}
	return snippets
}

// genericHTTPProvider constructs an HTTP request from the provider's
// endpoint_template, substituting {q} and credential placeholders, for
// any provider without a dedicated override.
func genericHTTPProvider(ctx context.Context, e *Executor, providerID, query string, category Category) []models.ToolSnippet {
	cfg, ok := e.registry.providers[providerID]
	if !ok {
		return []models.ToolSnippet{errorSnippet(providerID, category)}
	}

	endpoint := cfg.EndpointTemplate
	endpoint = strings.ReplaceAll(endpoint, "{q}", url.QueryEscape(query))
	for field, value := range e.registry.Credentials(providerID) {
		endpoint = strings.ReplaceAll(endpoint, "{"+field+"}", url.QueryEscape(value))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return []models.ToolSnippet{errorSnippet(providerID, category)}
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return []models.ToolSnippet{errorSnippet(providerID, category)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return []models.ToolSnippet{errorSnippet(providerID, category)}
	}

	var parsed struct {
		Text string `json:"text"`
		URL  string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || parsed.Text == "" {
		return []models.ToolSnippet{errorSnippet(providerID, category)}
	}

	return []models.ToolSnippet{{
		Tool:      providerID,
		Category:  string(category),
		Text:      parsed.Text,
		URL:       parsed.URL,
		FetchedAt: time.Now().Unix(),
	}}
}
