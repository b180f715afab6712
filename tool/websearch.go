package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const duckDuckGoURL = "https://api.duckduckgo.com/"

// defaultMaxResults caps web_search when the model does not ask for a count.
const defaultMaxResults = 5

// WebSearchArgs are the arguments of the web_search tool.
type WebSearchArgs struct {
	Query      string `json:"query" jsonschema:"required,description=Search keywords"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Number of results to return,minimum=1,maximum=20,default=5"`
}

// SearchResult is one web search hit.
type SearchResult struct {
	Title string
	Body  string
	URL   string
}

type duckDuckGoResponse struct {
	Heading       string          `json:"Heading"`
	AbstractText  string          `json:"AbstractText"`
	AbstractURL   string          `json:"AbstractURL"`
	RelatedTopics []duckDuckTopic `json:"RelatedTopics"`
	Results       []duckDuckTopic `json:"Results"`
}

type duckDuckTopic struct {
	Text     string          `json:"Text"`
	FirstURL string          `json:"FirstURL"`
	Name     string          `json:"Name"`
	Topics   []duckDuckTopic `json:"Topics"`
}

// WebSearch returns the web_search tool backed by the DuckDuckGo instant
// answer API.
func WebSearch(opts ...HTTPOption) Registration {
	return webSearch(duckDuckGoURL, opts...)
}

func webSearch(endpoint string, opts ...HTTPOption) Registration {
	cfg := applyHTTPOpts(opts)
	return Func("web_search", "Search the internet with DuckDuckGo for up-to-date information",
		func(ctx context.Context, args WebSearchArgs) (string, error) {
			limit := args.MaxResults
			if limit <= 0 {
				limit = defaultMaxResults
			}

			query := url.Values{}
			query.Set("q", args.Query)
			query.Set("format", "json")
			query.Set("no_html", "1")
			query.Set("skip_disambig", "1")

			body, err := cfg.get(ctx, endpoint, query)
			if err != nil {
				return "", fmt.Errorf("search failed: %w", err)
			}
			var resp duckDuckGoResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return "", fmt.Errorf("search failed: %w", err)
			}

			results := collectResults(resp, limit)
			if len(results) == 0 {
				return fmt.Sprintf("No search results found for %q", args.Query), nil
			}
			return FormatSearchResults(results), nil
		})
}

func collectResults(resp duckDuckGoResponse, limit int) []SearchResult {
	var results []SearchResult
	add := func(r SearchResult) bool {
		if len(results) >= limit {
			return false
		}
		results = append(results, r)
		return true
	}

	if resp.AbstractText != "" {
		add(SearchResult{Title: resp.Heading, Body: resp.AbstractText, URL: resp.AbstractURL})
	}
	var walk func(topics []duckDuckTopic) bool
	walk = func(topics []duckDuckTopic) bool {
		for _, t := range topics {
			if len(t.Topics) > 0 {
				if !walk(t.Topics) {
					return false
				}
				continue
			}
			if t.Text == "" {
				continue
			}
			title, _, _ := strings.Cut(t.Text, " - ")
			if !add(SearchResult{Title: title, Body: t.Text, URL: t.FirstURL}) {
				return false
			}
		}
		return true
	}
	if walk(resp.Results) {
		walk(resp.RelatedTopics)
	}
	return results
}

// FormatSearchResults renders results as a numbered list.
func FormatSearchResults(results []SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search results (%d):\n\n", len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		body := r.Body
		if body == "" {
			body = "No description"
		}
		fmt.Fprintf(&b, "%d. **%s**\n%s\n%s\n\n", i+1, title, body, r.URL)
	}
	return strings.TrimSpace(b.String())
}
