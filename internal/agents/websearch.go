package agents

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/logging"
)

// searchEngines maps engine keywords to query URL prefixes.
var searchEngines = map[string]string{
	"google":     "https://www.google.com/search?q=",
	"bing":       "https://www.bing.com/search?q=",
	"duckduckgo": "https://duckduckgo.com/?q=",
	"youtube":    "https://www.youtube.com/results?search_query=",
	"scholar":    "https://scholar.google.com/scholar?q=",
	"maps":       "https://www.google.com/maps/search/",
	"images":     "https://www.google.com/search?tbm=isch&q=",
}

// "search for X", "google X", "look up X on youtube"
var searchQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:search for|look up|google|find on google|browse for)\s+(.+)`),
	regexp.MustCompile(`(?i)\bsearch\s+(.+)`),
}

// WebSearchAgent turns search commands into engine query URLs.
type WebSearchAgent struct {
	opener URLOpener
	log    zerolog.Logger
}

// NewWebSearch creates the web search agent. opener may be nil.
func NewWebSearch(opener URLOpener) *WebSearchAgent {
	return &WebSearchAgent{opener: opener, log: logging.Component("websearch")}
}

// Name implements agent.Agent.
func (w *WebSearchAgent) Name() string { return "websearch" }

// Process extracts the query and engine and builds the search URL. The
// engine defaults to Google and is chosen by keyword anywhere in the command.
func (w *WebSearchAgent) Process(_ context.Context, command string) *agent.Result {
	query := parseSearchQuery(command)
	if query == "" {
		return agent.Fail("could not tell what to search for; try 'search for [query]'")
	}

	engine := "google"
	lower := strings.ToLower(command)
	for name := range searchEngines {
		if name != "google" && strings.Contains(lower, name) {
			engine = name
			// The engine keyword is not part of the query.
			query = strings.TrimSpace(trimEngineSuffix(query, name))
			break
		}
	}
	if query == "" {
		return agent.Fail("could not tell what to search for; try 'search for [query]'")
	}

	searchURL := SearchURL(engine, query)
	if err := open(w.opener, searchURL); err != nil {
		return agent.Fail(fmt.Sprintf("could not open search: %v", err))
	}
	w.log.Info().Str("engine", engine).Str("query", query).Msg("search ready")

	return agent.OK(fmt.Sprintf("Searching %s for %q", engine, query)).
		With("search_url", searchURL).
		With("engine", engine).
		With("query", query)
}

func parseSearchQuery(command string) string {
	for _, p := range searchQueryPatterns {
		if m := p.FindStringSubmatch(command); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// trimEngineSuffix strips "... on youtube" style qualifiers off the query.
func trimEngineSuffix(query, engine string) string {
	lower := strings.ToLower(query)
	for _, sep := range []string{" on " + engine, " in " + engine, " " + engine} {
		if idx := strings.LastIndex(lower, sep); idx >= 0 {
			return query[:idx]
		}
	}
	return query
}

// SearchURL builds a search query URL for the named engine.
func SearchURL(engine, query string) string {
	base, ok := searchEngines[engine]
	if !ok {
		base = searchEngines["google"]
	}
	return base + url.QueryEscape(query)
}
