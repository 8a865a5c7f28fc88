package agents

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/logging"
)

// maxSearchResults caps how many matches a search reports.
const maxSearchResults = 10

// "find the ownership document", "locate report.pdf", "search my tax pdf"
var fileQueryPattern = regexp.MustCompile(`(?i)\b(?:find|search(?:\s+for)?|locate|open|show me)\s+(?:the\s+|my\s+|a\s+)?(.+)`)

// queryNoiseWords carry no signal for filename matching.
var queryNoiseWords = map[string]struct{}{
	"file": {}, "document": {}, "folder": {}, "called": {}, "named": {},
	"on": {}, "in": {}, "my": {}, "the": {}, "a": {}, "an": {},
}

// FileMatch is one scored search hit.
type FileMatch struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// FileSearchAgent finds files under the configured roots by fuzzy name match.
type FileSearchAgent struct {
	roots []string
	log   zerolog.Logger
}

// NewFileSearch creates the file search agent scanning the given roots.
// Empty roots default to the user's home directory.
func NewFileSearch(roots []string) *FileSearchAgent {
	if len(roots) == 0 {
		if home, err := os.UserHomeDir(); err == nil {
			roots = []string{home}
		}
	}
	return &FileSearchAgent{roots: roots, log: logging.Component("filesearch")}
}

// Name implements agent.Agent.
func (f *FileSearchAgent) Name() string { return "filesearch" }

// Process extracts the file query and walks the roots for matches. The best
// match's path is exposed as file_path for workflow extraction.
func (f *FileSearchAgent) Process(ctx context.Context, command string) *agent.Result {
	query := parseFileQuery(command)
	if query == "" {
		return agent.Fail("could not tell what file to look for; try 'find [file name]'")
	}

	matches := f.search(ctx, query)
	if len(matches) == 0 {
		return agent.Fail(fmt.Sprintf("no files matching %q were found", query))
	}

	f.log.Info().Str("query", query).Int("matches", len(matches)).Msg("file search done")

	msg := fmt.Sprintf("Found %s", matches[0].Path)
	if len(matches) > 1 {
		msg += fmt.Sprintf(" (and %d more match(es))", len(matches)-1)
	}
	return agent.OK(msg).
		With("file_path", matches[0].Path).
		With("search_results", matches).
		With("query", query)
}

func parseFileQuery(command string) string {
	m := fileQueryPattern.FindStringSubmatch(command)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// search walks every root scoring filenames against the query terms.
func (f *FileSearchAgent) search(ctx context.Context, query string) []FileMatch {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil
	}

	var matches []FileMatch
	for _, root := range f.roots {
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable entries are skipped, not fatal
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			name := d.Name()
			if d.IsDir() {
				// Hidden trees are large and rarely what the user means.
				if strings.HasPrefix(name, ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if score := scoreFilename(name, terms); score > 0 {
				matches = append(matches, FileMatch{Path: path, Name: name, Score: score})
			}
			return nil
		})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > maxSearchResults {
		matches = matches[:maxSearchResults]
	}
	return matches
}

// queryTerms splits the query into matchable lowercase words, dropping noise.
func queryTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if _, noise := queryNoiseWords[w]; noise {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

// scoreFilename rewards filenames containing more of the query terms, with a
// bonus for exact filename matches.
func scoreFilename(name string, terms []string) int {
	lower := strings.ToLower(name)
	base := strings.TrimSuffix(lower, filepath.Ext(lower))

	score := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 10
			if base == term {
				score += 20
			}
		}
	}
	if score > 0 && strings.Contains(lower, strings.Join(terms, " ")) {
		score += 15
	}
	return score
}
