package layout

import "strings"

// publisher/front-matter vocabulary that disqualifies a line from being the
// paper title.
var titleSkipWords = []string{
	"journal", "proceedings", "conference", "transactions",
	"research article", "review article", "original article",
	"open access", "vol.", "volume", "issn", "isbn",
	"published", "accepted", "received", "revised",
	"latest update", "copyright", "license", "creative commons",
	"springer", "elsevier", "wiley", "ieee", "acm",
	"preprint", "submitted",
}

// ExtractTitle guesses the paper title from the first page: the first
// substantial line that is not an author/affiliation line, identifier, date,
// or publisher header. Returns "" when nothing qualifies.
func ExtractTitle(pages []Page) string {
	if len(pages) == 0 {
		return ""
	}

	lines := FlattenLines(Reconstruct(pages[0], DefaultConfig()))
	checked := 0
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if checked++; checked > 15 {
			break
		}
		if len(line) < 10 {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(line, "@") || strings.Contains(lower, "university") || strings.Contains(lower, "institute") {
			continue
		}
		if strings.HasPrefix(lower, "arxiv") || strings.HasPrefix(line, "20") {
			continue
		}
		if strings.Contains(lower, "http") || strings.Contains(lower, "doi.org") ||
			strings.Contains(lower, "doi:") || strings.HasPrefix(line, "10.") {
			continue
		}
		if containsAny(lower, titleSkipWords) {
			continue
		}
		return line
	}
	return ""
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
