// Package textproc turns the raw line stream of a reconstructed PDF into
// flowing paragraph text: per-page artifacts (page numbers, running headers)
// are dropped first, then wrapped lines are re-joined into sentences.
package textproc

import "regexp"

// ConferenceNames feeds the running-header banner pattern. Extend via a custom
// Ruleset rather than editing in place.
const ConferenceNames = "KDD|SIGKDD|SIGIR|WWW|AAAI|ICML|NeurIPS|ICLR|ACL|EMNLP|NAACL|CVPR|ICCV|ECCV|CIKM|RecSys|WSDM"

// Ruleset holds the compiled artifact patterns. It is plain configuration
// data: construct one per pipeline instead of relying on package globals so
// rule variants can be tested in isolation.
type Ruleset struct {
	// PageArtifacts match on every page.
	PageArtifacts []*regexp.Regexp
	// RunningHeaders match only on pages after the first, where a conference
	// banner or arXiv identifier is a repeated header rather than real
	// front-matter.
	RunningHeaders []*regexp.Regexp
}

// DefaultRuleset returns the artifact patterns observed in two-column
// conference and arXiv papers.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		PageArtifacts: []*regexp.Regexp{
			regexp.MustCompile(`^\d+$`),
			regexp.MustCompile(`^-\s*\d+\s*-$`),
			regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`),
		},
		RunningHeaders: []*regexp.Regexp{
			regexp.MustCompile(`^(` + ConferenceNames + `)\s*['"]?\d{2}`),
			regexp.MustCompile(`^arXiv:\d{4}\.\d{4,5}`),
		},
	}
}

// CleanLines removes artifact lines from one page's line stream. pageIndex is
// 0-based; running headers are only stripped from pageIndex >= 1.
func (rs *Ruleset) CleanLines(lines []string, pageIndex int) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if rs.isArtifact(line, pageIndex) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func (rs *Ruleset) isArtifact(line string, pageIndex int) bool {
	trimmed := trim(line)
	if trimmed == "" {
		return false
	}
	for _, re := range rs.PageArtifacts {
		if re.MatchString(trimmed) {
			return true
		}
	}
	if pageIndex >= 1 {
		for _, re := range rs.RunningHeaders {
			if re.MatchString(trimmed) {
				return true
			}
		}
	}
	return false
}
