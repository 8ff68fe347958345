// Package sections splits cleaned paper text into named sections and strips
// non-prose noise (tables, figures, author blocks, publisher metadata) from
// their content before it is handed to a translation capability.
package sections

import (
	"regexp"
	"strings"
)

// KeywordGroup maps a canonical section name to the header keywords that
// select it. Matching is case-insensitive prefix matching after any leading
// section number is removed.
type KeywordGroup struct {
	Name     string
	Keywords []string
}

// KeywordSet is the ordered list of canonical section groups. It is passed
// into the segmenter as configuration so rule variants can be unit tested
// without touching process-wide state.
type KeywordSet []KeywordGroup

// DefaultKeywords covers the section vocabulary of ML/IR conference papers.
func DefaultKeywords() KeywordSet {
	return KeywordSet{
		{"Abstract", []string{"abstract"}},
		{"Introduction", []string{"introduction", "intro"}},
		{"Preliminaries", []string{"preliminary", "preliminaries", "problem definition", "problem statement", "problem formulation", "problem setup"}},
		{"Motivation", []string{"motivation"}},
		{"Related Work", []string{"related work", "related works", "background", "literature review", "prior work"}},
		{"Method", []string{"method", "methods", "methodology", "approach", "proposed method", "proposed approach", "our method", "our approach", "model", "framework", "architecture", "our framework", "proposed framework"}},
		{"Experiments", []string{"experiment", "experiments", "evaluation", "empirical study", "empirical evaluation", "experimental setup", "experimental results", "results"}},
		{"Analysis", []string{"analysis", "ablation", "ablation study", "ablation studies"}},
		{"Discussion", []string{"discussion", "discussions"}},
		{"Conclusion", []string{"conclusion", "conclusions", "summary", "future work", "concluding remarks"}},
		{"Acknowledgments", []string{"acknowledgment", "acknowledgments", "acknowledgement", "acknowledgements"}},
		{"References", []string{"reference", "references", "bibliography"}},
		{"Appendix", []string{"appendix", "supplementary", "supplementary material"}},
	}
}

var (
	leadingNumberRe = regexp.MustCompile(`^[\dIVXivx.]+\s+|^[\d.]+\s*`)
	numberedTitleRe = regexp.MustCompile(`^[\d.]+\.?\s+[A-Z]|^[IVX]+\.\s+[A-Z]`)
)

// Canonical returns the canonical section name for a header line, if the line
// matches one of the keyword groups.
func (ks KeywordSet) Canonical(line string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(line))
	cleaned = strings.TrimSpace(leadingNumberRe.ReplaceAllString(cleaned, ""))
	if cleaned == "" {
		return "", false
	}
	for _, group := range ks {
		for _, kw := range group.Keywords {
			if strings.HasPrefix(cleaned, kw) {
				return group.Name, true
			}
		}
	}
	return "", false
}

// IsHeaderLine reports whether a line looks like a section header: a canonical
// keyword match, a short all-caps line, or a numbered line starting with a
// capital letter.
func (ks KeywordSet) IsHeaderLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || len(line) > 100 {
		return false
	}
	if _, ok := ks.Canonical(line); ok {
		return true
	}
	if len(line) < 50 && isAllCaps(line) {
		return true
	}
	if len(line) < 80 && numberedTitleRe.MatchString(line) {
		return true
	}
	return false
}

// isAllCaps reports whether every letter in the line is uppercase and the line
// contains at least one letter.
func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
