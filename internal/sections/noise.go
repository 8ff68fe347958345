package sections

import (
	"regexp"
	"strings"

	"github.com/jaehyuk-choi/papertrans/internal/textproc"
)

// Placeholder markers substituted for suppressed table/figure regions.
const (
	TableMarker     = "[table omitted]"
	FigureMarker    = "[figure omitted]"
	ReferenceMarker = "[reference section omitted]"
)

// NoiseRuleset bundles the per-section noise patterns and heuristic
// thresholds. The thresholds are empirically chosen; expose them as fields so
// they can be tuned against a corpus instead of hard-coding.
type NoiseRuleset struct {
	MetadataPatterns []*regexp.Regexp
	AuthorPatterns   []*regexp.Regexp

	// Author-name-list heuristic: a line of MinAuthorWords or more words where
	// more than CapitalizedRatio are capitalized and none is a common function
	// word is treated as an author list.
	MinAuthorWords   int
	CapitalizedRatio float64

	// Table/figure region heuristics.
	ProseLineLength int // a line longer than this ending in '.' closes a region
	MinNumericHits  int // decimal numbers on a short line marking stray table rows
}

var functionWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "may": true, "might": true,
	"must": true, "can": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "which": true, "where": true, "when": true,
}

// DefaultNoiseRuleset returns the metadata/table/figure patterns observed in
// ACM/IEEE/arXiv papers.
func DefaultNoiseRuleset() *NoiseRuleset {
	return &NoiseRuleset{
		MetadataPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)@.*\.(edu|com|org|cn|kr|ac)`),
			regexp.MustCompile(`^[A-Z][a-z]+\s+(University|Institute|Lab|College)`),
			regexp.MustCompile(`(?i)^\*.*corresponding author`),
			regexp.MustCompile(`^(Permission|ACM|Copyright|©|\d{4}\s+Copyright)`),
			regexp.MustCompile(`^(CCS\s+Concepts|ACM\s+Reference|Keywords:)`),
			regexp.MustCompile(`^https?://(doi\.org|dx\.doi)`),
			regexp.MustCompile(`^(ISBN|DOI|ISSN)\s*[\d-]`),
			regexp.MustCompile(`^arXiv:\d+\.\d+`),
			regexp.MustCompile(`^\s*permissions@acm\.org`),
			regexp.MustCompile(`^(` + textproc.ConferenceNames + `)\s*['"]?\d{2}`),
			regexp.MustCompile(`^\d{4}\s+(ACM|IEEE)`),
			regexp.MustCompile(`^Proceedings\s+of`),
			regexp.MustCompile(`^In\s+Proceedings`),
			regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d+.*\d{4}`),
			regexp.MustCompile(`^\d+\s+(pages?|pp\.)`),
			regexp.MustCompile(`(Sydney|Toronto|New York|Seattle|Vancouver|London|Paris|Singapore|Barcelona|San Francisco|Beijing|Shanghai|Seoul).*\d{4}`),
			regexp.MustCompile(`^[A-Z][a-z]+\s+(and|&)\s+[A-Z][a-z]+,?\s*(et\s+al\.?)?$`),
			regexp.MustCompile(`,\s*et\s+al\.\s*$`),
		},
		AuthorPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+[\*†]?\s+(University|Google|DeepMind|Microsoft|Meta|Amazon|Apple|Alibaba|Tencent|Baidu|Huawei|KAIST|Samsung|Naver|Kakao)`),
			regexp.MustCompile(`^([A-Z][a-z]+\s+[A-Z][a-z]+[\*†]?\s*,?\s*){3,}`),
			regexp.MustCompile(`(?i)@(gmail|google|edu|com|org|cn|kr|ac\.|mail)`),
			regexp.MustCompile(`^([A-Z][a-z]+\s+){4,}[A-Z][a-z]+$`),
			regexp.MustCompile(`^(University|Department|School|Institute|Lab|Google|DeepMind|Microsoft)\s+of`),
			regexp.MustCompile(`(?i)^\*\s*(Equal|Corresponding)`),
		},
		MinAuthorWords:   4,
		CapitalizedRatio: 0.7,
		ProseLineLength:  100,
		MinNumericHits:   3,
	}
}

// Filter applies both noise passes to a section's content: metadata noise
// first, then table/figure suppression. The result is what may leave the
// pipeline for translation.
func (rs *NoiseRuleset) Filter(text string) string {
	return rs.filterTablesAndFigures(rs.filterMetadata(text))
}

// authorNameRe matches a bare "Firstname Lastname" line, the usual start of a
// column-interleaved author block.
var authorNameRe = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+\s*$`)

// filterMetadata drops author/affiliation/copyright/identifier lines. Once a
// noise line is seen it opens an "author block" that also swallows the
// following short blank-separated runs, until two consecutive blank lines.
func (rs *NoiseRuleset) filterMetadata(text string) string {
	var kept []string
	inAuthorBlock := false
	blanks := 0

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if inAuthorBlock {
			if trimmed == "" {
				blanks++
				if blanks >= 2 {
					inAuthorBlock = false
				}
				continue
			}
			blanks = 0
		}

		skip := false
		for _, re := range rs.MetadataPatterns {
			if re.MatchString(trimmed) {
				skip = true
				break
			}
		}
		if !skip && rs.looksLikeAuthorList(trimmed) {
			skip = true
		}
		if !skip && authorNameRe.MatchString(trimmed) {
			skip = true
		}

		if skip {
			inAuthorBlock = true
			blanks = 0
			continue
		}
		if !inAuthorBlock {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// looksLikeAuthorList applies the capitalization-ratio heuristic: many words,
// mostly capitalized, no common function word present.
func (rs *NoiseRuleset) looksLikeAuthorList(line string) bool {
	if len(line) >= 200 {
		return false
	}
	words := strings.Fields(line)
	if len(words) < rs.MinAuthorWords {
		return false
	}
	capitalized := 0
	for _, w := range words {
		if functionWords[strings.ToLower(strings.Trim(w, ",.*†"))] {
			return false
		}
		r := []rune(w)
		if len(r) > 1 && r[0] >= 'A' && r[0] <= 'Z' {
			capitalized++
		}
	}
	return float64(capitalized)/float64(len(words)) > rs.CapitalizedRatio
}

var (
	tableCaptionRe  = regexp.MustCompile(`(?i)^(table|표)\s*\d+`)
	figureCaptionRe = regexp.MustCompile(`(?i)^(figure|fig\.?|그림)\s*\d+`)
	tableDataRe     = regexp.MustCompile(`^\s*[\w\-()]+\s+\d+\.?\d*\s+\d+\.?\d*`)
	numericHeavyRe  = regexp.MustCompile(`(\d+\.?\d*\s+){3,}`)
	headerRowRe     = regexp.MustCompile(`(?i)^\s*(Model|Dataset|Method|Metric|NG@|HR@|MRR|AUC|Recall|Precision|NDCG|F1)`)
	modelYearRe     = regexp.MustCompile(`^[A-Z]+[a-z]*-?[A-Z]*\s*\(\d{4}\)\s+\d`)
	dupTableMarkRe  = regexp.MustCompile(`(\[table omitted\]\s*)+`)
	dupFigureMarkRe = regexp.MustCompile(`(\[figure omitted\]\s*)+`)
	tripleBlankRe   = regexp.MustCompile(`\n{3,}`)
)

// filterTablesAndFigures replaces table/figure regions with a single
// placeholder marker. A region opens at a "Table N"/"Figure N" caption and
// closes on two consecutive blank lines or a long prose line ending in a
// period. Outside regions, short numeric-heavy lines are dropped as stray
// table rows.
func (rs *NoiseRuleset) filterTablesAndFigures(text string) string {
	var kept []string
	inRegion := false
	blanks := 0

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if tableCaptionRe.MatchString(trimmed) {
			if !inRegion {
				kept = append(kept, "", TableMarker, "")
			}
			inRegion = true
			blanks = 0
			continue
		}
		if figureCaptionRe.MatchString(trimmed) {
			if !inRegion {
				kept = append(kept, "", FigureMarker, "")
			}
			inRegion = true
			blanks = 0
			continue
		}

		if inRegion {
			if trimmed == "" {
				blanks++
				if blanks >= 2 {
					inRegion = false
				}
				continue
			}
			blanks = 0

			if tableDataRe.MatchString(trimmed) || headerRowRe.MatchString(trimmed) {
				continue
			}
			// Long prose sentence: the region is over.
			if len(trimmed) > rs.ProseLineLength && strings.HasSuffix(trimmed, ".") {
				inRegion = false
				kept = append(kept, line)
				continue
			}
			// Still caption/label territory.
			continue
		}

		if modelYearRe.MatchString(trimmed) {
			continue
		}
		if len(trimmed) < 200 && numericHeavyRe.MatchString(trimmed) {
			continue
		}
		if tableDataRe.MatchString(trimmed) {
			continue
		}

		kept = append(kept, line)
	}

	result := strings.Join(kept, "\n")
	result = dupTableMarkRe.ReplaceAllString(result, TableMarker+"\n")
	result = dupFigureMarkRe.ReplaceAllString(result, FigureMarker+"\n")
	result = tripleBlankRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// StripAuthors removes author names and affiliations that leaked into a
// section body, typically the abstract.
func (rs *NoiseRuleset) StripAuthors(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		skip := false
		for _, re := range rs.AuthorPatterns {
			if re.MatchString(trimmed) {
				skip = true
				break
			}
		}
		if !skip && rs.looksLikeAuthorList(trimmed) {
			skip = true
		}
		if !skip {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
