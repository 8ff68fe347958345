package sections

import (
	"strings"
	"unicode"
)

// Section is a named logical division of the paper in document order.
type Section struct {
	Name    string
	Content string
}

// FallbackName is used when no section boundary is ever detected.
const FallbackName = "Full Paper"

// skipNames are sections that never reach the translation capability.
// References are replaced by a marker; the others pass through untranslated.
var skipNames = map[string]bool{
	"References":      true,
	"Acknowledgments": true,
	"Appendix":        true,
}

// SkipTranslation reports whether a section body should bypass translation.
func SkipTranslation(name string) bool {
	return skipNames[name]
}

// Segmenter splits joined paper text into sections. Keywords and the noise
// ruleset are injected so tests can run against isolated rule variants.
type Segmenter struct {
	Keywords KeywordSet
	Noise    *NoiseRuleset
}

// NewSegmenter builds a segmenter with the default rule configuration.
func NewSegmenter() *Segmenter {
	return &Segmenter{
		Keywords: DefaultKeywords(),
		Noise:    DefaultNoiseRuleset(),
	}
}

// Segment scans the text line by line for section boundaries. Content before
// the first boundary (title and author block) is discarded. Abstract content
// additionally passes the author stripper, since abstracts commonly absorb
// misplaced author blocks. When no boundary is found at all, the whole text
// becomes one "Full Paper" section.
func (sg *Segmenter) Segment(text string) []Section {
	var result []Section
	var current string
	var content []string
	foundFirst := false

	closeCurrent := func() {
		if current == "" {
			return
		}
		body := strings.TrimSpace(strings.Join(content, "\n"))
		if body == "" {
			return
		}
		if current == "Abstract" {
			body = sg.Noise.StripAuthors(body)
		}
		result = append(result, Section{Name: current, Content: body})
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		name, canonical := sg.Keywords.Canonical(trimmed)
		boundary := canonical && sg.Keywords.IsHeaderLine(trimmed)
		if !boundary && foundFirst && len(trimmed) > 0 && len(trimmed) < 100 && sg.Keywords.IsHeaderLine(trimmed) {
			boundary = true
		}

		if boundary {
			foundFirst = true
			closeCurrent()
			if canonical {
				current = name
			} else {
				current = headerTitle(trimmed)
			}
			content = nil
			continue
		}

		if foundFirst {
			content = append(content, line)
		}
		// Content before the first header (title, authors) is skipped.
	}
	closeCurrent()

	if len(result) == 0 {
		return []Section{{Name: FallbackName, Content: strings.TrimSpace(text)}}
	}
	return result
}

// headerTitle cleans a detected-but-unmatched header line into a section name:
// leading numbering removed, anything after a colon dropped, title case.
func headerTitle(line string) string {
	cleaned := leadingNumberRe.ReplaceAllString(line, "")
	if idx := strings.Index(cleaned, ":"); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "Section"
	}
	return titleCase(cleaned)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
