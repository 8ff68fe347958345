package textproc

import (
	"regexp"
	"strings"
)

var (
	multiSpaceRe   = regexp.MustCompile(`\s+`)
	hyphenBreakRe  = regexp.MustCompile(`(\w)- (\w)`)
	excessBlanksRe = regexp.MustCompile(`\n{3,}`)
	continuationRe = regexp.MustCompile(`(?i)^(and|or|but|that|which|where|when|while|with|for|to|of|in|on|at|by|from|as|is|are|was|were|has|have|had|can|could|will|would|may|might)\b`)
)

// JoinParagraphs rebuilds flowing paragraphs from a wrapped line stream.
// isHeader decides whether a line is a section header; header lines are
// emitted on their own surrounded by blank lines so the segmenter can detect
// them unambiguously. The joining rules are best-effort sentence-flow
// heuristics: a false join or split is acceptable noise, not a failure.
func JoinParagraphs(lines []string, isHeader func(string) bool) string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		paragraphs = append(paragraphs, finishParagraph(current))
		current = nil
	}

	for _, raw := range lines {
		line := trim(raw)

		if line == "" {
			flush()
			continue
		}

		if isHeader != nil && isHeader(line) {
			flush()
			paragraphs = append(paragraphs, "", line, "")
			continue
		}

		if len(current) > 0 {
			prev := current[len(current)-1]
			if shouldJoin(prev, line) {
				if strings.HasSuffix(prev, "-") {
					// Word broken across lines: drop the hyphen.
					current[len(current)-1] = prev[:len(prev)-1] + line
				} else {
					current = append(current, line)
				}
				continue
			}
			flush()
		}
		current = append(current, line)
	}
	flush()

	result := strings.Join(paragraphs, "\n\n")
	result = excessBlanksRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// shouldJoin decides whether curr continues the sentence ended by prev.
func shouldJoin(prev, curr string) bool {
	if prev == "" || curr == "" {
		return false
	}
	if strings.HasSuffix(prev, "-") {
		return true
	}
	if startsLower(curr) {
		return true
	}
	if continuationRe.MatchString(curr) {
		return true
	}
	if strings.ContainsRune(".!?:", rune(prev[len(prev)-1])) {
		return false
	}
	// Previous line did not finish its sentence.
	return true
}

func finishParagraph(lines []string) string {
	text := strings.Join(lines, " ")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")
	return strings.TrimSpace(text)
}

func startsLower(s string) bool {
	r := []rune(s)[0]
	return r >= 'a' && r <= 'z'
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
