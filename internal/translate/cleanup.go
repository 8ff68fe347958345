package translate

import (
	"regexp"
	"strings"
)

// Model output carries artifacts of its own: chunk position labels the model
// echoes back, restated section headers, leaked instruction fragments. These
// rules strip them while leaving the pipeline's own placeholder markers
// ([table omitted], [figure omitted], [translation failed: ...]) intact.
var (
	chunkLabelRe   = regexp.MustCompile(`^\(?\d+\s*/\s*\d+\)?$`)
	sectionLabelRe = regexp.MustCompile(`(?i)^\*{0,2}(section|part)\s*\d+(\s*/\s*\d+)?\*{0,2}:?$`)
	bannerRe       = regexp.MustCompile(`(?i)^(KDD|SIGKDD|NeurIPS|ICML|ICLR|AAAI|IJCAI|ACL|EMNLP|NAACL|CVPR|ICCV|ECCV|SIGIR|WWW|WSDM)('\d{2}|\s*'?\d{2,4})?[,:]?\s`)
	instructionRe  = regexp.MustCompile(`(?i)^\[(note|translation note|translator'?s note)[^\]]*\]$`)
	keptMarkerRe   = regexp.MustCompile(`^\[(table omitted|figure omitted|reference section omitted|translation failed:.*)\]$`)
	tripleBlankRe  = regexp.MustCompile(`\n{3,}`)
)

// CleanTranslation removes model-introduced artifacts from translated text.
func CleanTranslation(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if keptMarkerRe.MatchString(trimmed) {
			out = append(out, line)
			continue
		}
		if chunkLabelRe.MatchString(trimmed) ||
			sectionLabelRe.MatchString(trimmed) ||
			instructionRe.MatchString(trimmed) {
			continue
		}
		if bannerRe.MatchString(trimmed) && len(trimmed) < 80 {
			continue
		}
		out = append(out, line)
	}

	result := strings.Join(out, "\n")
	result = tripleBlankRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

var (
	headingMarkRe = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	bulletStarRe  = regexp.MustCompile(`(?m)^(\s*)\*\s+`)
)

// CleanSummary normalizes the summary output to plain markdown: strips
// heading marks the renderer would misstyle and unifies bullet characters.
func CleanSummary(text string) string {
	result := headingMarkRe.ReplaceAllString(text, "")
	result = bulletStarRe.ReplaceAllString(result, "${1}- ")
	result = tripleBlankRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
