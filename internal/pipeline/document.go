// Package pipeline orchestrates paper processing jobs: fetch, layout
// extraction, section segmentation, chunked translation with per-chunk
// failure isolation, and summarization.
package pipeline

// Mode selects what a job produces.
type Mode string

const (
	ModeTranslate Mode = "translate"
	ModeSummarize Mode = "summarize"
)

// TranslatedSection pairs a section's reconstructed source text with its
// translation, in document order.
type TranslatedSection struct {
	Name       string `json:"name"`
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// TranslateResult is the completed output of a translate job.
type TranslateResult struct {
	Title      string              `json:"title"`
	TargetLang string              `json:"target_lang"`
	Sections   []TranslatedSection `json:"sections"`
}

// SummaryResult is the completed output of a summarize job.
type SummaryResult struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}
