// Package chunker splits long section text into bounded-size pieces at the
// best available boundary, so each piece fits a translation capability's input
// limit while remaining reassemblable.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// Config controls chunk sizing.
type Config struct {
	// MaxChars is the chunk size budget in bytes of UTF-8 text.
	MaxChars int
	// BoundaryFloor is the minimum fraction of the budget a boundary must lie
	// past for it to be preferred over a harder cut.
	BoundaryFloor float64
}

// DefaultConfig sizes chunks for a local LLM's context window.
func DefaultConfig() Config {
	return Config{
		MaxChars:      5000,
		BoundaryFloor: 0.5,
	}
}

// Split cuts text into chunks of at most MaxChars, preferring in order: a
// paragraph break, a sentence-ending period, or any newline, each only when it
// falls past BoundaryFloor of the budget, and finally a hard cut.
// Concatenating the chunks reproduces the input up to boundary whitespace.
func Split(text string, cfg Config) []string {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 5000
	}
	if cfg.BoundaryFloor <= 0 || cfg.BoundaryFloor >= 1 {
		cfg.BoundaryFloor = 0.5
	}

	if len(text) <= cfg.MaxChars {
		return []string{text}
	}

	floor := int(float64(cfg.MaxChars) * cfg.BoundaryFloor)
	var chunks []string
	remaining := text

	for remaining != "" {
		if len(remaining) <= cfg.MaxChars {
			chunks = append(chunks, remaining)
			break
		}

		window := remaining[:cfg.MaxChars]
		cut := -1

		// Paragraph break.
		if idx := strings.LastIndex(window, "\n\n"); idx > floor {
			cut = idx
		}

		// Sentence end: scan backward from the budget down to the floor.
		if cut < 0 {
			for i := len(window) - 1; i > floor; i-- {
				if window[i] == '.' && (i+1 >= len(window) || window[i+1] == ' ' || window[i+1] == '\n') {
					cut = i + 1
					break
				}
			}
		}

		// Any newline past the floor.
		if cut < 0 {
			if idx := strings.LastIndexByte(window, '\n'); idx > floor {
				cut = idx
			}
		}

		// Hard cut, backed up to a rune boundary.
		if cut < 0 {
			cut = cfg.MaxChars
			for cut > 0 && !utf8.RuneStart(remaining[cut]) {
				cut--
			}
		}

		chunks = append(chunks, strings.TrimSpace(remaining[:cut]))
		remaining = strings.TrimSpace(remaining[cut:])
	}

	return chunks
}
