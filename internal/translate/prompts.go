package translate

import (
	"fmt"
	"strings"
)

const translationPromptTemplate = `You are a professional translator for academic papers. Translate the following text from an academic paper into %s.

Rules:
- Translate into natural, fluent academic %s
- Keep technical terms, model names, method names, and mathematical notation in the original English
- Keep citation markers like [1], [23] and author-year citations unchanged
- Keep placeholder markers such as [table omitted] and [figure omitted] exactly as they are
- Do NOT add explanations, notes, or commentary
- Do NOT repeat the original English text
- Output ONLY the translation

Text to translate:

`

const summaryPromptTemplate = `You are an expert research assistant. Read the following academic paper and write a structured summary in %s.

The summary must cover:
- The problem the paper addresses and why it matters
- The core idea and proposed method
- Key experimental results and findings
- Limitations and conclusions

Rules:
- Write in clear, fluent %s
- Keep technical terms, model names, and method names in English
- Use short paragraphs or bullet points
- Do NOT add commentary about the summarization task itself

Paper text:

`

// BuildTranslationPrompt wraps a text chunk in the section translation
// prompt for the given target language name (e.g. "Korean").
func BuildTranslationPrompt(targetLang, text string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(translationPromptTemplate, targetLang, targetLang))
	sb.WriteString(text)
	return sb.String()
}

// BuildSummaryPrompt wraps full paper text in the summarization prompt.
func BuildSummaryPrompt(targetLang, text string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(summaryPromptTemplate, targetLang, targetLang))
	sb.WriteString(text)
	return sb.String()
}
