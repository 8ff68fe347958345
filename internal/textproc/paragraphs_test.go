package textproc

import (
	"strings"
	"testing"
)

func TestJoinParagraphs_WrappedLinesBecomeOneParagraph(t *testing.T) {
	lines := []string{
		"Sequential recommendation predicts the next item a user will",
		"interact with based on their history.",
	}
	got := JoinParagraphs(lines, nil)
	want := "Sequential recommendation predicts the next item a user will interact with based on their history."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestJoinParagraphs_Dehyphenation(t *testing.T) {
	lines := []string{
		"We propose a novel self-supervised pre-",
		"training objective for recommendation.",
	}
	got := JoinParagraphs(lines, nil)
	if !strings.Contains(got, "pretraining objective") {
		t.Errorf("expected hyphen break repaired, got %q", got)
	}
	if strings.Contains(got, "pre- ") {
		t.Errorf("expected no dangling hyphen, got %q", got)
	}
}

func TestJoinParagraphs_TerminalPunctuationSplitsBeforeCapital(t *testing.T) {
	lines := []string{
		"The first claim holds.",
		"Second, we evaluate on three datasets.",
	}
	got := JoinParagraphs(lines, nil)
	parts := strings.Split(got, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %q", len(parts), got)
	}
}

func TestJoinParagraphs_ContinuationWordJoinsAfterPeriod(t *testing.T) {
	// A capitalized line starting with a continuation word still joins, as
	// with equation fragments ending the previous line.
	lines := []string{
		"The loss is defined in Eq. 3.",
		"where N denotes the batch size.",
	}
	got := JoinParagraphs(lines, nil)
	if strings.Contains(got, "\n\n") {
		t.Errorf("expected a single paragraph, got %q", got)
	}
}

func TestJoinParagraphs_BlankLineFlushes(t *testing.T) {
	lines := []string{"First paragraph text here.", "", "second paragraph continues."}
	got := JoinParagraphs(lines, nil)
	parts := strings.Split(got, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %q", len(parts), got)
	}
}

func TestJoinParagraphs_HeaderEmittedAlone(t *testing.T) {
	isHeader := func(s string) bool { return s == "1. Introduction" }
	lines := []string{
		"trailing abstract sentence.",
		"1. Introduction",
		"Recommender systems are everywhere.",
	}
	got := JoinParagraphs(lines, isHeader)
	parts := strings.Split(got, "\n\n")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d: %q", len(parts), got)
	}
	if parts[1] != "1. Introduction" {
		t.Errorf("expected header on its own, got %q", parts[1])
	}
}

func TestJoinParagraphs_Empty(t *testing.T) {
	if got := JoinParagraphs(nil, nil); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestCleanLines_DropsPageNumbers(t *testing.T) {
	rs := DefaultRuleset()
	lines := []string{"real content", "4", "- 12 -", "Page 3 of 10", "more content"}
	got := rs.CleanLines(lines, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(got), got)
	}
	if got[0] != "real content" || got[1] != "more content" {
		t.Errorf("unexpected survivors: %v", got)
	}
}

func TestCleanLines_RunningHeadersOnlyAfterFirstPage(t *testing.T) {
	rs := DefaultRuleset()
	lines := []string{"KDD '23, August 6-10, 2023", "body text"}

	first := rs.CleanLines(lines, 0)
	if len(first) != 2 {
		t.Errorf("expected banner kept on first page, got %v", first)
	}

	later := rs.CleanLines(lines, 1)
	if len(later) != 1 || later[0] != "body text" {
		t.Errorf("expected banner stripped on later page, got %v", later)
	}
}

func TestCleanLines_ArxivWatermarkStripped(t *testing.T) {
	rs := DefaultRuleset()
	got := rs.CleanLines([]string{"arXiv:2301.01234v1", "content"}, 2)
	if len(got) != 1 || got[0] != "content" {
		t.Errorf("expected watermark stripped, got %v", got)
	}
}

func TestCleanLines_InlineNumberSurvives(t *testing.T) {
	// A number inside prose is not a page artifact; only a bare numeric line is.
	rs := DefaultRuleset()
	got := rs.CleanLines([]string{"we use 4 layers"}, 3)
	if len(got) != 1 {
		t.Errorf("expected prose line kept, got %v", got)
	}
}
