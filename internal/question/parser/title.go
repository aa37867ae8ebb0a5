package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gokatarajesh/algosync/internal/question"
)

var (
	numberedLine  = regexp.MustCompile(`(?i)^(?:Problem\s*)?(?:Q\s*)?(\d+)[.\s:]`)
	bracketNumber = regexp.MustCompile(`[\[(](\d+)[\])]`)

	numberedHeading = regexp.MustCompile(`^\d+\.\s+`)
	numberPrefix    = regexp.MustCompile(`^\d+\.\s*`)
	problemPrefix   = regexp.MustCompile(`(?i)^Problem\s*(?:\d+\s*)?:?\s*`)
	qPrefix         = regexp.MustCompile(`(?i)^Q\s*\d+\s*[:.]?\s*`)
	bracketPrefix   = regexp.MustCompile(`^[\[(]\d+[\])]\s*`)

	// Lines naming a UI element rather than the problem. Matched at word
	// starts so that "generate" or "clock" do not count.
	titleNoise = regexp.MustCompile(`\b(?:example|input|output|constraint|note|solved|medium|easy|hard|topics|companies|premium|lock|icon|seen|interview|accepted|acceptance|rate)`)
)

var titleKeywords = []string{
	"jump", "sum", "array", "string", "tree", "graph", "linked", "stack",
	"queue", "heap", "binary", "sort", "search", "dynamic", "greedy",
	"backtrack", "recursion", "math", "bit", "trie", "union", "sliding",
	"two pointer",
}

func extractNumber(doc *document, d Draft) Draft {
	for _, line := range doc.lines {
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			d.QuestionNumber = m[1]
			return d
		}
		if m := bracketNumber.FindStringSubmatch(line); m != nil {
			d.QuestionNumber = m[1]
			return d
		}
	}
	return d
}

func extractTitle(doc *document, d Draft) Draft {
	for i, line := range doc.lines {
		if !isTitleLine(line, doc.lower[i]) {
			continue
		}
		doc.titleIndex = i

		title := cleanTitle(line)
		if title == "" {
			title = line
		}
		d.Title = question.WithNumber(title, d.QuestionNumber)
		return d
	}
	return d
}

// isTitleLine accepts a numbered heading outright; otherwise the line must
// mention a topic keyword, carry no UI noise and be longer than five runes.
func isTitleLine(line, lower string) bool {
	if numberedHeading.MatchString(line) {
		return true
	}
	return containsAny(lower, titleKeywords...) &&
		!titleNoise.MatchString(lower) &&
		utf8.RuneCountInString(line) > 5
}

func cleanTitle(line string) string {
	s := numberPrefix.ReplaceAllString(line, "")
	s = problemPrefix.ReplaceAllString(s, "")
	s = qPrefix.ReplaceAllString(s, "")
	s = bracketPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func extractDifficulty(doc *document, d Draft) Draft {
	switch {
	case strings.Contains(doc.text, "easy"):
		d.Difficulty = question.DifficultyEasy
	case strings.Contains(doc.text, "medium"):
		d.Difficulty = question.DifficultyMedium
	case strings.Contains(doc.text, "hard"):
		d.Difficulty = question.DifficultyHard
	}
	return d
}
