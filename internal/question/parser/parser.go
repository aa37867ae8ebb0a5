// Package parser turns text pasted from a problem page into a question draft.
//
// Parsing is a fixed pipeline of stages over the non-blank lines of the input.
// Every stage only fills fields it can recognise, so any input, including
// empty or binary text, yields a Draft. All patterns are RE2, which keeps the
// run time linear in the input size.
package parser

import (
	"strings"
)

// Draft is the best-effort structure recovered from pasted text.
type Draft struct {
	Title          string   `json:"title"`
	QuestionNumber string   `json:"questionNumber,omitempty"`
	Difficulty     string   `json:"difficulty,omitempty"`
	Description    string   `json:"description"`
	Examples       []string `json:"examples"`
	Constraints    []string `json:"constraints"`
	SuggestedTags  []string `json:"suggestedTags"`
}

// document is the normalised input shared by all stages.
type document struct {
	lines []string
	lower []string
	text  string // whole input, lowercased

	// titleIndex is set by the title stage; -1 when no line qualified.
	titleIndex int
}

type stage func(doc *document, d Draft) Draft

var pipeline = []stage{
	extractNumber,
	extractTitle,
	extractDifficulty,
	extractDescription,
	extractExamples,
	extractConstraints,
	suggestTags,
}

// Parse extracts a Draft from content. It never fails; fields it cannot
// recover are left empty.
func Parse(content string) Draft {
	d := Draft{
		Examples:      []string{},
		Constraints:   []string{},
		SuggestedTags: []string{},
	}

	doc := newDocument(content)
	if len(doc.lines) == 0 {
		return d
	}
	for _, run := range pipeline {
		d = run(doc, d)
	}
	return d
}

func newDocument(content string) *document {
	content = strings.ToValidUTF8(content, "�")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	if looksLikeHTML(content) {
		content = htmlToText(content)
	}

	doc := &document{titleIndex: -1}
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		doc.lines = append(doc.lines, line)
		doc.lower = append(doc.lower, strings.ToLower(line))
	}
	doc.text = strings.Join(doc.lower, "\n")
	return doc
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
