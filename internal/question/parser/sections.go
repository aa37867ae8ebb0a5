package parser

import (
	"regexp"
	"strings"
)

var (
	// UI chrome and page metrics that surround the statement on problem sites.
	descriptionNoise = regexp.MustCompile(`\b(?:solved|companies|premium|lock|icon|seen|interview|accepted|acceptance|rate)`)
	bareAnswer       = regexp.MustCompile(`^(?:yes|no)$`)
	metricFigure     = regexp.MustCompile(`^(?:\d[\d,]*(?:\.\d+)?\s*[kmb]?|\d+(?:\.\d+)?\s*%|\d+\s*/\s*\d+)$`)

	difficultyLabel = regexp.MustCompile(`^(?:easy|medium|hard)\b`)
)

var descriptionStops = []string{
	"example", "constraint", "input:", "output:", "note:", "follow-up", "topics:",
}

func isNoiseLine(lower string) bool {
	return descriptionNoise.MatchString(lower) ||
		bareAnswer.MatchString(lower) ||
		metricFigure.MatchString(lower)
}

func isLabelLine(line, lower string) bool {
	return numberedHeading.MatchString(line) ||
		difficultyLabel.MatchString(lower) ||
		lower == "topics" ||
		containsAny(lower, "difficulty", "tags:", "categories:", "problem:")
}

// extractDescription collects the statement that follows the title line.
func extractDescription(doc *document, d Draft) Draft {
	start := doc.titleIndex
	if start < 0 {
		// Treat the first line as the heading.
		start = 0
	}

	var out []string
	for i := start + 1; i < len(doc.lines); i++ {
		line, lower := doc.lines[i], doc.lower[i]
		if isNoiseLine(lower) {
			continue
		}
		if containsAny(lower, descriptionStops...) {
			break
		}
		if isLabelLine(line, lower) {
			continue
		}
		out = append(out, line)
	}

	if len(out) == 0 {
		out = fallbackDescription(doc, start)
	}
	d.Description = strings.TrimSpace(strings.Join(out, "\n"))
	return d
}

// fallbackDescription takes the whole span up to the first example or
// constraint marker, ignoring the softer stop markers.
func fallbackDescription(doc *document, start int) []string {
	var out []string
	for i := start + 1; i < len(doc.lines); i++ {
		line, lower := doc.lines[i], doc.lower[i]
		if containsAny(lower, "example", "constraint") {
			break
		}
		if isNoiseLine(lower) || isLabelLine(line, lower) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// extractExamples groups the lines following each "Example" marker.
func extractExamples(doc *document, d Draft) Draft {
	var (
		examples []string
		block    []string
		open     bool
	)
	flush := func() {
		if open {
			if text := strings.TrimSpace(strings.Join(block, "\n")); text != "" {
				examples = append(examples, text)
			}
		}
		block = block[:0]
	}

scan:
	for i, line := range doc.lines {
		lower := doc.lower[i]
		switch {
		case strings.Contains(lower, "example"):
			flush()
			block = append(block, line)
			open = true
		case containsAny(lower, "constraint", "note:", "follow-up"):
			flush()
			open = false
			break scan
		case open:
			block = append(block, line)
		}
	}
	flush()

	d.Examples = append(d.Examples[:0], examples...)
	return d
}

// extractConstraints keeps bound-looking lines after the "Constraints" marker.
func extractConstraints(doc *document, d Draft) Draft {
	var constraints []string
	in := false
	for i, line := range doc.lines {
		lower := doc.lower[i]
		if strings.Contains(lower, "constraint") {
			in = true
			continue
		}
		if !in {
			continue
		}
		if containsAny(lower, "note:", "follow-up", "example") {
			break
		}
		if isBoundLine(line) {
			constraints = append(constraints, line)
		}
	}

	d.Constraints = append(d.Constraints[:0], constraints...)
	return d
}

func isBoundLine(line string) bool {
	if containsAny(line, "≤", "≥", "<=", ">=") {
		return true
	}
	return strings.ContainsAny(line, "0123456789")
}
