package bundle

import "fmt"

// Summary levels, used by clients to pick how to present the result.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelFailure = "failure"
)

// Progress is a point-in-time view of a running import.
type Progress struct {
	Total     int     `json:"total"`
	Processed int     `json:"processed"`
	Imported  int     `json:"imported"`
	Skipped   int     `json:"skipped"`
	Errors    int     `json:"errors"`
	Fraction  float64 `json:"fraction"`
}

// Summary is the tally reported when an import ends.
type Summary struct {
	Total    int    `json:"total"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Errors   int    `json:"errors"`
	Level    string `json:"level"`
	Message  string `json:"message"`
}

// Session tracks the counters of a single run. It is owned by that run and
// never shared.
type Session struct {
	total     int
	processed int
	imported  int
	skipped   int
	errors    int
}

// NewSession starts a session for total records.
func NewSession(total int) *Session {
	return &Session{total: total}
}

func (s *Session) record(o Outcome) {
	s.processed++
	switch o {
	case OutcomeImported:
		s.imported++
	case OutcomeSkipped:
		s.skipped++
	default:
		s.errors++
	}
}

// Progress reports the counters so far.
func (s *Session) Progress() Progress {
	fraction := 1.0
	if s.total > 0 {
		fraction = float64(s.processed) / float64(s.total)
	}
	return Progress{
		Total:     s.total,
		Processed: s.processed,
		Imported:  s.imported,
		Skipped:   s.skipped,
		Errors:    s.errors,
		Fraction:  fraction,
	}
}

// Summary classifies the counters: success when anything was imported, info
// when everything present was a duplicate, failure otherwise.
func (s *Session) Summary() Summary {
	level := LevelFailure
	switch {
	case s.imported > 0:
		level = LevelSuccess
	case s.skipped > 0:
		level = LevelInfo
	}
	return Summary{
		Total:    s.total,
		Imported: s.imported,
		Skipped:  s.skipped,
		Errors:   s.errors,
		Level:    level,
		Message: fmt.Sprintf("Import completed! %d imported, %d skipped (duplicates), %d errors",
			s.imported, s.skipped, s.errors),
	}
}
