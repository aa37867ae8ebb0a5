package bundle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gokatarajesh/algosync/internal/question"
)

// Version is written into every exported bundle.
const Version = "1.0"

// Bundle is the JSON document produced by export and consumed by import.
type Bundle struct {
	Version    string              `json:"version"`
	ExportedAt time.Time           `json:"exportedAt"`
	ExportedBy string              `json:"exportedBy"`
	Questions  []question.Question `json:"questions"`
	Metadata   Metadata            `json:"metadata"`
}

// Metadata holds counts derived from Questions at export time.
type Metadata struct {
	TotalQuestions int `json:"totalQuestions"`
	SolvedCount    int `json:"solvedCount"`
	ImportantCount int `json:"importantCount"`
}

// FormatError reports a bundle that cannot be imported at all.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid bundle: %s: %v", e.Reason, e.Err)
	}
	return "invalid bundle: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// IsFormatError reports whether err is, or wraps, a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// Decode reads a bundle and returns its raw question records in input order.
// Records are kept raw so each one can be mapped, and fail, on its own.
func Decode(r io.Reader) ([]json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &FormatError{Reason: "empty document"}
	}
	if data[0] != '{' {
		return nil, &FormatError{Reason: "top level value must be an object"}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Reason: "malformed JSON", Err: err}
	}
	raw, ok := doc["questions"]
	if !ok {
		return nil, &FormatError{Reason: `missing "questions" array`}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, &FormatError{Reason: `"questions" must be an array`}
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &FormatError{Reason: `"questions" must be an array`, Err: err}
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

// FileName is the attachment name offered for an export made at t.
func FileName(t time.Time) string {
	return "algo-sync-questions-" + t.UTC().Format("2006-01-02") + ".json"
}
