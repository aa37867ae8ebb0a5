package bundle

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gokatarajesh/algosync/internal/question"
)

// Defaults for fields a record leaves empty.
const (
	DefaultTitle    = "Untitled Question"
	DefaultLanguage = "JavaScript"
)

var errNotObject = errors.New("record is not an object")

// record is one permissive question entry. Older exports and hand-written
// files use several names for the same field, so every lookup takes a list of
// aliases and the first non-empty value wins.
type record map[string]json.RawMessage

func parseRecord(raw json.RawMessage) (record, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, errNotObject
	}
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r record) str(keys ...string) string {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if strings.TrimSpace(s) != "" {
				return s
			}
			continue
		}
		// Numbers are accepted where older files stored them, e.g. questionNumber.
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil && n != "" {
			return n.String()
		}
	}
	return ""
}

func (r record) list(keys ...string) []string {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
				return []string{strings.TrimSpace(s)}
			}
			continue
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func (r record) flag(keys ...string) bool {
	for _, k := range keys {
		var b bool
		if raw, ok := r[k]; ok && json.Unmarshal(raw, &b) == nil && b {
			return true
		}
	}
	return false
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// draft maps the record onto a create payload, applying import defaults.
func (r record) draft() question.Draft {
	return question.Draft{
		Title:          orDefault(r.str("title", "name"), DefaultTitle),
		QuestionNumber: r.str("questionNumber"),
		Description:    r.str("description", "content"),
		Difficulty:     orDefault(r.str("difficulty"), question.DifficultyMedium),
		Topic:          orDefault(r.str("topic", "category"), question.DefaultTopic),
		TopicTags:      r.list("topicTags", "tags", "categories"),
		PlatformTag:    orDefault(r.str("platformTag", "platform"), question.PlatformLeetCode),
		PlatformLink:   r.str("platformLink", "link", "url"),
		YoutubeLink:    r.str("youtubeLink", "videoLink"),
		Language:       orDefault(r.str("language"), DefaultLanguage),
		Examples:       r.list("examples", "example"),
		Constraints:    r.list("constraints", "constraint"),
		SavedCode:      r.str("savedCode", "code", "solution"),
		GeneratedCode:  r.str("generatedCode"),
		IsSolved:       r.flag("isSolved", "solved"),
		IsImportant:    r.flag("isImportant", "important", "starred"),
		Notes:          r.str("notes", "note"),
	}
}
