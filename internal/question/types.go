package question

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty labels as stored and displayed.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Platform tags accepted by the store.
const (
	PlatformLeetCode   = "LeetCode"
	PlatformGFG        = "GFG"
	PlatformCodeforces = "Codeforces"
	PlatformOther      = "Other"
)

// Defaults applied when a payload leaves a field empty.
const (
	DefaultTopic    = "Arrays"
	DefaultLanguage = "Java"
)

// Question is the stored entity owned by a single user.
type Question struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	Title          string    `json:"title"`
	QuestionNumber string    `json:"questionNumber,omitempty"`
	Description    string    `json:"description"`
	Examples       []string  `json:"examples"`
	Constraints    []string  `json:"constraints"`
	TopicTags      []string  `json:"topicTags"`
	Difficulty     string    `json:"difficulty"`
	PlatformTag    string    `json:"platformTag"`
	PlatformLink   string    `json:"platformLink"`
	YoutubeLink    string    `json:"youtubeLink,omitempty"`
	IsImportant    bool      `json:"isImportant"`
	IsSolved       bool      `json:"isSolved"`
	SavedCode      string    `json:"savedCode,omitempty"`
	GeneratedCode  string    `json:"generatedCode,omitempty"`
	Language       string    `json:"language"`
	Topic          string    `json:"topic"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Draft is the create/update payload accepted by the store.
type Draft struct {
	Title          string   `json:"title"`
	QuestionNumber string   `json:"questionNumber"`
	Description    string   `json:"description"`
	Examples       []string `json:"examples"`
	Constraints    []string `json:"constraints"`
	TopicTags      []string `json:"topicTags"`
	Difficulty     string   `json:"difficulty"`
	PlatformTag    string   `json:"platformTag"`
	PlatformLink   string   `json:"platformLink"`
	YoutubeLink    string   `json:"youtubeLink"`
	IsImportant    bool     `json:"isImportant"`
	IsSolved       bool     `json:"isSolved"`
	SavedCode      string   `json:"savedCode"`
	GeneratedCode  string   `json:"generatedCode"`
	Language       string   `json:"language"`
	Topic          string   `json:"topic"`
	Notes          string   `json:"notes"`
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Title          *string   `json:"title"`
	QuestionNumber *string   `json:"questionNumber"`
	Description    *string   `json:"description"`
	Examples       *[]string `json:"examples"`
	Constraints    *[]string `json:"constraints"`
	TopicTags      *[]string `json:"topicTags"`
	Difficulty     *string   `json:"difficulty"`
	PlatformTag    *string   `json:"platformTag"`
	PlatformLink   *string   `json:"platformLink"`
	YoutubeLink    *string   `json:"youtubeLink"`
	IsImportant    *bool     `json:"isImportant"`
	IsSolved       *bool     `json:"isSolved"`
	SavedCode      *string   `json:"savedCode"`
	GeneratedCode  *string   `json:"generatedCode"`
	Language       *string   `json:"language"`
	Topic          *string   `json:"topic"`
	Notes          *string   `json:"notes"`
}

// ListFilter narrows a user's question list.
type ListFilter struct {
	Search     string
	Difficulty string
	Topic      string
	Solved     *bool
	Important  *bool
	Sort       string // "title", "newest", "oldest", "difficulty"
}

// Stats is the overview returned by the stats endpoint.
type Stats struct {
	Overall OverallStats `json:"overall"`
	ByTopic []TopicStats `json:"byTopic"`
}

// OverallStats aggregates counts across all of a user's questions.
type OverallStats struct {
	Total     int `json:"total"`
	Solved    int `json:"solved"`
	Important int `json:"important"`
	Easy      int `json:"easy"`
	Medium    int `json:"medium"`
	Hard      int `json:"hard"`
}

// TopicStats aggregates counts for one topic.
type TopicStats struct {
	Topic  string `json:"topic"`
	Total  int    `json:"total"`
	Solved int    `json:"solved"`
}

// Apply returns a copy of q with the non-nil patch fields written over it.
func (p Patch) Apply(q Question) Draft {
	d := q.Draft()
	setString(&d.Title, p.Title)
	setString(&d.QuestionNumber, p.QuestionNumber)
	setString(&d.Description, p.Description)
	setString(&d.Difficulty, p.Difficulty)
	setString(&d.PlatformTag, p.PlatformTag)
	setString(&d.PlatformLink, p.PlatformLink)
	setString(&d.YoutubeLink, p.YoutubeLink)
	setString(&d.SavedCode, p.SavedCode)
	setString(&d.GeneratedCode, p.GeneratedCode)
	setString(&d.Language, p.Language)
	setString(&d.Topic, p.Topic)
	setString(&d.Notes, p.Notes)
	if p.Examples != nil {
		d.Examples = *p.Examples
	}
	if p.Constraints != nil {
		d.Constraints = *p.Constraints
	}
	if p.TopicTags != nil {
		d.TopicTags = *p.TopicTags
	}
	if p.IsImportant != nil {
		d.IsImportant = *p.IsImportant
	}
	if p.IsSolved != nil {
		d.IsSolved = *p.IsSolved
	}
	return d
}

// Draft converts a stored question back into an editable payload.
func (q Question) Draft() Draft {
	return Draft{
		Title:          q.Title,
		QuestionNumber: q.QuestionNumber,
		Description:    q.Description,
		Examples:       q.Examples,
		Constraints:    q.Constraints,
		TopicTags:      q.TopicTags,
		Difficulty:     q.Difficulty,
		PlatformTag:    q.PlatformTag,
		PlatformLink:   q.PlatformLink,
		YoutubeLink:    q.YoutubeLink,
		IsImportant:    q.IsImportant,
		IsSolved:       q.IsSolved,
		SavedCode:      q.SavedCode,
		GeneratedCode:  q.GeneratedCode,
		Language:       q.Language,
		Topic:          q.Topic,
		Notes:          q.Notes,
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
