package question

import (
	"regexp"
	"strings"
)

var (
	leadingNumber = regexp.MustCompile(`^\d+[.\s]\s*`)

	leetcodeSlug   = regexp.MustCompile(`leetcode\.com/problems/(\d+)[^/]*/?$`)
	gfgProblem     = regexp.MustCompile(`geeksforgeeks\.org/problems/[^/]+/(\d+)`)
	codeforcesPath = regexp.MustCompile(`codeforces\.com/problemset/problem/(\d+)`)
)

// WithNumber prefixes title with "<number>. ", replacing any numeric prefix already present.
func WithNumber(title, number string) string {
	if number == "" {
		return title
	}
	return number + ". " + leadingNumber.ReplaceAllString(title, "")
}

// NumberFromLink extracts the problem number encoded in a platform URL, if any.
func NumberFromLink(link, platform string) string {
	if link == "" {
		return ""
	}
	var re *regexp.Regexp
	switch platform {
	case PlatformLeetCode:
		re = leetcodeSlug
	case PlatformGFG:
		re = gfgProblem
	case PlatformCodeforces:
		re = codeforcesPath
	default:
		return ""
	}
	if m := re.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return ""
}

var tagTopics = map[string]string{
	"Array":               "Arrays",
	"String":              "Strings",
	"Linked List":         "Linked Lists",
	"Stack":               "Stacks & Queues",
	"Queue":               "Stacks & Queues",
	"Tree":                "Trees",
	"Graph":               "Graphs",
	"Dynamic Programming": "Dynamic Programming",
	"Greedy":              "Greedy",
	"Backtracking":        "Backtracking",
	"Sorting":             "Sorting",
	"Binary Search":       "Searching",
	"Math":                "Math",
	"Bit Manipulation":    "Bit Manipulation",
}

// TopicForTags maps the first topic tag to its dashboard section.
func TopicForTags(tags []string) string {
	if len(tags) == 0 {
		return DefaultTopic
	}
	if topic, ok := tagTopics[tags[0]]; ok {
		return topic
	}
	return DefaultTopic
}

// Normalize fills defaults, keeps the number and title prefix in sync and validates the result.
func Normalize(d Draft) (Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.QuestionNumber = strings.TrimSpace(d.QuestionNumber)
	d.Topic = strings.TrimSpace(d.Topic)

	if d.Title == "" {
		return d, invalid("title", "title is required")
	}
	switch d.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return d, invalid("difficulty", "difficulty must be Easy, Medium or Hard, got %q", d.Difficulty)
	}
	switch d.PlatformTag {
	case PlatformLeetCode, PlatformGFG, PlatformCodeforces, PlatformOther:
	default:
		return d, invalid("platformTag", "unknown platform %q", d.PlatformTag)
	}
	if d.QuestionNumber != "" && strings.Trim(d.QuestionNumber, "0123456789") != "" {
		return d, invalid("questionNumber", "question number must contain digits only")
	}

	if d.QuestionNumber == "" {
		d.QuestionNumber = NumberFromLink(d.PlatformLink, d.PlatformTag)
	}
	d.Title = WithNumber(d.Title, d.QuestionNumber)
	if d.Topic == "" {
		d.Topic = TopicForTags(d.TopicTags)
	}
	if d.Language == "" {
		d.Language = DefaultLanguage
	}
	if d.Examples == nil {
		d.Examples = []string{}
	}
	if d.Constraints == nil {
		d.Constraints = []string{}
	}
	if d.TopicTags == nil {
		d.TopicTags = []string{}
	}
	return d, nil
}
