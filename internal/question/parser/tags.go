package parser

import (
	"regexp"
	"strings"
)

// Vocabulary is the fixed set of topic labels the parser can suggest.
var Vocabulary = []string{
	"Array", "String", "Hash Table", "Dynamic Programming", "Math", "Greedy",
	"Sorting", "Depth-First Search", "Breadth-First Search", "Tree", "Graph",
	"Binary Search", "Two Pointers", "Sliding Window", "Backtracking",
	"Divide and Conquer", "Heap", "Stack", "Queue", "Linked List",
	"Trie", "Union Find", "Bit Manipulation", "Recursion", "Simulation",
}

var (
	vocabularyIndex = func() map[string]string {
		m := make(map[string]string, len(Vocabulary))
		for _, tag := range Vocabulary {
			m[strings.ToLower(tag)] = tag
		}
		return m
	}()

	// One pattern per tag: the tag, the tag without spaces, or hyphenated.
	vocabularyPatterns = func() []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(Vocabulary))
		for i, tag := range Vocabulary {
			lower := strings.ToLower(tag)
			forms := []string{
				regexp.QuoteMeta(lower),
				regexp.QuoteMeta(strings.ReplaceAll(lower, " ", "")),
				regexp.QuoteMeta(strings.ReplaceAll(lower, " ", "-")),
			}
			out[i] = regexp.MustCompile(`\b(?:` + strings.Join(forms, "|") + `)`)
		}
		return out
	}()

	bareTag       = regexp.MustCompile(`^[A-Za-z][A-Za-z\s-]*$`)
	explicitLabel = regexp.MustCompile(`(?:tags?|categories?|topics?):\s*([^\n]+)`)
)

// matcher reports whether the lowercased text shows evidence for a tag.
type matcher func(text string) bool

func substr(subs ...string) matcher {
	return func(text string) bool { return containsAny(text, subs...) }
}

func word(words ...string) matcher {
	re := regexp.MustCompile(`\b(?:` + strings.Join(words, "|") + `)\b`)
	return re.MatchString
}

func both(a, b matcher) matcher {
	return func(text string) bool { return a(text) && b(text) }
}

func either(ms ...matcher) matcher {
	return func(text string) bool {
		for _, m := range ms {
			if m(text) {
				return true
			}
		}
		return false
	}
}

type tagRule struct {
	tags  []string
	match matcher
}

// Synonyms and co-occurrence hints, applied after the vocabulary scan.
var tagRules = []tagRule{
	{[]string{"Two Pointers"}, either(substr("two pointer"), both(word("left"), word("right")))},
	{[]string{"Sliding Window"}, either(substr("sliding window"), both(substr("subarray"), substr("window")))},
	{[]string{"Binary Search"}, substr("binary search", "sorted array")},
	{[]string{"Dynamic Programming"}, either(word("dp"), substr("dynamic programming", "memoization", "memoisation"))},
	{[]string{"Graph"}, either(substr("graph"), both(word("node", "nodes"), word("edge", "edges")))},
	{[]string{"Tree"}, either(substr("tree"), word("root"))},
	{[]string{"Backtracking"}, substr("backtrack", "recursion")},
	{[]string{"Greedy"}, substr("greedy", "optimal")},
	{[]string{"Sorting"}, word("sort", "sorted", "sorting")},
	{[]string{"Hash Table"}, either(substr("hash", "dictionary"), word("map", "maps"))},
	{[]string{"Stack", "Queue"}, substr("stack", "queue")},
	{[]string{"Linked List"}, substr("linked list", "node.next")},
	{[]string{"Heap"}, substr("heap", "priority queue")},
	{[]string{"Trie"}, either(word("trie"), substr("prefix tree"))},
	{[]string{"Union Find"}, substr("union find", "union-find", "disjoint set")},
	// The bare word "bit" alone is too common to count.
	{[]string{"Bit Manipulation"}, either(
		substr("bit manipulation", "bitwise", "xor", "left shift", "right shift", "bit mask", "bitmask"),
		both(word("bit", "bits"), substr("operation", "manipulation", "shift", "mask")),
	)},
	{[]string{"Math"}, substr("math", "arithmetic", "modulo")},
}

// tagSet accumulates unique tags in discovery order.
type tagSet struct {
	seen map[string]bool
	list []string
}

func (s *tagSet) add(tags ...string) {
	for _, tag := range tags {
		if s.seen[tag] {
			continue
		}
		s.seen[tag] = true
		s.list = append(s.list, tag)
	}
}

func suggestTags(doc *document, d Draft) Draft {
	set := &tagSet{seen: make(map[string]bool)}

	topicsSectionTags(doc, set)

	for _, m := range explicitLabel.FindAllStringSubmatch(doc.text, -1) {
		for _, item := range strings.FieldsFunc(m[1], func(r rune) bool { return r == ',' || r == ';' }) {
			if tag, ok := vocabularyIndex[strings.TrimSpace(item)]; ok {
				set.add(tag)
			}
		}
	}

	for i, re := range vocabularyPatterns {
		if re.MatchString(doc.text) {
			set.add(Vocabulary[i])
		}
	}

	for _, rule := range tagRules {
		if rule.match(doc.text) {
			set.add(rule.tags...)
		}
	}

	d.SuggestedTags = append(d.SuggestedTags[:0], set.list...)
	return d
}

// topicsSectionTags reads bare tag lines listed under a "Topics" heading.
func topicsSectionTags(doc *document, set *tagSet) {
	in := false
	for i, line := range doc.lines {
		lower := doc.lower[i]
		if strings.Contains(lower, "topics") {
			in = true
			continue
		}
		if !in {
			continue
		}
		if containsAny(lower, "companies", "seen", "interview", "accepted", "acceptance") {
			return
		}
		if !bareTag.MatchString(line) {
			continue
		}
		if tag, ok := vocabularyIndex[strings.ToLower(strings.TrimSpace(line))]; ok {
			set.add(tag)
		}
	}
}
