package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/algosync/internal/question"
)

const twoSumPaste = `42. Two Sum
Easy
Topics
Companies
Given an array of integers nums and an integer target, return indices of the two numbers such that they add up to target.
You may assume that each input would have exactly one solution.

Example 1:
Input: nums = [2,7,11,15], target = 9
Output: [0,1]
Example 2:
Input: nums = [3,2,4], target = 6
Output: [1,2]
Example 3:
Input: nums = [3,3], target = 6
Output: [0,1]

Constraints:
2 <= nums.length <= 10^4
-10^9 <= nums[i] <= 10^9
Only one valid answer exists.
Follow-up: Can you come up with an algorithm that is less than O(n2) time complexity?`

func TestParseLeetCodePaste(t *testing.T) {
	d := Parse(twoSumPaste)

	assert.Equal(t, "42", d.QuestionNumber)
	assert.Equal(t, "42. Two Sum", d.Title)
	assert.Equal(t, question.DifficultyEasy, d.Difficulty)
	assert.Equal(t, "Given an array of integers nums and an integer target, return indices of the two numbers such that they add up to target.\n"+
		"You may assume that each input would have exactly one solution.", d.Description)

	require.Len(t, d.Examples, 3)
	assert.Equal(t, "Example 1:\nInput: nums = [2,7,11,15], target = 9\nOutput: [0,1]", d.Examples[0])
	assert.True(t, strings.HasPrefix(d.Examples[2], "Example 3:"))

	assert.Equal(t, []string{
		"2 <= nums.length <= 10^4",
		"-10^9 <= nums[i] <= 10^9",
	}, d.Constraints)

	assert.Contains(t, d.SuggestedTags, "Array")
}

func TestParseTitleVariants(t *testing.T) {
	cases := []struct {
		name, input, title, number string
	}{
		{"problem prefix", "Problem 7: Binary Tree Inorder Traversal\nMedium", "7. Binary Tree Inorder Traversal", "7"},
		{"q prefix", "Q12: Merge Sorted Array\nEasy", "12. Merge Sorted Array", "12"},
		{"bracketed number", "[206] Reverse Linked List\nEasy", "206. Reverse Linked List", "206"},
		{"word starting with Q", "Queue Reconstruction by Height", "Queue Reconstruction by Height", ""},
		{"number with space", "3 Longest Substring Without Repeating Characters", "3. Longest Substring Without Repeating Characters", "3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Parse(tc.input)
			assert.Equal(t, tc.title, d.Title)
			assert.Equal(t, tc.number, d.QuestionNumber)
		})
	}
}

func TestParseSkipsNoiseForTitle(t *testing.T) {
	d := Parse("Acceptance Rate of array problems\nSolved array\nJump Game\nYou are given an integer array nums.")

	assert.Equal(t, "Jump Game", d.Title)
	assert.Equal(t, "You are given an integer array nums.", d.Description)
}

func TestNoiseWordsMatchWordStarts(t *testing.T) {
	d := Parse("Generate Parentheses string\nGiven n pairs, generate all combinations.\nAcceptance Rate 72.1%\nExample 1:\nInput: n = 3")

	assert.Equal(t, "Generate Parentheses string", d.Title)
	assert.Equal(t, "Given n pairs, generate all combinations.", d.Description)
}

func TestParseDifficultyPriority(t *testing.T) {
	assert.Equal(t, question.DifficultyEasy, Parse("Hard problem\nactually easy").Difficulty)
	assert.Equal(t, question.DifficultyMedium, Parse("Hard\nor medium").Difficulty)
	assert.Equal(t, question.DifficultyHard, Parse("Hard").Difficulty)
	assert.Empty(t, Parse("no level given").Difficulty)
}

func TestParseDescriptionSkipsMetrics(t *testing.T) {
	d := Parse("1. Two Sum\nSolved\n41.5%\n1/5\n4.2M\nyes\nGiven an array.\nExample 1:\nInput: x")

	assert.Equal(t, "Given an array.", d.Description)
}

func TestParseDescriptionFallback(t *testing.T) {
	d := Parse("1. Two Sum\nNote: read carefully\nGiven nums, return indices.\nExample 1:\nInput: x")

	assert.Equal(t, "Note: read carefully\nGiven nums, return indices.", d.Description)
	// A note marker closes example extraction before any block opens.
	assert.Empty(t, d.Examples)
}

func TestParseWithoutTitleUsesFirstLineAsHeading(t *testing.T) {
	d := Parse("just some words here\nmore words")

	assert.Empty(t, d.Title)
	assert.Equal(t, "more words", d.Description)
}

func TestParseHTML(t *testing.T) {
	content := `<p>Given a string <code>s</code>, find the length of the longest substring.</p>` +
		`<p><strong>Example 1:</strong></p>` +
		"<pre>Input: s = \"abcabcbb\"\nOutput: 3</pre>" +
		`<p><strong>Constraints:</strong></p>` +
		`<ul><li>0 &lt;= s.length &lt;= 5 * 10<sup>4</sup></li></ul>`

	d := Parse(content)

	require.Len(t, d.Examples, 1)
	assert.Equal(t, "Example 1:\nInput: s = \"abcabcbb\"\nOutput: 3", d.Examples[0])
	assert.Equal(t, []string{"0 <= s.length <= 5 * 10^4"}, d.Constraints)
	assert.Contains(t, d.SuggestedTags, "String")
}

func TestParseDeeplyNestedHTML(t *testing.T) {
	content := strings.Repeat("<div>", 5000) + "Example 1: x" + strings.Repeat("</div>", 5000)

	d := Parse(content)

	require.Len(t, d.Examples, 1)
	assert.Equal(t, "Example 1: x", d.Examples[0])
	for _, ex := range d.Examples {
		assert.NotContains(t, ex, "<div>")
	}
}

func TestTokenText(t *testing.T) {
	got := tokenText(`<p>10<sup>4</sup></p><script>var x = 1;</script><li>a &lt; b</li>`)
	assert.Equal(t, "\n10^4\n\na < b\n", got)
}

func TestParseCRLF(t *testing.T) {
	d := Parse("1. Two Sum\r\nGiven an array.\r\nExample 1:\r\nInput: a\r\n")

	assert.Equal(t, "1. Two Sum", d.Title)
	assert.Equal(t, "Given an array.", d.Description)
	assert.Equal(t, []string{"Example 1:\nInput: a"}, d.Examples)
}

func TestSuggestTagsTopicsSection(t *testing.T) {
	d := Parse("Topics\nArray\nHash Table\nCompanies\nAmazon")

	require.GreaterOrEqual(t, len(d.SuggestedTags), 2)
	assert.Equal(t, []string{"Array", "Hash Table"}, d.SuggestedTags[:2])
}

func TestSuggestTagsExplicitLabel(t *testing.T) {
	d := Parse("Task Scheduler\nTags: Greedy, Heap; Trie")

	require.GreaterOrEqual(t, len(d.SuggestedTags), 3)
	assert.Equal(t, []string{"Greedy", "Heap", "Trie"}, d.SuggestedTags[:3])
}

func TestSuggestTagsRules(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    []string
		notWant []string
	}{
		{"dp word", "Solve it with dp.", []string{"Dynamic Programming"}, nil},
		{"dp inside word", "Use a pdp table.", nil, []string{"Dynamic Programming"}},
		{"memoization", "Memoization helps.", []string{"Dynamic Programming"}, nil},
		{"stack implies queue", "Design a min stack.", []string{"Stack", "Queue"}, nil},
		{"node and edge", "Each node has an edge to its parent.", []string{"Graph"}, nil},
		{"xor", "Return the xor of all values.", []string{"Bit Manipulation"}, nil},
		{"bit with operation", "Count bits using one bit operation per step.", []string{"Bit Manipulation"}, nil},
		{"bare bit", "A bit of a tricky array problem.", []string{"Array"}, []string{"Bit Manipulation"}},
		{"hyphenated vocabulary", "Classic depth-first-search question.", []string{"Depth-First Search"}, nil},
		{"compact vocabulary", "Use a hashtable.", []string{"Hash Table"}, nil},
		{"no trie in retrieve", "Retrieve the value.", nil, []string{"Trie"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tags := Parse(tc.input).SuggestedTags
			for _, want := range tc.want {
				assert.Contains(t, tags, want)
			}
			for _, bad := range tc.notWant {
				assert.NotContains(t, tags, bad)
			}
		})
	}
}

func TestParseEmptyAndBinary(t *testing.T) {
	for _, input := range []string{"", "   \n\t\n", "\x00\xff\xfe\x01", strings.Repeat("(", 10000)} {
		d := Parse(input)
		assert.NotNil(t, d.Examples)
		assert.NotNil(t, d.Constraints)
		assert.NotNil(t, d.SuggestedTags)
	}
	assert.Empty(t, Parse("").Title)
}

func FuzzParse(f *testing.F) {
	f.Add(twoSumPaste)
	f.Add("Problem 7: Binary Tree\nHard")
	f.Add("<p>Example 1:</p><ul><li>1 &lt;= n</li></ul>")
	f.Add("[9] Q\r\nTopics\nStack\n")

	vocab := map[string]bool{}
	for _, tag := range Vocabulary {
		vocab[tag] = true
	}

	f.Fuzz(func(t *testing.T, content string) {
		d := Parse(content)

		if d.QuestionNumber != "" {
			assert.Empty(t, strings.Trim(d.QuestionNumber, "0123456789"))
			if d.Title != "" {
				assert.True(t, strings.HasPrefix(d.Title, d.QuestionNumber+". "), d.Title)
			}
		}
		seen := map[string]bool{}
		for _, tag := range d.SuggestedTags {
			assert.True(t, vocab[tag], tag)
			assert.False(t, seen[tag], "duplicate tag %q", tag)
			seen[tag] = true
		}
		for _, ex := range d.Examples {
			assert.NotEmpty(t, ex)
		}
	})
}
