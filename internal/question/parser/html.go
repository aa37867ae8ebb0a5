package parser

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var htmlMarkup = regexp.MustCompile(`(?i)<(?:p|div|br|li|ul|ol|pre|code|span|strong|em|sup|h[1-6])\b[^>]*>`)

// Elements that start a new line when flattened.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"pre": true, "tr": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true,
}

func looksLikeHTML(s string) bool {
	return htmlMarkup.MatchString(s)
}

// htmlToText flattens markup copied from a problem page into plain lines.
func htmlToText(s string) string {
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// The tree builder gives up on pathological nesting; the tokenizer does not.
		return tokenText(s)
	}
	var b strings.Builder
	extractText(root, &b)
	return b.String()
}

// tokenText is the flat fallback of htmlToText: text tokens are kept, tags
// only contribute line breaks and the superscript caret.
func tokenText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case tag == "script" || tag == "style":
				skip++
			case tag == "sup":
				b.WriteString("^")
			case blockElements[tag]:
				b.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case tag == "script" || tag == "style":
				if skip > 0 {
					skip--
				}
			case blockElements[tag]:
				b.WriteString("\n")
			}
		}
	}
}

func extractText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "sup":
			// 10<sup>4</sup> reads as 10^4 in constraint lines.
			b.WriteString("^")
		}
		if blockElements[n.Data] {
			b.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, b)
	}
	if n.Type == html.ElementNode && blockElements[n.Data] {
		b.WriteString("\n")
	}
}
