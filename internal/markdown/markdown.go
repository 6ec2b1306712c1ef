// Package markdown renders the small Markdown subset used in card
// descriptions and comments as HTML. The converter is a pure function
// over its input; it keeps no state between calls.
package markdown

import (
	"html"
	"regexp"
	"strings"
)

var (
	codeRe   = regexp.MustCompile("`([^`]+)`")
	boldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
	linkRe   = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
)

// ToHTML converts src to HTML. Supported constructs are #, ## and ###
// headings, **bold**, *italic*, `code`, [text](url) links and dash
// lists; everything else becomes paragraphs with <br> line breaks. The
// input is escaped before any rewriting, so raw HTML never passes
// through.
func ToHTML(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if strings.TrimSpace(src) == "" {
		return ""
	}

	var out strings.Builder
	var paragraph []string
	var items []string

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		out.WriteString("<p>")
		out.WriteString(strings.Join(paragraph, "<br>"))
		out.WriteString("</p>\n")
		paragraph = nil
	}
	flushList := func() {
		if len(items) == 0 {
			return
		}
		out.WriteString("<ul>\n")
		for _, item := range items {
			out.WriteString("<li>")
			out.WriteString(item)
			out.WriteString("</li>\n")
		}
		out.WriteString("</ul>\n")
		items = nil
	}

	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flushParagraph()
			flushList()
		case strings.HasPrefix(trimmed, "### "):
			flushParagraph()
			flushList()
			out.WriteString("<h3>")
			out.WriteString(inline(strings.TrimPrefix(trimmed, "### ")))
			out.WriteString("</h3>\n")
		case strings.HasPrefix(trimmed, "## "):
			flushParagraph()
			flushList()
			out.WriteString("<h2>")
			out.WriteString(inline(strings.TrimPrefix(trimmed, "## ")))
			out.WriteString("</h2>\n")
		case strings.HasPrefix(trimmed, "# "):
			flushParagraph()
			flushList()
			out.WriteString("<h1>")
			out.WriteString(inline(strings.TrimPrefix(trimmed, "# ")))
			out.WriteString("</h1>\n")
		case strings.HasPrefix(trimmed, "- "):
			flushParagraph()
			items = append(items, inline(strings.TrimPrefix(trimmed, "- ")))
		default:
			flushList()
			paragraph = append(paragraph, inline(trimmed))
		}
	}
	flushParagraph()
	flushList()

	return strings.TrimSuffix(out.String(), "\n")
}

// inline escapes one line and applies the span-level rewrites. Bold
// runs before italic so ** pairs are consumed first.
func inline(s string) string {
	s = html.EscapeString(s)
	s = codeRe.ReplaceAllString(s, "<code>$1</code>")
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	s = linkRe.ReplaceAllString(s, `<a href="$2">$1</a>`)
	return s
}
