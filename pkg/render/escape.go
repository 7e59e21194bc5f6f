package render

import (
	"html"
	"strings"
)

// escapeText escapes element text content.
func escapeText(s string) string {
	return html.EscapeString(s)
}

var attrWhitespace = strings.NewReplacer(
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeAttr escapes a double-quoted attribute value. Line breaks and tabs
// are encoded so data-hid and class values stay on one line in pretty
// output.
func escapeAttr(s string) string {
	return attrWhitespace.Replace(html.EscapeString(s))
}

var commentDashes = strings.NewReplacer("--", "-&#45;")

// escapeComment escapes the component name and key printed inside a
// placeholder comment. No "--" may survive, so the comment cannot be
// closed early.
func escapeComment(s string) string {
	s = commentDashes.Replace(html.EscapeString(s))
	if strings.HasSuffix(s, "-") {
		s = s[:len(s)-1] + "&#45;"
	}
	return s
}
