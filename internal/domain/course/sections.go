package course

import (
	"html"
	"strings"
)

// SanitizeSectionLabel reduces a stored section name to its displayable
// text: tags are dropped, entities decoded, whitespace collapsed. The
// duplication primitive sanitizes labels the same way, so a name that
// reduces to "" here would surface as a literal raw-HTML artifact in the
// duplicate and must be cleared before duplication.
func SanitizeSectionLabel(name string) string {
	var b strings.Builder
	inTag := false
	for _, r := range name {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	text := html.UnescapeString(b.String())
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.TrimSpace(text)
}

// SectionLabelNeedsClearing reports whether a section name is set but
// sanitizes to nothing.
func SectionLabelNeedsClearing(name *string) bool {
	if name == nil {
		return false
	}
	return SanitizeSectionLabel(*name) == ""
}
