// Package segment turns raw document text into heading sections and packs
// those sections into size-bounded chunks for storage.
package segment

import (
	"regexp"
	"strings"
)

// IntroductionTitle names the synthetic level-0 section holding text that
// precedes the first heading.
const IntroductionTitle = "Introduction"

// HeadingSection is one span of the source text owned by a heading.
type HeadingSection struct {
	// Level is the number of '#' in the marker (1-6), or 0 for the introduction.
	Level int
	Title string
	// Content is the exact text between the heading line and the next heading.
	Content string
	// Position is the byte offset of the heading line in the source text.
	Position int
}

var headingLineRe = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(\S[^\r\n]*?)[ \t]*\r?$`)

// Headings splits text into sections at ATX heading lines ("# Title" .. "###### Title").
func Headings(text string) []HeadingSection {
	matches := headingLineRe.FindAllStringSubmatchIndex(text, -1)

	out := make([]HeadingSection, 0, len(matches)+1)

	introEnd := len(text)
	if len(matches) > 0 {
		introEnd = matches[0][0]
	}
	if intro := text[:introEnd]; strings.TrimSpace(intro) != "" {
		out = append(out, HeadingSection{
			Level:    0,
			Title:    IntroductionTitle,
			Content:  intro,
			Position: 0,
		})
	}

	for i, m := range matches {
		lineStart, lineEnd := m[0], m[1]
		contentStart := lineEnd
		if contentStart < len(text) && text[contentStart] == '\n' {
			contentStart++
		}
		contentEnd := len(text)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}
		if contentStart > contentEnd {
			contentStart = contentEnd
		}
		out = append(out, HeadingSection{
			Level:    m[3] - m[2],
			Title:    text[m[4]:m[5]],
			Content:  text[contentStart:contentEnd],
			Position: lineStart,
		})
	}
	return out
}
