package segment

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChunkSize is the chunk bound in characters.
const DefaultMaxChunkSize = 1500

const chunkSeparator = "\n\n"

// Chunk is a group of whole sections stored as one unit.
type Chunk struct {
	Text string
	// Heading is the title of the section that seeded the chunk.
	Heading string
	// Sections are indexes into the input passed to Pack.
	Sections []int
}

// Pack merges sections into chunks of at most maxChunkSize characters.
//
// Sections are stably sorted by descending level and consumed from the tail
// of that order, so shallow headings are packed first. A section is never
// split: a chunk only exceeds the bound when one section alone does.
func Pack(sections []HeadingSection, maxChunkSize int) []Chunk {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if len(sections) == 0 {
		return nil
	}

	order := make([]int, len(sections))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sections[order[a]].Level > sections[order[b]].Level
	})

	var (
		out     []Chunk
		cur     strings.Builder
		curLen  int
		current *Chunk
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Text = cur.String()
		out = append(out, *current)
		current = nil
		cur.Reset()
		curLen = 0
	}

	for i := len(order) - 1; i >= 0; i-- {
		idx := order[i]
		s := sections[idx]
		// blank lines around the body do not count toward the bound
		text := s.Title + "\n" + strings.TrimSpace(s.Content)
		n := utf8.RuneCountInString(text)

		if current != nil && curLen+utf8.RuneCountInString(chunkSeparator)+n > maxChunkSize {
			flush()
		}
		if current == nil {
			current = &Chunk{Heading: s.Title}
			cur.WriteString(text)
			curLen = n
		} else {
			cur.WriteString(chunkSeparator)
			cur.WriteString(text)
			curLen += utf8.RuneCountInString(chunkSeparator) + n
		}
		current.Sections = append(current.Sections, idx)
	}
	flush()
	return out
}
