package activities

import (
	"fmt"
	"strings"
)

// FallbackType returns the deterministic type for slot (0 or 1) of the section at index.
func FallbackType(index, slot int) Type {
	n := len(Types)
	i := (index + 3*slot) % n
	if i < 0 {
		i += n
	}
	return Types[i]
}

// Fallback synthesizes the two activities for a section purely from its content.
// index is the section's position among all qualifying sections.
func Fallback(sec Section, index int) []Draft {
	return []Draft{FallbackDraft(sec, index, 0), FallbackDraft(sec, index, 1)}
}

func FallbackDraft(sec Section, index, slot int) Draft {
	t := FallbackType(index, slot)
	return Draft{
		Title:       DefaultTitle(t, sec, index),
		Description: DefaultDescription(sec),
		Type:        t,
		Config:      Normalize(string(t), nil, sec),
		SectionID:   sec.ID,
		Fallback:    true,
	}
}

func DefaultTitle(t Type, sec Section, index int) string {
	return fmt.Sprintf("%s: %s", capitalize(string(t)), headingOr(sec, fmt.Sprintf("Section %d", index+1)))
}

func DefaultDescription(sec Section) string {
	return truncate(strings.TrimSpace(sec.Content), descriptionChars) + "..."
}

// FromRaw normalizes one generated activity against its source section.
func FromRaw(raw Raw, sec Section, index int) Draft {
	t := NormalizeType(raw.Type)
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = DefaultTitle(t, sec, index)
	}
	desc := strings.TrimSpace(raw.Description)
	if desc == "" {
		desc = DefaultDescription(sec)
	}
	return Draft{
		Title:       title,
		Description: desc,
		Type:        t,
		Config:      Normalize(string(t), raw.Config, sec),
		SectionID:   sec.ID,
	}
}
