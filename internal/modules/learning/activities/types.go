package activities

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

type Type string

const (
	TypeSlide      Type = "slide"
	TypeQuiz       Type = "quiz"
	TypeFlashcard  Type = "flashcard"
	TypeEmbed      Type = "embed"
	TypeFillBlanks Type = "fill_blanks"
	TypeMatching   Type = "matching"
)

// Types is the fixed rotation used for deterministic type selection.
var Types = []Type{TypeSlide, TypeQuiz, TypeFlashcard, TypeEmbed, TypeFillBlanks, TypeMatching}

const (
	MaxQuizOptions   = 4
	MaxQuizAnswer    = 3
	MaxCards         = 4
	MaxCardFront     = 100
	MaxCardBack      = 200
	MaxBlanks        = 4
	MaxMatchingPairs = 4
)

type SlideConfig struct {
	Content   string `json:"content"`
	Narration string `json:"narration"`
	MediaURL  string `json:"media_url,omitempty"`
	MediaType string `json:"media_type"`
}

type QuizConfig struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type FlashcardConfig struct {
	Cards []Card `json:"cards"`
}

type EmbedConfig struct {
	URL       string `json:"url"`
	EmbedType string `json:"embed_type"`
}

type Blank struct {
	Position       int      `json:"position"`
	CorrectAnswers []string `json:"correct_answers"`
}

type FillBlanksConfig struct {
	Instruction    string  `json:"instruction"`
	TextWithBlanks string  `json:"text_with_blanks"`
	Blanks         []Blank `json:"blanks"`
}

type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type MatchingConfig struct {
	Instruction string `json:"instruction"`
	Pairs       []Pair `json:"pairs"`
}

// Config is a tagged variant: exactly the field named by Type is set.
type Config struct {
	Type       Type
	Slide      *SlideConfig
	Quiz       *QuizConfig
	Flashcard  *FlashcardConfig
	Embed      *EmbedConfig
	FillBlanks *FillBlanksConfig
	Matching   *MatchingConfig
}

func (c Config) variant() any {
	switch c.Type {
	case TypeSlide:
		return c.Slide
	case TypeQuiz:
		return c.Quiz
	case TypeFlashcard:
		return c.Flashcard
	case TypeEmbed:
		return c.Embed
	case TypeFillBlanks:
		return c.FillBlanks
	case TypeMatching:
		return c.Matching
	}
	return nil
}

// MarshalJSON writes the populated variant only; the tag lives on the activity row.
func (c Config) MarshalJSON() ([]byte, error) {
	v := c.variant()
	if v == nil {
		return nil, fmt.Errorf("activity config: unknown type %q", c.Type)
	}
	return json.Marshal(v)
}

// Validate checks the structural invariants of the populated variant.
func (c Config) Validate() error {
	set := 0
	for _, p := range []bool{c.Slide != nil, c.Quiz != nil, c.Flashcard != nil, c.Embed != nil, c.FillBlanks != nil, c.Matching != nil} {
		if p {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("activity config: %d variants populated", set)
	}
	switch c.Type {
	case TypeSlide:
		if c.Slide == nil {
			return errors.New("slide: missing config")
		}
		if c.Slide.MediaType != "image" && c.Slide.MediaType != "video" {
			return fmt.Errorf("slide: invalid media_type %q", c.Slide.MediaType)
		}
	case TypeQuiz:
		q := c.Quiz
		if q == nil {
			return errors.New("quiz: missing config")
		}
		if len(q.Options) < 1 || len(q.Options) > MaxQuizOptions {
			return fmt.Errorf("quiz: %d options", len(q.Options))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer > MaxQuizAnswer || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("quiz: correct_answer %d out of range", q.CorrectAnswer)
		}
	case TypeFlashcard:
		f := c.Flashcard
		if f == nil {
			return errors.New("flashcard: missing config")
		}
		if len(f.Cards) < 1 || len(f.Cards) > MaxCards {
			return fmt.Errorf("flashcard: %d cards", len(f.Cards))
		}
		for i, card := range f.Cards {
			if utf8.RuneCountInString(card.Front) > MaxCardFront || utf8.RuneCountInString(card.Back) > MaxCardBack {
				return fmt.Errorf("flashcard: card %d exceeds length limits", i)
			}
		}
	case TypeEmbed:
		if c.Embed == nil {
			return errors.New("embed: missing config")
		}
		if c.Embed.URL == "" {
			return errors.New("embed: missing url")
		}
		if c.Embed.EmbedType != "video" && c.Embed.EmbedType != "article" {
			return fmt.Errorf("embed: invalid embed_type %q", c.Embed.EmbedType)
		}
	case TypeFillBlanks:
		fb := c.FillBlanks
		if fb == nil {
			return errors.New("fill_blanks: missing config")
		}
		if len(fb.Blanks) > MaxBlanks {
			return fmt.Errorf("fill_blanks: %d blanks", len(fb.Blanks))
		}
		for i, b := range fb.Blanks {
			if len(b.CorrectAnswers) == 0 {
				return fmt.Errorf("fill_blanks: blank %d has no answers", i)
			}
		}
	case TypeMatching:
		if c.Matching == nil {
			return errors.New("matching: missing config")
		}
		if len(c.Matching.Pairs) > MaxMatchingPairs {
			return fmt.Errorf("matching: %d pairs", len(c.Matching.Pairs))
		}
	default:
		return fmt.Errorf("activity config: unknown type %q", c.Type)
	}
	return nil
}

// Section is the slice of a stored section the normalizer reads.
type Section struct {
	ID      string
	Heading string
	Content string
}

// Raw is one untrusted activity as returned by the generation service.
// Any field may be empty or hold the wrong shape.
type Raw struct {
	Title       string
	Description string
	Type        string
	Config      map[string]any
}

// Draft is a normalized activity ready to persist.
type Draft struct {
	Title       string
	Description string
	Type        Type
	Config      Config
	// SectionID is the source section the activity was built from.
	SectionID string
	Fallback  bool
}
