package activities

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	slideContentChars = 500
	quizExcerptChars  = 120
	descriptionChars  = 100
	blankStride       = 5
	blankMinWordLen   = 4
	BlankMarker       = "_____"

	defaultFillBlanksInstruction = "Fill in the blanks with the missing words."
	defaultMatchingInstruction   = "Match each item on the left with its counterpart on the right."
)

var quizPlaceholders = []string{
	"None of the above",
	"All of the above",
	"It is not covered in this section",
}

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

var typeAliases = map[string]Type{
	"slide":              TypeSlide,
	"slides":             TypeSlide,
	"quiz":               TypeQuiz,
	"mcq":                TypeQuiz,
	"multiple_choice":    TypeQuiz,
	"flashcard":          TypeFlashcard,
	"flashcards":         TypeFlashcard,
	"embed":              TypeEmbed,
	"video":              TypeEmbed,
	"fill_blanks":        TypeFillBlanks,
	"fill_blank":         TypeFillBlanks,
	"fillblanks":         TypeFillBlanks,
	"fill_in_the_blank":  TypeFillBlanks,
	"fill_in_the_blanks": TypeFillBlanks,
	"matching":           TypeMatching,
	"match":              TypeMatching,
}

// NormalizeType maps a raw type label onto the known set; unknown labels become slide.
func NormalizeType(raw string) Type {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	if t, ok := typeAliases[s]; ok {
		return t
	}
	return TypeSlide
}

// Normalize builds a fully populated config of the given type from an untrusted
// raw map. Missing or malformed fields are derived from the section.
func Normalize(typ string, raw map[string]any, sec Section) (cfg Config) {
	t := NormalizeType(typ)
	defer func() {
		if r := recover(); r != nil {
			cfg = build(t, nil, sec)
		}
	}()
	return build(t, raw, sec)
}

func build(t Type, raw map[string]any, sec Section) Config {
	if raw == nil {
		raw = map[string]any{}
	}
	switch t {
	case TypeQuiz:
		return Config{Type: t, Quiz: normalizeQuiz(raw, sec)}
	case TypeFlashcard:
		return Config{Type: t, Flashcard: normalizeFlashcard(raw, sec)}
	case TypeEmbed:
		return Config{Type: t, Embed: normalizeEmbed(raw, sec)}
	case TypeFillBlanks:
		return Config{Type: t, FillBlanks: normalizeFillBlanks(raw, sec)}
	case TypeMatching:
		return Config{Type: t, Matching: normalizeMatching(raw, sec)}
	default:
		return Config{Type: TypeSlide, Slide: normalizeSlide(raw, sec)}
	}
}

func headingOr(sec Section, def string) string {
	if h := strings.TrimSpace(sec.Heading); h != "" {
		return h
	}
	return def
}

func normalizeSlide(raw map[string]any, sec Section) *SlideConfig {
	out := &SlideConfig{MediaType: "image"}
	if s, ok := text(raw["content"]); ok {
		out.Content = s
	} else {
		out.Content = truncate(sec.Content, slideContentChars)
	}
	if s, ok := text(raw["narration"]); ok {
		out.Narration = s
	} else {
		out.Narration = fmt.Sprintf("In this slide we walk through the key ideas of %s.", headingOr(sec, "this section"))
	}
	if s, ok := text(raw["media_url"]); ok {
		out.MediaURL = s
	}
	if s, ok := text(raw["media_type"]); ok && strings.EqualFold(s, "video") {
		out.MediaType = "video"
	}
	return out
}

func normalizeQuiz(raw map[string]any, sec Section) *QuizConfig {
	out := &QuizConfig{}
	if s, ok := text(raw["question"]); ok {
		out.Question = s
	} else {
		out.Question = fmt.Sprintf("Which statement best describes %s?", headingOr(sec, "this section"))
	}

	if items, ok := list(raw["options"]); ok && len(items) > 1 {
		if len(items) > MaxQuizOptions {
			items = items[:MaxQuizOptions]
		}
		out.Options = make([]string, 0, len(items))
		for _, it := range items {
			out.Options = append(out.Options, stringify(it))
		}
	} else {
		excerpt := strings.TrimSpace(truncate(strings.TrimSpace(sec.Content), quizExcerptChars))
		if excerpt == "" {
			excerpt = headingOr(sec, "The main idea of this section")
		}
		out.Options = append([]string{excerpt}, quizPlaceholders...)
	}

	if n, ok := integer(raw["correct_answer"]); ok {
		out.CorrectAnswer = clamp(n, 0, min(MaxQuizAnswer, len(out.Options)-1))
	}
	if s, ok := text(raw["explanation"]); ok {
		out.Explanation = s
	}
	return out
}

func normalizeFlashcard(raw map[string]any, sec Section) *FlashcardConfig {
	out := &FlashcardConfig{}
	if items, ok := list(raw["cards"]); ok {
		for _, it := range items {
			if len(out.Cards) == MaxCards {
				break
			}
			m, ok := object(it)
			if !ok {
				continue
			}
			front, fok := text(m["front"])
			back, bok := text(m["back"])
			if !fok || !bok {
				continue
			}
			out.Cards = append(out.Cards, Card{
				Front: truncate(front, MaxCardFront),
				Back:  truncate(back, MaxCardBack),
			})
		}
	}
	if len(out.Cards) == 0 {
		out.Cards = []Card{{
			Front: truncate(headingOr(sec, "Key idea"), MaxCardFront),
			Back:  truncate(sec.Content, MaxCardBack),
		}}
	}
	return out
}

func normalizeEmbed(raw map[string]any, sec Section) *EmbedConfig {
	out := &EmbedConfig{EmbedType: "video"}
	if s, ok := text(raw["url"]); ok {
		out.URL = s
	} else {
		out.URL = PlaceholderEmbedURL(sec.ID)
	}
	if s, ok := text(raw["embed_type"]); ok && strings.EqualFold(s, "article") {
		out.EmbedType = "article"
	}
	return out
}

// PlaceholderEmbedURL is the stable stand-in used when no embed url is supplied.
func PlaceholderEmbedURL(sectionID string) string {
	return "https://www.youtube.com/embed/placeholder?section=" + sectionID
}

func normalizeFillBlanks(raw map[string]any, sec Section) *FillBlanksConfig {
	instruction := defaultFillBlanksInstruction
	if s, ok := text(raw["instruction"]); ok {
		instruction = s
	}

	twb, tok := text(raw["text_with_blanks"])
	items, lok := list(raw["blanks"])
	if tok && lok && len(items) > 0 {
		if len(items) > MaxBlanks {
			items = items[:MaxBlanks]
		}
		blanks := make([]Blank, 0, len(items))
		for i, it := range items {
			m, ok := object(it)
			if !ok {
				continue
			}
			pos, ok := integer(m["position"])
			if !ok {
				pos = i
			}
			answers := answerList(m["correct_answers"])
			if len(answers) == 0 {
				continue
			}
			blanks = append(blanks, Blank{Position: pos, CorrectAnswers: answers})
		}
		if len(blanks) > 0 {
			return &FillBlanksConfig{Instruction: instruction, TextWithBlanks: twb, Blanks: blanks}
		}
	}

	textOut, blanks := generateBlanks(sec.Content)
	return &FillBlanksConfig{Instruction: instruction, TextWithBlanks: textOut, Blanks: blanks}
}

func answerList(v any) []string {
	if s, ok := text(v); ok {
		return []string{s}
	}
	items, ok := list(v)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range items {
		if s := stringify(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// generateBlanks replaces every fifth word longer than three characters with
// BlankMarker, up to MaxBlanks.
func generateBlanks(content string) (string, []Blank) {
	out := content
	blanks := make([]Blank, 0, MaxBlanks)
	words := strings.Fields(content)
	for i := 0; i < len(words) && len(blanks) < MaxBlanks; i += blankStride {
		w := words[i]
		if utf8.RuneCountInString(w) < blankMinWordLen {
			continue
		}
		idx := strings.Index(out, w)
		if idx < 0 {
			continue
		}
		out = out[:idx] + BlankMarker + out[idx+len(w):]
		blanks = append(blanks, Blank{Position: len(blanks), CorrectAnswers: []string{w}})
	}
	return out, blanks
}

func normalizeMatching(raw map[string]any, sec Section) *MatchingConfig {
	out := &MatchingConfig{Instruction: defaultMatchingInstruction}
	if s, ok := text(raw["instruction"]); ok {
		out.Instruction = s
	}
	if items, ok := list(raw["pairs"]); ok && len(items) > 0 {
		if len(items) > MaxMatchingPairs {
			items = items[:MaxMatchingPairs]
		}
		out.Pairs = make([]Pair, 0, len(items))
		for _, it := range items {
			m, _ := object(it)
			out.Pairs = append(out.Pairs, Pair{Left: stringify(m["left"]), Right: stringify(m["right"])})
		}
		return out
	}
	out.Pairs = splitPairs(sec.Content)
	return out
}

func splitPairs(content string) []Pair {
	pairs := make([]Pair, 0, MaxMatchingPairs)
	for _, s := range sentenceBreak.Split(content, -1) {
		if len(pairs) == MaxMatchingPairs {
			break
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if i := strings.Index(s, ","); i >= 0 {
			pairs = append(pairs, Pair{Left: strings.TrimSpace(s[:i]), Right: strings.TrimSpace(s[i+1:])})
			continue
		}
		r := []rune(s)
		mid := len(r) / 2
		pairs = append(pairs, Pair{Left: strings.TrimSpace(string(r[:mid])), Right: strings.TrimSpace(string(r[mid:]))})
	}
	return pairs
}
