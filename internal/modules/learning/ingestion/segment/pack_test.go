package segment

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPack_ShallowHeadingsSeedFirst(t *testing.T) {
	secs := []HeadingSection{
		{Level: 0, Title: "Introduction", Content: "intro"},
		{Level: 1, Title: "A", Content: "alpha"},
		{Level: 2, Title: "B", Content: "beta"},
		{Level: 1, Title: "C", Content: "gamma"},
	}
	chunks := Pack(secs, 0)
	if len(chunks) != 1 {
		t.Fatalf("expected one chunk, got %d", len(chunks))
	}
	if chunks[0].Heading != "Introduction" {
		t.Fatalf("expected introduction to seed the chunk, got %q", chunks[0].Heading)
	}
	want := "Introduction\nintro\n\nC\ngamma\n\nA\nalpha\n\nB\nbeta"
	if chunks[0].Text != want {
		t.Fatalf("unexpected chunk text:\n got %q\nwant %q", chunks[0].Text, want)
	}
	if got := chunks[0].Sections; len(got) != 4 || got[0] != 0 || got[1] != 3 || got[2] != 1 || got[3] != 2 {
		t.Fatalf("unexpected section order: %v", got)
	}
}

func TestPack_FlushesWhenBoundWouldBeExceeded(t *testing.T) {
	secs := []HeadingSection{
		{Level: 1, Title: "One", Content: strings.Repeat("a", 10)},
		{Level: 1, Title: "Two", Content: strings.Repeat("b", 10)},
		{Level: 1, Title: "Three", Content: strings.Repeat("c", 100)},
	}
	// "Three\n"+100 = 106 alone; "Two\n"+10 = 14; "One\n"+10 = 14
	chunks := Pack(secs, 40)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %#v", len(chunks), chunks)
	}
	if chunks[0].Heading != "Three" || len(chunks[0].Sections) != 1 {
		t.Fatalf("oversize section should stand alone: %#v", chunks[0])
	}
	if chunks[1].Heading != "Two" || chunks[1].Text != "Two\nbbbbbbbbbb\n\nOne\naaaaaaaaaa" {
		t.Fatalf("unexpected second chunk: %#v", chunks[1])
	}
}

func TestPack_BoundCountsTrimmedContent(t *testing.T) {
	secs := Headings("# One\n\n\n" + strings.Repeat("a", 10) + "\n\n\n# Two\n\n" + strings.Repeat("b", 10) + "\n\n")
	// each section is "One\n"+10 = 14 after trimming; joined 14+2+14 = 30
	chunks := Pack(secs, 30)
	if len(chunks) != 1 {
		t.Fatalf("expected surrounding blank lines not to count toward the bound, got %d chunks", len(chunks))
	}
	want := "Two\n" + strings.Repeat("b", 10) + "\n\nOne\n" + strings.Repeat("a", 10)
	if chunks[0].Text != want {
		t.Fatalf("unexpected chunk text:\n got %q\nwant %q", chunks[0].Text, want)
	}
	if got := Pack(secs, 29); len(got) != 2 {
		t.Fatalf("expected a flush one rune below the joined length, got %d chunks", len(got))
	}
}

func TestPack_EverySectionExactlyOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(20)
		secs := make([]HeadingSection, n)
		for i := range secs {
			secs[i] = HeadingSection{
				Level:   rng.Intn(7),
				Title:   "T",
				Content: strings.Repeat("é", rng.Intn(400)),
			}
		}
		max := 50 + rng.Intn(1500)
		chunks := Pack(secs, max)

		seen := make([]int, n)
		for _, c := range chunks {
			for _, idx := range c.Sections {
				seen[idx]++
			}
			if utf8.RuneCountInString(c.Text) > max && len(c.Sections) > 1 {
				t.Fatalf("trial %d: multi-section chunk exceeds bound %d", trial, max)
			}
			for _, idx := range c.Sections {
				body := secs[idx].Title + "\n" + strings.TrimSpace(secs[idx].Content)
				if !strings.Contains(c.Text, body) {
					t.Fatalf("trial %d: section %d split across chunks", trial, idx)
				}
			}
		}
		for idx, count := range seen {
			if count != 1 {
				t.Fatalf("trial %d: section %d appears %d times", trial, idx, count)
			}
		}
	}
}

func TestPack_Empty(t *testing.T) {
	if got := Pack(nil, 100); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}
