package segment

import (
	"strings"
	"testing"
)

func TestHTMLToMarkdown_HeadingsSurviveConversion(t *testing.T) {
	md, err := HTMLToMarkdown(`<html><body><h1>Channels</h1><p>Send and receive.</p><h2>Buffered</h2><p>Capacity matters.</p></body></html>`)
	if err != nil {
		t.Fatalf("HTMLToMarkdown: %v", err)
	}
	secs := Headings(md)
	if len(secs) != 2 {
		t.Fatalf("expected 2 sections, got %d from %q", len(secs), md)
	}
	if secs[0].Title != "Channels" || secs[0].Level != 1 {
		t.Fatalf("unexpected first section: %+v", secs[0])
	}
	if secs[1].Title != "Buffered" || secs[1].Level != 2 {
		t.Fatalf("unexpected second section: %+v", secs[1])
	}
	if !strings.Contains(secs[1].Content, "Capacity matters.") {
		t.Fatalf("expected body text in section, got %q", secs[1].Content)
	}
}

func TestHTMLToMarkdown_Blank(t *testing.T) {
	md, err := HTMLToMarkdown("  \n")
	if err != nil || md != "" {
		t.Fatalf("expected empty output, got %q err=%v", md, err)
	}
}

func TestIsHTML(t *testing.T) {
	for _, typ := range []string{"html", " HTML ", "text/html", "htm"} {
		if !IsHTML(typ) {
			t.Fatalf("expected %q to be html", typ)
		}
	}
	if IsHTML("markdown") || IsHTML("") {
		t.Fatalf("markdown and empty are not html")
	}
}
