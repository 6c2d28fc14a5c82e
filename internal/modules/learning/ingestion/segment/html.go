package segment

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// IsHTML reports whether a document type names HTML input.
func IsHTML(docType string) bool {
	switch strings.ToLower(strings.TrimSpace(docType)) {
	case "html", "htm", "text/html":
		return true
	}
	return false
}

// HTMLToMarkdown converts an HTML document to markdown with ATX headings so
// it can be split by Headings.
func HTMLToMarkdown(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	md, err := mdConverter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return md, nil
}
