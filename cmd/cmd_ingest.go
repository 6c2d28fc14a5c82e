package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-pathgen/internal/app"
	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning"
)

var (
	ingestType   string
	ingestSource string
)

// ingestCmd stores a document as embedded sections
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a text, markdown or html document",
	Long: `Segment a document by its headings, pack the sections into chunks,
embed every chunk and store them. Prints the new document_id.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestType, "type", "t", "", "document type (defaults from the file extension)")
	ingestCmd.Flags().StringVar(&ingestSource, "source", "cli", "free-form origin label")
}

func runIngest(cmd *cobra.Command, args []string) error {
	file := strings.TrimSpace(args[0])
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	typ := strings.TrimSpace(ingestType)
	if typ == "" {
		typ = typeFromExt(file)
	}

	application, err := app.New()
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer application.Close()

	doc, err := application.Learning.IngestDocument(cmd.Context(), learning.IngestDocumentInput{
		Path:   file,
		Type:   typ,
		Source: ingestSource,
		Text:   string(raw),
	})
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"document_id": doc.ID.String(),
		"title":       doc.Title(),
		"type":        doc.Type,
	})
}

func typeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "markdown"
	case ".html", ".htm":
		return "html"
	default:
		return "text"
	}
}
