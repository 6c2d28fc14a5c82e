package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-pathgen/internal/app"
)

// generateCmd builds a learning path for an ingested document
var generateCmd = &cobra.Command{
	Use:   "generate <document_id>",
	Short: "Generate a learning path for an ingested document",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(strings.TrimSpace(args[0]))
	if err != nil || id == uuid.Nil {
		return fmt.Errorf("document_id must be a valid uuid")
	}

	application, err := app.New()
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer application.Close()

	out, err := application.Learning.GenerateLearningPath(cmd.Context(), id)
	if err != nil {
		return err
	}
	counts := map[string]int{}
	for _, a := range out.Activities {
		counts[a.Type]++
	}
	return printJSON(map[string]any{
		"path_id":                 out.Path.ID.String(),
		"title":                   out.Path.Title,
		"activities":              len(out.Activities),
		"activities_by_type":      counts,
		"duration_estimate_hours": out.Path.DurationEstimateHours,
	})
}
