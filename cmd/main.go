package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-pathgen/internal/platform/apierr"
)

var rootCmd = &cobra.Command{
	Use:   "pathgen",
	Short: "Turn documents into learning paths",
	Long: `pathgen ingests text, markdown or html documents into embedded sections
and generates a learning path of activities for an ingested document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(generateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if code := apierr.CodeOf(err); code != "" {
			fmt.Fprintf(os.Stderr, "code=%s status=%d\n", code, apierr.StatusOf(err))
		}
		stop()
		os.Exit(1)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
