package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/content"
	"github.com/aidanlsb/quill/internal/ui"
)

type previewResult struct {
	Record *content.Extracted `json:"record"`
	Body   string             `json:"body"`
}

var previewCmd = &cobra.Command{
	Use:   "preview <path>",
	Short: "Show a record summary followed by the rendered body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentDir, err := getConfig().ResolvedContentDir()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		svc := newService(contentDir)

		path, err := resolveTarget(contentDir, args[0])
		if err != nil {
			return handleError(ErrFileNotFound, err, "Check the path or set --content-dir")
		}
		src, err := content.LoadSource(path)
		if err != nil {
			return handleError("", err, "")
		}
		rec, err := svc.ParseFile(path, "")
		if err != nil {
			return handleError("", err, "")
		}

		if isJSONOutput() {
			outputSuccess(previewResult{Record: rec, Body: src.Body}, nil)
			return nil
		}

		printRecord(svc.Rel(path), rec)
		display := ui.NewDisplayContext(os.Stdout)
		rendered, err := ui.RenderMarkdown(src.Body, display.WrapWidth())
		if err != nil {
			// Fall back to the raw body.
			fmt.Println()
			fmt.Println(src.Body)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
