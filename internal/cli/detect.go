package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/ui"
)

type detection struct {
	Path string `json:"path"`
	Type string `json:"content_type"`
}

var detectCmd = &cobra.Command{
	Use:   "detect <path>...",
	Short: "Show which content type each path would be parsed as",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentDir, err := getConfig().ResolvedContentDir()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		svc := newService(contentDir)

		results := make([]detection, 0, len(args))
		for _, arg := range args {
			path, err := resolveTarget(contentDir, arg)
			if err != nil {
				return handleError(ErrFileNotFound, err, "")
			}
			t, err := svc.DetectPath(path)
			if err != nil {
				return handleError("", err, "")
			}
			results = append(results, detection{Path: svc.Rel(path), Type: string(t)})
		}

		if isJSONOutput() {
			outputSuccess(results, &Meta{Count: len(results)})
			return nil
		}
		for _, r := range results {
			fmt.Printf("%s  %s\n", ui.Accent.Render(fmt.Sprintf("%-8s", r.Type)), r.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
