package cli

import (
	"github.com/spf13/cobra"
)

var parseType string

var parseCmd = &cobra.Command{
	Use:   "parse <path>",
	Short: "Parse one file or content folder and print its record",
	Long: `Parses a markdown file, or a folder holding one, and prints the extracted
record. The content type is detected from metadata and path unless --type is
given. Validation errors and warnings are part of the record; they do not make
the command fail.

Examples:
  quill parse projects/api-gateway
  quill parse blog/2024/hello.md --json
  quill parse notes/draft.md --type idea`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentDir, err := getConfig().ResolvedContentDir()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		svc := newService(contentDir)

		forced, err := validateType(svc, parseType)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Run 'quill types' to see available types")
		}
		path, err := resolveTarget(contentDir, args[0])
		if err != nil {
			return handleError(ErrFileNotFound, err, "Check the path or set --content-dir")
		}

		rec, err := svc.ParseFile(path, forced)
		if err != nil {
			return handleError("", err, "")
		}

		if isJSONOutput() {
			outputSuccess(rec, nil)
			return nil
		}
		printRecord(svc.Rel(path), rec)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseType, "type", "t", "", "Force a content type instead of detecting it")
	rootCmd.AddCommand(parseCmd)
}
