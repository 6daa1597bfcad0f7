package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/ui"
)

var (
	searchType  string
	searchLimit int
)

type searchHit struct {
	Path    string  `json:"path"`
	Type    string  `json:"content_type"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Rank    float64 `json:"rank"`
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over indexed records",
	Long: `Searches titles and extracted text of every record in the index.
The query supports words, "quoted phrases", AND/OR/NOT and prefix*.

Examples:
  quill search kubernetes
  quill search "event sourcing" --type blog
  quill search 'rust OR go' --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openExistingIndex()
		if err != nil {
			return handleError("", err, "Run 'quill sync' first")
		}
		defer db.Close()

		results, err := db.Search(strings.Join(args, " "), strings.ToLower(searchType), searchLimit)
		if err != nil {
			return handleError(ErrDatabaseError, err, "Check the query syntax")
		}

		hits := make([]searchHit, 0, len(results))
		for _, r := range results {
			hits = append(hits, searchHit{Path: r.RelPath, Type: r.ContentType, Title: r.Title, Snippet: r.Snippet, Rank: r.Rank})
		}

		if isJSONOutput() {
			outputSuccess(hits, &Meta{Count: len(hits)})
			return nil
		}
		if len(hits) == 0 {
			fmt.Println(ui.Info("No matches"))
			return nil
		}
		for i, h := range hits {
			fmt.Printf("%s %s %s\n", ui.Muted.Render(fmt.Sprintf("%2d.", i+1)), ui.AccentBold.Render(h.Title), ui.Hint("("+h.Type+")"))
			fmt.Printf("    %s\n", ui.FilePath(h.Path))
			if snippet := strings.TrimSpace(h.Snippet); snippet != "" {
				fmt.Printf("    %s\n", strings.ReplaceAll(snippet, "\n", " "))
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "Only return records of this content type")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}
