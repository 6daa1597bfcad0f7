package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/index"
	"github.com/aidanlsb/quill/internal/ui"
)

var listOpts index.ListOptions

type listedRecord struct {
	Path     string  `json:"path"`
	Type     string  `json:"content_type"`
	Title    string  `json:"title"`
	Slug     string  `json:"slug"`
	Language string  `json:"language"`
	Quality  float64 `json:"extraction_quality"`
	Valid    bool    `json:"valid"`
	Errors   int     `json:"error_count"`
	Warnings int     `json:"warning_count"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed records",
	Long: `Lists records stored by 'quill sync', optionally filtered.

Examples:
  quill list --type project
  quill list --tech docker --valid
  quill list --tag golang --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openExistingIndex()
		if err != nil {
			return handleError("", err, "Run 'quill sync' first")
		}
		defer db.Close()

		opts := listOpts
		opts.Type = strings.ToLower(opts.Type)
		records, err := db.List(opts)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		out := make([]listedRecord, 0, len(records))
		for _, r := range records {
			out = append(out, listedRecord{
				Path:     r.RelPath,
				Type:     r.ContentType,
				Title:    r.Title,
				Slug:     r.Slug,
				Language: r.Language,
				Quality:  r.Quality,
				Valid:    r.Valid,
				Errors:   r.ErrorCount,
				Warnings: r.WarningCount,
			})
		}

		if isJSONOutput() {
			outputSuccess(out, &Meta{Count: len(out)})
			return nil
		}
		if len(out) == 0 {
			fmt.Println(ui.Info("No records"))
			return nil
		}
		tbl := ui.NewTable("type", "quality", "title", "path")
		for _, r := range out {
			quality := ui.Percent(r.Quality)
			if !r.Valid {
				quality += " " + ui.SymbolError
			}
			tbl.AddRow(r.Type, quality, r.Title, ui.FilePath(r.Path))
		}
		fmt.Print(tbl.String())
		fmt.Println(ui.Hint(ui.Count(len(out), "record")))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listOpts.Type, "type", "t", "", "Only records of this content type")
	listCmd.Flags().StringVar(&listOpts.Technology, "tech", "", "Only records using this technology")
	listCmd.Flags().StringVar(&listOpts.Tag, "tag", "", "Only records with this tag")
	listCmd.Flags().BoolVar(&listOpts.ValidOnly, "valid", false, "Only records without validation errors")
	listCmd.Flags().IntVarP(&listOpts.Limit, "limit", "n", 0, "Maximum number of records (0 = all)")
	rootCmd.AddCommand(listCmd)
}
