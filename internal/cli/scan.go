package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/quill/internal/parsers"
	"github.com/aidanlsb/quill/internal/ui"
)

var (
	batchPattern string
	batchWorkers int
	scanType     string
)

type scanResult struct {
	Records  []recordSummary  `json:"records"`
	Failures []failureSummary `json:"failures"`
}

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Parse every content unit under a directory",
	Long: `Walks the content directory (or a directory inside it) and parses every
file and content folder matching the pattern. A unit that cannot be parsed is
reported and skipped; it never stops the scan.

Examples:
  quill scan
  quill scan blog --pattern "**/*.md" --workers 4
  quill scan --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentDir, err := resolveContentDir()
		if err != nil {
			return handleError(ErrFileNotFound, err, "Set content_dir in config or pass --content-dir")
		}
		dir, _, err := batchDir(contentDir, args)
		if err != nil {
			return handleError("", err, "")
		}
		svc := newService(contentDir)
		forced, err := validateType(svc, scanType)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Run 'quill types' to see available types")
		}

		start := time.Now()
		res, err := runBatch(cmd, svc, dir, parsers.BatchOptions{Type: forced}, "Scanning content")
		if err != nil {
			return handleError("", err, "")
		}

		if isJSONOutput() {
			out := scanResult{Records: make([]recordSummary, 0, len(res.Records)), Failures: summarizeFailures(res.Failures)}
			for i, rec := range res.Records {
				out.Records = append(out.Records, summarize(res.RelPaths[i], rec))
			}
			outputSuccess(out, &Meta{Count: len(out.Records), DurationMs: time.Since(start).Milliseconds()})
			return nil
		}

		tbl := ui.NewTable("type", "quality", "issues", "path")
		for i, rec := range res.Records {
			tbl.AddRow(string(rec.ContentType), ui.Percent(rec.ExtractionQuality), issues(rec), ui.FilePath(res.RelPaths[i]))
		}
		fmt.Print(tbl.String())
		printFailures(res.Failures)

		fmt.Println()
		summary := ui.Successf("Parsed %s in %s", ui.Count(len(res.Records), "unit"), time.Since(start).Round(time.Millisecond))
		if n := len(res.Failures); n > 0 {
			summary += " " + ui.Hint(fmt.Sprintf("(%d failed)", n))
		}
		fmt.Println(summary)
		return nil
	},
}

// runBatch parses dir with the shared batch flags, showing a spinner on
// stderr in text mode.
func runBatch(cmd *cobra.Command, svc *parsers.Service, dir string, opts parsers.BatchOptions, label string) (*parsers.BatchResult, error) {
	c := getConfig()
	opts.Pattern = effectivePattern()
	opts.Workers = c.Workers
	if batchWorkers > 0 {
		opts.Workers = batchWorkers
	}

	var spinner *ui.Spinner
	if !isJSONOutput() {
		spinner = ui.NewSpinner(os.Stderr, label)
		spinner.Start()
	}
	res, err := svc.ParseDir(cmd.Context(), dir, opts)
	if spinner != nil {
		spinner.Stop()
	}
	return res, err
}

// effectivePattern is the --pattern flag, falling back to the config value.
func effectivePattern() string {
	if batchPattern != "" {
		return batchPattern
	}
	return getConfig().Pattern
}

func addBatchFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&batchPattern, "pattern", "p", "", "Glob selecting files (default from config, **/*.md)")
	fs.IntVarP(&batchWorkers, "workers", "w", 0, "Concurrent parses (default from config)")
}

func init() {
	addBatchFlags(scanCmd.Flags())
	scanCmd.Flags().StringVarP(&scanType, "type", "t", "", "Force a content type for every unit")
	rootCmd.AddCommand(scanCmd)
}
