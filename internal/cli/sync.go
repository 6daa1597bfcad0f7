package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/index"
	"github.com/aidanlsb/quill/internal/parsers"
	"github.com/aidanlsb/quill/internal/ui"
)

var syncNoPrune bool

type syncResult struct {
	RunID     string           `json:"run_id"`
	Database  string           `json:"database"`
	Inserted  int              `json:"inserted"`
	Updated   int              `json:"updated"`
	Unchanged int              `json:"unchanged"`
	Removed   int              `json:"removed"`
	Failed    int              `json:"failed"`
	Failures  []failureSummary `json:"failures"`
}

var syncCmd = &cobra.Command{
	Use:   "sync [dir]",
	Short: "Parse content and store the records in the index",
	Long: `Parses every unit under the content directory (or a directory inside it)
and upserts the records into the SQLite index. Records whose content hash did
not change are left untouched. Records of files that no longer exist are
removed unless --no-prune is given. Only records the --pattern glob selects
are candidates for removal; files that fail to parse keep their last stored
record.

Examples:
  quill sync
  quill sync blog --workers 4
  quill sync --db /tmp/index.db --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentDir, err := resolveContentDir()
		if err != nil {
			return handleError(ErrFileNotFound, err, "Set content_dir in config or pass --content-dir")
		}
		dir, scope, err := batchDir(contentDir, args)
		if err != nil {
			return handleError("", err, "")
		}
		dbPath, err := getConfig().DatabasePath()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		lock, err := index.AcquireLock(dbPath)
		if err != nil {
			return handleError("", err, "Wait for the running sync to finish")
		}
		defer lock.Release()

		db, err := index.Open(dbPath)
		if err != nil {
			return handleError(ErrDatabaseError, err, "Delete the index file and sync again")
		}
		defer db.Close()

		start := time.Now()
		svc := newService(contentDir)
		res, err := runBatch(cmd, svc, dir, parsers.BatchOptions{}, "Syncing content")
		if err != nil {
			return handleError("", err, "")
		}

		run, err := db.Sync(res, index.SyncOptions{
			ContentDir: contentDir,
			Prune:      !syncNoPrune,
			Scope:      scope,
			Pattern:    effectivePattern(),
		})
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		logger.Info("sync finished",
			"run_id", run.ID,
			"inserted", run.Inserted,
			"updated", run.Updated,
			"unchanged", run.Unchanged,
			"removed", run.Removed,
			"failed", run.Failed,
			"duration", time.Since(start).Round(time.Millisecond))

		if isJSONOutput() {
			outputSuccess(syncResult{
				RunID:     run.ID,
				Database:  dbPath,
				Inserted:  run.Inserted,
				Updated:   run.Updated,
				Unchanged: run.Unchanged,
				Removed:   run.Removed,
				Failed:    run.Failed,
				Failures:  summarizeFailures(res.Failures),
			}, &Meta{Count: len(res.Records), DurationMs: time.Since(start).Milliseconds()})
			return nil
		}

		fmt.Println(ui.Successf("Synced %s into %s", ui.Count(len(res.Records), "record"), ui.FilePath(dbPath)))
		tbl := ui.NewTable("inserted", "updated", "unchanged", "removed", "failed")
		tbl.AddRow(ui.Number(run.Inserted), ui.Number(run.Updated), ui.Number(run.Unchanged), ui.Number(run.Removed), ui.Number(run.Failed))
		fmt.Print(tbl.String())
		printFailures(res.Failures)
		return nil
	},
}

func init() {
	addBatchFlags(syncCmd.Flags())
	syncCmd.Flags().BoolVar(&syncNoPrune, "no-prune", false, "Keep index records of files that no longer exist")
	rootCmd.AddCommand(syncCmd)
}
