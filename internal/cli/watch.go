package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/index"
	"github.com/aidanlsb/quill/internal/parsers"
	"github.com/aidanlsb/quill/internal/ui"
	"github.com/aidanlsb/quill/internal/watcher"
)

var (
	watchDebounce time.Duration
	watchNoSync   bool
)

type watchEvent struct {
	Path   string `json:"path"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the content directory and keep the index current",
	Long: `Syncs the content directory once and then watches it, reparsing each unit
shortly after its files change. Editing any file inside a content folder
reparses the whole folder. Deleted units are removed from the index.

The watcher ignores .quill/, hidden directories and node_modules/. It holds
the index lock until it exits, so 'quill sync' cannot run alongside it.

With --json every processed unit is written as one JSON object per line.

Examples:
  quill watch
  quill watch --debounce 500ms
  quill watch --no-sync --log-level debug`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		contentDir, err := resolveContentDir()
		if err != nil {
			return handleError(ErrFileNotFound, err, "Set content_dir in config or pass --content-dir")
		}
		dbPath, err := getConfig().DatabasePath()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		lock, err := index.AcquireLock(dbPath)
		if err != nil {
			return handleError("", err, "Stop the running sync or watch first")
		}
		defer lock.Release()

		db, err := index.Open(dbPath)
		if err != nil {
			return handleError(ErrDatabaseError, err, "Delete the index file and sync again")
		}
		defer db.Close()

		svc := newService(contentDir)
		if !watchNoSync {
			res, err := runBatch(cmd, svc, contentDir, parsers.BatchOptions{}, "Syncing content")
			if err != nil {
				return handleError("", err, "")
			}
			run, err := db.Sync(res, index.SyncOptions{ContentDir: contentDir, Prune: true, Pattern: effectivePattern()})
			if err != nil {
				return handleError(ErrDatabaseError, err, "")
			}
			logger.Info("initial sync finished", "run_id", run.ID, "inserted", run.Inserted,
				"updated", run.Updated, "removed", run.Removed, "failed", run.Failed)
		}

		pattern := effectivePattern()
		w, err := watcher.New(watcher.Config{
			ContentDir:    contentDir,
			Database:      db,
			Service:       svc,
			Pattern:       pattern,
			DebounceDelay: watchDebounce,
			Logger:        logger,
			OnChange:      printChange,
		})
		if err != nil {
			return handleError("", err, "")
		}

		if !isJSONOutput() {
			fmt.Println(ui.Infof("Watching %s", ui.FilePath(contentDir)))
			fmt.Println(ui.Hint("Press Ctrl+C to stop"))
		}
		if err := w.Start(cmd.Context()); err != nil {
			return handleError(ErrInternal, err, "")
		}
		if !isJSONOutput() {
			fmt.Println(ui.Info("Stopped watching"))
		}
		return nil
	},
}

func printChange(c watcher.Change) {
	if isJSONOutput() {
		ev := watchEvent{Path: c.RelPath, Result: string(c.Result)}
		if c.Err != nil {
			ev.Error = failureMessage(c.Err)
			ev.Code = errorCode(c.Err)
		}
		_ = json.NewEncoder(os.Stdout).Encode(ev)
		return
	}
	if c.Err != nil {
		fmt.Println(ui.Errorf("%s: %s", ui.FilePath(c.RelPath), failureMessage(c.Err)))
		return
	}
	if c.Result == index.Unchanged {
		return
	}
	fmt.Println(ui.Successf("%s %s", ui.FilePath(c.RelPath), ui.Hint(string(c.Result))))
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "Quiet period before a changed unit is reparsed")
	watchCmd.Flags().BoolVar(&watchNoSync, "no-sync", false, "Skip the initial sync")
	watchCmd.Flags().StringVarP(&batchPattern, "pattern", "p", "", "Glob selecting files (default from config, **/*.md)")
	watchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Concurrent parses for the initial sync (default from config)")
	rootCmd.AddCommand(watchCmd)
}
