package cli

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/ui"
)

type statsResult struct {
	Database     string          `json:"database"`
	SizeBytes    int64           `json:"size_bytes"`
	Records      int             `json:"records"`
	Invalid      int             `json:"invalid"`
	Technologies int             `json:"technologies"`
	Tags         int             `json:"tags"`
	ByType       map[string]int  `json:"by_type"`
	TopTech      []techUsage     `json:"top_technologies"`
	LastRun      *lastRunSummary `json:"last_run,omitempty"`
}

type techUsage struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Records  int    `json:"records"`
}

type lastRunSummary struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	Unchanged  int       `json:"unchanged"`
	Removed    int       `json:"removed"`
	Failed     int       `json:"failed"`
}

const topTechnologies = 10

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openExistingIndex()
		if err != nil {
			return handleError("", err, "Run 'quill sync' first")
		}
		defer db.Close()

		stats, err := db.Stats()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		techs, err := db.Technologies()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		run, err := db.LastRun()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		res := statsResult{
			Database:     db.Path(),
			Records:      stats.RecordCount,
			Invalid:      stats.InvalidCount,
			Technologies: stats.TechnologyCount,
			Tags:         stats.TagCount,
			ByType:       stats.ByType,
		}
		if info, err := os.Stat(db.Path()); err == nil {
			res.SizeBytes = info.Size()
		}
		for i, t := range techs {
			if i == topTechnologies {
				break
			}
			res.TopTech = append(res.TopTech, techUsage{Name: t.Name, Category: t.Category, Records: t.Records})
		}
		if run != nil {
			res.LastRun = &lastRunSummary{
				ID:         run.ID,
				StartedAt:  run.StartedAt,
				FinishedAt: run.FinishedAt,
				Inserted:   run.Inserted,
				Updated:    run.Updated,
				Unchanged:  run.Unchanged,
				Removed:    run.Removed,
				Failed:     run.Failed,
			}
		}

		if isJSONOutput() {
			outputSuccess(res, nil)
			return nil
		}

		fmt.Printf("%s %s\n", ui.Header("Index"), ui.Hint(fmt.Sprintf("%s, %s", res.Database, ui.Bytes(res.SizeBytes))))
		fmt.Printf("  %s, %s\n", ui.Count(res.Records, "record"), ui.Count(res.Invalid, "invalid record"))
		fmt.Printf("  %s, %s\n", ui.Count(res.Technologies, "technology"), ui.Count(res.Tags, "tag"))

		types := make([]string, 0, len(res.ByType))
		for t := range res.ByType {
			types = append(types, t)
		}
		sort.Strings(types)
		if len(types) > 0 {
			fmt.Println()
			tbl := ui.NewTable("type", "records")
			for _, t := range types {
				tbl.AddRow(t, ui.Number(res.ByType[t]))
			}
			fmt.Print(tbl.String())
		}

		if len(res.TopTech) > 0 {
			fmt.Println()
			tbl := ui.NewTable("technology", "category", "records")
			for _, t := range res.TopTech {
				tbl.AddRow(t.Name, t.Category, ui.Number(t.Records))
			}
			fmt.Print(tbl.String())
		}

		fmt.Println()
		if res.LastRun == nil {
			fmt.Println(ui.Hint("No sync runs yet"))
			return nil
		}
		fmt.Printf("Last sync %s %s\n", ui.Ago(res.LastRun.StartedAt), ui.Hint("("+res.LastRun.ID+")"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
