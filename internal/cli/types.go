package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/ui"
)

type typesInfo struct {
	Types    []string          `json:"types"`
	Synonyms map[string]string `json:"synonyms"`
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List content types and the path segments that select them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		contentDir, err := getConfig().ResolvedContentDir()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		svc := newService(contentDir)

		info := typesInfo{Synonyms: map[string]string{}}
		for _, t := range svc.Registry.Types() {
			info.Types = append(info.Types, string(t))
		}
		synonyms := svc.Detector.Synonyms()
		for _, pair := range synonyms {
			info.Synonyms[pair[0]] = pair[1]
		}

		if isJSONOutput() {
			outputSuccess(info, &Meta{Count: len(info.Types)})
			return nil
		}

		fmt.Println(ui.Header("Types"))
		for _, t := range info.Types {
			fmt.Printf("  %s\n", ui.Accent.Render(t))
		}
		fmt.Println()
		fmt.Println(ui.Header("Path segments"))
		tbl := ui.NewTable("segment", "type")
		for _, pair := range synonyms {
			tbl.AddRow(pair[0], pair[1])
		}
		fmt.Print(tbl.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
