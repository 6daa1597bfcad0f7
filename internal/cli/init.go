package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/config"
	"github.com/aidanlsb/quill/internal/ui"
	"github.com/aidanlsb/quill/internal/vault"
)

type initResult struct {
	ContentDir string `json:"content_dir"`
	ConfigPath string `json:"config_path"`
	Config     string `json:"config"`
	Gitignore  string `json:"gitignore"`
}

var initCmd = &cobra.Command{
	Use:   "init [content-dir]",
	Short: "Create a config file and index directory for a content tree",
	Long: `Writes a commented config file pointing at the content directory and
prepares the directory for syncing.

Creates:
  - config.toml  (at --config, or ~/.config/quill/config.toml)
  - .quill/      (index directory inside the content tree)
  - .gitignore   (ignores the index)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := contentDirFlag
		if len(args) > 0 {
			dir = args[0]
		}
		if dir == "" {
			dir = "."
		}
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		if err := os.MkdirAll(filepath.Join(absDir, vault.DataDir), 0o755); err != nil {
			return handleError(ErrInternal, fmt.Errorf("failed to create %s directory: %w", vault.DataDir, err), "")
		}

		gitignoreStatus, err := ensureGitignore(absDir)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		path := configPath
		if strings.TrimSpace(path) == "" {
			path, err = config.XDGPath()
			if err != nil {
				return handleError(ErrInternal, err, "Pass --config with an explicit path")
			}
		}
		configStatus := "created"
		if err := config.CreateDefault(path, absDir); err != nil {
			if !errors.Is(err, config.ErrExists) {
				return handleError(ErrInternal, err, "")
			}
			configStatus = "exists"
		}

		if isJSONOutput() {
			outputSuccess(initResult{ContentDir: absDir, ConfigPath: path, Config: configStatus, Gitignore: gitignoreStatus}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Initialized %s", ui.FilePath(absDir)))
		switch configStatus {
		case "created":
			fmt.Printf("  config     %s\n", ui.FilePath(path))
		default:
			fmt.Printf("  config     %s %s\n", ui.FilePath(path), ui.Hint("(already exists, left unchanged)"))
		}
		fmt.Printf("  .gitignore %s\n", gitignoreStatus)
		fmt.Println()
		fmt.Println(ui.Hint("Run 'quill sync' to build the index."))
		return nil
	},
}

// ensureGitignore makes sure the content tree ignores the index directory.
// It returns "created", "updated" or "unchanged".
func ensureGitignore(dir string) (string, error) {
	path := filepath.Join(dir, ".gitignore")
	entry := vault.DataDir + "/"

	existing := ""
	if data, err := os.ReadFile(path); err == nil {
		existing = string(data)
	}
	for _, line := range strings.Split(existing, "\n") {
		if strings.TrimSpace(line) == entry {
			return "unchanged", nil
		}
	}

	status := "created"
	newContent := "# quill index (rebuilt with 'quill sync')\n" + entry + "\n"
	if existing != "" {
		status = "updated"
		newContent = strings.TrimRight(existing, "\n") + "\n\n" + newContent
	}
	if err := os.WriteFile(path, []byte(newContent), 0o644); err != nil {
		return "", fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return status, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
