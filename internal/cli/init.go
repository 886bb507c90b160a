package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/copywatch/internal/config"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap copywatch configuration",
	Long: `Creates the config directory and a commented default config file
under ~/.copywatch/. The default rules are seeded on first use.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}

	wrote, err := writeIfMissing(path, config.DefaultConfigYAML())
	if err != nil {
		return err
	}

	if wrote {
		fmt.Println("copywatch init complete.")
		fmt.Println()
		fmt.Println("Created:")
		fmt.Printf("  %s\n", path)
	} else {
		fmt.Println("Config already exists (use --force to overwrite).")
	}
	fmt.Println()
	fmt.Println("Check a text:")
	fmt.Println("  copywatch check \"your ad copy here\"")
	fmt.Println()
	fmt.Println("Start the server:")
	fmt.Println("  copywatch serve")

	return nil
}

// writeIfMissing writes content to path if it doesn't exist or --force is set.
// Returns true if the file was written.
func writeIfMissing(path, content string) (bool, error) {
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
