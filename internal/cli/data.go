package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportOut  string
	importFile string
)

func init() {
	rootCmd.AddCommand(exportCmd, importCmd, resetCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to file instead of stdout")
	importCmd.Flags().StringVarP(&importFile, "file", "F", "", "Read from file instead of stdin")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all rules and metadata as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine(context.Background())
		if err != nil {
			return err
		}
		defer eng.Close()

		data, err := eng.Store.Export()
		if err != nil {
			return err
		}

		if exportOut != "" {
			if err := os.WriteFile(exportOut, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", exportOut, err)
			}
			fmt.Fprintf(os.Stderr, "exported to %s\n", exportOut)
			return nil
		}
		fmt.Println(string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace all rules from a JSON export",
	Long: "Reads a previous export (file or stdin) and replaces the rule set.\n" +
		"The input must contain a rules array; anything else is rejected and\n" +
		"the current rules are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if importFile != "" {
			data, err = os.ReadFile(importFile)
			if err != nil {
				return fmt.Errorf("read %s: %w", importFile, err)
			}
		} else {
			data, err = readStdin()
			if err != nil {
				return err
			}
		}

		eng, err := openEngine(context.Background())
		if err != nil {
			return err
		}
		defer eng.Close()

		if !eng.Store.Import(data) {
			return fmt.Errorf("import rejected: input has no rules array")
		}
		meta := eng.Store.Metadata()
		fmt.Printf("imported %d rule(s)\n", meta.TotalRules)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace all rules with the built-in defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine(context.Background())
		if err != nil {
			return err
		}
		defer eng.Close()

		eng.Store.ResetToDefault()
		meta := eng.Store.Metadata()
		fmt.Printf("reset to %d default rule(s), %d active\n", meta.TotalRules, meta.ActiveRules)
		return nil
	},
}
