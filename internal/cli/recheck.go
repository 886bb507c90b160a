package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(recheckCmd)
	recheckCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
}

var recheckCmd = &cobra.Command{
	Use:   "recheck [text...]",
	Short: "Check text with an AI second opinion",
	Long: "Runs the local rule matcher first; when the text is locally clean and\n" +
		"a judge is configured, asks it to catch paraphrased violations.\n" +
		"Local findings are authoritative. If the judge is unreachable the\n" +
		"local result stands.\n\n" +
		"Exit code 0 if the text is clean, 1 if it violates any rule.",
	RunE: runRecheck,
}

func runRecheck(cmd *cobra.Command, args []string) error {
	text, err := textFromArgsOrStdin(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	if eng.Judge == nil {
		fmt.Fprintln(os.Stderr, "note: no judge configured, running local check only")
	}

	res := eng.Recheck.Recheck(ctx, text)
	printResult(res)

	if res.IsViolating {
		os.Exit(1)
	}
	return nil
}
