package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/copywatch/internal/match"
	"github.com/ppiankov/copywatch/internal/model"
)

var checkFormat string

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
}

var checkCmd = &cobra.Command{
	Use:   "check [text...]",
	Short: "Check text against the local rules",
	Long: "Runs the deterministic rule matcher over the given text (or stdin)\n" +
		"and reports violations with a risk score.\n\n" +
		"Exit code 0 if the text is clean, 1 if it violates any rule.\n" +
		"Use in CI to gate content before publishing.",
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := textFromArgsOrStdin(args)
	if err != nil {
		return err
	}

	eng, err := openEngine(context.Background())
	if err != nil {
		return err
	}
	defer eng.Close()

	res := match.Check(text, eng.Store.Active())
	printResult(res)

	if res.IsViolating {
		os.Exit(1)
	}
	return nil
}

func printResult(res model.CheckResult) {
	if checkFormat == "json" {
		out, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(out))
		return
	}

	if !res.IsViolating {
		fmt.Println("PASS: no policy violations found")
		return
	}
	fmt.Printf("FAIL: %s (risk %d/100)\n", res.Explanation, res.OverallRisk)
	for _, f := range res.ViolatedRules {
		fmt.Printf("  [%s] %s: %s\n", f.Severity, f.RuleTitle, f.Violation)
		if f.Suggestion != "" {
			fmt.Printf("        %s\n", f.Suggestion)
		}
	}
}
