package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/copywatch/internal/brief"
)

func init() {
	rootCmd.AddCommand(briefCmd)
}

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Render the active rules as a prompt brief",
	Long: "Prints the active rules grouped by category, formatted for embedding\n" +
		"in a generation prompt so the model avoids violations up front.",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine(context.Background())
		if err != nil {
			return err
		}
		defer eng.Close()

		fmt.Println(brief.Build(eng.Store.Active()))
		return nil
	},
}
