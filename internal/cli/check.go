package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/truthcheck/internal/render"
)

var showHistory bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Fact-check a claim",
	Long: `Check sends the claim to the fact-check service and prints the verdict
with a Wikipedia article and a news search link. The result is added to history.

Example:
  truthcheck check "The Earth is flat"
  truthcheck check The Earth is flat --show-history`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&showHistory, "show-history", false, "print the updated history after the result")
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	controller := a.pipeline.Controller(render.NewTerminal(cmd.OutOrStdout()))
	if !showHistory {
		a.pipeline.History().SetView(nil)
	}

	claim := strings.TrimSpace(strings.Join(args, " "))
	return reported(controller.CheckClaim(cmd.Context(), claim))
}
