package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a timed quiz session",
	Long: `Start a timed quiz session in the terminal.

Answer with 1-4 or a-d, switch difficulty with e/m/h, and press H to see the
questions asked so far. Switching difficulty resets the score.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	playCmd.Flags().String("difficulty", "", "Starting difficulty: easy, medium, hard")
}
