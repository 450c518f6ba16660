package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vplay-cli/vplay/mini"
)

func init() {
	rootCmd.AddCommand(miniCmd)
}

// miniCmd drives the player from plain prompts instead of the full screen interface.
var miniCmd = &cobra.Command{
	Use:   "mini [file]",
	Short: "Control playback from simple prompts",
	Long:  `Control playback from a sequence of simple prompts. Useful on terminals without alternate screen support.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		var options mini.Options
		if len(args) > 0 {
			options.File = args[0]
		}

		ctx, stop := signalContext()
		defer stop()

		handleErr(mini.Run(ctx, &options))
	},
}
