package cmd

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vplay-cli/vplay/history"
	"github.com/vplay-cli/vplay/icon"
	"github.com/vplay-cli/vplay/style"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.Flags().Bool("clear", false, "Forget every remembered file")
	historyCmd.MarkFlagsMutuallyExclusive("json", "clear")
	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently opened files",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(history.Clear())
			cmd.Printf("%s history cleared\n", style.Fg(style.Green)(icon.Get(icon.Success)))
			return
		}

		entries, err := history.Get()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("nothing opened yet"))
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Name", "Opened", "Times", "Path"})

		for _, e := range entries {
			t.AppendRow(table.Row{
				style.Fg(style.Yellow)(e.Name),
				e.Opened.Format(time.DateTime),
				strconv.Itoa(e.Count),
				style.Faint(e.Path),
			})
		}

		t.Render()
	},
}
