package cmd

import (
	"encoding/json"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vplay-cli/vplay/session"
	"github.com/vplay-cli/vplay/style"
)

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	keysCmd.SetOut(os.Stdout)
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List key bindings and remote actions",
	Run: func(cmd *cobra.Command, args []string) {
		keymap := session.DefaultKeymap()
		bound := lo.Invert(keymap)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(keymap))
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Key", "Action"})

		for _, name := range keymap.Keys() {
			t.AppendRow(table.Row{
				style.Fg(style.Yellow)(session.DisplayKey(name)),
				string(keymap[name]),
			})
		}

		for _, action := range session.Actions() {
			if _, ok := bound[action]; ok {
				continue
			}
			t.AppendRow(table.Row{style.Faint("api only"), string(action)})
		}

		t.Render()
	},
}
