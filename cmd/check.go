package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/icon"
	"github.com/vplay-cli/vplay/key"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/style"
	"github.com/vplay-cli/vplay/version"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetOut(os.Stdout)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the playback backend is installed and recent enough",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		binary := viper.GetString(key.PlayerBinary)
		release, err := version.Player(context.Background(), binary)
		handleErr(err)

		cmd.Printf("%s %s %s\n", style.Fg(style.Green)(icon.Get(icon.Success)), binary, style.Bold(release))
	},
}

// CheckDependencies exits with an install hint when the configured mpv
// binary is missing, and warns when it is older than version.MinimumPlayer.
func CheckDependencies() {
	binary := viper.GetString(key.PlayerBinary)

	if _, err := exec.LookPath(binary); err != nil {
		printMissingDependencyError(binary)
		os.Exit(1)
	}

	release, err := version.Player(context.Background(), binary)
	if err != nil {
		log.Warnf("check %s: %s", binary, err)
		return
	}

	if ok, err := version.Supported(release); err == nil && !ok {
		fmt.Printf(
			"%s %s %s is older than %s, some controls may not work\n",
			style.Fg(style.Yellow)(icon.Get(icon.Alert)),
			binary,
			release,
			version.MinimumPlayer,
		)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install mpv"
	case "linux":
		installCmd = "sudo apt install mpv"
	case "windows":
		installCmd = "scoop install mpv"
	}

	title := style.New().Bold(true).Foreground(style.Red).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(style.Box(style.Red).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
