package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/auth"
	"github.com/vplay-cli/vplay/dropzone"
	"github.com/vplay-cli/vplay/icon"
	"github.com/vplay-cli/vplay/key"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/media"
	"github.com/vplay-cli/vplay/notify"
	"github.com/vplay-cli/vplay/player"
	"github.com/vplay-cli/vplay/server"
	"github.com/vplay-cli/vplay/session"
	"github.com/vplay-cli/vplay/style"
	"github.com/vplay-cli/vplay/where"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "Listen address")
	lo.Must0(viper.BindPFlag(key.ServerAddress, serveCmd.Flags().Lookup("address")))

	serveCmd.Flags().StringP("drop", "d", "", "Watch a directory and play videos placed in it")
	serveCmd.Flags().Bool("no-drop", false, "Do not watch the default drop folder")
	serveCmd.MarkFlagsMutuallyExclusive("drop", "no-drop")

	serveCmd.SetOut(os.Stdout)
}

// serveCmd runs the player headless behind the remote control API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the player behind an HTTP and websocket remote control",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		token, err := auth.EnsureToken()
		handleErr(err)

		dropDir := where.Drop()
		if dir := lo.Must(cmd.Flags().GetString("drop")); dir != "" {
			dropDir = dir
		}
		if lo.Must(cmd.Flags().GetBool("no-drop")) {
			dropDir = ""
		}

		ctx, stop := signalContext()
		defer stop()

		handleErr(serve(ctx, cmd, token, dropDir))
	},
}

func serve(ctx context.Context, cmd *cobra.Command, token, dropDir string) error {
	backend, err := player.New()
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warnf("close player: %s", err)
		}
	}()

	hub := server.NewHub()
	host := session.NewHost(backend, notify.Wrap(hub), session.OptionsFromConfig())
	srv := server.New(host, hub, server.Options{
		Token:       token,
		UploadLimit: int64(viper.GetInt(key.ServerUploadLimitMB)) << 20,
		UploadDir:   where.Temp(),
	})

	address := viper.GetString(key.ServerAddress)
	cmd.Printf("%s listening on %s\n", style.Fg(style.Green)(icon.Get(icon.Success)), style.Bold("http://"+address))
	cmd.Printf("%s token %s\n", style.Faint("auth"), style.Fg(style.Yellow)(token))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return host.Run(gctx) })
	g.Go(func() error {
		return srv.ListenAndServe(gctx, address, viper.GetInt(key.ServerMaxConnections))
	})

	if dropDir != "" {
		cmd.Printf("%s drop folder %s\n", style.Faint("intake"), dropDir)
		watcher := dropzone.New(dropDir, func(file media.File) {
			host.Post(func(c *session.Controller) {
				if err := c.LoadDropped(file); err != nil {
					log.Infof("drop %s: %s", file.Name, err)
				}
			})
		})
		g.Go(func() error { return watcher.Run(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func init() {
	serveCmd.AddCommand(serveTokenCmd)
	serveTokenCmd.Flags().BoolP("rotate", "r", false, "Replace the stored token with a new one")
	serveTokenCmd.Flags().Bool("delete", false, "Remove the stored token from the keyring")
	serveTokenCmd.MarkFlagsMutuallyExclusive("rotate", "delete")
	serveTokenCmd.SetOut(os.Stdout)
}

var serveTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the remote control token kept in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case lo.Must(cmd.Flags().GetBool("delete")):
			handleErr(auth.DeleteToken())
			cmd.Printf("%s token deleted\n", style.Fg(style.Green)(icon.Get(icon.Success)))
		case lo.Must(cmd.Flags().GetBool("rotate")):
			token, err := auth.RotateToken()
			handleErr(err)
			cmd.Println(token)
		default:
			token, err := auth.EnsureToken()
			handleErr(err)
			cmd.Println(token)
		}
	},
}
