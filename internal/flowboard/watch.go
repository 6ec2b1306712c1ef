package flowboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/notify"
	"github.com/flowboardhq/flowboard/internal/session"
)

func newWatchCommand(cfg *Config, stdout io.Writer) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"poll"},
		Short:   "Poll the notification feed and print unread counts.",
		Long: strings.TrimSpace(`Polls the unread-notification count on a fixed interval and prints one
line per sample until interrupted. Poll failures are retried on the
next tick without ending the loop.`),
		Example: strings.TrimSpace(`flowboard watch
flowboard watch --interval 5s
flowboard watch --once --output json`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			interval, _ := cmd.Flags().GetDuration("interval")
			once, _ := cmd.Flags().GetBool("once")

			store := session.NewStore(cfg.SessionPath)
			client, err := api.NewClient(cfg.ServerURL, api.WithTokenSource(func() string {
				sess, loadErr := store.Load()
				if loadErr != nil {
					return ""
				}
				return sess.AccessToken
			}))
			if err != nil {
				return &cliError{status: http.StatusBadRequest, message: err.Error()}
			}

			if once {
				count, err := client.UnreadCount(cmd.Context())
				if err != nil {
					return wrapAPIError(err)
				}
				_, _ = fmt.Fprintln(stdout, FormatWatchLine(cfg.Output, count))
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			poller := notify.NewPoller(client, interval, logger, func(count int) {
				_, _ = fmt.Fprintln(stdout, FormatWatchLine(cfg.Output, count))
			})
			poller.Run(ctx)
			return nil
		},
	}

	watchCmd.Flags().Duration("interval", notify.DefaultInterval, "poll interval")
	watchCmd.Flags().Bool("once", false, "print the current count and exit")
	return watchCmd
}
