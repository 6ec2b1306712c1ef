package notifycmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
)

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	notifyCmd := &cobra.Command{
		Use:     "notify",
		Aliases: []string{"notifications", "inbox"},
		Short:   "Read and manage the notification feed.",
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notifications, newest first.",
		Example: strings.TrimSpace(`flowboard notify ls
flowboard notify ls --unread --limit 10`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			unreadOnly, _ := cmd.Flags().GetBool("unread")
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			list, err := client.Notifications(context.Background(), api.NotificationQuery{
				UnreadOnly: unreadOnly,
				Limit:      limit,
				Offset:     offset,
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, list)
		},
	}
	listCmd.Flags().Bool("unread", false, "Only unread notifications")
	listCmd.Flags().Int("limit", 0, "Page size (0 means server default)")
	listCmd.Flags().Int("offset", 0, "Page offset")

	unreadCmd := &cobra.Command{
		Use:     "unread",
		Aliases: []string{"count"},
		Short:   "Print the unread count.",
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			count, err := client.UnreadCount(context.Background())
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, map[string]int{"unread_count": count})
		},
	}

	readCmd := &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark one notification read.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			notification, err := client.MarkNotificationRead(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, notification)
		},
	}

	readAllCmd := &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification read.",
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			if err := client.MarkAllNotificationsRead(context.Background()); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}

	removeCmd := &cobra.Command{
		Use:     "rm <notification-id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete one notification.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			if err := client.DeleteNotification(context.Background(), strings.TrimSpace(args[0])); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every notification.",
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			if err := client.ClearNotifications(context.Background()); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}

	notifyCmd.AddCommand(listCmd, unreadCmd, readCmd, readAllCmd, removeCmd, clearCmd)
	return notifyCmd
}
