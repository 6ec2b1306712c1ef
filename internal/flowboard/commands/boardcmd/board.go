package boardcmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
)

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	boardCmd := &cobra.Command{
		Use:     "board",
		Aliases: []string{"boards"},
		Short:   "Manage boards.",
		Long:    "Create, list, inspect, update and delete Kanban boards.",
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Create a board with the default columns.",
		Example: `flowboard board create --project <project-id> --name "Delivery"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			projectID, _ := cmd.Flags().GetString("project")
			name, _ := cmd.Flags().GetString("name")

			board, err := client.CreateBoard(context.Background(), api.CreateBoardRequest{
				ProjectID: strings.TrimSpace(projectID),
				Name:      strings.TrimSpace(name),
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, board)
		},
	}
	createCmd.Flags().StringP("project", "p", "", "Project id")
	createCmd.Flags().StringP("name", "n", "", "Board name")
	_ = createCmd.MarkFlagRequired("project")
	_ = createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a project's boards.",
		Example: "flowboard board ls --project <project-id>",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			projectID, _ := cmd.Flags().GetString("project")
			boards, err := client.Boards(context.Background(), strings.TrimSpace(projectID))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, boards)
		},
	}
	listCmd.Flags().StringP("project", "p", "", "Project id")
	_ = listCmd.MarkFlagRequired("project")

	showCmd := &cobra.Command{
		Use:     "show <board-id>",
		Aliases: []string{"get"},
		Short:   "Show a board with its columns and cards.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			board, err := client.Board(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, board)
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <board-id>",
		Short: "Rename a board.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			name, _ := cmd.Flags().GetString("name")
			trimmed := strings.TrimSpace(name)
			board, err := client.UpdateBoard(context.Background(), strings.TrimSpace(args[0]), api.UpdateBoardRequest{Name: &trimmed})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, board)
		},
	}
	updateCmd.Flags().StringP("name", "n", "", "New board name")
	_ = updateCmd.MarkFlagRequired("name")

	deleteCmd := &cobra.Command{
		Use:     "delete <board-id>",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a board. Requires the admin role.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			if err := client.DeleteBoard(context.Background(), strings.TrimSpace(args[0])); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}

	boardCmd.AddCommand(createCmd, listCmd, showCmd, updateCmd, deleteCmd)
	boardCmd.AddCommand(newLabelCommand(runtime, stdout, print, wrapErr))
	return boardCmd
}

func newLabelCommand(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	labelCmd := &cobra.Command{
		Use:     "label",
		Aliases: []string{"labels"},
		Short:   "Manage a board's labels.",
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Create a label on a board.",
		Example: `flowboard board label create --board <board-id> --name bug --color "#ef4444"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			boardID, _ := cmd.Flags().GetString("board")
			name, _ := cmd.Flags().GetString("name")
			color, _ := cmd.Flags().GetString("color")

			label, err := client.CreateLabel(context.Background(), api.CreateLabelRequest{
				BoardID: strings.TrimSpace(boardID),
				Name:    strings.TrimSpace(name),
				Color:   strings.TrimSpace(color),
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, label)
		},
	}
	createCmd.Flags().StringP("board", "b", "", "Board id")
	createCmd.Flags().StringP("name", "n", "", "Label name")
	createCmd.Flags().String("color", "", "Hex color, e.g. #ef4444")
	_ = createCmd.MarkFlagRequired("board")
	_ = createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a board's labels.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			boardID, _ := cmd.Flags().GetString("board")
			labels, err := client.Labels(context.Background(), strings.TrimSpace(boardID))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, labels)
		},
	}
	listCmd.Flags().StringP("board", "b", "", "Board id")
	_ = listCmd.MarkFlagRequired("board")

	updateCmd := &cobra.Command{
		Use:   "update <label-id>",
		Short: "Rename or recolor a label.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			req := api.UpdateLabelRequest{}
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				trimmed := strings.TrimSpace(name)
				req.Name = &trimmed
			}
			if cmd.Flags().Changed("color") {
				color, _ := cmd.Flags().GetString("color")
				trimmed := strings.TrimSpace(color)
				req.Color = &trimmed
			}
			if req.Name == nil && req.Color == nil {
				return wrapErr(common.Usagef("nothing to update: pass --name or --color"))
			}

			label, err := client.UpdateLabel(context.Background(), strings.TrimSpace(args[0]), req)
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, label)
		},
	}
	updateCmd.Flags().StringP("name", "n", "", "New label name")
	updateCmd.Flags().String("color", "", "New hex color")

	deleteCmd := &cobra.Command{
		Use:     "delete <label-id>",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a label and detach it from every card.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			if err := client.DeleteLabel(context.Background(), strings.TrimSpace(args[0])); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}

	labelCmd.AddCommand(createCmd, listCmd, updateCmd, deleteCmd)
	return labelCmd
}
