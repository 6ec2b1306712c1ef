package columncmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
)

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	columnCmd := &cobra.Command{
		Use:     "column",
		Aliases: []string{"columns", "col"},
		Short:   "Manage board columns.",
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Append a column to a board.",
		Example: strings.TrimSpace(`flowboard column create --board <board-id> --name "Blocked"
flowboard col new -b <board-id> -n "QA" --wip 3 --color "#f59e0b"`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			boardID, _ := cmd.Flags().GetString("board")
			name, _ := cmd.Flags().GetString("name")
			color, _ := cmd.Flags().GetString("color")

			req := api.CreateColumnRequest{
				BoardID: strings.TrimSpace(boardID),
				Name:    strings.TrimSpace(name),
				Color:   strings.TrimSpace(color),
			}
			if cmd.Flags().Changed("wip") {
				wip, _ := cmd.Flags().GetInt("wip")
				req.WipLimit = &wip
			}

			column, err := client.CreateColumn(context.Background(), req)
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, column)
		},
	}
	createCmd.Flags().StringP("board", "b", "", "Board id")
	createCmd.Flags().StringP("name", "n", "", "Column name")
	createCmd.Flags().Int("wip", 0, "WIP limit (0 means unlimited)")
	createCmd.Flags().String("color", "", "Hex color for the column header")
	_ = createCmd.MarkFlagRequired("board")
	_ = createCmd.MarkFlagRequired("name")

	showCmd := &cobra.Command{
		Use:     "show <column-id>",
		Aliases: []string{"get"},
		Short:   "Show one column with its cards.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			column, err := client.Column(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, column)
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <column-id>",
		Short: "Update a column's name, WIP limit or color.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			req := api.UpdateColumnRequest{}
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				trimmed := strings.TrimSpace(name)
				req.Name = &trimmed
			}
			if cmd.Flags().Changed("wip") {
				wip, _ := cmd.Flags().GetInt("wip")
				req.WipLimit = &wip
			}
			if cmd.Flags().Changed("color") {
				color, _ := cmd.Flags().GetString("color")
				trimmed := strings.TrimSpace(color)
				req.Color = &trimmed
			}
			if req.Name == nil && req.WipLimit == nil && req.Color == nil {
				return wrapErr(common.Usagef("nothing to update: pass --name, --wip or --color"))
			}

			column, err := client.UpdateColumn(context.Background(), strings.TrimSpace(args[0]), req)
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, column)
		},
	}
	updateCmd.Flags().StringP("name", "n", "", "New column name")
	updateCmd.Flags().Int("wip", 0, "New WIP limit (0 means unlimited)")
	updateCmd.Flags().String("color", "", "New hex color")

	deleteCmd := &cobra.Command{
		Use:     "delete <column-id>",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete an empty column.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			if err := client.DeleteColumn(context.Background(), strings.TrimSpace(args[0])); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}

	reorderCmd := &cobra.Command{
		Use:     "reorder",
		Short:   "Reorder a board's columns.",
		Long:    "Reorder a board's columns. --ids must name every column of the board, in the desired order.",
		Example: "flowboard column reorder --ids <col-1>,<col-2>,<col-3>",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			ids, _ := cmd.Flags().GetStringSlice("ids")
			trimmed := make([]string, 0, len(ids))
			for _, id := range ids {
				if id = strings.TrimSpace(id); id != "" {
					trimmed = append(trimmed, id)
				}
			}
			if len(trimmed) == 0 {
				return wrapErr(common.Usagef("--ids cannot be empty"))
			}

			columns, err := client.ReorderColumns(context.Background(), api.ReorderColumnsRequest{ColumnIDs: trimmed})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, columns)
		},
	}
	reorderCmd.Flags().StringSlice("ids", nil, "Column ids in the new order")
	_ = reorderCmd.MarkFlagRequired("ids")

	columnCmd.AddCommand(createCmd, showCmd, updateCmd, deleteCmd, reorderCmd)
	return columnCmd
}
