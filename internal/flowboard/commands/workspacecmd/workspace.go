package workspacecmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
)

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	workspaceCmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"workspaces", "ws"},
		Short:   "Manage workspaces inside an organization.",
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Create a workspace.",
		Example: strings.TrimSpace(`flowboard workspace create --org <org-id> --name "Engineering"
flowboard ws new -o <org-id> -n "Engineering"`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			orgID, _ := cmd.Flags().GetString("org")
			name, _ := cmd.Flags().GetString("name")

			ws, err := client.CreateWorkspace(context.Background(), api.CreateWorkspaceRequest{
				OrganizationID: strings.TrimSpace(orgID),
				Name:           strings.TrimSpace(name),
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, ws)
		},
	}
	createCmd.Flags().StringP("org", "o", "", "Organization id")
	createCmd.Flags().StringP("name", "n", "", "Workspace name")
	_ = createCmd.MarkFlagRequired("org")
	_ = createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List an organization's workspaces.",
		Example: "flowboard workspace ls --org <org-id>",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			orgID, _ := cmd.Flags().GetString("org")
			workspaces, err := client.Workspaces(context.Background(), strings.TrimSpace(orgID))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, workspaces)
		},
	}
	listCmd.Flags().StringP("org", "o", "", "Organization id")
	_ = listCmd.MarkFlagRequired("org")

	updateCmd := &cobra.Command{
		Use:   "update <workspace-id>",
		Short: "Rename a workspace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			name, _ := cmd.Flags().GetString("name")
			trimmed := strings.TrimSpace(name)

			ws, err := client.UpdateWorkspace(context.Background(), strings.TrimSpace(args[0]), api.UpdateWorkspaceRequest{
				Name: &trimmed,
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, ws)
		},
	}
	updateCmd.Flags().StringP("name", "n", "", "New workspace name")
	_ = updateCmd.MarkFlagRequired("name")

	deleteCmd := &cobra.Command{
		Use:     "delete <workspace-id>",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a workspace and everything under it.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			if err := client.DeleteWorkspace(context.Background(), strings.TrimSpace(args[0])); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}

	workspaceCmd.AddCommand(createCmd, listCmd, updateCmd, deleteCmd)
	return workspaceCmd
}
