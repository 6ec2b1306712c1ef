package projectcmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
)

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "proj"},
		Short:   "Manage projects.",
		Long:    "Create, list, inspect, update and delete projects.",
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Create a project.",
		Example: strings.TrimSpace(`flowboard project create --workspace <workspace-id> --name "Platform"
flowboard proj new -w <workspace-id> -n "Platform" -d "Core services"`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			workspaceID, _ := cmd.Flags().GetString("workspace")
			name, _ := cmd.Flags().GetString("name")
			description, _ := cmd.Flags().GetString("description")

			project, err := client.CreateProject(context.Background(), api.CreateProjectRequest{
				WorkspaceID: strings.TrimSpace(workspaceID),
				Name:        strings.TrimSpace(name),
				Description: strings.TrimSpace(description),
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, project)
		},
	}
	createCmd.Flags().StringP("workspace", "w", "", "Workspace id")
	createCmd.Flags().StringP("name", "n", "", "Project name")
	createCmd.Flags().StringP("description", "d", "", "Project description")
	_ = createCmd.MarkFlagRequired("workspace")
	_ = createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a workspace's projects.",
		Example: "flowboard project ls --workspace <workspace-id>",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			workspaceID, _ := cmd.Flags().GetString("workspace")
			projects, err := client.Projects(context.Background(), strings.TrimSpace(workspaceID))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, projects)
		},
	}
	listCmd.Flags().StringP("workspace", "w", "", "Workspace id")
	_ = listCmd.MarkFlagRequired("workspace")

	showCmd := &cobra.Command{
		Use:     "show <project-id>",
		Aliases: []string{"get"},
		Short:   "Show one project.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			project, err := client.Project(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, project)
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project's name or description.",
		Args:  cobra.ExactArgs(1),
		Example: strings.TrimSpace(`flowboard project update <project-id> --name "Platform Core"
flowboard project update <project-id> --description "Q4 scope"`),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			req := api.UpdateProjectRequest{}
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				trimmed := strings.TrimSpace(name)
				req.Name = &trimmed
			}
			if cmd.Flags().Changed("description") {
				description, _ := cmd.Flags().GetString("description")
				req.Description = &description
			}
			if req.Name == nil && req.Description == nil {
				return wrapErr(common.Usagef("nothing to update: pass --name or --description"))
			}

			project, err := client.UpdateProject(context.Background(), strings.TrimSpace(args[0]), req)
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, project)
		},
	}
	updateCmd.Flags().StringP("name", "n", "", "New project name")
	updateCmd.Flags().StringP("description", "d", "", "New project description")

	deleteCmd := &cobra.Command{
		Use:     "delete <project-id>",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a project and its boards.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			if err := client.DeleteProject(context.Background(), strings.TrimSpace(args[0])); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}

	projectCmd.AddCommand(createCmd, listCmd, showCmd, updateCmd, deleteCmd)
	return projectCmd
}
