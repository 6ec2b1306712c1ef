package templatecmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
)

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	templateCmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates", "tpl"},
		Short:   "Browse board templates and stamp out boards.",
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the built-in board templates.",
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			templates, err := client.Templates(context.Background())
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, templates)
		},
	}

	showCmd := &cobra.Command{
		Use:     "show <template-id>",
		Aliases: []string{"get"},
		Short:   "Show one template with its column layout.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			template, err := client.Template(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, template)
		},
	}

	applyCmd := &cobra.Command{
		Use:     "apply <template-id>",
		Short:   "Create a board from a template.",
		Args:    cobra.ExactArgs(1),
		Example: strings.TrimSpace(`flowboard template apply <template-id> --project <project-id>
flowboard template apply <template-id> --project <project-id> --name "Support"`),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			projectID, _ := cmd.Flags().GetString("project")
			name, _ := cmd.Flags().GetString("name")

			board, err := client.ApplyTemplate(context.Background(), strings.TrimSpace(args[0]), api.ApplyTemplateRequest{
				ProjectID: strings.TrimSpace(projectID),
				Name:      strings.TrimSpace(name),
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, board)
		},
	}
	applyCmd.Flags().StringP("project", "p", "", "Project id")
	applyCmd.Flags().StringP("name", "n", "", "Board name (defaults to the template name)")
	_ = applyCmd.MarkFlagRequired("project")

	templateCmd.AddCommand(listCmd, showCmd, applyCmd)
	return templateCmd
}
