package orgcmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
)

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	orgCmd := &cobra.Command{
		Use:     "org",
		Aliases: []string{"orgs", "organization"},
		Short:   "Manage organizations.",
		Long:    "Create, list, inspect, rename and delete organizations.",
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Create an organization.",
		Long:    "Create an organization; the slug is derived from the name unless given.",
		Example: strings.TrimSpace(`flowboard org create --name "Acme Rockets"
flowboard org new -n "Acme Rockets" --slug acme`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			name, _ := cmd.Flags().GetString("name")
			slug, _ := cmd.Flags().GetString("slug")

			org, err := client.CreateOrganization(context.Background(), api.CreateOrganizationRequest{
				Name: strings.TrimSpace(name),
				Slug: strings.TrimSpace(slug),
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, org)
		},
	}
	createCmd.Flags().StringP("name", "n", "", "Organization name")
	createCmd.Flags().String("slug", "", "URL slug (derived from name when empty)")
	_ = createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your organizations.",
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			orgs, err := client.Organizations(context.Background())
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, orgs)
		},
	}

	showCmd := &cobra.Command{
		Use:     "show <org-id>",
		Aliases: []string{"get"},
		Short:   "Show one organization.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			org, err := client.Organization(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, org)
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <org-id>",
		Short: "Rename an organization.",
		Args:  cobra.ExactArgs(1),
		Example: strings.TrimSpace(`flowboard org update <org-id> --name "Acme Spacelines"`),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			name, _ := cmd.Flags().GetString("name")
			trimmed := strings.TrimSpace(name)

			org, err := client.UpdateOrganization(context.Background(), strings.TrimSpace(args[0]), api.UpdateOrganizationRequest{
				Name: &trimmed,
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, org)
		},
	}
	updateCmd.Flags().StringP("name", "n", "", "New organization name")
	_ = updateCmd.MarkFlagRequired("name")

	deleteCmd := &cobra.Command{
		Use:     "delete <org-id>",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete an organization and everything under it.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			if err := client.DeleteOrganization(context.Background(), strings.TrimSpace(args[0])); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}

	membersCmd := &cobra.Command{
		Use:   "members <org-id>",
		Short: "List an organization's members.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			members, err := client.OrganizationMembers(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, members)
		},
	}

	orgCmd.AddCommand(createCmd, listCmd, showCmd, updateCmd, deleteCmd, membersCmd)
	return orgCmd
}
