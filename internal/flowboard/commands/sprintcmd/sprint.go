package sprintcmd

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime/types"
	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
	"github.com/flowboardhq/flowboard/internal/model"
)

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	sprintCmd := &cobra.Command{
		Use:     "sprint",
		Aliases: []string{"sprints"},
		Short:   "Manage sprints.",
		Long:    "Create and run sprints: plan, start, complete, and read burndown metrics.",
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Create a sprint in the planning state.",
		Example: `flowboard sprint create --project <project-id> --name "Sprint 2" --start 2026-09-01 --end 2026-09-14 --goal "Ship CSV import"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			projectID, _ := cmd.Flags().GetString("project")
			name, _ := cmd.Flags().GetString("name")
			goal, _ := cmd.Flags().GetString("goal")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")

			startDate, err := parseDate(start)
			if err != nil {
				return wrapErr(err)
			}
			endDate, err := parseDate(end)
			if err != nil {
				return wrapErr(err)
			}

			sprint, err := client.CreateSprint(context.Background(), api.CreateSprintRequest{
				ProjectID: strings.TrimSpace(projectID),
				Name:      strings.TrimSpace(name),
				Goal:      strings.TrimSpace(goal),
				StartDate: startDate,
				EndDate:   endDate,
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, sprint)
		},
	}
	createCmd.Flags().StringP("project", "p", "", "Project id")
	createCmd.Flags().StringP("name", "n", "", "Sprint name")
	createCmd.Flags().StringP("goal", "g", "", "Sprint goal")
	createCmd.Flags().String("start", "", "Start date, YYYY-MM-DD")
	createCmd.Flags().String("end", "", "End date, YYYY-MM-DD")
	_ = createCmd.MarkFlagRequired("project")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("start")
	_ = createCmd.MarkFlagRequired("end")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a project's sprints.",
		Example: strings.TrimSpace(`flowboard sprint ls --project <project-id>
flowboard sprint ls --project <project-id> --status active`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			projectID, _ := cmd.Flags().GetString("project")
			status, _ := cmd.Flags().GetString("status")
			sprints, err := client.Sprints(context.Background(), api.SprintListOptions{
				ProjectID: strings.TrimSpace(projectID),
				Status:    model.SprintStatus(strings.ToLower(strings.TrimSpace(status))),
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, sprints)
		},
	}
	listCmd.Flags().StringP("project", "p", "", "Project id")
	listCmd.Flags().String("status", "", "Only sprints in this state: planning, active or completed")
	_ = listCmd.MarkFlagRequired("project")

	showCmd := &cobra.Command{
		Use:     "show <sprint-id>",
		Aliases: []string{"get"},
		Short:   "Show one sprint with its cards.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			sprint, err := client.Sprint(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, sprint)
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <sprint-id>",
		Short: "Update a sprint's name, goal or dates.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			req := api.UpdateSprintRequest{}
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				trimmed := strings.TrimSpace(name)
				req.Name = &trimmed
			}
			if cmd.Flags().Changed("goal") {
				goal, _ := cmd.Flags().GetString("goal")
				req.Goal = &goal
			}
			if cmd.Flags().Changed("start") {
				start, _ := cmd.Flags().GetString("start")
				parsed, err := parseDate(start)
				if err != nil {
					return wrapErr(err)
				}
				req.StartDate = &parsed
			}
			if cmd.Flags().Changed("end") {
				end, _ := cmd.Flags().GetString("end")
				parsed, err := parseDate(end)
				if err != nil {
					return wrapErr(err)
				}
				req.EndDate = &parsed
			}
			if req == (api.UpdateSprintRequest{}) {
				return wrapErr(common.Usagef("nothing to update: pass --name, --goal, --start or --end"))
			}

			sprint, err := client.UpdateSprint(context.Background(), strings.TrimSpace(args[0]), req)
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, sprint)
		},
	}
	updateCmd.Flags().StringP("name", "n", "", "New sprint name")
	updateCmd.Flags().StringP("goal", "g", "", "New sprint goal")
	updateCmd.Flags().String("start", "", "New start date, YYYY-MM-DD")
	updateCmd.Flags().String("end", "", "New end date, YYYY-MM-DD")

	deleteCmd := &cobra.Command{
		Use:     "delete <sprint-id>",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a sprint. Its cards stay on their boards.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			if err := client.DeleteSprint(context.Background(), strings.TrimSpace(args[0])); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}

	startCmd := &cobra.Command{
		Use:   "start <sprint-id>",
		Short: "Start a planning sprint.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			sprint, err := client.StartSprint(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, sprint)
		},
	}

	completeCmd := &cobra.Command{
		Use:     "complete <sprint-id>",
		Aliases: []string{"finish"},
		Short:   "Complete an active sprint.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			sprint, err := client.CompleteSprint(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, sprint)
		},
	}

	addCardCmd := &cobra.Command{
		Use:     "add-card <sprint-id>",
		Short:   "Add a card to a sprint.",
		Args:    cobra.ExactArgs(1),
		Example: "flowboard sprint add-card <sprint-id> --card <card-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			cardID, _ := cmd.Flags().GetString("card")
			sprint, err := client.AddSprintCard(context.Background(), strings.TrimSpace(args[0]), strings.TrimSpace(cardID))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, sprint)
		},
	}
	addCardCmd.Flags().StringP("card", "c", "", "Card id")
	_ = addCardCmd.MarkFlagRequired("card")

	removeCardCmd := &cobra.Command{
		Use:   "remove-card <sprint-id>",
		Short: "Remove a card from a sprint.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			cardID, _ := cmd.Flags().GetString("card")
			if err := client.RemoveSprintCard(context.Background(), strings.TrimSpace(args[0]), strings.TrimSpace(cardID)); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}
	removeCardCmd.Flags().StringP("card", "c", "", "Card id")
	_ = removeCardCmd.MarkFlagRequired("card")

	metricsCmd := &cobra.Command{
		Use:   "metrics <sprint-id>",
		Short: "Show a sprint's point totals and burndown.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			metrics, err := client.SprintMetrics(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, metrics)
		},
	}

	sprintCmd.AddCommand(createCmd, listCmd, showCmd, updateCmd, deleteCmd, startCmd, completeCmd, addCardCmd, removeCardCmd, metricsCmd)
	return sprintCmd
}

func parseDate(s string) (types.Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return types.Date{}, common.Usagef("invalid date %q: use YYYY-MM-DD", s)
	}
	return types.Date{Time: t}, nil
}
