package aicmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
)

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	aiCmd := &cobra.Command{
		Use:   "ai",
		Short: "AI-assisted grooming helpers.",
		Long:  "Card writing suggestions, backlog grooming reports and sprint goal drafts. The server decides whether these features are on.",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether the server has AI features enabled.",
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			// A failed probe reads as disabled; the gate never
			// surfaces transport errors.
			enabled, err := client.AIEnabled(context.Background())
			if err != nil {
				enabled = false
			}
			return print(runtime.Output(), stdout, map[string]bool{"enabled": enabled})
		},
	}

	suggestCmd := &cobra.Command{
		Use:     "suggest",
		Short:   "Suggest improvements for a card's title and description.",
		Example: "flowboard ai suggest --card <card-id>",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			cardID, _ := cmd.Flags().GetString("card")
			suggestions, err := client.CardSuggestions(context.Background(), strings.TrimSpace(cardID))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, suggestions)
		},
	}
	suggestCmd.Flags().StringP("card", "c", "", "Card id")
	_ = suggestCmd.MarkFlagRequired("card")

	groomCmd := &cobra.Command{
		Use:     "groom",
		Short:   "Run a grooming report over a project's backlog.",
		Example: "flowboard ai groom --project <project-id>",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			projectID, _ := cmd.Flags().GetString("project")
			grooming, err := client.GroomBacklog(context.Background(), strings.TrimSpace(projectID))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, grooming)
		},
	}
	groomCmd.Flags().StringP("project", "p", "", "Project id")
	_ = groomCmd.MarkFlagRequired("project")

	goalCmd := &cobra.Command{
		Use:     "goal",
		Short:   "Draft a sprint goal from a set of cards.",
		Example: `flowboard ai goal --cards <id-1>,<id-2> --context "payments quarter"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			rawIDs, _ := cmd.Flags().GetStringSlice("cards")
			ids := make([]string, 0, len(rawIDs))
			for _, id := range rawIDs {
				if id = strings.TrimSpace(id); id != "" {
					ids = append(ids, id)
				}
			}
			if len(ids) == 0 {
				return wrapErr(common.Usagef("--cards cannot be empty"))
			}
			projectContext, _ := cmd.Flags().GetString("context")

			goal, err := client.SprintGoal(context.Background(), api.SprintGoalRequest{
				CardIDs:        ids,
				ProjectContext: strings.TrimSpace(projectContext),
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, map[string]string{"goal": goal})
		},
	}
	goalCmd.Flags().StringSlice("cards", nil, "Card ids the sprint will contain")
	goalCmd.Flags().String("context", "", "Free-form project context for the draft")
	_ = goalCmd.MarkFlagRequired("cards")

	aiCmd.AddCommand(statusCmd, suggestCmd, groomCmd, goalCmd)
	return aiCmd
}
