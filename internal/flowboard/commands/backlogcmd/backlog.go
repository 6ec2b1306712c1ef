package backlogcmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/backlog"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
	"github.com/flowboardhq/flowboard/internal/model"
)

// batchRow is the JSON shape of one per-card batch outcome.
type batchRow struct {
	CardID string `json:"card_id"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

func batchRows(results []backlog.BatchResult) []batchRow {
	rows := make([]batchRow, 0, len(results))
	for _, r := range results {
		row := batchRow{CardID: r.CardID, OK: r.Err == nil}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

// loadSelection loads the project backlog and selects ids. Ids that are
// not in the backlog come back in the second return value.
func loadSelection(ctx context.Context, view *backlog.View, ids []string) ([]string, error) {
	if err := view.Load(ctx); err != nil {
		return nil, err
	}
	var missing []string
	for _, id := range ids {
		before := view.SelectedCount()
		view.Toggle(id)
		if view.SelectedCount() == before {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func splitIDs(raw []string) []string {
	ids := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if _, dup := seen[id]; id == "" || dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	backlogCmd := &cobra.Command{
		Use:   "backlog",
		Short: "Work a project's backlog across boards.",
		Long:  "List, filter and sort every card of a project, and run batch operations over a selection.",
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a project's cards across all its boards.",
		Example: strings.TrimSpace(`flowboard backlog ls --project <project-id>
flowboard backlog ls --project <project-id> --priority P1 --sort points --desc`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			projectID, _ := cmd.Flags().GetString("project")
			view := backlog.NewView(client, strings.TrimSpace(projectID))
			if err := view.Load(context.Background()); err != nil {
				return wrapErr(err)
			}

			if cmd.Flags().Changed("priority") {
				priority, _ := cmd.Flags().GetString("priority")
				view.SetFilter(model.Priority(strings.ToUpper(strings.TrimSpace(priority))))
			}

			sortKey, _ := cmd.Flags().GetString("sort")
			switch key := backlog.SortKey(strings.TrimSpace(sortKey)); key {
			case backlog.SortByPriority, backlog.SortByPoints, backlog.SortByCreated:
				order := backlog.Ascending
				if desc, _ := cmd.Flags().GetBool("desc"); desc {
					order = backlog.Descending
				}
				view.SetSort(key, order)
			default:
				return wrapErr(common.Usagef("invalid --sort %q: use priority, points or created", sortKey))
			}

			return print(runtime.Output(), stdout, view.Cards())
		},
	}
	listCmd.Flags().StringP("project", "p", "", "Project id")
	listCmd.Flags().String("priority", "", "Only cards with this priority (P0-P4)")
	listCmd.Flags().String("sort", string(backlog.SortByPriority), "Sort key: priority, points or created")
	listCmd.Flags().Bool("desc", false, "Sort descending")
	_ = listCmd.MarkFlagRequired("project")

	deleteCmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete several backlog cards in one pass.",
		Long:    "Delete the named cards one by one and report a per-card outcome. A failure does not roll back cards already deleted.",
		Example: "flowboard backlog rm --project <project-id> --cards <id-1>,<id-2>",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			projectID, _ := cmd.Flags().GetString("project")
			rawIDs, _ := cmd.Flags().GetStringSlice("cards")
			ids := splitIDs(rawIDs)
			if len(ids) == 0 {
				return wrapErr(common.Usagef("--cards cannot be empty"))
			}

			view := backlog.NewView(client, strings.TrimSpace(projectID))
			missing, err := loadSelection(context.Background(), view, ids)
			if err != nil {
				return wrapErr(err)
			}

			rows := batchRows(view.BatchDelete(context.Background()))
			for _, id := range missing {
				rows = append(rows, batchRow{CardID: id, Error: "not in the project backlog"})
			}
			return print(runtime.Output(), stdout, rows)
		},
	}
	deleteCmd.Flags().StringP("project", "p", "", "Project id")
	deleteCmd.Flags().StringSlice("cards", nil, "Card ids to delete")
	_ = deleteCmd.MarkFlagRequired("project")
	_ = deleteCmd.MarkFlagRequired("cards")

	toSprintCmd := &cobra.Command{
		Use:     "to-sprint",
		Short:   "Add several backlog cards to a sprint in one pass.",
		Long:    "Add the named cards to a sprint one by one and report a per-card outcome. Cards stay on their boards.",
		Example: "flowboard backlog to-sprint --project <project-id> --sprint <sprint-id> --cards <id-1>,<id-2>",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			projectID, _ := cmd.Flags().GetString("project")
			sprintID, _ := cmd.Flags().GetString("sprint")
			rawIDs, _ := cmd.Flags().GetStringSlice("cards")
			ids := splitIDs(rawIDs)
			if len(ids) == 0 {
				return wrapErr(common.Usagef("--cards cannot be empty"))
			}

			view := backlog.NewView(client, strings.TrimSpace(projectID))
			missing, err := loadSelection(context.Background(), view, ids)
			if err != nil {
				return wrapErr(err)
			}

			rows := batchRows(view.BatchAddToSprint(context.Background(), strings.TrimSpace(sprintID)))
			for _, id := range missing {
				rows = append(rows, batchRow{CardID: id, Error: "not in the project backlog"})
			}
			return print(runtime.Output(), stdout, rows)
		},
	}
	toSprintCmd.Flags().StringP("project", "p", "", "Project id")
	toSprintCmd.Flags().StringP("sprint", "s", "", "Sprint id")
	toSprintCmd.Flags().StringSlice("cards", nil, "Card ids to add")
	_ = toSprintCmd.MarkFlagRequired("project")
	_ = toSprintCmd.MarkFlagRequired("sprint")
	_ = toSprintCmd.MarkFlagRequired("cards")

	backlogCmd.AddCommand(listCmd, deleteCmd, toSprintCmd)
	return backlogCmd
}
