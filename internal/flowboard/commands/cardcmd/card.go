package cardcmd

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime/types"
	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/board"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
	"github.com/flowboardhq/flowboard/internal/markdown"
	"github.com/flowboardhq/flowboard/internal/model"
)

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	cardCmd := &cobra.Command{
		Use:     "card",
		Aliases: []string{"cards"},
		Short:   "Manage cards.",
		Long:    "Create, list, inspect, move, comment on and delete cards.",
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Create a card at the bottom of a column.",
		Example: strings.TrimSpace(`flowboard card create --column <column-id> --title "Fix login redirect loop"
flowboard card new -c <column-id> -t "Import CSV" --priority P2 --points 5 --due 2026-09-01`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			columnID, _ := cmd.Flags().GetString("column")
			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")
			priority, _ := cmd.Flags().GetString("priority")

			req := api.CreateCardRequest{
				ColumnID:    strings.TrimSpace(columnID),
				Title:       strings.TrimSpace(title),
				Description: description,
				Priority:    model.Priority(strings.ToUpper(strings.TrimSpace(priority))),
			}
			if cmd.Flags().Changed("points") {
				points, _ := cmd.Flags().GetInt("points")
				req.StoryPoints = &points
			}
			if cmd.Flags().Changed("estimate") {
				estimate, _ := cmd.Flags().GetInt("estimate")
				req.TimeEstimate = &estimate
			}
			if cmd.Flags().Changed("due") {
				due, _ := cmd.Flags().GetString("due")
				parsed, err := parseDate(due)
				if err != nil {
					return wrapErr(err)
				}
				req.DueDate = parsed
			}

			card, err := client.CreateCard(context.Background(), req)
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, card)
		},
	}
	createCmd.Flags().StringP("column", "c", "", "Column id")
	createCmd.Flags().StringP("title", "t", "", "Card title")
	createCmd.Flags().StringP("description", "d", "", "Markdown description")
	createCmd.Flags().String("priority", "", "Priority P0-P4")
	createCmd.Flags().Int("points", 0, "Story points")
	createCmd.Flags().Int("estimate", 0, "Time estimate in minutes")
	createCmd.Flags().String("due", "", "Due date, YYYY-MM-DD")
	_ = createCmd.MarkFlagRequired("column")
	_ = createCmd.MarkFlagRequired("title")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the cards of a column or a whole board.",
		Example: strings.TrimSpace(`flowboard card ls --column <column-id>
flowboard card ls --board <board-id>`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			columnID, _ := cmd.Flags().GetString("column")
			boardID, _ := cmd.Flags().GetString("board")
			if (columnID == "") == (boardID == "") {
				return wrapErr(common.Usagef("pass exactly one of --column or --board"))
			}

			cards, err := client.Cards(context.Background(), api.CardListOptions{
				ColumnID: strings.TrimSpace(columnID),
				BoardID:  strings.TrimSpace(boardID),
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, cards)
		},
	}
	listCmd.Flags().StringP("column", "c", "", "Column id")
	listCmd.Flags().StringP("board", "b", "", "Board id")

	showCmd := &cobra.Command{
		Use:     "show <card-id>",
		Aliases: []string{"get"},
		Short:   "Show one card with comments, assignees and labels.",
		Long:    "Show one card. With --html the Markdown description is additionally rendered to HTML.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			card, err := client.Card(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapErr(err)
			}

			if renderHTML, _ := cmd.Flags().GetBool("html"); renderHTML {
				rendered := struct {
					model.Card
					DescriptionHTML string `json:"description_html"`
				}{Card: card, DescriptionHTML: markdown.ToHTML(card.Description)}
				return print(runtime.Output(), stdout, rendered)
			}
			return print(runtime.Output(), stdout, card)
		},
	}
	showCmd.Flags().Bool("html", false, "Render the description as HTML")

	updateCmd := &cobra.Command{
		Use:   "update <card-id>",
		Short: "Update a card's fields.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			req := api.UpdateCardRequest{}
			if cmd.Flags().Changed("title") {
				title, _ := cmd.Flags().GetString("title")
				trimmed := strings.TrimSpace(title)
				req.Title = &trimmed
			}
			if cmd.Flags().Changed("description") {
				description, _ := cmd.Flags().GetString("description")
				req.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				priority, _ := cmd.Flags().GetString("priority")
				p := model.Priority(strings.ToUpper(strings.TrimSpace(priority)))
				req.Priority = &p
			}
			if cmd.Flags().Changed("points") {
				points, _ := cmd.Flags().GetInt("points")
				req.StoryPoints = &points
			}
			if cmd.Flags().Changed("estimate") {
				estimate, _ := cmd.Flags().GetInt("estimate")
				req.TimeEstimate = &estimate
			}
			if cmd.Flags().Changed("due") {
				due, _ := cmd.Flags().GetString("due")
				parsed, err := parseDate(due)
				if err != nil {
					return wrapErr(err)
				}
				req.DueDate = parsed
			}
			if req == (api.UpdateCardRequest{}) {
				return wrapErr(common.Usagef("nothing to update: pass at least one field flag"))
			}

			card, err := client.UpdateCard(context.Background(), strings.TrimSpace(args[0]), req)
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, card)
		},
	}
	updateCmd.Flags().StringP("title", "t", "", "New title")
	updateCmd.Flags().StringP("description", "d", "", "New Markdown description")
	updateCmd.Flags().String("priority", "", "New priority P0-P4")
	updateCmd.Flags().Int("points", 0, "New story points")
	updateCmd.Flags().Int("estimate", 0, "New time estimate in minutes")
	updateCmd.Flags().String("due", "", "New due date, YYYY-MM-DD")

	deleteCmd := &cobra.Command{
		Use:     "delete <card-id>",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a card.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			if err := client.DeleteCard(context.Background(), strings.TrimSpace(args[0])); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, nil)
		},
	}

	moveCmd := &cobra.Command{
		Use:   "move",
		Short: "Move a card to a column position.",
		Long: strings.TrimSpace(`Move a card to a position inside a column (0 is the top).

With --board the move runs through a board store: the write is followed
by a full refetch and the card is printed as the server now holds it.
Without --board only the move endpoint is called.`),
		Example: "flowboard card move --board <board-id> --id <card-id> --to <column-id> --position 0",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			cardID, _ := cmd.Flags().GetString("id")
			targetColumnID, _ := cmd.Flags().GetString("to")
			position, _ := cmd.Flags().GetInt("position")
			boardID, _ := cmd.Flags().GetString("board")

			cardID = strings.TrimSpace(cardID)
			targetColumnID = strings.TrimSpace(targetColumnID)
			ctx := context.Background()

			if boardID = strings.TrimSpace(boardID); boardID == "" {
				card, err := client.MoveCard(ctx, cardID, api.MoveCardRequest{
					ColumnID: targetColumnID,
					Position: position,
				})
				if err != nil {
					return wrapErr(err)
				}
				return print(runtime.Output(), stdout, card)
			}

			store := board.NewStore(client, boardID, nil)
			if err := store.Fetch(ctx); err != nil {
				return wrapErr(err)
			}
			if err := store.MoveCard(ctx, cardID, targetColumnID, position); err != nil {
				return wrapErr(err)
			}
			card, ok := store.FindCard(cardID)
			if !ok {
				return wrapErr(common.Usagef("card %s is not on board %s", cardID, boardID))
			}
			return print(runtime.Output(), stdout, card)
		},
	}
	moveCmd.Flags().StringP("board", "b", "", "Board id (enables write-then-refetch)")
	moveCmd.Flags().String("id", "", "Card id")
	moveCmd.Flags().String("to", "", "Target column id")
	moveCmd.Flags().Int("position", 0, "Target position, 0-based")
	_ = moveCmd.MarkFlagRequired("id")
	_ = moveCmd.MarkFlagRequired("to")

	commentCmd := &cobra.Command{
		Use:     "comment <card-id>",
		Short:   "Add a comment to a card.",
		Args:    cobra.ExactArgs(1),
		Example: `flowboard card comment <card-id> --body "Repro steps attached."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			body, _ := cmd.Flags().GetString("body")
			comment, err := client.AddComment(context.Background(), strings.TrimSpace(args[0]), api.CreateCommentRequest{
				Content: body,
			})
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, comment)
		},
	}
	commentCmd.Flags().StringP("body", "b", "", "Comment text (Markdown)")
	_ = commentCmd.MarkFlagRequired("body")

	assignCmd := &cobra.Command{
		Use:   "assign <card-id>",
		Short: "Assign a user to a card.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			userID, _ := cmd.Flags().GetString("user")
			card, err := client.AssignUser(context.Background(), strings.TrimSpace(args[0]), strings.TrimSpace(userID))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, card)
		},
	}
	assignCmd.Flags().StringP("user", "u", "", "User id")
	_ = assignCmd.MarkFlagRequired("user")

	unassignCmd := &cobra.Command{
		Use:   "unassign <card-id>",
		Short: "Remove a user from a card.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			userID, _ := cmd.Flags().GetString("user")
			card, err := client.UnassignUser(context.Background(), strings.TrimSpace(args[0]), strings.TrimSpace(userID))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, card)
		},
	}
	unassignCmd.Flags().StringP("user", "u", "", "User id")
	_ = unassignCmd.MarkFlagRequired("user")

	cardCmd.AddCommand(createCmd, listCmd, showCmd, updateCmd, deleteCmd, moveCmd, commentCmd, assignCmd, unassignCmd)
	cardCmd.AddCommand(newCardLabelCommand(runtime, stdout, print, wrapErr))
	return cardCmd
}

func newCardLabelCommand(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	labelCmd := &cobra.Command{
		Use:   "label",
		Short: "Attach or detach board labels on a card.",
	}

	addCmd := &cobra.Command{
		Use:     "add <card-id>",
		Short:   "Attach a label to a card.",
		Args:    cobra.ExactArgs(1),
		Example: "flowboard card label add <card-id> --label <label-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			labelID, _ := cmd.Flags().GetString("label")
			card, err := client.AddCardLabel(context.Background(), strings.TrimSpace(args[0]), strings.TrimSpace(labelID))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, card)
		},
	}
	addCmd.Flags().StringP("label", "l", "", "Label id")
	_ = addCmd.MarkFlagRequired("label")

	removeCmd := &cobra.Command{
		Use:     "rm <card-id>",
		Aliases: []string{"remove"},
		Short:   "Detach a label from a card.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			labelID, _ := cmd.Flags().GetString("label")
			card, err := client.RemoveCardLabel(context.Background(), strings.TrimSpace(args[0]), strings.TrimSpace(labelID))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, card)
		},
	}
	removeCmd.Flags().StringP("label", "l", "", "Label id")
	_ = removeCmd.MarkFlagRequired("label")

	labelCmd.AddCommand(addCmd, removeCmd)
	return labelCmd
}

func parseDate(s string) (*types.Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return nil, common.Usagef("invalid date %q: use YYYY-MM-DD", s)
	}
	return &types.Date{Time: t}, nil
}
