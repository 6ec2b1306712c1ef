package linkcmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
	"github.com/flowboardhq/flowboard/internal/links"
	"github.com/flowboardhq/flowboard/internal/model"
)

// linkRow is the JSON shape of one merged-list entry: stored edges are
// reported from the owning card's point of view, so the type of an
// incoming edge is the inverse of what the server stores.
type linkRow struct {
	LinkID    string         `json:"link_id"`
	Direction string         `json:"direction"`
	Type      model.LinkType `json:"type"`
	Card      model.CardRef  `json:"card"`
}

func displayRows(panel *links.Panel) []linkRow {
	display := panel.Display()
	rows := make([]linkRow, 0, len(display))
	for _, d := range display {
		rows = append(rows, linkRow{
			LinkID:    d.Link.ID,
			Direction: d.Direction.String(),
			Type:      d.Type,
			Card:      d.Other,
		})
	}
	return rows
}

func New(runtime common.Runtime, stdout io.Writer, print common.PrintFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	linkCmd := &cobra.Command{
		Use:     "link",
		Aliases: []string{"links"},
		Short:   "Manage card links.",
		Long:    "Link cards to each other (blocks, relates_to, duplicates), inspect a card's merged link list and search for link candidates.",
	}

	addCmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"create"},
		Short:   "Link one card to another.",
		Example: strings.TrimSpace(`flowboard link add --card <card-id> --target <card-id> --type blocks
flowboard link add --card <card-id> --target <card-id> --type relates_to`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			cardID, _ := cmd.Flags().GetString("card")
			targetID, _ := cmd.Flags().GetString("target")
			linkType, _ := cmd.Flags().GetString("type")

			panel := links.NewPanel(client, strings.TrimSpace(cardID))
			link, err := panel.Create(context.Background(), strings.TrimSpace(targetID), model.LinkType(strings.TrimSpace(linkType)))
			if err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, link)
		},
	}
	addCmd.Flags().StringP("card", "c", "", "Source card id")
	addCmd.Flags().String("target", "", "Target card id")
	addCmd.Flags().StringP("type", "t", "", "Link type: blocks, blocked_by, relates_to, duplicates or duplicated_by")
	_ = addCmd.MarkFlagRequired("card")
	_ = addCmd.MarkFlagRequired("target")
	_ = addCmd.MarkFlagRequired("type")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a card's links, outgoing edges first.",
		Long:    "List a card's links as one merged list. Incoming edges are reported with the inverse type, so a card blocked by another reads blocked_by.",
		Example: "flowboard link ls --card <card-id>",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			cardID, _ := cmd.Flags().GetString("card")
			panel := links.NewPanel(client, strings.TrimSpace(cardID))
			if err := panel.Load(context.Background()); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, displayRows(panel))
		},
	}
	listCmd.Flags().StringP("card", "c", "", "Card id")
	_ = listCmd.MarkFlagRequired("card")

	removeCmd := &cobra.Command{
		Use:     "rm <link-id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a link.",
		Long:    "Delete a link by id. With --card the link list of that card is reloaded first and the remaining links are printed; --incoming marks the link as one arriving at that card.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			linkID := strings.TrimSpace(args[0])
			cardID, _ := cmd.Flags().GetString("card")
			if cardID = strings.TrimSpace(cardID); cardID == "" {
				if err := client.DeleteLink(context.Background(), linkID); err != nil {
					return wrapErr(err)
				}
				return print(runtime.Output(), stdout, nil)
			}

			dir := links.Outgoing
			if incoming, _ := cmd.Flags().GetBool("incoming"); incoming {
				dir = links.Incoming
			}

			panel := links.NewPanel(client, cardID)
			if err := panel.Load(context.Background()); err != nil {
				return wrapErr(err)
			}
			if err := panel.Delete(context.Background(), linkID, dir); err != nil {
				return wrapErr(err)
			}
			return print(runtime.Output(), stdout, displayRows(panel))
		},
	}
	removeCmd.Flags().StringP("card", "c", "", "Owning card id (prints the remaining links)")
	removeCmd.Flags().Bool("incoming", false, "The link arrives at --card instead of leaving it")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Find link candidates on a board by title.",
		Long:  "Case-insensitive substring search over a board's card titles, excluding the card the link is for. Prints at most 10 matches.",
		Example: strings.TrimSpace(`flowboard link search --board <board-id> --card <card-id> --query auth
flowboard link search -b <board-id> -c <card-id> -q "login bug"`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(err)
			}

			boardID, _ := cmd.Flags().GetString("board")
			cardID, _ := cmd.Flags().GetString("card")
			query, _ := cmd.Flags().GetString("query")
			if strings.TrimSpace(query) == "" {
				return wrapErr(common.Usagef("--query cannot be empty"))
			}

			cards, err := client.Cards(context.Background(), api.CardListOptions{BoardID: strings.TrimSpace(boardID)})
			if err != nil {
				return wrapErr(err)
			}
			matches := links.SearchCards(cards, strings.TrimSpace(cardID), query)
			if matches == nil {
				matches = []model.Card{}
			}
			return print(runtime.Output(), stdout, matches)
		},
	}
	searchCmd.Flags().StringP("board", "b", "", "Board id to search on")
	searchCmd.Flags().StringP("card", "c", "", "Card the link is for (excluded from results)")
	searchCmd.Flags().StringP("query", "q", "", "Title substring")
	_ = searchCmd.MarkFlagRequired("board")
	_ = searchCmd.MarkFlagRequired("card")
	_ = searchCmd.MarkFlagRequired("query")

	linkCmd.AddCommand(addCmd, listCmd, removeCmd, searchCmd)
	return linkCmd
}
