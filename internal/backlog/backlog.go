// Package backlog derives a displayed card list from a project's flat
// card collection under a priority filter and a sort key, and runs the
// multi-select batch workflow on top of it.
package backlog

import (
	"context"
	"sort"
	"sync"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/model"
)

// API is the slice of the server client the view needs.
type API interface {
	Boards(ctx context.Context, projectID string) ([]model.Board, error)
	Cards(ctx context.Context, opts api.CardListOptions) ([]model.Card, error)
	DeleteCard(ctx context.Context, id string) error
	AddSprintCard(ctx context.Context, sprintID, cardID string) (model.Sprint, error)
}

// SortKey selects what the card list is ordered by.
type SortKey string

const (
	SortByPriority SortKey = "priority"
	SortByPoints   SortKey = "points"
	SortByCreated  SortKey = "created"
)

// Order flips the comparison direction.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// BatchResult is the outcome of one card inside a batch operation.
type BatchResult struct {
	CardID string
	Err    error
}

// SucceededIDs returns the card ids whose batch step succeeded.
func SucceededIDs(results []BatchResult) []string {
	var ids []string
	for _, r := range results {
		if r.Err == nil {
			ids = append(ids, r.CardID)
		}
	}
	return ids
}

// View is the backlog of one project. Each View is scoped to the
// project it was built for.
type View struct {
	api       API
	projectID string

	mu       sync.Mutex
	cards    []model.Card
	filter   model.Priority
	sortKey  SortKey
	order    Order
	selected map[string]struct{}
}

// NewView returns an empty backlog view for one project, sorted by
// priority ascending until told otherwise.
func NewView(client API, projectID string) *View {
	return &View{
		api:       client,
		projectID: projectID,
		sortKey:   SortByPriority,
		order:     Ascending,
		selected:  make(map[string]struct{}),
	}
}

// ProjectID returns the id the view was built for.
func (v *View) ProjectID() string { return v.projectID }

// Load replaces the collection with every card of every board in the
// project. Boards are fetched one at a time; ids that vanished from the
// server are dropped from the selection.
func (v *View) Load(ctx context.Context) error {
	boards, err := v.api.Boards(ctx, v.projectID)
	if err != nil {
		return err
	}

	var all []model.Card
	for _, b := range boards {
		cards, err := v.api.Cards(ctx, api.CardListOptions{BoardID: b.ID})
		if err != nil {
			return err
		}
		all = append(all, cards...)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.cards = all
	known := make(map[string]struct{}, len(all))
	for _, c := range all {
		known[c.ID] = struct{}{}
	}
	for id := range v.selected {
		if _, ok := known[id]; !ok {
			delete(v.selected, id)
		}
	}
	return nil
}

// SetFilter narrows the displayed list to one priority. The zero value
// shows every card.
func (v *View) SetFilter(p model.Priority) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = p
}

// Filter returns the active priority filter.
func (v *View) Filter() model.Priority {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// SetSort sets the sort key and direction.
func (v *View) SetSort(key SortKey, order Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sortKey = key
	v.order = order
}

// Cards returns the filtered, sorted list as copies.
func (v *View) Cards() []model.Card {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := v.filteredLocked()
	out := make([]model.Card, len(filtered))
	for i, c := range filtered {
		out[i] = c.Clone()
	}
	return out
}

// Toggle flips one card in or out of the selection. Unknown ids are
// ignored.
func (v *View) Toggle(cardID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.selected[cardID]; ok {
		delete(v.selected, cardID)
		return
	}
	for _, c := range v.cards {
		if c.ID == cardID {
			v.selected[cardID] = struct{}{}
			return
		}
	}
}

// ToggleAll clears the selection when it already equals the full
// filtered set, and otherwise selects every currently filtered card.
func (v *View) ToggleAll() {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := v.filteredLocked()
	if len(v.selected) == len(filtered) {
		all := true
		for _, c := range filtered {
			if _, ok := v.selected[c.ID]; !ok {
				all = false
				break
			}
		}
		if all {
			v.selected = make(map[string]struct{})
			return
		}
	}
	v.selected = make(map[string]struct{}, len(filtered))
	for _, c := range filtered {
		v.selected[c.ID] = struct{}{}
	}
}

// Selected returns the selected ids in display order.
func (v *View) Selected() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectedLocked()
}

// SelectedCount returns the size of the selection.
func (v *View) SelectedCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.selected)
}

// BatchDelete deletes every selected card, one call at a time, and
// reports a per-card outcome. Cards already deleted when a later one
// fails stay deleted; only ids the server confirmed are pruned locally,
// so failed ids remain listed and selected.
func (v *View) BatchDelete(ctx context.Context) []BatchResult {
	ids := v.Selected()
	results := make([]BatchResult, 0, len(ids))
	confirmed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		err := v.api.DeleteCard(ctx, id)
		results = append(results, BatchResult{CardID: id, Err: err})
		if err == nil {
			confirmed[id] = struct{}{}
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.cards[:0:0]
	for _, c := range v.cards {
		if _, gone := confirmed[c.ID]; !gone {
			kept = append(kept, c)
		}
	}
	v.cards = kept
	for id := range confirmed {
		delete(v.selected, id)
	}
	return results
}

// BatchAddToSprint adds every selected card to a sprint, one call at a
// time, and reports a per-card outcome. Confirmed ids leave the
// selection; the collection itself is untouched since the cards stay on
// their boards.
func (v *View) BatchAddToSprint(ctx context.Context, sprintID string) []BatchResult {
	ids := v.Selected()
	results := make([]BatchResult, 0, len(ids))
	for _, id := range ids {
		_, err := v.api.AddSprintCard(ctx, sprintID, id)
		results = append(results, BatchResult{CardID: id, Err: err})
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range results {
		if r.Err == nil {
			delete(v.selected, r.CardID)
		}
	}
	return results
}

// filteredLocked returns the filtered, sorted list sharing backing
// storage with v.cards only at the element level. Called with v.mu
// held.
func (v *View) filteredLocked() []model.Card {
	filtered := make([]model.Card, 0, len(v.cards))
	for _, c := range v.cards {
		if v.filter != "" && c.Priority != v.filter {
			continue
		}
		filtered = append(filtered, c)
	}
	sortCards(filtered, v.sortKey, v.order)
	return filtered
}

func (v *View) selectedLocked() []string {
	out := make([]string, 0, len(v.selected))
	for _, c := range v.filteredLocked() {
		if _, ok := v.selected[c.ID]; ok {
			out = append(out, c.ID)
		}
	}
	// Selected ids hidden by the current filter still belong to the
	// batch; keep them after the visible ones in collection order.
	if len(out) < len(v.selected) {
		seen := make(map[string]struct{}, len(out))
		for _, id := range out {
			seen[id] = struct{}{}
		}
		for _, c := range v.cards {
			if _, ok := v.selected[c.ID]; !ok {
				continue
			}
			if _, dup := seen[c.ID]; dup {
				continue
			}
			out = append(out, c.ID)
		}
	}
	return out
}

func sortCards(cards []model.Card, key SortKey, order Order) {
	less := lessFunc(key)
	sort.Slice(cards, func(i, j int) bool {
		if order == Descending {
			return less(cards[j], cards[i])
		}
		return less(cards[i], cards[j])
	})
}

func lessFunc(key SortKey) func(a, b model.Card) bool {
	switch key {
	case SortByPoints:
		return func(a, b model.Card) bool { return a.StoryPoints < b.StoryPoints }
	case SortByCreated:
		return func(a, b model.Card) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return func(a, b model.Card) bool { return a.Priority.Rank() < b.Priority.Rank() }
	}
}
