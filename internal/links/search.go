package links

import (
	"strings"
	"sync"
	"time"

	"github.com/flowboardhq/flowboard/internal/model"
)

const (
	// MaxSearchResults caps how many link candidates a search returns.
	MaxSearchResults = 10
	// DefaultSearchDelay is how long a query must sit unchanged before
	// the search runs.
	DefaultSearchDelay = 300 * time.Millisecond
)

// SearchCards filters candidates by case-insensitive substring match on
// the title, excluding the card the search is for, capped to
// MaxSearchResults. An empty query matches nothing.
func SearchCards(candidates []model.Card, currentCardID, query string) []model.Card {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []model.Card
	for _, card := range candidates {
		if card.ID == currentCardID {
			continue
		}
		if !strings.Contains(strings.ToLower(card.Title), query) {
			continue
		}
		out = append(out, card)
		if len(out) == MaxSearchResults {
			break
		}
	}
	return out
}

// Debouncer coalesces rapid calls: only the last function handed to Do
// within a wait window runs.
type Debouncer struct {
	wait time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Do schedules fn after the wait window, cancelling any fn scheduled
// earlier that has not run yet.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, fn)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Searcher runs debounced title searches over a fixed candidate list,
// one keystroke at a time. Results reach the deliver callback only for
// the query that survived the debounce window.
type Searcher struct {
	currentCardID string
	candidates    []model.Card
	debouncer     *Debouncer
	deliver       func(query string, results []model.Card)
}

// NewSearcher returns a searcher for one card. The delay falls back to
// DefaultSearchDelay when zero.
func NewSearcher(currentCardID string, candidates []model.Card, delay time.Duration, deliver func(string, []model.Card)) *Searcher {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	return &Searcher{
		currentCardID: currentCardID,
		candidates:    candidates,
		debouncer:     NewDebouncer(delay),
		deliver:       deliver,
	}
}

// SetQuery records the latest query. The search runs once the query has
// been stable for the debounce delay; earlier pending queries never
// deliver.
func (s *Searcher) SetQuery(query string) {
	s.debouncer.Do(func() {
		s.deliver(query, SearchCards(s.candidates, s.currentCardID, query))
	})
}

// Close cancels any pending search.
func (s *Searcher) Close() {
	s.debouncer.Stop()
}
