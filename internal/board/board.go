// Package board holds the client-side state of one loaded board and
// mediates every mutation through the same consistency model: writes go
// to the server, then the whole board is refetched to reconcile. Only
// card moves get an extra synchronous local transition so dragging
// feedback never waits on a round trip.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/model"
)

// ErrNotLoaded is returned by local transitions before the first
// successful fetch.
var ErrNotLoaded = errors.New("no board loaded")

// API is the slice of the server client the store needs.
type API interface {
	Board(ctx context.Context, id string) (model.Board, error)
	MoveCard(ctx context.Context, id string, req api.MoveCardRequest) (model.Card, error)
	CreateCard(ctx context.Context, req api.CreateCardRequest) (model.Card, error)
	UpdateCard(ctx context.Context, id string, req api.UpdateCardRequest) (model.Card, error)
	DeleteCard(ctx context.Context, id string) error
	CreateColumn(ctx context.Context, req api.CreateColumnRequest) (model.Column, error)
	UpdateColumn(ctx context.Context, id string, req api.UpdateColumnRequest) (model.Column, error)
	DeleteColumn(ctx context.Context, id string) error
	ReorderColumns(ctx context.Context, req api.ReorderColumnsRequest) ([]model.Column, error)
}

// Store is the single source of truth for one board. Each Store is
// scoped to the board it was built for; callers create one per board
// rather than sharing globals.
type Store struct {
	api     API
	boardID string
	logger  *slog.Logger

	mu      sync.Mutex
	board   model.Board
	loaded  bool
	loading bool
	err     error

	// fetchSeq numbers fetches as they start; applied remembers the
	// newest fetch that has landed. A fetch that finishes after a newer
	// one has landed is dropped, so out-of-order responses can never
	// roll the board back.
	fetchSeq uint64
	applied  uint64
}

// NewStore returns a store for one board.
func NewStore(client API, boardID string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{api: client, boardID: boardID, logger: logger}
}

// BoardID returns the id the store was built for.
func (s *Store) BoardID() string { return s.boardID }

// Fetch replaces local state with the server's board. On failure the
// prior state stays untouched and the error is recorded.
func (s *Store) Fetch(ctx context.Context) error {
	seq := s.beginFetch()
	board, err := s.api.Board(ctx, s.boardID)
	return s.finishFetch(seq, board, err)
}

func (s *Store) beginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchSeq++
	s.loading = true
	return s.fetchSeq
}

func (s *Store) finishFetch(seq uint64, board model.Board, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		// A newer fetch already landed.
		return err
	}
	s.applied = seq
	if seq == s.fetchSeq {
		s.loading = false
	}
	if err != nil {
		s.err = err
		return err
	}
	s.board = board
	s.loaded = true
	s.err = nil
	return nil
}

// Board returns a deep copy of the loaded board. The second result is
// false until a fetch has succeeded.
func (s *Store) Board() (model.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return model.Board{}, false
	}
	return s.board.Clone(), true
}

// FindCard returns a copy of one card from the loaded board.
func (s *Store) FindCard(cardID string) (model.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.board.Columns {
		for j := range s.board.Columns[i].Cards {
			if s.board.Columns[i].Cards[j].ID == cardID {
				return s.board.Columns[i].Cards[j].Clone(), true
			}
		}
	}
	return model.Card{}, false
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error recorded by the most recent failed fetch, or
// nil after a successful one.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ApplyLocalMove removes the card from the source column, inserts it
// into the target column at targetPosition (clamped to the valid range)
// and renumbers both columns to dense 0-based sequences. No network
// call happens and nothing is persisted; state is unchanged on error.
func (s *Store) ApplyLocalMove(cardID, sourceColumnID, targetColumnID string, targetPosition int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	src := s.findColumn(sourceColumnID)
	if src == nil {
		return fmt.Errorf("column %s not on board", sourceColumnID)
	}
	dst := s.findColumn(targetColumnID)
	if dst == nil {
		return fmt.Errorf("column %s not on board", targetColumnID)
	}
	idx := indexOfCard(src.Cards, cardID)
	if idx < 0 {
		return fmt.Errorf("card %s not in column %s", cardID, sourceColumnID)
	}

	card := src.Cards[idx]
	src.Cards = append(src.Cards[:idx], src.Cards[idx+1:]...)

	pos := targetPosition
	if pos < 0 {
		pos = 0
	}
	if pos > len(dst.Cards) {
		pos = len(dst.Cards)
	}
	dst.Cards = append(dst.Cards, model.Card{})
	copy(dst.Cards[pos+1:], dst.Cards[pos:])
	card.ColumnID = dst.ID
	dst.Cards[pos] = card

	renumber(src)
	if dst != src {
		renumber(dst)
	}
	return nil
}

// MoveCard persists a move, then refetches the board to reconcile. The
// refetch runs even when the write fails so an optimistic local move
// snaps back to server-confirmed state; the write error is returned
// either way.
func (s *Store) MoveCard(ctx context.Context, cardID, targetColumnID string, targetPosition int) error {
	_, writeErr := s.api.MoveCard(ctx, cardID, api.MoveCardRequest{
		ColumnID: targetColumnID,
		Position: targetPosition,
	})
	if err := s.Fetch(ctx); err != nil {
		if writeErr == nil {
			return err
		}
		s.logger.Warn("board refetch after move failed",
			"board_id", s.boardID,
			"card_id", cardID,
			"error", err,
		)
	}
	return writeErr
}

// CreateCard creates a card, then refetches if a board is loaded.
func (s *Store) CreateCard(ctx context.Context, req api.CreateCardRequest) (model.Card, error) {
	card, err := s.api.CreateCard(ctx, req)
	if err != nil {
		return model.Card{}, err
	}
	return card, s.refetchIfLoaded(ctx)
}

// UpdateCard updates a card, then refetches if a board is loaded.
func (s *Store) UpdateCard(ctx context.Context, cardID string, req api.UpdateCardRequest) (model.Card, error) {
	card, err := s.api.UpdateCard(ctx, cardID, req)
	if err != nil {
		return model.Card{}, err
	}
	return card, s.refetchIfLoaded(ctx)
}

// DeleteCard deletes a card, then refetches if a board is loaded.
func (s *Store) DeleteCard(ctx context.Context, cardID string) error {
	if err := s.api.DeleteCard(ctx, cardID); err != nil {
		return err
	}
	return s.refetchIfLoaded(ctx)
}

// CreateColumn creates a column, then refetches if a board is loaded.
func (s *Store) CreateColumn(ctx context.Context, req api.CreateColumnRequest) (model.Column, error) {
	column, err := s.api.CreateColumn(ctx, req)
	if err != nil {
		return model.Column{}, err
	}
	return column, s.refetchIfLoaded(ctx)
}

// UpdateColumn updates a column, then refetches if a board is loaded.
func (s *Store) UpdateColumn(ctx context.Context, columnID string, req api.UpdateColumnRequest) (model.Column, error) {
	column, err := s.api.UpdateColumn(ctx, columnID, req)
	if err != nil {
		return model.Column{}, err
	}
	return column, s.refetchIfLoaded(ctx)
}

// DeleteColumn deletes a column, then refetches if a board is loaded.
func (s *Store) DeleteColumn(ctx context.Context, columnID string) error {
	if err := s.api.DeleteColumn(ctx, columnID); err != nil {
		return err
	}
	return s.refetchIfLoaded(ctx)
}

// ReorderColumns applies a full column ordering, then refetches if a
// board is loaded.
func (s *Store) ReorderColumns(ctx context.Context, columnIDs []string) ([]model.Column, error) {
	columns, err := s.api.ReorderColumns(ctx, api.ReorderColumnsRequest{ColumnIDs: columnIDs})
	if err != nil {
		return nil, err
	}
	return columns, s.refetchIfLoaded(ctx)
}

func (s *Store) refetchIfLoaded(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if !loaded {
		return nil
	}
	return s.Fetch(ctx)
}

// findColumn is called with s.mu held.
func (s *Store) findColumn(columnID string) *model.Column {
	for i := range s.board.Columns {
		if s.board.Columns[i].ID == columnID {
			return &s.board.Columns[i]
		}
	}
	return nil
}

func indexOfCard(cards []model.Card, cardID string) int {
	for i := range cards {
		if cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

func renumber(col *model.Column) {
	for i := range col.Cards {
		col.Cards[i].Position = i
	}
	col.CardCount = len(col.Cards)
	col.IsOverWipLimit = col.WipLimit > 0 && len(col.Cards) > col.WipLimit
}
