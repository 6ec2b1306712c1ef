package board

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/model"
)

type moveCall struct {
	cardID   string
	columnID string
	position int
}

// fakeAPI serves a configurable board and records calls.
type fakeAPI struct {
	mu         sync.Mutex
	board      model.Board
	boardErr   error
	fetchCalls int
	moveErr    error
	moves      []moveCall
	writeCalls int
}

func (f *fakeAPI) Board(ctx context.Context, id string) (model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.boardErr != nil {
		return model.Board{}, f.boardErr
	}
	return f.board.Clone(), nil
}

func (f *fakeAPI) MoveCard(ctx context.Context, id string, req api.MoveCardRequest) (model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, moveCall{cardID: id, columnID: req.ColumnID, position: req.Position})
	if f.moveErr != nil {
		return model.Card{}, f.moveErr
	}
	return model.Card{ID: id, ColumnID: req.ColumnID, Position: req.Position}, nil
}

func (f *fakeAPI) CreateCard(ctx context.Context, req api.CreateCardRequest) (model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	return model.Card{ID: "new-card", ColumnID: req.ColumnID, Title: req.Title}, nil
}

func (f *fakeAPI) UpdateCard(ctx context.Context, id string, req api.UpdateCardRequest) (model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	return model.Card{ID: id}, nil
}

func (f *fakeAPI) DeleteCard(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	return nil
}

func (f *fakeAPI) CreateColumn(ctx context.Context, req api.CreateColumnRequest) (model.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	return model.Column{ID: "new-col", BoardID: req.BoardID, Name: req.Name}, nil
}

func (f *fakeAPI) UpdateColumn(ctx context.Context, id string, req api.UpdateColumnRequest) (model.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	return model.Column{ID: id}, nil
}

func (f *fakeAPI) DeleteColumn(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	return nil
}

func (f *fakeAPI) ReorderColumns(ctx context.Context, req api.ReorderColumnsRequest) ([]model.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	cols := make([]model.Column, len(req.ColumnIDs))
	for i, id := range req.ColumnIDs {
		cols[i] = model.Column{ID: id, Position: i}
	}
	return cols, nil
}

func (f *fakeAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func twoColumnBoard() model.Board {
	return model.Board{
		ID:        "b1",
		ProjectID: "p1",
		Name:      "Dev",
		Columns: []model.Column{
			{
				ID: "colA", BoardID: "b1", Name: "To Do", Position: 0, CardCount: 2,
				Cards: []model.Card{
					{ID: "c1", ColumnID: "colA", Title: "first", Position: 0},
					{ID: "c2", ColumnID: "colA", Title: "second", Position: 1},
				},
			},
			{
				ID: "colB", BoardID: "b1", Name: "Doing", Position: 1, WipLimit: 1,
			},
		},
	}
}

func loadedStore(t *testing.T, fake *fakeAPI) *Store {
	t.Helper()
	store := NewStore(fake, "b1", nil)
	require.NoError(t, store.Fetch(context.Background()))
	return store
}

func TestFetchLoadsBoard(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := NewStore(fake, "b1", nil)

	_, ok := store.Board()
	require.False(t, ok)

	require.NoError(t, store.Fetch(context.Background()))
	require.False(t, store.Loading())
	require.NoError(t, store.Err())

	got, ok := store.Board()
	require.True(t, ok)
	require.Equal(t, "Dev", got.Name)
	require.Len(t, got.Columns, 2)
}

func TestBoardSnapshotIsDeepCopy(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := loadedStore(t, fake)

	snap, ok := store.Board()
	require.True(t, ok)
	snap.Columns[0].Cards[0].Title = "mutated"
	snap.Columns[0].Name = "mutated"

	fresh, _ := store.Board()
	require.Equal(t, "first", fresh.Columns[0].Cards[0].Title)
	require.Equal(t, "To Do", fresh.Columns[0].Name)
}

func TestFetchFailureKeepsPriorState(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := loadedStore(t, fake)

	fake.mu.Lock()
	fake.boardErr = errors.New("server down")
	fake.mu.Unlock()

	err := store.Fetch(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, store.Err(), err)

	got, ok := store.Board()
	require.True(t, ok, "prior board must survive a failed refetch")
	require.Equal(t, "Dev", got.Name)
}

func TestApplyLocalMoveAcrossColumns(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := loadedStore(t, fake)
	fetchesBefore := fake.fetchCount()

	require.NoError(t, store.ApplyLocalMove("c1", "colA", "colB", 0))

	got, _ := store.Board()
	colA, colB := got.Columns[0], got.Columns[1]

	require.Len(t, colA.Cards, 1)
	require.Equal(t, "c2", colA.Cards[0].ID)
	require.Equal(t, 0, colA.Cards[0].Position)

	require.Len(t, colB.Cards, 1)
	require.Equal(t, "c1", colB.Cards[0].ID)
	require.Equal(t, 0, colB.Cards[0].Position)
	require.Equal(t, "colB", colB.Cards[0].ColumnID)

	require.Equal(t, fetchesBefore, fake.fetchCount(), "local move must not touch the network")
	require.Empty(t, fake.moves)
}

func TestApplyLocalMoveClampsPosition(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := loadedStore(t, fake)

	require.NoError(t, store.ApplyLocalMove("c1", "colA", "colB", 99))
	got, _ := store.Board()
	require.Equal(t, "c1", got.Columns[1].Cards[0].ID)

	require.NoError(t, store.ApplyLocalMove("c2", "colA", "colB", -5))
	got, _ = store.Board()
	require.Equal(t, "c2", got.Columns[1].Cards[0].ID)
	require.Equal(t, "c1", got.Columns[1].Cards[1].ID)
	require.Equal(t, []int{0, 1}, []int{got.Columns[1].Cards[0].Position, got.Columns[1].Cards[1].Position})
}

func TestApplyLocalMoveWithinColumn(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := loadedStore(t, fake)

	require.NoError(t, store.ApplyLocalMove("c2", "colA", "colA", 0))

	got, _ := store.Board()
	ids := []string{got.Columns[0].Cards[0].ID, got.Columns[0].Cards[1].ID}
	require.Equal(t, []string{"c2", "c1"}, ids)
	require.Equal(t, 0, got.Columns[0].Cards[0].Position)
	require.Equal(t, 1, got.Columns[0].Cards[1].Position)
}

func TestApplyLocalMoveUpdatesWipState(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := loadedStore(t, fake)

	require.NoError(t, store.ApplyLocalMove("c1", "colA", "colB", 0))
	require.NoError(t, store.ApplyLocalMove("c2", "colA", "colB", 1))

	got, _ := store.Board()
	require.Equal(t, 0, got.Columns[0].CardCount)
	require.Equal(t, 2, got.Columns[1].CardCount)
	require.True(t, got.Columns[1].IsOverWipLimit)
}

func TestApplyLocalMoveUnknownIDsLeaveStateUnchanged(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := loadedStore(t, fake)
	before, _ := store.Board()

	require.Error(t, store.ApplyLocalMove("ghost", "colA", "colB", 0))
	require.Error(t, store.ApplyLocalMove("c1", "ghost", "colB", 0))
	require.Error(t, store.ApplyLocalMove("c1", "colA", "ghost", 0))

	after, _ := store.Board()
	require.Equal(t, before, after)
}

func TestApplyLocalMoveRequiresLoadedBoard(t *testing.T) {
	t.Parallel()

	store := NewStore(&fakeAPI{board: twoColumnBoard()}, "b1", nil)
	require.ErrorIs(t, store.ApplyLocalMove("c1", "colA", "colB", 0), ErrNotLoaded)
}

func TestMoveCardPersistsAndRefetches(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := loadedStore(t, fake)
	fetchesBefore := fake.fetchCount()

	require.NoError(t, store.MoveCard(context.Background(), "c1", "colB", 0))

	require.Equal(t, []moveCall{{cardID: "c1", columnID: "colB", position: 0}}, fake.moves)
	require.Equal(t, fetchesBefore+1, fake.fetchCount())
}

func TestMoveCardRefetchesEvenWhenWriteFails(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard(), moveErr: errors.New("wip limit reached")}
	store := loadedStore(t, fake)

	// Simulate the optimistic transition that preceded the write.
	require.NoError(t, store.ApplyLocalMove("c1", "colA", "colB", 0))
	fetchesBefore := fake.fetchCount()

	err := store.MoveCard(context.Background(), "c1", "colB", 0)
	require.ErrorContains(t, err, "wip limit reached")
	require.Equal(t, fetchesBefore+1, fake.fetchCount(), "failed write must still reconcile")

	// The refetch restored server truth, undoing the optimistic move.
	got, _ := store.Board()
	require.Len(t, got.Columns[0].Cards, 2)
	require.Empty(t, got.Columns[1].Cards)
}

func TestStaleRefetchResultIsDropped(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := NewStore(fake, "b1", nil)

	older := twoColumnBoard()
	older.Name = "older snapshot"
	newer := twoColumnBoard()
	newer.Name = "newer snapshot"

	seq1 := store.beginFetch()
	seq2 := store.beginFetch()

	// The fetch that started later lands first.
	require.NoError(t, store.finishFetch(seq2, newer, nil))
	// The older fetch result arrives afterwards and must be ignored.
	require.NoError(t, store.finishFetch(seq1, older, nil))

	got, ok := store.Board()
	require.True(t, ok)
	require.Equal(t, "newer snapshot", got.Name)
	require.False(t, store.Loading())
}

func TestStaleRefetchErrorDoesNotClobberNewerState(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := NewStore(fake, "b1", nil)

	newer := twoColumnBoard()

	seq1 := store.beginFetch()
	seq2 := store.beginFetch()

	require.NoError(t, store.finishFetch(seq2, newer, nil))
	require.Error(t, store.finishFetch(seq1, model.Board{}, errors.New("timeout")))

	require.NoError(t, store.Err(), "stale failure must not surface after a newer success")
	_, ok := store.Board()
	require.True(t, ok)
}

func TestCreateCardRefetchesWhenLoaded(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := loadedStore(t, fake)
	fetchesBefore := fake.fetchCount()

	card, err := store.CreateCard(context.Background(), api.CreateCardRequest{ColumnID: "colA", Title: "t"})
	require.NoError(t, err)
	require.Equal(t, "new-card", card.ID)
	require.Equal(t, fetchesBefore+1, fake.fetchCount())
}

func TestCreateCardSkipsRefetchWhenNotLoaded(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := NewStore(fake, "b1", nil)

	_, err := store.CreateCard(context.Background(), api.CreateCardRequest{ColumnID: "colA", Title: "t"})
	require.NoError(t, err)
	require.Equal(t, 0, fake.fetchCount())
}

func TestWriteOpsRefetchWhenLoaded(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := loadedStore(t, fake)
	ctx := context.Background()
	fetchesBefore := fake.fetchCount()

	_, err := store.UpdateCard(ctx, "c1", api.UpdateCardRequest{})
	require.NoError(t, err)
	require.NoError(t, store.DeleteCard(ctx, "c1"))
	_, err = store.CreateColumn(ctx, api.CreateColumnRequest{BoardID: "b1", Name: "Done"})
	require.NoError(t, err)
	_, err = store.UpdateColumn(ctx, "colA", api.UpdateColumnRequest{})
	require.NoError(t, err)
	require.NoError(t, store.DeleteColumn(ctx, "colB"))
	_, err = store.ReorderColumns(ctx, []string{"colB", "colA"})
	require.NoError(t, err)

	require.Equal(t, fetchesBefore+6, fake.fetchCount())
}

func TestFindCard(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{board: twoColumnBoard()}
	store := loadedStore(t, fake)

	card, ok := store.FindCard("c2")
	require.True(t, ok)
	require.Equal(t, "colA", card.ColumnID)

	_, ok = store.FindCard("ghost")
	require.False(t, ok)
}
