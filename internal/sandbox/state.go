package sandbox

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowboardhq/flowboard/internal/model"
)

// dataset is the whole sandbox world behind one lock. Handlers hold the
// lock for the duration of a request; everything lives in memory, so
// requests stay short.
type dataset struct {
	mu sync.Mutex

	// created maps every id to its allocation sequence so listings come
	// back in a stable insertion order.
	seq     int64
	created map[string]int64

	users         map[string]*userRec
	orgs          map[string]*model.Organization
	members       map[string]*model.Member
	workspaces    map[string]*model.Workspace
	projects      map[string]*model.Project
	boards        map[string]*model.Board
	columns       map[string]*model.Column
	cards         map[string]*cardRec
	labels        map[string]*model.Label
	links         map[string]*model.CardLink
	sprints       map[string]*model.Sprint
	sprintCards   map[string][]string
	notifications map[string][]*model.Notification
}

type userRec struct {
	user     model.User
	password string
}

// cardRec keeps association ids separate from the card's own fields so
// renders can resolve users and labels at read time.
type cardRec struct {
	card        model.Card
	assigneeIDs []string
	labelIDs    []string
	comments    []model.Comment
}

func newDataset() *dataset {
	return &dataset{
		created:       map[string]int64{},
		users:         map[string]*userRec{},
		orgs:          map[string]*model.Organization{},
		members:       map[string]*model.Member{},
		workspaces:    map[string]*model.Workspace{},
		projects:      map[string]*model.Project{},
		boards:        map[string]*model.Board{},
		columns:       map[string]*model.Column{},
		cards:         map[string]*cardRec{},
		labels:        map[string]*model.Label{},
		links:         map[string]*model.CardLink{},
		sprints:       map[string]*model.Sprint{},
		sprintCards:   map[string][]string{},
		notifications: map[string][]*model.Notification{},
	}
}

// All methods below assume mu is held.

func (d *dataset) newID() string {
	id := uuid.NewString()
	d.seq++
	d.created[id] = d.seq
	return id
}

func (d *dataset) sortByCreation(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return d.created[ids[i]] < d.created[ids[j]] })
}

func (d *dataset) userByEmail(email string) *userRec {
	for _, rec := range d.users {
		if strings.EqualFold(rec.user.Email, email) {
			return rec
		}
	}
	return nil
}

// membership returns the caller's membership in an organization, or nil.
func (d *dataset) membership(orgID, userID string) *model.Member {
	for _, m := range d.members {
		if m.OrganizationID == orgID && m.UserID == userID {
			return m
		}
	}
	return nil
}

func (d *dataset) workspaceMembership(workspaceID, userID string) *model.Member {
	ws, ok := d.workspaces[workspaceID]
	if !ok {
		return nil
	}
	return d.membership(ws.OrganizationID, userID)
}

func (d *dataset) projectMembership(projectID, userID string) *model.Member {
	project, ok := d.projects[projectID]
	if !ok {
		return nil
	}
	return d.workspaceMembership(project.WorkspaceID, userID)
}

func (d *dataset) boardMembership(boardID, userID string) *model.Member {
	board, ok := d.boards[boardID]
	if !ok {
		return nil
	}
	return d.projectMembership(board.ProjectID, userID)
}

func (d *dataset) columnMembership(columnID, userID string) *model.Member {
	col, ok := d.columns[columnID]
	if !ok {
		return nil
	}
	return d.boardMembership(col.BoardID, userID)
}

func (d *dataset) cardMembership(rec *cardRec, userID string) *model.Member {
	return d.columnMembership(rec.card.ColumnID, userID)
}

// boardOrganization resolves a board to its owning organization id.
func (d *dataset) boardOrganization(board *model.Board) string {
	project, ok := d.projects[board.ProjectID]
	if !ok {
		return ""
	}
	ws, ok := d.workspaces[project.WorkspaceID]
	if !ok {
		return ""
	}
	return ws.OrganizationID
}

func (d *dataset) cardBoard(rec *cardRec) *model.Board {
	col, ok := d.columns[rec.card.ColumnID]
	if !ok {
		return nil
	}
	return d.boards[col.BoardID]
}

// boardColumns returns a board's columns ordered by position.
func (d *dataset) boardColumns(boardID string) []*model.Column {
	var cols []*model.Column
	for _, col := range d.columns {
		if col.BoardID == boardID {
			cols = append(cols, col)
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i].Position != cols[j].Position {
			return cols[i].Position < cols[j].Position
		}
		return d.created[cols[i].ID] < d.created[cols[j].ID]
	})
	return cols
}

// columnCards returns a column's cards ordered by position. Positions
// can be sparse after moves, so order is positional, not indexed.
func (d *dataset) columnCards(columnID string) []*cardRec {
	var recs []*cardRec
	for _, rec := range d.cards {
		if rec.card.ColumnID == columnID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].card.Position != recs[j].card.Position {
			return recs[i].card.Position < recs[j].card.Position
		}
		return d.created[recs[i].card.ID] < d.created[recs[j].card.ID]
	})
	return recs
}

// projectCards walks the project's boards in creation order and their
// columns left to right.
func (d *dataset) projectCards(projectID string) []*cardRec {
	var boardIDs []string
	for id, board := range d.boards {
		if board.ProjectID == projectID {
			boardIDs = append(boardIDs, id)
		}
	}
	d.sortByCreation(boardIDs)

	var recs []*cardRec
	for _, boardID := range boardIDs {
		for _, col := range d.boardColumns(boardID) {
			recs = append(recs, d.columnCards(col.ID)...)
		}
	}
	return recs
}

func (d *dataset) nextCardPosition(columnID string) int {
	next := 0
	for _, rec := range d.cards {
		if rec.card.ColumnID == columnID && rec.card.Position >= next {
			next = rec.card.Position + 1
		}
	}
	return next
}

func (d *dataset) nextColumnPosition(boardID string) int {
	next := 0
	for _, col := range d.columns {
		if col.BoardID == boardID && col.Position >= next {
			next = col.Position + 1
		}
	}
	return next
}

// newBoard creates a board and its columns from a layout.
func (d *dataset) newBoard(projectID, name string, layout []model.TemplateColumn) *model.Board {
	board := &model.Board{
		ID:        d.newID(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	d.boards[board.ID] = board
	for _, tc := range layout {
		col := &model.Column{
			ID:       d.newID(),
			BoardID:  board.ID,
			Name:     tc.Name,
			Position: tc.Position,
			WipLimit: tc.WipLimit,
			Color:    tc.Color,
		}
		d.columns[col.ID] = col
	}
	return board
}

// Renders resolve cross references into the wire shapes.

func (d *dataset) renderUser(id string) *model.User {
	rec, ok := d.users[id]
	if !ok {
		return nil
	}
	u := rec.user
	return &u
}

// renderCard returns the card's wire shape. The base shape carries
// assignees and labels; details add description, time estimate,
// creator and comments.
func (d *dataset) renderCard(rec *cardRec, details bool) model.Card {
	out := rec.card.Clone()

	out.Assignees = nil
	for _, uid := range rec.assigneeIDs {
		out.Assignees = append(out.Assignees, model.Assignee{UserID: uid, User: d.renderUser(uid)})
	}
	out.Labels = nil
	for _, lid := range rec.labelIDs {
		cl := model.CardLabel{LabelID: lid}
		if label, ok := d.labels[lid]; ok {
			l := *label
			cl.Label = &l
		}
		out.Labels = append(out.Labels, cl)
	}

	if !details {
		out.Description = ""
		out.TimeEstimate = 0
		out.CreatedBy = ""
		out.CreatedByUser = nil
		out.Comments = nil
		return out
	}

	out.CreatedByUser = d.renderUser(out.CreatedBy)
	out.Comments = nil
	for _, comment := range rec.comments {
		c := comment
		c.User = d.renderUser(c.UserID)
		out.Comments = append(out.Comments, c)
	}
	return out
}

func (d *dataset) renderColumn(col *model.Column, includeCards bool) model.Column {
	out := *col
	recs := d.columnCards(col.ID)
	out.CardCount = len(recs)
	out.IsOverWipLimit = col.WipLimit > 0 && len(recs) > col.WipLimit
	if includeCards {
		out.Cards = make([]model.Card, 0, len(recs))
		for _, rec := range recs {
			out.Cards = append(out.Cards, d.renderCard(rec, false))
		}
	}
	return out
}

func (d *dataset) renderBoard(board *model.Board, includeColumns, includeCards bool) model.Board {
	out := *board
	if includeColumns {
		cols := d.boardColumns(board.ID)
		out.Columns = make([]model.Column, 0, len(cols))
		for _, col := range cols {
			out.Columns = append(out.Columns, d.renderColumn(col, includeCards))
		}
	}
	return out
}

func (d *dataset) renderSprint(sprint *model.Sprint, includeCards bool) model.Sprint {
	out := *sprint
	if includeCards {
		ids := d.sprintCards[sprint.ID]
		out.Cards = make([]model.Card, 0, len(ids))
		for _, id := range ids {
			if rec, ok := d.cards[id]; ok {
				out.Cards = append(out.Cards, d.renderCard(rec, false))
			}
		}
	}
	return out
}

func (d *dataset) renderLink(link *model.CardLink) model.CardLink {
	out := *link
	if rec, ok := d.cards[link.SourceCardID]; ok {
		out.SourceCard = &model.CardRef{ID: rec.card.ID, Title: rec.card.Title}
	}
	if rec, ok := d.cards[link.TargetCardID]; ok {
		out.TargetCard = &model.CardRef{ID: rec.card.ID, Title: rec.card.Title}
	}
	return out
}

func (d *dataset) renderMember(m *model.Member) model.Member {
	out := *m
	out.User = d.renderUser(m.UserID)
	return out
}

func (d *dataset) renderNotification(n *model.Notification) model.Notification {
	out := *n
	if n.ActorID != "" {
		out.Actor = d.renderUser(n.ActorID)
	}
	return out
}

// pushNotification stores a notification for a user.
func (d *dataset) pushNotification(userID string, n model.Notification) {
	n.ID = d.newID()
	n.CreatedAt = time.Now().UTC()
	d.notifications[userID] = append(d.notifications[userID], &n)
}

func (d *dataset) findNotification(userID, id string) *model.Notification {
	for _, n := range d.notifications[userID] {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (d *dataset) countUnread(userID string) int {
	count := 0
	for _, n := range d.notifications[userID] {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// Cascading deletes mirror the production schema's foreign keys.

func (d *dataset) deleteOrganizationCascade(orgID string) {
	for id, ws := range d.workspaces {
		if ws.OrganizationID == orgID {
			d.deleteWorkspaceCascade(id)
		}
	}
	for id, m := range d.members {
		if m.OrganizationID == orgID {
			delete(d.members, id)
		}
	}
	delete(d.orgs, orgID)
}

func (d *dataset) deleteWorkspaceCascade(workspaceID string) {
	for id, project := range d.projects {
		if project.WorkspaceID == workspaceID {
			d.deleteProjectCascade(id)
		}
	}
	delete(d.workspaces, workspaceID)
}

func (d *dataset) deleteProjectCascade(projectID string) {
	for id, board := range d.boards {
		if board.ProjectID == projectID {
			d.deleteBoardCascade(id)
		}
	}
	for id, label := range d.labels {
		if label.ProjectID == projectID {
			d.deleteLabelCascade(id)
		}
	}
	for id, sprint := range d.sprints {
		if sprint.ProjectID == projectID {
			delete(d.sprintCards, id)
			delete(d.sprints, id)
		}
	}
	delete(d.projects, projectID)
}

func (d *dataset) deleteBoardCascade(boardID string) {
	for id, col := range d.columns {
		if col.BoardID == boardID {
			for _, rec := range d.columnCards(id) {
				d.deleteCardCascade(rec.card.ID)
			}
			delete(d.columns, id)
		}
	}
	delete(d.boards, boardID)
}

func (d *dataset) deleteCardCascade(cardID string) {
	for id, link := range d.links {
		if link.SourceCardID == cardID || link.TargetCardID == cardID {
			delete(d.links, id)
		}
	}
	for sprintID, ids := range d.sprintCards {
		d.sprintCards[sprintID] = removeString(ids, cardID)
	}
	delete(d.cards, cardID)
}

func (d *dataset) deleteLabelCascade(labelID string) {
	for _, rec := range d.cards {
		rec.labelIDs = removeString(rec.labelIDs, labelID)
	}
	delete(d.labels, labelID)
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL-friendly slug from a display name.
func slugify(name string) string {
	slug := slugCleanRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
