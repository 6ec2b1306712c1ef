package sandbox

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/oapi-codegen/runtime/types"

	"github.com/flowboardhq/flowboard/internal/model"
)

func (s *Server) registerCardOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCards",
		Method:      http.MethodGet,
		Path:        "/api/cards",
		Summary:     "List cards of a column or board",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, s.listCards)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCard",
		Method:        http.MethodPost,
		Path:          "/api/cards",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create a card at the bottom of a column",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden},
	}, s.createCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCard",
		Method:      http.MethodGet,
		Path:        "/api/cards/{id}",
		Summary:     "Get a card with full details",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.getCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCard",
		Method:      http.MethodPut,
		Path:        "/api/cards/{id}",
		Summary:     "Update a card",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, s.updateCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCard",
		Method:      http.MethodDelete,
		Path:        "/api/cards/{id}",
		Summary:     "Delete a card",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.deleteCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveCard",
		Method:      http.MethodPut,
		Path:        "/api/cards/{id}/move",
		Summary:     "Move a card within its board",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, s.moveCard)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addComment",
		Method:        http.MethodPost,
		Path:          "/api/cards/{id}/comments",
		DefaultStatus: http.StatusCreated,
		Summary:       "Comment on a card",
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, s.addComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "assignCard",
		Method:      http.MethodPost,
		Path:        "/api/cards/{id}/assignees",
		Summary:     "Assign a user to a card",
		Errors:      []int{http.StatusBadRequest, http.StatusConflict, http.StatusForbidden, http.StatusNotFound},
	}, s.assignCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "unassignCard",
		Method:      http.MethodDelete,
		Path:        "/api/cards/{id}/assignees/{userId}",
		Summary:     "Remove a user from a card",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.unassignCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "addCardLabel",
		Method:      http.MethodPost,
		Path:        "/api/cards/{id}/labels",
		Summary:     "Attach a label to a card",
		Errors:      []int{http.StatusBadRequest, http.StatusConflict, http.StatusForbidden, http.StatusNotFound},
	}, s.addCardLabel)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeCardLabel",
		Method:      http.MethodDelete,
		Path:        "/api/cards/{id}/labels/{labelId}",
		Summary:     "Detach a label from a card",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.removeCardLabel)
}

type listCardsInput struct {
	ColumnID string `query:"column_id"`
	BoardID  string `query:"board_id"`
}

type cardsOutput struct {
	Body struct {
		Cards []model.Card `json:"cards"`
	}
}

func (s *Server) listCards(ctx context.Context, input *listCardsInput) (*cardsOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	userID := userIDFrom(ctx)
	out := &cardsOutput{}
	out.Body.Cards = []model.Card{}

	switch {
	case input.ColumnID != "":
		if s.data.columnMembership(input.ColumnID, userID) == nil {
			return nil, errForbidden()
		}
		for _, rec := range s.data.columnCards(input.ColumnID) {
			out.Body.Cards = append(out.Body.Cards, s.data.renderCard(rec, false))
		}
	case input.BoardID != "":
		if _, ok := s.data.boards[input.BoardID]; !ok {
			return nil, errNotFound("Board not found")
		}
		if s.data.boardMembership(input.BoardID, userID) == nil {
			return nil, errForbidden()
		}
		for _, col := range s.data.boardColumns(input.BoardID) {
			for _, rec := range s.data.columnCards(col.ID) {
				out.Body.Cards = append(out.Body.Cards, s.data.renderCard(rec, false))
			}
		}
	default:
		return nil, errBadRequest("column_id or board_id required")
	}
	return out, nil
}

type createCardInput struct {
	Body struct {
		ColumnID     string         `json:"column_id,omitempty"`
		Title        string         `json:"title,omitempty"`
		Description  string         `json:"description,omitempty"`
		Priority     model.Priority `json:"priority,omitempty"`
		StoryPoints  *int           `json:"story_points,omitempty"`
		TimeEstimate *int           `json:"time_estimate,omitempty"`
		DueDate      *types.Date    `json:"due_date,omitempty"`
	}
}

type cardOutput struct {
	Body struct {
		Card model.Card `json:"card"`
	}
}

func (s *Server) createCard(ctx context.Context, input *createCardInput) (*cardOutput, error) {
	title := strings.TrimSpace(input.Body.Title)
	if input.Body.ColumnID == "" || title == "" {
		return nil, errValidation()
	}
	if input.Body.Priority != "" && !input.Body.Priority.Valid() {
		return nil, errValidation()
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.columnMembership(input.Body.ColumnID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	now := time.Now().UTC()
	rec := &cardRec{card: model.Card{
		ID:          s.data.newID(),
		ColumnID:    input.Body.ColumnID,
		Title:       title,
		Description: input.Body.Description,
		Priority:    input.Body.Priority,
		DueDate:     input.Body.DueDate,
		Position:    s.data.nextCardPosition(input.Body.ColumnID),
		CreatedBy:   userIDFrom(ctx),
		CreatedAt:   now,
		UpdatedAt:   now,
	}}
	if input.Body.StoryPoints != nil {
		rec.card.StoryPoints = *input.Body.StoryPoints
	}
	if input.Body.TimeEstimate != nil {
		rec.card.TimeEstimate = *input.Body.TimeEstimate
	}
	s.data.cards[rec.card.ID] = rec

	out := &cardOutput{}
	out.Body.Card = s.data.renderCard(rec, true)
	return out, nil
}

type cardPathInput struct {
	ID string `path:"id"`
}

func (s *Server) getCard(ctx context.Context, input *cardPathInput) (*cardOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec, ok := s.data.cards[input.ID]
	if !ok {
		return nil, errNotFound("Card not found")
	}
	if s.data.cardMembership(rec, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	out := &cardOutput{}
	out.Body.Card = s.data.renderCard(rec, true)
	return out, nil
}

type updateCardInput struct {
	ID   string `path:"id"`
	Body struct {
		Title        *string         `json:"title,omitempty"`
		Description  *string         `json:"description,omitempty"`
		Priority     *model.Priority `json:"priority,omitempty"`
		StoryPoints  *int            `json:"story_points,omitempty"`
		TimeEstimate *int            `json:"time_estimate,omitempty"`
		DueDate      *types.Date     `json:"due_date,omitempty"`
	}
}

func (s *Server) updateCard(ctx context.Context, input *updateCardInput) (*cardOutput, error) {
	if input.Body.Priority != nil && *input.Body.Priority != "" && !input.Body.Priority.Valid() {
		return nil, errValidation()
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec, ok := s.data.cards[input.ID]
	if !ok {
		return nil, errNotFound("Card not found")
	}
	if s.data.cardMembership(rec, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	if input.Body.Title != nil && strings.TrimSpace(*input.Body.Title) != "" {
		rec.card.Title = strings.TrimSpace(*input.Body.Title)
	}
	if input.Body.Description != nil {
		rec.card.Description = *input.Body.Description
	}
	if input.Body.Priority != nil {
		rec.card.Priority = *input.Body.Priority
	}
	if input.Body.StoryPoints != nil {
		rec.card.StoryPoints = *input.Body.StoryPoints
	}
	if input.Body.TimeEstimate != nil {
		rec.card.TimeEstimate = *input.Body.TimeEstimate
	}
	if input.Body.DueDate != nil {
		due := *input.Body.DueDate
		rec.card.DueDate = &due
	}
	rec.card.UpdatedAt = time.Now().UTC()

	out := &cardOutput{}
	out.Body.Card = s.data.renderCard(rec, true)
	return out, nil
}

func (s *Server) deleteCard(ctx context.Context, input *cardPathInput) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec, ok := s.data.cards[input.ID]
	if !ok {
		return nil, errNotFound("Card not found")
	}
	if s.data.cardMembership(rec, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	s.data.deleteCardCascade(input.ID)
	return messageResponse("Card deleted"), nil
}

type moveCardInput struct {
	ID   string `path:"id"`
	Body struct {
		ColumnID string `json:"column_id,omitempty"`
		Position int    `json:"position,omitempty"`
	}
}

// moveCard places the card at the requested position and shifts the
// target column's cards at or below it down by one. Slots left behind
// in the source column stay sparse.
func (s *Server) moveCard(ctx context.Context, input *moveCardInput) (*cardOutput, error) {
	if input.Body.ColumnID == "" || input.Body.Position < 0 {
		return nil, errValidation()
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec, ok := s.data.cards[input.ID]
	if !ok {
		return nil, errNotFound("Card not found")
	}
	userID := userIDFrom(ctx)
	if s.data.cardMembership(rec, userID) == nil {
		return nil, errForbidden()
	}

	source, ok := s.data.columns[rec.card.ColumnID]
	if !ok {
		return nil, errNotFound("Column not found")
	}
	target, ok := s.data.columns[input.Body.ColumnID]
	if !ok {
		return nil, errNotFound("Target column not found")
	}
	if source.BoardID != target.BoardID {
		return nil, errBadRequest("Cannot move card to different board")
	}

	rec.card.ColumnID = target.ID
	rec.card.Position = input.Body.Position
	for _, other := range s.data.cards {
		if other != rec && other.card.ColumnID == target.ID && other.card.Position >= input.Body.Position {
			other.card.Position++
		}
	}
	rec.card.UpdatedAt = time.Now().UTC()

	if source.ID != target.ID {
		s.data.notifyCardMoved(rec, source.Name, target.Name, userID)
	}

	out := &cardOutput{}
	out.Body.Card = s.data.renderCard(rec, false)
	return out, nil
}

type addCommentInput struct {
	ID   string `path:"id"`
	Body struct {
		Content string `json:"content,omitempty"`
	}
}

type commentOutput struct {
	Body struct {
		Comment model.Comment `json:"comment"`
	}
}

func (s *Server) addComment(ctx context.Context, input *addCommentInput) (*commentOutput, error) {
	if strings.TrimSpace(input.Body.Content) == "" {
		return nil, errValidation()
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec, ok := s.data.cards[input.ID]
	if !ok {
		return nil, errNotFound("Card not found")
	}
	userID := userIDFrom(ctx)
	if s.data.cardMembership(rec, userID) == nil {
		return nil, errForbidden()
	}

	comment := model.Comment{
		ID:        s.data.newID(),
		CardID:    rec.card.ID,
		UserID:    userID,
		Content:   input.Body.Content,
		CreatedAt: time.Now().UTC(),
	}
	rec.comments = append(rec.comments, comment)
	s.data.notifyCardCommented(rec, userID, comment.Content)

	comment.User = s.data.renderUser(userID)
	out := &commentOutput{}
	out.Body.Comment = comment
	return out, nil
}

type assignCardInput struct {
	ID   string `path:"id"`
	Body struct {
		UserID string `json:"user_id,omitempty"`
	}
}

func (s *Server) assignCard(ctx context.Context, input *assignCardInput) (*cardOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec, ok := s.data.cards[input.ID]
	if !ok {
		return nil, errNotFound("Card not found")
	}
	userID := userIDFrom(ctx)
	if s.data.cardMembership(rec, userID) == nil {
		return nil, errForbidden()
	}
	if input.Body.UserID == "" {
		return nil, errBadRequest("user_id required")
	}
	if containsString(rec.assigneeIDs, input.Body.UserID) {
		return nil, errConflict("User already assigned")
	}

	rec.assigneeIDs = append(rec.assigneeIDs, input.Body.UserID)
	s.data.notifyCardAssigned(rec, input.Body.UserID, userID)

	out := &cardOutput{}
	out.Body.Card = s.data.renderCard(rec, true)
	return out, nil
}

type unassignCardInput struct {
	ID     string `path:"id"`
	UserID string `path:"userId"`
}

func (s *Server) unassignCard(ctx context.Context, input *unassignCardInput) (*cardOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec, ok := s.data.cards[input.ID]
	if !ok {
		return nil, errNotFound("Card not found")
	}
	if s.data.cardMembership(rec, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}
	if !containsString(rec.assigneeIDs, input.UserID) {
		return nil, errNotFound("Assignment not found")
	}

	rec.assigneeIDs = removeString(rec.assigneeIDs, input.UserID)

	out := &cardOutput{}
	out.Body.Card = s.data.renderCard(rec, true)
	return out, nil
}

type addCardLabelInput struct {
	ID   string `path:"id"`
	Body struct {
		LabelID string `json:"label_id,omitempty"`
	}
}

func (s *Server) addCardLabel(ctx context.Context, input *addCardLabelInput) (*cardOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec, ok := s.data.cards[input.ID]
	if !ok {
		return nil, errNotFound("Card not found")
	}
	if s.data.cardMembership(rec, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}
	if input.Body.LabelID == "" {
		return nil, errBadRequest("label_id required")
	}
	if _, ok := s.data.labels[input.Body.LabelID]; !ok {
		return nil, errNotFound("Label not found")
	}
	if containsString(rec.labelIDs, input.Body.LabelID) {
		return nil, errConflict("Label already added")
	}

	rec.labelIDs = append(rec.labelIDs, input.Body.LabelID)

	out := &cardOutput{}
	out.Body.Card = s.data.renderCard(rec, true)
	return out, nil
}

type removeCardLabelInput struct {
	ID      string `path:"id"`
	LabelID string `path:"labelId"`
}

func (s *Server) removeCardLabel(ctx context.Context, input *removeCardLabelInput) (*cardOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec, ok := s.data.cards[input.ID]
	if !ok {
		return nil, errNotFound("Card not found")
	}
	if s.data.cardMembership(rec, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}
	if !containsString(rec.labelIDs, input.LabelID) {
		return nil, errNotFound("Label not on card")
	}

	rec.labelIDs = removeString(rec.labelIDs, input.LabelID)

	out := &cardOutput{}
	out.Body.Card = s.data.renderCard(rec, true)
	return out, nil
}
