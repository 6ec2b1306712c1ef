package sandbox

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowboardhq/flowboard/internal/model"
)

func (s *Server) registerLinkOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCardLinks",
		Method:      http.MethodGet,
		Path:        "/api/cards/{id}/links",
		Summary:     "List a card's outgoing and incoming links",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.listCardLinks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCardLink",
		Method:        http.MethodPost,
		Path:          "/api/cards/{id}/links",
		DefaultStatus: http.StatusCreated,
		Summary:       "Link a card to another card",
		Errors:        []int{http.StatusBadRequest, http.StatusConflict, http.StatusForbidden, http.StatusNotFound},
	}, s.createCardLink)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCardLink",
		Method:      http.MethodDelete,
		Path:        "/api/card-links/{id}",
		Summary:     "Delete a card link",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, s.deleteCardLink)
}

type cardLinksOutput struct {
	Body struct {
		Outgoing []model.CardLink `json:"outgoing_links"`
		Incoming []model.CardLink `json:"incoming_links"`
	}
}

func (s *Server) listCardLinks(ctx context.Context, input *cardPathInput) (*cardLinksOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec, ok := s.data.cards[input.ID]
	if !ok {
		return nil, errNotFound("Card not found")
	}
	if s.data.cardMembership(rec, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}

	var outgoingIDs, incomingIDs []string
	for id, link := range s.data.links {
		switch input.ID {
		case link.SourceCardID:
			outgoingIDs = append(outgoingIDs, id)
		case link.TargetCardID:
			incomingIDs = append(incomingIDs, id)
		}
	}
	s.data.sortByCreation(outgoingIDs)
	s.data.sortByCreation(incomingIDs)

	out := &cardLinksOutput{}
	out.Body.Outgoing = make([]model.CardLink, 0, len(outgoingIDs))
	for _, id := range outgoingIDs {
		out.Body.Outgoing = append(out.Body.Outgoing, s.data.renderLink(s.data.links[id]))
	}
	out.Body.Incoming = make([]model.CardLink, 0, len(incomingIDs))
	for _, id := range incomingIDs {
		out.Body.Incoming = append(out.Body.Incoming, s.data.renderLink(s.data.links[id]))
	}
	return out, nil
}

type createCardLinkInput struct {
	ID   string `path:"id"`
	Body struct {
		TargetCardID string         `json:"target_card_id,omitempty"`
		LinkType     model.LinkType `json:"link_type,omitempty"`
	}
}

type cardLinkOutput struct {
	Body struct {
		Link model.CardLink `json:"link"`
	}
}

func (s *Server) createCardLink(ctx context.Context, input *createCardLinkInput) (*cardLinkOutput, error) {
	if input.Body.TargetCardID == "" || !input.Body.LinkType.Valid() {
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
	if input.Body.TargetCardID == input.ID {
		return nil, errBadRequest("Cannot link card to itself")
	}
	if _, ok := s.data.cards[input.Body.TargetCardID]; !ok {
		return nil, errNotFound("Target card not found")
	}
	for _, link := range s.data.links {
		if link.SourceCardID == input.ID && link.TargetCardID == input.Body.TargetCardID && link.LinkType == input.Body.LinkType {
			return nil, errConflict("Link already exists")
		}
	}

	link := &model.CardLink{
		ID:           s.data.newID(),
		SourceCardID: input.ID,
		TargetCardID: input.Body.TargetCardID,
		LinkType:     input.Body.LinkType,
		CreatedAt:    time.Now().UTC(),
	}
	s.data.links[link.ID] = link

	out := &cardLinkOutput{}
	out.Body.Link = s.data.renderLink(link)
	return out, nil
}

type linkPathInput struct {
	ID string `path:"id"`
}

func (s *Server) deleteCardLink(ctx context.Context, input *linkPathInput) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	link, ok := s.data.links[input.ID]
	if !ok {
		return nil, errNotFound("Link not found")
	}
	if rec, ok := s.data.cards[link.SourceCardID]; ok {
		if s.data.cardMembership(rec, userIDFrom(ctx)) == nil {
			return nil, errForbidden()
		}
	}

	delete(s.data.links, input.ID)
	return messageResponse("Link deleted"), nil
}
