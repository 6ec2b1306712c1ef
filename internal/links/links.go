// Package links presents one card's relations as a single directional
// list, no matter which side of the underlying edge the card is on.
package links

import (
	"context"
	"sync"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/model"
)

// API is the slice of the server client the panel needs.
type API interface {
	Links(ctx context.Context, cardID string) (api.CardLinks, error)
	CreateLink(ctx context.Context, cardID string, req api.CreateLinkRequest) (model.CardLink, error)
	DeleteLink(ctx context.Context, linkID string) error
}

// Direction says which side of an edge the owning card is on.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

func (d Direction) String() string {
	if d == Incoming {
		return "incoming"
	}
	return "outgoing"
}

// DisplayLink is one row of the merged list as seen from the owning
// card. Type carries the stored type for outgoing edges and its inverse
// for incoming ones, so a card blocked by another reads "blocked_by"
// even though the edge is stored as "blocks".
type DisplayLink struct {
	Link      model.CardLink
	Direction Direction
	Type      model.LinkType
	Other     model.CardRef
}

// Panel holds the links of one card.
type Panel struct {
	api    API
	cardID string

	mu       sync.Mutex
	outgoing []model.CardLink
	incoming []model.CardLink
	loaded   bool
}

// NewPanel returns a panel for one card.
func NewPanel(client API, cardID string) *Panel {
	return &Panel{api: client, cardID: cardID}
}

// CardID returns the id the panel was built for.
func (p *Panel) CardID() string { return p.cardID }

// Load replaces the panel's edge sets with the server's.
func (p *Panel) Load(ctx context.Context) error {
	cardLinks, err := p.api.Links(ctx, p.cardID)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outgoing = cardLinks.Outgoing
	p.incoming = cardLinks.Incoming
	p.loaded = true
	return nil
}

// Loaded reports whether Load has succeeded.
func (p *Panel) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Create links the owning card to target. On success the new edge is
// appended to the outgoing set. Creating an edge that already exists
// fails with an error matching api.ErrDuplicateLink and leaves the sets
// unchanged.
func (p *Panel) Create(ctx context.Context, targetCardID string, linkType model.LinkType) (model.CardLink, error) {
	link, err := p.api.CreateLink(ctx, p.cardID, api.CreateLinkRequest{
		TargetCardID: targetCardID,
		LinkType:     linkType,
	})
	if err != nil {
		return model.CardLink{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outgoing = append(p.outgoing, link)
	return link, nil
}

// Delete removes an edge. The caller declares which set the edge is in
// from this card's perspective; the local set is pruned only after the
// server confirmed the delete.
func (p *Panel) Delete(ctx context.Context, linkID string, dir Direction) error {
	if err := p.api.DeleteLink(ctx, linkID); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if dir == Incoming {
		p.incoming = removeLink(p.incoming, linkID)
	} else {
		p.outgoing = removeLink(p.outgoing, linkID)
	}
	return nil
}

// Display returns the merged list, outgoing edges first. Incoming edges
// carry the inverse of their stored type.
func (p *Panel) Display() []DisplayLink {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]DisplayLink, 0, len(p.outgoing)+len(p.incoming))
	for _, link := range p.outgoing {
		out = append(out, DisplayLink{
			Link:      link,
			Direction: Outgoing,
			Type:      link.LinkType,
			Other:     otherRef(link.TargetCard, link.TargetCardID),
		})
	}
	for _, link := range p.incoming {
		out = append(out, DisplayLink{
			Link:      link,
			Direction: Incoming,
			Type:      link.LinkType.Inverse(),
			Other:     otherRef(link.SourceCard, link.SourceCardID),
		})
	}
	return out
}

func removeLink(set []model.CardLink, linkID string) []model.CardLink {
	for i := range set {
		if set[i].ID == linkID {
			return append(set[:i], set[i+1:]...)
		}
	}
	return set
}

func otherRef(ref *model.CardRef, id string) model.CardRef {
	if ref != nil {
		return *ref
	}
	return model.CardRef{ID: id}
}
