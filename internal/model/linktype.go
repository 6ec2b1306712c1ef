package model

import "time"

// LinkType is the stored, directional relation between two cards.
type LinkType string

const (
	LinkBlocks       LinkType = "blocks"
	LinkBlockedBy    LinkType = "blocked_by"
	LinkRelatesTo    LinkType = "relates_to"
	LinkDuplicates   LinkType = "duplicates"
	LinkDuplicatedBy LinkType = "duplicated_by"
)

var inverseLinkTypes = map[LinkType]LinkType{
	LinkBlocks:       LinkBlockedBy,
	LinkBlockedBy:    LinkBlocks,
	LinkRelatesTo:    LinkRelatesTo,
	LinkDuplicates:   LinkDuplicatedBy,
	LinkDuplicatedBy: LinkDuplicates,
}

func AllLinkTypes() []LinkType {
	return []LinkType{LinkBlocks, LinkBlockedBy, LinkRelatesTo, LinkDuplicates, LinkDuplicatedBy}
}

func (t LinkType) Valid() bool {
	_, ok := inverseLinkTypes[t]
	return ok
}

// Inverse returns the type under which the edge appears when viewed from its
// target. Total over valid types; relates_to is its own inverse.
func (t LinkType) Inverse() LinkType {
	if inv, ok := inverseLinkTypes[t]; ok {
		return inv
	}
	return t
}

type CardRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type CardLink struct {
	ID           string    `json:"id"`
	SourceCardID string    `json:"source_card_id"`
	TargetCardID string    `json:"target_card_id"`
	LinkType     LinkType  `json:"link_type"`
	SourceCard   *CardRef  `json:"source_card,omitempty"`
	TargetCard   *CardRef  `json:"target_card,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
