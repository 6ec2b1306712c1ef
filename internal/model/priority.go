package model

import "strings"

// Priority is the card urgency level, highest first.
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
)

var priorityRanks = map[Priority]int{
	PriorityP0: 0,
	PriorityP1: 1,
	PriorityP2: 2,
	PriorityP3: 3,
	PriorityP4: 4,
}

func AllPriorities() []Priority {
	return []Priority{PriorityP0, PriorityP1, PriorityP2, PriorityP3, PriorityP4}
}

func (p Priority) Valid() bool {
	_, ok := priorityRanks[p]
	return ok
}

// Rank orders priorities for sorting. An unset or unknown priority ranks
// with P4, the lowest urgency.
func (p Priority) Rank() int {
	if rank, ok := priorityRanks[p]; ok {
		return rank
	}
	return priorityRanks[PriorityP4]
}

func ParsePriority(v string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(v)))
	if p.Valid() {
		return p, true
	}
	return "", false
}
