package entity

import "time"

// CardPriority is the urgency bucket of a card.
type CardPriority string

const (
	PriorityLow    CardPriority = "LOW"
	PriorityMedium CardPriority = "MEDIUM"
	PriorityHigh   CardPriority = "HIGH"
	PriorityUrgent CardPriority = "URGENT"
)

// ValidPriority reports whether p is one of the known priority buckets.
func ValidPriority(p CardPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Card is the leaf of the ownership chain. AssignedTo holds user ids that
// must all be members of the owning project at assignment time.
type Card struct {
	ID                   string
	ColumnID             string
	Title                string
	Description          string
	Priority             CardPriority
	ExpectedDeliveryDate *time.Time
	AssignedTo           []string
	Order                int
	CreatedBy            string
	CreatedAt            time.Time
}
