package entity

// DefaultColumnColor is applied when a column is created without a color.
const DefaultColumnColor = "#94a3b8"

// Column is an ordered lane on a board. Order values are append-only
// monotonic per board; duplicates and gaps are legal and tolerated by
// readers, which sort ascending.
type Column struct {
	ID      string
	BoardID string
	Name    string
	Color   string
	Order   int
}
