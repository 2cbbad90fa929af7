package portfolio

import (
	"encoding/json"

	"github.com/trogers1052/paisabuddy/internal/models"
)

// Position is the state of a holding after a trade: either open with a
// snapshot, or closed. The zero value is closed.
type Position struct {
	snapshot models.HoldingSnapshot
	open     bool
}

// OpenPosition returns a position holding s
func OpenPosition(s models.HoldingSnapshot) Position {
	return Position{snapshot: s, open: true}
}

// NoPosition returns a closed position
func NoPosition() Position {
	return Position{}
}

// Snapshot returns the holding snapshot and whether the position is open
func (p Position) Snapshot() (models.HoldingSnapshot, bool) {
	return p.snapshot, p.open
}

// IsOpen reports whether shares are still held
func (p Position) IsOpen() bool {
	return p.open
}

// MarshalJSON encodes an open position as its snapshot and a closed one as null
func (p Position) MarshalJSON() ([]byte, error) {
	if !p.open {
		return []byte("null"), nil
	}
	return json.Marshal(p.snapshot)
}
