package models

import (
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
)

// RoutineBlock is a protected interval derived from the user's routine description
type RoutineBlock struct {
	Start       time.Time           `json:"start"`
	End         time.Time           `json:"end"`
	Type        constants.BlockType `json:"type"`
	Description string              `json:"description"`
}

// Overlaps reports whether the block intersects the half-open interval [start, end)
func (b *RoutineBlock) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}
