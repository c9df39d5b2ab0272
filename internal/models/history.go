package models

import (
	"time"

	"github.com/google/uuid"
)

// RollRecord is one completed roll: the three labels that came up, stamped
// with the local wall clock. Records are idempotent overwrites keyed by ID.
type RollRecord struct {
	ID       string              `json:"id"`
	OwnerID  string              `json:"owner_id"`
	Faces    map[Category]string `json:"faces"`
	RolledAt time.Time           `json:"rolled_at"`
}

// NewRollRecord builds a history record from the labels of a finished roll.
func NewRollRecord(ownerID string, faces map[Category]string, at time.Time) RollRecord {
	return RollRecord{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		Faces:    faces,
		RolledAt: at,
	}
}
