package models

import "github.com/google/uuid"

// Face is one customizable option a roll can land on: a label, an emoji, a
// category and a relative weight inside that category.
//
// Faces are soft-deleted by default (IsActive=false); hard deletion is a
// separate explicit operation on the remote store.
type Face struct {
	ID       string   `json:"id"`
	OwnerID  string   `json:"owner_id,omitempty"`
	Label    string   `json:"label" validate:"required,max=50"`
	Category Category `json:"category" validate:"required,oneof=payer place activity"`
	Emoji    string   `json:"emoji,omitempty"`
	Weight   int      `json:"weight" validate:"min=1,max=10"`
	IsActive bool     `json:"is_active"`
	Actions  []string `json:"actions,omitempty"`
}

// NewFace builds a user-created face with a fresh id, weight defaulted to 1
// when unset, and IsActive true.
func NewFace(ownerID, label, emoji string, category Category, weight int) Face {
	if weight == 0 {
		weight = 1
	}
	return Face{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		Label:    label,
		Category: category,
		Emoji:    emoji,
		Weight:   weight,
		IsActive: true,
	}
}

// ActiveOnly filters faces down to the active ones.
func ActiveOnly(faces []Face) []Face {
	result := make([]Face, 0, len(faces))
	for _, f := range faces {
		if f.IsActive {
			result = append(result, f)
		}
	}
	return result
}
