package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franciskouaho/love-dice-sub000/internal/common"
)

func TestValidateFace_OK(t *testing.T) {
	f := NewFace("u1", "Cinéma", "🎬", CategoryActivity, 5)
	require.NoError(t, ValidateFace(&f))
}

func TestValidateFace_Violations(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Face)
		field      string
		constraint string
	}{
		{"empty label", func(f *Face) { f.Label = "" }, "Label", "required"},
		{"label too long", func(f *Face) { f.Label = strings.Repeat("x", 51) }, "Label", "max"},
		{"weight zero", func(f *Face) { f.Weight = 0 }, "Weight", "min"},
		{"weight eleven", func(f *Face) { f.Weight = 11 }, "Weight", "max"},
		{"unknown category", func(f *Face) { f.Category = "dessert" }, "Category", "oneof"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := NewFace("u1", "Resto", "🍝", CategoryPlace, 3)
			tt.mutate(&f)

			err := ValidateFace(&f)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrorValidation))

			var fv *FieldViolation
			require.True(t, errors.As(err, &fv))
			assert.Equal(t, tt.field, fv.Field)
			assert.Equal(t, tt.constraint, fv.Constraint)
		})
	}
}

func TestNewFace_Defaults(t *testing.T) {
	f := NewFace("u1", "Karaoké", "", CategoryActivity, 0)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, 1, f.Weight)
	assert.True(t, f.IsActive)
}

func TestUsedFor_DayKeyNormalization(t *testing.T) {
	p := &UserProfile{FreeActionsUsedToday: 3, DayKey: "2024-01-01"}

	assert.Equal(t, 3, p.UsedFor("2024-01-01"))
	// stale day key reads as zero
	assert.Equal(t, 0, p.UsedFor("2024-01-02"))

	var nilProfile *UserProfile
	assert.Equal(t, 0, nilProfile.UsedFor("2024-01-01"))
}

func TestActiveOnly(t *testing.T) {
	faces := []Face{
		{ID: "1", IsActive: true},
		{ID: "2", IsActive: false},
		{ID: "3", IsActive: true},
	}
	active := ActiveOnly(faces)
	require.Len(t, active, 2)
	assert.Equal(t, "1", active[0].ID)
	assert.Equal(t, "3", active[1].ID)
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid())
	}
	assert.False(t, Category("dessert").Valid())
}

func TestNewRollRecord(t *testing.T) {
	at := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	r := NewRollRecord("u1", map[Category]string{CategoryPayer: "Toi"}, at)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "u1", r.OwnerID)
	assert.Equal(t, at, r.RolledAt)
}
