// Package dice implements the weighted random draw over categorized faces.
//
// Category proportions are fixed design constants (payer and place 20% each,
// activity 60%); relative frequency within a category follows each face's own
// Weight. Draws sample a cumulative-weight table by binary search instead of
// replicating faces into a flat pool.
package dice

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand/v2"
	"sort"

	"github.com/franciskouaho/love-dice-sub000/internal/common"
	"github.com/franciskouaho/love-dice-sub000/internal/models"
)

// categoryShare is the fixed cross-category proportion table.
var categoryShare = map[models.Category]float64{
	models.CategoryPayer:    20,
	models.CategoryPlace:    20,
	models.CategoryActivity: 60,
}

// randomFloat returns a uniform value in [0, 1). It prefers crypto/rand and
// silently falls back to math/rand/v2; a draw never fails on entropy.
func randomFloat() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err == nil {
		return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
	}
	return mathrand.Float64()
}

// sampler accumulates weighted entries and picks one by prefix-sum search.
type sampler struct {
	faces []models.Face
	cum   []float64
	total float64
}

func (s *sampler) add(f models.Face, weight float64) {
	if weight <= 0 {
		return
	}
	s.total += weight
	s.faces = append(s.faces, f)
	s.cum = append(s.cum, s.total)
}

func (s *sampler) pick() models.Face {
	x := randomFloat() * s.total
	i := sort.Search(len(s.cum), func(i int) bool { return s.cum[i] > x })
	if i >= len(s.faces) {
		i = len(s.faces) - 1
	}
	return s.faces[i]
}

func partition(candidates []models.Face) map[models.Category][]models.Face {
	byCategory := make(map[models.Category][]models.Face)
	for _, f := range candidates {
		if !f.IsActive || !f.Category.Valid() {
			continue
		}
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}
	return byCategory
}

// categoryPool applies anti-repetition: lastID is excluded only when the
// category holds more than two faces, so small pools are never starved.
func categoryPool(faces []models.Face, lastID string) []models.Face {
	if lastID == "" || len(faces) <= 2 {
		return faces
	}
	pool := make([]models.Face, 0, len(faces))
	for _, f := range faces {
		if f.ID != lastID {
			pool = append(pool, f)
		}
	}
	if len(pool) == 0 {
		return faces
	}
	return pool
}

func drawWithin(faces []models.Face) models.Face {
	var s sampler
	for _, f := range faces {
		s.add(f, float64(f.Weight))
	}
	if s.total == 0 {
		// all weights invalid; degrade to a uniform draw
		for _, f := range faces {
			s.add(f, 1)
		}
	}
	return s.pick()
}

// Select draws one face across all categories. A category's slice of the
// total probability is its fixed share; inside the category each face weighs
// in proportionally. last, when given, is excluded from its own category's
// pool per the anti-repetition rule.
func Select(candidates []models.Face, last *models.Face) (models.Face, error) {
	byCategory := partition(candidates)
	if len(byCategory) == 0 {
		return models.Face{}, fmt.Errorf("no active faces to draw from: %w", common.ErrorEmptyCategory)
	}

	var s sampler
	for cat, faces := range byCategory {
		lastID := ""
		if last != nil && last.Category == cat {
			lastID = last.ID
		}
		pool := categoryPool(faces, lastID)

		var poolWeight float64
		for _, f := range pool {
			poolWeight += float64(f.Weight)
		}
		if poolWeight == 0 {
			continue
		}
		for _, f := range pool {
			s.add(f, categoryShare[cat]*float64(f.Weight)/poolWeight)
		}
	}
	if s.total == 0 {
		return models.Face{}, fmt.Errorf("no active faces to draw from: %w", common.ErrorEmptyCategory)
	}
	return s.pick(), nil
}

// RollAll draws one face per category. It fails fast when any category has no
// active faces; a roll with a silently missing category would be wrong, not
// degraded. lastByCategory carries the previous roll's face IDs for
// anti-repetition.
func RollAll(candidates []models.Face, lastByCategory map[models.Category]string) (map[models.Category]models.Face, error) {
	byCategory := partition(candidates)

	result := make(map[models.Category]models.Face, len(models.Categories()))
	for _, cat := range models.Categories() {
		faces := byCategory[cat]
		if len(faces) == 0 {
			return nil, fmt.Errorf("category %q has no active faces: %w", cat, common.ErrorEmptyCategory)
		}
		result[cat] = drawWithin(categoryPool(faces, lastByCategory[cat]))
	}
	return result, nil
}
