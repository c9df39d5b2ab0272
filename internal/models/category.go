// Package models defines the synchronized entity shapes: user profile, dice
// faces (the customizable options a roll can land on), roll history and the
// remote feature configuration.
package models

// Category classifies a dice face. The set is closed: every face belongs to
// exactly one of the three date-plan slots a roll fills.
type Category string

const (
	// CategoryPayer decides who picks up the bill.
	CategoryPayer Category = "payer"
	// CategoryPlace decides where the date happens.
	CategoryPlace Category = "place"
	// CategoryActivity decides what the couple actually does.
	CategoryActivity Category = "activity"
)

// Categories lists all known categories in roll order.
func Categories() []Category {
	return []Category{CategoryPayer, CategoryPlace, CategoryActivity}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPayer, CategoryPlace, CategoryActivity:
		return true
	}
	return false
}
