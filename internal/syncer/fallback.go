package syncer

import "github.com/franciskouaho/love-dice-sub000/internal/models"

// defaultCatalog is the built-in face set served when the remote catalog was
// never fetched and nothing is cached. The app must always be able to roll.
func defaultCatalog() []models.Face {
	return []models.Face{
		{ID: "builtin-payer-you", Label: "Toi", Emoji: "💝", Category: models.CategoryPayer, Weight: 5, IsActive: true},
		{ID: "builtin-payer-me", Label: "Moi", Emoji: "💘", Category: models.CategoryPayer, Weight: 5, IsActive: true},
		{ID: "builtin-place-home", Label: "À la maison", Emoji: "🏠", Category: models.CategoryPlace, Weight: 5, IsActive: true},
		{ID: "builtin-place-out", Label: "En ville", Emoji: "🌆", Category: models.CategoryPlace, Weight: 5, IsActive: true},
		{ID: "builtin-activity-cinema", Label: "Cinéma", Emoji: "🎬", Category: models.CategoryActivity, Weight: 4, IsActive: true},
		{ID: "builtin-activity-resto", Label: "Restaurant", Emoji: "🍝", Category: models.CategoryActivity, Weight: 5, IsActive: true},
		{ID: "builtin-activity-walk", Label: "Balade surprise", Emoji: "🚶", Category: models.CategoryActivity, Weight: 3, IsActive: true},
	}
}
