package data

import "gastos/internal/core"

// DefaultCategories is the starter set written for an account whose
// category list comes back empty.
func DefaultCategories(userID string) []core.Category {
	return []core.Category{
		{UserID: userID, Name: "Domicilios", Icon: "home", Color: "#ef4444", IsDefault: true, SortOrder: 1},
		{UserID: userID, Name: "Mercado", Icon: "shopping-cart", Color: "#f97316", IsDefault: true, SortOrder: 2},
		{UserID: userID, Name: "Créditos", Icon: "credit-card", Color: "#eab308", IsDefault: true, SortOrder: 3},
		{UserID: userID, Name: "Tools", Icon: "wrench", Color: "#84cc16", IsDefault: true, SortOrder: 4},
		{UserID: userID, Name: "Streaming", Icon: "tv", Color: "#22c55e", IsDefault: true, SortOrder: 5},
		{UserID: userID, Name: "Entretenimiento", Icon: "gamepad-2", Color: "#14b8a6", IsDefault: true, SortOrder: 6},
		{UserID: userID, Name: "Hogar", Icon: "house", Color: "#06b6d4", IsDefault: true, SortOrder: 7},
		{UserID: userID, Name: "Familia", Icon: "users", Color: "#3b82f6", IsDefault: true, SortOrder: 8},
		{UserID: userID, Name: "Salud", Icon: "heart-pulse", Color: "#8b5cf6", IsDefault: true, SortOrder: 9},
		{UserID: userID, Name: "Viajes", Icon: "plane", Color: "#ec4899", IsDefault: true, SortOrder: 10},
	}
}
