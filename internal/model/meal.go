package model

type Meal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       Price  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

// DefaultCategory is assigned to meals created without a category.
const DefaultCategory = "other"
