package database

import (
	"context"
	"database/sql"
	"fmt"

	"foodorder/internal/model"
)

var sampleMeals = []model.Meal{
	{ID: "m1", Name: "Mac & Cheese", Price: 8.99, Description: "Creamy cheddar cheese mixed with perfectly cooked macaroni, topped with crispy breadcrumbs.", Image: "images/mac-and-cheese.jpg", Category: "pasta"},
	{ID: "m2", Name: "Margherita Pizza", Price: 12.99, Description: "Fresh mozzarella, tomatoes, and basil on a thin and crispy crust.", Image: "images/margherita-pizza.jpg", Category: "pizza"},
	{ID: "m3", Name: "Caesar Salad", Price: 7.99, Description: "Romaine lettuce tossed in Caesar dressing, topped with croutons and parmesan shavings.", Image: "images/caesar-salad.jpg", Category: "salad"},
	{ID: "m4", Name: "Spaghetti Carbonara", Price: 10.99, Description: "Al dente spaghetti with a creamy sauce made from egg yolk, pecorino cheese, guanciale, and black pepper.", Image: "images/spaghetti-carbonara.jpg", Category: "pasta"},
	{ID: "m5", Name: "Veggie Burger", Price: 9.99, Description: "A delicious patty made from a blend of vegetables and beans, served with lettuce, tomato, and a special sauce.", Image: "images/veggie-burger.jpg", Category: "burger"},
	{ID: "m6", Name: "Grilled Chicken Sandwich", Price: 10.99, Description: "Tender grilled chicken breast with avocado, bacon, lettuce, and honey mustard on a toasted bun.", Image: "images/grilled-chicken-sandwich.jpg", Category: "other"},
	{ID: "m7", Name: "Steak Frites", Price: 17.99, Description: "Perfectly cooked steak served with crispy golden fries and a side of garlic aioli.", Image: "images/steak-frites.jpg", Category: "other"},
	{ID: "m8", Name: "Sushi Roll Platter", Price: 19.99, Description: "An assortment of fresh sushi rolls including California, Spicy Tuna, and Eel Avocado.", Image: "images/sushi-roll-platter.jpg", Category: "seafood"},
	{ID: "m9", Name: "Chocolate Brownie", Price: 5.99, Description: "A rich and indulgent chocolate brownie, served with a scoop of vanilla ice cream.", Image: "images/chocolate-brownie.jpg", Category: "dessert"},
}

// SeedMeals inserts the sample catalog when the meals table is empty. It
// reports how many rows were inserted.
func SeedMeals(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meals`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count meals: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, m := range sampleMeals {
		_, err := db.ExecContext(ctx,
			`INSERT INTO meals (id, name, price, description, image, category) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
			m.ID, m.Name, float64(m.Price), m.Description, m.Image, m.Category,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert meal %s: %w", m.ID, err)
		}
		inserted++
	}
	return inserted, nil
}
