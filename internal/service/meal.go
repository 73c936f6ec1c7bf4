package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"foodorder/internal/model"
)

const uniqueViolation = "23505"

type MealService struct {
	db *sql.DB
}

func NewMealService(db *sql.DB) *MealService {
	return &MealService{db: db}
}

func (s *MealService) List(ctx context.Context) ([]model.Meal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, description, image, category FROM meals ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	defer rows.Close()

	meals := make([]model.Meal, 0)
	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.Description, &m.Image, &m.Category); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return meals, nil
}

// Create inserts a meal, generating an id when none is given.
func (s *MealService) Create(ctx context.Context, m model.Meal) (*model.Meal, error) {
	m = normalizeMeal(m)
	if err := validateMeal(m); err != nil {
		return nil, err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meals (id, name, price, description, image, category) VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Name, float64(m.Price), m.Description, m.Image, m.Category,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrMealExists
		}
		return nil, fmt.Errorf("insert meal: %w", err)
	}

	return &m, nil
}

func (s *MealService) Update(ctx context.Context, id string, m model.Meal) (*model.Meal, error) {
	m = normalizeMeal(m)
	m.ID = id
	if err := validateMeal(m); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE meals SET name = $1, price = $2, description = $3, image = $4, category = $5 WHERE id = $6`,
		m.Name, float64(m.Price), m.Description, m.Image, m.Category, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}
	if err := expectOneRow(res, ErrMealNotFound); err != nil {
		return nil, err
	}

	return &m, nil
}

func (s *MealService) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return expectOneRow(res, ErrMealNotFound)
}

func normalizeMeal(m model.Meal) model.Meal {
	m.ID = strings.TrimSpace(m.ID)
	m.Name = strings.TrimSpace(m.Name)
	m.Category = strings.ToLower(strings.TrimSpace(m.Category))
	if m.Category == "" {
		m.Category = model.DefaultCategory
	}
	return m
}

func validateMeal(m model.Meal) error {
	var fields []string
	if m.Name == "" {
		fields = append(fields, "name")
	}
	if !(m.Price > 0) {
		fields = append(fields, "price")
	}
	if len(fields) > 0 {
		return missing(fields...)
	}
	return nil
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
