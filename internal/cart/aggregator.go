// Package cart merges the ingredients of every recipe in a user's shopping
// cart into a single shopping list.
package cart

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Line is one merged shopping list entry.
type Line struct {
	Name  string `db:"name"`
	Unit  string `db:"measurement_unit"`
	Total int64  `db:"total"`
}

// Aggregator sums ingredient amounts across the recipes in a cart. It runs a
// single grouped query instead of loading recipe aggregates through gorm.
type Aggregator struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

// New wraps db. The placeholder style follows db.DriverName().
func New(db *sqlx.DB) *Aggregator {
	var placeholder sq.PlaceholderFormat = sq.Question
	switch db.DriverName() {
	case "postgres", "pgx":
		placeholder = sq.Dollar
	}
	return &Aggregator{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// FromGorm shares the connection pool of an open gorm database.
func FromGorm(gdb *gorm.DB) (*Aggregator, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return New(sqlx.NewDb(sqlDB, gdb.Dialector.Name())), nil
}

// Query builds the aggregation statement for userID.
func (a *Aggregator) Query(userID uuid.UUID) (string, []interface{}, error) {
	return a.builder.
		Select("i.name", "i.measurement_unit", "SUM(ri.amount) AS total").
		From("recipe_ingredients ri").
		Join("ingredients i ON i.id = ri.ingredient_id").
		Join("shopping_cart_entries sc ON sc.recipe_id = ri.recipe_id").
		Where(sq.Eq{"sc.user_id": userID.String()}).
		GroupBy("i.name", "i.measurement_unit").
		OrderBy("i.name", "i.measurement_unit").
		ToSql()
}

// Aggregate returns the merged list ordered by name then unit. An empty cart
// yields an empty slice.
func (a *Aggregator) Aggregate(ctx context.Context, userID uuid.UUID) ([]Line, error) {
	query, args, err := a.Query(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build cart query: %w", err)
	}

	lines := []Line{}
	if err := a.db.SelectContext(ctx, &lines, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping cart: %w", err)
	}
	return lines, nil
}
