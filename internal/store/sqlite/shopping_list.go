package sqlite

import (
	"context"

	"github.com/foodgram/foodgram-server/internal/domain"
)

// ShoppingListLines sums the ingredient amounts of every recipe in the user's cart,
// grouped by (name, measurement unit) and ordered by name, ignoring case.
func (s *Store) ShoppingListLines(ctx context.Context, userID int64) ([]domain.ShoppingListLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.name, i.measurement_unit, SUM(ri.amount) AS total
		FROM shopping_cart sc
		JOIN recipe_ingredients ri ON ri.recipe_id = sc.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE sc.user_id = ?
		GROUP BY i.name, i.measurement_unit
		ORDER BY i.name COLLATE NOCASE, i.name, i.measurement_unit`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []domain.ShoppingListLine{}
	for rows.Next() {
		var line domain.ShoppingListLine
		if err := rows.Scan(&line.Name, &line.MeasurementUnit, &line.Amount); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
