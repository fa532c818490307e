package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodgram/foodgram-server/internal/domain"
)

const ingredientColumns = `id, name, measurement_unit`

func scanIngredient(scanner interface{ Scan(dest ...any) error }) (*domain.Ingredient, error) {
	var i domain.Ingredient
	if err := scanner.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
		return nil, err
	}
	return &i, nil
}

// CreateIngredient inserts a new ingredient and sets its ID.
// Returns store.ErrAlreadyExists if the (name, unit) pair exists.
func (s *Store) CreateIngredient(ctx context.Context, i *domain.Ingredient) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO ingredients (name, measurement_unit) VALUES (?, ?)`, i.Name, i.MeasurementUnit)
	if err != nil {
		return mapConstraintError(err)
	}
	i.ID, err = result.LastInsertId()
	return err
}

// GetIngredient retrieves an ingredient by ID.
// Returns store.ErrNotFound if the ingredient does not exist.
func (s *Store) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id)
	i, err := scanIngredient(row)
	if err != nil {
		return nil, notFound(err)
	}
	return i, nil
}

// ListIngredients returns every ingredient ordered by name.
func (s *Store) ListIngredients(ctx context.Context) ([]*domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients ORDER BY name, measurement_unit`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []*domain.Ingredient{}
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

// ExistingIngredientIDs returns the subset of ids that refer to existing ingredients.
func (s *Store) ExistingIngredientIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	return s.existingIDs(ctx, "ingredients", ids)
}

// ImportIngredients inserts ingredients, skipping (name, unit) pairs that already exist.
// Returns the number of rows inserted.
func (s *Store) ImportIngredients(ctx context.Context, ingredients []*domain.Ingredient) (int, error) {
	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO ingredients (name, measurement_unit) VALUES (?, ?) ON CONFLICT DO NOTHING`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, i := range ingredients {
			result, err := stmt.ExecContext(ctx, i.Name, i.MeasurementUnit)
			if err != nil {
				return fmt.Errorf("insert ingredient %q: %w", i.Name, err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	return inserted, err
}
