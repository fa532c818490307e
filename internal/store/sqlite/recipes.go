package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/store"
)

// recipeColumns is the ordered list of columns selected in recipe queries.
// Must match the scan order in scanRecipe.
const recipeColumns = `id, author_id, name, text, image, image_blurhash, cooking_time, created_at, updated_at`

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var r domain.Recipe

	var (
		blurHash  sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.AuthorID,
		&r.Name,
		&r.Text,
		&r.Image,
		&blurHash,
		&r.CookingTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if blurHash.Valid {
		r.ImageBlurHash = blurHash.String
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateRecipe inserts a recipe with its tags and ingredients in one transaction and sets its ID.
func (s *Store) CreateRecipe(ctx context.Context, r *domain.Recipe, tagIDs []int64, items []domain.RecipeIngredient) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO recipes (
				author_id, name, text, image, image_blurhash, cooking_time, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.AuthorID,
			r.Name,
			r.Text,
			r.Image,
			nullString(r.ImageBlurHash),
			r.CookingTime,
			formatTime(r.CreatedAt),
			formatTime(r.UpdatedAt),
		)
		if err != nil {
			return mapConstraintError(err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}

		// Same path as update, so create and edit can never disagree.
		if err := replaceRecipeAssociations(ctx, tx, id, tagIDs, items); err != nil {
			return err
		}

		r.ID = id
		return nil
	})
}

// UpdateRecipe rewrites a recipe row and replaces its tags and ingredients in one transaction.
// After commit the recipe has exactly the given tags and ingredients.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) UpdateRecipe(ctx context.Context, r *domain.Recipe, tagIDs []int64, items []domain.RecipeIngredient) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE recipes SET
				name = ?,
				text = ?,
				image = ?,
				image_blurhash = ?,
				cooking_time = ?,
				updated_at = ?
			WHERE id = ?`,
			r.Name,
			r.Text,
			r.Image,
			nullString(r.ImageBlurHash),
			r.CookingTime,
			formatTime(r.UpdatedAt),
			r.ID,
		)
		if err != nil {
			return mapConstraintError(err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNotFound
		}

		return replaceRecipeAssociations(ctx, tx, r.ID, tagIDs, items)
	})
}

// replaceRecipeAssociations deletes every tag and ingredient row of a recipe and inserts the given ones.
func replaceRecipeAssociations(ctx context.Context, tx *sql.Tx, recipeID int64, tagIDs []int64, items []domain.RecipeIngredient) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("clear recipe tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}

	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`, recipeID, tagID); err != nil {
			return fmt.Errorf("insert recipe tag %d: %w", tagID, mapConstraintError(err))
		}
	}

	// position keeps the author's ingredient order.
	for pos, item := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount, position) VALUES (?, ?, ?, ?)`,
			recipeID, item.IngredientID, item.Amount, pos); err != nil {
			return fmt.Errorf("insert recipe ingredient %d: %w", item.IngredientID, mapConstraintError(err))
		}
	}

	return nil
}

// GetRecipe retrieves a recipe row by ID.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

// RecipeExists reports whether a recipe with the given id exists.
func (s *Store) RecipeExists(ctx context.Context, id int64) (bool, error) {
	found, err := s.existingIDs(ctx, "recipes", []int64{id})
	if err != nil {
		return false, err
	}
	return found[id], nil
}

// DeleteRecipe deletes a recipe; tags, ingredients, memberships and short links cascade.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) DeleteRecipe(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// recipeWhere builds the WHERE clause and arguments for a recipe filter.
func recipeWhere(f store.RecipeFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.AuthorID != 0 {
		conds = append(conds, `author_id = ?`)
		args = append(args, f.AuthorID)
	}

	if len(f.TagSlugs) > 0 {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = recipes.id AND t.slug IN (`+placeholders(len(f.TagSlugs))+`))`)
		for _, slug := range f.TagSlugs {
			args = append(args, slug)
		}
	}

	if f.ViewerID != 0 && f.FavoritedOnly {
		conds = append(conds, `EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = recipes.id AND f.user_id = ?)`)
		args = append(args, f.ViewerID)
	}

	if f.ViewerID != 0 && f.InCartOnly {
		conds = append(conds, `EXISTS (SELECT 1 FROM shopping_cart sc WHERE sc.recipe_id = recipes.id AND sc.user_id = ?)`)
		args = append(args, f.ViewerID)
	}

	if f.RecipeIDs != nil {
		conds = append(conds, `id IN (`+placeholders(len(f.RecipeIDs))+`)`)
		args = append(args, int64Args(f.RecipeIDs)...)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListRecipes returns one page of recipes matching the filter, newest first.
func (s *Store) ListRecipes(ctx context.Context, f store.RecipeFilter, params store.PageParams) (store.Page[*domain.Recipe], error) {
	params.Validate()
	page := store.Page[*domain.Recipe]{PageParams: params, Items: []*domain.Recipe{}}

	// An explicit empty id set (a search with no hits) matches nothing.
	if f.RecipeIDs != nil && len(f.RecipeIDs) == 0 {
		return page, nil
	}

	where, args := recipeWhere(f)

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`+where, args...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count recipes: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, params.Limit, params.Offset())...)
	if err != nil {
		return page, err
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return page, err
		}
		page.Items = append(page.Items, r)
	}
	return page, rows.Err()
}

// ListAllRecipes returns every recipe, newest first.
func (s *Store) ListAllRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// CountRecipes returns the total number of recipes.
func (s *Store) CountRecipes(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n)
	return n, err
}

// ListRecipesByAuthor returns an author's recipes newest first. A negative limit returns all of them.
func (s *Store) ListRecipesByAuthor(ctx context.Context, authorID int64, limit int) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE author_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		authorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// CountRecipesByAuthors returns recipe counts keyed by author id. Authors without recipes are omitted.
func (s *Store) CountRecipesByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT author_id, COUNT(*) FROM recipes WHERE author_id IN (`+placeholders(len(authorIDs))+`) GROUP BY author_id`,
		int64Args(authorIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			authorID int64
			n        int
		)
		if err := rows.Scan(&authorID, &n); err != nil {
			return nil, err
		}
		counts[authorID] = n
	}
	return counts, rows.Err()
}

// RecipeTags returns the tags of each recipe keyed by recipe id, ordered by tag name.
func (s *Store) RecipeTags(ctx context.Context, recipeIDs []int64) (map[int64][]domain.Tag, error) {
	tags := make(map[int64][]domain.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return tags, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rt.recipe_id, t.id, t.name, t.slug
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id IN (`+placeholders(len(recipeIDs))+`)
		ORDER BY t.name`,
		int64Args(recipeIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recipeID int64
			t        domain.Tag
		)
		if err := rows.Scan(&recipeID, &t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		tags[recipeID] = append(tags[recipeID], t)
	}
	return tags, rows.Err()
}

// RecipeIngredients returns the ingredients of each recipe keyed by recipe id, in submitted order.
func (s *Store) RecipeIngredients(ctx context.Context, recipeIDs []int64) (map[int64][]domain.IngredientAmount, error) {
	items := make(map[int64][]domain.IngredientAmount, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return items, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id IN (`+placeholders(len(recipeIDs))+`)
		ORDER BY ri.recipe_id, ri.position`,
		int64Args(recipeIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recipeID int64
			ia       domain.IngredientAmount
		)
		if err := rows.Scan(&recipeID, &ia.ID, &ia.Name, &ia.MeasurementUnit, &ia.Amount); err != nil {
			return nil, err
		}
		items[recipeID] = append(items[recipeID], ia)
	}
	return items, rows.Err()
}
