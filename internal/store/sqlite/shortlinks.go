package sqlite

import (
	"context"

	"github.com/foodgram/foodgram-server/internal/domain"
)

const shortLinkColumns = `code, recipe_id, created_at`

func scanShortLink(scanner interface{ Scan(dest ...any) error }) (*domain.ShortLink, error) {
	var (
		l         domain.ShortLink
		createdAt string
	)
	if err := scanner.Scan(&l.Code, &l.RecipeID, &createdAt); err != nil {
		return nil, err
	}

	var err error
	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateShortLink stores a code for a recipe.
// Returns store.ErrAlreadyExists if the code is taken or the recipe already has a code.
func (s *Store) CreateShortLink(ctx context.Context, l *domain.ShortLink) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO short_links (code, recipe_id, created_at) VALUES (?, ?, ?)`,
		l.Code, l.RecipeID, formatTime(l.CreatedAt))
	return mapConstraintError(err)
}

// GetShortLink retrieves a short link by code.
// Returns store.ErrNotFound if the code is unknown.
func (s *Store) GetShortLink(ctx context.Context, code string) (*domain.ShortLink, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shortLinkColumns+` FROM short_links WHERE code = ?`, code)
	l, err := scanShortLink(row)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

// GetShortLinkByRecipe retrieves the short link of a recipe.
// Returns store.ErrNotFound if the recipe has no code yet.
func (s *Store) GetShortLinkByRecipe(ctx context.Context, recipeID int64) (*domain.ShortLink, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shortLinkColumns+` FROM short_links WHERE recipe_id = ?`, recipeID)
	l, err := scanShortLink(row)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}
