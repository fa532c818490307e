package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodgram/foodgram-server/internal/domain"
)

const tagColumns = `id, name, slug`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag
	if err := scanner.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts a new tag and sets its ID.
// Returns store.ErrAlreadyExists if the name or slug is taken.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (name, slug) VALUES (?, ?)`, t.Name, t.Slug)
	if err != nil {
		return mapConstraintError(err)
	}
	t.ID, err = result.LastInsertId()
	return err
}

// GetTag retrieves a tag by ID.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)
	t, err := scanTag(row)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ExistingTagIDs returns the subset of ids that refer to existing tags.
func (s *Store) ExistingTagIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	return s.existingIDs(ctx, "tags", ids)
}

// ImportTags inserts tags, skipping any whose name or slug already exists.
// Returns the number of rows inserted.
func (s *Store) ImportTags(ctx context.Context, tags []*domain.Tag) (int, error) {
	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO tags (name, slug) VALUES (?, ?) ON CONFLICT DO NOTHING`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range tags {
			result, err := stmt.ExecContext(ctx, t.Name, t.Slug)
			if err != nil {
				return fmt.Errorf("insert tag %q: %w", t.Slug, err)
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

// existingIDs returns which of ids are present in table.
func (s *Store) existingIDs(ctx context.Context, table string, ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM `+table+` WHERE id IN (`+placeholders(len(ids))+`)`, int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	return found, rows.Err()
}
