package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/store"
)

// membershipTable returns the table and target column backing a membership kind.
func membershipTable(kind domain.MembershipKind) (table, targetCol string, err error) {
	switch kind {
	case domain.MembershipFavorite:
		return "favorites", "recipe_id", nil
	case domain.MembershipShoppingCart:
		return "shopping_cart", "recipe_id", nil
	case domain.MembershipFollow:
		return "follows", "following_id", nil
	}
	return "", "", fmt.Errorf("unknown membership kind %q", kind)
}

// AddMembership inserts a (user, target) row into the kind's table.
// The UNIQUE pair constraint is the only duplicate check: a second insert
// returns store.ErrAlreadyExists. A self-follow returns store.ErrConstraint.
func (s *Store) AddMembership(ctx context.Context, m *domain.Membership) error {
	table, targetCol, err := membershipTable(m.Kind)
	if err != nil {
		return err
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (user_id, `+targetCol+`, created_at) VALUES (?, ?, ?)`,
		m.UserID, m.TargetID, formatTime(m.CreatedAt))
	return mapConstraintError(err)
}

// RemoveMembership deletes a (user, target) row from the kind's table.
// Returns store.ErrNotFound if no such row existed.
func (s *Store) RemoveMembership(ctx context.Context, kind domain.MembershipKind, userID, targetID int64) error {
	table, targetCol, err := membershipTable(kind)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE user_id = ? AND `+targetCol+` = ?`, userID, targetID)
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

// MembershipTargets returns which of targetIDs are in the user's collection of the given kind.
func (s *Store) MembershipTargets(ctx context.Context, kind domain.MembershipKind, userID int64, targetIDs []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return found, nil
	}

	table, targetCol, err := membershipTable(kind)
	if err != nil {
		return nil, err
	}

	args := append([]any{userID}, int64Args(targetIDs)...)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+targetCol+` FROM `+table+` WHERE user_id = ? AND `+targetCol+` IN (`+placeholders(len(targetIDs))+`)`,
		args...)
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

// CountMemberships returns how many rows the user has in the kind's table.
func (s *Store) CountMemberships(ctx context.Context, kind domain.MembershipKind, userID int64) (int, error) {
	table, _, err := membershipTable(kind)
	if err != nil {
		return 0, err
	}

	var n int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// ListFollowing returns one page of the users that userID follows, ordered by id.
func (s *Store) ListFollowing(ctx context.Context, userID int64, params store.PageParams) (store.Page[*domain.User], error) {
	params.Validate()
	page := store.Page[*domain.User]{PageParams: params, Items: []*domain.User{}}

	total, err := s.CountMemberships(ctx, domain.MembershipFollow, userID)
	if err != nil {
		return page, fmt.Errorf("count follows: %w", err)
	}
	page.Total = total

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("u", userColumns)+`
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.user_id = ?
		ORDER BY u.id
		LIMIT ? OFFSET ?`,
		userID, params.Limit, params.Offset())
	if err != nil {
		return page, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return page, err
		}
		page.Items = append(page.Items, u)
	}
	return page, rows.Err()
}
