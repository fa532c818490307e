package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, email, username, first_name, last_name, password_hash, role, avatar, created_at, updated_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		role      string
		avatar    sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&role,
		&avatar,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Role = domain.Role(role)
	if avatar.Valid {
		u.Avatar = avatar.String
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// userUniqueError names the column behind a UNIQUE failure on the users table.
func userUniqueError(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	if strings.Contains(msg, "users.username") {
		return store.ErrAlreadyExists.WithMessage("username already taken").WithCause(err)
	}
	return store.ErrAlreadyExists.WithMessage("email already registered").WithCause(err)
}

// CreateUser inserts a new user and sets its ID.
// Returns store.ErrAlreadyExists if the email (case-insensitive) or username is taken.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if u.Role == "" {
		u.Role = domain.RoleUser
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			email, email_lower, username, first_name, last_name,
			password_hash, role, avatar, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Email,
		strings.ToLower(u.Email),
		u.Username,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		string(u.Role),
		nullString(u.Avatar),
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		return userUniqueError(err)
	}

	u.ID, err = result.LastInsertId()
	return err
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
// Returns store.ErrNotFound if no user has that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ?`, strings.ToLower(email))

	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// UpdateUser performs a full row update on an existing user.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			email = ?,
			email_lower = ?,
			username = ?,
			first_name = ?,
			last_name = ?,
			password_hash = ?,
			role = ?,
			avatar = ?,
			updated_at = ?
		WHERE id = ?`,
		u.Email,
		strings.ToLower(u.Email),
		u.Username,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		string(u.Role),
		nullString(u.Avatar),
		formatTime(u.UpdatedAt),
		u.ID,
	)
	if err != nil {
		return userUniqueError(err)
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

// ListUsers returns one page of users ordered by id.
func (s *Store) ListUsers(ctx context.Context, params store.PageParams) (store.Page[*domain.User], error) {
	params.Validate()
	page := store.Page[*domain.User]{PageParams: params}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count users: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`,
		params.Limit, params.Offset())
	if err != nil {
		return page, err
	}
	defer rows.Close()

	page.Items = make([]*domain.User, 0, params.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return page, err
		}
		page.Items = append(page.Items, u)
	}
	return page, rows.Err()
}

// GetUsersByIDs returns the users with the given ids keyed by id. Missing ids are omitted.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	users := make(map[int64]*domain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders(len(ids))+`)`,
		int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users[u.ID] = u
	}
	return users, rows.Err()
}

// UserExists reports whether a user with the given id exists.
func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
