// Package domain holds the plain data records shared by the store, services and API.
package domain

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleUser is the default role for registered users.
	RoleUser Role = "user"
	// RoleAdmin grants administrative access.
	RoleAdmin Role = "admin"
)

// Field limits for user accounts.
const (
	EmailMaxLength     = 254
	UsernameMaxLength  = 150
	FirstNameMaxLength = 150
	LastNameMaxLength  = 150
	PasswordMaxLength  = 150
)

// User represents a registered account.
type User struct {
	Timestamps
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	Avatar       string `json:"avatar,omitempty"` // media key, empty when unset
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName returns the user's full name, composed from first and last names.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserProfile is a user as seen by another user.
type UserProfile struct {
	User
	IsSubscribed bool `json:"is_subscribed"`
}

// Subscription is a followed author with a preview of their recipes.
type Subscription struct {
	UserProfile
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int             `json:"recipes_count"`
}
