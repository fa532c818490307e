package domain

import "time"

// MembershipKind names a user-scoped collection.
type MembershipKind string

const (
	// MembershipFavorite is the user's favorite recipes.
	MembershipFavorite MembershipKind = "favorite"
	// MembershipShoppingCart is the user's shopping cart of recipes.
	MembershipShoppingCart MembershipKind = "shopping_cart"
	// MembershipFollow is the set of authors the user follows.
	MembershipFollow MembershipKind = "follow"
)

// Valid reports whether k is a known kind.
func (k MembershipKind) Valid() bool {
	switch k {
	case MembershipFavorite, MembershipShoppingCart, MembershipFollow:
		return true
	}
	return false
}

// TargetsRecipe reports whether members of this collection are recipes (otherwise users).
func (k MembershipKind) TargetsRecipe() bool {
	return k == MembershipFavorite || k == MembershipShoppingCart
}

// Membership records that a user added a target to one of their collections.
type Membership struct {
	Kind      MembershipKind `json:"kind"`
	UserID    int64          `json:"user_id"`
	TargetID  int64          `json:"target_id"`
	CreatedAt time.Time      `json:"created_at"`
}
