package store

// RecipeFilter narrows a recipe listing. Zero values mean "no restriction".
type RecipeFilter struct {
	// TagSlugs keeps recipes carrying at least one of the tags.
	TagSlugs []string
	AuthorID int64
	// ViewerID scopes FavoritedOnly and InCartOnly; both are ignored when it is zero.
	ViewerID      int64
	FavoritedOnly bool
	InCartOnly    bool
	// RecipeIDs restricts the listing to these ids when non-nil (full-text search hits).
	RecipeIDs []int64
}
