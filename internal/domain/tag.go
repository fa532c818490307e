package domain

// Tag categorizes recipes (breakfast, lunch, ...). Tags are reference data managed by admins.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
