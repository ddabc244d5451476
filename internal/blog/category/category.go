package category

// Category groups posts under a single topic. Every post belongs to exactly
// one category; posts without an explicit one land in the default category.
type Category struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Note  string `json:"note,omitempty"`

	// Count is the number of published posts in this category, populated
	// by list queries.
	Count int `json:"count"`
}
