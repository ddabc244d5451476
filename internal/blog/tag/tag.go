package tag

// Tag is a free-form label applied to posts. A post can carry any number of
// tags; tags are flat (no hierarchy).
type Tag struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Note  string `json:"note,omitempty"`

	// Count is the number of published posts carrying this tag, populated
	// by list queries.
	Count int `json:"count"`
}
