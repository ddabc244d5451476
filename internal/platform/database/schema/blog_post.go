package schema

// RefPostTable represents the 'blog.post' table
type RefPostTable struct {
	Table      string
	ID         string
	Type       string
	Title      string
	Slug       string
	Body       string
	Excerpt    string
	Status     string
	CategoryID string
	ParentID   string
	CreatedOn  string
	UpdatedOn  string
}

// RefPost is the schema definition for blog.post
var RefPost = RefPostTable{
	Table:      "blog.post",
	ID:         "id",
	Type:       "type",
	Title:      "title",
	Slug:       "slug",
	Body:       "body",
	Excerpt:    "excerpt",
	Status:     "status",
	CategoryID: "categoryid",
	ParentID:   "parentid",
	CreatedOn:  "createdon",
	UpdatedOn:  "updatedon",
}

func (t RefPostTable) Columns() []string {
	return []string{t.ID, t.Type, t.Title, t.Slug, t.Body, t.Excerpt, t.Status, t.CategoryID, t.ParentID, t.CreatedOn, t.UpdatedOn}
}
