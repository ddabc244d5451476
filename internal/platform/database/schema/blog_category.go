package schema

// RefCategoryTable represents the 'blog.category' table
type RefCategoryTable struct {
	Table string
	ID    string
	Title string
	Slug  string
	Note  string
}

// RefCategory is the schema definition for blog.category
var RefCategory = RefCategoryTable{
	Table: "blog.category",
	ID:    "id",
	Title: "title",
	Slug:  "slug",
	Note:  "note",
}

func (t RefCategoryTable) Columns() []string { return []string{t.ID, t.Title, t.Slug, t.Note} }
