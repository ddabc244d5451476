package schema

// RefTagTable represents the 'blog.tag' table
type RefTagTable struct {
	Table string
	ID    string
	Title string
	Slug  string
	Note  string
}

// RefTag is the schema definition for blog.tag
var RefTag = RefTagTable{
	Table: "blog.tag",
	ID:    "id",
	Title: "title",
	Slug:  "slug",
	Note:  "note",
}

func (t RefTagTable) Columns() []string { return []string{t.ID, t.Title, t.Slug, t.Note} }

// RefPostTagTable represents the 'blog.post_tag' join table
type RefPostTagTable struct {
	Table  string
	PostID string
	TagID  string
}

// RefPostTag is the schema definition for blog.post_tag
var RefPostTag = RefPostTagTable{
	Table:  "blog.post_tag",
	PostID: "postid",
	TagID:  "tagid",
}
