package post

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/plumehq/plume/internal/platform/validate"
)

// TitleMaxLen is the maximum post title length in characters.
const TitleMaxLen = 250

// Type discriminates blog posts from pages in the shared post table.
type Type string

const (
	TypePost Type = "post"
	TypePage Type = "page"
)

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Post is a blog post or a page, discriminated by [Type].
type Post struct {
	ID      int    `json:"id"`
	Type    Type   `json:"type"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Body    string `json:"body"`
	Excerpt string `json:"excerpt,omitempty"`
	Status  Status `json:"status"`

	// CategoryID applies to posts only.
	CategoryID int `json:"category_id,omitempty"`

	// ParentID applies to pages only; child pages live under a parent slug.
	ParentID int `json:"parent_id,omitempty"`

	// TagIDs applies to posts only.
	TagIDs []int `json:"tag_ids,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`

	// BodyRendered is the body with media embed placeholders rewritten to
	// iframes. Populated on reads, never stored.
	BodyRendered string `json:"body_rendered,omitempty"`
}

// ValidateTitle enforces the title rules for the post's status.
//
// A published post must have a non-empty title; drafts may leave it blank.
// Either way the title cannot exceed [TitleMaxLen] characters.
func (p *Post) ValidateTitle() error {
	v := &validate.Validator{}

	v.Custom("Title",
		p.Status == StatusPublished && strings.TrimSpace(p.Title) == "",
		"'Title' must not be empty.")

	if n := utf8.RuneCountInString(p.Title); n > TitleMaxLen {
		v.Custom("Title", true,
			fmt.Sprintf("The length of 'Title' must be %d characters or fewer. You entered %d characters.", TitleMaxLen, n))
	}

	return v.Err()
}
