// Package routes builds the canonical relative URLs for blog resources.
//
// Every function here is a pure formatter over fixed templates: date parts
// are zero-padded, slugs and ids are substituted verbatim with no validation
// or re-encoding. Callers pass slugs that are already URL-safe.
package routes

import (
	"fmt"
	"time"
)

// PostLink returns the public link for a post, e.g. "/post/2018/09/09/my-post".
func PostLink(createdOn time.Time, slug string) string {
	return fmt.Sprintf("/post/%04d/%02d/%02d/%s", createdOn.Year(), createdOn.Month(), createdOn.Day(), slug)
}

// PostPreviewLink returns the draft preview link for a post.
func PostPreviewLink(createdOn time.Time, slug string) string {
	return "/preview" + PostLink(createdOn, slug)
}

// PostPermalink returns the id-based permanent link for a post.
func PostPermalink(id int) string {
	return fmt.Sprintf("/blog/post/%d", id)
}

// PostEditLink returns the admin compose link for a post.
func PostEditLink(id int) string {
	return fmt.Sprintf("/admin/compose/post/%d", id)
}

// CategoryLink returns the listing link for a category.
func CategoryLink(slug string) string {
	return "/blog/" + slug
}

// CategoryFeedLink returns the RSS feed link for a category.
func CategoryFeedLink(slug string) string {
	return "/blog/" + slug + "/feed"
}

// TagLink returns the listing link for a tag.
func TagLink(slug string) string {
	return "/posts/tagged/" + slug
}

// ArchiveLink returns the monthly archive link, e.g. "/posts/2018/09".
func ArchiveLink(year, month int) string {
	return fmt.Sprintf("/posts/%d/%02d", year, month)
}
