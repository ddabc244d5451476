// Copyright (c) 2026 Plume. All rights reserved.

/*
Package settings persists runtime-configurable site settings.

Unlike environment configuration (see the config package), these values are
editable by an administrator while the server is running: the site title, the
default category for uncategorized posts, how many posts show per page.

Each settings group is stored as a single JSON document in the core.meta
key/value table and cached under a "settings:" key until the next save.
*/
package settings

import "time"

// # Settings Groups

// CoreSettingsName is the meta key for [CoreSettings].
const CoreSettingsName = "coresettings"

// BlogSettingsName is the meta key for [BlogSettings].
const BlogSettingsName = "blogsettings"

// CoreSettings holds site-wide identity settings.
type CoreSettings struct {
	Title      string `json:"title"`
	Tagline    string `json:"tagline"`
	TimeZoneID string `json:"time_zone_id"`
}

// DefaultCoreSettings returns the values used before an admin configures the site.
func DefaultCoreSettings() CoreSettings {
	return CoreSettings{
		Title:      "Plume",
		Tagline:    "A fresh blog",
		TimeZoneID: "UTC",
	}
}

// BlogSettings holds content-layer settings.
type BlogSettings struct {
	// PostsPerPage controls index and archive pagination.
	PostsPerPage int `json:"posts_per_page"`

	// DefaultCategoryID receives posts whose category was deleted. The
	// category with this ID can never be deleted itself.
	DefaultCategoryID int `json:"default_category_id"`

	// EmbedWidth and EmbedHeight size media embeds when the source URL
	// carries no explicit dimensions.
	EmbedWidth  int `json:"embed_width"`
	EmbedHeight int `json:"embed_height"`
}

// DefaultBlogSettings returns the values used before an admin configures the blog.
func DefaultBlogSettings() BlogSettings {
	return BlogSettings{
		PostsPerPage:      10,
		DefaultCategoryID: 1,
		EmbedWidth:        800,
		EmbedHeight:       450,
	}
}

// # Storage Entity

// Meta is a single row in the core.meta key/value table.
type Meta struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedOn time.Time `json:"updated_on"`
}
