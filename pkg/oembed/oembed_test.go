// Copyright (c) 2026 Plume. All rights reserved.

package oembed_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plumehq/plume/pkg/oembed"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want oembed.Type
	}{
		{"watch_url", "https://www.youtube.com/watch?v=M6T6CSiJv-A", oembed.TypeYouTube},
		{"short_url", "https://youtu.be/M6T6CSiJv-A", oembed.TypeYouTube},
		{"watch_url_with_params", "https://www.youtube.com/watch?v=M6T6CSiJv-A&w=800&h=400&start=75", oembed.TypeYouTube},
		{"short_url_with_time", "https://youtu.be/M6T6CSiJv-A?t=254", oembed.TypeYouTube},
		{"embed_url", "https://www.youtube.com/embed/M6T6CSiJv-A", oembed.TypeYouTube},
		{"vimeo_url", "https://vimeo.com/1084537", oembed.TypeVimeo},
		{"vimeo_negative_id", "https://vimeo.com/-106947229", oembed.TypeVimeo},
		{"vimeo_non_numeric", "https://vimeo.com/about", oembed.TypeUnknown},
		{"unrelated_host", "https://example.com/watch?v=abc", oembed.TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, oembed.TypeOf(tt.url))
		})
	}
}

/*
TestYouTubeKey verifies key extraction across URL shapes, including the
legacy "t=" to "start=" rewrite with entity-encoded ampersands preserved.
*/
func TestYouTubeKey(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch_with_params", "https://www.youtube.com/watch?v=M6T6CSiJv-A&w=800&h=400&start=75", "M6T6CSiJv-A&w=800&h=400&start=75"},
		{"watch_with_legacy_t", "https://www.youtube.com/watch?v=M6T6CSiJv-A&t=762s", "M6T6CSiJv-A&start=762s"},
		{"embed_with_entity_t", "https://www.youtube.com/embed/M6T6CSiJv-A&amp;t=726s", "M6T6CSiJv-A&amp;start=726s"},
		{"short_link", "https://youtu.be/M6T6CSiJv-A", "M6T6CSiJv-A"},
		{"short_link_with_time", "https://youtu.be/M6T6CSiJv-A?t=254", "M6T6CSiJv-A?t=254"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, oembed.YouTubeKey(tt.url))
		})
	}
}

func TestYouTubeEmbed(t *testing.T) {
	tests := []struct {
		name string
		url  string
		id   string
	}{
		{"watch", "https://www.youtube.com/watch?v=M6T6CSiJv-A", "M6T6CSiJv-A"},
		{"embed", "https://www.youtube.com/embed/M6T6CSiJv-A", "M6T6CSiJv-A"},
		{"short", "https://youtu.be/M6T6CSiJv-A", "M6T6CSiJv-A"},
		{"short_with_time", "https://youtu.be/M6T6CSiJv-A?t=254", "M6T6CSiJv-A?t=254"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := `<iframe width="800" height="450" src ="https://www.youtube.com/embed/` + tt.id +
				`" frameborder ="0" allow="autoplay; encrypted - media" allowfullscreen></iframe>`
			assert.Equal(t, want, oembed.YouTubeEmbed(tt.url))
		})
	}
}

func TestYouTubeEmbed_Dimensions(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		width  int
		height int
		start  int
	}{
		{"explicit_start", "https://www.youtube.com/watch?v=M6T6CSiJv-A&w=800&h=400&start=75", 800, 400, 75},
		{"zero_start_omitted", "https://www.youtube.com/watch?v=M6T6CSiJv-A&w=560&h=315&start=0", 560, 315, 0},
		{"large_player", "https://www.youtube.com/watch?v=M6T6CSiJv-A&w=1920&h=1080&start=900", 1920, 1080, 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "https://www.youtube.com/embed/M6T6CSiJv-A"
			if tt.start != 0 {
				src = fmtStart(src, tt.start)
			}
			want := fmtIframe(tt.width, tt.height, src)
			assert.Equal(t, want, oembed.YouTubeEmbed(tt.url))
		})
	}
}

func TestVimeoEmbed(t *testing.T) {
	tests := []struct {
		name string
		url  string
		id   string
	}{
		{"plain_id", "https://vimeo.com/451993692", "451993692"},
		{"another_id", "https://vimeo.com/106947229", "106947229"},
		{"signed_id", "https://vimeo.com/-106947229", "-106947229"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := `<iframe width="800" height="450" src ="https://player.vimeo.com/video/` + tt.id +
				`" frameborder ="0" webkitallowfullscreen mozallowfullscreen allowfullscreen></iframe>`
			assert.Equal(t, want, oembed.VimeoEmbed(tt.url))
		})
	}
}

/*
TestParse rewrites placeholders inside figure wrappers, preserving the
wrapper and serializing boolean attributes in normalized form.
*/
func TestParse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"youtube_figure",
			`<figure class="media"><oembed url="https://www.youtube.com/watch?v=M6T6CSiJv-A"></oembed></figure>`,
			`<figure class="media"><iframe width="800" height="450" src="https://www.youtube.com/embed/M6T6CSiJv-A" frameborder="0" allow="autoplay; encrypted - media" allowfullscreen=""></iframe></figure>`,
		},
		{
			"vimeo_figure",
			`<figure class="media"><oembed url="https://vimeo.com/451993692"></oembed></figure>`,
			`<figure class="media"><iframe width="800" height="450" src="https://player.vimeo.com/video/451993692" frameborder="0" webkitallowfullscreen="" mozallowfullscreen="" allowfullscreen=""></iframe></figure>`,
		},
		{
			"unknown_provider_passes_through",
			`<figure class="media"><oembed url="https://example.com/clip/9"></oembed></figure>`,
			`<figure class="media"><oembed url="https://example.com/clip/9"></oembed></figure>`,
		},
		{
			"no_placeholder",
			`<p>plain text</p>`,
			`<p>plain text</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, oembed.Parse(tt.body))
		})
	}
}

func TestParse_MultiplePlaceholders(t *testing.T) {
	body := `<p>intro</p>` +
		`<figure class="media"><oembed url="https://youtu.be/M6T6CSiJv-A"></oembed></figure>` +
		`<p>middle</p>` +
		`<figure class="media"><oembed url="https://vimeo.com/1084537"></oembed></figure>`

	got := oembed.Parse(body)

	assert.Contains(t, got, `src="https://www.youtube.com/embed/M6T6CSiJv-A"`)
	assert.Contains(t, got, `src="https://player.vimeo.com/video/1084537"`)
	assert.Contains(t, got, "<p>intro</p>")
	assert.Contains(t, got, "<p>middle</p>")
	assert.NotContains(t, got, "<oembed")
}

// fmtIframe builds the expected legacy YouTube markup for a given geometry.
func fmtIframe(width, height int, src string) string {
	return fmt.Sprintf(`<iframe width="%d" height="%d" src ="%s" frameborder ="0" allow="autoplay; encrypted - media" allowfullscreen></iframe>`,
		width, height, src)
}

func fmtStart(src string, start int) string {
	return fmt.Sprintf("%s?start=%d", src, start)
}
