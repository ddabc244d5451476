// Copyright (c) 2026 Plume. All rights reserved.

// Package oembed rewrites third-party media placeholders in post bodies
// into inline playable markup.
//
// # Overview
//
// Rich-text editors store embedded media as <oembed url="..."> placeholders.
// At render time [Parse] classifies each placeholder's URL (YouTube, Vimeo,
// or unknown), extracts the provider's media identifier, and substitutes an
// iframe. The rewrite is best-effort: unknown or malformed URLs pass through
// unchanged and nothing here ever fails.
//
// # Compatibility
//
// Stored content depends on the exact markup and key-extraction quirks of
// the original engine, including HTML-entity ampersands ("&amp;") preserved
// verbatim and the legacy "t=" parameter rewritten to "start=" with its unit
// suffix intact. These behaviors are contractual; change nothing casually.
package oembed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Type tags the provider recognized in an embed URL.
type Type int

const (
	// TypeUnknown marks URLs no provider matched; they are left unrewritten.
	TypeUnknown Type = iota
	// TypeYouTube covers youtube.com watch/embed URLs and youtu.be short links.
	TypeYouTube
	// TypeVimeo covers vimeo.com URLs with a numeric (sign-tolerant) video id.
	TypeVimeo
)

// Default player dimensions when the URL carries no w/h parameters.
const (
	DefaultWidth  = 800
	DefaultHeight = 450
)

const (
	youTubeEmbedBase = "https://www.youtube.com/embed/"
	vimeoPlayerBase  = "https://player.vimeo.com/video/"
)

// placeholderPattern matches an <oembed url="..."></oembed> placeholder.
var placeholderPattern = regexp.MustCompile(`<oembed\s+url="([^"]*)"\s*>\s*</oembed>`)

// TypeOf classifies an embed URL by provider.
func TypeOf(rawURL string) Type {
	switch {
	case strings.Contains(rawURL, "youtube.com/watch") && strings.Contains(rawURL, "v="):
		return TypeYouTube
	case strings.Contains(rawURL, "youtube.com/embed/"), strings.Contains(rawURL, "youtu.be/"):
		return TypeYouTube
	case strings.Contains(rawURL, "vimeo.com/"):
		if _, ok := vimeoID(rawURL); ok {
			return TypeVimeo
		}
	}
	return TypeUnknown
}

// YouTubeKey extracts the video key from any supported YouTube URL shape.
//
// Watch URLs yield everything after "v=", embed URLs everything after
// "/embed/" — in both cases trailing query fragments stay part of the key
// and a legacy "t=" parameter becomes "start=" ("762s" suffix preserved,
// "&amp;" never decoded). Short youtu.be links yield path plus query
// verbatim, with no rewrite.
func YouTubeKey(rawURL string) string {
	if _, after, found := strings.Cut(rawURL, "youtu.be/"); found {
		return after
	}

	var key string
	switch {
	case strings.Contains(rawURL, "watch"):
		_, key, _ = strings.Cut(rawURL, "v=")
	case strings.Contains(rawURL, "/embed/"):
		_, key, _ = strings.Cut(rawURL, "/embed/")
	}

	if key == "" {
		return ""
	}

	// Boundary-anchored so an existing "start=" value is never corrupted.
	key = strings.ReplaceAll(key, "&amp;t=", "&amp;start=")
	key = strings.ReplaceAll(key, "&t=", "&start=")
	return key
}

// YouTubeEmbed builds the legacy inline-frame markup for a YouTube URL.
//
// The attribute spacing ("src =", "frameborder =") and the allow list text
// are byte-exact legacy output; stored render snapshots compare against it.
func YouTubeEmbed(rawURL string) string {
	src, width, height := youTubeSource(rawURL)
	return fmt.Sprintf(`<iframe width="%d" height="%d" src ="%s" frameborder ="0" allow="autoplay; encrypted - media" allowfullscreen></iframe>`,
		width, height, src)
}

// VimeoEmbed builds the legacy inline-frame markup for a Vimeo URL.
// It returns "" when the URL carries no numeric video id.
func VimeoEmbed(rawURL string) string {
	id, ok := vimeoID(rawURL)
	if !ok {
		return ""
	}
	return fmt.Sprintf(`<iframe width="%d" height="%d" src ="%s%d" frameborder ="0" webkitallowfullscreen mozallowfullscreen allowfullscreen></iframe>`,
		DefaultWidth, DefaultHeight, vimeoPlayerBase, id)
}

// Parse rewrites every embed placeholder in a post body, left to right.
//
// Substituted markup uses normalized attribute serialization (boolean
// attributes rendered as attr=""); any wrapper markup around the
// placeholder, such as a <figure> element, is preserved unchanged.
func Parse(body string) string {
	return placeholderPattern.ReplaceAllStringFunc(body, func(placeholder string) string {
		match := placeholderPattern.FindStringSubmatch(placeholder)
		if match == nil {
			return placeholder
		}
		rawURL := match[1]

		switch TypeOf(rawURL) {
		case TypeYouTube:
			src, width, height := youTubeSource(rawURL)
			if src == youTubeEmbedBase {
				return placeholder
			}
			return fmt.Sprintf(`<iframe width="%d" height="%d" src="%s" frameborder="0" allow="autoplay; encrypted - media" allowfullscreen=""></iframe>`,
				width, height, src)
		case TypeVimeo:
			id, _ := vimeoID(rawURL)
			return fmt.Sprintf(`<iframe width="%d" height="%d" src="%s%d" frameborder="0" webkitallowfullscreen="" mozallowfullscreen="" allowfullscreen=""></iframe>`,
				DefaultWidth, DefaultHeight, vimeoPlayerBase, id)
		default:
			return placeholder
		}
	})
}

// youTubeSource resolves the embed src URL and player dimensions for a
// YouTube URL.
//
// A key with an ampersand tail ("KEY&w=..&h=..&start=..") is split: the id
// is the part before the first '&', dimensions come from w/h, and a non-zero
// start becomes a "?start=N" suffix. Keys without a tail (including
// "KEY?t=254" short-link keys) are used verbatim.
func youTubeSource(rawURL string) (src string, width, height int) {
	key := YouTubeKey(rawURL)
	width, height = DefaultWidth, DefaultHeight

	id, tail, found := strings.Cut(key, "&")
	if !found {
		return youTubeEmbedBase + key, width, height
	}

	start := 0
	for _, pair := range strings.Split(tail, "&") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		switch name {
		case "w":
			width = n
		case "h":
			height = n
		case "start":
			start = n
		}
	}

	src = youTubeEmbedBase + id
	if start > 0 {
		src += "?start=" + strconv.Itoa(start)
	}
	return src, width, height
}

// vimeoID extracts the signed numeric video id from a Vimeo URL.
func vimeoID(rawURL string) (int, bool) {
	_, after, found := strings.Cut(rawURL, "vimeo.com/")
	if !found {
		return 0, false
	}

	segment := after
	if i := strings.IndexAny(segment, "/?&#"); i >= 0 {
		segment = segment[:i]
	}

	id, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return id, true
}
