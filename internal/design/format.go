// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

// Format identifies the target platform and aspect ratio of a design.
type Format string

const (
	FormatInstagramPost  Format = "instagram_post"
	FormatInstagramStory Format = "instagram_story"
	FormatFacebookPost   Format = "facebook_post"
	FormatTwitterPost    Format = "twitter_post"
	FormatLinkedInPost   Format = "linkedin_post"
)

// DefaultFormat is used when a brief does not name one.
const DefaultFormat = FormatInstagramPost

// formatSpec pairs a format with its canonical canvas and a display label.
type formatSpec struct {
	format Format
	label  string
	width  int
	height int
	ratio  string
}

// formats is ordered so prompts list the platforms consistently.
var formats = []formatSpec{
	{FormatInstagramPost, "Instagram Post", 1080, 1080, "1:1"},
	{FormatInstagramStory, "Instagram Story", 1080, 1920, "9:16"},
	{FormatFacebookPost, "Facebook Post", 1200, 630, "1.91:1"},
	{FormatTwitterPost, "Twitter Post", 1200, 675, "16:9"},
	{FormatLinkedInPost, "LinkedIn Post", 1200, 627, "1.91:1"},
}

// Formats returns every supported format in display order.
func Formats() []Format {
	out := make([]Format, len(formats))
	for i, f := range formats {
		out[i] = f.format
	}
	return out
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	_, ok := lookupFormat(f)
	return ok
}

// Label returns a human-readable name such as "Instagram Post".
func (f Format) Label() string {
	if s, ok := lookupFormat(f); ok {
		return s.label
	}
	return string(f)
}

// AspectRatio returns the canonical aspect ratio, e.g. "9:16".
func (f Format) AspectRatio() string {
	if s, ok := lookupFormat(f); ok {
		return s.ratio
	}
	return "1:1"
}

// CanvasFor returns the canonical canvas for a format. Unknown formats get
// the square Instagram post canvas.
func CanvasFor(f Format) Canvas {
	s, ok := lookupFormat(f)
	if !ok {
		s = formats[0]
	}
	return Canvas{Width: s.width, Height: s.height, Unit: "px"}
}

func lookupFormat(f Format) (formatSpec, bool) {
	for _, s := range formats {
		if s.format == f {
			return s, true
		}
	}
	return formatSpec{}, false
}
