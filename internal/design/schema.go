// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

import "encoding/json"

// Schema describes the shape of the structured output expected from a
// text-generation provider. It is the subset of JSON Schema that every
// supported provider understands (no $ref, no oneOf).
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Nullable    bool               `json:"nullable,omitempty"`

	// Name labels the schema for providers that want a named output format.
	Name string `json:"-"`
}

// Schema types.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

// JSON renders the schema as indented JSON for embedding in prompts.
func (s *Schema) JSON() string {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func str(desc string) *Schema { return &Schema{Type: TypeString, Description: desc} }
func num(desc string) *Schema { return &Schema{Type: TypeNumber, Description: desc} }
func integer(desc string) *Schema {
	return &Schema{Type: TypeInteger, Description: desc}
}
func boolean(desc string) *Schema { return &Schema{Type: TypeBoolean, Description: desc} }

func enum(desc string, values ...string) *Schema {
	return &Schema{Type: TypeString, Description: desc, Enum: values}
}

func object(desc string, props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Description: desc, Properties: props, Required: required}
}

func array(desc string, items *Schema) *Schema {
	return &Schema{Type: TypeArray, Description: desc, Items: items}
}

func formatValues() []string {
	fs := Formats()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}

// BriefSchema is the expected output shape of the brief stage.
func BriefSchema() *Schema {
	s := object("Structured design brief generated from a user prompt", map[string]*Schema{
		"headline":     str("Main headline text for the design (max 6 words)"),
		"subheadline":  str("Supporting subheadline text, if applicable"),
		"visual_focus": array("Key visual elements to emphasize", str("")),
		"layout_style": str("Layout approach, e.g. modern, minimal, bold, elegant, playful"),
		"color_scheme": object("Color palette as hex codes", map[string]*Schema{
			"primary":   str("Primary color (hex)"),
			"secondary": str("Secondary color (hex)"),
			"accent":    str("Accent color (hex)"),
		}, "primary", "secondary", "accent"),
		"format": enum("Design format", formatValues()...),
	}, "headline", "visual_focus", "layout_style", "color_scheme", "format")
	s.Name = "design_brief"
	return s
}

// DesignSchema is the expected output shape of the design stage.
func DesignSchema() *Schema {
	position := object("Position and transform in canvas pixels", map[string]*Schema{
		"x":        num("X coordinate from the left edge"),
		"y":        num("Y coordinate from the top edge"),
		"width":    num("Width in pixels"),
		"height":   num("Height in pixels"),
		"rotation": num("Rotation in degrees (0-360)"),
		"z_index":  integer("Stacking order, higher is on top"),
		"origin_x": enum("Horizontal transform origin", "left", "center", "right"),
		"origin_y": enum("Vertical transform origin", "top", "center", "bottom"),
	}, "x", "y", "width", "height", "z_index")

	effects := object("Visual effects", map[string]*Schema{
		"opacity":    num("Layer opacity (0-1)"),
		"blend_mode": enum("Blend mode", "normal", "multiply", "screen", "overlay", "darken", "lighten"),
		"shadow": object("Drop shadow", map[string]*Schema{
			"offset_x": num("Horizontal offset"),
			"offset_y": num("Vertical offset"),
			"blur":     num("Blur radius"),
			"color":    str("Shadow color (hex or rgba)"),
			"opacity":  num("Shadow opacity (0-1)"),
		}, "offset_x", "offset_y", "blur", "color"),
		"stroke": object("Stroke", map[string]*Schema{
			"color":    str("Stroke color"),
			"width":    num("Stroke width"),
			"position": enum("Stroke position", "inside", "center", "outside"),
		}, "color", "width"),
	})

	text := object("Typography for text layers", map[string]*Schema{
		"content":         str("The text content"),
		"font_family":     str("Font family name"),
		"font_size":       num("Font size in pixels"),
		"font_weight":     integer("Font weight (100-900)"),
		"line_height":     num("Line height multiplier"),
		"letter_spacing":  num("Letter spacing in pixels"),
		"text_align":      enum("Alignment", "left", "center", "right", "justify"),
		"color":           str("Text color (hex or rgba)"),
		"text_transform":  enum("Transform", "none", "uppercase", "lowercase", "capitalize"),
		"text_decoration": enum("Decoration", "none", "underline", "line-through"),
	}, "content", "font_family", "font_size", "color")

	image := object("Image source and fit for image layers", map[string]*Schema{
		"role":     enum("Semantic role", "product", "person", "background", "logo", "icon", "decoration", "complex_text"),
		"asset_id": str("Reference to an uploaded asset"),
		"generation_prompt": object("Prompt for AI image generation", map[string]*Schema{
			"prompt":                  str("Detailed image generation prompt"),
			"negative_prompt":         str("Elements to avoid"),
			"style_modifiers":         array("Style keywords", str("")),
			"quality_modifiers":       array("Quality keywords", str("")),
			"aspect_ratio":            str("Aspect ratio, e.g. 1:1, 16:9, 9:16"),
			"requires_transparent_bg": boolean("Whether the image needs a transparent background"),
		}, "prompt", "aspect_ratio"),
		"url": str("Direct image URL"),
		"fit": enum("How the image fits its bounds", "fill", "contain", "cover", "scale-down"),
	}, "role")

	shape := object("Shape styling for shape layers", map[string]*Schema{
		"shape_type":    enum("Shape type", "rectangle", "circle", "ellipse", "line", "polygon"),
		"fill":          str("Fill color (hex or rgba)"),
		"border_radius": num("Corner radius for rectangles"),
		"corner_style":  enum("Corner style", "round", "square"),
	}, "shape_type")

	layer := object("A design layer; set exactly the payload matching type", map[string]*Schema{
		"id":       str("Unique layer identifier"),
		"type":     enum("Layer type", "text", "image", "shape", "group"),
		"name":     str("Human-readable layer name"),
		"position": position,
		"effects":  effects,
		"locked":   boolean("Whether the layer is locked"),
		"visible":  boolean("Whether the layer is visible"),
		"text":     text,
		"image":    image,
		"shape":    shape,
		"children": array("Child layer ids (group layers only)", str("")),
	}, "id", "type", "name", "position")

	s := object("Canonical ad creative design", map[string]*Schema{
		"schema_version": enum("Schema version", SchemaVersion),
		"title":          str("Design title"),
		"format":         enum("Ad format / platform", formatValues()...),
		"canvas": object("Canvas dimensions", map[string]*Schema{
			"width":  integer("Canvas width in pixels"),
			"height": integer("Canvas height in pixels"),
			"unit":   str("Unit of measurement"),
		}, "width", "height"),
		"background": object("Canvas background", map[string]*Schema{
			"type":  enum("Background type", BackgroundColor, BackgroundGradient, BackgroundImage),
			"color": str("Solid color (hex or rgba)"),
			"gradient": object("Gradient definition", map[string]*Schema{
				"type":   enum("Gradient type", "linear", "radial"),
				"colors": array("Gradient stops", str("")),
				"angle":  num("Angle in degrees"),
			}, "type", "colors"),
			"image_layer_id": str("Id of the image layer used as background"),
		}, "type"),
		"layers": array("All layers ordered back to front", layer),
		"metadata": object("Design metadata", map[string]*Schema{
			"design_style":     str("Design style, e.g. modern, minimal, bold"),
			"visual_hierarchy": array("Focal points as layer ids, most important first", str("")),
		}),
		"constraints": object("Design constraints", map[string]*Schema{
			"max_layers":          integer("Maximum number of layers"),
			"min_font_size":       num("Minimum font size in pixels"),
			"safe_zone_margin":    num("Safe zone margin as a fraction of the canvas"),
			"text_contrast_ratio": num("Minimum text contrast ratio"),
		}),
	}, "title", "format", "canvas", "background", "layers")
	s.Name = "canonical_design"
	return s
}
