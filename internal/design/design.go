// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package design defines the canonical, editor-agnostic ad creative document
// and the intermediate design brief, together with the structural parsing,
// constraint repair and deterministic placeholder generators that operate on
// them. Nothing in this package performs I/O.
package design

import (
	"encoding/json"
	"time"
)

// SchemaVersion is the canonical document version produced by this package.
const SchemaVersion = "2.0"

// AnonymousOwner is the owner id stamped on designs generated for callers
// without an authenticated identity.
const AnonymousOwner = "anonymous"

// supportedVersions lists the schema versions ParseDesign accepts.
var supportedVersions = map[string]bool{SchemaVersion: true}

// LayerType discriminates the layer variants.
type LayerType string

const (
	LayerText  LayerType = "text"
	LayerImage LayerType = "image"
	LayerShape LayerType = "shape"
	LayerGroup LayerType = "group"
)

// ImageRole is the semantic role of an image layer.
type ImageRole string

const (
	RoleProduct     ImageRole = "product"
	RolePerson      ImageRole = "person"
	RoleBackground  ImageRole = "background"
	RoleLogo        ImageRole = "logo"
	RoleIcon        ImageRole = "icon"
	RoleDecoration  ImageRole = "decoration"
	RoleComplexText ImageRole = "complex_text"
)

// ShapeType is the geometry of a shape layer.
type ShapeType string

const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeCircle    ShapeType = "circle"
	ShapeEllipse   ShapeType = "ellipse"
	ShapeLine      ShapeType = "line"
	ShapePolygon   ShapeType = "polygon"
)

// BlendMode controls how a layer composites onto the layers beneath it.
type BlendMode string

const (
	BlendNormal   BlendMode = "normal"
	BlendMultiply BlendMode = "multiply"
	BlendScreen   BlendMode = "screen"
	BlendOverlay  BlendMode = "overlay"
	BlendDarken   BlendMode = "darken"
	BlendLighten  BlendMode = "lighten"
)

// Source records how a design came to exist.
type Source string

const (
	SourceAIGenerated Source = "ai_generated"
	SourceTemplate    Source = "template"
	SourceManual      Source = "manual"
	SourceImported    Source = "imported"
)

// Design is the canonical design document. Layers are ordered back to front
// unless a layer's ZIndex says otherwise.
type Design struct {
	ID            string      `json:"id"`
	SchemaVersion string      `json:"schema_version"`
	OwnerID       string      `json:"owner_id"`
	Title         string      `json:"title"`
	Format        Format      `json:"format"`
	Canvas        Canvas      `json:"canvas"`
	Background    Background  `json:"background"`
	Brand         *BrandKit   `json:"brand,omitempty"`
	Layers        []Layer     `json:"layers"`
	Metadata      Metadata    `json:"metadata"`
	Constraints   Constraints `json:"constraints"`
	CampaignID    string      `json:"campaign_id,omitempty"`
}

// UnmarshalJSON applies the document defaults for fields the producer left
// out: the schema version and the default constraints.
func (d *Design) UnmarshalJSON(b []byte) error {
	type alias Design
	a := alias{
		SchemaVersion: SchemaVersion,
		Constraints:   DefaultConstraints(),
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*d = Design(a)
	return nil
}

// Canvas holds the document dimensions.
type Canvas struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Unit   string `json:"unit"`
}

// Background describes the canvas fill. Exactly one of Color, Gradient or
// ImageLayerID is meaningful, selected by Type.
type Background struct {
	Type         string    `json:"type"`
	Color        string    `json:"color,omitempty"`
	Gradient     *Gradient `json:"gradient,omitempty"`
	ImageLayerID string    `json:"image_layer_id,omitempty"`
}

const (
	BackgroundColor    = "color"
	BackgroundGradient = "gradient"
	BackgroundImage    = "image"
)

// Gradient is a linear or radial color ramp.
type Gradient struct {
	Type   string   `json:"type"`
	Colors []string `json:"colors"`
	Angle  float64  `json:"angle,omitempty"`
}

// BrandKit is the brand identity applied to a design.
type BrandKit struct {
	BrandID     string      `json:"brand_id,omitempty"`
	Name        string      `json:"name"`
	Colors      BrandColors `json:"colors"`
	Fonts       BrandFonts  `json:"fonts"`
	LogoAssetID string      `json:"logo_asset_id,omitempty"`
}

// BrandColors is a three-color brand palette.
type BrandColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// BrandFonts names the brand's font families.
type BrandFonts struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Metadata carries provenance information.
type Metadata struct {
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Source          Source    `json:"source"`
	AIPrompt        string    `json:"ai_prompt,omitempty"`
	DesignStyle     string    `json:"design_style,omitempty"`
	VisualHierarchy []string  `json:"visual_hierarchy,omitempty"`
}

// Constraints travel with the document so that any consumer can re-validate it.
type Constraints struct {
	MaxLayers         int     `json:"max_layers"`
	MinFontSize       float64 `json:"min_font_size"`
	SafeZoneMargin    float64 `json:"safe_zone_margin"`
	TextContrastRatio float64 `json:"text_contrast_ratio"`
}

// DefaultConstraints returns the constraints applied when a document does
// not declare its own.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxLayers:         20,
		MinFontSize:       12,
		SafeZoneMargin:    0.05,
		TextContrastRatio: 4.5,
	}
}

// UnmarshalJSON fills constraint fields missing from the input with defaults.
func (c *Constraints) UnmarshalJSON(b []byte) error {
	type alias Constraints
	a := alias(DefaultConstraints())
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*c = Constraints(a)
	return nil
}

// MinLayers is the smallest usable design: a background and two content layers.
const MinLayers = 3

// Layer is one visual element. Type selects which payload is set: Text,
// Image or Shape for the leaf variants, Children for groups. A group only
// references its children; they live independently in Design.Layers.
type Layer struct {
	ID       string           `json:"id"`
	Type     LayerType        `json:"type"`
	Name     string           `json:"name"`
	Position Position         `json:"position"`
	Effects  Effects          `json:"effects"`
	Locked   bool             `json:"locked"`
	Visible  bool             `json:"visible"`
	Text     *TextProperties  `json:"text,omitempty"`
	Image    *ImageProperties `json:"image,omitempty"`
	Shape    *ShapeProperties `json:"shape,omitempty"`
	Children []string         `json:"children,omitempty"`
}

// UnmarshalJSON defaults layers to visible with neutral effects.
func (l *Layer) UnmarshalJSON(b []byte) error {
	type alias Layer
	a := alias{
		Visible:  true,
		Position: Position{OriginX: "left", OriginY: "top"},
		Effects:  Effects{Opacity: 1, BlendMode: BlendNormal},
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*l = Layer(a)
	return nil
}

// Position is a layer's placement and transform in canvas pixels.
type Position struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	ZIndex   int     `json:"z_index"`
	OriginX  string  `json:"origin_x"`
	OriginY  string  `json:"origin_y"`
}

// UnmarshalJSON defaults the transform origin to the top-left corner.
func (p *Position) UnmarshalJSON(b []byte) error {
	type alias Position
	a := alias{OriginX: "left", OriginY: "top"}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*p = Position(a)
	return nil
}

// Effects are per-layer visual effects.
type Effects struct {
	Opacity   float64   `json:"opacity"`
	BlendMode BlendMode `json:"blend_mode"`
	Shadow    *Shadow   `json:"shadow,omitempty"`
	Stroke    *Stroke   `json:"stroke,omitempty"`
}

// UnmarshalJSON defaults to fully opaque, normal blending.
func (e *Effects) UnmarshalJSON(b []byte) error {
	type alias Effects
	a := alias{Opacity: 1, BlendMode: BlendNormal}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*e = Effects(a)
	return nil
}

// Shadow is a drop shadow.
type Shadow struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Blur    float64 `json:"blur"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// UnmarshalJSON defaults shadows to fully opaque.
func (s *Shadow) UnmarshalJSON(b []byte) error {
	type alias Shadow
	a := alias{Opacity: 1}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*s = Shadow(a)
	return nil
}

// Stroke is a border drawn along the layer's edge.
type Stroke struct {
	Color    string  `json:"color"`
	Width    float64 `json:"width"`
	Position string  `json:"position"`
}

// TextProperties is the typography of a text layer.
type TextProperties struct {
	Content        string  `json:"content"`
	FontFamily     string  `json:"font_family"`
	FontSize       float64 `json:"font_size"`
	FontWeight     int     `json:"font_weight"`
	LineHeight     float64 `json:"line_height"`
	LetterSpacing  float64 `json:"letter_spacing"`
	TextAlign      string  `json:"text_align"`
	Color          string  `json:"color"`
	TextTransform  string  `json:"text_transform"`
	TextDecoration string  `json:"text_decoration"`
}

// UnmarshalJSON applies the typographic defaults.
func (t *TextProperties) UnmarshalJSON(b []byte) error {
	type alias TextProperties
	a := alias{
		FontWeight:     400,
		LineHeight:     1.2,
		TextAlign:      "left",
		TextTransform:  "none",
		TextDecoration: "none",
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*t = TextProperties(a)
	return nil
}

// ImageProperties describes an image layer. Exactly one of AssetID,
// GenerationPrompt or URL identifies the pixels.
type ImageProperties struct {
	Role             ImageRole          `json:"role"`
	AssetID          string             `json:"asset_id,omitempty"`
	GenerationPrompt *GenerationPrompt  `json:"generation_prompt,omitempty"`
	URL              string             `json:"url,omitempty"`
	Fit              string             `json:"fit"`
	Filters          map[string]float64 `json:"filters,omitempty"`
}

// UnmarshalJSON defaults the fit mode to "contain".
func (p *ImageProperties) UnmarshalJSON(b []byte) error {
	type alias ImageProperties
	a := alias{Fit: "contain"}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*p = ImageProperties(a)
	return nil
}

// sources counts how many image sources are set.
func (p *ImageProperties) sources() int {
	n := 0
	if p.AssetID != "" {
		n++
	}
	if p.GenerationPrompt != nil {
		n++
	}
	if p.URL != "" {
		n++
	}
	return n
}

// GenerationPrompt is a request for an image generator to produce the
// layer's pixels.
type GenerationPrompt struct {
	Prompt                string   `json:"prompt"`
	NegativePrompt        string   `json:"negative_prompt,omitempty"`
	StyleModifiers        []string `json:"style_modifiers,omitempty"`
	QualityModifiers      []string `json:"quality_modifiers,omitempty"`
	AspectRatio           string   `json:"aspect_ratio"`
	RequiresTransparentBG bool     `json:"requires_transparent_bg"`
}

// UnmarshalJSON defaults generated images to a transparent background.
func (g *GenerationPrompt) UnmarshalJSON(b []byte) error {
	type alias GenerationPrompt
	a := alias{RequiresTransparentBG: true}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*g = GenerationPrompt(a)
	return nil
}

// ShapeProperties describes a shape layer.
type ShapeProperties struct {
	ShapeType    ShapeType `json:"shape_type"`
	Fill         string    `json:"fill,omitempty"`
	BorderRadius float64   `json:"border_radius"`
	CornerStyle  string    `json:"corner_style"`
}

// UnmarshalJSON defaults corners to round.
func (s *ShapeProperties) UnmarshalJSON(b []byte) error {
	type alias ShapeProperties
	a := alias{CornerStyle: "round"}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*s = ShapeProperties(a)
	return nil
}

// Clone returns a deep copy of d so callers can modify the copy freely.
func (d *Design) Clone() *Design {
	out := *d
	if d.Brand != nil {
		b := *d.Brand
		out.Brand = &b
	}
	if d.Background.Gradient != nil {
		g := *d.Background.Gradient
		g.Colors = append([]string(nil), g.Colors...)
		out.Background.Gradient = &g
	}
	out.Metadata.VisualHierarchy = append([]string(nil), d.Metadata.VisualHierarchy...)
	out.Layers = make([]Layer, len(d.Layers))
	for i, l := range d.Layers {
		out.Layers[i] = l.clone()
	}
	return &out
}

func (l Layer) clone() Layer {
	if l.Text != nil {
		t := *l.Text
		l.Text = &t
	}
	if l.Image != nil {
		img := *l.Image
		if img.GenerationPrompt != nil {
			gp := *img.GenerationPrompt
			gp.StyleModifiers = append([]string(nil), gp.StyleModifiers...)
			gp.QualityModifiers = append([]string(nil), gp.QualityModifiers...)
			img.GenerationPrompt = &gp
		}
		if img.Filters != nil {
			f := make(map[string]float64, len(img.Filters))
			for k, v := range img.Filters {
				f[k] = v
			}
			img.Filters = f
		}
		l.Image = &img
	}
	if l.Shape != nil {
		s := *l.Shape
		l.Shape = &s
	}
	if l.Effects.Shadow != nil {
		s := *l.Effects.Shadow
		l.Effects.Shadow = &s
	}
	if l.Effects.Stroke != nil {
		s := *l.Effects.Stroke
		l.Effects.Stroke = &s
	}
	l.Children = append([]string(nil), l.Children...)
	return l
}
