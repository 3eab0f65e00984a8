package element

import "slices"

// Patch is a partial change set. A nil field is left alone. Fields that do
// not exist on the target's kind are ignored.
type Patch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	ZIndex   *int     `json:"zIndex,omitempty"`
	Locked   *bool    `json:"locked,omitempty"`
	Visible  *bool    `json:"visible,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`

	// text
	Content       *string     `json:"content,omitempty"`
	FontSize      *float64    `json:"fontSize,omitempty"`
	FontFamily    *string     `json:"fontFamily,omitempty"`
	FontWeight    *int        `json:"fontWeight,omitempty"`
	Align         *Align      `json:"textAlign,omitempty"`
	LineHeight    *float64    `json:"lineHeight,omitempty"`
	LetterSpacing *float64    `json:"letterSpacing,omitempty"`
	Decoration    *Decoration `json:"textDecoration,omitempty"`
	FontStyle     *FontStyle  `json:"fontStyle,omitempty"`

	// text and icon
	Color *string `json:"color,omitempty"`

	// shape
	ShapeType    *ShapeType `json:"shapeType,omitempty"`
	Fill         *string    `json:"fill,omitempty"`
	Stroke       *string    `json:"stroke,omitempty"`
	StrokeWidth  *float64   `json:"strokeWidth,omitempty"`
	CornerRadius *float64   `json:"cornerRadius,omitempty"`
	Points       []float64  `json:"points,omitempty"`

	// image
	Src    *string      `json:"src,omitempty"`
	Crop   *Rect        `json:"crop,omitempty"`
	Adjust *Adjustments `json:"adjust,omitempty"`
	FlipX  *bool        `json:"flipX,omitempty"`
	FlipY  *bool        `json:"flipY,omitempty"`

	// icon
	IconName *string `json:"iconName,omitempty"`
}

// Position builds a patch that moves an element to x, y.
func Position(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

// Empty reports whether the patch sets nothing.
func (p Patch) Empty() bool {
	return len(p.fields()) == 0
}

// GeometryOnly reports whether the patch touches nothing but position, size
// and rotation.
func (p Patch) GeometryOnly() bool {
	return p.only("x", "y", "width", "height", "rotation")
}

// FlagsOnly reports whether the patch touches nothing but Locked and
// Visible. Locked elements accept these.
func (p Patch) FlagsOnly() bool {
	return p.only("locked", "visible")
}

func (p Patch) only(allowed ...string) bool {
	fields := p.fields()
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		ok := false
		for _, a := range allowed {
			if f == a {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// fields lists the names of the set fields.
func (p Patch) fields() []string {
	var out []string
	add := func(name string, set bool) {
		if set {
			out = append(out, name)
		}
	}
	add("x", p.X != nil)
	add("y", p.Y != nil)
	add("width", p.Width != nil)
	add("height", p.Height != nil)
	add("rotation", p.Rotation != nil)
	add("zIndex", p.ZIndex != nil)
	add("locked", p.Locked != nil)
	add("visible", p.Visible != nil)
	add("opacity", p.Opacity != nil)
	add("content", p.Content != nil)
	add("fontSize", p.FontSize != nil)
	add("fontFamily", p.FontFamily != nil)
	add("fontWeight", p.FontWeight != nil)
	add("textAlign", p.Align != nil)
	add("lineHeight", p.LineHeight != nil)
	add("letterSpacing", p.LetterSpacing != nil)
	add("textDecoration", p.Decoration != nil)
	add("fontStyle", p.FontStyle != nil)
	add("color", p.Color != nil)
	add("shapeType", p.ShapeType != nil)
	add("fill", p.Fill != nil)
	add("stroke", p.Stroke != nil)
	add("strokeWidth", p.StrokeWidth != nil)
	add("cornerRadius", p.CornerRadius != nil)
	add("points", p.Points != nil)
	add("src", p.Src != nil)
	add("crop", p.Crop != nil)
	add("adjust", p.Adjust != nil)
	add("flipX", p.FlipX != nil)
	add("flipY", p.FlipY != nil)
	add("iconName", p.IconName != nil)
	return out
}

// Apply returns a copy of el with p applied and whether any value changed.
// The id is never patched.
func Apply(el Element, p Patch) (Element, bool) {
	out := el.Clone()
	a := applier{p: p}
	a.common(out.common())
	out.Accept(&a)
	if !a.changed {
		return el, false
	}
	return out, true
}

type applier struct {
	p       Patch
	changed bool
}

func set[T comparable](dst *T, src *T, changed *bool) {
	if src == nil || *dst == *src {
		return
	}
	*dst = *src
	*changed = true
}

func (a *applier) common(c *Common) {
	set(&c.X, a.p.X, &a.changed)
	set(&c.Y, a.p.Y, &a.changed)
	set(&c.Width, a.p.Width, &a.changed)
	set(&c.Height, a.p.Height, &a.changed)
	set(&c.Rotation, a.p.Rotation, &a.changed)
	set(&c.ZIndex, a.p.ZIndex, &a.changed)
	set(&c.Locked, a.p.Locked, &a.changed)
	set(&c.Visible, a.p.Visible, &a.changed)
	if a.p.Opacity != nil {
		o := ClampOpacity(*a.p.Opacity)
		set(&c.Opacity, &o, &a.changed)
	}
}

func (a *applier) VisitText(t *Text) {
	set(&t.Content, a.p.Content, &a.changed)
	set(&t.FontSize, a.p.FontSize, &a.changed)
	set(&t.FontFamily, a.p.FontFamily, &a.changed)
	set(&t.FontWeight, a.p.FontWeight, &a.changed)
	set(&t.Color, a.p.Color, &a.changed)
	set(&t.Align, a.p.Align, &a.changed)
	set(&t.LineHeight, a.p.LineHeight, &a.changed)
	set(&t.LetterSpacing, a.p.LetterSpacing, &a.changed)
	set(&t.Decoration, a.p.Decoration, &a.changed)
	set(&t.FontStyle, a.p.FontStyle, &a.changed)
}

func (a *applier) VisitShape(s *Shape) {
	set(&s.ShapeType, a.p.ShapeType, &a.changed)
	set(&s.Fill, a.p.Fill, &a.changed)
	set(&s.Stroke, a.p.Stroke, &a.changed)
	set(&s.StrokeWidth, a.p.StrokeWidth, &a.changed)
	set(&s.CornerRadius, a.p.CornerRadius, &a.changed)
	if a.p.Points != nil && !slices.Equal(s.Points, a.p.Points) {
		s.Points = append([]float64(nil), a.p.Points...)
		a.changed = true
	}
}

func (a *applier) VisitImage(i *Image) {
	set(&i.Src, a.p.Src, &a.changed)
	set(&i.FlipX, a.p.FlipX, &a.changed)
	set(&i.FlipY, a.p.FlipY, &a.changed)
	if a.p.Crop != nil && (i.Crop == nil || *i.Crop != *a.p.Crop) {
		crop := *a.p.Crop
		i.Crop = &crop
		a.changed = true
	}
	if a.p.Adjust != nil && (i.Adjust == nil || *i.Adjust != *a.p.Adjust) {
		adj := *a.p.Adjust
		i.Adjust = &adj
		a.changed = true
	}
}

func (a *applier) VisitIcon(i *Icon) {
	set(&i.IconName, a.p.IconName, &a.changed)
	set(&i.Color, a.p.Color, &a.changed)
}

// ClampOpacity limits v to [0, 1].
func ClampOpacity(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
