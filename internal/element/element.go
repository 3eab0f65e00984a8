// Package element defines the visual objects placed on a label: text, shapes,
// images and icons.
//
// Element is a closed set. Code that needs variant-specific behaviour
// implements Visitor, which has one method per kind; adding a kind adds a
// method, so every consumer fails to compile until it handles the new kind.
package element

// Kind is the type tag of an element. It is also the "type" discriminator in
// the JSON form.
type Kind string

const (
	KindText  Kind = "text"
	KindShape Kind = "shape"
	KindImage Kind = "image"
	KindIcon  Kind = "icon"
)

// Kinds lists every element kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindText, KindShape, KindImage, KindIcon}
}

// Common holds the attributes every element carries.
type Common struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"` // degrees, clockwise
	ZIndex   int     `json:"zIndex"`
	Locked   bool    `json:"locked"`
	Visible  bool    `json:"visible"`
	Opacity  float64 `json:"opacity"`
}

// Element is one object on the canvas. Only the types in this package
// implement it.
type Element interface {
	Kind() Kind
	Base() Common
	Accept(v Visitor)
	Clone() Element

	common() *Common
}

// Visitor is the exhaustive match over element kinds.
type Visitor interface {
	VisitText(t *Text)
	VisitShape(s *Shape)
	VisitImage(i *Image)
	VisitIcon(i *Icon)
}

// Align is horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Decoration is an optional text decoration.
type Decoration string

const (
	DecorationNone        Decoration = "none"
	DecorationUnderline   Decoration = "underline"
	DecorationLineThrough Decoration = "line-through"
)

// FontStyle is normal or italic.
type FontStyle string

const (
	FontStyleNormal FontStyle = "normal"
	FontStyleItalic FontStyle = "italic"
)

// Text is a block of styled text laid out inside its width.
type Text struct {
	Common
	Content       string     `json:"content"`
	FontSize      float64    `json:"fontSize"`
	FontFamily    string     `json:"fontFamily"`
	FontWeight    int        `json:"fontWeight"`
	Color         string     `json:"color"`
	Align         Align      `json:"textAlign"`
	LineHeight    float64    `json:"lineHeight"`
	LetterSpacing float64    `json:"letterSpacing"`
	Decoration    Decoration `json:"textDecoration,omitempty"`
	FontStyle     FontStyle  `json:"fontStyle,omitempty"`
}

// ShapeType selects the geometry of a Shape.
type ShapeType string

const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeCircle    ShapeType = "circle"
	ShapeLine      ShapeType = "line"
	ShapePolygon   ShapeType = "polygon"
)

// Shape is a vector primitive. Points is a flat x0,y0,x1,y1,... list relative
// to the element origin and is used by lines and polygons.
type Shape struct {
	Common
	ShapeType    ShapeType `json:"shapeType"`
	Fill         string    `json:"fill"`
	Stroke       string    `json:"stroke"`
	StrokeWidth  float64   `json:"strokeWidth"`
	CornerRadius float64   `json:"cornerRadius,omitempty"`
	Points       []float64 `json:"points,omitempty"`
}

// Adjustments are optional image filters. Zero means unchanged.
type Adjustments struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Blur       float64 `json:"blur"`
}

// Image is a raster picture referenced by Src.
type Image struct {
	Common
	Src            string       `json:"src"`
	OriginalWidth  float64      `json:"originalWidth"`
	OriginalHeight float64      `json:"originalHeight"`
	Crop           *Rect        `json:"crop,omitempty"`
	Adjust         *Adjustments `json:"adjust,omitempty"`
	FlipX          bool         `json:"flipX,omitempty"`
	FlipY          bool         `json:"flipY,omitempty"`
}

// Icon is a named glyph from the icon set.
type Icon struct {
	Common
	IconName string `json:"iconName"`
	Color    string `json:"color"`
}

func (t *Text) Kind() Kind  { return KindText }
func (s *Shape) Kind() Kind { return KindShape }
func (i *Image) Kind() Kind { return KindImage }
func (i *Icon) Kind() Kind  { return KindIcon }

func (t *Text) Base() Common  { return t.Common }
func (s *Shape) Base() Common { return s.Common }
func (i *Image) Base() Common { return i.Common }
func (i *Icon) Base() Common  { return i.Common }

func (t *Text) Accept(v Visitor)  { v.VisitText(t) }
func (s *Shape) Accept(v Visitor) { v.VisitShape(s) }
func (i *Image) Accept(v Visitor) { v.VisitImage(i) }
func (i *Icon) Accept(v Visitor)  { v.VisitIcon(i) }

func (t *Text) common() *Common  { return &t.Common }
func (s *Shape) common() *Common { return &s.Common }
func (i *Image) common() *Common { return &i.Common }
func (i *Icon) common() *Common  { return &i.Common }

func (t *Text) Clone() Element {
	c := *t
	return &c
}

func (s *Shape) Clone() Element {
	c := *s
	if s.Points != nil {
		c.Points = make([]float64, len(s.Points))
		copy(c.Points, s.Points)
	}
	return &c
}

func (i *Image) Clone() Element {
	c := *i
	if i.Crop != nil {
		crop := *i.Crop
		c.Crop = &crop
	}
	if i.Adjust != nil {
		adj := *i.Adjust
		c.Adjust = &adj
	}
	return &c
}

func (i *Icon) Clone() Element {
	c := *i
	return &c
}

// With returns a copy of el with fn applied to its common attributes. el is
// not modified.
func With(el Element, fn func(c *Common)) Element {
	out := el.Clone()
	fn(out.common())
	return out
}

// WithID returns a copy of el carrying a new id.
func WithID(el Element, id string) Element {
	return With(el, func(c *Common) { c.ID = id })
}

// CloneAll deep-copies a slice of elements.
func CloneAll(els []Element) []Element {
	if els == nil {
		return nil
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = el.Clone()
	}
	return out
}

// IDs returns the ids of els in order.
func IDs(els []Element) []string {
	ids := make([]string, len(els))
	for i, el := range els {
		ids[i] = el.Base().ID
	}
	return ids
}

// Ptr returns a pointer to v. It keeps Patch literals short.
func Ptr[T any](v T) *T {
	return &v
}
