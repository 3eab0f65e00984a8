package element

import (
	"errors"
	"fmt"
)

// ErrInvalid marks an element that breaks a structural rule.
var ErrInvalid = errors.New("invalid element")

// Validate checks the structural rules every element must satisfy before it
// enters a document.
func Validate(el Element) error {
	if el == nil {
		return fmt.Errorf("%w: nil element", ErrInvalid)
	}
	c := el.Base()
	switch {
	case c.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalid)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: %s has size %gx%g", ErrInvalid, c.ID, c.Width, c.Height)
	case c.Opacity < 0 || c.Opacity > 1:
		return fmt.Errorf("%w: %s has opacity %g", ErrInvalid, c.ID, c.Opacity)
	}
	v := validator{id: c.ID}
	el.Accept(&v)
	return v.err
}

type validator struct {
	id  string
	err error
}

func (v *validator) fail(format string, args ...any) {
	v.err = fmt.Errorf("%w: %s: %s", ErrInvalid, v.id, fmt.Sprintf(format, args...))
}

func (v *validator) VisitText(t *Text) {
	switch t.Align {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		v.fail("text align %q", t.Align)
		return
	}
	switch t.Decoration {
	case "", DecorationNone, DecorationUnderline, DecorationLineThrough:
	default:
		v.fail("text decoration %q", t.Decoration)
		return
	}
	switch t.FontStyle {
	case "", FontStyleNormal, FontStyleItalic:
	default:
		v.fail("font style %q", t.FontStyle)
		return
	}
	if t.FontSize <= 0 {
		v.fail("font size %g", t.FontSize)
	}
}

func (v *validator) VisitShape(s *Shape) {
	switch s.ShapeType {
	case ShapeRectangle, ShapeCircle:
	case ShapeLine, ShapePolygon:
		if len(s.Points)%2 != 0 {
			v.fail("%s has %d point values", s.ShapeType, len(s.Points))
		}
	default:
		v.fail("shape type %q", s.ShapeType)
	}
	if s.StrokeWidth < 0 {
		v.fail("stroke width %g", s.StrokeWidth)
	}
}

func (v *validator) VisitImage(i *Image) {
	if i.Crop != nil && (i.Crop.Width <= 0 || i.Crop.Height <= 0) {
		v.fail("crop %gx%g", i.Crop.Width, i.Crop.Height)
	}
}

func (v *validator) VisitIcon(i *Icon) {
	if i.IconName == "" {
		v.fail("icon without a name")
	}
}
