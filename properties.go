package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"labelforge/internal/element"
	"labelforge/internal/render"
)

// propertyField is one editable attribute in the properties menu. get
// reports false when the field does not apply to the element's kind.
type propertyField struct {
	key   string
	label string
	color bool
	get   func(el element.Element) (string, bool)
	num   func(v float64) element.Patch
	str   func(s string) element.Patch
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func commonField(f func(b element.Common) float64) func(element.Element) (string, bool) {
	return func(el element.Element) (string, bool) { return formatNum(f(el.Base())), true }
}

var propertyFields = []propertyField{
	{key: "x", label: "X", get: commonField(func(b element.Common) float64 { return b.X }),
		num: func(v float64) element.Patch { return element.Patch{X: &v} }},
	{key: "y", label: "Y", get: commonField(func(b element.Common) float64 { return b.Y }),
		num: func(v float64) element.Patch { return element.Patch{Y: &v} }},
	{key: "w", label: "Width", get: commonField(func(b element.Common) float64 { return b.Width }),
		num: func(v float64) element.Patch { return element.Patch{Width: &v} }},
	{key: "h", label: "Height", get: commonField(func(b element.Common) float64 { return b.Height }),
		num: func(v float64) element.Patch { return element.Patch{Height: &v} }},
	{key: "r", label: "Rotation", get: commonField(func(b element.Common) float64 { return b.Rotation }),
		num: func(v float64) element.Patch { return element.Patch{Rotation: &v} }},
	{key: "o", label: "Opacity", get: commonField(func(b element.Common) float64 { return b.Opacity }),
		num: func(v float64) element.Patch { return element.Patch{Opacity: &v} }},
	{
		key: "F", label: "Font size",
		get: func(el element.Element) (string, bool) {
			if t, ok := el.(*element.Text); ok {
				return formatNum(t.FontSize), true
			}
			return "", false
		},
		num: func(v float64) element.Patch { return element.Patch{FontSize: &v} },
	},
	{
		key: "c", label: "Color", color: true,
		get: func(el element.Element) (string, bool) {
			switch e := el.(type) {
			case *element.Text:
				return e.Color, true
			case *element.Icon:
				return e.Color, true
			}
			return "", false
		},
		str: func(s string) element.Patch { return element.Patch{Color: &s} },
	},
	{
		key: "f", label: "Fill", color: true,
		get: func(el element.Element) (string, bool) {
			if s, ok := el.(*element.Shape); ok {
				return s.Fill, true
			}
			return "", false
		},
		str: func(s string) element.Patch { return element.Patch{Fill: &s} },
	},
	{
		key: "s", label: "Stroke", color: true,
		get: func(el element.Element) (string, bool) {
			if s, ok := el.(*element.Shape); ok {
				return s.Stroke, true
			}
			return "", false
		},
		str: func(s string) element.Patch { return element.Patch{Stroke: &s} },
	},
	{
		key: "S", label: "Stroke width",
		get: func(el element.Element) (string, bool) {
			if s, ok := el.(*element.Shape); ok {
				return formatNum(s.StrokeWidth), true
			}
			return "", false
		},
		num: func(v float64) element.Patch { return element.Patch{StrokeWidth: &v} },
	},
}

// fieldsFor lists the fields that apply to el.
func fieldsFor(el element.Element) []propertyField {
	var out []propertyField
	for _, f := range propertyFields {
		if _, ok := f.get(el); ok {
			out = append(out, f)
		}
	}
	return out
}

// parse turns typed input into a patch for the field.
func (f propertyField) parse(input string) (element.Patch, error) {
	input = strings.TrimSpace(input)
	if f.color {
		if input == "" || strings.EqualFold(input, "none") {
			if f.key != "s" {
				return element.Patch{}, fmt.Errorf("%s needs a colour", strings.ToLower(f.label))
			}
			return f.str(""), nil
		}
		if !strings.HasPrefix(input, "#") {
			input = "#" + input
		}
		if _, ok := render.Paint(input, 1); !ok {
			return element.Patch{}, fmt.Errorf("%q is not a colour", input)
		}
		return f.str(input), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(input, "%"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return element.Patch{}, fmt.Errorf("%q is not a number", input)
	}
	if f.key == "o" && strings.HasSuffix(input, "%") {
		v /= 100
	}
	return f.num(v), nil
}

// propertyTarget is the single selected element, or the one under the
// cursor.
func (m *model) propertyTarget() (element.Element, bool) {
	s := m.controller().State()
	if sel := s.SelectedElements(); len(sel) == 1 {
		return sel[0], true
	}
	p := m.cursorCanvas()
	return s.HitTest(p.X, p.Y)
}

func (m *model) startProperties() {
	el, ok := m.propertyTarget()
	if !ok {
		m.errorMessage = "Select one element to edit its properties"
		return
	}
	if el.Base().Locked {
		m.errorMessage = "That element is locked"
		return
	}
	m.editID = el.Base().ID
	m.menuIndex = 0
	m.mode = ModeProperties
}

func (m *model) propertyElement() (element.Element, bool) {
	return m.controller().Engine().Find(m.editID)
}

func (m *model) handlePropertiesKey(key string) {
	el, ok := m.propertyElement()
	if !ok {
		m.mode = ModeNormal
		m.editID = ""
		return
	}
	fields := fieldsFor(el)
	switch key {
	case "esc", "q":
		m.mode = ModeNormal
		m.editID = ""
		return
	case "j", "down":
		m.menuIndex = (m.menuIndex + 1) % len(fields)
		return
	case "k", "up":
		m.menuIndex = (m.menuIndex + len(fields) - 1) % len(fields)
		return
	case "enter":
		m.editProperty(fields[m.menuIndex], el)
		return
	}
	for i, f := range fields {
		if f.key == key {
			m.menuIndex = i
			m.editProperty(f, el)
			return
		}
	}
}

func (m *model) editProperty(f propertyField, el element.Element) {
	cur, _ := f.get(el)
	m.propertyKey = f.key
	m.editText = cur
	m.editCursorPos = len([]rune(cur))
	m.mode = ModePropertyValue
}

func (m *model) currentProperty() (propertyField, bool) {
	for _, f := range propertyFields {
		if f.key == m.propertyKey {
			return f, true
		}
	}
	return propertyField{}, false
}

// commitProperty applies the typed value as one undoable edit and returns
// to the properties menu.
func (m *model) commitProperty() {
	m.mode = ModeProperties
	f, ok := m.currentProperty()
	el, found := m.propertyElement()
	if !ok || !found {
		m.mode = ModeNormal
		m.editID = ""
		return
	}
	if cur, _ := f.get(el); strings.TrimSpace(m.editText) == cur {
		return
	}
	p, err := f.parse(m.editText)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	if !m.controller().EditProperty(m.editID, p) {
		m.errorMessage = fmt.Sprintf("%s %q was not applied", f.label, m.editText)
		return
	}
	m.errorMessage = ""
	m.successMessage = f.label + " updated"
}
