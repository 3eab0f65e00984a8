package element

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrUnknownKind is returned when decoding an element whose type tag is not
// one of Kinds().
var ErrUnknownKind = errors.New("unknown element kind")

type (
	textAlias  Text
	shapeAlias Shape
	imageAlias Image
	iconAlias  Icon
)

func (t *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*textAlias
	}{KindText, (*textAlias)(t)})
}

func (s *Shape) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*shapeAlias
	}{KindShape, (*shapeAlias)(s)})
}

func (i *Image) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*imageAlias
	}{KindImage, (*imageAlias)(i)})
}

func (i *Icon) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*iconAlias
	}{KindIcon, (*iconAlias)(i)})
}

// Marshal encodes a single element with its "type" tag.
func Marshal(el Element) ([]byte, error) {
	return json.Marshal(el)
}

// UnmarshalElement decodes a single element, dispatching on its "type" tag.
func UnmarshalElement(data []byte) (Element, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode element: %w", err)
	}

	var el Element
	switch head.Type {
	case KindText:
		el = &Text{}
	case KindShape:
		el = &Shape{}
	case KindImage:
		el = &Image{}
	case KindIcon:
		el = &Icon{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, head.Type)
	}

	// Decode into the alias so the tag field is ignored.
	var err error
	switch v := el.(type) {
	case *Text:
		err = json.Unmarshal(data, (*textAlias)(v))
	case *Shape:
		err = json.Unmarshal(data, (*shapeAlias)(v))
	case *Image:
		err = json.Unmarshal(data, (*imageAlias)(v))
	case *Icon:
		err = json.Unmarshal(data, (*iconAlias)(v))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s element: %w", head.Type, err)
	}
	return el, nil
}

// List is an element collection with a JSON form of tagged objects.
type List []Element

func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Element(l))
}

func (l *List) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode element list: %w", err)
	}
	out := make(List, 0, len(raw))
	for i, r := range raw {
		el, err := UnmarshalElement(r)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, el)
	}
	*l = out
	return nil
}

// Envelope is the tagged-union wire form used by binary codecs, which have
// no notion of a flattened discriminator. Exactly one payload is set.
type Envelope struct {
	Type  Kind   `json:"type" cbor:"type"`
	Text  *Text  `json:"text,omitempty" cbor:"text,omitempty"`
	Shape *Shape `json:"shape,omitempty" cbor:"shape,omitempty"`
	Image *Image `json:"image,omitempty" cbor:"image,omitempty"`
	Icon  *Icon  `json:"icon,omitempty" cbor:"icon,omitempty"`
}

type wrapper struct{ env Envelope }

func (w *wrapper) VisitText(t *Text)   { w.env = Envelope{Type: KindText, Text: t} }
func (w *wrapper) VisitShape(s *Shape) { w.env = Envelope{Type: KindShape, Shape: s} }
func (w *wrapper) VisitImage(i *Image) { w.env = Envelope{Type: KindImage, Image: i} }
func (w *wrapper) VisitIcon(i *Icon)   { w.env = Envelope{Type: KindIcon, Icon: i} }

// Wrap puts a copy of el into an Envelope.
func Wrap(el Element) Envelope {
	var w wrapper
	el.Clone().Accept(&w)
	return w.env
}

// Unwrap returns the element held by the envelope.
func (e Envelope) Unwrap() (Element, error) {
	switch {
	case e.Type == KindText && e.Text != nil:
		return e.Text, nil
	case e.Type == KindShape && e.Shape != nil:
		return e.Shape, nil
	case e.Type == KindImage && e.Image != nil:
		return e.Image, nil
	case e.Type == KindIcon && e.Icon != nil:
		return e.Icon, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, e.Type)
}
