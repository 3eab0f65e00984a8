package store

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"

	"labelforge/internal/document"
	"labelforge/internal/element"
)

// Codec turns a document snapshot into bytes and back.
type Codec interface {
	Name() string
	Encode(snap document.Snapshot) ([]byte, error)
	Decode(data []byte) (document.Snapshot, error)
}

const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// CodecFor returns the codec registered under name. An empty name is JSON.
func CodecFor(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatJSON:
		return JSONCodec{}, nil
	case FormatCBOR:
		return cborCodec, nil
	}
	return nil, fmt.Errorf("unknown document format %q (expected json or cbor)", name)
}

// EncodeSnapshot encodes snap with the named codec.
func EncodeSnapshot(format string, snap document.Snapshot) ([]byte, error) {
	c, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	return c.Encode(snap)
}

// DecodeSnapshot decodes data with the named codec.
func DecodeSnapshot(format string, data []byte) (document.Snapshot, error) {
	c, err := CodecFor(format)
	if err != nil {
		return document.Snapshot{}, err
	}
	return c.Decode(data)
}

// JSONCodec writes indented JSON with each element tagged by "type".
type JSONCodec struct{}

func (JSONCodec) Name() string { return FormatJSON }

func (JSONCodec) Encode(snap document.Snapshot) ([]byte, error) {
	if snap.Elements == nil {
		snap.Elements = element.List{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json document: %w", err)
	}
	return data, nil
}

func (JSONCodec) Decode(data []byte) (document.Snapshot, error) {
	var snap document.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return document.Snapshot{}, fmt.Errorf("decode json document: %w", err)
	}
	return snap, nil
}

// CBORCodec writes core deterministic CBOR. Elements travel as envelopes.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var cborCodec = NewCBORCodec()

func NewCBORCodec() CBORCodec {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor enc mode: %v", err))
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor dec mode: %v", err))
	}
	return CBORCodec{enc: enc, dec: dec}
}

type cborDocument struct {
	Elements     []element.Envelope `cbor:"elements"`
	Zoom         float64            `cbor:"zoom"`
	Pan          document.Point     `cbor:"pan"`
	CanvasWidth  float64            `cbor:"canvasWidth"`
	CanvasHeight float64            `cbor:"canvasHeight"`
	Background   string             `cbor:"backgroundColor"`
	GridVisible  bool               `cbor:"gridVisible"`
	GridSize     float64            `cbor:"gridSize"`
	SnapToGrid   bool               `cbor:"snapToGrid"`
}

func (CBORCodec) Name() string { return FormatCBOR }

func (c CBORCodec) Encode(snap document.Snapshot) ([]byte, error) {
	doc := cborDocument{
		Elements:     make([]element.Envelope, 0, len(snap.Elements)),
		Zoom:         snap.Zoom,
		Pan:          snap.Pan,
		CanvasWidth:  snap.CanvasWidth,
		CanvasHeight: snap.CanvasHeight,
		Background:   snap.Background,
		GridVisible:  snap.GridVisible,
		GridSize:     snap.GridSize,
		SnapToGrid:   snap.SnapToGrid,
	}
	for _, el := range snap.Elements {
		doc.Elements = append(doc.Elements, element.Wrap(el))
	}
	data, err := c.enc.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode cbor document: %w", err)
	}
	return data, nil
}

func (c CBORCodec) Decode(data []byte) (document.Snapshot, error) {
	var doc cborDocument
	if err := c.dec.Unmarshal(data, &doc); err != nil {
		return document.Snapshot{}, fmt.Errorf("decode cbor document: %w", err)
	}
	snap := document.Snapshot{
		Elements:     make(element.List, 0, len(doc.Elements)),
		Zoom:         doc.Zoom,
		Pan:          doc.Pan,
		CanvasWidth:  doc.CanvasWidth,
		CanvasHeight: doc.CanvasHeight,
		Background:   doc.Background,
		GridVisible:  doc.GridVisible,
		GridSize:     doc.GridSize,
		SnapToGrid:   doc.SnapToGrid,
	}
	for i, env := range doc.Elements {
		el, err := env.Unwrap()
		if err != nil {
			return document.Snapshot{}, fmt.Errorf("decode cbor document: element %d: %w", i, err)
		}
		snap.Elements = append(snap.Elements, el)
	}
	return snap, nil
}
