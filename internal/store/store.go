// Package store persists label documents. A Record carries an encoded
// document snapshot; the Store decides where the bytes live.
package store

import (
	"context"
	"errors"
	"time"

	"labelforge/internal/document"
)

var ErrNotFound = errors.New("label not found")

// Record is one saved label.
type Record struct {
	ID        string
	Name      string
	SizeKey   string
	Format    string
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is a Record without its payload, for listings.
type Summary struct {
	ID        string
	Name      string
	SizeKey   string
	Format    string
	UpdatedAt time.Time
}

type Store interface {
	// Save inserts or replaces the record with r.ID. CreatedAt of an
	// existing record is kept.
	Save(ctx context.Context, r Record) error
	Load(ctx context.Context, id string) (Record, error)
	// List returns summaries, most recently updated first.
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewRecord encodes snap with the named format into a Record.
func NewRecord(id, name, sizeKey, format string, snap document.Snapshot) (Record, error) {
	c, err := CodecFor(format)
	if err != nil {
		return Record{}, err
	}
	data, err := c.Encode(snap)
	if err != nil {
		return Record{}, err
	}
	return Record{ID: id, Name: name, SizeKey: sizeKey, Format: c.Name(), Data: data}, nil
}

// Snapshot decodes the record's payload.
func (r Record) Snapshot() (document.Snapshot, error) {
	return DecodeSnapshot(r.Format, r.Data)
}

func (r Record) Summary() Summary {
	return Summary{ID: r.ID, Name: r.Name, SizeKey: r.SizeKey, Format: r.Format, UpdatedAt: r.UpdatedAt}
}

func now() time.Time { return time.Now().UTC() }
