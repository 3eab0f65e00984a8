package store

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	fileExt    = ".label"
	fileHeader = "LABELFORGE"
)

// FileStore keeps each label in its own file under Dir. A file is a short
// header of KEY:value lines, a blank line, then the encoded document.
type FileStore struct {
	Dir string
	log zerolog.Logger
}

func NewFileStore(dir string, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir label dir: %w", err)
	}
	return &FileStore{Dir: dir, log: log}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("invalid label id %q", id)
	}
	return filepath.Join(s.Dir, id+fileExt), nil
}

func (s *FileStore) Save(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(r.ID)
	if err != nil {
		return err
	}
	if r.CreatedAt.IsZero() {
		if old, err := s.read(path); err == nil {
			r.CreatedAt = old.CreatedAt
		} else {
			r.CreatedAt = now()
		}
	}
	r.UpdatedAt = now()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", fileHeader)
	fmt.Fprintf(&buf, "ID:%s\n", r.ID)
	fmt.Fprintf(&buf, "NAME:%s\n", strings.ReplaceAll(r.Name, "\n", " "))
	fmt.Fprintf(&buf, "SIZE:%s\n", r.SizeKey)
	fmt.Fprintf(&buf, "FORMAT:%s\n", r.Format)
	fmt.Fprintf(&buf, "CREATED:%s\n", r.CreatedAt.Format(time.RFC3339Nano))
	fmt.Fprintf(&buf, "UPDATED:%s\n", r.UpdatedAt.Format(time.RFC3339Nano))
	buf.WriteString("\n")
	buf.Write(r.Data)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save label %s: %w", r.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("save label %s: %w", r.ID, err)
	}
	s.log.Debug().Str("id", r.ID).Str("path", path).Msg("label saved")
	return nil
}

func (s *FileStore) Load(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	path, err := s.path(id)
	if err != nil {
		return Record{}, err
	}
	return s.read(path)
}

func (s *FileStore) read(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSuffix(filepath.Base(path), fileExt))
		}
		return Record{}, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	first, err := br.ReadString('\n')
	if err != nil || strings.TrimSpace(first) != fileHeader {
		return Record{}, fmt.Errorf("%s: not a label file", path)
	}

	var r Record
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return Record{}, fmt.Errorf("%s: truncated header", path)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch key {
		case "ID":
			r.ID = value
		case "NAME":
			r.Name = value
		case "SIZE":
			r.SizeKey = value
		case "FORMAT":
			r.Format = value
		case "CREATED":
			r.CreatedAt, _ = time.Parse(time.RFC3339Nano, value)
		case "UPDATED":
			r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, value)
		}
	}
	if r.Data, err = io.ReadAll(br); err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	var out []Summary
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		r, err := s.read(filepath.Join(s.Dir, entry.Name()))
		if err != nil {
			s.log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable label")
			continue
		}
		out = append(out, r.Summary())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("delete label %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
