package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
)

// Fonts resolves font families to faces. Families are looked up as TTF
// files in Dir (e.g. "Inter-Bold.ttf", "Inter.ttf"); anything not found
// falls back to the built-in Go Mono faces.
type Fonts struct {
	Dir string

	mu     sync.Mutex
	parsed map[string]*truetype.Font
	faces  map[faceKey]font.Face
}

type faceKey struct {
	family string
	bold   bool
	italic bool
	size   float64
}

func NewFonts(dir string) *Fonts {
	return &Fonts{
		Dir:    dir,
		parsed: make(map[string]*truetype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

// Face returns a face for the family at size pixels. Weights of 600 and
// above are bold.
func (f *Fonts) Face(family string, weight int, italic bool, size float64) (font.Face, error) {
	if size <= 0 {
		size = 1
	}
	key := faceKey{family: family, bold: weight >= 600, italic: italic, size: size}

	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	ttf, err := f.load(key)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	f.faces[key] = face
	return face, nil
}

func (f *Fonts) load(key faceKey) (*truetype.Font, error) {
	if path, ok := f.find(key); ok {
		if ttf, ok := f.parsed[path]; ok {
			return ttf, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		ttf, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		f.parsed[path] = ttf
		return ttf, nil
	}
	return builtin(key.bold, key.italic)
}

func (f *Fonts) find(key faceKey) (string, bool) {
	if f.Dir == "" || key.family == "" {
		return "", false
	}
	base := strings.ReplaceAll(key.family, " ", "")
	var styles []string
	switch {
	case key.bold && key.italic:
		styles = []string{"-BoldItalic", "-Bold"}
	case key.bold:
		styles = []string{"-Bold"}
	case key.italic:
		styles = []string{"-Italic"}
	}
	styles = append(styles, "-Regular", "")
	for _, style := range styles {
		for _, name := range []string{base, key.family} {
			path := filepath.Join(f.Dir, name+style+".ttf")
			if _, err := os.Stat(path); err == nil {
				return path, true
			}
		}
	}
	return "", false
}

var (
	builtinOnce  sync.Once
	builtinFonts [4]*truetype.Font
	builtinErr   error
)

func builtin(bold, italic bool) (*truetype.Font, error) {
	builtinOnce.Do(func() {
		for i, data := range [][]byte{gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF} {
			builtinFonts[i], builtinErr = truetype.Parse(data)
			if builtinErr != nil {
				builtinErr = fmt.Errorf("failed to parse font: %w", builtinErr)
				return
			}
		}
	})
	if builtinErr != nil {
		return nil, builtinErr
	}
	i := 0
	if bold {
		i |= 1
	}
	if italic {
		i |= 2
	}
	return builtinFonts[i], nil
}
