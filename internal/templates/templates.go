package templates

import (
	"slices"
	"strings"

	"labelforge/internal/document"
	"labelforge/internal/element"
)

type Category string

const (
	CategoryMasonJar Category = "mason-jar"
	CategorySpiceJar Category = "spice-jar"
	CategoryFreezer  Category = "freezer"
	CategoryPantry   Category = "pantry"
	CategorySchool   Category = "school"
	CategoryStorage  Category = "storage"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

type Metadata struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Size        string
	Tags        []string
	Difficulty  Difficulty
}

// Template is a starter design. Decorative elements come locked; the text
// a user is expected to change comes unlocked.
type Template struct {
	Metadata
	Background string
	build      func() []element.Element
}

// Elements returns fresh copies of the template's elements.
func (t Template) Elements() []element.Element {
	return t.build()
}

// LockedIDs lists the decorative element ids.
func (t Template) LockedIDs() []string {
	var ids []string
	for _, el := range t.build() {
		if el.Base().Locked {
			ids = append(ids, el.Base().ID)
		}
	}
	return ids
}

// EditableIDs lists the element ids meant to be edited.
func (t Template) EditableIDs() []string {
	var ids []string
	for _, el := range t.build() {
		if !el.Base().Locked {
			ids = append(ids, el.Base().ID)
		}
	}
	return ids
}

// Snapshot returns a document ready for engine.LoadDocument, sized to the
// template's preset.
func (t Template) Snapshot() document.Snapshot {
	s := document.New()
	if size, ok := SizeFor(t.Size); ok {
		s.CanvasWidth, s.CanvasHeight = size.Width, size.Height
	}
	if t.Background != "" {
		s.Background = t.Background
	}
	s.Elements = t.build()
	return s.Snapshot()
}

type CategoryInfo struct {
	ID          Category
	Name        string
	Description string
}

var Categories = []CategoryInfo{
	{CategoryMasonJar, "Mason Jar Labels", "Labels for mason jars, preserves, and canning"},
	{CategorySpiceJar, "Spice Jar Labels", "Compact labels for spice jars and small containers"},
	{CategoryFreezer, "Freezer Labels", "Frozen food labels with date and content tracking"},
	{CategoryPantry, "Pantry Labels", "Clear, readable labels for pantry organization"},
	{CategorySchool, "School Labels", "Colorful labels for school supplies and belongings"},
	{CategoryStorage, "Storage Labels", "Labels for bins, boxes, and home organization"},
}

func locked[T element.Element](el T, z int) T {
	set(el, func(c *element.Common) {
		c.Locked = true
		c.Visible = true
		c.Opacity = 1
		c.ZIndex = z
	})
	return el
}

func editable[T element.Element](el T, z int) T {
	set(el, func(c *element.Common) {
		c.Locked = false
		c.Visible = true
		c.Opacity = 1
		c.ZIndex = z
	})
	return el
}

// set edits the common attributes of a freshly built element in place.
func set(el element.Element, fn func(*element.Common)) {
	switch v := el.(type) {
	case *element.Text:
		fn(&v.Common)
	case *element.Shape:
		fn(&v.Common)
	case *element.Image:
		fn(&v.Common)
	case *element.Icon:
		fn(&v.Common)
	}
}

func text(id, content string, x, y, w, size float64, weight int, color string, align element.Align) *element.Text {
	t := element.NewText(id, content, x, y)
	t.Width = w
	t.Height = size * 1.4
	t.FontSize = size
	t.FontWeight = weight
	t.Color = color
	t.Align = align
	return t
}

func rect(id string, x, y, w, h float64, fill, stroke string, strokeWidth, radius float64) *element.Shape {
	r := element.NewRect(id, x, y)
	r.Width, r.Height = w, h
	r.Fill, r.Stroke = fill, stroke
	r.StrokeWidth = strokeWidth
	r.CornerRadius = radius
	return r
}

func line(id string, x1, y1, x2, y2 float64, stroke string, width float64) *element.Shape {
	l := element.NewLine(id, x1, y1, x2, y2)
	l.Stroke = stroke
	l.StrokeWidth = width
	return l
}

func circle(id string, x, y, d float64, fill string) *element.Shape {
	c := element.NewCircle(id, x, y)
	c.Width, c.Height = d, d
	c.Fill, c.Stroke = fill, ""
	return c
}

func icon(id, name string, x, y, size float64, color string) *element.Icon {
	i := element.NewIcon(id, name, x, y, size)
	i.Color = color
	return i
}

var all = []Template{
	{
		Metadata: Metadata{
			ID: "mason-classic", Name: "Classic Preserves",
			Description: "Framed mason jar label with a title, contents and canning date",
			Category:    CategoryMasonJar, Size: "2.25x1.25",
			Tags:       []string{"jam", "preserves", "canning", "classic"},
			Difficulty: Beginner,
		},
		Background: "#fffbeb",
		build: func() []element.Element {
			return []element.Element{
				locked(rect("frame", 12, 12, 651, 351, "transparent", "#92400e", 6, 24), 0),
				locked(rect("inner-frame", 28, 28, 619, 319, "transparent", "#d97706", 2, 16), 1),
				locked(icon("leaf", "Leaf", 306, 40, 64, "#15803d"), 2),
				editable(text("title", "Strawberry Jam", 40, 120, 595, 64, 700, "#78350f", element.AlignCenter), 3),
				editable(text("subtitle", "Homemade with love", 40, 210, 595, 32, 400, "#92400e", element.AlignCenter), 4),
				editable(text("date", "Canned: June 2024", 40, 280, 595, 28, 400, "#a16207", element.AlignCenter), 5),
			}
		},
	},
	{
		Metadata: Metadata{
			ID: "spice-minimal", Name: "Minimal Spice",
			Description: "Bold name over a thin rule, sized for small spice jars",
			Category:    CategorySpiceJar, Size: "2x1",
			Tags:       []string{"spice", "minimal", "modern"},
			Difficulty: Beginner,
		},
		Background: "#ffffff",
		build: func() []element.Element {
			return []element.Element{
				locked(line("rule", 60, 190, 540, 190, "#111827", 4), 0),
				editable(text("name", "PAPRIKA", 30, 70, 540, 72, 800, "#111827", element.AlignCenter), 1),
				editable(text("origin", "smoked · spain", 30, 210, 540, 30, 400, "#6b7280", element.AlignCenter), 2),
			}
		},
	},
	{
		Metadata: Metadata{
			ID: "freezer-tracker", Name: "Freezer Tracker",
			Description: "Contents, frozen-on and use-by fields with a snowflake badge",
			Category:    CategoryFreezer, Size: "4x2",
			Tags:       []string{"freezer", "date", "meal prep"},
			Difficulty: Intermediate,
		},
		Background: "#eff6ff",
		build: func() []element.Element {
			return []element.Element{
				locked(rect("band", 0, 0, 1200, 140, "#1d4ed8", "", 0, 0), 0),
				locked(icon("snow", "Snowflake", 40, 30, 80, "#ffffff"), 1),
				locked(text("heading", "FROZEN", 150, 35, 600, 64, 800, "#ffffff", element.AlignLeft), 2),
				editable(text("contents", "Beef Chili", 40, 180, 1120, 72, 700, "#1e3a8a", element.AlignLeft), 3),
				editable(text("frozen-on", "Frozen: 01/15", 40, 320, 540, 40, 400, "#1e40af", element.AlignLeft), 4),
				editable(text("use-by", "Use by: 04/15", 620, 320, 540, 40, 400, "#1e40af", element.AlignRight), 5),
				locked(line("divider", 40, 300, 1160, 300, "#93c5fd", 3), 6),
			}
		},
	},
	{
		Metadata: Metadata{
			ID: "pantry-bold", Name: "Bold Pantry",
			Description: "High-contrast pantry label with a colored side bar",
			Category:    CategoryPantry, Size: "3x2",
			Tags:       []string{"pantry", "bold", "flour", "sugar"},
			Difficulty: Beginner,
		},
		Background: "#fafaf9",
		build: func() []element.Element {
			return []element.Element{
				locked(rect("bar", 0, 0, 90, 600, "#dc2626", "", 0, 0), 0),
				editable(text("item", "FLOUR", 130, 180, 730, 120, 900, "#1c1917", element.AlignLeft), 1),
				editable(text("detail", "All purpose", 130, 340, 730, 48, 400, "#57534e", element.AlignLeft), 2),
			}
		},
	},
	{
		Metadata: Metadata{
			ID: "school-name", Name: "Name Tag",
			Description: "Playful name label for notebooks and lunch boxes",
			Category:    CategorySchool, Size: "2.25x1.25",
			Tags:       []string{"school", "kids", "name"},
			Difficulty: Beginner,
		},
		Background: "#fdf4ff",
		build: func() []element.Element {
			return []element.Element{
				locked(circle("dot", 20, 20, 80, "#f0abfc"), 0),
				locked(icon("star", "Star", 575, 275, 80, "#f59e0b"), 1),
				locked(text("belongs", "This belongs to", 40, 110, 595, 32, 400, "#86198f", element.AlignCenter), 2),
				editable(text("child", "Your Name", 40, 160, 595, 72, 700, "#701a75", element.AlignCenter), 3),
				editable(text("class", "Class 3B", 40, 260, 595, 32, 400, "#a21caf", element.AlignCenter), 4),
			}
		},
	},
	{
		Metadata: Metadata{
			ID: "storage-bin", Name: "Storage Bin",
			Description: "Large-print bin label with a contents list",
			Category:    CategoryStorage, Size: "4x3",
			Tags:       []string{"storage", "bin", "garage", "organization"},
			Difficulty: Advanced,
		},
		Background: "#ffffff",
		build: func() []element.Element {
			return []element.Element{
				locked(rect("border", 20, 20, 1160, 860, "transparent", "#0f172a", 10, 0), 0),
				locked(icon("box", "Package", 60, 60, 120, "#0f172a"), 1),
				editable(text("bin", "HOLIDAY DECOR", 220, 80, 920, 96, 800, "#0f172a", element.AlignLeft), 2),
				locked(line("underline", 60, 230, 1140, 230, "#0f172a", 6), 3),
				editable(text("contents", "Lights\nOrnaments\nWreath", 60, 280, 1080, 56, 400, "#334155", element.AlignLeft), 4),
				editable(text("shelf", "Shelf B2", 60, 780, 1080, 40, 600, "#64748b", element.AlignRight), 5),
			}
		},
	},
}

// All returns every template.
func All() []Template {
	return slices.Clone(all)
}

func ByID(id string) (Template, bool) {
	for _, t := range all {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

func ByCategory(c Category) []Template {
	return filter(func(t Template) bool { return t.Category == c })
}

func ByTag(tag string) []Template {
	tag = strings.ToLower(tag)
	return filter(func(t Template) bool { return slices.Contains(t.Tags, tag) })
}

func BySize(key string) []Template {
	return filter(func(t Template) bool { return t.Size == key })
}

func ByDifficulty(d Difficulty) []Template {
	return filter(func(t Template) bool { return t.Difficulty == d })
}

// Search matches query against names, descriptions and tags, ignoring
// case.
func Search(query string) []Template {
	q := strings.ToLower(query)
	return filter(func(t Template) bool {
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Description), q) {
			return true
		}
		return slices.ContainsFunc(t.Tags, func(tag string) bool { return strings.Contains(tag, q) })
	})
}

// Featured returns the first template of each category.
func Featured() []Template {
	var out []Template
	for _, c := range Categories {
		if ts := ByCategory(c.ID); len(ts) > 0 {
			out = append(out, ts[0])
		}
	}
	return out
}

func filter(keep func(Template) bool) []Template {
	var out []Template
	for _, t := range all {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
