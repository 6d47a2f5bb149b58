package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// MaxBullets is the maximum number of bullets a note holds.
	MaxBullets = 10
	// DefaultTitle is the title of a freshly created note.
	DefaultTitle = "New Note"
	// BulletPrefix starts every bullet line of the display text.
	BulletPrefix = "• "
)

// DefaultNoteSize is the size of every note unless the board overrides it.
var DefaultNoteSize = Size{Width: 220, Height: 160}

// NoteID identifies a note within a board.
type NoteID int

// Point is a 2D coordinate, in document or screen space depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p multiplied by k on both axes.
func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// Size is the width and height of a note.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Min  Point
	Size Size
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Min.X+r.Size.Width &&
		p.Y >= r.Min.Y && p.Y <= r.Min.Y+r.Size.Height
}

// Note is a rectangular story card placed on a board.
// Position is kept in document space and never depends on the zoom level.
type Note struct {
	ID       NoteID
	Position Point
	Size     Size
	Title    string
	Bullets  []string
	Tag      Tag
	Color    Color

	palette       Palette
	colorIsCustom bool
}

// NewNote creates a note at pos with default content and the tag's default color.
// An empty tag selects the palette default.
func NewNote(id NoteID, pos Point, tag Tag, palette Palette) (*Note, error) {
	if tag == "" {
		tag = palette.Default()
	}
	color, err := palette.ColorFor(tag)
	if err != nil {
		return nil, err
	}
	return &Note{
		ID:       id,
		Position: pos,
		Size:     DefaultNoteSize,
		Title:    DefaultTitle,
		Bullets:  []string{},
		Tag:      tag,
		Color:    color,
		palette:  palette,
	}, nil
}

// NoteFromRecord rebuilds a note from a persisted record.
// Any invalid field yields an *InvalidRecordError.
func NoteFromRecord(id NoteID, rec Record, palette Palette) (*Note, error) {
	if err := rec.Validate(palette); err != nil {
		return nil, err
	}
	color, _ := ParseColor(rec.Color)
	bullets := make([]string, len(rec.Bullets))
	copy(bullets, rec.Bullets)

	return &Note{
		ID:       id,
		Position: Point{X: rec.X, Y: rec.Y},
		Size:     DefaultNoteSize,
		Title:    rec.Title,
		Bullets:  bullets,
		Tag:      Tag(rec.Tag),
		Color:    color,
		palette:  palette,
	}, nil
}

// ColorIsCustom reports whether the color was picked by hand during the current edit session.
func (n *Note) ColorIsCustom() bool {
	return n.colorIsCustom
}

// SetContent replaces title and bullets. Bullets are trimmed and blank ones dropped.
// More than MaxBullets remaining bullets is rejected and the note is left unchanged.
func (n *Note) SetContent(title string, bullets []string) error {
	cleaned, err := cleanBullets(bullets)
	if err != nil {
		return err
	}
	n.Title = title
	n.Bullets = cleaned
	return nil
}

func cleanBullets(bullets []string) ([]string, error) {
	cleaned := make([]string, 0, len(bullets))
	for _, b := range bullets {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		cleaned = append(cleaned, b)
	}
	if len(cleaned) > MaxBullets {
		return nil, &TooManyBulletsError{Count: len(cleaned), Max: MaxBullets}
	}
	return cleaned, nil
}

// SetTag changes the category. The color follows the tag unless it was picked by hand.
func (n *Note) SetTag(tag Tag) error {
	color, err := n.palette.ColorFor(tag)
	if err != nil {
		return err
	}
	n.Tag = tag
	if !n.colorIsCustom {
		n.Color = color
	}
	return nil
}

// SetColor overrides the fill color and marks it as custom.
func (n *Note) SetColor(c Color) {
	n.Color = c
	n.colorIsCustom = true
}

// MoveBy translates the note by a document-space delta.
// A delta that is not finite, or that would leave the position non-finite,
// returns ErrInvalidMove and the note stays where it was.
func (n *Note) MoveBy(dx, dy float64) error {
	next := Point{X: n.Position.X + dx, Y: n.Position.Y + dy}
	if !isFinite(dx) || !isFinite(dy) || !isFinite(next.X) || !isFinite(next.Y) {
		return fmt.Errorf("move by (%g, %g): %w", dx, dy, ErrInvalidMove)
	}
	n.Position = next
	return nil
}

// SnapToGrid moves the top-left corner to the nearest grid intersection.
// Halves round away from zero. A non-positive grid size leaves the note in place.
func (n *Note) SnapToGrid(gridSize float64) {
	if gridSize <= 0 || math.IsNaN(gridSize) || math.IsInf(gridSize, 0) {
		return
	}
	n.Position = Point{
		X: snap(n.Position.X, gridSize),
		Y: snap(n.Position.Y, gridSize),
	}
}

func snap(v, grid float64) float64 {
	return math.Round(v/grid) * grid
}

// Bounds is the note rectangle in document space.
func (n *Note) Bounds() Rect {
	return Rect{Min: n.Position, Size: n.Size}
}

// WordCount counts whitespace separated words over the title and all bullets.
func (n *Note) WordCount() int {
	text := n.Title + " " + strings.Join(n.Bullets, " ")
	return len(strings.Fields(text))
}

// DisplayText renders the text drawn on top of the note.
func (n *Note) DisplayText() string {
	var b strings.Builder
	b.WriteString(n.Title)
	b.WriteString("\n\n")
	for _, bullet := range n.Bullets {
		b.WriteString(BulletPrefix)
		b.WriteString(bullet)
		b.WriteString("\n")
	}
	b.WriteString("\n[")
	b.WriteString(string(n.Tag))
	b.WriteString("]\nWords: ")
	b.WriteString(strconv.Itoa(n.WordCount()))
	return b.String()
}

// Record returns the persisted form of the note. The custom-color flag is not part of it.
func (n *Note) Record() Record {
	bullets := make([]string, len(n.Bullets))
	copy(bullets, n.Bullets)
	return Record{
		X:       n.Position.X,
		Y:       n.Position.Y,
		Title:   n.Title,
		Bullets: bullets,
		Tag:     string(n.Tag),
		Color:   n.Color.Hex(),
	}
}

// Clone returns a deep copy of the note.
func (n *Note) Clone() *Note {
	c := *n
	c.Bullets = make([]string, len(n.Bullets))
	copy(c.Bullets, n.Bullets)
	return &c
}
