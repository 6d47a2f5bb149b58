package core

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// DefaultGridSize is the snapping grid, in document units.
const DefaultGridSize = 20.0

// Board owns the ordered note collection and the view transform.
// A Board is not safe for concurrent use; see Service.
type Board struct {
	notes    []*Note
	nextID   NoteID
	viewport Viewport
	palette  Palette
	noteSize Size
	gridSize float64
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithPalette sets the tag -> color table used by every note on the board.
func WithPalette(p Palette) BoardOption {
	return func(b *Board) {
		if len(p.entries) > 0 {
			b.palette = p
		}
	}
}

// WithNoteSize overrides the size given to every note.
func WithNoteSize(s Size) BoardOption {
	return func(b *Board) {
		if s.Width > 0 && s.Height > 0 {
			b.noteSize = s
		}
	}
}

// WithGridSize overrides the snapping grid. Zero or negative disables snapping;
// a non-finite size is ignored.
func WithGridSize(size float64) BoardOption {
	return func(b *Board) {
		switch {
		case !isFinite(size):
		case size <= 0:
			b.gridSize = 0
		default:
			b.gridSize = size
		}
	}
}

// NewBoard creates an empty board at 100% zoom.
func NewBoard(opts ...BoardOption) *Board {
	b := &Board{
		nextID:   1,
		viewport: IdentityViewport(),
		palette:  DefaultPalette(),
		noteSize: DefaultNoteSize,
		gridSize: DefaultGridSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Palette returns the board's tag table.
func (b *Board) Palette() Palette { return b.palette }

// GridSize returns the snapping grid size.
func (b *Board) GridSize() float64 { return b.gridSize }

// Viewport returns the current view transform.
func (b *Board) Viewport() Viewport { return b.viewport }

// ZoomScale returns the cumulative zoom factor.
func (b *Board) ZoomScale() float64 { return b.viewport.Scale }

// Len returns the number of notes.
func (b *Board) Len() int { return len(b.notes) }

func (b *Board) allocID() NoteID {
	id := b.nextID
	b.nextID++
	return id
}

// AddNote appends n. A zero ID is replaced by a fresh one; IDs are never reused.
// A nil note, an ID already on the board and a tag outside the board palette
// are rejected and the board is left unchanged. The note adopts the board palette.
func (b *Board) AddNote(n *Note) error {
	if n == nil {
		return ErrNilNote
	}
	if n.ID != 0 {
		if _, err := b.Note(n.ID); err == nil {
			return fmt.Errorf("note %d: %w", n.ID, ErrDuplicateNoteID)
		}
	}
	if !b.palette.Has(n.Tag) {
		return &InvalidTagError{Tag: n.Tag}
	}

	if n.ID == 0 {
		n.ID = b.allocID()
	} else if n.ID >= b.nextID {
		b.nextID = n.ID + 1
	}
	n.palette = b.palette
	b.notes = append(b.notes, n)
	return nil
}

// CreateNote adds a note with default content at a document position.
func (b *Board) CreateNote(pos Point, tag Tag) (*Note, error) {
	n, err := NewNote(0, pos, tag, b.palette)
	if err != nil {
		return nil, err
	}
	n.Size = b.noteSize
	if err := b.AddNote(n); err != nil {
		return nil, err
	}
	return n, nil
}

// CreateNoteAt adds a default note under a screen-space pointer location.
func (b *Board) CreateNoteAt(screen Point, tag Tag) (*Note, error) {
	return b.CreateNote(b.viewport.ToDocument(screen), tag)
}

// Note returns the live note with the given id.
func (b *Board) Note(id NoteID) (*Note, error) {
	for _, n := range b.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, fmt.Errorf("note %d: %w", id, ErrNoteNotFound)
}

// Notes returns the notes in creation order. The slice is a copy; the notes are not.
func (b *Board) Notes() []*Note {
	out := make([]*Note, len(b.notes))
	copy(out, b.notes)
	return out
}

// NoteAt returns the topmost note under a screen point, if any.
func (b *Board) NoteAt(screen Point) (*Note, bool) {
	doc := b.viewport.ToDocument(screen)
	for i := len(b.notes) - 1; i >= 0; i-- {
		if b.notes[i].Bounds().Contains(doc) {
			return b.notes[i], true
		}
	}
	return nil, false
}

// Clear removes every note. The ID counter is kept so IDs stay unique.
func (b *Board) Clear() {
	b.notes = nil
}

// ApplyZoom multiplies the zoom scale by factor, keeping pivot (screen space) stationary.
func (b *Board) ApplyZoom(factor float64, pivot Point) error {
	v, err := b.viewport.Zoom(factor, pivot)
	if err != nil {
		return err
	}
	b.viewport = v
	return nil
}

// SetZoomScale jumps to an absolute scale, pivoting on the screen origin.
func (b *Board) SetZoomScale(scale float64) error {
	if scale <= 0 || !isFinite(scale) {
		return ErrInvalidZoom
	}
	return b.ApplyZoom(scale/b.viewport.Scale, Point{})
}

// ScreenRect returns where n is drawn under the current viewport.
func (b *Board) ScreenRect(n *Note) Rect {
	return b.viewport.ScreenRect(n.Bounds())
}

// MoveNoteOnScreen moves a note by a pointer delta measured in screen units.
func (b *Board) MoveNoteOnScreen(id NoteID, dx, dy float64) error {
	n, err := b.Note(id)
	if err != nil {
		return err
	}
	return n.MoveBy(dx/b.viewport.Scale, dy/b.viewport.Scale)
}

// SnapNote aligns a note to the board grid.
func (b *Board) SnapNote(id NoteID) error {
	n, err := b.Note(id)
	if err != nil {
		return err
	}
	n.SnapToGrid(b.gridSize)
	return nil
}

// Edit opens an edit session on a note.
func (b *Board) Edit(id NoteID) (*EditSession, error) {
	n, err := b.Note(id)
	if err != nil {
		return nil, err
	}
	return newEditSession(n), nil
}

// Serialize returns one record per note in creation order. The viewport is not persisted.
func (b *Board) Serialize() []Record {
	records := make([]Record, 0, len(b.notes))
	for _, n := range b.notes {
		records = append(records, n.Record())
	}
	return records
}

// Deserialize replaces the board content with records.
// Every record is validated first; if any is invalid an *InvalidDocumentError
// listing all failures is returned and the board is left untouched.
func (b *Board) Deserialize(records []Record) error {
	notes, err := b.buildNotes(records)
	if err != nil {
		return err
	}
	b.Clear()
	for _, n := range notes {
		n.ID = b.allocID()
		b.notes = append(b.notes, n)
	}
	return nil
}

func (b *Board) buildNotes(records []Record) ([]*Note, error) {
	var errs error
	notes := make([]*Note, 0, len(records))
	for i, rec := range records {
		n, err := NoteFromRecord(0, rec, b.palette)
		if err != nil {
			var recErr *InvalidRecordError
			if errors.As(err, &recErr) {
				recErr.Index = i
			}
			errs = multierr.Append(errs, err)
			continue
		}
		n.Size = b.noteSize
		notes = append(notes, n)
	}
	if errs != nil {
		return nil, NewInvalidDocumentError(errs)
	}
	return notes, nil
}
