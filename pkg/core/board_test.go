package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func seedBoard(t *testing.T) *Board {
	t.Helper()
	b := NewBoard()
	a, err := b.CreateNote(Point{X: 100, Y: 40}, TagScene)
	require.NoError(t, err)
	require.NoError(t, a.SetContent("Opening", []string{"Rainy night"}))

	c, err := b.CreateNote(Point{X: -60, Y: 300}, TagCharacter)
	require.NoError(t, err)
	require.NoError(t, c.SetContent("Detective", nil))
	c.SetColor(MustParseColor("#123456"))
	return b
}

func TestBoard_IDsAreNeverReused(t *testing.T) {
	b := seedBoard(t)
	ids := map[NoteID]bool{}
	for _, n := range b.Notes() {
		ids[n.ID] = true
	}

	b.Clear()
	n, err := b.CreateNote(Point{}, "")
	require.NoError(t, err)

	assert.Len(t, ids, 2)
	assert.False(t, ids[n.ID], "id %d was reused", n.ID)
}

func TestBoard_CreateNoteAt_UsesDocumentSpace(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.ApplyZoom(2, Point{}))

	n, err := b.CreateNoteAt(Point{X: 200, Y: 100}, "")
	require.NoError(t, err)

	assert.Equal(t, Point{X: 100, Y: 50}, n.Position)
	assert.Equal(t, Point{X: 200, Y: 100}, b.Viewport().ToScreen(n.Position))
}

func TestBoard_ZoomComposition(t *testing.T) {
	b := seedBoard(t)
	pivot := Point{X: 333, Y: -12}

	before := map[NoteID]Point{}
	for _, n := range b.Notes() {
		before[n.ID] = b.Viewport().ToScreen(n.Position)
	}

	require.NoError(t, b.ApplyZoom(1.1, pivot))
	require.NoError(t, b.ApplyZoom(1/1.1, pivot))

	assert.InDelta(t, 1.0, b.ZoomScale(), eps)
	for _, n := range b.Notes() {
		got := b.Viewport().ToScreen(n.Position)
		assert.InDelta(t, before[n.ID].X, got.X, eps)
		assert.InDelta(t, before[n.ID].Y, got.Y, eps)
	}
}

func TestBoard_ZoomKeepsPivotStationary(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.ApplyZoom(1.5, Point{X: 10, Y: 10}))
	pivot := Point{X: 400, Y: 250}
	docUnderPivot := b.Viewport().ToDocument(pivot)

	require.NoError(t, b.ApplyZoom(0.9, pivot))

	got := b.Viewport().ToScreen(docUnderPivot)
	assert.InDelta(t, pivot.X, got.X, eps)
	assert.InDelta(t, pivot.Y, got.Y, eps)
}

func TestBoard_ZoomDoesNotTouchDocumentPositions(t *testing.T) {
	b := seedBoard(t)
	records := b.Serialize()

	for i := 0; i < 50; i++ {
		require.NoError(t, b.ApplyZoom(1.1, Point{X: float64(i), Y: 7}))
	}

	assert.Equal(t, records, b.Serialize())
}

func TestBoard_SetZoomScale(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.ApplyZoom(1.1, Point{}))

	require.NoError(t, b.SetZoomScale(1.5))
	assert.InDelta(t, 1.5, b.ZoomScale(), eps)
	assert.Equal(t, 150, b.Viewport().Percent())

	assert.ErrorIs(t, b.SetZoomScale(0), ErrInvalidZoom)
	assert.ErrorIs(t, b.ApplyZoom(-1, Point{}), ErrInvalidZoom)
	assert.InDelta(t, 1.5, b.ZoomScale(), eps)
}

func TestBoard_ScreenRect(t *testing.T) {
	b := NewBoard()
	n, err := b.CreateNote(Point{X: 10, Y: 20}, "")
	require.NoError(t, err)
	require.NoError(t, b.SetZoomScale(0.5))

	r := b.ScreenRect(n)
	assert.Equal(t, Point{X: 5, Y: 10}, r.Min)
	assert.Equal(t, Size{Width: 110, Height: 80}, r.Size)
}

func TestBoard_MoveNoteOnScreen(t *testing.T) {
	b := NewBoard()
	n, err := b.CreateNote(Point{X: 0, Y: 0}, "")
	require.NoError(t, err)
	require.NoError(t, b.SetZoomScale(2))

	require.NoError(t, b.MoveNoteOnScreen(n.ID, 20, -10))
	assert.Equal(t, Point{X: 10, Y: -5}, n.Position)

	assert.ErrorIs(t, b.MoveNoteOnScreen(999, 1, 1), ErrNoteNotFound)
}

func TestBoard_NoteAt(t *testing.T) {
	b := NewBoard()
	under, err := b.CreateNote(Point{X: 0, Y: 0}, "")
	require.NoError(t, err)
	over, err := b.CreateNote(Point{X: 100, Y: 100}, "")
	require.NoError(t, err)

	hit, ok := b.NoteAt(Point{X: 150, Y: 150})
	require.True(t, ok)
	assert.Equal(t, over.ID, hit.ID)

	hit, ok = b.NoteAt(Point{X: 50, Y: 50})
	require.True(t, ok)
	assert.Equal(t, under.ID, hit.ID)

	_, ok = b.NoteAt(Point{X: -1, Y: -1})
	assert.False(t, ok)
}

func TestBoard_SerializeRoundTrip(t *testing.T) {
	for _, b := range []*Board{NewBoard(), seedBoard(t)} {
		records := b.Serialize()

		restored := NewBoard()
		require.NoError(t, restored.Deserialize(records))

		require.Equal(t, b.Len(), restored.Len())
		orig, got := b.Notes(), restored.Notes()
		for i := range orig {
			assert.Equal(t, orig[i].Record(), got[i].Record())
		}
	}
}

func TestBoard_Deserialize_AllOrNothing(t *testing.T) {
	b := seedBoard(t)
	before := b.Serialize()

	records := []Record{
		{X: 0, Y: 0, Title: "ok", Tag: "World", Color: "#a5d6a7"},
		{X: 0, Y: 0, Title: "bad tag", Tag: "Villain", Color: "#a5d6a7"},
		{X: 0, Y: 0, Title: "bad color", Tag: "Scene", Color: "nope"},
	}
	err := b.Deserialize(records)

	var docErr *InvalidDocumentError
	require.ErrorAs(t, err, &docErr)
	require.Len(t, docErr.Errs, 2)

	var recErr *InvalidRecordError
	require.True(t, errors.As(docErr.Errs[0], &recErr))
	assert.Equal(t, 1, recErr.Index)
	assert.Equal(t, "tag", recErr.Field)
	require.True(t, errors.As(docErr.Errs[1], &recErr))
	assert.Equal(t, 2, recErr.Index)

	assert.ErrorAs(t, err, &recErr, "InvalidDocumentError must unwrap to its records")
	assert.Equal(t, before, b.Serialize(), "failed load must leave the board untouched")
}

func TestBoard_Deserialize_AssignsFreshIDs(t *testing.T) {
	b := seedBoard(t)
	maxBefore := NoteID(0)
	for _, n := range b.Notes() {
		if n.ID > maxBefore {
			maxBefore = n.ID
		}
	}

	require.NoError(t, b.Deserialize(b.Serialize()))
	for _, n := range b.Notes() {
		assert.Greater(t, n.ID, maxBefore)
	}
}

func TestBoard_CustomOptions(t *testing.T) {
	p := NewPalette(PaletteEntry{Tag: "Beat", Color: MustParseColor("#010203")})
	b := NewBoard(WithPalette(p), WithGridSize(50), WithNoteSize(Size{Width: 100, Height: 50}))

	n, err := b.CreateNote(Point{X: 26, Y: 74}, "")
	require.NoError(t, err)
	assert.Equal(t, Tag("Beat"), n.Tag)
	assert.Equal(t, Size{Width: 100, Height: 50}, n.Size)

	require.NoError(t, b.SnapNote(n.ID))
	assert.Equal(t, Point{X: 50, Y: 50}, n.Position)

	err = b.Deserialize([]Record{{Tag: "Scene", Color: "#000000"}})
	assert.Error(t, err, "tags outside the injected palette are rejected")
}

func TestBoard_MoveNoteOnScreen_NonFinite(t *testing.T) {
	b := seedBoard(t)

	assert.ErrorIs(t, b.MoveNoteOnScreen(1, math.NaN(), math.Inf(1)), ErrInvalidMove)
	n, err := b.Note(1)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 100, Y: 40}, n.Position)

	// The first move lands on MaxFloat64; the second would overflow to +Inf.
	require.NoError(t, b.MoveNoteOnScreen(1, math.MaxFloat64, 0))
	assert.ErrorIs(t, b.MoveNoteOnScreen(1, math.MaxFloat64, 0), ErrInvalidMove)
	assert.Equal(t, math.MaxFloat64, n.Position.X)

	restored := NewBoard()
	require.NoError(t, restored.Deserialize(b.Serialize()))
}

func TestBoard_AddNote(t *testing.T) {
	t.Run("Duplicate ID", func(t *testing.T) {
		b := NewBoard()
		a, err := b.CreateNote(Point{}, TagScene)
		require.NoError(t, err)

		dup, err := NewNote(a.ID, Point{X: 5}, TagWorld, DefaultPalette())
		require.NoError(t, err)
		assert.ErrorIs(t, b.AddNote(dup), ErrDuplicateNoteID)
		assert.Equal(t, 1, b.Len())

		got, err := b.Note(a.ID)
		require.NoError(t, err)
		assert.Equal(t, TagScene, got.Tag)
	})

	t.Run("Tag Outside Palette", func(t *testing.T) {
		b := NewBoard(WithPalette(NewPalette(PaletteEntry{Tag: "Beat", Color: MustParseColor("#010203")})))
		n, err := NewNote(0, Point{}, TagWorld, DefaultPalette())
		require.NoError(t, err)

		var tagErr *InvalidTagError
		require.ErrorAs(t, b.AddNote(n), &tagErr)
		assert.Equal(t, TagWorld, tagErr.Tag)
		assert.Equal(t, 0, b.Len())
	})

	t.Run("Nil Note", func(t *testing.T) {
		b := NewBoard()
		assert.ErrorIs(t, b.AddNote(nil), ErrNilNote)
		assert.Equal(t, 0, b.Len())
	})

	t.Run("Explicit ID Advances Counter", func(t *testing.T) {
		b := NewBoard()
		n, err := NewNote(7, Point{}, TagScene, DefaultPalette())
		require.NoError(t, err)
		require.NoError(t, b.AddNote(n))

		next, err := b.CreateNote(Point{}, TagScene)
		require.NoError(t, err)
		assert.Equal(t, NoteID(8), next.ID)
	})
}

func TestBoard_GridSizeDisabled(t *testing.T) {
	for _, size := range []float64{0, -1, -25} {
		b := NewBoard(WithGridSize(size))
		assert.Equal(t, 0.0, b.GridSize())

		n, err := b.CreateNote(Point{X: 13, Y: 27}, TagScene)
		require.NoError(t, err)
		require.NoError(t, b.SnapNote(n.ID))
		assert.Equal(t, Point{X: 13, Y: 27}, n.Position)
	}

	assert.Equal(t, DefaultGridSize, NewBoard(WithGridSize(math.NaN())).GridSize())
}
