package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/storyboard/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockStore keeps the document in memory.
// It implements core.Watchable and core.ReadOnly so the Service paths can be driven by hand.
type MockStore struct {
	mu       sync.Mutex
	records  []core.Record
	exists   bool
	loadErr  error
	readOnly bool
	events   chan core.Event
}

func NewMockStore() *MockStore {
	return &MockStore{events: make(chan core.Event)}
}

func (m *MockStore) Load(ctx context.Context) ([]core.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.exists {
		return nil, core.ErrDocumentNotFound
	}
	return append([]core.Record(nil), m.records...), nil
}

func (m *MockStore) Save(ctx context.Context, records []core.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]core.Record(nil), records...)
	m.exists = true
	return nil
}

func (m *MockStore) Watch(ctx context.Context) (<-chan core.Event, error) {
	return m.events, nil
}

func (m *MockStore) IsReadOnly() bool { return m.readOnly }

func (m *MockStore) put(records []core.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
	m.exists = true
}

func TestService_SaveLoad(t *testing.T) {
	store := NewMockStore()
	svc := core.NewService(store, core.ServiceConfig{})
	ctx := context.TODO()

	n, err := svc.CreateNote(core.Point{X: 37, Y: 53}, "")
	require.NoError(t, err)
	require.NoError(t, svc.Edit(n.ID, func(s *core.EditSession) error {
		return s.Save("Hero meets Villain", []string{"First clue", "Betrayal"}, core.TagTwist)
	}))
	require.NoError(t, svc.SnapNote(n.ID))
	require.NoError(t, svc.ApplyZoom(1.25, core.Point{X: 10, Y: 10}))
	require.NoError(t, svc.Save(ctx))

	require.Len(t, store.records, 1)
	assert.Equal(t, core.Record{
		X: 40, Y: 60,
		Title:   "Hero meets Villain",
		Bullets: []string{"First clue", "Betrayal"},
		Tag:     "Twist",
		Color:   "#f48fb1",
	}, store.records[0])

	other := core.NewService(store, core.ServiceConfig{})
	require.NoError(t, other.Load(ctx))
	notes := other.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, 6, notes[0].WordCount())
	assert.InDelta(t, 1.0, other.Viewport().Scale, 1e-9, "zoom is not persisted")
}

func TestService_LoadFailureKeepsBoard(t *testing.T) {
	store := NewMockStore()
	svc := core.NewService(store, core.ServiceConfig{})
	ctx := context.TODO()

	_, err := svc.CreateNote(core.Point{}, "")
	require.NoError(t, err)

	err = svc.Load(ctx)
	assert.ErrorIs(t, err, core.ErrDocumentNotFound)
	assert.Len(t, svc.Notes(), 1)

	store.put([]core.Record{{Title: "x", Tag: "Villain", Color: "#000000"}})
	err = svc.Load(ctx)
	var docErr *core.InvalidDocumentError
	assert.ErrorAs(t, err, &docErr)
	assert.Len(t, svc.Notes(), 1)
}

func TestService_NotesAreCopies(t *testing.T) {
	svc := core.NewService(NewMockStore(), core.ServiceConfig{})
	n, err := svc.CreateNote(core.Point{}, "")
	require.NoError(t, err)

	n.Title = "mutated outside"
	got, err := svc.Note(n.ID)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultTitle, got.Title)
}

func TestService_ReadOnly(t *testing.T) {
	store := NewMockStore()
	store.readOnly = true
	svc := core.NewService(store, core.ServiceConfig{})

	assert.ErrorIs(t, svc.Save(context.TODO()), core.ErrReadOnly)
}

func TestService_DragThroughService(t *testing.T) {
	svc := core.NewService(NewMockStore(), core.ServiceConfig{})
	n, err := svc.CreateNote(core.Point{}, "")
	require.NoError(t, err)

	g := core.NewDragGesture(svc)
	require.NoError(t, g.PointerDown(n.ID, core.Point{}))
	require.NoError(t, g.PointerUp(core.Point{X: 31, Y: 9}))

	got, err := svc.Note(n.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Point{X: 40, Y: 0}, got.Position)
}

func TestService_WatchReloads(t *testing.T) {
	store := NewMockStore()
	svc := core.NewService(store, core.ServiceConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := svc.Watch(ctx)
	require.NoError(t, err)

	// An invalid document is ignored and the next valid one is picked up.
	store.put([]core.Record{{Title: "bad", Tag: "Villain", Color: "#000000"}})
	store.events <- core.Event{Type: core.EventModify, Path: "board.json"}

	store.put([]core.Record{{X: 1, Y: 2, Title: "good", Bullets: []string{}, Tag: "World", Color: "#a5d6a7"}})
	store.events <- core.Event{Type: core.EventModify, Path: "board.json"}

	select {
	case e := <-stream:
		assert.Equal(t, core.EventReload, e.Type)
		assert.Equal(t, 1, e.Notes)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload event")
	}

	notes := svc.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "good", notes[0].Title)
}

func TestService_WatchSkipsOwnWrites(t *testing.T) {
	store := NewMockStore()
	svc := core.NewService(store, core.ServiceConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := svc.CreateNote(core.Point{}, "")
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx))

	stream, err := svc.Watch(ctx)
	require.NoError(t, err)
	store.events <- core.Event{Type: core.EventModify, Path: "board.json"}

	select {
	case e := <-stream:
		t.Fatalf("unexpected reload event %v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestService_WatchUnsupported(t *testing.T) {
	svc := core.NewService(plainStore{}, core.ServiceConfig{})
	_, err := svc.Watch(context.TODO())
	assert.Error(t, err)
}

type plainStore struct{}

func (plainStore) Load(ctx context.Context) ([]core.Record, error) {
	return nil, errors.New("not implemented")
}
func (plainStore) Save(ctx context.Context, records []core.Record) error { return nil }

func TestService_State(t *testing.T) {
	svc := core.NewService(NewMockStore(), core.ServiceConfig{EventBuffer: 7})
	_, err := svc.CreateNote(core.Point{}, "")
	require.NoError(t, err)

	state, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Notes)
	assert.Equal(t, 7, state.EventBufferSize)
	assert.Equal(t, "store", state.StoreType)
	assert.Equal(t, "service", svc.ComponentType())
}
