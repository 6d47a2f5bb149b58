package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
)

const defaultEventBuffer = 100

// ServiceConfig holds the collaborators of a Service.
type ServiceConfig struct {
	Board       *Board       // Defaults to NewBoard()
	Logger      *slog.Logger // Defaults to a discarding logger
	EventBuffer int          // Size of the Watch output buffer. Zero means default (100).
}

// Service guards a Board behind a single lock and moves it to and from a Store.
// Every Board operation goes through here once background watching is in use.
type Service struct {
	mu              sync.RWMutex
	board           *Board
	store           Store
	logger          *slog.Logger
	eventBufferSize int
	synced          []Record // Last records loaded from or saved to the store
}

// NewService creates a new Service.
func NewService(store Store, cfg ServiceConfig) *Service {
	if cfg.Board == nil {
		cfg.Board = NewBoard()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	return &Service{
		board:           cfg.Board,
		store:           store,
		logger:          cfg.Logger,
		eventBufferSize: cfg.EventBuffer,
	}
}

// Palette returns the board palette.
func (s *Service) Palette() Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.Palette()
}

// CreateNote adds a default note under a screen-space pointer location.
func (s *Service) CreateNote(screen Point, tag Tag) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.board.CreateNoteAt(screen, tag)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("note created", "id", n.ID, "x", n.Position.X, "y", n.Position.Y, "tag", n.Tag)
	return n.Clone(), nil
}

// Note returns a copy of the note with the given id.
func (s *Service) Note(id NoteID) (*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, err := s.board.Note(id)
	if err != nil {
		return nil, err
	}
	return n.Clone(), nil
}

// Notes returns copies of all notes in creation order.
func (s *Service) Notes() []*Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notes := s.board.Notes()
	for i, n := range notes {
		notes[i] = n.Clone()
	}
	return notes
}

// NoteAt returns a copy of the topmost note under a screen point.
func (s *Service) NoteAt(screen Point) (*Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.board.NoteAt(screen)
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// Edit runs fn against an edit session on note id while holding the board lock.
func (s *Service) Edit(id NoteID, fn func(*EditSession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.board.Edit(id)
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}
	s.logger.Debug("note edited", "id", id)
	return nil
}

// MoveNoteOnScreen implements Canvas.
func (s *Service) MoveNoteOnScreen(id NoteID, dx, dy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.MoveNoteOnScreen(id, dx, dy)
}

// SnapNote implements Canvas.
func (s *Service) SnapNote(id NoteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.SnapNote(id)
}

// SnapAll aligns every note to the grid.
func (s *Service) SnapAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.board.Notes() {
		n.SnapToGrid(s.board.GridSize())
	}
}

// ApplyZoom zooms the view by factor about a screen-space pivot.
func (s *Service) ApplyZoom(factor float64, pivot Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.ApplyZoom(factor, pivot)
}

// SetZoomScale sets an absolute zoom scale.
func (s *Service) SetZoomScale(scale float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.SetZoomScale(scale)
}

// Viewport returns the current view transform.
func (s *Service) Viewport() Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.Viewport()
}

// Load replaces the board with the stored document.
// On any failure the current board is kept as it was.
func (s *Service) Load(ctx context.Context) error {
	records, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.board.Deserialize(records); err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}
	s.synced = records
	s.logger.Debug("board loaded", "notes", len(records))
	return nil
}

// Save writes the board to the store. The viewport is not saved.
func (s *Service) Save(ctx context.Context) error {
	if ro, ok := s.store.(ReadOnly); ok && ro.IsReadOnly() {
		return ErrReadOnly
	}

	s.mu.RLock()
	records := s.board.Serialize()
	s.mu.RUnlock()

	if err := s.store.Save(ctx, records); err != nil {
		return fmt.Errorf("failed to save board: %w", err)
	}

	s.mu.Lock()
	s.synced = records
	s.mu.Unlock()
	s.logger.Debug("board saved", "notes", len(records))
	return nil
}

// Watch reloads the board whenever the store reports an external change.
// Each successful reload is reported as an EventReload; changes identical to what
// this service last loaded or saved are skipped. Failed reloads are logged and
// leave the board untouched.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	upstream, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan Event, s.eventBufferSize)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-upstream:
				if !ok {
					return nil
				}
				reloaded, ok := s.reload(ctx, e)
				if !ok {
					continue
				}
				select {
				case out <- reloaded:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("board watch loop failed", "error", err)
	}))

	return out, nil
}

func (s *Service) reload(ctx context.Context, e Event) (Event, bool) {
	if e.Type == EventDelete {
		s.logger.Warn("board document removed, keeping notes in memory", "path", e.Path)
		return Event{}, false
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("reload failed, keeping current board", "path", e.Path, "error", err)
		return Event{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.synced != nil && reflect.DeepEqual(normalizeRecords(records), normalizeRecords(s.synced)) {
		return Event{}, false
	}
	if err := s.board.Deserialize(records); err != nil {
		s.logger.Warn("reload rejected, keeping current board", "path", e.Path, "error", err)
		return Event{}, false
	}
	s.synced = records
	s.logger.Info("board reloaded", "path", e.Path, "notes", len(records))

	return Event{
		Type:      EventReload,
		Path:      e.Path,
		Notes:     len(records),
		Timestamp: time.Now().Unix(),
	}, true
}

// normalizeRecords makes nil and empty bullet lists compare equal.
func normalizeRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		if r.Bullets == nil {
			r.Bullets = []string{}
		}
		out[i] = r
	}
	return out
}
