package storyboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/storyboard/internal/platform"
	"github.com/aretw0/storyboard/pkg/core"
)

// --- Types ---

type (
	Service      = core.Service
	Note         = core.Note
	NoteID       = core.NoteID
	Point        = core.Point
	Size         = core.Size
	Rect         = core.Rect
	Tag          = core.Tag
	Color        = core.Color
	Palette      = core.Palette
	PaletteEntry = core.PaletteEntry
	Record       = core.Record
	Viewport     = core.Viewport
	EditSession  = core.EditSession
	DragGesture  = core.DragGesture
	Event        = core.Event
	Store        = core.Store
)

// Config mirrors the storyboard.yaml / storyboard.toml file.
type Config = platform.Config

const (
	TagScene     = core.TagScene
	TagCharacter = core.TagCharacter
	TagTwist     = core.TagTwist
	TagWorld     = core.TagWorld
)

var (
	ErrNoteNotFound      = core.ErrNoteNotFound
	ErrInvalidZoom       = core.ErrInvalidZoom
	ErrInvalidMove       = core.ErrInvalidMove
	ErrNilNote           = core.ErrNilNote
	ErrDuplicateNoteID   = core.ErrDuplicateNoteID
	ErrGestureState      = core.ErrGestureState
	ErrReadOnly          = core.ErrReadOnly
	ErrDocumentNotFound  = core.ErrDocumentNotFound
	ErrUnsupportedFormat = core.ErrUnsupportedFormat
	ErrRootNotFound      = platform.ErrRootNotFound
)

// --- Configuration ---

// Option defines a functional option for configuring a board Service.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithPalette replaces the default tag palette.
func WithPalette(p Palette) Option {
	return platform.WithPalette(p)
}

// WithGridSize sets the snapping grid. Zero or negative disables snapping.
func WithGridSize(size float64) Option {
	return platform.WithGridSize(size)
}

// WithNoteSize sets the size of new notes.
func WithNoteSize(s Size) Option {
	return platform.WithNoteSize(s)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithStrict rejects unknown record fields on load.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithStore injects a custom storage adapter.
func WithStore(store Store) Option {
	return platform.WithStore(store)
}

// WithDocumentPath sets the board document path, relative to the root.
func WithDocumentPath(path string) Option {
	return platform.WithDocumentPath(path)
}

// WithMustExist requires the board document to exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithWatchDebounce sets the file change coalescing window.
func WithWatchDebounce(d time.Duration) Option {
	return platform.WithWatchDebounce(d)
}

// WithEventBuffer sets the size of the Watch event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for runtime watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithConfig supplies a loaded configuration.
func WithConfig(cfg *Config) Option {
	return platform.WithConfig(cfg)
}

// WithConfigFile loads configuration from path.
func WithConfigFile(path string) Option {
	return platform.WithConfigFile(path)
}

// --- Factory ---

// New creates a board Service for the board rooted at root.
func New(root string, opts ...Option) (*Service, error) {
	return platform.New(root, opts...)
}

// Init initializes the board store explicitly.
func Init(root string, opts ...Option) (Store, error) {
	return platform.Init(root, opts...)
}

// InitBoard scaffolds a config file and an empty document under root.
func InitBoard(ctx context.Context, root string, opts ...Option) (bool, error) {
	return platform.InitBoard(ctx, root, opts...)
}

// --- Utils ---

// FindBoardRoot looks upwards from startDir for a board root.
func FindBoardRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// FindConfig returns the config file present in dir, if any.
func FindConfig(dir string) (string, bool) {
	return platform.FindConfig(dir)
}

// LoadConfig reads a storyboard config file.
func LoadConfig(path string) (*Config, error) {
	return platform.LoadConfig(path)
}

// DefaultPalette returns the standard story palette.
func DefaultPalette() Palette {
	return core.DefaultPalette()
}

// NewPalette builds a palette from ordered entries.
func NewPalette(entries ...PaletteEntry) Palette {
	return core.NewPalette(entries...)
}

// ParseColor parses a "#rrggbb" color.
func ParseColor(s string) (Color, error) {
	return core.ParseColor(s)
}

// NewDragGesture starts an idle drag gesture over svc.
func NewDragGesture(svc *Service) *DragGesture {
	return core.NewDragGesture(svc)
}
