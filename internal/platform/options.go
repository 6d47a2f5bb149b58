package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/storyboard/pkg/core"
)

// options holds the internal configuration for a storyboard Service.
// Pointer fields distinguish "not set" from zero so that config file values
// only fill what the caller left open.
type options struct {
	store        core.Store
	logger       *slog.Logger
	palette      *core.Palette
	gridSize     *float64
	noteSize     *core.Size
	readOnly     *bool
	strict       *bool
	documentPath string
	mustExist    bool
	debounce     time.Duration
	eventBuffer  int
	errorHandler func(error)
	config       *Config
	configFile   string
}

// Option defines a functional option for configuring a storyboard Service.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the service and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPalette replaces the tag palette of the board.
func WithPalette(p core.Palette) Option {
	return func(o *options) {
		o.palette = &p
	}
}

// WithGridSize sets the snapping grid. Zero or negative disables snapping.
func WithGridSize(size float64) Option {
	return func(o *options) {
		o.gridSize = &size
	}
}

// WithNoteSize sets the size given to newly created notes.
func WithNoteSize(s core.Size) Option {
	return func(o *options) {
		o.noteSize = &s
	}
}

// WithReadOnly enables read-only mode.
// Save returns core.ErrReadOnly and initialization creates nothing on disk.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = &enabled
	}
}

// WithStrict rejects unknown fields in board records.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = &strict
	}
}

// WithStore injects a custom store (e.g. a mock).
// If provided, the filesystem adapter is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithDocumentPath sets the board document path. Relative paths are
// resolved against the board root.
func WithDocumentPath(path string) Option {
	return func(o *options) {
		o.documentPath = path
	}
}

// WithMustExist makes initialization fail when the board document is missing.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithWatchDebounce sets the window used to coalesce file change bursts.
func WithWatchDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithEventBuffer sets the size of the Watch event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures
// (e.g. permission denied), which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithConfig supplies an already loaded configuration.
// Explicit options still take precedence over its values.
func WithConfig(cfg *Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithConfigFile loads configuration from the given file instead of
// discovering one in the board root.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFile = path
	}
}
