package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/storyboard/pkg/core"
)

// DefaultDocumentName is the board file used when no path is configured.
const DefaultDocumentName = "board.json"

// Repository implements core.Store (and core.Watchable) with a single document file.
type Repository struct {
	Path string

	config      Config
	logger      *slog.Logger
	serializers map[string]Serializer

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string        // Board document path; the extension picks the serializer
	MustExist    bool          // Initialize fails when the document is missing
	ReadOnly     bool          // Save returns core.ErrReadOnly and Initialize creates nothing
	Strict       bool          // Reject unknown record fields
	Logger       *slog.Logger
	Debounce     time.Duration // Watch coalescing window. Zero means default (50ms).
	ErrorHandler func(error)   // Receives runtime watcher errors
}

// NewRepository creates a new filesystem-backed board store.
func NewRepository(config Config) *Repository {
	if config.Path == "" {
		config.Path = DefaultDocumentName
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Repository{
		Path:        config.Path,
		config:      config,
		logger:      logger,
		serializers: DefaultSerializers(config.Strict),
	}
}

// RegisterSerializer adds or overrides the serializer for a file extension (e.g. ".toml").
func (r *Repository) RegisterSerializer(ext string, s Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serializers[strings.ToLower(ext)] = s
}

func (r *Repository) serializer() (Serializer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext := strings.ToLower(filepath.Ext(r.Path))
	s, ok := r.serializers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, ext)
	}
	return s, nil
}

// IsReadOnly implements core.ReadOnly.
func (r *Repository) IsReadOnly() bool {
	return r.config.ReadOnly
}

// Initialize makes sure the document location is usable.
func (r *Repository) Initialize(ctx context.Context) error {
	if _, err := r.serializer(); err != nil {
		return err
	}

	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", core.ErrDocumentNotFound, r.Path)
		}
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("board path is a directory: %s", r.Path)
		}
		return nil
	}

	if r.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return fmt.Errorf("failed to create board directory: %w", err)
	}
	return nil
}

// Load reads and decodes the whole document.
func (r *Repository) Load(ctx context.Context) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := r.serializer()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrDocumentNotFound, r.Path)
		}
		return nil, err
	}
	defer f.Close()

	records, err := s.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.Path, err)
	}
	r.logger.Debug("board document read", "path", r.Path, "records", len(records))
	return records, nil
}

// Save encodes records and atomically replaces the document.
func (r *Repository) Save(ctx context.Context, records []core.Record) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s, err := r.serializer()
	if err != nil {
		return err
	}

	data, err := s.Encode(records)
	if err != nil {
		return fmt.Errorf("failed to serialize board: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := writeFileAtomic(r.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.recordWrite()
	r.logger.Debug("board document written", "path", r.Path, "records", len(records), "bytes", len(data))
	return nil
}

// Watch reports changes made to the document by other processes or editors.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	events := make(chan core.Event)
	w := newWatchWorker(r, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

var (
	_ core.Store     = (*Repository)(nil)
	_ core.Watchable = (*Repository)(nil)
	_ core.ReadOnly  = (*Repository)(nil)
)
