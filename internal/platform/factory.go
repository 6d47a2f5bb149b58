package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/storyboard/pkg/adapters/fs"
	"github.com/aretw0/storyboard/pkg/core"
)

// New builds a Service for the board rooted at root.
//
//	svc, err := storyboard.New("./stories", storyboard.WithGridSize(10))
//
// Config file values (storyboard.yaml or storyboard.toml in root) fill
// anything the options leave unset. The board is not loaded; call Load.
func New(root string, opts ...Option) (*core.Service, error) {
	o, err := resolve(root, opts)
	if err != nil {
		return nil, err
	}

	store, err := initStore(root, o)
	if err != nil {
		return nil, err
	}

	return core.NewService(store, core.ServiceConfig{
		Board:       core.NewBoard(o.boardOptions()...),
		Logger:      o.logger,
		EventBuffer: o.eventBuffer,
	}), nil
}

// Init prepares the store of the board rooted at root and returns it.
func Init(root string, opts ...Option) (core.Store, error) {
	o, err := resolve(root, opts)
	if err != nil {
		return nil, err
	}
	return initStore(root, o)
}

// InitBoard scaffolds a new board: a storyboard.yaml when no config exists
// and an empty document when none exists. It reports whether the document
// was created.
func InitBoard(ctx context.Context, root string, opts ...Option) (bool, error) {
	if _, ok := FindConfig(root); !ok {
		o := buildOptions(opts)
		if o.config == nil && o.configFile == "" {
			cfg := DefaultConfig()
			if o.documentPath != "" {
				cfg.DocumentPath = o.documentPath
			}
			if err := ensureDir(root); err != nil {
				return false, err
			}
			if err := WriteConfig(filepath.Join(root, ConfigFileNames[0]), cfg); err != nil {
				return false, fmt.Errorf("failed to write config: %w", err)
			}
		}
	}

	store, err := Init(root, opts...)
	if err != nil {
		return false, err
	}

	if _, err := store.Load(ctx); err == nil {
		return false, nil
	} else if !errors.Is(err, core.ErrDocumentNotFound) {
		return false, err
	}

	if err := store.Save(ctx, nil); err != nil {
		return false, err
	}
	return true, nil
}

// resolve applies opts, then fills the gaps from the config file.
func resolve(root string, opts []Option) (*options, error) {
	o := buildOptions(opts)

	cfg := o.config
	if cfg == nil {
		path := o.configFile
		if path == "" {
			path, _ = FindConfig(root)
		}
		if path != "" {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}
	if cfg != nil {
		if err := cfg.apply(o); err != nil {
			return nil, err
		}
	}

	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.documentPath == "" {
		o.documentPath = fs.DefaultDocumentName
	}
	if !filepath.IsAbs(o.documentPath) {
		o.documentPath = filepath.Join(root, o.documentPath)
	}
	return o, nil
}

func (o *options) boardOptions() []core.BoardOption {
	var bopts []core.BoardOption
	if o.palette != nil {
		bopts = append(bopts, core.WithPalette(*o.palette))
	}
	if o.gridSize != nil {
		bopts = append(bopts, core.WithGridSize(*o.gridSize))
	}
	if o.noteSize != nil {
		bopts = append(bopts, core.WithNoteSize(*o.noteSize))
	}
	return bopts
}

// initStore returns the injected store or initializes the filesystem adapter.
func initStore(root string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	readOnly := o.readOnly != nil && *o.readOnly
	strict := o.strict != nil && *o.strict
	o.logger.Debug("opening board", "root", root, "document", o.documentPath, "read_only", readOnly)

	repo := fs.NewRepository(fs.Config{
		Path:         o.documentPath,
		MustExist:    o.mustExist,
		ReadOnly:     readOnly,
		Strict:       strict,
		Logger:       o.logger,
		Debounce:     o.debounce,
		ErrorHandler: o.errorHandler,
	})
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create board root: %w", err)
	}
	return nil
}
