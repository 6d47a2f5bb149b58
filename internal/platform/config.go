package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/storyboard/pkg/core"
)

// ConfigFileNames lists the recognised config files, in lookup order.
var ConfigFileNames = []string{"storyboard.yaml", "storyboard.yml", "storyboard.toml"}

// Config mirrors the storyboard config file.
type Config struct {
	DocumentPath string          `yaml:"document_path" toml:"document_path"`
	GridSize     *float64        `yaml:"grid_size" toml:"grid_size"` // Zero or negative disables snapping
	NoteWidth    float64         `yaml:"note_width" toml:"note_width"`
	NoteHeight   float64         `yaml:"note_height" toml:"note_height"`
	ReadOnly     bool            `yaml:"read_only" toml:"read_only"`
	Strict       bool            `yaml:"strict" toml:"strict"`
	LogLevel     string          `yaml:"log_level" toml:"log_level"`
	Palette      []PaletteConfig `yaml:"palette" toml:"palette"`
}

// PaletteConfig is one ordered tag to color entry.
type PaletteConfig struct {
	Tag   string `yaml:"tag" toml:"tag"`
	Color string `yaml:"color" toml:"color"`
}

// DefaultConfig returns the values written by InitBoard.
func DefaultConfig() *Config {
	grid := core.DefaultGridSize
	cfg := &Config{
		DocumentPath: "board.json",
		GridSize:     &grid,
		NoteWidth:    core.DefaultNoteSize.Width,
		NoteHeight:   core.DefaultNoteSize.Height,
		LogLevel:     "info",
	}
	for _, e := range core.DefaultPalette().Entries() {
		cfg.Palette = append(cfg.Palette, PaletteConfig{Tag: string(e.Tag), Color: e.Color.Hex()})
	}
	return cfg
}

// LoadConfig reads a YAML or TOML config file, chosen by extension.
// Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse %s: unknown key %q", path, undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: config %s", core.ErrUnsupportedFormat, path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// FindConfig returns the first config file present in dir.
func FindConfig(dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if hasFile(dir, name) {
			return path, true
		}
	}
	return "", false
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var errs error
	if c.NoteWidth < 0 || c.NoteHeight < 0 {
		errs = multierr.Append(errs, fmt.Errorf("note size must not be negative"))
	}
	if _, err := c.Level(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := c.BoardPalette(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

// Level parses log_level. Empty means info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// BoardPalette builds the configured palette, or the default one when none is set.
func (c *Config) BoardPalette() (core.Palette, error) {
	if len(c.Palette) == 0 {
		return core.DefaultPalette(), nil
	}
	var errs error
	entries := make([]core.PaletteEntry, 0, len(c.Palette))
	for i, p := range c.Palette {
		if strings.TrimSpace(p.Tag) == "" {
			errs = multierr.Append(errs, fmt.Errorf("palette[%d]: empty tag", i))
			continue
		}
		color, err := core.ParseColor(p.Color)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("palette[%d]: %w", i, err))
			continue
		}
		entries = append(entries, core.PaletteEntry{Tag: core.Tag(p.Tag), Color: color})
	}
	if errs != nil {
		return core.Palette{}, errs
	}
	return core.NewPalette(entries...), nil
}

// WriteConfig stores cfg as YAML or TOML, chosen by extension.
func WriteConfig(path string, cfg *Config) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: config %s", core.ErrUnsupportedFormat, path)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// apply fills every option the caller did not set from the config values.
func (c *Config) apply(o *options) error {
	if o.documentPath == "" {
		o.documentPath = c.DocumentPath
	}
	if o.gridSize == nil && c.GridSize != nil {
		grid := *c.GridSize
		o.gridSize = &grid
	}
	if o.noteSize == nil && c.NoteWidth > 0 && c.NoteHeight > 0 {
		o.noteSize = &core.Size{Width: c.NoteWidth, Height: c.NoteHeight}
	}
	if o.readOnly == nil {
		ro := c.ReadOnly
		o.readOnly = &ro
	}
	if o.strict == nil {
		strict := c.Strict
		o.strict = &strict
	}
	if o.palette == nil && len(c.Palette) > 0 {
		p, err := c.BoardPalette()
		if err != nil {
			return err
		}
		o.palette = &p
	}
	return nil
}
