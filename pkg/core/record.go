package core

import (
	"fmt"
	"math"
	"strings"
)

// Record is the persisted form of a note: one element of the board document.
type Record struct {
	X       float64  `json:"x" yaml:"x"`
	Y       float64  `json:"y" yaml:"y"`
	Title   string   `json:"title" yaml:"title"`
	Bullets []string `json:"bullets" yaml:"bullets"`
	Tag     string   `json:"tag" yaml:"tag"`
	Color   string   `json:"color" yaml:"color"`
}

// Validate checks field values against the palette.
// Presence of fields is the decoder's concern; see the fs adapter.
func (r Record) Validate(palette Palette) error {
	if !isFinite(r.X) {
		return &InvalidRecordError{Index: -1, Field: "x", Reason: "not a finite number"}
	}
	if !isFinite(r.Y) {
		return &InvalidRecordError{Index: -1, Field: "y", Reason: "not a finite number"}
	}
	if len(r.Bullets) > MaxBullets {
		return &InvalidRecordError{
			Index:  -1,
			Field:  "bullets",
			Reason: fmt.Sprintf("%d bullets exceed the maximum of %d", len(r.Bullets), MaxBullets),
		}
	}
	for i, bullet := range r.Bullets {
		if bullet == "" || bullet != strings.TrimSpace(bullet) {
			return &InvalidRecordError{
				Index:  -1,
				Field:  "bullets",
				Reason: fmt.Sprintf("bullet %d is blank or has surrounding whitespace", i),
			}
		}
	}
	if !palette.Has(Tag(r.Tag)) {
		return &InvalidRecordError{Index: -1, Field: "tag", Reason: fmt.Sprintf("unknown tag %q", r.Tag)}
	}
	if _, err := ParseColor(r.Color); err != nil {
		return &InvalidRecordError{Index: -1, Field: "color", Reason: err.Error()}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
