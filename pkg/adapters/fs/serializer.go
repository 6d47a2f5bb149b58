package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/storyboard/pkg/core"
)

// Serializer defines how a board document is read and written in a specific file format.
type Serializer interface {
	// Decode reads a whole document. Malformed input yields *core.InvalidDocumentError.
	Decode(r io.Reader) ([]core.Record, error)
	// Encode converts records to bytes.
	Encode(records []core.Record) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by file extension.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(strict),
		".yaml": NewYAMLSerializer(strict),
		".yml":  NewYAMLSerializer(strict),
	}
}

// wireRecord mirrors core.Record with pointers so absent fields can be told apart from zero values.
type wireRecord struct {
	X       *float64  `json:"x" yaml:"x"`
	Y       *float64  `json:"y" yaml:"y"`
	Title   *string   `json:"title" yaml:"title"`
	Bullets *[]string `json:"bullets" yaml:"bullets"`
	Tag     *string   `json:"tag" yaml:"tag"`
	Color   *string   `json:"color" yaml:"color"`
}

func (w wireRecord) toRecord(index int) (core.Record, error) {
	missing := func(field string) error {
		return &core.InvalidRecordError{Index: index, Field: field, Reason: "missing"}
	}

	var err error
	if w.X == nil {
		err = multierr.Append(err, missing("x"))
	}
	if w.Y == nil {
		err = multierr.Append(err, missing("y"))
	}
	if w.Title == nil {
		err = multierr.Append(err, missing("title"))
	}
	if w.Bullets == nil {
		err = multierr.Append(err, missing("bullets"))
	}
	if w.Tag == nil {
		err = multierr.Append(err, missing("tag"))
	}
	if w.Color == nil {
		err = multierr.Append(err, missing("color"))
	}
	if err != nil {
		return core.Record{}, err
	}

	return core.Record{
		X:       *w.X,
		Y:       *w.Y,
		Title:   *w.Title,
		Bullets: *w.Bullets,
		Tag:     *w.Tag,
		Color:   *w.Color,
	}, nil
}

// normalize makes sure empty bullet lists are written as [] rather than null.
func normalize(records []core.Record) []core.Record {
	out := make([]core.Record, len(records))
	for i, r := range records {
		if r.Bullets == nil {
			r.Bullets = []string{}
		}
		out[i] = r
	}
	return out
}

// --- JSON Serializer ---

// JSONSerializer handles the canonical JSON board document.
type JSONSerializer struct {
	// Strict rejects records carrying unknown fields.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Decode(r io.Reader) ([]core.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &core.InvalidDocumentError{Errs: []error{errors.New("document is not a JSON array")}}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &core.InvalidDocumentError{Errs: []error{fmt.Errorf("invalid json: %w", err)}}
	}

	var errs error
	records := make([]core.Record, 0, len(raw))
	for i, item := range raw {
		var w wireRecord
		decoder := json.NewDecoder(bytes.NewReader(item))
		if s.Strict {
			decoder.DisallowUnknownFields()
		}
		if err := decoder.Decode(&w); err != nil {
			errs = multierr.Append(errs, jsonRecordError(i, err))
			continue
		}
		rec, err := w.toRecord(i)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	if errs != nil {
		return nil, core.NewInvalidDocumentError(errs)
	}
	return records, nil
}

func jsonRecordError(index int, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "record"
		}
		return &core.InvalidRecordError{
			Index:  index,
			Field:  field,
			Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
		}
	}
	return &core.InvalidRecordError{Index: index, Field: "record", Reason: err.Error()}
}

func (s *JSONSerializer) Encode(records []core.Record) ([]byte, error) {
	return json.MarshalIndent(normalize(records), "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer stores the same records as a YAML sequence.
type YAMLSerializer struct {
	// Strict rejects records carrying unknown fields.
	Strict bool
}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict}
}

func (s *YAMLSerializer) Decode(r io.Reader) ([]core.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &core.InvalidDocumentError{Errs: []error{fmt.Errorf("invalid yaml: %w", err)}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 || root.Content[0].Kind != yaml.SequenceNode {
		return nil, &core.InvalidDocumentError{Errs: []error{errors.New("document is not a YAML sequence")}}
	}

	items := root.Content[0].Content
	var errs error
	records := make([]core.Record, 0, len(items))
	for i, item := range items {
		if item.Kind != yaml.MappingNode {
			errs = multierr.Append(errs, &core.InvalidRecordError{Index: i, Field: "record", Reason: "not a mapping"})
			continue
		}
		if s.Strict {
			if field, ok := unknownYAMLField(item); ok {
				errs = multierr.Append(errs, &core.InvalidRecordError{Index: i, Field: field, Reason: "unknown field"})
				continue
			}
		}
		var w wireRecord
		if err := item.Decode(&w); err != nil {
			errs = multierr.Append(errs, &core.InvalidRecordError{Index: i, Field: "record", Reason: err.Error()})
			continue
		}
		rec, err := w.toRecord(i)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	if errs != nil {
		return nil, core.NewInvalidDocumentError(errs)
	}
	return records, nil
}

var knownFields = map[string]bool{
	"x": true, "y": true, "title": true, "bullets": true, "tag": true, "color": true,
}

func unknownYAMLField(mapping *yaml.Node) (string, bool) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		if !knownFields[key] {
			return key, true
		}
	}
	return "", false
}

func (s *YAMLSerializer) Encode(records []core.Record) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(normalize(records)); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
