package core

import "context"

// Store defines the contract for persisting a board document.
// Adhering to this interface keeps the core independent of the
// storage mechanism (a JSON file, YAML, an in-memory fake).
type Store interface {
	// Load reads every record of the document. A missing document yields ErrDocumentNotFound.
	Load(ctx context.Context) ([]Record, error)

	// Save replaces the whole document. Implementations must not leave a partially written document behind.
	Save(ctx context.Context, records []Record) error
}

// Watchable defines an interface for stores that report external changes to the document.
type Watchable interface {
	// Watch emits an event whenever the document changes on the backing medium.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan Event, error)
}

// ReadOnly is implemented by stores that may refuse writes.
type ReadOnly interface {
	IsReadOnly() bool
}
