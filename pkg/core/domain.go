// Package core holds the note-card spatial model: notes, the board that orders
// them, the zoom viewport, edit sessions, drag gestures, and the Service that
// guards a board and moves it to and from a Store.
package core

import "fmt"

// EventType represents the type of change to the board document.
type EventType string

const (
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	EventReload EventType = "RELOAD"
)

// Event represents a change to the board document.
type Event struct {
	Type      EventType
	Path      string
	Notes     int   // Note count after a reload
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Path)
}
