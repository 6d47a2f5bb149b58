package core

// EditSession is an open edit surface on one note.
// Opening a session clears the note's custom-color flag; picking a color
// during the session sets it, so a later tag change keeps the picked color.
type EditSession struct {
	note *Note
}

func newEditSession(n *Note) *EditSession {
	n.colorIsCustom = false
	return &EditSession{note: n}
}

// Note returns the note being edited.
func (s *EditSession) Note() *Note {
	return s.note
}

// PickColor applies a hand-picked color immediately, for live preview.
func (s *EditSession) PickColor(c Color) {
	s.note.SetColor(c)
}

// Save applies title, bullets and tag in one step.
// Both inputs are validated before anything changes, so a failed save leaves the note as it was
// (except for a color already previewed with PickColor).
func (s *EditSession) Save(title string, bullets []string, tag Tag) error {
	if _, err := cleanBullets(bullets); err != nil {
		return err
	}
	if !s.note.palette.Has(tag) {
		return &InvalidTagError{Tag: tag}
	}
	if err := s.note.SetContent(title, bullets); err != nil {
		return err
	}
	return s.note.SetTag(tag)
}
