package core

// Canvas is what a drag gesture drives. Both *Board and *Service implement it.
type Canvas interface {
	MoveNoteOnScreen(id NoteID, dx, dy float64) error
	SnapNote(id NoteID) error
}

// GestureState is the state of a DragGesture.
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDragging
)

func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DragGesture turns pointer events into note moves:
// Idle -(down)-> Dragging -(move)*-> Dragging -(up: snap)-> Idle.
type DragGesture struct {
	canvas Canvas
	state  GestureState
	target NoteID
	last   Point
}

// NewDragGesture creates an idle recognizer bound to canvas.
func NewDragGesture(canvas Canvas) *DragGesture {
	return &DragGesture{canvas: canvas}
}

// State returns the current state.
func (g *DragGesture) State() GestureState {
	return g.state
}

// Target returns the note being dragged and whether a drag is in progress.
func (g *DragGesture) Target() (NoteID, bool) {
	return g.target, g.state == GestureDragging
}

// PointerDown starts dragging note id from screen point p.
func (g *DragGesture) PointerDown(id NoteID, p Point) error {
	if g.state != GestureIdle {
		return ErrGestureState
	}
	g.state = GestureDragging
	g.target = id
	g.last = p
	return nil
}

// PointerMove drags the target by the delta since the previous pointer event.
func (g *DragGesture) PointerMove(p Point) error {
	if g.state != GestureDragging {
		return ErrGestureState
	}
	delta := p.Sub(g.last)
	if err := g.canvas.MoveNoteOnScreen(g.target, delta.X, delta.Y); err != nil {
		g.reset()
		return err
	}
	g.last = p
	return nil
}

// PointerUp finishes the drag at p and snaps the note to the grid.
func (g *DragGesture) PointerUp(p Point) error {
	if g.state != GestureDragging {
		return ErrGestureState
	}
	defer g.reset()
	delta := p.Sub(g.last)
	if delta != (Point{}) {
		if err := g.canvas.MoveNoteOnScreen(g.target, delta.X, delta.Y); err != nil {
			return err
		}
	}
	return g.canvas.SnapNote(g.target)
}

// Cancel abandons a drag without snapping.
func (g *DragGesture) Cancel() {
	g.reset()
}

func (g *DragGesture) reset() {
	g.state = GestureIdle
	g.target = 0
	g.last = Point{}
}
