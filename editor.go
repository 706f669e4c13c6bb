package wysiwyg

import "log/slog"

// Editor ties a Surface to the capture pipeline and the undo ring. Create
// one per editable subtree; it subscribes immediately and keeps logging
// until Close.
type Editor struct {
	surface Surface
	ring    *ring
	ctrl    *controller
	logger  *slog.Logger
}

// New attaches an editor to the surface. The zero Options value gives the
// default undo capacity.
func New(surface Surface, opts Options) *Editor {
	opts.defaults()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	capacity := opts.Capacity
	if capacity < 0 {
		capacity = 0
	}
	r := newRing(capacity, surface, logger)
	return &Editor{
		surface: surface,
		ring:    r,
		ctrl:    newController(surface, r, logger),
		logger:  logger,
	}
}

// Undo reverts the most recent undo step and repositions the caret to where
// it was before that edit. At the history boundary it is a no-op and
// returns false.
func (e *Editor) Undo() bool { return e.ring.undo() }

// Redo replays the next undone step and repositions the caret to where it
// was after that edit. At the history boundary it is a no-op and returns
// false.
func (e *Editor) Redo() bool { return e.ring.redo() }

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool { return e.ring.canUndo() }

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool { return e.ring.canRedo() }

// CompositionStart signals that an input-method composition session opened.
// Until the matching CompositionEnd, capture switches to a temporary
// structural-only mode and caret tracking is frozen.
func (e *Editor) CompositionStart() { e.ctrl.compositionStart() }

// CompositionEnd signals that the composition session settled, carrying the
// committed text. A non-empty commit is logged as a single undo step; an
// empty commit rolls the in-progress edit back without logging.
func (e *Editor) CompositionEnd(text string) { e.ctrl.compositionEnd(text) }

// CaretChanged tells the editor the selection moved without a tree edit, so
// the next batch records the right before-caret.
func (e *Editor) CaretChanged() { e.ctrl.caretChanged() }

// Close detaches the editor from the surface. The undo log is discarded.
func (e *Editor) Close() {
	e.ctrl.close()
	e.ring.clear()
}
