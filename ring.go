package wysiwyg

import "log/slog"

// ring is the undo engine: a fixed-capacity circular log of batches. Three
// circular indices track the validity window. offset is the oldest batch
// still undoable, endPos is one past the newest valid batch, and pos is the
// next slot to write — equivalently the next batch to redo. The set of valid
// slots is exactly the circular half-open interval [offset, endPos); pos
// always lies within the closed circular range [offset, endPos].
type ring struct {
	slots   []*Batch
	offset  int
	pos     int
	endPos  int
	surface Surface

	// suspend runs a replay block with change capture disabled, so the
	// engine never observes its own edits. Wired by the controller.
	suspend func(func())

	logger *slog.Logger
}

func newRing(capacity int, s Surface, logger *slog.Logger) *ring {
	if capacity < 0 {
		capacity = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ring{
		slots:   make([]*Batch, capacity),
		surface: s,
		suspend: func(fn func()) { fn() },
		logger:  logger,
	}
}

// isValid reports whether slot i holds a batch inside the validity window.
func (r *ring) isValid(i int) bool {
	if r.offset == r.endPos {
		return false
	}
	if r.offset < r.endPos {
		return i >= r.offset && i < r.endPos
	}
	return i >= r.offset || i < r.endPos
}

// push logs one batch of normalized records. With appendToLast set and a
// valid most-recent slot, the records merge into that slot instead of
// opening a new undo step. Writing past a branch point (the user undid, then
// edited) discards every batch that was only reachable by redo. A zero
// capacity or an empty record list is a no-op.
func (r *ring) push(recs []*Record, appendToLast bool, before Caret) {
	c := len(r.slots)
	if c == 0 || len(recs) == 0 {
		return
	}

	if appendToLast {
		last := (r.pos - 1 + c) % c
		if r.isValid(last) && r.slots[last] != nil {
			r.slots[last].Records = append(r.slots[last].Records, recs...)
			r.logger.Debug("undo log: merged into last batch", "records", len(recs))
			return
		}
	}

	b := &Batch{Records: recs, Before: before}
	if caret, ok := r.surface.Caret(); ok {
		b.After = caret
	}
	r.slots[r.pos] = b
	r.pos = (r.pos + 1) % c
	r.endPos = r.pos
	if r.endPos == r.offset {
		// Buffer was full; the oldest batch falls out of the window.
		r.offset = (r.offset + 1) % c
	}
	// Clear every slot outside the new window so stale batches can never be
	// replayed after a branch or an overwrite.
	for i := range r.slots {
		if !r.isValid(i) {
			r.slots[i] = nil
		}
	}
	r.logger.Debug("undo log: pushed batch", "records", len(recs), "pos", r.pos)
}

// clear drops every batch and resets the window.
func (r *ring) clear() {
	for i := range r.slots {
		r.slots[i] = nil
	}
	r.offset, r.pos, r.endPos = 0, 0, 0
}

// canUndo reports whether a batch is available behind the cursor.
func (r *ring) canUndo() bool {
	c := len(r.slots)
	if c == 0 {
		return false
	}
	return r.isValid((r.pos - 1 + c) % c)
}

// canRedo reports whether a batch is available ahead of the cursor.
func (r *ring) canRedo() bool {
	if len(r.slots) == 0 {
		return false
	}
	return r.isValid(r.pos)
}

// undo reverts the newest batch behind the cursor. At the window boundary it
// is a silent no-op — a normal UI state, not a fault.
func (r *ring) undo() bool {
	c := len(r.slots)
	if c == 0 {
		return false
	}
	i := (r.pos - 1 + c) % c
	if !r.isValid(i) {
		return false
	}
	b := r.slots[i]
	r.suspend(func() {
		reverseApply(r.surface, b.Records)
		if !b.Before.IsZero() {
			r.surface.SetCaret(b.Before)
		}
	})
	r.pos = i
	r.logger.Debug("undo log: undo", "records", len(b.Records), "pos", r.pos)
	return true
}

// redo replays the batch at the cursor. At the window boundary it is a
// silent no-op.
func (r *ring) redo() bool {
	c := len(r.slots)
	if c == 0 {
		return false
	}
	if !r.isValid(r.pos) {
		return false
	}
	b := r.slots[r.pos]
	r.suspend(func() {
		forwardApply(r.surface, b.Records)
		if !b.After.IsZero() {
			r.surface.SetCaret(b.After)
		}
	})
	r.pos = (r.pos + 1) % c
	r.logger.Debug("undo log: redo", "records", len(b.Records), "pos", r.pos)
	return true
}

// reverseApply reverts records against the live tree, newest first. Text and
// attribute records capture the current live value into NewValue before
// restoring the old one, so the batch can later be replayed forward.
// Structural records detach the added nodes in reverse order, then reinsert
// the removed ones in front of their original next sibling, walking
// backwards so each insertion anchors on the previous one.
func reverseApply(s Surface, recs []*Record) {
	for i := len(recs) - 1; i >= 0; i-- {
		rec := recs[i]
		switch rec.Kind {
		case KindTextContent:
			rec.NewValue, rec.NewValueOK = s.Text(rec.Target), true
			s.SetText(rec.Target, rec.OldValue)
		case KindAttribute:
			rec.NewValue, rec.NewValueOK = s.Attr(rec.Target, rec.Attr)
			if rec.OldValueOK {
				s.SetAttr(rec.Target, rec.Attr, rec.OldValue)
			} else {
				s.RemoveAttr(rec.Target, rec.Attr)
			}
		case KindStructural:
			for j := len(rec.Added) - 1; j >= 0; j-- {
				s.RemoveChild(rec.Target, rec.Added[j])
			}
			ref := rec.NextSibling
			for j := len(rec.Removed) - 1; j >= 0; j-- {
				s.InsertBefore(rec.Target, rec.Removed[j], ref)
				ref = rec.Removed[j]
			}
		}
	}
}

// forwardApply replays records against the live tree in capture order, using
// the NewValue each record stored when it was last undone.
func forwardApply(s Surface, recs []*Record) {
	for _, rec := range recs {
		switch rec.Kind {
		case KindTextContent:
			s.SetText(rec.Target, rec.NewValue)
		case KindAttribute:
			if rec.NewValueOK {
				s.SetAttr(rec.Target, rec.Attr, rec.NewValue)
			} else {
				s.RemoveAttr(rec.Target, rec.Attr)
			}
		case KindStructural:
			for _, n := range rec.Added {
				s.InsertBefore(rec.Target, n, rec.NextSibling)
			}
			for _, n := range rec.Removed {
				s.RemoveChild(rec.Target, n)
			}
		}
	}
}
