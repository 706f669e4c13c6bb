package wysiwyg

import (
	"log/slog"

	"golang.org/x/net/html"
)

var (
	liveScope    = ObserveOptions{Children: true, Attributes: true, Text: true, Subtree: true, OldValue: true}
	scratchScope = ObserveOptions{Children: true, Subtree: true}
)

// controller owns the capture pipeline: it subscribes to tree change
// notifications, groups them into batches, runs them through the normalizer,
// and pushes the result into the undo ring. It holds two explicitly owned
// observer handles — the long-lived one and a temporary one used while an
// input-method composition session is open.
type controller struct {
	surface Surface
	ring    *ring
	norm    *normalizer
	logger  *slog.Logger

	live    ObserverHandle
	scratch ObserverHandle

	// lastCaret is the most recently observed caret; it becomes the
	// before-caret of the next batch. Frozen during composition.
	lastCaret Caret

	composing   bool
	scratchRecs []*Record
	frozenCaret Caret
	frozenNode  *html.Node
	frozenText  string
	rollback    TaskHandle

	closed bool
}

func newController(s Surface, r *ring, logger *slog.Logger) *controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &controller{surface: s, ring: r, norm: newNormalizer(s, logger), logger: logger}
	c.live = s.Observe(c.handleLive)
	c.scratch = s.Observe(c.handleScratch)
	r.suspend = c.suspended
	c.live.Start(liveScope)
	if caret, ok := s.Caret(); ok {
		c.lastCaret = caret
	}
	return c
}

// suspended runs fn with self-observation disabled, restoring it on every
// exit path. Replay and normalization edits must never be logged as new
// user edits.
func (c *controller) suspended(fn func()) {
	c.live.Stop()
	defer func() {
		if !c.closed && !c.composing {
			c.live.Start(liveScope)
		}
	}()
	fn()
}

// handleLive processes one delivered notification batch: it copies the raw
// notifications into stable records, normalizes them against the live tree,
// and logs the result as a single undo step.
func (c *controller) handleLive(raw []*Record) {
	recs := cloneRecords(raw)
	before := c.lastCaret
	c.suspended(func() {
		recs = c.norm.run(recs)
		c.ring.push(recs, false, before)
	})
	if caret, ok := c.surface.Caret(); ok {
		c.lastCaret = caret
	}
	c.logger.Debug("capture: batch logged", "records", len(recs))
}

// handleScratch accumulates structural notifications observed during a
// composition session. No normalization, no logging — the session settles
// into one batch (or nothing) when the composition ends.
func (c *controller) handleScratch(raw []*Record) {
	c.scratchRecs = append(c.scratchRecs, cloneRecords(raw)...)
}

// caretChanged refreshes the observed caret between edits. Ignored while a
// composition freezes caret tracking.
func (c *controller) caretChanged() {
	if c.composing {
		return
	}
	if caret, ok := c.surface.Caret(); ok {
		c.lastCaret = caret
	}
}

// compositionStart switches to the temporary structural-only capture. Caret
// tracking freezes at the value observed now, and the live text value of the
// caret's text container is recorded so the session can be committed as a
// single text record or rolled back exactly.
//
// A rollback still pending from a cancelled session runs first, so sessions
// are strictly sequenced.
func (c *controller) compositionStart() {
	if c.rollback != nil {
		c.rollback.Cancel()
		c.rollback = nil
		c.performRollback()
	}
	if c.composing || c.closed {
		return
	}
	c.composing = true
	c.frozenNode = nil
	c.frozenText = ""
	c.frozenCaret = Caret{}
	if caret, ok := c.surface.Caret(); ok {
		c.frozenCaret = caret
		c.lastCaret = caret
		if caret.StartContainer != nil && caret.StartContainer.Type == html.TextNode {
			c.frozenNode = caret.StartContainer
			c.frozenText = c.surface.Text(c.frozenNode)
		}
	}
	c.live.Stop()
	c.scratch.Start(scratchScope)
	c.logger.Debug("capture: composition started")
}

// compositionEnd settles the session. A non-empty commit becomes one undo
// step: the scratch records plus a synthesized text record carrying the
// frozen pre-composition value. An empty commit means the session was
// cancelled; the rollback is deferred to the next flush so the host's own
// bookkeeping for the session can finish first.
func (c *controller) compositionEnd(text string) {
	if !c.composing {
		return
	}
	if text == "" {
		c.rollback = c.surface.Defer(func() {
			c.rollback = nil
			c.performRollback()
		})
		c.logger.Debug("capture: composition cancelled, rollback scheduled")
		return
	}

	c.scratchRecs = append(c.scratchRecs, cloneRecords(c.scratch.TakeRecords())...)
	c.scratch.Stop()
	recs := c.scratchRecs
	c.scratchRecs = nil
	if c.frozenNode != nil {
		recs = append(recs, &Record{
			Kind:       KindTextContent,
			Target:     c.frozenNode,
			OldValue:   c.frozenText,
			OldValueOK: true,
		})
	}
	recs = c.norm.run(recs)
	c.ring.push(recs, false, c.frozenCaret)

	c.composing = false
	c.frozenNode = nil
	c.live.Start(liveScope)
	if caret, ok := c.surface.Caret(); ok {
		c.lastCaret = caret
	}
	c.logger.Debug("capture: composition committed", "records", len(recs))
}

// performRollback reverse-applies the scratch records against the live tree
// — the same inverse semantics the ring uses for undo — restores the frozen
// text value, and discards the session without logging anything.
func (c *controller) performRollback() {
	c.scratchRecs = append(c.scratchRecs, cloneRecords(c.scratch.TakeRecords())...)
	c.scratch.Stop()
	reverseApply(c.surface, c.scratchRecs)
	if c.frozenNode != nil {
		c.surface.SetText(c.frozenNode, c.frozenText)
	}
	c.scratchRecs = nil
	c.composing = false
	c.frozenNode = nil
	if !c.frozenCaret.IsZero() {
		c.surface.SetCaret(c.frozenCaret)
	}
	if !c.closed {
		c.live.Start(liveScope)
	}
	if caret, ok := c.surface.Caret(); ok {
		c.lastCaret = caret
	}
	c.logger.Debug("capture: composition rolled back")
}

// close stops both observer handles and cancels any pending rollback.
func (c *controller) close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.rollback != nil {
		c.rollback.Cancel()
		c.rollback = nil
	}
	c.live.Stop()
	c.scratch.Stop()
}
