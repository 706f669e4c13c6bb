package wysiwyg

import "golang.org/x/net/html"

// ObserveOptions selects which change notifications an observer receives,
// mirroring the capture scope of the engine: child-list changes, attribute
// changes, text changes, whether descendants of the root are included, and
// whether records carry the pre-change value.
type ObserveOptions struct {
	Children   bool
	Attributes bool
	Text       bool
	Subtree    bool
	OldValue   bool
}

// ObserverHandle is one explicitly owned subscription to batched tree change
// notifications. A handle can be started and stopped independently; stopping
// discards any notifications queued but not yet delivered.
type ObserverHandle interface {
	// Start begins queueing notifications matching opts.
	Start(opts ObserveOptions)

	// Stop ends observation and discards the pending queue.
	Stop()

	// TakeRecords drains and returns notifications queued since the last
	// delivery, without waiting for the next flush.
	TakeRecords() []*Record
}

// TaskHandle is a scheduled one-shot deferred task.
type TaskHandle interface {
	// Cancel prevents the task from running. Cancelling an already-run
	// task has no effect.
	Cancel()
}

// Surface is the host editing surface the engine operates on: ordered
// child-list mutation, text and attribute access, node creation for the two
// schema element kinds, the caret, batched change notification, and a
// one-shot deferred scheduler. Node reads (kind, parent, children, siblings)
// go directly through the html.Node fields; every mutation must go through
// the Surface so observers can see it.
//
// The engine is the sole writer while it replays or normalizes; hosts must
// not mutate the tree behind the notification path, or the log silently
// diverges from the tree.
type Surface interface {
	// Root returns the editable subtree root.
	Root() *html.Node

	// CreateParagraph returns a new detached paragraph container.
	CreateParagraph() *html.Node

	// CreateLineBreak returns a new detached line-break element.
	CreateLineBreak() *html.Node

	// InsertBefore inserts n as a child of parent, immediately before ref.
	// A nil ref appends. A node that already has a parent is detached first.
	InsertBefore(parent, n, ref *html.Node)

	// RemoveChild detaches n from parent.
	RemoveChild(parent, n *html.Node)

	// ReplaceChild swaps old for n in parent's child list.
	ReplaceChild(parent, n, old *html.Node)

	// Text returns the text value of a leaf node.
	Text(n *html.Node) string

	// SetText replaces the text value of a leaf node.
	SetText(n *html.Node, value string)

	// Attr returns the value of the attribute identified by key and whether
	// it is present.
	Attr(n *html.Node, key AttrKey) (string, bool)

	// SetAttr sets the attribute identified by key.
	SetAttr(n *html.Node, key AttrKey, value string)

	// RemoveAttr removes the attribute identified by key, if present.
	RemoveAttr(n *html.Node, key AttrKey)

	// Caret returns the current caret snapshot and whether one exists.
	Caret() (Caret, bool)

	// SetCaret repositions the caret from a snapshot.
	SetCaret(c Caret)

	// Observe registers fn to receive batched change notifications. The
	// returned handle starts stopped.
	Observe(fn func([]*Record)) ObserverHandle

	// Defer schedules fn to run on the next flush, after notification
	// delivery.
	Defer(fn func()) TaskHandle
}
