// Package wysiwyg provides an in-place undo/redo engine for a live HTML
// document tree. It observes arbitrary structural, attribute, and text
// mutations, normalizes the tree against a small document schema (no bare
// text or line breaks directly under the root, no nested paragraphs,
// visually-empty lines must render), and logs the normalized batches in a
// fixed-capacity ring buffer for transparent undo and redo.
package wysiwyg

import "errors"

// Host errors
var (
	// ErrNilRoot indicates that a document was created without a root node.
	ErrNilRoot = errors.New("document root is nil")
)

// Gesture errors
var (
	// ErrNoCaret indicates that the editing surface has no caret to act on.
	ErrNoCaret = errors.New("no caret")

	// ErrDetachedCaret indicates that the caret container has no parent node.
	ErrDetachedCaret = errors.New("caret container is detached")

	// ErrNoParagraph indicates that the caret is not inside a paragraph.
	ErrNoParagraph = errors.New("caret is not inside a paragraph")

	// ErrCaretOutsideParagraph indicates that the caret container is not the
	// paragraph itself or one of its direct text children.
	ErrCaretOutsideParagraph = errors.New("caret container is not directly under the paragraph")
)
