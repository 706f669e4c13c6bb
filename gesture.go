package wysiwyg

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Editing gestures. These sit outside the capture core: they splice the tree
// through the Surface like any other edit source and rely on the already
// subscribed editor to log the result as an ordinary batch.

// InsertLineBreak splices a line-break element at the caret — the
// Shift-Enter gesture. A caret inside a text node splits the text first.
// The caret moves to just after the break.
func InsertLineBreak(s Surface) error {
	caret, ok := s.Caret()
	if !ok {
		return ErrNoCaret
	}
	n, off := caret.StartContainer, caret.StartOffset
	br := s.CreateLineBreak()

	if n.Type == html.TextNode {
		parent := n.Parent
		if parent == nil {
			return ErrDetachedCaret
		}
		ref := splitText(s, n, off)
		s.InsertBefore(parent, br, ref)
		s.SetCaret(CollapsedCaret(parent, childIndex(br)+1))
		return nil
	}

	s.InsertBefore(n, br, childAt(n, off))
	s.SetCaret(CollapsedCaret(n, off+1))
	return nil
}

// SplitParagraph splits the caret's paragraph in two at the caret — the
// Enter gesture. Content after the caret moves into a fresh paragraph
// following the original; a side left empty gets a line break so the line
// still renders. The caret moves to the start of the new paragraph.
func SplitParagraph(s Surface) error {
	caret, ok := s.Caret()
	if !ok {
		return ErrNoCaret
	}
	n, off := caret.StartContainer, caret.StartOffset
	p := paragraphOf(n, s.Root())
	if p == nil {
		return ErrNoParagraph
	}

	// The first child of p that moves into the new paragraph.
	var boundary *html.Node
	switch {
	case n == p:
		boundary = childAt(p, off)
	case n.Type == html.TextNode && n.Parent == p:
		boundary = splitText(s, n, off)
	default:
		return ErrCaretOutsideParagraph
	}

	np := s.CreateParagraph()
	s.InsertBefore(p.Parent, np, p.NextSibling)
	for boundary != nil {
		next := boundary.NextSibling
		s.RemoveChild(p, boundary)
		s.InsertBefore(np, boundary, nil)
		boundary = next
	}
	if np.FirstChild == nil {
		s.InsertBefore(np, s.CreateLineBreak(), nil)
	}
	if p.FirstChild == nil {
		s.InsertBefore(p, s.CreateLineBreak(), nil)
	}

	if np.FirstChild != nil && np.FirstChild.Type == html.TextNode {
		s.SetCaret(CollapsedCaret(np.FirstChild, 0))
	} else {
		s.SetCaret(CollapsedCaret(np, 0))
	}
	return nil
}

// splitText splits a text node at a rune offset and returns the node that
// starts at the split point: the new right half, the following sibling when
// the offset is at the end, or the node itself when the offset is at the
// start. No split happens at either edge.
func splitText(s Surface, n *html.Node, off int) *html.Node {
	text := s.Text(n)
	switch {
	case off <= 0:
		return n
	case off >= utf8.RuneCountInString(text):
		return n.NextSibling
	}
	runes := []rune(text)
	right := newTextNode(string(runes[off:]))
	s.SetText(n, string(runes[:off]))
	s.InsertBefore(n.Parent, right, n.NextSibling)
	return right
}
