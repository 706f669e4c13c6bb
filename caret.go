package wysiwyg

import "golang.org/x/net/html"

// Caret is a value snapshot of a selection: start and end positions, each a
// container node plus an offset within it. For text leaves the offset counts
// runes; for elements it counts children. A Caret is never a live handle
// into the host's selection machinery — conversion to and from the host
// selection happens only at the Surface boundary.
type Caret struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// CollapsedCaret returns a caret with both endpoints at the same position.
func CollapsedCaret(container *html.Node, offset int) Caret {
	return Caret{
		StartContainer: container,
		StartOffset:    offset,
		EndContainer:   container,
		EndOffset:      offset,
	}
}

// IsZero reports whether the caret snapshot is empty.
func (c Caret) IsZero() bool {
	return c.StartContainer == nil && c.EndContainer == nil
}

// Collapsed reports whether start and end denote the same position.
func (c Caret) Collapsed() bool {
	return c.StartContainer == c.EndContainer && c.StartOffset == c.EndOffset
}
