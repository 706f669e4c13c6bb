package wysiwyg

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node kind and navigation helpers over the live tree. Reads go straight to
// the html.Node fields; every write goes through the Surface so it can be
// observed.

func isElement(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}

// isParagraph reports whether n is a paragraph container.
func isParagraph(n *html.Node) bool { return isElement(n, atom.P) }

// isLineBreak reports whether n is a line-break element.
func isLineBreak(n *html.Node) bool { return isElement(n, atom.Br) }

// isBlockContainer reports whether n is a generic block container, the kind
// of wrapper that gets demoted to a paragraph when it carries text.
func isBlockContainer(n *html.Node) bool { return isElement(n, atom.Div) }

// hasTextDescendant reports whether any descendant of n is a text leaf.
func hasTextDescendant(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode || hasTextDescendant(c) {
			return true
		}
	}
	return false
}

// nestedInParagraph reports whether any ancestor of n strictly below root is
// a paragraph container.
func nestedInParagraph(n, root *html.Node) bool {
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if isParagraph(p) {
			return true
		}
	}
	return false
}

// paragraphOf returns the closest paragraph ancestor of n (including n
// itself), stopping at root. Returns nil if there is none.
func paragraphOf(n, root *html.Node) *html.Node {
	for p := n; p != nil && p != root; p = p.Parent {
		if isParagraph(p) {
			return p
		}
	}
	return nil
}

// childIndex returns n's position in its parent's child list.
func childIndex(n *html.Node) int {
	i := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		i++
	}
	return i
}

// childCount returns the number of children of n.
func childCount(n *html.Node) int {
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		i++
	}
	return i
}

// childAt returns the i-th child of n, or nil when i is at or past the end.
func childAt(n *html.Node, i int) *html.Node {
	c := n.FirstChild
	for ; c != nil && i > 0; c = c.NextSibling {
		i--
	}
	return c
}

// newTextNode returns a detached text leaf. Node construction is not a tree
// mutation; only attaching the node through the Surface is observed.
func newTextNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}
