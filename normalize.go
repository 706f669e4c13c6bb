package wysiwyg

import (
	"log/slog"

	"golang.org/x/net/html"
)

// normalizer rewrites a freshly captured batch and the live tree together so
// the tree satisfies the document schema: no bare text or line breaks
// directly under the root, no nested paragraphs, and trailing line breaks
// doubled so visually-empty lines render. Its edits run while capture is
// suspended, so the only durable trace is the rewritten record sequence.
type normalizer struct {
	s      Surface
	logger *slog.Logger
}

func newNormalizer(s Surface, logger *slog.Logger) *normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &normalizer{s: s, logger: logger}
}

// run applies the schema rewrites to recs and returns the rewritten record
// sequence. The live caret snapshot is translated through every rewrite and
// reasserted at the end even when its anchors are unchanged, because some
// hosts do not re-render a caret whose surrounding tree changed.
func (n *normalizer) run(recs []*Record) []*Record {
	st := &rewriteState{s: n.s, recs: recs, logger: n.logger}
	if caret, ok := n.s.Caret(); ok {
		st.caret = caret
		st.hasCaret = true
	}

	st.scan()

	// Drop structural records drained by extraction.
	kept := st.recs[:0]
	for _, rec := range st.recs {
		if rec.Kind == KindStructural && len(rec.Added) == 0 && len(rec.Removed) == 0 {
			continue
		}
		kept = append(kept, rec)
	}
	st.recs = kept

	if st.hasCaret {
		n.s.SetCaret(st.caret)
	}
	return st.recs
}

type rewriteState struct {
	s        Surface
	recs     []*Record
	caret    Caret
	hasCaret bool
	logger   *slog.Logger
}

// scan walks the structural records and, for each inserted node that is
// still a live child of its recorded target, applies the first matching
// schema rewrite. A rewrite that replaces the node in place leaves the scan
// position unchanged so the replacement is re-examined; a rewrite that moves
// the node into a new home extracts it into a fresh record, which the outer
// loop reaches and re-examines in turn.
func (st *rewriteState) scan() {
	for i := 0; i < len(st.recs); i++ {
		rec := st.recs[i]
		if rec.Kind != KindStructural {
			continue
		}
		extracted := 0
		for j := 0; j < len(rec.Added); {
			a := rec.Added[j]
			if a == nil || a.Parent != rec.Target {
				// Already relocated by an earlier rewrite in this pass.
				j++
				continue
			}
			adv, ext := st.rewrite(i, rec, j, i+1+extracted)
			if ext {
				extracted++
			}
			j += adv
		}
	}
}

// rewrite applies the first matching rule to rec.Added[j]. It returns how
// far the added-node scan advances and whether the node was extracted into
// a new record.
func (st *rewriteState) rewrite(i int, rec *Record, j, insertAt int) (int, bool) {
	a := rec.Added[j]
	root := st.s.Root()

	switch {
	case a.Type == html.TextNode && a.Parent == root:
		st.wrapTextInParagraph(rec, j, insertAt)
		return 0, true

	case a.Parent == root && hasTextDescendant(a) &&
		(a.Type != html.ElementNode || isBlockContainer(a)):
		st.demoteToParagraph(i, rec, j)
		return 0, false

	case a.Parent == root && a.Type == html.ElementNode && !isParagraph(a) &&
		childCount(a) == 1 && isLineBreak(a.FirstChild):
		st.unwrapSingleBreak(i, rec, j)
		return 0, false

	case isLineBreak(a) && a.Parent == root:
		st.adoptRootBreak(rec, j, insertAt)
		return 0, true

	case isLineBreak(a) && a == a.Parent.LastChild && a.NextSibling == nil &&
		(a.PrevSibling == nil || !isLineBreak(a.PrevSibling)):
		st.padTrailingBreak(rec, j)
		return 2, false

	case isParagraph(a) && nestedInParagraph(a, root):
		st.unwrapNestedParagraph(i, rec, j)
		return 0, false
	}
	return 1, false
}

// wrapTextInParagraph handles a bare text leaf inserted directly under the
// root: a paragraph is synthesized in its place and the insertion record is
// redirected to target the paragraph. The root-level record disappears.
func (st *rewriteState) wrapTextInParagraph(rec *Record, j, insertAt int) {
	a := rec.Added[j]
	root := st.s.Root()
	idx := childIndex(a)

	p := st.s.CreateParagraph()
	st.s.InsertBefore(root, p, a)
	st.s.RemoveChild(root, a)
	st.s.InsertBefore(p, a, nil)

	rec.Added = append(rec.Added[:j], rec.Added[j+1:]...)
	st.insertRecord(insertAt, &Record{
		Kind:   KindStructural,
		Target: p,
		Added:  []*html.Node{a},
	})
	st.relink(insertAt+1, a, relinkTo{target: a, prev: p, next: p})
	st.moveCaretRegion(root, idx, 1, p, 0)
	st.logger.Debug("normalize: wrapped bare text in paragraph")
}

// demoteToParagraph handles a root-level wrapper that carries text: the
// wrapper is replaced by a paragraph and its children relocate into it. The
// wrapper itself is discarded.
func (st *rewriteState) demoteToParagraph(i int, rec *Record, j int) {
	a := rec.Added[j]
	p := st.s.CreateParagraph()

	st.moveCaretOut(a, p, 0)
	for a.FirstChild != nil {
		c := a.FirstChild
		st.s.RemoveChild(a, c)
		st.s.InsertBefore(p, c, nil)
	}
	st.s.ReplaceChild(rec.Target, p, a)

	rec.Added[j] = p
	st.relink(i+1, a, relinkTo{removed: true, target: p, prev: p, next: p})
	st.logger.Debug("normalize: demoted block container to paragraph")
}

// unwrapSingleBreak handles a root-level wrapper whose sole child is a line
// break: the wrapper is deleted and the break spliced into its former
// position. The bare break is then re-examined and adopted by a paragraph.
func (st *rewriteState) unwrapSingleBreak(i int, rec *Record, j int) {
	a := rec.Added[j]
	root := st.s.Root()
	br := a.FirstChild
	idx := childIndex(a)

	st.moveCaretOut(a, root, idx)
	st.s.RemoveChild(a, br)
	st.s.InsertBefore(root, br, a)
	st.s.RemoveChild(root, a)

	rec.Added[j] = br
	st.relink(i+1, a, relinkTo{removed: true, target: root, prev: br, next: br})
	st.logger.Debug("normalize: unwrapped single line break")
}

// adoptRootBreak handles a line break directly under the root: it relocates
// to the end of the immediately preceding paragraph when there is one, and
// into a synthesized paragraph otherwise.
func (st *rewriteState) adoptRootBreak(rec *Record, j, insertAt int) {
	a := rec.Added[j]
	root := st.s.Root()
	idx := childIndex(a)
	oldPrev, oldNext := a.PrevSibling, a.NextSibling

	if p := a.PrevSibling; isParagraph(p) {
		end := childCount(p)
		st.s.RemoveChild(root, a)
		st.s.InsertBefore(p, a, nil)

		rec.Added = append(rec.Added[:j], rec.Added[j+1:]...)
		st.insertRecord(insertAt, &Record{
			Kind:        KindStructural,
			Target:      p,
			Added:       []*html.Node{a},
			PrevSibling: a.PrevSibling,
		})
		st.relink(insertAt+1, a, relinkTo{target: a, prev: oldPrev, next: oldNext})
		st.moveCaretRegion(root, idx, 1, p, end)
		st.logger.Debug("normalize: moved line break into preceding paragraph")
		return
	}

	p := st.s.CreateParagraph()
	st.s.InsertBefore(root, p, a)
	st.s.RemoveChild(root, a)
	st.s.InsertBefore(p, a, nil)

	rec.Added = append(rec.Added[:j], rec.Added[j+1:]...)
	st.insertRecord(insertAt, &Record{
		Kind:   KindStructural,
		Target: p,
		Added:  []*html.Node{a},
	})
	st.relink(insertAt+1, a, relinkTo{target: a, prev: p, next: p})
	st.moveCaretRegion(root, idx, 1, p, 0)
	st.logger.Debug("normalize: wrapped root line break in paragraph")
}

// padTrailingBreak handles a line break that ends its parent's child list:
// a lone trailing break does not render a visible empty line, so a second
// synthetic break is inserted right after it and logged alongside it.
func (st *rewriteState) padTrailingBreak(rec *Record, j int) {
	a := rec.Added[j]
	parent := a.Parent
	idx := childIndex(a)

	br := st.s.CreateLineBreak()
	st.s.InsertBefore(parent, br, a.NextSibling)

	rec.Added = append(rec.Added, nil)
	copy(rec.Added[j+2:], rec.Added[j+1:])
	rec.Added[j+1] = br
	st.shiftCaretForInsert(parent, idx+1, 1)
	st.logger.Debug("normalize: doubled trailing line break")
}

// unwrapNestedParagraph handles a paragraph inserted inside another
// paragraph: the inner paragraph is deleted and its children promoted into
// its parent at its former position. Paragraphs never nest.
func (st *rewriteState) unwrapNestedParagraph(i int, rec *Record, j int) {
	a := rec.Added[j]
	parent := rec.Target
	idx := childIndex(a)
	oldPrev, oldNext := a.PrevSibling, a.NextSibling

	st.moveCaretOut(a, parent, idx)
	var kids []*html.Node
	for a.FirstChild != nil {
		c := a.FirstChild
		st.s.RemoveChild(a, c)
		st.s.InsertBefore(parent, c, a)
		kids = append(kids, c)
	}
	st.s.RemoveChild(parent, a)

	rec.Added = append(rec.Added[:j], append(kids, rec.Added[j+1:]...)...)

	prevRepl, nextRepl := oldPrev, oldNext
	if len(kids) > 0 {
		prevRepl = kids[len(kids)-1]
		nextRepl = kids[0]
	}
	st.relink(i+1, a, relinkTo{removed: true, target: parent, prev: prevRepl, next: nextRepl})
	st.logger.Debug("normalize: unwrapped nested paragraph", "promoted", len(kids))
}

// relinkTo names the replacement locations for a node a rewrite deleted,
// replaced, or relocated.
type relinkTo struct {
	target  *html.Node // replacement for records targeting the node
	prev    *html.Node // replacement for PrevSibling anchors
	next    *html.Node // replacement for NextSibling anchors
	removed bool       // the node left the tree entirely
}

// relink rewrites every record from index from onward that references old,
// pointing it at the replacement location instead. Records whose only
// connection to old was a non-structural target on a now-removed node are
// dropped entirely.
func (st *rewriteState) relink(from int, old *html.Node, to relinkTo) {
	if from >= len(st.recs) {
		return
	}
	kept := st.recs[:from]
	for _, rec := range st.recs[from:] {
		if rec.Target == old {
			if to.removed && rec.Kind != KindStructural {
				continue
			}
			rec.Target = to.target
		}
		if rec.PrevSibling == old {
			rec.PrevSibling = to.prev
		}
		if rec.NextSibling == old {
			rec.NextSibling = to.next
		}
		kept = append(kept, rec)
	}
	st.recs = kept
}

func (st *rewriteState) insertRecord(at int, rec *Record) {
	st.recs = append(st.recs, nil)
	copy(st.recs[at+1:], st.recs[at:])
	st.recs[at] = rec
}

// moveCaretRegion rewrites caret endpoints that denote a position inside the
// child range [start, start+count) of oldParent, mapping them to the
// equivalent position in newParent. Endpoints anchored inside the moved
// nodes themselves travel with the nodes and need no rewrite.
func (st *rewriteState) moveCaretRegion(oldParent *html.Node, start, count int, newParent *html.Node, newStart int) {
	if !st.hasCaret {
		return
	}
	mapPoint := func(n *html.Node, off int) (*html.Node, int) {
		if n != oldParent || off < start || off >= start+count {
			return n, off
		}
		return newParent, newStart + (off - start)
	}
	st.caret.StartContainer, st.caret.StartOffset = mapPoint(st.caret.StartContainer, st.caret.StartOffset)
	st.caret.EndContainer, st.caret.EndOffset = mapPoint(st.caret.EndContainer, st.caret.EndOffset)
}

// moveCaretOut rewrites caret endpoints anchored in a container that is
// being emptied and removed, mapping offset k to newStart+k in newParent.
func (st *rewriteState) moveCaretOut(oldParent, newParent *html.Node, newStart int) {
	if !st.hasCaret {
		return
	}
	mapPoint := func(n *html.Node, off int) (*html.Node, int) {
		if n != oldParent {
			return n, off
		}
		return newParent, newStart + off
	}
	st.caret.StartContainer, st.caret.StartOffset = mapPoint(st.caret.StartContainer, st.caret.StartOffset)
	st.caret.EndContainer, st.caret.EndOffset = mapPoint(st.caret.EndContainer, st.caret.EndOffset)
}

// shiftCaretForInsert shifts caret endpoints that point into parent's child
// list at or after the insertion index by the number of inserted siblings.
func (st *rewriteState) shiftCaretForInsert(parent *html.Node, index, count int) {
	if !st.hasCaret {
		return
	}
	if st.caret.StartContainer == parent && st.caret.StartOffset >= index {
		st.caret.StartOffset += count
	}
	if st.caret.EndContainer == parent && st.caret.EndOffset >= index {
		st.caret.EndOffset += count
	}
}
