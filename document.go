package wysiwyg

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the in-memory reference implementation of Surface. It wraps a
// live *html.Node subtree, queues change notifications per observer at
// mutation time, and delivers them in batches on Flush — the equivalent of a
// microtask boundary. Everything is single-threaded and event-driven; there
// is no locking because there is no concurrency, only strict sequencing.
type Document struct {
	root      *html.Node
	caret     Caret
	hasCaret  bool
	observers []*docObserver
	tasks     []*docTask
}

// NewDocument wraps root as an editable document.
func NewDocument(root *html.Node) (*Document, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	return &Document{root: root}, nil
}

// Root returns the editable subtree root.
func (d *Document) Root() *html.Node { return d.root }

// CreateParagraph returns a new detached paragraph element.
func (d *Document) CreateParagraph() *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: atom.P, Data: "p"}
}

// CreateLineBreak returns a new detached line-break element.
func (d *Document) CreateLineBreak() *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: atom.Br, Data: "br"}
}

// InsertBefore inserts n as a child of parent immediately before ref; a nil
// ref appends. If n is attached elsewhere it is removed first, which emits
// its own removal notification, matching how a live tree reports moves.
func (d *Document) InsertBefore(parent, n, ref *html.Node) {
	if parent == nil || n == nil {
		return
	}
	if n.Parent != nil {
		d.RemoveChild(n.Parent, n)
	}
	var prev *html.Node
	if ref != nil {
		prev = ref.PrevSibling
	} else {
		prev = parent.LastChild
	}
	parent.InsertBefore(n, ref)
	d.emit(&Record{
		Kind:        KindStructural,
		Target:      parent,
		Added:       []*html.Node{n},
		PrevSibling: prev,
		NextSibling: ref,
	})
}

// RemoveChild detaches n from parent.
func (d *Document) RemoveChild(parent, n *html.Node) {
	if parent == nil || n == nil || n.Parent != parent {
		return
	}
	prev, next := n.PrevSibling, n.NextSibling
	parent.RemoveChild(n)
	d.emit(&Record{
		Kind:        KindStructural,
		Target:      parent,
		Removed:     []*html.Node{n},
		PrevSibling: prev,
		NextSibling: next,
	})
}

// ReplaceChild swaps old for n in parent's child list, emitting a single
// structural notification covering both the insertion and the removal.
func (d *Document) ReplaceChild(parent, n, old *html.Node) {
	if parent == nil || n == nil || old == nil || old.Parent != parent {
		return
	}
	if n.Parent != nil {
		d.RemoveChild(n.Parent, n)
	}
	prev, next := old.PrevSibling, old.NextSibling
	parent.InsertBefore(n, old)
	parent.RemoveChild(old)
	d.emit(&Record{
		Kind:        KindStructural,
		Target:      parent,
		Added:       []*html.Node{n},
		Removed:     []*html.Node{old},
		PrevSibling: prev,
		NextSibling: next,
	})
}

// Text returns the text value of a leaf node.
func (d *Document) Text(n *html.Node) string {
	if n == nil || n.Type == html.ElementNode {
		return ""
	}
	return n.Data
}

// SetText replaces the text value of a leaf node.
func (d *Document) SetText(n *html.Node, value string) {
	if n == nil || n.Type == html.ElementNode {
		return
	}
	old := n.Data
	n.Data = value
	d.emit(&Record{
		Kind:       KindTextContent,
		Target:     n,
		OldValue:   old,
		OldValueOK: true,
	})
}

// Attr returns the value of the attribute identified by key.
func (d *Document) Attr(n *html.Node, key AttrKey) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key.Name && a.Namespace == key.Namespace {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets the attribute identified by key.
func (d *Document) SetAttr(n *html.Node, key AttrKey, value string) {
	if n == nil || n.Type != html.ElementNode {
		return
	}
	rec := &Record{Kind: KindAttribute, Target: n, Attr: key}
	for i, a := range n.Attr {
		if a.Key == key.Name && a.Namespace == key.Namespace {
			rec.OldValue, rec.OldValueOK = a.Val, true
			n.Attr[i].Val = value
			d.emit(rec)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Namespace: key.Namespace, Key: key.Name, Val: value})
	d.emit(rec)
}

// RemoveAttr removes the attribute identified by key, if present.
func (d *Document) RemoveAttr(n *html.Node, key AttrKey) {
	if n == nil {
		return
	}
	for i, a := range n.Attr {
		if a.Key == key.Name && a.Namespace == key.Namespace {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			d.emit(&Record{
				Kind:       KindAttribute,
				Target:     n,
				Attr:       key,
				OldValue:   a.Val,
				OldValueOK: true,
			})
			return
		}
	}
}

// Caret returns the current caret snapshot.
func (d *Document) Caret() (Caret, bool) {
	return d.caret, d.hasCaret
}

// SetCaret repositions the caret. A zero caret clears it.
func (d *Document) SetCaret(c Caret) {
	d.caret = c
	d.hasCaret = !c.IsZero()
}

// Observe registers fn to receive batched change notifications. The handle
// starts stopped.
func (d *Document) Observe(fn func([]*Record)) ObserverHandle {
	o := &docObserver{doc: d, fn: fn}
	d.observers = append(d.observers, o)
	return o
}

// Defer schedules fn to run on the next Flush, after notification delivery.
func (d *Document) Defer(fn func()) TaskHandle {
	t := &docTask{fn: fn}
	d.tasks = append(d.tasks, t)
	return t
}

// Flush delivers all queued notification batches, then runs deferred tasks.
// Notifications produced during delivery (by observers that kept their
// subscription active) are delivered in the same flush.
func (d *Document) Flush() {
	for {
		delivered := false
		for _, o := range d.observers {
			if !o.active || len(o.queue) == 0 {
				continue
			}
			batch := o.queue
			o.queue = nil
			delivered = true
			o.fn(batch)
		}
		if !delivered {
			break
		}
	}
	for len(d.tasks) > 0 {
		t := d.tasks[0]
		d.tasks = d.tasks[1:]
		if !t.cancelled {
			t.fn()
		}
	}
}

// emit queues rec on every active observer whose scope matches.
func (d *Document) emit(rec *Record) {
	for _, o := range d.observers {
		if !o.active || !o.matches(rec) {
			continue
		}
		o.queue = append(o.queue, o.view(rec))
	}
}

type docObserver struct {
	doc    *Document
	fn     func([]*Record)
	opts   ObserveOptions
	active bool
	queue  []*Record
}

func (o *docObserver) Start(opts ObserveOptions) {
	o.opts = opts
	o.active = true
}

func (o *docObserver) Stop() {
	o.active = false
	o.queue = nil
}

func (o *docObserver) TakeRecords() []*Record {
	q := o.queue
	o.queue = nil
	return q
}

func (o *docObserver) matches(rec *Record) bool {
	switch rec.Kind {
	case KindStructural:
		if !o.opts.Children {
			return false
		}
	case KindAttribute:
		if !o.opts.Attributes {
			return false
		}
	case KindTextContent:
		if !o.opts.Text {
			return false
		}
	}
	if !o.opts.Subtree && rec.Target != o.doc.root {
		return false
	}
	return true
}

// view returns the record as this observer sees it: a stable copy, with the
// pre-change value withheld unless the scope requested it.
func (o *docObserver) view(rec *Record) *Record {
	c := rec.clone()
	if !o.opts.OldValue && rec.Kind != KindStructural {
		c.OldValue = ""
		c.OldValueOK = false
	}
	return c
}

type docTask struct {
	fn        func()
	cancelled bool
}

func (t *docTask) Cancel() { t.cancelled = true }
