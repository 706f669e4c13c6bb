package wysiwyg

import "golang.org/x/net/html"

// Kind identifies what part of the tree a Record describes a change to.
type Kind int

const (
	// KindStructural records a child-list change: nodes inserted and/or removed.
	KindStructural Kind = iota

	// KindAttribute records a change to a single attribute of an element.
	KindAttribute

	// KindTextContent records a change to the text value of a leaf node.
	KindTextContent
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindAttribute:
		return "attribute"
	case KindTextContent:
		return "text"
	default:
		return "unknown"
	}
}

// AttrKey identifies an attribute by name and optional namespace.
type AttrKey struct {
	Namespace string
	Name      string
}

// Record is a single observed or synthesized tree change. It references live
// nodes; the engine never copies node content.
//
// For structural records, Target is the parent whose child list changed and
// Added/Removed are stable copies of the affected nodes in document order.
// PrevSibling and NextSibling anchor the change position inside Target.
//
// NewValue is not populated at capture time. It is computed lazily from the
// live tree the first time the record is undone, so that the subsequent redo
// can replay it. OldValueOK and NewValueOK distinguish an absent attribute
// from an empty one.
type Record struct {
	Kind        Kind
	Target      *html.Node
	Added       []*html.Node
	Removed     []*html.Node
	PrevSibling *html.Node
	NextSibling *html.Node
	Attr        AttrKey
	OldValue    string
	OldValueOK  bool
	NewValue    string
	NewValueOK  bool
}

// clone returns a copy of the record with its own node slices. The live
// node references themselves are shared; records never own nodes.
func (r *Record) clone() *Record {
	c := *r
	if len(r.Added) > 0 {
		c.Added = append([]*html.Node(nil), r.Added...)
	}
	if len(r.Removed) > 0 {
		c.Removed = append([]*html.Node(nil), r.Removed...)
	}
	return &c
}

func cloneRecords(recs []*Record) []*Record {
	out := make([]*Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.clone())
	}
	return out
}

// Batch is one undo step: an ordered record sequence plus the caret
// snapshots taken before and after the edit. All records in a batch are
// applied and reverted atomically, in sequence.
type Batch struct {
	Records []*Record
	Before  Caret
	After   Caret
}
