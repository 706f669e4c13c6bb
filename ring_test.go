package wysiwyg

import (
	"fmt"
	"testing"
)

func TestUndoRedoTextEdits(t *testing.T) {
	d := newTestDoc(t, "<p>hello</p>")
	e := New(d, Options{})
	defer e.Close()
	text := d.Root().FirstChild.FirstChild

	for _, v := range []string{"hellp", "help", "kelp"} {
		d.SetText(text, v)
		d.Flush()
	}
	if text.Data != "kelp" {
		t.Fatalf("Expected %q after edits, got %q", "kelp", text.Data)
	}
	if !e.CanUndo() || e.CanRedo() {
		t.Fatalf("Expected undo-only availability, got undo=%v redo=%v", e.CanUndo(), e.CanRedo())
	}

	for _, want := range []string{"help", "hellp", "hello"} {
		if !e.Undo() {
			t.Fatalf("Undo failed, wanted %q", want)
		}
		if text.Data != want {
			t.Errorf("After undo expected %q, got %q", want, text.Data)
		}
	}
	if e.Undo() {
		t.Error("Expected undo to stop at the oldest batch")
	}

	for _, want := range []string{"hellp", "help", "kelp"} {
		if !e.Redo() {
			t.Fatalf("Redo failed, wanted %q", want)
		}
		if text.Data != want {
			t.Errorf("After redo expected %q, got %q", want, text.Data)
		}
	}
	if e.Redo() {
		t.Error("Expected redo to stop at the newest batch")
	}
}

func TestRingEviction(t *testing.T) {
	d := newTestDoc(t, "<p>v0</p>")
	e := New(d, Options{Capacity: 3})
	defer e.Close()
	text := d.Root().FirstChild.FirstChild

	for i := 1; i <= 5; i++ {
		d.SetText(text, fmt.Sprintf("v%d", i))
		d.Flush()
	}

	// Once the ring has wrapped, the write cursor shares a slot with the
	// window start, so a capacity-3 ring retains 2 undoable batches.
	undos := 0
	for e.Undo() {
		undos++
	}
	if undos != 2 {
		t.Fatalf("Expected 2 undoable batches after wrap-around, got %d", undos)
	}
	if text.Data != "v3" {
		t.Errorf("Expected %q at the window start, got %q", "v3", text.Data)
	}

	redos := 0
	for e.Redo() {
		redos++
	}
	if redos != 2 || text.Data != "v5" {
		t.Errorf("Expected 2 redos back to %q, got %d redos, %q", "v5", redos, text.Data)
	}
}

func TestNewEditDiscardsRedo(t *testing.T) {
	d := newTestDoc(t, "<p>a</p>")
	e := New(d, Options{})
	defer e.Close()
	text := d.Root().FirstChild.FirstChild

	for _, v := range []string{"b", "c", "d"} {
		d.SetText(text, v)
		d.Flush()
	}
	if !e.Undo() || text.Data != "c" {
		t.Fatalf("Expected undo to %q, got %q", "c", text.Data)
	}
	if !e.CanRedo() {
		t.Fatal("Expected a redoable batch after undo")
	}

	d.SetText(text, "x")
	d.Flush()

	if e.CanRedo() {
		t.Error("Expected the redo branch to be discarded by a new edit")
	}
	for _, want := range []string{"c", "b", "a"} {
		if !e.Undo() {
			t.Fatalf("Undo failed, wanted %q", want)
		}
		if text.Data != want {
			t.Errorf("After undo expected %q, got %q", want, text.Data)
		}
	}
	if e.Undo() {
		t.Error("Expected exactly 3 undoable batches")
	}
}

func TestHistoryDisabled(t *testing.T) {
	d := newTestDoc(t, "<p>a</p>")
	e := New(d, Options{Capacity: -1})
	defer e.Close()
	text := d.Root().FirstChild.FirstChild

	d.SetText(text, "b")
	d.Flush()

	if e.CanUndo() || e.Undo() {
		t.Error("Expected a disabled history to record nothing")
	}
	if text.Data != "b" {
		t.Errorf("Expected the edit itself to stand, got %q", text.Data)
	}
}

func TestUndoReplayNotRecaptured(t *testing.T) {
	d := newTestDoc(t, "<p>a</p>")
	e := New(d, Options{})
	defer e.Close()
	text := d.Root().FirstChild.FirstChild

	d.SetText(text, "b")
	d.Flush()
	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	d.Flush()

	if e.CanUndo() {
		t.Error("Expected the replay not to be logged as a new edit")
	}
	if !e.CanRedo() {
		t.Error("Expected the undone batch to stay redoable")
	}
	if text.Data != "a" {
		t.Errorf("Expected %q after undo, got %q", "a", text.Data)
	}
}

func TestRingWindow(t *testing.T) {
	d := newTestDoc(t, "")
	r := newRing(4, d, nil)

	cases := []struct {
		offset, endPos int
		valid          [4]bool
	}{
		{0, 0, [4]bool{false, false, false, false}},
		{0, 3, [4]bool{true, true, true, false}},
		{1, 3, [4]bool{false, true, true, false}},
		{2, 1, [4]bool{true, false, true, true}},
		{3, 3, [4]bool{false, false, false, false}},
	}
	for _, c := range cases {
		r.offset, r.endPos = c.offset, c.endPos
		for i, want := range c.valid {
			if got := r.isValid(i); got != want {
				t.Errorf("offset=%d endPos=%d slot %d: expected %v, got %v",
					c.offset, c.endPos, i, want, got)
			}
		}
	}
}

func TestPushAppendsToLastBatch(t *testing.T) {
	d := newTestDoc(t, "<p>a</p>")
	text := d.Root().FirstChild.FirstChild
	r := newRing(4, d, nil)

	d.SetText(text, "b")
	r.push([]*Record{{Kind: KindTextContent, Target: text, OldValue: "a", OldValueOK: true}}, false, Caret{})
	d.SetText(text, "c")
	r.push([]*Record{{Kind: KindTextContent, Target: text, OldValue: "b", OldValueOK: true}}, true, Caret{})

	valid := 0
	for i := range r.slots {
		if r.isValid(i) {
			valid++
		}
	}
	if valid != 1 {
		t.Fatalf("Expected the second push to merge, got %d valid slots", valid)
	}

	if !r.undo() || text.Data != "a" {
		t.Fatalf("Expected one undo to revert both edits, got %q", text.Data)
	}
	if !r.redo() || text.Data != "c" {
		t.Fatalf("Expected one redo to replay both edits, got %q", text.Data)
	}
}

func TestAttributeUndoRestoresAbsence(t *testing.T) {
	d := newTestDoc(t, "<p>x</p>")
	e := New(d, Options{})
	defer e.Close()
	p := d.Root().FirstChild
	key := AttrKey{Name: "data-note"}

	d.SetAttr(p, key, "n")
	d.Flush()
	if v, ok := d.Attr(p, key); !ok || v != "n" {
		t.Fatalf("Expected attribute %q, got %q (ok=%v)", "n", v, ok)
	}

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if _, ok := d.Attr(p, key); ok {
		t.Error("Expected the attribute to be absent after undo")
	}

	if !e.Redo() {
		t.Fatal("Redo failed")
	}
	if v, ok := d.Attr(p, key); !ok || v != "n" {
		t.Errorf("Expected attribute %q after redo, got %q (ok=%v)", "n", v, ok)
	}
}

func TestStructuralUndoPreservesOrder(t *testing.T) {
	d := newTestDoc(t, "<p>a</p><p>b</p><p>c</p>")
	e := New(d, Options{})
	defer e.Close()
	root := d.Root()
	p1, p2 := root.FirstChild, root.FirstChild.NextSibling

	// Two removals in one batch; undo must restore the original order.
	d.RemoveChild(root, p1)
	d.RemoveChild(root, p2)
	d.Flush()
	if want := "<p>c</p>"; renderRoot(t, d) != want {
		t.Fatalf("Expected %q, got %q", want, renderRoot(t, d))
	}

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if want := "<p>a</p><p>b</p><p>c</p>"; renderRoot(t, d) != want {
		t.Errorf("Expected %q after undo, got %q", want, renderRoot(t, d))
	}
	if !e.Redo() {
		t.Fatal("Redo failed")
	}
	if want := "<p>c</p>"; renderRoot(t, d) != want {
		t.Errorf("Expected %q after redo, got %q", want, renderRoot(t, d))
	}
}

func TestUndoRestoresCaret(t *testing.T) {
	d := newTestDoc(t, "<p>hello</p>")
	e := New(d, Options{})
	defer e.Close()
	text := d.Root().FirstChild.FirstChild

	d.SetCaret(CollapsedCaret(text, 5))
	e.CaretChanged()
	d.SetText(text, "hello!")
	d.SetCaret(CollapsedCaret(text, 6))
	d.Flush()

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	c, ok := d.Caret()
	if !ok || c.StartContainer != text || c.StartOffset != 5 {
		t.Errorf("Expected the caret back at offset 5, got %+v (ok=%v)", c, ok)
	}

	if !e.Redo() {
		t.Fatal("Redo failed")
	}
	c, ok = d.Caret()
	if !ok || c.StartContainer != text || c.StartOffset != 6 {
		t.Errorf("Expected the caret at offset 6 after redo, got %+v (ok=%v)", c, ok)
	}
}
