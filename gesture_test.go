package wysiwyg

import "testing"

func TestInsertLineBreakMidText(t *testing.T) {
	d := newTestDoc(t, "<p>hello</p>")
	e := New(d, Options{})
	defer e.Close()
	p := d.Root().FirstChild
	text := p.FirstChild

	d.SetCaret(CollapsedCaret(text, 2))
	e.CaretChanged()
	if err := InsertLineBreak(d); err != nil {
		t.Fatalf("InsertLineBreak failed: %v", err)
	}
	d.Flush()

	if want := "<p>he<br/>llo</p>"; renderRoot(t, d) != want {
		t.Fatalf("Expected %q, got %q", want, renderRoot(t, d))
	}
	c, ok := d.Caret()
	if !ok || c.StartContainer != p || c.StartOffset != 2 {
		t.Errorf("Expected the caret just after the break, got %+v (ok=%v)", c, ok)
	}

	// The whole gesture is one undo step.
	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if want := "<p>hello</p>"; renderRoot(t, d) != want {
		t.Errorf("Expected %q after undo, got %q", want, renderRoot(t, d))
	}
	c, ok = d.Caret()
	if !ok || c.StartContainer != text || c.StartOffset != 2 {
		t.Errorf("Expected the caret back in the text node, got %+v (ok=%v)", c, ok)
	}
	if !e.Redo() {
		t.Fatal("Redo failed")
	}
	if want := "<p>he<br/>llo</p>"; renderRoot(t, d) != want {
		t.Errorf("Expected %q after redo, got %q", want, renderRoot(t, d))
	}
}

func TestInsertLineBreakAtTextEnd(t *testing.T) {
	d := newTestDoc(t, "<p>hi</p>")
	e := New(d, Options{})
	defer e.Close()
	text := d.Root().FirstChild.FirstChild

	d.SetCaret(CollapsedCaret(text, 2))
	e.CaretChanged()
	if err := InsertLineBreak(d); err != nil {
		t.Fatalf("InsertLineBreak failed: %v", err)
	}
	d.Flush()

	// A break that ends the paragraph gets doubled so the new line renders.
	if want := "<p>hi<br/><br/></p>"; renderRoot(t, d) != want {
		t.Fatalf("Expected %q, got %q", want, renderRoot(t, d))
	}

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if want := "<p>hi</p>"; renderRoot(t, d) != want {
		t.Errorf("Expected %q after undo, got %q", want, renderRoot(t, d))
	}
}

func TestInsertLineBreakNoCaret(t *testing.T) {
	d := newTestDoc(t, "<p>hi</p>")
	if err := InsertLineBreak(d); err != ErrNoCaret {
		t.Fatalf("Expected ErrNoCaret, got %v", err)
	}
}

func TestSplitParagraphMidText(t *testing.T) {
	d := newTestDoc(t, "<p>hello</p>")
	e := New(d, Options{})
	defer e.Close()
	text := d.Root().FirstChild.FirstChild

	d.SetCaret(CollapsedCaret(text, 2))
	e.CaretChanged()
	if err := SplitParagraph(d); err != nil {
		t.Fatalf("SplitParagraph failed: %v", err)
	}
	d.Flush()

	if want := "<p>he</p><p>llo</p>"; renderRoot(t, d) != want {
		t.Fatalf("Expected %q, got %q", want, renderRoot(t, d))
	}
	np := d.Root().FirstChild.NextSibling
	c, ok := d.Caret()
	if !ok || c.StartContainer != np.FirstChild || c.StartOffset != 0 {
		t.Errorf("Expected the caret at the start of the new paragraph, got %+v (ok=%v)", c, ok)
	}

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if want := "<p>hello</p>"; renderRoot(t, d) != want {
		t.Errorf("Expected %q after undo, got %q", want, renderRoot(t, d))
	}
	if !e.Redo() {
		t.Fatal("Redo failed")
	}
	if want := "<p>he</p><p>llo</p>"; renderRoot(t, d) != want {
		t.Errorf("Expected %q after redo, got %q", want, renderRoot(t, d))
	}
}

func TestSplitParagraphAtEnd(t *testing.T) {
	d := newTestDoc(t, "<p>hi</p>")
	e := New(d, Options{})
	defer e.Close()
	text := d.Root().FirstChild.FirstChild

	d.SetCaret(CollapsedCaret(text, 2))
	e.CaretChanged()
	if err := SplitParagraph(d); err != nil {
		t.Fatalf("SplitParagraph failed: %v", err)
	}
	d.Flush()

	// The empty new paragraph is padded so it renders as a line.
	if want := "<p>hi</p><p><br/><br/></p>"; renderRoot(t, d) != want {
		t.Fatalf("Expected %q, got %q", want, renderRoot(t, d))
	}
	np := d.Root().FirstChild.NextSibling
	c, ok := d.Caret()
	if !ok || c.StartContainer != np || c.StartOffset != 0 {
		t.Errorf("Expected the caret at the start of the new paragraph, got %+v (ok=%v)", c, ok)
	}

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if want := "<p>hi</p>"; renderRoot(t, d) != want {
		t.Errorf("Expected %q after undo, got %q", want, renderRoot(t, d))
	}
}

func TestSplitParagraphAtStart(t *testing.T) {
	d := newTestDoc(t, "<p>hi</p>")
	e := New(d, Options{})
	defer e.Close()
	text := d.Root().FirstChild.FirstChild

	d.SetCaret(CollapsedCaret(text, 0))
	e.CaretChanged()
	if err := SplitParagraph(d); err != nil {
		t.Fatalf("SplitParagraph failed: %v", err)
	}
	d.Flush()

	if want := "<p><br/><br/></p><p>hi</p>"; renderRoot(t, d) != want {
		t.Fatalf("Expected %q, got %q", want, renderRoot(t, d))
	}
	c, ok := d.Caret()
	if !ok || c.StartContainer != text || c.StartOffset != 0 {
		t.Errorf("Expected the caret with the moved text, got %+v (ok=%v)", c, ok)
	}
}

func TestSplitParagraphErrors(t *testing.T) {
	d := newTestDoc(t, "<p><b>x</b></p>")
	if err := SplitParagraph(d); err != ErrNoCaret {
		t.Fatalf("Expected ErrNoCaret, got %v", err)
	}

	d.SetCaret(CollapsedCaret(d.Root(), 0))
	if err := SplitParagraph(d); err != ErrNoParagraph {
		t.Fatalf("Expected ErrNoParagraph, got %v", err)
	}

	// A caret in text that is not a direct child of the paragraph is out
	// of reach for the split.
	b := d.Root().FirstChild.FirstChild
	d.SetCaret(CollapsedCaret(b.FirstChild, 1))
	if err := SplitParagraph(d); err != ErrCaretOutsideParagraph {
		t.Fatalf("Expected ErrCaretOutsideParagraph, got %v", err)
	}
}
