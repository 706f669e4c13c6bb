// wysiwyg-bench is a benchmark and stress test for the wysiwyg editor core.
// It builds a large document and measures capture, normalization, and
// undo/redo replay throughput.
package main

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	wysiwyg "github.com/168iroha/example-wysiwyg"
)

const (
	paragraphCount = 10000
	editCount      = 50000
	bareInserts    = 20000
	sessionCount   = 10000
	ringCapacity   = 1000
)

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Millisecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Millisecond))
}

func main() {
	fmt.Println("WYSIWYG Benchmark and Stress Test")
	fmt.Println("=================================")
	fmt.Printf("Paragraphs: %d, edits: %d, ring capacity: %d\n", paragraphCount, editCount, ringCapacity)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	var results []BenchResult

	fmt.Println("Building document...")
	doc, texts, result := buildDocument()
	results = append(results, result)
	fmt.Println(result)

	editor := wysiwyg.New(doc, wysiwyg.Options{Capacity: ringCapacity})
	defer editor.Close()

	for _, bench := range []func(*wysiwyg.Document, *wysiwyg.Editor, []*html.Node) BenchResult{
		benchTextEdits,
		benchUndoAll,
		benchRedoAll,
		benchBareInserts,
		benchCompositions,
	} {
		result := bench(doc, editor, texts)
		results = append(results, result)
		fmt.Println(result)
	}

	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("-------")
	for _, r := range results {
		fmt.Println(r)
	}
}

// buildDocument assembles the initial tree directly, without an editor
// attached, so construction is not part of the capture measurements.
func buildDocument() (*wysiwyg.Document, []*html.Node, BenchResult) {
	start := time.Now()

	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	doc, err := wysiwyg.NewDocument(root)
	if err != nil {
		panic(err)
	}
	texts := make([]*html.Node, 0, paragraphCount)
	for i := 0; i < paragraphCount; i++ {
		p := doc.CreateParagraph()
		t := &html.Node{Type: html.TextNode, Data: fmt.Sprintf("paragraph %d", i)}
		p.AppendChild(t)
		root.AppendChild(p)
		texts = append(texts, t)
	}

	return doc, texts, BenchResult{
		Name:     "Build document",
		Duration: time.Since(start),
		Ops:      paragraphCount,
	}
}

func benchTextEdits(doc *wysiwyg.Document, _ *wysiwyg.Editor, texts []*html.Node) BenchResult {
	start := time.Now()
	for i := 0; i < editCount; i++ {
		t := texts[i%len(texts)]
		doc.SetText(t, fmt.Sprintf("edited %d", i))
		doc.Flush()
	}
	return BenchResult{
		Name:     "Text edits (capture + log)",
		Duration: time.Since(start),
		Ops:      editCount,
	}
}

func benchUndoAll(_ *wysiwyg.Document, editor *wysiwyg.Editor, _ []*html.Node) BenchResult {
	start := time.Now()
	undos := 0
	for editor.Undo() {
		undos++
	}
	return BenchResult{
		Name:     "Undo to window start",
		Duration: time.Since(start),
		Ops:      undos,
	}
}

func benchRedoAll(_ *wysiwyg.Document, editor *wysiwyg.Editor, _ []*html.Node) BenchResult {
	start := time.Now()
	redos := 0
	for editor.Redo() {
		redos++
	}
	return BenchResult{
		Name:     "Redo to newest",
		Duration: time.Since(start),
		Ops:      redos,
	}
}

// benchBareInserts drops bare text nodes directly under the root, so every
// one of them goes through the paragraph-synthesis rewrite.
func benchBareInserts(doc *wysiwyg.Document, _ *wysiwyg.Editor, _ []*html.Node) BenchResult {
	start := time.Now()
	for i := 0; i < bareInserts; i++ {
		doc.InsertBefore(doc.Root(), &html.Node{Type: html.TextNode, Data: "loose"}, nil)
		doc.Flush()
	}
	return BenchResult{
		Name:     "Bare-text inserts (normalization)",
		Duration: time.Since(start),
		Ops:      bareInserts,
		Extra:    "1 paragraph synthesized per op",
	}
}

func benchCompositions(doc *wysiwyg.Document, editor *wysiwyg.Editor, texts []*html.Node) BenchResult {
	start := time.Now()
	for i := 0; i < sessionCount; i++ {
		t := texts[i%len(texts)]
		doc.SetCaret(wysiwyg.CollapsedCaret(t, 0))
		editor.CaretChanged()
		editor.CompositionStart()
		doc.SetText(t, "かな")
		doc.Flush()
		if i%2 == 0 {
			editor.CompositionEnd("かな")
		} else {
			editor.CompositionEnd("")
		}
		doc.Flush()
	}
	return BenchResult{
		Name:     "Composition sessions",
		Duration: time.Since(start),
		Ops:      sessionCount,
		Extra:    "alternating commit/cancel",
	}
}
