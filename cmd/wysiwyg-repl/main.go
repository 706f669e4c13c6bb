package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	wysiwyg "github.com/168iroha/example-wysiwyg"
)

// REPL holds the state of the interactive session
type REPL struct {
	doc    *wysiwyg.Document
	editor *wysiwyg.Editor
	reader *bufio.Reader
}

func main() {
	configPath := flag.String("config", "", "path to a YAML options file")
	flag.Parse()

	fmt.Println("WYSIWYG REPL - Interactive Editor Core Demo")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	opts := wysiwyg.Options{}
	if *configPath != "" {
		loaded, err := wysiwyg.LoadOptionsFile(*configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		opts = *loaded
	}

	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	doc, err := wysiwyg.NewDocument(root)
	if err != nil {
		fmt.Printf("Error creating document: %v\n", err)
		os.Exit(1)
	}

	repl := &REPL{
		doc:    doc,
		editor: wysiwyg.New(doc, opts),
		reader: bufio.NewReader(os.Stdin),
	}
	defer repl.editor.Close()

	for {
		fmt.Print("wysiwyg> ")
		input, err := repl.reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !repl.handleCommand(input) {
			break
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.SplitN(input, " ", 2)
	cmd := parts[0]
	arg := ""
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "help":
		r.printHelp()
	case "quit", "exit":
		fmt.Println("Goodbye!")
		return false
	case "show":
		r.show()
	case "insert":
		r.insert(arg)
	case "type":
		r.typeText(arg)
	case "br":
		r.gesture(wysiwyg.InsertLineBreak)
	case "enter":
		r.gesture(wysiwyg.SplitParagraph)
	case "undo":
		if !r.editor.Undo() {
			fmt.Println("Nothing to undo")
		}
		r.show()
	case "redo":
		if !r.editor.Redo() {
			fmt.Println("Nothing to redo")
		}
		r.show()
	case "compose":
		r.compose(arg, true)
	case "cancel":
		r.compose(arg, false)
	case "caret":
		r.printCaret()
	case "end":
		r.caretToEnd()
		r.printCaret()
	default:
		fmt.Printf("Unknown command: %s (try 'help')\n", cmd)
	}
	return true
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  show            - print the document content")
	fmt.Println("  insert <html>   - insert an HTML fragment at the end of the root")
	fmt.Println("  type <text>     - type text at the caret")
	fmt.Println("  br              - insert a line break at the caret (Shift-Enter)")
	fmt.Println("  enter           - split the paragraph at the caret (Enter)")
	fmt.Println("  undo / redo     - step through the edit history")
	fmt.Println("  compose <text>  - run a composition session and commit it")
	fmt.Println("  cancel <text>   - run a composition session and cancel it")
	fmt.Println("  caret           - show the caret position")
	fmt.Println("  end             - move the caret to the end of the content")
	fmt.Println("  quit            - exit")
}

func (r *REPL) show() {
	var sb strings.Builder
	for n := r.doc.Root().FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&sb, n); err != nil {
			fmt.Printf("Render error: %v\n", err)
			return
		}
	}
	fmt.Printf("  %s\n", sb.String())
	fmt.Printf("  [undo: %v, redo: %v]\n", r.editor.CanUndo(), r.editor.CanRedo())
}

func (r *REPL) insert(fragment string) {
	if fragment == "" {
		fmt.Println("Usage: insert <html>")
		return
	}
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		fmt.Printf("Parse error: %v\n", err)
		return
	}
	for _, n := range nodes {
		r.doc.InsertBefore(r.doc.Root(), n, nil)
	}
	r.doc.Flush()
	r.show()
}

func (r *REPL) typeText(s string) {
	if s == "" {
		fmt.Println("Usage: type <text>")
		return
	}
	caret, ok := r.doc.Caret()
	if !ok {
		// No caret yet: typing lands at the end of the root and the
		// normalizer finds it a paragraph.
		r.doc.InsertBefore(r.doc.Root(), textNode(s), nil)
		r.doc.Flush()
		r.caretToEnd()
		r.show()
		return
	}

	n, off := caret.StartContainer, caret.StartOffset
	if n.Type == html.TextNode {
		runes := []rune(r.doc.Text(n))
		if off > len(runes) {
			off = len(runes)
		}
		r.doc.SetText(n, string(runes[:off])+s+string(runes[off:]))
		r.doc.SetCaret(wysiwyg.CollapsedCaret(n, off+len([]rune(s))))
	} else {
		t := textNode(s)
		r.doc.InsertBefore(n, t, childAt(n, off))
		r.doc.SetCaret(wysiwyg.CollapsedCaret(t, len([]rune(s))))
	}
	r.doc.Flush()
	r.show()
}

func (r *REPL) gesture(fn func(wysiwyg.Surface) error) {
	if err := fn(r.doc); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	r.doc.Flush()
	r.show()
}

// compose simulates an input-method session: the text builds up one rune at
// a time while composing, then either commits or cancels.
func (r *REPL) compose(s string, commit bool) {
	if s == "" {
		fmt.Println("Usage: compose <text>")
		return
	}
	caret, ok := r.doc.Caret()
	if !ok || caret.StartContainer.Type != html.TextNode {
		fmt.Println("Place the caret in text first (try 'type' then 'end')")
		return
	}
	n, off := caret.StartContainer, caret.StartOffset

	r.editor.CompositionStart()
	base := []rune(r.doc.Text(n))
	if off > len(base) {
		off = len(base)
	}
	for i := 1; i <= len([]rune(s)); i++ {
		partial := string([]rune(s)[:i])
		r.doc.SetText(n, string(base[:off])+partial+string(base[off:]))
		r.doc.Flush()
	}
	if commit {
		r.editor.CompositionEnd(s)
	} else {
		r.editor.CompositionEnd("")
	}
	r.doc.Flush()
	r.show()
}

func (r *REPL) printCaret() {
	caret, ok := r.doc.Caret()
	if !ok {
		fmt.Println("  no caret")
		return
	}
	fmt.Printf("  caret: %s offset %d\n", nodeLabel(caret.StartContainer), caret.StartOffset)
}

// caretToEnd places the caret at the end of the last text node, or at the
// end of the root's child list when there is none.
func (r *REPL) caretToEnd() {
	if t := lastText(r.doc.Root()); t != nil {
		r.doc.SetCaret(wysiwyg.CollapsedCaret(t, len([]rune(t.Data))))
	} else {
		count := 0
		for n := r.doc.Root().FirstChild; n != nil; n = n.NextSibling {
			count++
		}
		r.doc.SetCaret(wysiwyg.CollapsedCaret(r.doc.Root(), count))
	}
	r.editor.CaretChanged()
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func childAt(n *html.Node, i int) *html.Node {
	c := n.FirstChild
	for ; c != nil && i > 0; c = c.NextSibling {
		i--
	}
	return c
}

func lastText(n *html.Node) *html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if c.Type == html.TextNode {
			return c
		}
		if t := lastText(c); t != nil {
			return t
		}
	}
	return nil
}

func nodeLabel(n *html.Node) string {
	if n == nil {
		return "<nil>"
	}
	if n.Type == html.TextNode {
		return fmt.Sprintf("text %q", n.Data)
	}
	return "<" + n.Data + ">"
}
