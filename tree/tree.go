// Package tree reconstructs per-goroutine call trees from depthlog's
// logfmt output. Each line's depth column places it in the tree:
// a record at depth d becomes a child of the most recent record at
// depth d-1 on the same goroutine. Consecutive identical nodes are
// collapsed with an xN count suffix.
package tree

import (
	"fmt"
	"io"

	"github.com/go-logfmt/logfmt"
)

// Event is one parsed log line.
type Event struct {
	TS    string
	Level string
	TID   string
	Depth int
	Func  string
	File  string
	Line  string
	Msg   string
}

// Options controls parsing and rendering.
type Options struct {
	// ShowMsg appends the record's message to each node label.
	ShowMsg bool
	// OnlyTID restricts output to a single goroutine id.
	OnlyTID string
	// MaxLines caps the number of lines consumed (0 = unlimited).
	MaxLines int
	// NoCollapse keeps consecutive identical nodes separate.
	NoCollapse bool
}

// Node is one entry of a reconstructed call tree. The root node is
// virtual and never rendered.
type Node struct {
	Label    string
	Count    int
	Children []*Node
}

// Parse reads logfmt lines and groups events per goroutine id,
// preserving first-seen tid order. Lines without a depth or func
// column are skipped.
func Parse(r io.Reader, opts Options) (map[string][]Event, []string, error) {
	events := make(map[string][]Event)
	var order []string

	dec := logfmt.NewDecoder(r)
	lines := 0
	for dec.ScanRecord() {
		if opts.MaxLines > 0 && lines >= opts.MaxLines {
			break
		}
		lines++

		kv := make(map[string]string)
		for dec.ScanKeyval() {
			kv[string(dec.Key())] = string(dec.Value())
		}

		depthStr, ok := kv["depth"]
		if !ok {
			continue
		}
		fn, ok := kv["func"]
		if !ok {
			continue
		}
		var depth int
		if _, err := fmt.Sscanf(depthStr, "%d", &depth); err != nil {
			continue
		}

		ev := Event{
			TS:    kv["ts"],
			Level: kv["level"],
			TID:   kv["tid"],
			Depth: depth,
			Func:  fn,
			File:  kv["file"],
			Line:  kv["line"],
			Msg:   kv["msg"],
		}
		if opts.OnlyTID != "" && ev.TID != opts.OnlyTID {
			continue
		}
		if _, seen := events[ev.TID]; !seen {
			order = append(order, ev.TID)
		}
		events[ev.TID] = append(events[ev.TID], ev)
	}
	if err := dec.Err(); err != nil {
		return nil, nil, fmt.Errorf("parsing logfmt input: %w", err)
	}
	return events, order, nil
}

func nodeLabel(ev Event, showMsg bool) string {
	base := fmt.Sprintf("%s (%s:%s)", ev.Func, ev.File, ev.Line)
	if showMsg && ev.Msg != "" {
		return base + " :: " + ev.Msg
	}
	return base
}

type stackEntry struct {
	depth int
	node  *Node
}

// Build reconstructs the call tree of one goroutine's event sequence.
// The returned root is virtual (depth -1).
func Build(events []Event, opts Options) *Node {
	root := &Node{}
	var stack []stackEntry

	for _, ev := range events {
		// Pop until the parent sits at depth-1.
		for len(stack) > 0 && stack[len(stack)-1].depth >= ev.Depth {
			stack = stack[:len(stack)-1]
		}
		parent := root
		if len(stack) > 0 {
			parent = stack[len(stack)-1].node
		}

		label := nodeLabel(ev, opts.ShowMsg)
		var cur *Node
		if !opts.NoCollapse && len(parent.Children) > 0 &&
			parent.Children[len(parent.Children)-1].Label == label {
			cur = parent.Children[len(parent.Children)-1]
			cur.Count++
		} else {
			cur = &Node{Label: label, Count: 1}
			parent.Children = append(parent.Children, cur)
		}
		stack = append(stack, stackEntry{depth: ev.Depth, node: cur})
	}
	return root
}

// Render returns the ASCII lines of a tree, root excluded.
func Render(root *Node) []string {
	return renderInto(nil, root, "")
}

func renderInto(lines []string, node *Node, prefix string) []string {
	for i, child := range node.Children {
		last := i == len(node.Children)-1
		branch := "├── "
		ext := "│   "
		if last {
			branch = "└── "
			ext = "    "
		}
		suffix := ""
		if child.Count > 1 {
			suffix = fmt.Sprintf("  x%d", child.Count)
		}
		lines = append(lines, prefix+branch+child.Label+suffix)
		lines = renderInto(lines, child, prefix+ext)
	}
	return lines
}

// Write runs the full pipeline: parse from r, then print one tree per
// goroutine id to w with a tid heading.
func Write(w io.Writer, r io.Reader, opts Options) error {
	events, order, err := Parse(r, opts)
	if err != nil {
		return err
	}
	for _, tid := range order {
		if _, err := fmt.Fprintf(w, "tid=%s\n", tid); err != nil {
			return err
		}
		root := Build(events[tid], opts)
		for _, line := range Render(root) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
