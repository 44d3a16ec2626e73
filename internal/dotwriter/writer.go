// Package dotwriter renders a scheduled graph as DOT text: one edge per
// producer/consumer relationship, in final position order, with a node
// line only for each inserted copy node, styled red to distinguish it from
// the original instructions.
package dotwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/regwindow/scheduler/internal/dag"
)

// Writer writes a dag.Graph as a DOT digraph.
type Writer struct{}

// New creates a DOT format writer.
func New() *Writer {
	return &Writer{}
}

// Write renders graph as `digraph nodes { ... }`, one `producer -> user`
// line per edge (self-reference edges, which carry no user, emit nothing)
// and a `[color=red]` style line for every copy node.
func (w *Writer) Write(g *dag.Graph, out io.Writer) error {
	if _, err := fmt.Fprintln(out, "digraph nodes {"); err != nil {
		return err
	}

	for _, n := range g.Nodes() {
		if n.IsCopy() {
			if _, err := fmt.Fprintf(out, "  %d [color=red];\n", n.Identity()); err != nil {
				return err
			}
		}
	}

	for _, n := range g.Nodes() {
		for _, op := range n.Operands {
			if op == n {
				continue
			}
			if _, err := fmt.Fprintf(out, "  %d -> %d;\n", op.Identity(), n.Identity()); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintln(out, "}"); err != nil {
		return err
	}
	return nil
}

// WriteToFile renders graph as DOT text to the file at path.
func (w *Writer) WriteToFile(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return w.Write(g, f)
}
