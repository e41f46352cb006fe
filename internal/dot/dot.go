// Package dot renders a goal tree as Graphviz DOT text.
//
// The drawing conventions: the tree reads right to left, AND junctions
// are small labelled circles, hypothesis roots get a gold border,
// settled nodes are filled green or pink, and pruned nodes are dotted.
package dot

import (
	"fmt"
	"strings"

	"github.com/hunchworks/hunch/pkg/hunch/dag"
	"github.com/hunchworks/hunch/pkg/hunch/goaltree"
	"github.com/hunchworks/hunch/pkg/hunch/truth"
)

// Marshal renders the tree. Output is deterministic for a given tree.
func Marshal(t *goaltree.GoalTree) []byte {
	m := marshaler{
		graph: t.Graph(),
		seen:  make(map[goaltree.Node]bool),
	}

	m.line("strict digraph {")
	m.line("\trankdir=RL")
	for _, root := range m.graph.Starts() {
		m.walk(root, true)
	}
	m.line("}")

	return []byte(m.buf.String())
}

type marshaler struct {
	graph *dag.Graph[goaltree.Node]
	seen  map[goaltree.Node]bool
	buf   strings.Builder
}

func (m *marshaler) walk(n goaltree.Node, root bool) {
	if m.seen[n] {
		return
	}
	m.seen[n] = true

	m.line("\t" + nodeStatement(n, root))
	for _, child := range m.graph.Successors(n) {
		m.walk(child, false)
		m.line(fmt.Sprintf("\t%s -> %s", quote(n.String()), quote(child.String())))
	}
}

func (m *marshaler) line(s string) {
	m.buf.WriteString(s)
	m.buf.WriteByte('\n')
}

func nodeStatement(n goaltree.Node, root bool) string {
	var attrs []string

	if _, ok := n.(goaltree.AndNode); ok {
		attrs = append(attrs, `label=""`, `xlabel="AND"`, "shape=circle", "width=0.3")
	}

	switch {
	case goaltree.Pruned(n):
		attrs = append(attrs, "style=dotted")
	case root:
		attrs = append(attrs, "color=gold", "penwidth=2")
	}

	switch goaltree.Truth(n) {
	case truth.True:
		attrs = append(attrs, "style=filled", "fillcolor=palegreen2")
	case truth.False:
		attrs = append(attrs, "style=filled", "fillcolor=lightpink1")
	}

	if len(attrs) == 0 {
		return quote(n.String())
	}
	return quote(n.String()) + " [" + strings.Join(attrs, " ") + "]"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
