package goaltree

import (
	"fmt"

	"github.com/hunchworks/hunch/pkg/hunch/truth"
)

// Node is a vertex of the goal tree. It is a closed sum: the only
// implementations are FactNode and AndNode. Traversals type-switch over the
// two kinds and treat anything else as a programming error.
//
// Nodes are plain values. Two nodes are the same vertex exactly when all
// their fields match, so a derivation that changes a truth value produces a
// distinct node and therefore a distinct graph snapshot.
type Node interface {
	fmt.Stringer
	node()
}

// FactNode represents a named fact. Its truth is the asserted value when an
// assertion exists, otherwise the disjunction of its AndNode children, and
// Unknown for an unasserted leaf.
type FactNode struct {
	Fact   string
	Truth  truth.Value
	Pruned bool
}

func (FactNode) node() {}

// String returns the fact name.
func (n FactNode) String() string { return n.Fact }

// AndNode represents one clause of a fact: the conjunction of its member
// facts. It is anonymous; Parent and Index identify the owning fact and the
// clause position for traceability. A clause with a single member still gets
// an AndNode, keeping the OR/AND alternation of the graph uniform.
type AndNode struct {
	Parent string
	Index  int
	Truth  truth.Value
	Pruned bool
}

func (AndNode) node() {}

// String identifies the clause as "parent/index".
func (n AndNode) String() string { return fmt.Sprintf("%s/%d", n.Parent, n.Index) }

// Truth returns the truth value carried by the node.
func Truth(n Node) truth.Value {
	switch n := n.(type) {
	case FactNode:
		return n.Truth
	case AndNode:
		return n.Truth
	default:
		panic(fmt.Sprintf("goaltree: unknown node kind %T", n))
	}
}

// Pruned reports whether the node is marked pruned.
func Pruned(n Node) bool {
	switch n := n.(type) {
	case FactNode:
		return n.Pruned
	case AndNode:
		return n.Pruned
	default:
		panic(fmt.Sprintf("goaltree: unknown node kind %T", n))
	}
}
