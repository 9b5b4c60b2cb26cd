// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

// VisitorWithParent is invoked for every reference to a node while walking
// a graph; parent is nil for the root.
type VisitorWithParent interface {
	VisitWithParent(node *Node, parent *Node) error
}

// VisitorFunc adapts a function to VisitorWithParent.
type VisitorFunc func(node *Node, parent *Node) error

func (f VisitorFunc) VisitWithParent(node *Node, parent *Node) error { return f(node, parent) }

// WalkWithParent traverses the graph starting at node depth-first. Every
// reference (including every alias) is reported, but the children of a
// shared node are walked only the first time it is reached. If v returns
// an error the traversal is aborted.
func WalkWithParent(node *Node, parent *Node, v VisitorWithParent) error {
	return walk(node, parent, v, map[*Node]bool{})
}

func walk(node *Node, parent *Node, v VisitorWithParent, visited map[*Node]bool) error {
	err := v.VisitWithParent(node, parent)
	if err != nil {
		return err
	}
	if visited[node] {
		return nil
	}
	visited[node] = true

	for _, item := range node.Items {
		err = walk(item, node, v, visited)
		if err != nil {
			return err
		}
	}
	for _, pair := range node.Pairs {
		err = walk(pair.Key, node, v, visited)
		if err != nil {
			return err
		}
		err = walk(pair.Value, node, v, visited)
		if err != nil {
			return err
		}
	}
	return nil
}

// CountNodes returns the number of distinct nodes reachable from node.
func CountNodes(node *Node) int {
	count := 0
	seen := map[*Node]bool{}
	_ = WalkWithParent(node, nil, VisitorFunc(func(n *Node, _ *Node) error {
		if !seen[n] {
			seen[n] = true
			count++
		}
		return nil
	}))
	return count
}
