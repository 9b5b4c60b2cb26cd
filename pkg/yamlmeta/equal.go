// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"math"
)

// Equal reports whether a and b describe the same value: same kinds,
// scalar values, tags, item order and pair order. Anchors, styles and
// positions are ignored. NaN equals NaN.
func Equal(a, b *Node) bool {
	return equalNodes(a, b, map[[2]*Node]bool{})
}

func equalNodes(a, b *Node, seen map[[2]*Node]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Tag != b.Tag {
		return false
	}

	// Shared subtrees are compared once.
	key := [2]*Node{a, b}
	if result, found := seen[key]; found {
		return result
	}

	result := true
	switch a.Kind {
	case SequenceKind:
		if len(a.Items) != len(b.Items) {
			result = false
			break
		}
		for i := range a.Items {
			if !equalNodes(a.Items[i], b.Items[i], seen) {
				result = false
				break
			}
		}

	case MappingKind:
		if len(a.Pairs) != len(b.Pairs) {
			result = false
			break
		}
		for i := range a.Pairs {
			if !equalNodes(a.Pairs[i].Key, b.Pairs[i].Key, seen) ||
				!equalNodes(a.Pairs[i].Value, b.Pairs[i].Value, seen) {
				result = false
				break
			}
		}

	case FloatKind:
		af, bf := a.Value.(float64), b.Value.(float64)
		result = af == bf || (math.IsNaN(af) && math.IsNaN(bf))

	default:
		result = a.Value == b.Value
	}

	seen[key] = result
	return result
}

// Equal compares documents by their roots.
func (d *Document) Equal(other *Document) bool {
	return Equal(d.Root, other.Root)
}
