// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

func NewNull() *Node { return &Node{Kind: NullKind} }

func NewBool(val bool) *Node { return &Node{Kind: BoolKind, Value: val} }

func NewInt(val int64) *Node { return &Node{Kind: IntKind, Value: val} }

// NewUint keeps values that fit into int64 as int64 so that equal numbers
// always compare equal.
func NewUint(val uint64) *Node {
	if val <= 1<<63-1 {
		return NewInt(int64(val))
	}
	return &Node{Kind: IntKind, Value: val}
}

func NewFloat(val float64) *Node { return &Node{Kind: FloatKind, Value: val} }

func NewString(val string) *Node { return &Node{Kind: StringKind, Value: val} }

func NewSequence(items ...*Node) *Node {
	return &Node{Kind: SequenceKind, Items: items}
}

func NewMapping(pairs ...*Pair) *Node {
	return &Node{Kind: MappingKind, Pairs: pairs}
}

func NewPair(key, value *Node) *Pair {
	return &Pair{Key: key, Value: value}
}

// WithTag sets the tag of n and returns it.
func (n *Node) WithTag(tag string) *Node {
	n.Tag = tag
	return n
}
