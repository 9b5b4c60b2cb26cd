// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"carvel.dev/yamlcodec/pkg/filepos"
	"carvel.dev/yamlcodec/pkg/scanner"
)

type Kind int

const (
	NullKind Kind = iota + 1
	BoolKind
	IntKind
	FloatKind
	StringKind
	SequenceKind
	MappingKind
)

// DocumentSet is a parsed stream.
type DocumentSet struct {
	AllComments []*Comment

	Items    []*Document
	Position *filepos.Position
}

type Document struct {
	Root     *Node
	Position *filepos.Position
	// Explicit is set when the document started with a "---" marker.
	Explicit bool
	Version  string
}

// Node is a vertex of the value graph. Aliases resolve to the very same
// *Node as their anchor, so a graph may share subtrees but never has
// cycles.
type Node struct {
	Kind Kind

	// Value holds nil, bool, int64, uint64, float64 or string for scalars.
	// uint64 is used only for values above math.MaxInt64.
	Value interface{}
	Items []*Node
	Pairs []*Pair

	// Tag is a non-core tag in full form, eg "!Point". Core yaml.org tags
	// are folded into Kind.
	Tag    string
	Anchor string

	// Style and Flow record how the node was written.
	Style scanner.ScalarStyle
	Flow  bool

	Position *filepos.Position
}

type Pair struct {
	Key   *Node
	Value *Node

	Position *filepos.Position
}

type Comment struct {
	Data     string
	Position *filepos.Position
}
