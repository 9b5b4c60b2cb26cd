// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"fmt"
	"strings"

	"carvel.dev/yamlcodec/pkg/filepos"
	"carvel.dev/yamlcodec/pkg/resolve"
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case SequenceKind:
		return "sequence"
	case MappingKind:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (n *Node) IsScalar() bool {
	return n.Kind != SequenceKind && n.Kind != MappingKind
}

func (n *Node) GetPosition() *filepos.Position {
	if n == nil || n.Position == nil {
		return filepos.NewUnknownPosition()
	}
	return n.Position
}

// VariantName returns the name selected by a local tag ("!Name" -> "Name")
// or an empty string when the node has no local tag.
func (n *Node) VariantName() string {
	if strings.HasPrefix(n.Tag, "!") && len(n.Tag) > 1 {
		return n.Tag[1:]
	}
	return ""
}

// Get returns the value of the first pair whose key is the string key.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind != MappingKind {
		return nil, false
	}
	for _, pair := range n.Pairs {
		if pair.Key.Kind == StringKind && pair.Key.Value == key {
			return pair.Value, true
		}
	}
	return nil, false
}

// Text renders a scalar the way it would be written as a plain scalar.
func (n *Node) Text() string {
	switch typedVal := n.Value.(type) {
	case nil:
		return "null"
	case bool:
		if typedVal {
			return "true"
		}
		return "false"
	case int64:
		return fmt.Sprintf("%d", typedVal)
	case uint64:
		return fmt.Sprintf("%d", typedVal)
	case float64:
		return resolve.FormatFloat(typedVal)
	case string:
		return typedVal
	default:
		panic(fmt.Sprintf("Unexpected scalar value %T", n.Value))
	}
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	tag := ""
	if len(n.Tag) > 0 {
		tag = n.Tag + " "
	}
	switch n.Kind {
	case SequenceKind:
		return fmt.Sprintf("%ssequence(%d)", tag, len(n.Items))
	case MappingKind:
		return fmt.Sprintf("%smapping(%d)", tag, len(n.Pairs))
	case StringKind:
		return fmt.Sprintf("%s%q", tag, n.Value)
	default:
		return tag + n.Text()
	}
}
