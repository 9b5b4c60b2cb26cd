// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package serde

import (
	"sort"
	"strings"

	"carvel.dev/yamlcodec/pkg/filepos"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
)

const DefaultMaxDepth = 10000

type DecodeOpts struct {
	// KnownFields rejects mapping keys that do not match a struct field.
	KnownFields bool
	// MaxDepth limits nesting of decoded values; DefaultMaxDepth when 0.
	MaxDepth int
}

// Deserializer drives a Visitor over one node of a value graph.
type Deserializer struct {
	node     *yamlmeta.Node
	untagged bool
	depth    int
	state    *decodeState
}

type decodeState struct {
	opts    DecodeOpts
	checked bool
}

func NewDeserializer(node *yamlmeta.Node, opts DecodeOpts) *Deserializer {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Deserializer{node: node, state: &decodeState{opts: opts}}
}

func (d *Deserializer) Node() *yamlmeta.Node { return d.node }

func (d *Deserializer) Options() DecodeOpts { return d.state.opts }

func (d *Deserializer) Position() *filepos.Position { return d.node.GetPosition() }

// Tag returns the custom tag of the node unless it was already consumed
// by variant selection.
func (d *Deserializer) Tag() string {
	if d.untagged {
		return ""
	}
	return d.node.Tag
}

func (d *Deserializer) child(node *yamlmeta.Node) *Deserializer {
	return &Deserializer{node: node, depth: d.depth + 1, state: d.state}
}

// Deserialize calls exactly one method of v for the node. Errors returned
// by v are reported as Custom errors at the node position unless they
// already carry a position.
func (d *Deserializer) Deserialize(v Visitor) error {
	if !d.state.checked {
		d.state.checked = true
		err := CheckAliasExpansion(d.node)
		if err != nil {
			return err
		}
	}
	if d.depth > d.state.opts.MaxDepth {
		return yamlerr.New(yamlerr.Resolution, d.Position(), "exceeded max depth of %d", d.state.opts.MaxDepth)
	}

	if ev, ok := v.(EnumVisitor); ok {
		return d.deserializeVariant(ev)
	}
	if tv, ok := v.(TaggedVisitor); ok && len(d.Tag()) > 0 {
		content := &Deserializer{node: d.node, untagged: true, depth: d.depth, state: d.state}
		return d.wrap(tv.VisitTagged(d.node.Tag, content))
	}
	return d.wrap(d.visit(v))
}

func (d *Deserializer) visit(v Visitor) error {
	node := d.node
	switch node.Kind {
	case yamlmeta.NullKind:
		return v.VisitNull()
	case yamlmeta.BoolKind:
		return v.VisitBool(node.Value.(bool))
	case yamlmeta.IntKind:
		if u, ok := node.Value.(uint64); ok {
			return v.VisitUint(u)
		}
		return v.VisitInt(node.Value.(int64))
	case yamlmeta.FloatKind:
		return v.VisitFloat(node.Value.(float64))
	case yamlmeta.StringKind:
		return v.VisitString(node.Value.(string))
	case yamlmeta.SequenceKind:
		return v.VisitSequence(&sequenceAccess{d: d})
	case yamlmeta.MappingKind:
		return v.VisitMapping(&mappingAccess{d: d})
	default:
		return yamlerr.New(yamlerr.Resolution, d.Position(), "unexpected node kind %s", node.Kind)
	}
}

func (d *Deserializer) wrap(err error) error {
	return yamlerr.Wrap(yamlerr.Custom, d.Position(), err)
}

func (d *Deserializer) deserializeVariant(ev EnumVisitor) error {
	variants := ev.Variants()
	node := d.node

	var name string
	var content *Deserializer

	switch {
	case len(d.Tag()) > 0:
		name = node.VariantName()
		if len(name) == 0 {
			name = node.Tag
		}
		content = &Deserializer{node: node, untagged: true, depth: d.depth, state: d.state}

	case node.Kind == yamlmeta.StringKind:
		name = node.Value.(string)
		if shape, found := variants[name]; found && shape != UnitVariant {
			return yamlerr.New(yamlerr.Resolution, d.Position(),
				"invalid type: unit variant, expected %s variant '%s'", shape, name)
		}

	case node.Kind == yamlmeta.MappingKind && len(node.Pairs) == 1 &&
		node.Pairs[0].Key.Kind == yamlmeta.StringKind && len(node.Pairs[0].Key.Tag) == 0:
		// {Name: content}
		name = node.Pairs[0].Key.Value.(string)
		content = d.child(node.Pairs[0].Value)

	default:
		return yamlerr.New(yamlerr.Resolution, d.Position(),
			"invalid type: %s, expected a tagged enum variant (one of %s)", node.Kind, variantNames(variants))
	}

	shape, found := variants[name]
	if !found {
		return yamlerr.New(yamlerr.Resolution, d.Position(),
			"unknown variant '%s', expected one of %s", name, variantNames(variants))
	}

	if content != nil {
		kind := content.node.Kind
		mismatch := false
		switch shape {
		case UnitVariant:
			mismatch = kind != yamlmeta.NullKind
		case TupleVariant:
			mismatch = kind != yamlmeta.SequenceKind
		case StructVariant:
			mismatch = kind != yamlmeta.MappingKind
		}
		if mismatch {
			return yamlerr.New(yamlerr.Resolution, content.Position(),
				"invalid type: %s, expected %s variant '%s'", kind, shape, name)
		}
	}

	return d.wrap(ev.VisitVariant(&variantAccess{name: name, shape: shape, d: d, content: content}))
}

func variantNames(variants map[string]VariantShape) string {
	var names []string
	for name := range variants {
		names = append(names, "'"+name+"'")
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

type variantAccess struct {
	name    string
	shape   VariantShape
	d       *Deserializer
	content *Deserializer
}

var _ VariantAccess = &variantAccess{}

func (a *variantAccess) Name() string                { return a.name }
func (a *variantAccess) Shape() VariantShape         { return a.shape }
func (a *variantAccess) Position() *filepos.Position { return a.d.Position() }

func (a *variantAccess) Content() *Deserializer {
	if a.content == nil {
		// Unit variant written as a bare name.
		return &Deserializer{node: yamlmeta.NewNull(), untagged: true, depth: a.d.depth, state: a.d.state}
	}
	return a.content
}

func (a *variantAccess) Unit() error {
	if a.content != nil && a.content.node.Kind != yamlmeta.NullKind {
		return a.mismatch(UnitVariant)
	}
	return nil
}

func (a *variantAccess) Newtype(v Visitor) error {
	return a.Content().Deserialize(v)
}

func (a *variantAccess) Tuple(v Visitor) error {
	if a.content == nil || a.content.node.Kind != yamlmeta.SequenceKind {
		return a.mismatch(TupleVariant)
	}
	return a.content.Deserialize(v)
}

func (a *variantAccess) Struct(v Visitor) error {
	if a.content == nil || a.content.node.Kind != yamlmeta.MappingKind {
		return a.mismatch(StructVariant)
	}
	return a.content.Deserialize(v)
}

func (a *variantAccess) mismatch(expected VariantShape) error {
	found := "unit variant"
	if a.content != nil {
		found = a.content.node.Kind.String()
	}
	return yamlerr.New(yamlerr.Resolution, a.d.Position(),
		"invalid type: %s, expected %s variant '%s'", found, expected, a.name)
}

type sequenceAccess struct {
	d   *Deserializer
	idx int
}

func (a *sequenceAccess) Len() int { return len(a.d.node.Items) }

func (a *sequenceAccess) NextElement(v Visitor) (bool, error) {
	return a.NextElementWith(func(d *Deserializer) error { return d.Deserialize(v) })
}

func (a *sequenceAccess) NextElementWith(fn func(*Deserializer) error) (bool, error) {
	if a.idx >= len(a.d.node.Items) {
		return false, nil
	}
	child := a.d.child(a.d.node.Items[a.idx])
	a.idx++
	return true, child.wrap(fn(child))
}

type mappingAccess struct {
	d       *Deserializer
	idx     int
	haveKey bool
}

func (a *mappingAccess) Len() int { return len(a.d.node.Pairs) }

func (a *mappingAccess) NextKey(v Visitor) (bool, error) {
	return a.NextKeyWith(func(d *Deserializer) error { return d.Deserialize(v) })
}

func (a *mappingAccess) NextKeyWith(fn func(*Deserializer) error) (bool, error) {
	if a.haveKey {
		return false, yamlerr.New(yamlerr.Custom, a.d.Position(), "mapping key requested before value of previous key")
	}
	if a.idx >= len(a.d.node.Pairs) {
		return false, nil
	}
	a.haveKey = true
	child := a.d.child(a.d.node.Pairs[a.idx].Key)
	return true, child.wrap(fn(child))
}

func (a *mappingAccess) NextValue(v Visitor) error {
	return a.NextValueWith(func(d *Deserializer) error { return d.Deserialize(v) })
}

func (a *mappingAccess) NextValueWith(fn func(*Deserializer) error) error {
	if !a.haveKey {
		return yamlerr.New(yamlerr.Custom, a.d.Position(), "mapping value requested before its key")
	}
	a.haveKey = false
	child := a.d.child(a.d.node.Pairs[a.idx].Value)
	a.idx++
	return child.wrap(fn(child))
}
