// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"fmt"
	"io"

	"carvel.dev/yamlcodec/pkg/filepos"
	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/resolve"
	"carvel.dev/yamlcodec/pkg/scanner"
	"carvel.dev/yamlcodec/pkg/yamlerr"
)

// EventSource produces parser events; *parser.Parser is one.
type EventSource interface {
	Next() (parser.Event, error)
}

type ParserOpts struct {
	WithoutComments bool
}

type Parser struct {
	opts           ParserOpts
	associatedName string
}

func NewParser(opts ParserOpts) *Parser {
	return &Parser{opts, ""}
}

// ParseBytes parses every document of data. associatedName is recorded in
// positions and errors.
func (p *Parser) ParseBytes(data []byte, associatedName string) (*DocumentSet, error) {
	p.associatedName = associatedName

	src := parser.New(data)
	builder := NewBuilder(src)
	builder.file = associatedName

	docSet := &DocumentSet{Position: filepos.NewUnknownPositionInFile(associatedName)}
	for {
		doc, err := builder.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		docSet.Items = append(docSet.Items, doc)
	}

	if !p.opts.WithoutComments {
		for _, tok := range src.Comments() {
			docSet.AllComments = append(docSet.AllComments, &Comment{
				Data:     tok.Value,
				Position: builder.position(tok.Start),
			})
		}
	}
	return docSet, nil
}

// ParseBytes parses a stream of documents.
func ParseBytes(data []byte, associatedName string) (*DocumentSet, error) {
	return NewParser(ParserOpts{WithoutComments: true}).ParseBytes(data, associatedName)
}

// ParseDocument parses data that holds at most one document. An empty
// stream yields a document with a null root.
func ParseDocument(data []byte, associatedName string) (*Document, error) {
	builder := NewBuilder(parser.New(data))
	builder.file = associatedName

	doc, err := builder.Next()
	if err == io.EOF {
		return &Document{Root: NewNull(), Position: filepos.NewUnknownPositionInFile(associatedName)}, nil
	}
	if err != nil {
		return nil, err
	}

	next, err := builder.Next()
	switch {
	case err == io.EOF:
		return doc, nil
	case err != nil:
		return nil, err
	default:
		return nil, yamlerr.New(yamlerr.Parse, next.Position,
			"expected a single document in the stream but found another document")
	}
}

type frame struct {
	node   *Node
	anchor string

	key      *Node
	entries  []mappingEntry
	scalarKs map[string]*Node
}

// mappingEntry is either an explicit pair or a merge ("<<") value kept in
// source order until the mapping is complete.
type mappingEntry struct {
	pair  *Pair
	merge *Node
}

// Builder assembles nodes from parser events one document at a time.
type Builder struct {
	events EventSource
	file   string

	done bool

	anchors map[string]*Node
	stack   []*frame
}

func NewBuilder(events EventSource) *Builder {
	return &Builder{events: events}
}

// WithFile records file in positions and errors of built documents.
func (b *Builder) WithFile(file string) *Builder {
	b.file = file
	return b
}

// Next returns the following document or io.EOF after the last one.
func (b *Builder) Next() (*Document, error) {
	if b.done {
		return nil, io.EOF
	}

	var doc *Document

	for {
		ev, err := b.events.Next()
		if err != nil {
			b.done = true
			return nil, err
		}

		switch ev.Kind {
		case parser.StreamStartEvent:

		case parser.StreamEndEvent, parser.NoEvent:
			b.done = true
			return nil, io.EOF

		case parser.DocumentStartEvent:
			// Anchors are scoped to a single document.
			b.anchors = map[string]*Node{}
			b.stack = nil
			doc = &Document{Position: b.position(ev.Start), Explicit: !ev.Implicit, Version: ev.Version}

		case parser.DocumentEndEvent:
			if doc == nil {
				return nil, yamlerr.New(yamlerr.Parse, b.position(ev.Start), "found document end without document start")
			}
			if doc.Root == nil {
				doc.Root = &Node{Kind: NullKind, Position: doc.Position}
			}
			return doc, nil

		case parser.ScalarEvent:
			node, err := b.scalarNode(ev)
			if err != nil {
				return nil, b.fail(err)
			}
			if err := b.attach(doc, node); err != nil {
				return nil, b.fail(err)
			}
			b.register(ev.Anchor, node)

		case parser.AliasEvent:
			target, found := b.anchors[ev.Anchor]
			if !found {
				return nil, b.fail(yamlerr.New(yamlerr.Resolution, b.position(ev.Start),
					"unknown anchor '%s' referenced", ev.Anchor))
			}
			if err := b.attach(doc, target); err != nil {
				return nil, b.fail(err)
			}

		case parser.SequenceStartEvent, parser.MappingStartEvent:
			node, err := b.collectionNode(ev)
			if err != nil {
				return nil, b.fail(err)
			}
			f := &frame{node: node, anchor: ev.Anchor}
			if node.Kind == MappingKind {
				f.scalarKs = map[string]*Node{}
			}
			b.stack = append(b.stack, f)

		case parser.SequenceEndEvent, parser.MappingEndEvent:
			f := b.stack[len(b.stack)-1]
			b.stack = b.stack[:len(b.stack)-1]

			if f.node.Kind == MappingKind {
				if err := b.completeMapping(f); err != nil {
					return nil, b.fail(err)
				}
			}
			if err := b.attach(doc, f.node); err != nil {
				return nil, b.fail(err)
			}
			b.register(f.anchor, f.node)

		default:
			return nil, b.fail(fmt.Errorf("unexpected event %s", ev.Kind))
		}
	}
}

func (b *Builder) fail(err error) error {
	b.done = true
	return err
}

func (b *Builder) position(m scanner.Mark) *filepos.Position {
	pos := m.Position()
	pos.SetFile(b.file)
	return pos
}

// register binds an anchor once its node is complete, so an alias inside
// its own anchored node cannot resolve to it.
func (b *Builder) register(anchor string, node *Node) {
	if len(anchor) > 0 {
		if len(node.Anchor) == 0 {
			node.Anchor = anchor
		}
		b.anchors[anchor] = node
	}
}

func (b *Builder) scalarNode(ev parser.Event) (*Node, error) {
	pos := b.position(ev.Start)
	node := &Node{Style: ev.Style, Position: pos}

	var kind resolve.Kind
	var val interface{}

	switch {
	case ev.PlainImplicit:
		kind, val = resolve.Plain(ev.Value)

	case ev.QuotedImplicit:
		kind, val = resolve.String, ev.Value

	case ev.Tag == resolve.MergeTag:
		kind, val = resolve.String, mergeKey

	case resolve.IsCoreTag(ev.Tag) || ev.Tag == resolve.SeqTag || ev.Tag == resolve.MapTag:
		var err error
		kind, val, err = resolve.Tagged(ev.Tag, ev.Value)
		if err != nil {
			return nil, yamlerr.Wrap(yamlerr.Resolution, pos, err)
		}

	default:
		// Custom tags keep implicit typing of their plain content.
		node.Tag = ev.Tag
		if ev.Style == scanner.PlainStyle {
			kind, val = resolve.Plain(ev.Value)
		} else {
			kind, val = resolve.String, ev.Value
		}
	}

	node.Kind = kindFromResolve(kind)
	node.Value = val
	return node, nil
}

func kindFromResolve(kind resolve.Kind) Kind {
	switch kind {
	case resolve.Null:
		return NullKind
	case resolve.Bool:
		return BoolKind
	case resolve.Int:
		return IntKind
	case resolve.Float:
		return FloatKind
	default:
		return StringKind
	}
}

func (b *Builder) collectionNode(ev parser.Event) (*Node, error) {
	pos := b.position(ev.Start)
	node := &Node{Kind: SequenceKind, Flow: ev.Flow, Position: pos}
	expectedTag := resolve.SeqTag
	if ev.Kind == parser.MappingStartEvent {
		node.Kind = MappingKind
		expectedTag = resolve.MapTag
	}

	switch {
	case len(ev.Tag) == 0 || ev.Tag == expectedTag:
	case resolve.IsCoreTag(ev.Tag) || ev.Tag == resolve.SeqTag || ev.Tag == resolve.MapTag || ev.Tag == resolve.MergeTag:
		return nil, yamlerr.New(yamlerr.Resolution, pos, "cannot use tag '%s' on a %s", ev.Tag, node.Kind)
	default:
		node.Tag = ev.Tag
	}
	return node, nil
}

func (b *Builder) attach(doc *Document, node *Node) error {
	if doc == nil {
		return fmt.Errorf("found node outside of a document")
	}
	if len(b.stack) == 0 {
		doc.Root = node
		return nil
	}

	parent := b.stack[len(b.stack)-1]
	if parent.node.Kind == SequenceKind {
		parent.node.Items = append(parent.node.Items, node)
		return nil
	}

	if parent.key == nil {
		parent.key = node
		return nil
	}

	key := parent.key
	parent.key = nil

	if isMergeKey(key) {
		parent.entries = append(parent.entries, mappingEntry{merge: node})
		return nil
	}

	if existing := b.findKey(parent, key); existing != nil {
		return yamlerr.New(yamlerr.Parse, key.GetPosition(),
			"found duplicate key %s (first defined at %s)", keyDescription(key), existing.GetPosition().AsCompactString())
	}
	if sk, ok := scalarKey(key); ok {
		parent.scalarKs[sk] = key
	}
	parent.entries = append(parent.entries, mappingEntry{pair: &Pair{Key: key, Value: node, Position: key.Position}})
	return nil
}

// findKey returns the previously seen explicit key equal to key.
func (b *Builder) findKey(f *frame, key *Node) *Node {
	if sk, ok := scalarKey(key); ok {
		return f.scalarKs[sk]
	}
	for _, entry := range f.entries {
		if entry.pair != nil && Equal(entry.pair.Key, key) {
			return entry.pair.Key
		}
	}
	return nil
}

// completeMapping resolves merge entries. Merged keys come first, in the
// order of the merge values, followed by the explicit keys in source order.
// Explicit keys win over merged ones and earlier merged mappings win over
// later ones.
func (b *Builder) completeMapping(f *frame) error {
	var explicit []*Pair
	var merges []*Node
	for _, entry := range f.entries {
		if entry.merge != nil {
			merges = append(merges, entry.merge)
		} else {
			explicit = append(explicit, entry.pair)
		}
	}

	seen := &frame{scalarKs: map[string]*Node{}}
	for _, merge := range merges {
		sources, err := mergeSources(merge)
		if err != nil {
			return err
		}
		for _, src := range sources {
			for _, pair := range src.Pairs {
				if b.findKey(f, pair.Key) != nil || b.findKey(seen, pair.Key) != nil {
					continue
				}
				if sk, ok := scalarKey(pair.Key); ok {
					seen.scalarKs[sk] = pair.Key
				}
				merged := &Pair{Key: pair.Key, Value: pair.Value, Position: pair.Position}
				seen.entries = append(seen.entries, mappingEntry{pair: merged})
				f.node.Pairs = append(f.node.Pairs, merged)
			}
		}
	}

	f.node.Pairs = append(f.node.Pairs, explicit...)
	return nil
}

func mergeSources(val *Node) ([]*Node, error) {
	switch val.Kind {
	case MappingKind:
		return []*Node{val}, nil
	case SequenceKind:
		for _, item := range val.Items {
			if item.Kind != MappingKind {
				return nil, yamlerr.New(yamlerr.Parse, item.GetPosition(),
					"map merge requires map or sequence of maps as the value")
			}
		}
		return val.Items, nil
	default:
		return nil, yamlerr.New(yamlerr.Parse, val.GetPosition(),
			"map merge requires map or sequence of maps as the value")
	}
}

const mergeKey = "<<"

func isMergeKey(key *Node) bool {
	return key.Kind == StringKind && key.Value == mergeKey && len(key.Tag) == 0 &&
		(key.Style == scanner.PlainStyle || key.Style == scanner.AnyStyle)
}

// scalarKey returns a string uniquely identifying an untagged scalar key.
func scalarKey(key *Node) (string, bool) {
	if !key.IsScalar() || len(key.Tag) > 0 {
		return "", false
	}
	if key.Kind == FloatKind {
		// NaN never equals itself; fall back to Equal.
		return "", false
	}
	return fmt.Sprintf("%d:%v", key.Kind, key.Value), true
}

func keyDescription(key *Node) string {
	if key.IsScalar() {
		return fmt.Sprintf("'%s'", key.Text())
	}
	return key.Kind.String()
}
