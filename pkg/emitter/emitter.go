// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package emitter

import (
	"io"

	"carvel.dev/yamlcodec/pkg/filepos"
	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/yamlerr"
)

const (
	MinIndent     = 2
	MaxIndent     = 9
	DefaultIndent = 2

	// MaxDepth limits collection nesting of emitted documents.
	MaxDepth = 10000
)

type Options struct {
	// Indent is the number of columns each nesting level is indented by.
	Indent int
}

// CheckIndent reports widths outside [MinIndent, MaxIndent] as
// Configuration errors.
func CheckIndent(width int) error {
	if width < MinIndent || width > MaxIndent {
		return yamlerr.New(yamlerr.Configuration, filepos.NewUnknownPosition(),
			"indentation width must be between %d and %d, got %d", MinIndent, MaxIndent, width)
	}
	return nil
}

// Emitter writes documents to w. Documents after the first one are
// introduced with "---".
type Emitter struct {
	w         io.Writer
	indent    int
	documents int

	builder  treeBuilder
	docStart *parser.Event
}

func New(w io.Writer, opts Options) (*Emitter, error) {
	err := CheckIndent(opts.Indent)
	if err != nil {
		return nil, err
	}
	return &Emitter{w: w, indent: opts.Indent, builder: treeBuilder{maxDepth: MaxDepth}}, nil
}

func emitErrorf(msg string, args ...interface{}) error {
	return yamlerr.New(yamlerr.Emit, filepos.NewUnknownPosition(), msg, args...)
}

// Emit writes events. Stream and document events are optional: node events
// outside of a document form a document of their own. A document is
// written as soon as its last event arrives, so events of one document
// may be split across calls.
func (e *Emitter) Emit(events []parser.Event) error {
	for _, ev := range events {
		err := e.emitEvent(ev)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitEvent(ev parser.Event) error {
	switch ev.Kind {
	case parser.StreamStartEvent, parser.StreamEndEvent:
		if e.docStart != nil || e.builder.inProgress() {
			return emitErrorf("unexpected %s event inside a document", ev.Kind)
		}
		return nil

	case parser.DocumentStartEvent:
		if e.docStart != nil || e.builder.inProgress() {
			return emitErrorf("unexpected %s event inside a document", ev.Kind)
		}
		start := ev
		e.docStart = &start
		return nil

	case parser.DocumentEndEvent:
		if e.docStart == nil || e.builder.root == nil {
			return emitErrorf("expected a node before %s event", ev.Kind)
		}
		err := e.writeDocument(*e.docStart, e.builder.root)
		e.docStart = nil
		e.builder.root = nil
		return err

	case parser.ScalarEvent, parser.AliasEvent,
		parser.SequenceStartEvent, parser.SequenceEndEvent,
		parser.MappingStartEvent, parser.MappingEndEvent:

		if e.builder.root != nil {
			return emitErrorf("expected %s event but found %s", parser.DocumentEndEvent, ev.Kind)
		}
		root, err := e.builder.add(ev)
		if err != nil || root == nil {
			return err
		}
		if e.docStart != nil {
			e.builder.root = root
			return nil
		}
		return e.writeDocument(parser.Event{Kind: parser.DocumentStartEvent, Implicit: true}, root)

	default:
		return emitErrorf("unexpected %s event", ev.Kind)
	}
}

// Close fails if the last document was left incomplete.
func (e *Emitter) Close() error {
	if e.docStart != nil || e.builder.inProgress() {
		return emitErrorf("incomplete document")
	}
	return nil
}

func (e *Emitter) writeDocument(start parser.Event, root *node) error {
	p := &printer{indent: e.indent}

	explicit := e.documents > 0 || len(start.Version) > 0
	if len(start.Version) > 0 {
		p.write("%YAML " + start.Version + "\n")
	}

	err := p.root(root, explicit)
	if err != nil {
		return err
	}

	_, err = io.WriteString(e.w, p.buf.String())
	if err != nil {
		return yamlerr.Wrap(yamlerr.Emit, filepos.NewUnknownPosition(), err)
	}
	e.documents++
	return nil
}

// node is a collected event with its children: sequence items, or keys
// and values alternating for mappings.
type node struct {
	ev       parser.Event
	children []*node
}

func (n *node) isCollection() bool {
	return n.ev.Kind == parser.SequenceStartEvent || n.ev.Kind == parser.MappingStartEvent
}

// isBlock reports collections written across lines.
func (n *node) isBlock() bool {
	return n.isCollection() && !n.ev.Flow && len(n.children) > 0
}

type treeBuilder struct {
	stack    []*node
	root     *node
	maxDepth int
}

func (b *treeBuilder) inProgress() bool { return len(b.stack) > 0 }

// add returns the root node once its last event was added.
func (b *treeBuilder) add(ev parser.Event) (*node, error) {
	switch ev.Kind {
	case parser.ScalarEvent, parser.AliasEvent:
		if ev.Kind == parser.AliasEvent && len(ev.Anchor) == 0 {
			return nil, emitErrorf("alias without anchor name")
		}
		return b.attach(&node{ev: ev}), nil

	case parser.SequenceStartEvent, parser.MappingStartEvent:
		if len(b.stack) >= b.maxDepth {
			return nil, emitErrorf("exceeded max depth of %d", b.maxDepth)
		}
		b.stack = append(b.stack, &node{ev: ev})
		return nil, nil

	default:
		expected := parser.SequenceStartEvent
		if ev.Kind == parser.MappingEndEvent {
			expected = parser.MappingStartEvent
		}
		if len(b.stack) == 0 || b.stack[len(b.stack)-1].ev.Kind != expected {
			return nil, emitErrorf("unexpected %s event", ev.Kind)
		}
		top := b.stack[len(b.stack)-1]
		if expected == parser.MappingStartEvent && len(top.children)%2 != 0 {
			return nil, emitErrorf("mapping key is missing its value")
		}
		b.stack = b.stack[:len(b.stack)-1]
		return b.attach(top), nil
	}
}

func (b *treeBuilder) attach(n *node) *node {
	if len(b.stack) == 0 {
		return n
	}
	top := b.stack[len(b.stack)-1]
	top.children = append(top.children, n)
	return nil
}
