// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"fmt"

	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/resolve"
	"carvel.dev/yamlcodec/pkg/scanner"
)

// Events turns the document set back into a full event stream.
func (ds *DocumentSet) Events() []parser.Event {
	events := []parser.Event{{Kind: parser.StreamStartEvent}}
	for _, doc := range ds.Items {
		events = append(events, doc.Events()...)
	}
	return append(events, parser.Event{Kind: parser.StreamEndEvent})
}

// Events returns the events of a single document, without stream events.
func (d *Document) Events() []parser.Event {
	events := []parser.Event{{Kind: parser.DocumentStartEvent, Implicit: !d.Explicit, Version: d.Version}}
	events = append(events, d.Root.Events()...)
	return append(events, parser.Event{Kind: parser.DocumentEndEvent, Implicit: true})
}

// Events returns the events describing the graph under n. Nodes reached
// more than once are written once with an anchor and then as aliases.
func (n *Node) Events() []parser.Event {
	e := &eventWriter{anchors: assignAnchors(n), written: map[*Node]bool{}}
	e.write(n)
	return e.events
}

type eventWriter struct {
	anchors map[*Node]string
	written map[*Node]bool
	events  []parser.Event
}

func (e *eventWriter) write(n *Node) {
	anchor := e.anchors[n]
	if len(anchor) > 0 {
		if e.written[n] {
			e.events = append(e.events, parser.Event{Kind: parser.AliasEvent, Anchor: anchor})
			return
		}
		e.written[n] = true
	}

	switch n.Kind {
	case SequenceKind:
		e.events = append(e.events, parser.Event{
			Kind:     parser.SequenceStartEvent,
			Anchor:   anchor,
			Tag:      n.Tag,
			Implicit: len(n.Tag) == 0,
			Flow:     n.Flow,
		})
		for _, item := range n.Items {
			e.write(item)
		}
		e.events = append(e.events, parser.Event{Kind: parser.SequenceEndEvent})

	case MappingKind:
		e.events = append(e.events, parser.Event{
			Kind:     parser.MappingStartEvent,
			Anchor:   anchor,
			Tag:      n.Tag,
			Implicit: len(n.Tag) == 0,
			Flow:     n.Flow,
		})
		for _, pair := range n.Pairs {
			e.write(pair.Key)
			e.write(pair.Value)
		}
		e.events = append(e.events, parser.Event{Kind: parser.MappingEndEvent})

	default:
		ev := ScalarEvent(n)
		ev.Anchor = anchor
		e.events = append(e.events, ev)
	}
}

// ScalarEvent describes a scalar node. Strings that would resolve to
// another kind when written plain are marked as not plain-implicit so that
// they get quoted. Tagged scalars are never implicit.
func ScalarEvent(n *Node) parser.Event {
	ev := parser.Event{
		Kind:  parser.ScalarEvent,
		Tag:   n.Tag,
		Value: n.Text(),
		Style: n.Style,
	}
	if n.Kind == StringKind {
		ev.PlainImplicit = !resolve.NeedsQuoting(ev.Value)
		ev.QuotedImplicit = true
	} else {
		ev.PlainImplicit = true
		ev.Style = scanner.PlainStyle
		if n.Kind == NullKind && len(n.Tag) > 0 {
			// "!Unit" rather than "!Unit null"
			ev.Value = ""
		}
	}

	if len(n.Tag) > 0 {
		// Tagged content resolves implicitly only when plain, so strings
		// that would be misread must be quoted.
		if n.Kind == StringKind && !ev.PlainImplicit &&
			(ev.Style == scanner.AnyStyle || ev.Style == scanner.PlainStyle) {
			ev.Style = scanner.SingleQuotedStyle
		}
		ev.PlainImplicit = false
		ev.QuotedImplicit = false
	}
	return ev
}

// assignAnchors names every node that needs an anchor: nodes referenced
// more than once and nodes that carried an anchor in the source. Names
// are unique within the graph.
func assignAnchors(root *Node) map[*Node]string {
	refs := map[*Node]int{}
	var order []*Node
	_ = WalkWithParent(root, nil, VisitorFunc(func(n *Node, _ *Node) error {
		if refs[n] == 0 {
			order = append(order, n)
		}
		refs[n]++
		return nil
	}))

	anchors := map[*Node]string{}
	used := map[string]bool{}
	generated := 0

	for _, n := range order {
		if refs[n] < 2 && len(n.Anchor) == 0 {
			continue
		}
		name := n.Anchor
		if len(name) == 0 || used[name] {
			base := name
			for {
				generated++
				if len(base) > 0 {
					name = fmt.Sprintf("%s_%d", base, generated)
				} else {
					name = fmt.Sprintf("id%03d", generated)
				}
				if !used[name] {
					break
				}
			}
		}
		used[name] = true
		anchors[n] = name
	}
	return anchors
}
