// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package emitter

import (
	"strings"

	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/scanner"
)

// printer lays out one document. Every write of a node ends with a line
// break; block collections are written line by line with each nesting
// level indented by indent columns.
type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) write(s string) { p.buf.WriteString(s) }

func (p *printer) spaces(n int) { p.buf.WriteString(strings.Repeat(" ", n)) }

func (p *printer) root(n *node, explicit bool) error {
	if explicit {
		p.write("---")
	}

	if n.isBlock() {
		props := properties(n.ev)
		switch {
		case explicit && len(props) > 0:
			p.write(" " + props + "\n")
		case explicit:
			p.write("\n")
		case len(props) > 0:
			p.write(props + "\n")
		}
		return p.blockCollection(n, 0, false)
	}

	lead := ""
	if explicit {
		lead = " "
	}
	return p.leaf(n, 0, lead)
}

// blockCollection writes n with entries at column indent. When compact is
// set the first entry continues the current line (eg after "- ").
func (p *printer) blockCollection(n *node, indent int, compact bool) error {
	if n.ev.Kind == parser.SequenceStartEvent {
		for i, item := range n.children {
			if i > 0 || !compact {
				p.spaces(indent)
			}
			p.write("-")
			err := p.child(item, indent)
			if err != nil {
				return err
			}
		}
		return nil
	}

	for i := 0; i < len(n.children); i += 2 {
		key, val := n.children[i], n.children[i+1]
		if i > 0 || !compact {
			p.spaces(indent)
		}

		keyText, simple, err := p.simpleKey(key)
		if err != nil {
			return err
		}
		if simple {
			p.write(keyText + ":")
			err = p.mappingValue(val, indent)
		} else {
			p.write("?")
			err = p.child(key, indent)
			if err == nil {
				p.spaces(indent)
				p.write(":")
				err = p.child(val, indent)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// child writes n after a "-", "?" or ":" indicator at column indent.
func (p *printer) child(n *node, indent int) error {
	if !n.isBlock() {
		return p.leaf(n, indent, " ")
	}
	if props := properties(n.ev); len(props) > 0 {
		p.write(" " + props + "\n")
		return p.blockCollection(n, indent+p.indent, false)
	}
	p.spaces(p.indent - 1)
	return p.blockCollection(n, indent+p.indent, true)
}

// mappingValue writes n after "key:". Sequences stay at the key's column.
func (p *printer) mappingValue(n *node, indent int) error {
	if !n.isBlock() {
		return p.leaf(n, indent, " ")
	}
	if props := properties(n.ev); len(props) > 0 {
		p.write(" " + props)
	}
	p.write("\n")
	if n.ev.Kind == parser.SequenceStartEvent {
		return p.blockCollection(n, indent, false)
	}
	return p.blockCollection(n, indent+p.indent, false)
}

// leaf writes a node that fits on the current line, or a literal block
// scalar whose content goes to column indent plus the indentation width.
func (p *printer) leaf(n *node, indent int, lead string) error {
	if n.ev.Kind == parser.ScalarEvent {
		ev := nullForEmpty(n.ev)
		style, err := chooseStyle(ev, scalarContext{blockOK: true})
		if err != nil {
			return err
		}
		if style == scanner.LiteralStyle {
			p.write(lead)
			if props := properties(ev); len(props) > 0 {
				p.write(props + " ")
			}
			p.write(literalHeader(ev.Value, p.indent) + "\n")
			p.write(literalBody(ev.Value, indent+p.indent))
			return nil
		}
	}

	text, err := p.inline(n, false)
	if err != nil {
		return err
	}
	p.write(strings.TrimRight(lead+text, " ") + "\n")
	return nil
}

// simpleKey returns the text of key when it can be written as an implicit
// "key:" on a single line.
func (p *printer) simpleKey(key *node) (string, bool, error) {
	switch key.ev.Kind {
	case parser.AliasEvent:
		// "*a:" would read as an alias named "a:"
		return "*" + key.ev.Anchor + " ", true, nil

	case parser.ScalarEvent:
		ev := nullForEmpty(key.ev)
		style, err := chooseStyle(ev, scalarContext{})
		if err != nil {
			return "", false, err
		}
		if style == scanner.PlainStyle && len(ev.Value) == 0 {
			return "", false, nil
		}
		text := scalarText(ev, style)
		if len(text) > maxSimpleKeyLength {
			return "", false, nil
		}
		return text, true, nil

	default:
		return "", false, nil
	}
}

// inline writes n on a single line: scalars, aliases and collections in
// flow style.
func (p *printer) inline(n *node, inFlow bool) (string, error) {
	switch n.ev.Kind {
	case parser.AliasEvent:
		return "*" + n.ev.Anchor, nil

	case parser.ScalarEvent:
		ev := nullForEmpty(n.ev)
		style, err := chooseStyle(ev, scalarContext{inFlow: inFlow})
		if err != nil {
			return "", err
		}
		text := scalarText(ev, style)
		if style == scanner.PlainStyle && len(ev.Value) == 0 {
			// separates properties from a following ',', ']' or '}'
			text += " "
		}
		return text, nil
	}

	var sb strings.Builder
	if props := properties(n.ev); len(props) > 0 {
		sb.WriteString(props + " ")
	}

	if n.ev.Kind == parser.SequenceStartEvent {
		sb.WriteString("[")
		for i, item := range n.children {
			if i > 0 {
				sb.WriteString(", ")
			}
			text, err := p.inline(item, true)
			if err != nil {
				return "", err
			}
			sb.WriteString(text)
		}
		sb.WriteString("]")
		return sb.String(), nil
	}

	sb.WriteString("{")
	for i := 0; i < len(n.children); i += 2 {
		if i > 0 {
			sb.WriteString(", ")
		}
		key, err := p.inline(n.children[i], true)
		if err != nil {
			return "", err
		}
		if n.children[i].ev.Kind == parser.AliasEvent {
			key += " "
		}
		if len(key) > maxSimpleKeyLength {
			sb.WriteString("? ")
		}
		val, err := p.inline(n.children[i+1], true)
		if err != nil {
			return "", err
		}
		sb.WriteString(key + ": " + val)
	}
	sb.WriteString("}")
	return sb.String(), nil
}

// nullForEmpty writes an untyped empty plain scalar (an omitted value)
// as "null" so that it survives every position.
func nullForEmpty(ev parser.Event) parser.Event {
	if len(ev.Value) == 0 && len(ev.Tag) == 0 && len(ev.Anchor) == 0 && ev.PlainImplicit &&
		(ev.Style == scanner.AnyStyle || ev.Style == scanner.PlainStyle) {
		ev.Value = "null"
	}
	return ev
}

// scalarText writes a single line scalar with its properties.
func scalarText(ev parser.Event, style scanner.ScalarStyle) string {
	var text string
	switch style {
	case scanner.SingleQuotedStyle:
		text = singleQuoted(ev.Value)
	case scanner.DoubleQuotedStyle:
		text = doubleQuoted(ev.Value)
	default:
		text = ev.Value
	}
	props := properties(ev)
	switch {
	case len(props) == 0:
		return text
	case len(text) == 0:
		return props
	default:
		return props + " " + text
	}
}
