// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"

	"carvel.dev/yamlcodec/pkg/scanner"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	version "github.com/hashicorp/go-version"
)

// MaxDepth limits collection nesting.
const MaxDepth = 10000

// SupportedVersion is the YAML version documents are read as. %YAML
// directives naming another 1.x version are accepted.
const SupportedVersion = "1.1"

var supportedVersions = version.MustConstraints(version.NewConstraint(">= 1.0, < 2.0"))

type state int

const (
	streamStartState state = iota
	implicitDocumentStartState
	documentStartState
	documentContentState
	documentEndState
	blockNodeState
	blockSequenceFirstEntryState
	blockSequenceEntryState
	indentlessSequenceEntryState
	blockMappingFirstKeyState
	blockMappingKeyState
	blockMappingValueState
	flowSequenceFirstEntryState
	flowSequenceEntryState
	flowSequenceEntryMappingKeyState
	flowSequenceEntryMappingValueState
	flowSequenceEntryMappingEndState
	flowMappingFirstKeyState
	flowMappingKeyState
	flowMappingValueState
	flowMappingEmptyValueState
	endState
)

// Parser turns a token stream into events following the YAML 1.1 grammar.
// Like the scanner it is lazy and stops at the first error.
type Parser struct {
	sc *scanner.Scanner

	tok    scanner.Token
	peeked bool

	state  state
	states []state
	marks  []scanner.Mark

	tagDirectives []TagDirective

	depth int
	err   error
}

func New(src []byte) *Parser {
	return &Parser{sc: scanner.New(src)}
}

// Next returns the following event. Once StreamEndEvent was returned
// every call returns a NoEvent event.
func (p *Parser) Next() (Event, error) {
	if p.err != nil {
		return Event{}, p.err
	}
	if p.state == endState {
		return Event{Kind: NoEvent}, nil
	}

	ev, err := p.stateMachine()
	if err != nil {
		p.err = err
		return Event{}, err
	}

	switch ev.Kind {
	case SequenceStartEvent, MappingStartEvent:
		p.depth++
		if p.depth > MaxDepth {
			p.err = yamlerr.New(yamlerr.Parse, ev.Start.Position(),
				"exceeded max depth of %d", MaxDepth)
			return Event{}, p.err
		}
	case SequenceEndEvent, MappingEndEvent:
		p.depth--
	}
	return ev, nil
}

// Comments returns comments seen by the underlying scanner so far.
func (p *Parser) Comments() []scanner.Token { return p.sc.Comments() }

// All parses the whole source into a list of events ending with
// StreamEndEvent.
func All(src []byte) ([]Event, error) {
	p := New(src)
	var events []Event
	for {
		ev, err := p.Next()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
		if ev.Kind == StreamEndEvent {
			return events, nil
		}
	}
}

func (p *Parser) peek() (scanner.Token, error) {
	if !p.peeked {
		tok, err := p.sc.Next()
		if err != nil {
			return scanner.Token{}, err
		}
		p.tok = tok
		p.peeked = true
	}
	return p.tok, nil
}

func (p *Parser) skip() { p.peeked = false }

func (p *Parser) popState() {
	p.state = p.states[len(p.states)-1]
	p.states = p.states[:len(p.states)-1]
}

func (p *Parser) popMark() scanner.Mark {
	m := p.marks[len(p.marks)-1]
	p.marks = p.marks[:len(p.marks)-1]
	return m
}

func (p *Parser) errorAt(m scanner.Mark, format string, args ...interface{}) error {
	return yamlerr.New(yamlerr.Parse, m.Position(), format, args...)
}

func (p *Parser) errorWhile(context string, contextMark scanner.Mark, problem string, problemMark scanner.Mark) error {
	return yamlerr.New(yamlerr.Parse, problemMark.Position(), "%s: %s (started at line %d, column %d)",
		context, problem, contextMark.Line+1, contextMark.Column+1)
}

func (p *Parser) stateMachine() (Event, error) {
	switch p.state {
	case streamStartState:
		return p.parseStreamStart()
	case implicitDocumentStartState:
		return p.parseDocumentStart(true)
	case documentStartState:
		return p.parseDocumentStart(false)
	case documentContentState:
		return p.parseDocumentContent()
	case documentEndState:
		return p.parseDocumentEnd()
	case blockNodeState:
		return p.parseNode(true, false)
	case blockSequenceFirstEntryState:
		return p.parseBlockSequenceEntry(true)
	case blockSequenceEntryState:
		return p.parseBlockSequenceEntry(false)
	case indentlessSequenceEntryState:
		return p.parseIndentlessSequenceEntry()
	case blockMappingFirstKeyState:
		return p.parseBlockMappingKey(true)
	case blockMappingKeyState:
		return p.parseBlockMappingKey(false)
	case blockMappingValueState:
		return p.parseBlockMappingValue()
	case flowSequenceFirstEntryState:
		return p.parseFlowSequenceEntry(true)
	case flowSequenceEntryState:
		return p.parseFlowSequenceEntry(false)
	case flowSequenceEntryMappingKeyState:
		return p.parseFlowSequenceEntryMappingKey()
	case flowSequenceEntryMappingValueState:
		return p.parseFlowSequenceEntryMappingValue()
	case flowSequenceEntryMappingEndState:
		return p.parseFlowSequenceEntryMappingEnd()
	case flowMappingFirstKeyState:
		return p.parseFlowMappingKey(true)
	case flowMappingKeyState:
		return p.parseFlowMappingKey(false)
	case flowMappingValueState:
		return p.parseFlowMappingValue(false)
	case flowMappingEmptyValueState:
		return p.parseFlowMappingValue(true)
	default:
		panic(fmt.Sprintf("Unknown parser state %d", p.state))
	}
}

// stream ::= STREAM-START implicit_document? explicit_document* STREAM-END
func (p *Parser) parseStreamStart() (Event, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}
	if tok.Kind != scanner.StreamStartToken {
		return Event{}, p.errorAt(tok.Start, "did not find expected <stream-start>")
	}
	p.state = implicitDocumentStartState
	p.skip()
	return Event{Kind: StreamStartEvent, Start: tok.Start, End: tok.End}, nil
}

// implicit_document ::= block_node DOCUMENT-END*
// explicit_document ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
func (p *Parser) parseDocumentStart(implicit bool) (Event, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}

	// Extra document end indicators.
	for tok.Kind == scanner.DocumentEndToken {
		p.skip()
		tok, err = p.peek()
		if err != nil {
			return Event{}, err
		}
	}

	switch {
	case implicit && tok.Kind != scanner.VersionDirectiveToken && tok.Kind != scanner.TagDirectiveToken &&
		tok.Kind != scanner.DocumentStartToken && tok.Kind != scanner.StreamEndToken:
		if _, _, err := p.processDirectives(); err != nil {
			return Event{}, err
		}
		p.states = append(p.states, documentEndState)
		p.state = blockNodeState
		return Event{Kind: DocumentStartEvent, Implicit: true, Start: tok.Start, End: tok.Start}, nil

	case tok.Kind != scanner.StreamEndToken:
		start := tok.Start
		ver, directives, err := p.processDirectives()
		if err != nil {
			return Event{}, err
		}
		tok, err = p.peek()
		if err != nil {
			return Event{}, err
		}
		if tok.Kind != scanner.DocumentStartToken {
			return Event{}, p.errorAt(tok.Start, "did not find expected <document start>")
		}
		p.states = append(p.states, documentEndState)
		p.state = documentContentState
		p.skip()
		return Event{
			Kind:          DocumentStartEvent,
			Version:       ver,
			TagDirectives: directives,
			Start:         start,
			End:           tok.End,
		}, nil

	default:
		p.state = endState
		p.skip()
		return Event{Kind: StreamEndEvent, Start: tok.Start, End: tok.End}, nil
	}
}

func (p *Parser) parseDocumentContent() (Event, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}
	switch tok.Kind {
	case scanner.VersionDirectiveToken, scanner.TagDirectiveToken, scanner.DocumentStartToken,
		scanner.DocumentEndToken, scanner.StreamEndToken:
		p.popState()
		return emptyScalar(tok.Start), nil
	}
	return p.parseNode(true, false)
}

func (p *Parser) parseDocumentEnd() (Event, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}
	ev := Event{Kind: DocumentEndEvent, Implicit: true, Start: tok.Start, End: tok.Start}
	if tok.Kind == scanner.DocumentEndToken {
		ev.End = tok.End
		ev.Implicit = false
		p.skip()
	}
	p.tagDirectives = nil
	p.state = documentStartState
	return ev, nil
}

// processDirectives consumes %YAML and %TAG directives of the upcoming
// document and installs the default tag handles.
func (p *Parser) processDirectives() (string, []TagDirective, error) {
	var ver string
	var directives []TagDirective

	for {
		tok, err := p.peek()
		if err != nil {
			return "", nil, err
		}

		switch tok.Kind {
		case scanner.VersionDirectiveToken:
			if len(ver) > 0 {
				return "", nil, p.errorAt(tok.Start, "found duplicate %%YAML directive")
			}
			v, err := version.NewVersion(tok.Value)
			if err != nil || !supportedVersions.Check(v) {
				return "", nil, p.errorAt(tok.Start, "found incompatible YAML document (version %s)", tok.Value)
			}
			ver = tok.Value

		case scanner.TagDirectiveToken:
			dir := TagDirective{Handle: tok.Value, Prefix: tok.Suffix}
			if err := p.appendTagDirective(dir, false, tok.Start); err != nil {
				return "", nil, err
			}
			directives = append(directives, dir)

		default:
			for _, dir := range defaultTagDirectives {
				if err := p.appendTagDirective(dir, true, tok.Start); err != nil {
					return "", nil, err
				}
			}
			return ver, directives, nil
		}
		p.skip()
	}
}

func (p *Parser) appendTagDirective(dir TagDirective, allowDuplicates bool, m scanner.Mark) error {
	for _, existing := range p.tagDirectives {
		if existing.Handle == dir.Handle {
			if allowDuplicates {
				return nil
			}
			return p.errorAt(m, "found duplicate %%TAG directive")
		}
	}
	p.tagDirectives = append(p.tagDirectives, dir)
	return nil
}

func (p *Parser) expandTag(handle, suffix string, m scanner.Mark, start scanner.Mark, block bool) (string, error) {
	if len(handle) == 0 {
		return suffix, nil
	}
	for _, dir := range p.tagDirectives {
		if dir.Handle == handle {
			return dir.Prefix + suffix, nil
		}
	}
	context := "while parsing a flow node"
	if block {
		context = "while parsing a block node"
	}
	return "", p.errorWhile(context, start, "found undefined tag handle", m)
}

// block_node ::= ALIAS | properties block_content? | block_content
// flow_node  ::= ALIAS | properties flow_content? | flow_content
// properties ::= TAG ANCHOR? | ANCHOR TAG?
func (p *Parser) parseNode(block, indentlessSequence bool) (Event, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}

	if tok.Kind == scanner.AliasToken {
		p.popState()
		p.skip()
		return Event{Kind: AliasEvent, Anchor: tok.Value, Start: tok.Start, End: tok.End}, nil
	}

	start, end := tok.Start, tok.Start
	var anchor, tagHandle, tagSuffix string
	var tagMark scanner.Mark
	hasTag := false

	for {
		if tok.Kind == scanner.AnchorToken && len(anchor) == 0 {
			anchor = tok.Value
		} else if tok.Kind == scanner.TagToken && !hasTag {
			hasTag = true
			tagHandle, tagSuffix, tagMark = tok.Value, tok.Suffix, tok.Start
		} else {
			break
		}
		end = tok.End
		p.skip()
		tok, err = p.peek()
		if err != nil {
			return Event{}, err
		}
	}

	var tag string
	if hasTag {
		tag, err = p.expandTag(tagHandle, tagSuffix, tagMark, start, block)
		if err != nil {
			return Event{}, err
		}
	}
	nonSpecific := tag == "!"

	if indentlessSequence && tok.Kind == scanner.BlockEntryToken {
		p.state = indentlessSequenceEntryState
		return p.collectionStart(SequenceStartEvent, anchor, tag, false, start, tok.End), nil
	}

	switch tok.Kind {
	case scanner.ScalarToken:
		ev := Event{
			Kind:   ScalarEvent,
			Anchor: anchor,
			Tag:    tag,
			Value:  tok.Value,
			Style:  tok.Style,
			Start:  start,
			End:    tok.End,
		}
		switch {
		case nonSpecific:
			// "!" forces a string regardless of the scalar style.
			ev.Tag = StrTag
		case len(tag) == 0 && tok.Style == scanner.PlainStyle:
			ev.PlainImplicit = true
		case len(tag) == 0:
			ev.QuotedImplicit = true
		}
		p.popState()
		p.skip()
		return ev, nil

	case scanner.FlowSequenceStartToken:
		p.state = flowSequenceFirstEntryState
		return p.collectionStart(SequenceStartEvent, anchor, tag, true, start, tok.End), nil

	case scanner.FlowMappingStartToken:
		p.state = flowMappingFirstKeyState
		return p.collectionStart(MappingStartEvent, anchor, tag, true, start, tok.End), nil
	}

	if block && tok.Kind == scanner.BlockSequenceStartToken {
		p.state = blockSequenceFirstEntryState
		return p.collectionStart(SequenceStartEvent, anchor, tag, false, start, tok.End), nil
	}
	if block && tok.Kind == scanner.BlockMappingStartToken {
		p.state = blockMappingFirstKeyState
		return p.collectionStart(MappingStartEvent, anchor, tag, false, start, tok.End), nil
	}

	if len(anchor) > 0 || hasTag {
		// Properties without content describe an empty scalar.
		p.popState()
		ev := Event{Kind: ScalarEvent, Anchor: anchor, Tag: tag, Style: scanner.PlainStyle, Start: start, End: end}
		switch {
		case nonSpecific:
			ev.Tag = StrTag
		case len(tag) == 0:
			ev.PlainImplicit = true
		}
		return ev, nil
	}

	context := "while parsing a flow node"
	if block {
		context = "while parsing a block node"
	}
	return Event{}, p.errorWhile(context, start, "did not find expected node content", tok.Start)
}

func (p *Parser) collectionStart(kind EventKind, anchor, tag string, flow bool, start, end scanner.Mark) Event {
	if tag == "!" {
		if kind == SequenceStartEvent {
			tag = SeqTag
		} else {
			tag = MapTag
		}
	}
	return Event{
		Kind:     kind,
		Anchor:   anchor,
		Tag:      tag,
		Implicit: len(tag) == 0,
		Flow:     flow,
		Start:    start,
		End:      end,
	}
}

func emptyScalar(m scanner.Mark) Event {
	return Event{
		Kind:          ScalarEvent,
		Style:         scanner.PlainStyle,
		PlainImplicit: true,
		Start:         m,
		End:           m,
	}
}

// block_sequence ::= BLOCK-SEQUENCE-START (BLOCK-ENTRY block_node?)* BLOCK-END
func (p *Parser) parseBlockSequenceEntry(first bool) (Event, error) {
	if first {
		tok, err := p.peek()
		if err != nil {
			return Event{}, err
		}
		p.marks = append(p.marks, tok.Start)
		p.skip()
	}

	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}

	switch tok.Kind {
	case scanner.BlockEntryToken:
		m := tok.End
		p.skip()
		tok, err = p.peek()
		if err != nil {
			return Event{}, err
		}
		if tok.Kind != scanner.BlockEntryToken && tok.Kind != scanner.BlockEndToken {
			p.states = append(p.states, blockSequenceEntryState)
			return p.parseNode(true, false)
		}
		p.state = blockSequenceEntryState
		return emptyScalar(m), nil

	case scanner.BlockEndToken:
		p.popState()
		p.popMark()
		p.skip()
		return Event{Kind: SequenceEndEvent, Start: tok.Start, End: tok.End}, nil
	}

	return Event{}, p.errorWhile("while parsing a block collection", p.popMark(),
		"did not find expected '-' indicator", tok.Start)
}

// indentless_sequence ::= (BLOCK-ENTRY block_node?)+
func (p *Parser) parseIndentlessSequenceEntry() (Event, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}

	if tok.Kind == scanner.BlockEntryToken {
		m := tok.End
		p.skip()
		tok, err = p.peek()
		if err != nil {
			return Event{}, err
		}
		switch tok.Kind {
		case scanner.BlockEntryToken, scanner.KeyToken, scanner.ValueToken, scanner.BlockEndToken:
			p.state = indentlessSequenceEntryState
			return emptyScalar(m), nil
		}
		p.states = append(p.states, indentlessSequenceEntryState)
		return p.parseNode(true, false)
	}

	p.popState()
	return Event{Kind: SequenceEndEvent, Start: tok.Start, End: tok.Start}, nil
}

// block_mapping ::= BLOCK-MAPPING_START
//
//	((KEY block_node_or_indentless_sequence?)?
//	(VALUE block_node_or_indentless_sequence?)?)*
//	BLOCK-END
func (p *Parser) parseBlockMappingKey(first bool) (Event, error) {
	if first {
		tok, err := p.peek()
		if err != nil {
			return Event{}, err
		}
		p.marks = append(p.marks, tok.Start)
		p.skip()
	}

	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}

	switch tok.Kind {
	case scanner.KeyToken:
		m := tok.End
		p.skip()
		tok, err = p.peek()
		if err != nil {
			return Event{}, err
		}
		switch tok.Kind {
		case scanner.KeyToken, scanner.ValueToken, scanner.BlockEndToken:
			p.state = blockMappingValueState
			return emptyScalar(m), nil
		}
		p.states = append(p.states, blockMappingValueState)
		return p.parseNode(true, true)

	case scanner.ValueToken:
		// Empty key.
		p.state = blockMappingValueState
		return emptyScalar(tok.Start), nil

	case scanner.BlockEndToken:
		p.popState()
		p.popMark()
		p.skip()
		return Event{Kind: MappingEndEvent, Start: tok.Start, End: tok.End}, nil
	}

	return Event{}, p.errorWhile("while parsing a block mapping", p.popMark(),
		"did not find expected key", tok.Start)
}

func (p *Parser) parseBlockMappingValue() (Event, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}
	if tok.Kind == scanner.ValueToken {
		m := tok.End
		p.skip()
		tok, err = p.peek()
		if err != nil {
			return Event{}, err
		}
		switch tok.Kind {
		case scanner.KeyToken, scanner.ValueToken, scanner.BlockEndToken:
			p.state = blockMappingKeyState
			return emptyScalar(m), nil
		}
		p.states = append(p.states, blockMappingKeyState)
		return p.parseNode(true, true)
	}
	p.state = blockMappingKeyState
	return emptyScalar(tok.Start), nil
}

// flow_sequence       ::= FLOW-SEQUENCE-START (flow_sequence_entry FLOW-ENTRY)* flow_sequence_entry? FLOW-SEQUENCE-END
// flow_sequence_entry ::= flow_node | KEY flow_node? (VALUE flow_node?)?
func (p *Parser) parseFlowSequenceEntry(first bool) (Event, error) {
	if first {
		tok, err := p.peek()
		if err != nil {
			return Event{}, err
		}
		p.marks = append(p.marks, tok.Start)
		p.skip()
	}

	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}

	if tok.Kind != scanner.FlowSequenceEndToken {
		if !first {
			if tok.Kind != scanner.FlowEntryToken {
				return Event{}, p.errorWhile("while parsing a flow sequence", p.popMark(),
					"did not find expected ',' or ']'", tok.Start)
			}
			p.skip()
			tok, err = p.peek()
			if err != nil {
				return Event{}, err
			}
		}

		switch tok.Kind {
		case scanner.KeyToken:
			// Single pair mapping: [a: b]
			p.state = flowSequenceEntryMappingKeyState
			p.skip()
			return Event{Kind: MappingStartEvent, Implicit: true, Flow: true, Start: tok.Start, End: tok.End}, nil
		case scanner.BlockEntryToken:
			return Event{}, p.errorWhile("while parsing a flow sequence", p.marks[len(p.marks)-1],
				"found unexpected '-' indicator", tok.Start)
		case scanner.FlowSequenceEndToken:
		default:
			p.states = append(p.states, flowSequenceEntryState)
			return p.parseNode(false, false)
		}
	}

	p.popState()
	p.popMark()
	p.skip()
	return Event{Kind: SequenceEndEvent, Start: tok.Start, End: tok.End}, nil
}

func (p *Parser) parseFlowSequenceEntryMappingKey() (Event, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}
	switch tok.Kind {
	case scanner.ValueToken, scanner.FlowEntryToken, scanner.FlowSequenceEndToken:
		p.state = flowSequenceEntryMappingValueState
		return emptyScalar(tok.Start), nil
	}
	p.states = append(p.states, flowSequenceEntryMappingValueState)
	return p.parseNode(false, false)
}

func (p *Parser) parseFlowSequenceEntryMappingValue() (Event, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}
	if tok.Kind == scanner.ValueToken {
		p.skip()
		tok, err = p.peek()
		if err != nil {
			return Event{}, err
		}
		if tok.Kind != scanner.FlowEntryToken && tok.Kind != scanner.FlowSequenceEndToken {
			p.states = append(p.states, flowSequenceEntryMappingEndState)
			return p.parseNode(false, false)
		}
	}
	p.state = flowSequenceEntryMappingEndState
	return emptyScalar(tok.Start), nil
}

func (p *Parser) parseFlowSequenceEntryMappingEnd() (Event, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}
	p.state = flowSequenceEntryState
	return Event{Kind: MappingEndEvent, Start: tok.Start, End: tok.Start}, nil
}

// flow_mapping       ::= FLOW-MAPPING-START (flow_mapping_entry FLOW-ENTRY)* flow_mapping_entry? FLOW-MAPPING-END
// flow_mapping_entry ::= flow_node | KEY flow_node? (VALUE flow_node?)?
func (p *Parser) parseFlowMappingKey(first bool) (Event, error) {
	if first {
		tok, err := p.peek()
		if err != nil {
			return Event{}, err
		}
		p.marks = append(p.marks, tok.Start)
		p.skip()
	}

	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}

	if tok.Kind != scanner.FlowMappingEndToken {
		if !first {
			if tok.Kind != scanner.FlowEntryToken {
				return Event{}, p.errorWhile("while parsing a flow mapping", p.popMark(),
					"did not find expected ',' or '}'", tok.Start)
			}
			p.skip()
			tok, err = p.peek()
			if err != nil {
				return Event{}, err
			}
		}

		switch tok.Kind {
		case scanner.KeyToken:
			p.skip()
			tok, err = p.peek()
			if err != nil {
				return Event{}, err
			}
			switch tok.Kind {
			case scanner.ValueToken, scanner.FlowEntryToken, scanner.FlowMappingEndToken:
				p.state = flowMappingValueState
				return emptyScalar(tok.Start), nil
			}
			p.states = append(p.states, flowMappingValueState)
			return p.parseNode(false, false)
		case scanner.ValueToken:
			// Empty key: {: v}
			p.state = flowMappingValueState
			return emptyScalar(tok.Start), nil
		case scanner.BlockEntryToken:
			return Event{}, p.errorWhile("while parsing a flow mapping", p.marks[len(p.marks)-1],
				"found unexpected '-' indicator", tok.Start)
		case scanner.FlowMappingEndToken:
		default:
			p.states = append(p.states, flowMappingEmptyValueState)
			return p.parseNode(false, false)
		}
	}

	p.popState()
	p.popMark()
	p.skip()
	return Event{Kind: MappingEndEvent, Start: tok.Start, End: tok.End}, nil
}

func (p *Parser) parseFlowMappingValue(empty bool) (Event, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, err
	}
	if empty {
		p.state = flowMappingKeyState
		return emptyScalar(tok.Start), nil
	}
	if tok.Kind == scanner.ValueToken {
		p.skip()
		tok, err = p.peek()
		if err != nil {
			return Event{}, err
		}
		if tok.Kind != scanner.FlowEntryToken && tok.Kind != scanner.FlowMappingEndToken {
			p.states = append(p.states, flowMappingKeyState)
			return p.parseNode(false, false)
		}
	}
	p.state = flowMappingKeyState
	return emptyScalar(tok.Start), nil
}
