// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"
	"strings"

	"carvel.dev/yamlcodec/pkg/resolve"
	"carvel.dev/yamlcodec/pkg/scanner"
)

type EventKind int

const (
	NoEvent EventKind = iota
	StreamStartEvent
	StreamEndEvent
	DocumentStartEvent
	DocumentEndEvent
	AliasEvent
	ScalarEvent
	SequenceStartEvent
	SequenceEndEvent
	MappingStartEvent
	MappingEndEvent
)

func (k EventKind) String() string {
	switch k {
	case StreamStartEvent:
		return "StreamStart"
	case StreamEndEvent:
		return "StreamEnd"
	case DocumentStartEvent:
		return "DocumentStart"
	case DocumentEndEvent:
		return "DocumentEnd"
	case AliasEvent:
		return "Alias"
	case ScalarEvent:
		return "Scalar"
	case SequenceStartEvent:
		return "SequenceStart"
	case SequenceEndEvent:
		return "SequenceEnd"
	case MappingStartEvent:
		return "MappingStart"
	case MappingEndEvent:
		return "MappingEnd"
	default:
		return "None"
	}
}

type TagDirective struct {
	Handle string
	Prefix string
}

const (
	// YAMLTagPrefix is what the secondary handle "!!" expands to.
	YAMLTagPrefix = "tag:yaml.org,2002:"

	StrTag = resolve.StrTag
	SeqTag = resolve.SeqTag
	MapTag = resolve.MapTag
)

var defaultTagDirectives = []TagDirective{
	{Handle: "!", Prefix: "!"},
	{Handle: "!!", Prefix: YAMLTagPrefix},
}

type Event struct {
	Kind EventKind

	Anchor string // node anchor (scalar and collection start events) or alias target
	Tag    string // fully expanded tag; empty when none was given
	Value  string // scalar text
	Style  scanner.ScalarStyle

	// PlainImplicit marks a scalar whose type comes from implicit resolution
	// of its plain text; QuotedImplicit marks an untagged non-plain scalar,
	// which is always a string.
	PlainImplicit  bool
	QuotedImplicit bool

	// Implicit marks document boundaries without an explicit ---/... marker.
	Implicit bool
	// Flow marks collections written with [] or {}.
	Flow bool

	Version       string // %YAML directive on document start
	TagDirectives []TagDirective

	Start scanner.Mark
	End   scanner.Mark
}

// String renders the event in a compact single line form used by tests
// and the events command.
func (e Event) String() string {
	var sb strings.Builder
	switch e.Kind {
	case StreamStartEvent:
		sb.WriteString("+STR")
	case StreamEndEvent:
		sb.WriteString("-STR")
	case DocumentStartEvent:
		sb.WriteString("+DOC")
		if !e.Implicit {
			sb.WriteString(" ---")
		}
	case DocumentEndEvent:
		sb.WriteString("-DOC")
		if !e.Implicit {
			sb.WriteString(" ...")
		}
	case MappingStartEvent, SequenceStartEvent:
		if e.Kind == MappingStartEvent {
			sb.WriteString("+MAP")
			if e.Flow {
				sb.WriteString(" {}")
			}
		} else {
			sb.WriteString("+SEQ")
			if e.Flow {
				sb.WriteString(" []")
			}
		}
		e.writeProperties(&sb)
	case MappingEndEvent:
		sb.WriteString("-MAP")
	case SequenceEndEvent:
		sb.WriteString("-SEQ")
	case AliasEvent:
		sb.WriteString("=ALI *" + e.Anchor)
	case ScalarEvent:
		sb.WriteString("=VAL")
		e.writeProperties(&sb)
		sb.WriteString(" ")
		switch e.Style {
		case scanner.SingleQuotedStyle:
			sb.WriteString("'")
		case scanner.DoubleQuotedStyle:
			sb.WriteString(`"`)
		case scanner.LiteralStyle:
			sb.WriteString("|")
		case scanner.FoldedStyle:
			sb.WriteString(">")
		default:
			sb.WriteString(":")
		}
		sb.WriteString(strings.NewReplacer("\\", `\\`, "\n", `\n`, "\t", `\t`).Replace(e.Value))
	default:
		sb.WriteString(fmt.Sprintf("<%s>", e.Kind))
	}
	return sb.String()
}

func (e Event) writeProperties(sb *strings.Builder) {
	if len(e.Anchor) > 0 {
		sb.WriteString(" &" + e.Anchor)
	}
	if len(e.Tag) > 0 {
		sb.WriteString(" <" + e.Tag + ">")
	}
}
