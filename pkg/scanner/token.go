// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"fmt"

	"carvel.dev/yamlcodec/pkg/filepos"
)

type TokenKind int

const (
	NoToken TokenKind = iota

	StreamStartToken
	StreamEndToken

	VersionDirectiveToken // %YAML 1.1
	TagDirectiveToken     // %TAG !e! tag:example.com,2000:
	DocumentStartToken    // ---
	DocumentEndToken      // ...

	BlockSequenceStartToken
	BlockMappingStartToken
	BlockEndToken

	FlowSequenceStartToken // [
	FlowSequenceEndToken   // ]
	FlowMappingStartToken  // {
	FlowMappingEndToken    // }

	BlockEntryToken // -
	FlowEntryToken  // ,
	KeyToken        // ?
	ValueToken      // :

	AliasToken  // *name
	AnchorToken // &name
	TagToken    // !handle!suffix
	ScalarToken

	CommentToken
)

var tokenKindNames = map[TokenKind]string{
	NoToken:                 "<none>",
	StreamStartToken:        "<stream start>",
	StreamEndToken:          "<stream end>",
	VersionDirectiveToken:   "<version directive>",
	TagDirectiveToken:       "<tag directive>",
	DocumentStartToken:      "<document start>",
	DocumentEndToken:        "<document end>",
	BlockSequenceStartToken: "<block sequence start>",
	BlockMappingStartToken:  "<block mapping start>",
	BlockEndToken:           "<block end>",
	FlowSequenceStartToken:  "'['",
	FlowSequenceEndToken:    "']'",
	FlowMappingStartToken:   "'{'",
	FlowMappingEndToken:     "'}'",
	BlockEntryToken:         "'-'",
	FlowEntryToken:          "','",
	KeyToken:                "'?'",
	ValueToken:              "':'",
	AliasToken:              "<alias>",
	AnchorToken:             "<anchor>",
	TagToken:                "<tag>",
	ScalarToken:             "<scalar>",
	CommentToken:            "<comment>",
}

func (k TokenKind) String() string {
	if name, found := tokenKindNames[k]; found {
		return name
	}
	return fmt.Sprintf("<token %d>", int(k))
}

type ScalarStyle int

const (
	AnyStyle ScalarStyle = iota
	PlainStyle
	SingleQuotedStyle
	DoubleQuotedStyle
	LiteralStyle
	FoldedStyle
)

func (s ScalarStyle) String() string {
	switch s {
	case PlainStyle:
		return "plain"
	case SingleQuotedStyle:
		return "single-quoted"
	case DoubleQuotedStyle:
		return "double-quoted"
	case LiteralStyle:
		return "literal"
	case FoldedStyle:
		return "folded"
	default:
		return "any"
	}
}

// Mark is a 0 based location within the scanned source.
type Mark struct {
	Offset int // bytes
	Line   int
	Column int // characters
}

// Position converts the mark into a 1 based filepos.Position.
func (m Mark) Position() *filepos.Position {
	return filepos.NewPositionAt(m.Line+1, m.Column+1, m.Offset)
}

type Token struct {
	Kind TokenKind

	// Value holds the scalar text, the anchor or alias name, the tag handle,
	// the tag directive handle or the version directive ("1.1").
	Value string
	// Suffix holds the tag suffix or the tag directive prefix.
	Suffix string
	Style  ScalarStyle

	Start Mark
	End   Mark
}
