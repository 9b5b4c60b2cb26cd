// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package emitter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/scanner"
)

// keys longer than this are written with "? "
const maxSimpleKeyLength = 128

type scalarAnalysis struct {
	empty     bool
	multiline bool

	flowPlainAllowed    bool
	blockPlainAllowed   bool
	singleQuotedAllowed bool
	blockAllowed        bool
}

func isBreak(r rune) bool { return r == '\n' }

func isBlankOrBreak(r rune) bool { return r == ' ' || r == '\t' || isBreak(r) }

// isPrintable lists characters written as-is. Line breaks other than '\n',
// tabs and the byte order mark are escaped.
func isPrintable(r rune) bool {
	switch {
	case r == '\n':
		return true
	case r >= 0x20 && r <= 0x7E:
		return true
	case r >= 0xA0 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return r != 0xFEFF
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

func analyzeScalar(value string) scalarAnalysis {
	if len(value) == 0 {
		return scalarAnalysis{empty: true, singleQuotedAllowed: true}
	}

	var (
		blockIndicators, flowIndicators bool
		lineBreaks, specialCharacters   bool
		leadingSpace, leadingBreak      bool
		trailingSpace, trailingBreak    bool
		spaceBreak, breakSpace          bool
		previousSpace, previousBreak    bool
		precededByWhitespace            = true
		runes                           = []rune(value)
		last                            = len(runes) - 1
	)

	if strings.HasPrefix(value, "---") || strings.HasPrefix(value, "...") {
		blockIndicators = true
		flowIndicators = true
	}

	for i, r := range runes {
		followedByWhitespace := i == last || isBlankOrBreak(runes[i+1])

		if i == 0 {
			switch r {
			case '#', ',', '[', ']', '{', '}', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
				flowIndicators = true
				blockIndicators = true
			case '?', ':':
				flowIndicators = true
				if followedByWhitespace {
					blockIndicators = true
				}
			case '-':
				if followedByWhitespace {
					flowIndicators = true
					blockIndicators = true
				}
			}
		} else {
			switch r {
			case ',', '?', '[', ']', '{', '}':
				flowIndicators = true
			case ':':
				flowIndicators = true
				if followedByWhitespace {
					blockIndicators = true
				}
			case '#':
				if precededByWhitespace {
					flowIndicators = true
					blockIndicators = true
				}
			}
		}

		if !isPrintable(r) {
			specialCharacters = true
		}
		if isBreak(r) {
			lineBreaks = true
		}

		switch {
		case r == ' ':
			if i == 0 {
				leadingSpace = true
			}
			if i == last {
				trailingSpace = true
			}
			if previousBreak {
				breakSpace = true
			}
			previousSpace = true
			previousBreak = false
		case isBreak(r):
			if i == 0 {
				leadingBreak = true
			}
			if i == last {
				trailingBreak = true
			}
			if previousSpace {
				spaceBreak = true
			}
			previousBreak = true
			previousSpace = false
		default:
			previousSpace = false
			previousBreak = false
		}

		precededByWhitespace = isBlankOrBreak(r)
	}

	a := scalarAnalysis{
		multiline:           lineBreaks,
		flowPlainAllowed:    true,
		blockPlainAllowed:   true,
		singleQuotedAllowed: true,
		blockAllowed:        true,
	}
	if leadingSpace || leadingBreak || trailingSpace || trailingBreak {
		a.flowPlainAllowed = false
		a.blockPlainAllowed = false
	}
	if trailingSpace {
		a.blockAllowed = false
	}
	if breakSpace {
		a.flowPlainAllowed = false
		a.blockPlainAllowed = false
		a.singleQuotedAllowed = false
	}
	if spaceBreak || specialCharacters {
		a.flowPlainAllowed = false
		a.blockPlainAllowed = false
		a.singleQuotedAllowed = false
		a.blockAllowed = false
	}
	if lineBreaks {
		a.flowPlainAllowed = false
		a.blockPlainAllowed = false
		a.singleQuotedAllowed = false
	}
	if flowIndicators {
		a.flowPlainAllowed = false
	}
	if blockIndicators {
		a.blockPlainAllowed = false
	}
	return a
}

// scalarContext describes where a scalar is written.
type scalarContext struct {
	inFlow bool
	// blockOK allows literal block scalars (block values only, never keys).
	blockOK bool
}

// chooseStyle picks the first style, in order of preference, that reads
// back as the same scalar.
func chooseStyle(ev parser.Event, ctx scalarContext) (scanner.ScalarStyle, error) {
	if !utf8.ValidString(ev.Value) {
		return 0, emitErrorf("cannot emit scalar with invalid UTF-8 %q", ev.Value)
	}

	tagged := len(ev.Tag) > 0
	if !tagged && !ev.PlainImplicit && !ev.QuotedImplicit {
		return 0, emitErrorf("scalar %q has neither a tag nor an implicit type", ev.Value)
	}

	a := analyzeScalar(ev.Value)

	style := ev.Style
	switch style {
	case scanner.AnyStyle:
		style = scanner.PlainStyle
	case scanner.FoldedStyle:
		style = scanner.LiteralStyle
	}

	if a.multiline && (style == scanner.PlainStyle || style == scanner.SingleQuotedStyle) {
		style = scanner.LiteralStyle
	}

	if style == scanner.PlainStyle {
		allowed := a.blockPlainAllowed
		if ctx.inFlow {
			allowed = a.flowPlainAllowed
		}
		if a.empty {
			allowed = len(ev.Tag) > 0 || len(ev.Anchor) > 0
		}
		if !tagged && !ev.PlainImplicit {
			allowed = false
		}
		if !allowed {
			style = scanner.SingleQuotedStyle
		}
	}

	if style == scanner.LiteralStyle && (!ctx.blockOK || !a.blockAllowed) {
		style = scanner.DoubleQuotedStyle
	}

	if style == scanner.SingleQuotedStyle && (!a.singleQuotedAllowed || a.multiline) {
		style = scanner.DoubleQuotedStyle
	}

	if style != scanner.PlainStyle && !tagged && !ev.QuotedImplicit {
		return 0, emitErrorf("scalar %q cannot be quoted without a tag", ev.Value)
	}
	return style, nil
}

func singleQuoted(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func doubleQuoted(value string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range value {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case 0:
			sb.WriteString(`\0`)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\v':
			sb.WriteString(`\v`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		case 0x1B:
			sb.WriteString(`\e`)
		case 0x85:
			sb.WriteString(`\N`)
		case 0xA0:
			sb.WriteString(`\_`)
		case 0x2028:
			sb.WriteString(`\L`)
		case 0x2029:
			sb.WriteString(`\P`)
		default:
			switch {
			case isPrintable(r):
				sb.WriteRune(r)
			case r <= 0xFF:
				fmt.Fprintf(&sb, `\x%02X`, r)
			case r <= 0xFFFF:
				fmt.Fprintf(&sb, `\u%04X`, r)
			default:
				fmt.Fprintf(&sb, `\U%08X`, r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// literalHeader returns the "|" header for value: an indentation
// indicator when the content starts with a space or line break, and the
// chomping indicator matching its trailing line breaks.
func literalHeader(value string, indent int) string {
	header := "|"
	if value[0] == ' ' || value[0] == '\n' {
		header += fmt.Sprintf("%d", indent)
	}
	switch {
	case !strings.HasSuffix(value, "\n"):
		header += "-"
	case len(value) == 1 || strings.HasSuffix(value, "\n\n"):
		header += "+"
	}
	return header
}

// literalBody writes the lines of value at column indent. The final line
// break is carried by the header's chomping indicator.
func literalBody(value string, indent int) string {
	lines := strings.Split(value, "\n")
	if strings.HasSuffix(value, "\n") {
		lines = lines[:len(lines)-1]
	}

	var sb strings.Builder
	prefix := strings.Repeat(" ", indent)
	for _, line := range lines {
		if len(line) > 0 {
			sb.WriteString(prefix)
			sb.WriteString(line)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func isTagChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	}
	return strings.IndexByte("-_.~/;?:@&=+$*'()#", c) >= 0
}

func isShorthandSuffix(suffix string) bool {
	if len(suffix) == 0 {
		return false
	}
	for i := 0; i < len(suffix); i++ {
		if !isTagChar(suffix[i]) {
			return false
		}
	}
	return true
}

// formatTag writes yaml.org tags as "!!name", local tags as "!name" and
// anything else in verbatim "!<...>" form.
func formatTag(tag string) string {
	if strings.HasPrefix(tag, parser.YAMLTagPrefix) && isShorthandSuffix(tag[len(parser.YAMLTagPrefix):]) {
		return "!!" + tag[len(parser.YAMLTagPrefix):]
	}
	if strings.HasPrefix(tag, "!") && isShorthandSuffix(tag[1:]) {
		return tag
	}

	var sb strings.Builder
	sb.WriteString("!<")
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		if isTagChar(c) || c == '!' {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "%%%02X", c)
		}
	}
	sb.WriteString(">")
	return sb.String()
}

// properties returns the anchor and tag of ev as written before its content.
func properties(ev parser.Event) string {
	var parts []string
	if len(ev.Anchor) > 0 {
		parts = append(parts, "&"+ev.Anchor)
	}
	if len(ev.Tag) > 0 {
		parts = append(parts, formatTag(ev.Tag))
	}
	return strings.Join(parts, " ")
}
