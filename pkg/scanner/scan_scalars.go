// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"unicode/utf8"
)

type chomping int

const (
	chompClip  chomping = iota // single final line break
	chompStrip                 // '-': no final line break
	chompKeep                  // '+': all trailing line breaks
)

// scanBlockScalar scans a literal (|) or folded (>) block scalar
// including its header.
func (s *Scanner) scanBlockScalar(literal bool) (Token, error) {
	start := s.mark
	s.skip() // '|' or '>'

	chomp := chompClip
	increment := 0

	parseChomp := func() {
		switch s.at(0) {
		case '+':
			chomp = chompKeep
			s.skip()
		case '-':
			chomp = chompStrip
			s.skip()
		}
	}
	parseIncrement := func() error {
		if s.isDigit(0) {
			if s.at(0) == '0' {
				return s.errorWhile("while scanning a block scalar", start, "found an indentation indicator equal to 0")
			}
			increment = int(s.at(0) - '0')
			s.skip()
		}
		return nil
	}

	if s.at(0) == '+' || s.at(0) == '-' {
		parseChomp()
		if err := parseIncrement(); err != nil {
			return Token{}, err
		}
	} else if s.isDigit(0) {
		if err := parseIncrement(); err != nil {
			return Token{}, err
		}
		parseChomp()
	}

	// Eat whitespace and a comment up to the end of the line.
	for s.isBlank(0) {
		s.skip()
	}
	if s.at(0) == '#' && !s.atEnd(0) {
		s.scanComment()
	}
	if !s.isBreakz(0) {
		return Token{}, s.errorWhile("while scanning a block scalar", start, "did not find expected comment or line break")
	}
	s.skipLine()

	end := s.mark

	indent := 0
	if increment > 0 {
		if s.indent >= 0 {
			indent = s.indent + increment
		} else {
			indent = increment
		}
	}

	var text, leadingBreak, trailingBreaks []byte

	var err error
	indent, trailingBreaks, end, err = s.scanBlockScalarBreaks(indent, trailingBreaks, start)
	if err != nil {
		return Token{}, err
	}

	var leadingBlank, trailingBlank bool
	for s.mark.Column == indent && !s.atEnd(0) {
		// We are at the beginning of a non-empty line.
		trailingBlank = s.isBlank(0)

		// Folded scalars join lines with a space, except around
		// more-indented lines and empty lines.
		if !literal && !leadingBlank && !trailingBlank && len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
			if len(trailingBreaks) == 0 {
				text = append(text, ' ')
			}
		} else {
			text = append(text, leadingBreak...)
		}
		leadingBreak = leadingBreak[:0]

		text = append(text, trailingBreaks...)
		trailingBreaks = trailingBreaks[:0]

		leadingBlank = s.isBlank(0)

		for !s.isBreakz(0) {
			text = s.read(text)
		}
		leadingBreak = s.readLine(leadingBreak)

		indent, trailingBreaks, end, err = s.scanBlockScalarBreaks(indent, trailingBreaks, start)
		if err != nil {
			return Token{}, err
		}
	}

	if chomp != chompStrip {
		text = append(text, leadingBreak...)
	}
	if chomp == chompKeep {
		text = append(text, trailingBreaks...)
	}

	style := LiteralStyle
	if !literal {
		style = FoldedStyle
	}
	return Token{Kind: ScalarToken, Value: string(text), Style: style, Start: start, End: end}, nil
}

// scanBlockScalarBreaks eats indentation and empty lines, determining the
// block indentation from the first non-empty line when indent is 0.
func (s *Scanner) scanBlockScalarBreaks(indent int, breaks []byte, start Mark) (int, []byte, Mark, error) {
	end := s.mark
	maxIndent := 0
	for {
		for (indent == 0 || s.mark.Column < indent) && s.isSpace(0) {
			s.skip()
		}
		if s.mark.Column > maxIndent {
			maxIndent = s.mark.Column
		}

		if (indent == 0 || s.mark.Column < indent) && s.isTab(0) {
			return 0, nil, end, s.errorWhile("while scanning a block scalar", start,
				"found a tab character where an indentation space is expected")
		}

		if !s.isBreak(0) {
			break
		}
		breaks = s.readLine(breaks)
		end = s.mark
	}

	if indent == 0 {
		indent = maxIndent
		if indent < s.indent+1 {
			indent = s.indent + 1
		}
		if indent < 1 {
			indent = 1
		}
	}
	return indent, breaks, end, nil
}

// scanFlowScalar scans a single or double quoted scalar.
func (s *Scanner) scanFlowScalar(single bool) (Token, error) {
	start := s.mark
	s.skip() // opening quote

	var text, leadingBreak, trailingBreaks, whitespaces []byte
	for {
		if s.isDocumentIndicator() {
			return Token{}, s.errorWhile("while scanning a quoted scalar", start, "found unexpected document indicator")
		}
		if s.atEnd(0) {
			return Token{}, s.errorWhile("while scanning a quoted scalar", start, "found unexpected end of stream")
		}

		leadingBlanks := false
	run:
		for !s.isBlankz(0) {
			switch {
			case single && s.at(0) == '\'' && s.at(1) == '\'':
				text = append(text, '\'')
				s.skip()
				s.skip()

			case single && s.at(0) == '\'':
				break run
			case !single && s.at(0) == '"':
				break run

			case !single && s.at(0) == '\\' && s.isBreak(1):
				// Escaped line break.
				s.skip()
				s.skipLine()
				leadingBlanks = true
				break run

			case !single && s.at(0) == '\\':
				var err error
				text, err = s.scanEscape(text, start)
				if err != nil {
					return Token{}, err
				}

			default:
				text = s.read(text)
			}
		}

		if (single && s.at(0) == '\'') || (!single && s.at(0) == '"') {
			break
		}

		for s.isBlank(0) || s.isBreak(0) {
			if s.isBlank(0) {
				if !leadingBlanks {
					whitespaces = s.read(whitespaces)
				} else {
					s.skip()
				}
			} else {
				if !leadingBlanks {
					whitespaces = whitespaces[:0]
					leadingBreak = s.readLine(leadingBreak)
					leadingBlanks = true
				} else {
					trailingBreaks = s.readLine(trailingBreaks)
				}
			}
		}

		if leadingBlanks {
			// Fold line breaks: a single break becomes a space.
			if len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
				if len(trailingBreaks) == 0 {
					text = append(text, ' ')
				} else {
					text = append(text, trailingBreaks...)
				}
			} else {
				text = append(text, leadingBreak...)
				text = append(text, trailingBreaks...)
			}
			trailingBreaks = trailingBreaks[:0]
			leadingBreak = leadingBreak[:0]
		} else {
			text = append(text, whitespaces...)
			whitespaces = whitespaces[:0]
		}
	}

	s.skip() // closing quote

	style := DoubleQuotedStyle
	if single {
		style = SingleQuotedStyle
	}
	return Token{Kind: ScalarToken, Value: string(text), Style: style, Start: start, End: s.mark}, nil
}

func (s *Scanner) scanEscape(text []byte, start Mark) ([]byte, error) {
	codeLength := 0
	switch s.at(1) {
	case '0':
		text = append(text, 0)
	case 'a':
		text = append(text, '\x07')
	case 'b':
		text = append(text, '\x08')
	case 't', '\t':
		text = append(text, '\x09')
	case 'n':
		text = append(text, '\x0A')
	case 'v':
		text = append(text, '\x0B')
	case 'f':
		text = append(text, '\x0C')
	case 'r':
		text = append(text, '\x0D')
	case 'e':
		text = append(text, '\x1B')
	case ' ':
		text = append(text, ' ')
	case '"':
		text = append(text, '"')
	case '\'':
		text = append(text, '\'')
	case '/':
		text = append(text, '/')
	case '\\':
		text = append(text, '\\')
	case 'N': // next line
		text = utf8.AppendRune(text, '\u0085')
	case '_': // non-breaking space
		text = utf8.AppendRune(text, '\u00A0')
	case 'L': // line separator
		text = utf8.AppendRune(text, '\u2028')
	case 'P': // paragraph separator
		text = utf8.AppendRune(text, '\u2029')
	case 'x':
		codeLength = 2
	case 'u':
		codeLength = 4
	case 'U':
		codeLength = 8
	default:
		s.skip()
		return nil, s.errorWhile("while parsing a quoted scalar", start, "found unknown escape character")
	}

	s.skip()
	s.skip()

	if codeLength > 0 {
		for k := 0; k < codeLength; k++ {
			if !s.isHex(k) {
				return nil, s.errorWhile("while parsing a quoted scalar", start, "did not find expected hexadecimal number")
			}
		}
		digits := string(s.src[s.mark.Offset : s.mark.Offset+codeLength])
		r, ok := unquoteHexEscape(digits)
		if !ok {
			return nil, s.errorWhile("while parsing a quoted scalar", start, "found invalid Unicode character escape code")
		}
		text = utf8.AppendRune(text, r)
		for k := 0; k < codeLength; k++ {
			s.skip()
		}
	}
	return text, nil
}

// scanPlainScalar scans an unquoted scalar, folding line breaks.
func (s *Scanner) scanPlainScalar() (Token, error) {
	var text, leadingBreak, trailingBreaks, whitespaces []byte
	leadingBlanks := false
	indent := s.indent + 1

	start := s.mark
	end := s.mark

	for {
		if s.isDocumentIndicator() {
			break
		}
		if s.at(0) == '#' {
			break
		}

		for !s.isBlankz(0) {
			// ": " ends a plain scalar everywhere; in the flow context so do
			// flow indicators and ':' right before one.
			if s.at(0) == ':' && (s.isBlankz(1) || (s.flowLevel > 0 && s.isFlowIndicator(1))) {
				break
			}
			if s.flowLevel > 0 && s.isFlowIndicator(0) {
				break
			}

			if leadingBlanks || len(whitespaces) > 0 {
				if leadingBlanks {
					if leadingBreak[0] == '\n' {
						if len(trailingBreaks) == 0 {
							text = append(text, ' ')
						} else {
							text = append(text, trailingBreaks...)
						}
					} else {
						text = append(text, leadingBreak...)
						text = append(text, trailingBreaks...)
					}
					trailingBreaks = trailingBreaks[:0]
					leadingBreak = leadingBreak[:0]
					leadingBlanks = false
				} else {
					text = append(text, whitespaces...)
					whitespaces = whitespaces[:0]
				}
			}

			text = s.read(text)
			end = s.mark
		}

		if !(s.isBlank(0) || s.isBreak(0)) {
			break
		}

		for s.isBlank(0) || s.isBreak(0) {
			if s.isBlank(0) {
				if leadingBlanks && s.mark.Column < indent && s.isTab(0) {
					return Token{}, s.errorWhile("while scanning a plain scalar", start, "found a tab character that violates indentation")
				}
				if !leadingBlanks {
					whitespaces = s.read(whitespaces)
				} else {
					s.skip()
				}
			} else {
				if !leadingBlanks {
					whitespaces = whitespaces[:0]
					leadingBreak = s.readLine(leadingBreak)
					leadingBlanks = true
				} else {
					trailingBreaks = s.readLine(trailingBreaks)
				}
			}
		}

		// A continuation line must be indented deeper than the parent block.
		if s.flowLevel == 0 && s.mark.Column < indent {
			break
		}
	}

	// A line break inside the scalar means the next token starts a line.
	if leadingBlanks {
		s.simpleKeyAllowed = true
	}
	return Token{Kind: ScalarToken, Value: string(text), Style: PlainStyle, Start: start, End: end}, nil
}
