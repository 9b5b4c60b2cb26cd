// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"strconv"
)

// scanDirective scans %YAML and %TAG directives. Reserved directives
// are skipped (found is false).
//
//	%YAML    1.1    # a comment \n
//	%TAG    !yaml!  tag:yaml.org,2002:  \n
func (s *Scanner) scanDirective() (tok Token, found bool, err error) {
	start := s.mark
	s.skip() // '%'

	var name []byte
	for s.isAnchorChar(0) {
		name = s.read(name)
	}
	if len(name) == 0 {
		return Token{}, false, s.errorWhile("while scanning a directive", start, "could not find expected directive name")
	}
	if !s.isBlankz(0) {
		return Token{}, false, s.errorWhile("while scanning a directive", start, "found unexpected non-alphabetical character")
	}

	switch string(name) {
	case "YAML":
		version, err := s.scanVersionDirectiveValue(start)
		if err != nil {
			return Token{}, false, err
		}
		tok = Token{Kind: VersionDirectiveToken, Value: version, Start: start, End: s.mark}

	case "TAG":
		handle, prefix, err := s.scanTagDirectiveValue(start)
		if err != nil {
			return Token{}, false, err
		}
		tok = Token{Kind: TagDirectiveToken, Value: handle, Suffix: prefix, Start: start, End: s.mark}

	default:
		for !s.isBreakz(0) {
			s.skip()
		}
		s.skipLine()
		return Token{}, false, nil
	}

	// Eat the rest of the line including any comment.
	for s.isBlank(0) {
		s.skip()
	}
	if s.at(0) == '#' {
		s.scanComment()
	}
	if !s.isBreakz(0) {
		return Token{}, false, s.errorWhile("while scanning a directive", start, "did not find expected comment or line break")
	}
	s.skipLine()
	return tok, true, nil
}

func (s *Scanner) scanVersionDirectiveValue(start Mark) (string, error) {
	for s.isBlank(0) {
		s.skip()
	}
	major, err := s.scanVersionDirectiveNumber(start)
	if err != nil {
		return "", err
	}
	if s.at(0) != '.' {
		return "", s.errorWhile("while scanning a %YAML directive", start, "did not find expected digit or '.' character")
	}
	s.skip()
	minor, err := s.scanVersionDirectiveNumber(start)
	if err != nil {
		return "", err
	}
	return major + "." + minor, nil
}

func (s *Scanner) scanVersionDirectiveNumber(start Mark) (string, error) {
	var digits []byte
	for s.isDigit(0) {
		if len(digits) >= 9 {
			return "", s.errorWhile("while scanning a %YAML directive", start, "found extremely long version number")
		}
		digits = s.read(digits)
	}
	if len(digits) == 0 {
		return "", s.errorWhile("while scanning a %YAML directive", start, "did not find expected version number")
	}
	return string(digits), nil
}

func (s *Scanner) scanTagDirectiveValue(start Mark) (string, string, error) {
	for s.isBlank(0) {
		s.skip()
	}
	handle, err := s.scanTagHandle(true, start)
	if err != nil {
		return "", "", err
	}
	if !s.isBlank(0) {
		return "", "", s.errorWhile("while scanning a %TAG directive", start, "did not find expected whitespace")
	}
	for s.isBlank(0) {
		s.skip()
	}
	prefix, err := s.scanTagURI(true, "", start)
	if err != nil {
		return "", "", err
	}
	if !s.isBlankz(0) {
		return "", "", s.errorWhile("while scanning a %TAG directive", start, "did not find expected whitespace or line break")
	}
	return handle, prefix, nil
}

func (s *Scanner) scanAnchor(kind TokenKind) (Token, error) {
	start := s.mark
	s.skip() // '&' or '*'

	var name []byte
	for s.isAnchorChar(0) {
		name = s.read(name)
	}

	context := "while scanning an anchor"
	if kind == AliasToken {
		context = "while scanning an alias"
	}
	if len(name) == 0 {
		return Token{}, s.errorWhile(context, start, "did not find expected alphabetic or numeric character")
	}
	switch {
	case s.isBlankz(0), s.isFlowIndicator(0):
	default:
		switch s.at(0) {
		case '?', ':', '%', '@', '`':
		default:
			return Token{}, s.errorWhile(context, start, "did not find expected alphabetic or numeric character")
		}
	}
	return Token{Kind: kind, Value: string(name), Start: start, End: s.mark}, nil
}

// scanTag scans a node tag. Handle and suffix are split the same way for
// every form:
//
//	!<tag:yaml.org,2002:str>  handle "",   suffix "tag:yaml.org,2002:str"
//	!!str                     handle "!!", suffix "str"
//	!e!foo                    handle "!e!", suffix "foo"
//	!Newtype                  handle "!",  suffix "Newtype"
//	!                         handle "",   suffix "!"
func (s *Scanner) scanTag() (Token, error) {
	start := s.mark
	var handle, suffix string

	if s.at(1) == '<' {
		s.skip()
		s.skip()
		uri, err := s.scanTagURI(false, "", start)
		if err != nil {
			return Token{}, err
		}
		if s.at(0) != '>' {
			return Token{}, s.errorWhile("while scanning a tag", start, "did not find the expected '>'")
		}
		s.skip()
		suffix = uri
	} else {
		h, err := s.scanTagHandle(false, start)
		if err != nil {
			return Token{}, err
		}
		if len(h) > 1 && h[0] == '!' && h[len(h)-1] == '!' {
			handle = h
			suffix, err = s.scanTagURI(false, "", start)
			if err != nil {
				return Token{}, err
			}
		} else {
			// It was not a handle after all, the rest is the suffix.
			suffix, err = s.scanTagURI(false, h, start)
			if err != nil {
				return Token{}, err
			}
			handle = "!"
			if len(suffix) == 0 {
				handle, suffix = suffix, handle
			}
		}
	}

	if !s.isBlankz(0) && !(s.flowLevel > 0 && s.isFlowIndicator(0)) {
		return Token{}, s.errorWhile("while scanning a tag", start, "did not find expected whitespace or line break")
	}
	return Token{Kind: TagToken, Value: handle, Suffix: suffix, Start: start, End: s.mark}, nil
}

func (s *Scanner) scanTagHandle(directive bool, start Mark) (string, error) {
	context := "while scanning a tag"
	if directive {
		context = "while scanning a %TAG directive"
	}
	if s.at(0) != '!' {
		return "", s.errorWhile(context, start, "did not find expected '!'")
	}

	handle := s.read(nil)
	for s.isAnchorChar(0) {
		handle = s.read(handle)
	}
	if s.at(0) == '!' {
		handle = s.read(handle)
	} else if directive && !(len(handle) == 1 && handle[0] == '!') {
		// A named tag handle in a %TAG directive must end with '!'.
		return "", s.errorWhile(context, start, "did not find expected '!'")
	}
	return string(handle), nil
}

func (s *Scanner) isURIChar(k int) bool {
	b := s.at(k)
	switch {
	case s.atEnd(k):
		return false
	case (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z'):
		return true
	}
	switch b {
	case ';', '/', '?', ':', '@', '&', '=', '+', '$', '.', '%', '!', '~', '*', '\'', '(', ')', '-', '_', '#':
		return true
	case ',', '[', ']':
		return s.flowLevel == 0
	}
	return false
}

// scanTagURI scans a tag URI. head is a previously scanned "!name" whose
// leading '!' is dropped.
func (s *Scanner) scanTagURI(directive bool, head string, start Mark) (string, error) {
	var uri []byte
	if len(head) > 1 {
		uri = append(uri, head[1:]...)
	}

	for s.isURIChar(0) {
		if s.at(0) == '%' {
			decoded, err := s.scanURIEscapes(directive, start)
			if err != nil {
				return "", err
			}
			uri = append(uri, decoded...)
		} else {
			uri = s.read(uri)
		}
	}

	if len(uri) == 0 && directive {
		return "", s.errorWhile("while parsing a %TAG directive", start, "did not find expected tag URI")
	}
	return string(uri), nil
}

// scanURIEscapes decodes one UTF-8 character written as %-escaped octets.
func (s *Scanner) scanURIEscapes(directive bool, start Mark) ([]byte, error) {
	context := "while parsing a tag"
	if directive {
		context = "while parsing a %TAG directive"
	}

	var out []byte
	width := 0
	for {
		if !(s.at(0) == '%' && s.isHex(1) && s.isHex(2)) {
			return nil, s.errorWhile(context, start, "did not find URI escaped octet")
		}
		octet := byte((s.hexValue(1) << 4) + s.hexValue(2))

		if width == 0 {
			switch {
			case octet&0x80 == 0x00:
				width = 1
			case octet&0xE0 == 0xC0:
				width = 2
			case octet&0xF0 == 0xE0:
				width = 3
			case octet&0xF8 == 0xF0:
				width = 4
			default:
				return nil, s.errorWhile(context, start, "found an incorrect leading UTF-8 octet")
			}
		} else if octet&0xC0 != 0x80 {
			return nil, s.errorWhile(context, start, "found an incorrect trailing UTF-8 octet")
		}

		out = append(out, octet)
		s.skip()
		s.skip()
		s.skip()

		if len(out) == width {
			return out, nil
		}
	}
}

func unquoteHexEscape(digits string) (rune, bool) {
	value, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, false
	}
	if (value >= 0xD800 && value <= 0xDFFF) || value > 0x10FFFF {
		return 0, false
	}
	return rune(value), true
}
