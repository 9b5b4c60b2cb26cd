// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"fmt"
	"unicode/utf8"

	"carvel.dev/yamlcodec/pkg/yamlerr"
)

const maxSimpleKeyLength = 1024

type simpleKey struct {
	possible    bool
	required    bool
	tokenNumber int
	mark        Mark
}

// Scanner splits YAML source into tokens. Tokens are produced lazily
// by Next; the first error stops the scanner for good.
type Scanner struct {
	src  []byte
	mark Mark

	tokens       []Token
	head         int
	tokensParsed int

	streamStartProduced bool
	streamEndProduced   bool

	indent  int
	indents []int

	flowLevel        int
	simpleKeyAllowed bool
	simpleKeys       []simpleKey

	comments []Token
	err      error
}

func New(src []byte) *Scanner {
	return &Scanner{src: src}
}

// Next returns the following token. After StreamEndToken was returned
// every call returns a NoToken token.
func (s *Scanner) Next() (Token, error) {
	if s.err != nil {
		return Token{}, s.err
	}
	if s.streamEndProduced {
		return Token{Kind: NoToken, Start: s.mark, End: s.mark}, nil
	}
	if !s.streamStartProduced {
		if err := s.checkEncoding(); err != nil {
			s.err = err
			return Token{}, err
		}
	}
	if err := s.fetchMoreTokens(); err != nil {
		s.err = err
		return Token{}, err
	}

	tok := s.tokens[s.head]
	s.head++
	s.tokensParsed++
	if s.head == len(s.tokens) {
		s.tokens = s.tokens[:0]
		s.head = 0
	}
	if tok.Kind == StreamEndToken {
		s.streamEndProduced = true
	}
	return tok, nil
}

// Comments returns the comments seen so far. Comments never affect the
// token stream.
func (s *Scanner) Comments() []Token { return s.comments }

func (s *Scanner) checkEncoding() error {
	src := s.src
	line, col := 0, 0
	for i := 0; i < len(src); {
		r, width := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && width <= 1 {
			return s.errorAt(Mark{Offset: i, Line: line, Column: col}, "invalid UTF-8 byte sequence")
		}
		if !isPrintable(r) {
			return s.errorAt(Mark{Offset: i, Line: line, Column: col},
				fmt.Sprintf("control characters are not allowed (found %U)", r))
		}
		if r == '\n' || (r == '\r' && (i+1 >= len(src) || src[i+1] != '\n')) {
			line++
			col = 0
		} else if r != '\r' {
			col++
		}
		i += width
	}
	return nil
}

func isPrintable(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0x7E:
		return true
	case r == 0x85 || (r >= 0xA0 && r <= 0xD7FF):
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

func (s *Scanner) errorAt(m Mark, problem string) error {
	return yamlerr.New(yamlerr.Scan, m.Position(), "%s", problem)
}

func (s *Scanner) errorWhile(context string, contextMark Mark, problem string) error {
	return yamlerr.New(yamlerr.Scan, s.mark.Position(), "%s: %s (started at line %d, column %d)",
		context, problem, contextMark.Line+1, contextMark.Column+1)
}

// Character access.

func (s *Scanner) at(k int) byte {
	i := s.mark.Offset + k
	if i < len(s.src) {
		return s.src[i]
	}
	return 0
}

func (s *Scanner) atEnd(k int) bool { return s.mark.Offset+k >= len(s.src) }

func (s *Scanner) isBlank(k int) bool {
	b := s.at(k)
	return !s.atEnd(k) && (b == ' ' || b == '\t')
}

func (s *Scanner) isSpace(k int) bool { return !s.atEnd(k) && s.at(k) == ' ' }

func (s *Scanner) isTab(k int) bool { return !s.atEnd(k) && s.at(k) == '\t' }

func (s *Scanner) isBreak(k int) bool {
	b := s.at(k)
	return !s.atEnd(k) && (b == '\r' || b == '\n')
}

func (s *Scanner) isBreakz(k int) bool { return s.atEnd(k) || s.isBreak(k) }

func (s *Scanner) isBlankz(k int) bool { return s.atEnd(k) || s.isBlank(k) || s.isBreak(k) }

func (s *Scanner) isFlowIndicator(k int) bool {
	switch s.at(k) {
	case ',', '[', ']', '{', '}':
		return !s.atEnd(k)
	}
	return false
}

func (s *Scanner) isDigit(k int) bool {
	b := s.at(k)
	return b >= '0' && b <= '9'
}

func (s *Scanner) isAnchorChar(k int) bool {
	b := s.at(k)
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '-'
}

func (s *Scanner) isHex(k int) bool {
	b := s.at(k)
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (s *Scanner) hexValue(k int) int {
	b := s.at(k)
	switch {
	case b >= 'a':
		return int(b-'a') + 10
	case b >= 'A':
		return int(b-'A') + 10
	}
	return int(b - '0')
}

func (s *Scanner) isDocumentIndicator() bool {
	if s.mark.Column != 0 {
		return false
	}
	if (s.at(0) == '-' && s.at(1) == '-' && s.at(2) == '-') ||
		(s.at(0) == '.' && s.at(1) == '.' && s.at(2) == '.') {
		return s.isBlankz(3)
	}
	return false
}

// skip advances past one character.
func (s *Scanner) skip() {
	if s.atEnd(0) {
		return
	}
	_, width := utf8.DecodeRune(s.src[s.mark.Offset:])
	s.mark.Offset += width
	s.mark.Column++
}

// skipLine advances past one line break (LF, CR or CRLF).
func (s *Scanner) skipLine() {
	switch {
	case s.at(0) == '\r' && s.at(1) == '\n':
		s.mark.Offset += 2
	case s.isBreak(0):
		s.mark.Offset++
	default:
		return
	}
	s.mark.Line++
	s.mark.Column = 0
}

// read copies the current character into buf and advances.
func (s *Scanner) read(buf []byte) []byte {
	if s.atEnd(0) {
		return buf
	}
	_, width := utf8.DecodeRune(s.src[s.mark.Offset:])
	buf = append(buf, s.src[s.mark.Offset:s.mark.Offset+width]...)
	s.mark.Offset += width
	s.mark.Column++
	return buf
}

// readLine normalizes the current line break into '\n' and advances.
func (s *Scanner) readLine(buf []byte) []byte {
	if !s.isBreak(0) {
		return buf
	}
	s.skipLine()
	return append(buf, '\n')
}

// Token queue.

func (s *Scanner) insertToken(pos int, tok Token) {
	if pos < 0 {
		s.tokens = append(s.tokens, tok)
		return
	}
	at := s.head + pos
	s.tokens = append(s.tokens, Token{})
	copy(s.tokens[at+1:], s.tokens[at:])
	s.tokens[at] = tok
}

func (s *Scanner) fetchMoreTokens() error {
	for {
		needMore := false
		if s.head == len(s.tokens) {
			needMore = true
		} else {
			if err := s.staleSimpleKeys(); err != nil {
				return err
			}
			for i := range s.simpleKeys {
				if s.simpleKeys[i].possible && s.simpleKeys[i].tokenNumber == s.tokensParsed {
					needMore = true
					break
				}
			}
		}
		if !needMore {
			return nil
		}
		if err := s.fetchNextToken(); err != nil {
			return err
		}
	}
}

func (s *Scanner) fetchNextToken() error {
	if !s.streamStartProduced {
		s.fetchStreamStart()
		return nil
	}

	if err := s.scanToNextToken(); err != nil {
		return err
	}
	if err := s.staleSimpleKeys(); err != nil {
		return err
	}
	s.unrollIndent(s.mark.Column)

	if s.atEnd(0) {
		return s.fetchStreamEnd()
	}

	if s.mark.Column == 0 && s.at(0) == '%' {
		return s.fetchDirective()
	}
	if s.isDocumentIndicator() {
		if s.at(0) == '-' {
			return s.fetchDocumentIndicator(DocumentStartToken)
		}
		return s.fetchDocumentIndicator(DocumentEndToken)
	}

	switch s.at(0) {
	case '[':
		return s.fetchFlowCollectionStart(FlowSequenceStartToken)
	case '{':
		return s.fetchFlowCollectionStart(FlowMappingStartToken)
	case ']':
		return s.fetchFlowCollectionEnd(FlowSequenceEndToken)
	case '}':
		return s.fetchFlowCollectionEnd(FlowMappingEndToken)
	case ',':
		return s.fetchFlowEntry()
	}

	if s.at(0) == '-' && s.isBlankz(1) {
		return s.fetchBlockEntry()
	}
	if s.at(0) == '?' && (s.flowLevel > 0 || s.isBlankz(1)) {
		return s.fetchKey()
	}
	if s.at(0) == ':' && (s.flowLevel > 0 || s.isBlankz(1)) {
		return s.fetchValue()
	}

	switch s.at(0) {
	case '*':
		return s.fetchAnchor(AliasToken)
	case '&':
		return s.fetchAnchor(AnchorToken)
	case '!':
		return s.fetchTag()
	case '|':
		if s.flowLevel == 0 {
			return s.fetchBlockScalar(true)
		}
	case '>':
		if s.flowLevel == 0 {
			return s.fetchBlockScalar(false)
		}
	case '\'':
		return s.fetchFlowScalar(true)
	case '"':
		return s.fetchFlowScalar(false)
	case '\t':
		return s.errorAt(s.mark, "found a tab character that violates indentation")
	}

	// A plain scalar may not start with an indicator, except for '-', '?'
	// and ':' when followed by a non-space character.
	b := s.at(0)
	startsPlain := true
	switch b {
	case '-', '?', ':':
		startsPlain = !s.isBlankz(1) && (b == '-' || s.flowLevel == 0 || !s.isFlowIndicator(1))
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
		startsPlain = false
	default:
		startsPlain = !s.isBlankz(0)
	}
	if startsPlain {
		return s.fetchPlainScalar()
	}

	return s.errorWhile("while scanning for the next token", s.mark,
		"found character that cannot start any token")
}

// Simple keys.

func (s *Scanner) staleSimpleKeys() error {
	for i := range s.simpleKeys {
		key := &s.simpleKeys[i]
		// A simple key is limited to a single line and 1024 characters.
		if key.possible && (key.mark.Line < s.mark.Line || key.mark.Offset+maxSimpleKeyLength < s.mark.Offset) {
			if key.required {
				return s.errorWhile("while scanning a simple key", key.mark, "could not find expected ':'")
			}
			key.possible = false
		}
	}
	return nil
}

func (s *Scanner) saveSimpleKey() error {
	// A simple key is required at the current position if the scanner is
	// in the block context and the current column equals the indentation.
	required := s.flowLevel == 0 && s.indent == s.mark.Column

	if s.simpleKeyAllowed {
		key := simpleKey{
			possible:    true,
			required:    required,
			tokenNumber: s.tokensParsed + (len(s.tokens) - s.head),
			mark:        s.mark,
		}
		if err := s.removeSimpleKey(); err != nil {
			return err
		}
		s.simpleKeys[len(s.simpleKeys)-1] = key
	}
	return nil
}

func (s *Scanner) removeSimpleKey() error {
	i := len(s.simpleKeys) - 1
	if s.simpleKeys[i].possible && s.simpleKeys[i].required {
		return s.errorWhile("while scanning a simple key", s.simpleKeys[i].mark, "could not find expected ':'")
	}
	s.simpleKeys[i].possible = false
	return nil
}

func (s *Scanner) increaseFlowLevel() {
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	s.flowLevel++
}

func (s *Scanner) decreaseFlowLevel() {
	if s.flowLevel > 0 {
		s.flowLevel--
		s.simpleKeys = s.simpleKeys[:len(s.simpleKeys)-1]
	}
}

// Indentation.

// rollIndent pushes the current indentation and inserts a block collection
// start token when column opens a deeper block level. number is the
// absolute token number to insert before, or -1 to append.
func (s *Scanner) rollIndent(column, number int, kind TokenKind, m Mark) {
	if s.flowLevel > 0 {
		return
	}
	if s.indent < column {
		s.indents = append(s.indents, s.indent)
		s.indent = column

		tok := Token{Kind: kind, Start: m, End: m}
		if number > -1 {
			number -= s.tokensParsed
		}
		s.insertToken(number, tok)
	}
}

// unrollIndent emits a BLOCK-END token for every indentation level deeper
// than column.
func (s *Scanner) unrollIndent(column int) {
	if s.flowLevel > 0 {
		return
	}
	for s.indent > column {
		s.insertToken(-1, Token{Kind: BlockEndToken, Start: s.mark, End: s.mark})
		s.indent = s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
	}
}

// Fetchers.

func (s *Scanner) fetchStreamStart() {
	s.indent = -1
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	s.simpleKeyAllowed = true
	s.streamStartProduced = true

	// Byte order mark is not part of the content.
	if s.at(0) == 0xEF && s.at(1) == 0xBB && s.at(2) == 0xBF {
		s.mark.Offset += 3
	}
	s.insertToken(-1, Token{Kind: StreamStartToken, Start: s.mark, End: s.mark})
}

func (s *Scanner) fetchStreamEnd() error {
	// Force a new line.
	if s.mark.Column != 0 {
		s.mark.Column = 0
		s.mark.Line++
	}
	s.unrollIndent(-1)
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	s.insertToken(-1, Token{Kind: StreamEndToken, Start: s.mark, End: s.mark})
	return nil
}

func (s *Scanner) fetchDirective() error {
	s.unrollIndent(-1)
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	tok, found, err := s.scanDirective()
	if err != nil {
		return err
	}
	if found {
		s.insertToken(-1, tok)
	}
	return nil
}

func (s *Scanner) fetchDocumentIndicator(kind TokenKind) error {
	s.unrollIndent(-1)
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	start := s.mark
	s.skip()
	s.skip()
	s.skip()
	s.insertToken(-1, Token{Kind: kind, Start: start, End: s.mark})
	return nil
}

func (s *Scanner) fetchFlowCollectionStart(kind TokenKind) error {
	// '[' and '{' may start a simple key.
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.increaseFlowLevel()
	s.simpleKeyAllowed = true

	start := s.mark
	s.skip()
	s.insertToken(-1, Token{Kind: kind, Start: start, End: s.mark})
	return nil
}

func (s *Scanner) fetchFlowCollectionEnd(kind TokenKind) error {
	if s.flowLevel == 0 {
		return s.errorAt(s.mark, fmt.Sprintf("found unexpected %s outside of a flow collection", kind))
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.decreaseFlowLevel()
	s.simpleKeyAllowed = false

	start := s.mark
	s.skip()
	s.insertToken(-1, Token{Kind: kind, Start: start, End: s.mark})
	return nil
}

func (s *Scanner) fetchFlowEntry() error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true

	start := s.mark
	s.skip()
	s.insertToken(-1, Token{Kind: FlowEntryToken, Start: start, End: s.mark})
	return nil
}

func (s *Scanner) fetchBlockEntry() error {
	if s.flowLevel == 0 {
		if !s.simpleKeyAllowed {
			return s.errorAt(s.mark, "block sequence entries are not allowed in this context")
		}
		s.rollIndent(s.mark.Column, -1, BlockSequenceStartToken, s.mark)
	}
	// A '-' inside a flow collection is reported by the parser, which
	// knows the surrounding context.

	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true

	start := s.mark
	s.skip()
	s.insertToken(-1, Token{Kind: BlockEntryToken, Start: start, End: s.mark})
	return nil
}

func (s *Scanner) fetchKey() error {
	if s.flowLevel == 0 {
		if !s.simpleKeyAllowed {
			return s.errorAt(s.mark, "mapping keys are not allowed in this context")
		}
		s.rollIndent(s.mark.Column, -1, BlockMappingStartToken, s.mark)
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = s.flowLevel == 0

	start := s.mark
	s.skip()
	s.insertToken(-1, Token{Kind: KeyToken, Start: start, End: s.mark})
	return nil
}

func (s *Scanner) fetchValue() error {
	key := &s.simpleKeys[len(s.simpleKeys)-1]

	if key.possible {
		// The pending simple key turns out to be a mapping key.
		s.insertToken(key.tokenNumber-s.tokensParsed, Token{Kind: KeyToken, Start: key.mark, End: key.mark})
		s.rollIndent(key.mark.Column, key.tokenNumber, BlockMappingStartToken, key.mark)
		key.possible = false
		s.simpleKeyAllowed = false
	} else {
		// The ':' follows a complex key (or an empty key).
		if s.flowLevel == 0 {
			if !s.simpleKeyAllowed {
				return s.errorAt(s.mark, "mapping values are not allowed in this context")
			}
			s.rollIndent(s.mark.Column, -1, BlockMappingStartToken, s.mark)
		}
		s.simpleKeyAllowed = s.flowLevel == 0
	}

	start := s.mark
	s.skip()
	s.insertToken(-1, Token{Kind: ValueToken, Start: start, End: s.mark})
	return nil
}

func (s *Scanner) fetchAnchor(kind TokenKind) error {
	// An anchor or an alias may start a simple key.
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	tok, err := s.scanAnchor(kind)
	if err != nil {
		return err
	}
	s.insertToken(-1, tok)
	return nil
}

func (s *Scanner) fetchTag() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	tok, err := s.scanTag()
	if err != nil {
		return err
	}
	s.insertToken(-1, tok)
	return nil
}

func (s *Scanner) fetchBlockScalar(literal bool) error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	// A simple key may follow a block scalar.
	s.simpleKeyAllowed = true

	tok, err := s.scanBlockScalar(literal)
	if err != nil {
		return err
	}
	s.insertToken(-1, tok)
	return nil
}

func (s *Scanner) fetchFlowScalar(single bool) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	tok, err := s.scanFlowScalar(single)
	if err != nil {
		return err
	}
	s.insertToken(-1, tok)
	return nil
}

func (s *Scanner) fetchPlainScalar() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	tok, err := s.scanPlainScalar()
	if err != nil {
		return err
	}
	s.insertToken(-1, tok)
	return nil
}

// scanToNextToken eats whitespace, comments and line breaks.
func (s *Scanner) scanToNextToken() error {
	for {
		// Tabs never count as block indentation. They are separators in
		// the flow context, after other content on the same line, and on
		// lines that are otherwise blank.
		leading := s.mark.Column == 0
		for s.isSpace(0) || (s.isTab(0) && (s.flowLevel > 0 || !s.simpleKeyAllowed || !leading || s.restOfLineBlank())) {
			s.skip()
		}

		if s.at(0) == '#' && !s.atEnd(0) {
			s.scanComment()
		}

		if !s.isBreak(0) {
			return nil
		}
		s.skipLine()

		// In the block context, a new line may start a simple key.
		if s.flowLevel == 0 {
			s.simpleKeyAllowed = true
		}
	}
}

func (s *Scanner) restOfLineBlank() bool {
	for k := 0; ; k++ {
		if s.isBreakz(k) || s.at(k) == '#' {
			return true
		}
		if !s.isBlank(k) {
			return false
		}
	}
}

func (s *Scanner) scanComment() {
	start := s.mark
	s.skip() // '#'
	var text []byte
	for !s.isBreakz(0) {
		text = s.read(text)
	}
	s.comments = append(s.comments, Token{
		Kind:  CommentToken,
		Value: string(text),
		Start: start,
		End:   s.mark,
	})
}
