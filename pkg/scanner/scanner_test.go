// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package scanner_test

import (
	"regexp"

	"carvel.dev/yamlcodec/pkg/scanner"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	. "gopkg.in/check.v1"
)

type tokenCase struct {
	input  string
	tokens []string
}

// describe renders tokens compactly: kinds, with values for scalars,
// anchors, aliases and tags.
func describe(tok scanner.Token) string {
	switch tok.Kind {
	case scanner.ScalarToken:
		return "SCALAR(" + tok.Value + ")"
	case scanner.AnchorToken:
		return "ANCHOR(" + tok.Value + ")"
	case scanner.AliasToken:
		return "ALIAS(" + tok.Value + ")"
	case scanner.TagToken:
		return "TAG(" + tok.Value + "," + tok.Suffix + ")"
	case scanner.StreamStartToken:
		return "STREAM-START"
	case scanner.StreamEndToken:
		return "STREAM-END"
	case scanner.DocumentStartToken:
		return "DOC-START"
	case scanner.DocumentEndToken:
		return "DOC-END"
	case scanner.BlockSequenceStartToken:
		return "BSEQ"
	case scanner.BlockMappingStartToken:
		return "BMAP"
	case scanner.BlockEndToken:
		return "BEND"
	case scanner.VersionDirectiveToken:
		return "VERSION(" + tok.Value + ")"
	case scanner.TagDirectiveToken:
		return "TAGDIR(" + tok.Value + "," + tok.Suffix + ")"
	default:
		return tok.Kind.String()
	}
}

func scanAll(input string) ([]string, error) {
	s := scanner.New([]byte(input))
	var result []string
	for {
		tok, err := s.Next()
		if err != nil {
			return result, err
		}
		result = append(result, describe(tok))
		if tok.Kind == scanner.StreamEndToken {
			return result, nil
		}
	}
}

var tokenCases = []tokenCase{
	{
		"",
		[]string{"STREAM-START", "STREAM-END"},
	},
	{
		"a: b\n",
		[]string{"STREAM-START", "BMAP", "'?'", "SCALAR(a)", "':'", "SCALAR(b)", "BEND", "STREAM-END"},
	},
	{
		"- a\n- b\n",
		[]string{"STREAM-START", "BSEQ", "'-'", "SCALAR(a)", "'-'", "SCALAR(b)", "BEND", "STREAM-END"},
	},
	{
		"a:\n  b: c\nd: e\n",
		[]string{"STREAM-START", "BMAP",
			"'?'", "SCALAR(a)", "':'",
			"BMAP", "'?'", "SCALAR(b)", "':'", "SCALAR(c)", "BEND",
			"'?'", "SCALAR(d)", "':'", "SCALAR(e)",
			"BEND", "STREAM-END"},
	},
	{
		"key:\n- a\n",
		// Indentless sequence: no BSEQ is produced at the mapping's column.
		[]string{"STREAM-START", "BMAP", "'?'", "SCALAR(key)", "':'", "'-'", "SCALAR(a)", "BEND", "STREAM-END"},
	},
	{
		"[a, {b: c}]",
		[]string{"STREAM-START", "'['", "SCALAR(a)", "','", "'{'", "'?'", "SCALAR(b)", "':'", "SCALAR(c)", "'}'", "']'", "STREAM-END"},
	},
	{
		"&x a: *x\n",
		[]string{"STREAM-START", "BMAP", "'?'", "ANCHOR(x)", "SCALAR(a)", "':'", "ALIAS(x)", "BEND", "STREAM-END"},
	},
	{
		"- !!str a\n- !Local b\n- !e!x c\n- !<tag:x,2000:y> d\n- ! e\n",
		[]string{"STREAM-START", "BSEQ",
			"'-'", "TAG(!!,str)", "SCALAR(a)",
			"'-'", "TAG(!,Local)", "SCALAR(b)",
			"'-'", "TAG(!e!,x)", "SCALAR(c)",
			"'-'", "TAG(,tag:x,2000:y)", "SCALAR(d)",
			"'-'", "TAG(,!)", "SCALAR(e)",
			"BEND", "STREAM-END"},
	},
	{
		"%YAML 1.1\n%TAG !e! tag:example.com,2000:\n--- a\n...\n",
		[]string{"STREAM-START", "VERSION(1.1)", "TAGDIR(!e!,tag:example.com,2000:)",
			"DOC-START", "SCALAR(a)", "DOC-END", "STREAM-END"},
	},
	{
		"a # comment\n",
		[]string{"STREAM-START", "SCALAR(a)", "STREAM-END"},
	},
	{
		"plain\n  continued\n\n  text\n",
		[]string{"STREAM-START", "SCALAR(plain continued\ntext)", "STREAM-END"},
	},
	{
		"'single ''quoted'''",
		[]string{"STREAM-START", "SCALAR(single 'quoted')", "STREAM-END"},
	},
	{
		`"esc \x41\u00e9\U0001F600\n\_end"`,
		[]string{"STREAM-START", "SCALAR(esc Aé😀\n\u00a0end)", "STREAM-END"},
	},
	{
		"\"folded\n  line\"",
		[]string{"STREAM-START", "SCALAR(folded line)", "STREAM-END"},
	},
	{
		"|\n  literal\n   more\n\n",
		[]string{"STREAM-START", "SCALAR(literal\n more\n)", "STREAM-END"},
	},
	{
		"|+\n  keep\n\n",
		[]string{"STREAM-START", "SCALAR(keep\n\n)", "STREAM-END"},
	},
	{
		"|-\n  strip\n\n",
		[]string{"STREAM-START", "SCALAR(strip)", "STREAM-END"},
	},
	{
		"- |2\n    indented\n",
		[]string{"STREAM-START", "BSEQ", "'-'", "SCALAR(  indented\n)", "BEND", "STREAM-END"},
	},
	{
		">\n  a\n  b\n\n  c\n",
		[]string{"STREAM-START", "SCALAR(a b\nc\n)", "STREAM-END"},
	},
	{
		"a: 1\r\nb: 2\r\n",
		[]string{"STREAM-START", "BMAP", "'?'", "SCALAR(a)", "':'", "SCALAR(1)",
			"'?'", "SCALAR(b)", "':'", "SCALAR(2)", "BEND", "STREAM-END"},
	},
	{
		"\xef\xbb\xbfa",
		[]string{"STREAM-START", "SCALAR(a)", "STREAM-END"},
	},
	{
		"key:\tvalue\n",
		[]string{"STREAM-START", "BMAP", "'?'", "SCALAR(key)", "':'", "SCALAR(value)", "BEND", "STREAM-END"},
	},
	{
		"url: http://example.com/a:b\n",
		[]string{"STREAM-START", "BMAP", "'?'", "SCALAR(url)", "':'", "SCALAR(http://example.com/a:b)", "BEND", "STREAM-END"},
	},
	{
		"? a\n: b\n",
		[]string{"STREAM-START", "BMAP", "'?'", "SCALAR(a)", "':'", "SCALAR(b)", "BEND", "STREAM-END"},
	},
}

func (s *S) TestTokens(c *C) {
	for i, tc := range tokenCases {
		tokens, err := scanAll(tc.input)
		c.Assert(err, IsNil, Commentf("case %d: %q", i, tc.input))
		c.Assert(tokens, DeepEquals, tc.tokens, Commentf("case %d: %q", i, tc.input))
	}
}

func (s *S) TestComments(c *C) {
	sc := scanner.New([]byte("# head\na: 1 # trailing\n"))
	for {
		tok, err := sc.Next()
		c.Assert(err, IsNil)
		if tok.Kind == scanner.StreamEndToken {
			break
		}
	}
	comments := sc.Comments()
	c.Assert(comments, HasLen, 2)
	c.Assert(comments[0].Value, Equals, " head")
	c.Assert(comments[1].Value, Equals, " trailing")
	c.Assert(comments[1].Start.Line, Equals, 1)
}

func (s *S) TestTokenMarks(c *C) {
	sc := scanner.New([]byte("a:\n  bb: c\n"))
	var scalars []scanner.Token
	for {
		tok, err := sc.Next()
		c.Assert(err, IsNil)
		if tok.Kind == scanner.ScalarToken {
			scalars = append(scalars, tok)
		}
		if tok.Kind == scanner.StreamEndToken {
			break
		}
	}
	c.Assert(scalars, HasLen, 3)
	c.Assert(scalars[1].Start, Equals, scanner.Mark{Offset: 5, Line: 1, Column: 2})
	c.Assert(scalars[1].End, Equals, scanner.Mark{Offset: 7, Line: 1, Column: 4})
	c.Assert(scalars[2].Start.Position().AsCompactString(), Equals, "2:7")
}

var errorCases = []struct {
	input string
	msg   string
}{
	{"\tkey: value\n", "yaml: line 1, column 1: found a tab character that violates indentation"},
	{"a: 'open", "found unexpected end of stream"},
	{"a: \"\\q\"", "found unknown escape character"},
	{"a: \"\\uD800\"", "found invalid Unicode character escape code"},
	{"a: b: c\n", "mapping values are not allowed in this context"},
	{"@foo", "found character that cannot start any token"},
	{"]", "found unexpected ']' outside of a flow collection"},
	{"&", "did not find expected alphabetic or numeric character"},
	{"a\x01", "control characters are not allowed"},
	{"a\xff", "invalid UTF-8 byte sequence"},
	{"|0\n a\n", "found an indentation indicator equal to 0"},
	{"a: 1\nb\n", "could not find expected ':'"},
}

func (s *S) TestErrors(c *C) {
	for _, tc := range errorCases {
		_, err := scanAll(tc.input)
		c.Assert(err, NotNil, Commentf("input %q", tc.input))
		c.Assert(yamlerr.KindOf(err), Equals, yamlerr.Scan, Commentf("input %q", tc.input))
		c.Assert(err.Error(), Matches, ".*"+regexp.QuoteMeta(tc.msg)+".*", Commentf("input %q", tc.input))
	}
}

func (s *S) TestErrorIsSticky(c *C) {
	sc := scanner.New([]byte("a: 'open"))
	var first error
	for i := 0; i < 10 && first == nil; i++ {
		_, first = sc.Next()
	}
	c.Assert(first, NotNil)
	_, err := sc.Next()
	c.Assert(err, Equals, first)
}
