// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package parser_test

import (
	"strings"
	"testing"

	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventStrings(t *testing.T, src string) []string {
	t.Helper()
	events, err := parser.All([]byte(src))
	require.NoError(t, err)
	var result []string
	for _, ev := range events {
		result = append(result, ev.String())
	}
	return result
}

func TestParserEvents(t *testing.T) {
	cases := []struct {
		desc     string
		input    string
		expected []string
	}{
		{
			desc:     "empty stream",
			input:    "",
			expected: []string{"+STR", "-STR"},
		},
		{
			desc:     "comment only",
			input:    "# nothing here\n",
			expected: []string{"+STR", "-STR"},
		},
		{
			desc:  "block mapping",
			input: "a: 1\nb: two\n",
			expected: []string{"+STR", "+DOC", "+MAP",
				"=VAL :a", "=VAL :1", "=VAL :b", "=VAL :two",
				"-MAP", "-DOC", "-STR"},
		},
		{
			desc:  "indentless sequence as mapping value",
			input: "key:\n- a\n- b\nother: c\n",
			expected: []string{"+STR", "+DOC", "+MAP",
				"=VAL :key", "+SEQ", "=VAL :a", "=VAL :b", "-SEQ",
				"=VAL :other", "=VAL :c",
				"-MAP", "-DOC", "-STR"},
		},
		{
			desc:  "nested block sequences",
			input: "- - a\n  - b\n- c\n",
			expected: []string{"+STR", "+DOC", "+SEQ",
				"+SEQ", "=VAL :a", "=VAL :b", "-SEQ", "=VAL :c",
				"-SEQ", "-DOC", "-STR"},
		},
		{
			desc:  "flow collections",
			input: "[a, {b: c}, []]\n",
			expected: []string{"+STR", "+DOC", "+SEQ []",
				"=VAL :a", "+MAP {}", "=VAL :b", "=VAL :c", "-MAP", "+SEQ []", "-SEQ",
				"-SEQ", "-DOC", "-STR"},
		},
		{
			desc:  "single pair mapping inside flow sequence",
			input: "[a: b]\n",
			expected: []string{"+STR", "+DOC", "+SEQ []",
				"+MAP {}", "=VAL :a", "=VAL :b", "-MAP",
				"-SEQ", "-DOC", "-STR"},
		},
		{
			desc:  "flow mapping with empty value",
			input: "{a, b: }\n",
			expected: []string{"+STR", "+DOC", "+MAP {}",
				"=VAL :a", "=VAL :", "=VAL :b", "=VAL :",
				"-MAP", "-DOC", "-STR"},
		},
		{
			desc:  "explicit key",
			input: "? - a\n  - b\n: c\n",
			expected: []string{"+STR", "+DOC", "+MAP",
				"+SEQ", "=VAL :a", "=VAL :b", "-SEQ", "=VAL :c",
				"-MAP", "-DOC", "-STR"},
		},
		{
			desc:  "empty mapping value",
			input: "a:\nb: 1\n",
			expected: []string{"+STR", "+DOC", "+MAP",
				"=VAL :a", "=VAL :", "=VAL :b", "=VAL :1",
				"-MAP", "-DOC", "-STR"},
		},
		{
			desc:  "anchors and aliases",
			input: "base: &b {x: 1}\ncopy: *b\n",
			expected: []string{"+STR", "+DOC", "+MAP",
				"=VAL :base", "+MAP {} &b", "=VAL :x", "=VAL :1", "-MAP",
				"=VAL :copy", "=ALI *b",
				"-MAP", "-DOC", "-STR"},
		},
		{
			desc:  "tags",
			input: "- !!int 3\n- !Unit\n- !Newtype x\n- !<tag:example.com,2000:t> y\n",
			expected: []string{"+STR", "+DOC", "+SEQ",
				"=VAL <tag:yaml.org,2002:int> :3",
				"=VAL <!Unit> :",
				"=VAL <!Newtype> :x",
				"=VAL <tag:example.com,2000:t> :y",
				"-SEQ", "-DOC", "-STR"},
		},
		{
			desc:  "tag and anchor in either order",
			input: "- &a !T x\n- !T &b y\n",
			expected: []string{"+STR", "+DOC", "+SEQ",
				"=VAL &a <!T> :x", "=VAL &b <!T> :y",
				"-SEQ", "-DOC", "-STR"},
		},
		{
			desc:  "tagged collections",
			input: "!Struct {a: 1}\n",
			expected: []string{"+STR", "+DOC", "+MAP {} <!Struct>",
				"=VAL :a", "=VAL :1", "-MAP", "-DOC", "-STR"},
		},
		{
			desc:  "non-specific tag forces string",
			input: "! 12\n",
			expected: []string{"+STR", "+DOC",
				"=VAL <tag:yaml.org,2002:str> :12", "-DOC", "-STR"},
		},
		{
			desc:  "tag directive",
			input: "%TAG !e! tag:example.com,2000:\n--- !e!foo bar\n",
			expected: []string{"+STR", "+DOC ---",
				"=VAL <tag:example.com,2000:foo> :bar", "-DOC", "-STR"},
		},
		{
			desc:  "version directive",
			input: "%YAML 1.1\n--- a\n...\n",
			expected: []string{"+STR", "+DOC ---",
				"=VAL :a", "-DOC ...", "-STR"},
		},
		{
			desc:  "multiple documents",
			input: "a\n---\nb\n--- \n",
			expected: []string{"+STR",
				"+DOC", "=VAL :a", "-DOC",
				"+DOC ---", "=VAL :b", "-DOC",
				"+DOC ---", "=VAL :", "-DOC",
				"-STR"},
		},
		{
			desc:  "block scalars",
			input: "a: |\n  line 1\n  line 2\nb: >-\n  folded\n  text\n",
			expected: []string{"+STR", "+DOC", "+MAP",
				"=VAL :a", `=VAL |line 1\nline 2\n`,
				"=VAL :b", "=VAL >folded text",
				"-MAP", "-DOC", "-STR"},
		},
		{
			desc:  "quoted scalars",
			input: "- 'it''s'\n- \"tab\\there\"\n",
			expected: []string{"+STR", "+DOC", "+SEQ",
				"=VAL 'it's", `=VAL "tab\there`,
				"-SEQ", "-DOC", "-STR"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, eventStrings(t, tc.input))
		})
	}
}

func TestParserScalarImplicitFlags(t *testing.T) {
	events, err := parser.All([]byte("- plain\n- 'quoted'\n- !!str tagged\n"))
	require.NoError(t, err)

	var scalars []parser.Event
	for _, ev := range events {
		if ev.Kind == parser.ScalarEvent {
			scalars = append(scalars, ev)
		}
	}
	require.Len(t, scalars, 3)

	assert.True(t, scalars[0].PlainImplicit)
	assert.False(t, scalars[0].QuotedImplicit)

	assert.False(t, scalars[1].PlainImplicit)
	assert.True(t, scalars[1].QuotedImplicit)

	assert.False(t, scalars[2].PlainImplicit)
	assert.False(t, scalars[2].QuotedImplicit)
	assert.Equal(t, parser.StrTag, scalars[2].Tag)
}

func TestParserPositions(t *testing.T) {
	events, err := parser.All([]byte("a:\n  b: c\n"))
	require.NoError(t, err)

	var found bool
	for _, ev := range events {
		if ev.Kind == parser.ScalarEvent && ev.Value == "c" {
			found = true
			assert.Equal(t, 2, ev.Start.Position().LineNum())
			assert.Equal(t, 6, ev.Start.Position().Column())
		}
	}
	assert.True(t, found)
}

func TestParserErrors(t *testing.T) {
	cases := []struct {
		desc  string
		input string
		kind  yamlerr.Kind
		msg   string
	}{
		{
			desc:  "unsupported version",
			input: "%YAML 2.0\n--- a\n",
			kind:  yamlerr.Parse,
			msg:   "yaml: line 1, column 1: found incompatible YAML document (version 2.0)",
		},
		{
			desc:  "duplicate version directive",
			input: "%YAML 1.1\n%YAML 1.1\n--- a\n",
			kind:  yamlerr.Parse,
			msg:   "yaml: line 2, column 1: found duplicate %YAML directive",
		},
		{
			desc:  "undefined tag handle",
			input: "!x!y a\n",
			kind:  yamlerr.Parse,
			msg:   "found undefined tag handle",
		},
		{
			desc:  "unclosed flow sequence",
			input: "[a, b\n",
			kind:  yamlerr.Parse,
			msg:   "did not find expected ',' or ']'",
		},
		{
			desc:  "bad block indentation",
			input: "a:\n  - b\n c: d\n",
			kind:  yamlerr.Parse,
			msg:   "did not find expected key",
		},
		{
			desc:  "directive without document start",
			input: "%YAML 1.1\na\n",
			kind:  yamlerr.Parse,
			msg:   "did not find expected <document start>",
		},
		{
			desc:  "scan error surfaces",
			input: "a: 'unterminated\n",
			kind:  yamlerr.Scan,
			msg:   "found unexpected end of stream",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := parser.All([]byte(tc.input))
			require.Error(t, err)
			assert.Equal(t, tc.kind, yamlerr.KindOf(err))
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestParserMaxDepth(t *testing.T) {
	src := strings.Repeat("[", parser.MaxDepth+1) + strings.Repeat("]", parser.MaxDepth+1)
	_, err := parser.All([]byte(src))
	require.Error(t, err)
	assert.True(t, yamlerr.IsKind(err, yamlerr.Parse))
	assert.Contains(t, err.Error(), "exceeded max depth")
}

func TestParserErrorIsSticky(t *testing.T) {
	p := parser.New([]byte("[a, b\n"))
	var firstErr error
	for i := 0; i < 20 && firstErr == nil; i++ {
		_, firstErr = p.Next()
	}
	require.Error(t, firstErr)

	_, err := p.Next()
	assert.Equal(t, firstErr, err)
}
