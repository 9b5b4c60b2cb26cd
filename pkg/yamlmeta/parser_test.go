// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta_test

import (
	"math"
	"strings"
	"testing"

	"carvel.dev/yamlcodec/pkg/yamlerr"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
	"github.com/k14s/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, data string) *yamlmeta.Node {
	t.Helper()
	doc, err := yamlmeta.ParseDocument([]byte(data), "")
	require.NoError(t, err)
	return doc.Root
}

func TestParserDocSetEmpty(t *testing.T) {
	docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes([]byte(""), "")
	require.NoError(t, err)
	assert.Len(t, docSet.Items, 0)
}

func TestParserDocSetPrinted(t *testing.T) {
	const data = "a: 1 # one\nb: [x, y]\n"

	docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes([]byte(data), "")
	require.NoError(t, err)

	printer := yamlmeta.NewPrinterWithOpts(nil, yamlmeta.PrinterOpts{ExcludeRefs: true})

	expectedValStr := `????: docset
comment:    1: ' one'
       1: doc
           1: map
           1: key="a"
               1: int 1
           2: key="b"
               2: array
               2: idx=0
                   2: string "x"
               2: idx=1
                   2: string "y"
`
	assertEqual(t, printer.PrintStr(docSet), expectedValStr)
}

func TestParserPrintsAliases(t *testing.T) {
	root := parseDoc(t, "a: &x 1\nb: *x\n")

	printer := yamlmeta.NewPrinterWithOpts(nil, yamlmeta.PrinterOpts{ExcludeRefs: true})

	expectedValStr := `   1: map
   1: key="a"
       1: int 1 &x
   2: key="b"
       1: alias *x
`
	assertEqual(t, printer.PrintStr(root), expectedValStr)
}

func TestParserWithoutComments(t *testing.T) {
	docSet, err := yamlmeta.ParseBytes([]byte("# c\na: 1\n"), "")
	require.NoError(t, err)
	assert.Len(t, docSet.AllComments, 0)
}

func TestParserMultipleDocuments(t *testing.T) {
	docSet, err := yamlmeta.ParseBytes([]byte("a: 1\n---\n- b\n...\n--- c\n"), "")
	require.NoError(t, err)
	require.Len(t, docSet.Items, 3)

	assert.False(t, docSet.Items[0].Explicit)
	assert.True(t, docSet.Items[1].Explicit)
	assert.Equal(t, yamlmeta.MappingKind, docSet.Items[0].Root.Kind)
	assert.Equal(t, yamlmeta.SequenceKind, docSet.Items[1].Root.Kind)
	assert.Equal(t, "c", docSet.Items[2].Root.Value)
}

func TestParseDocument(t *testing.T) {
	t.Run("empty stream is null", func(t *testing.T) {
		root := parseDoc(t, "")
		assert.Equal(t, yamlmeta.NullKind, root.Kind)
	})

	t.Run("empty explicit document is null", func(t *testing.T) {
		root := parseDoc(t, "---\n")
		assert.Equal(t, yamlmeta.NullKind, root.Kind)
	})

	t.Run("more than one document", func(t *testing.T) {
		_, err := yamlmeta.ParseDocument([]byte("a: 1\n---\nb: 2\n"), "")
		require.Error(t, err)
		assert.True(t, yamlerr.IsKind(err, yamlerr.Parse))
		assert.Contains(t, err.Error(), "expected a single document")
	})
}

func TestParserScalarKinds(t *testing.T) {
	root := parseDoc(t, `
- ~
- yes
- true
- 0x1f
- 18446744073709551615
- 1.5
- .nan
- "12"
- |
  text
- !!str 12
- !!float 3
- !Name 12
- !Name "12"
- !Name
`)

	expected := []struct {
		Kind  yamlmeta.Kind
		Value interface{}
		Tag   string
	}{
		{yamlmeta.NullKind, nil, ""},
		{yamlmeta.StringKind, "yes", ""},
		{yamlmeta.BoolKind, true, ""},
		{yamlmeta.IntKind, int64(31), ""},
		{yamlmeta.IntKind, uint64(math.MaxUint64), ""},
		{yamlmeta.FloatKind, 1.5, ""},
		{yamlmeta.FloatKind, nil, ""},
		{yamlmeta.StringKind, "12", ""},
		{yamlmeta.StringKind, "text\n", ""},
		{yamlmeta.StringKind, "12", ""},
		{yamlmeta.FloatKind, 3.0, ""},
		{yamlmeta.IntKind, int64(12), "!Name"},
		{yamlmeta.StringKind, "12", "!Name"},
		{yamlmeta.NullKind, nil, "!Name"},
	}

	require.Len(t, root.Items, len(expected))
	for i, exp := range expected {
		item := root.Items[i]
		assert.Equal(t, exp.Kind, item.Kind, "item %d", i)
		assert.Equal(t, exp.Tag, item.Tag, "item %d", i)
		if exp.Kind == yamlmeta.FloatKind && exp.Value == nil {
			assert.True(t, math.IsNaN(item.Value.(float64)), "item %d", i)
			continue
		}
		assert.Equal(t, exp.Value, item.Value, "item %d", i)
	}
}

func TestParserCollectionTags(t *testing.T) {
	root := parseDoc(t, "a: !Point {x: 1}\nb: !!seq [1]\nc: ! {}\n")

	a, _ := root.Get("a")
	assert.Equal(t, "!Point", a.Tag)
	assert.Equal(t, yamlmeta.MappingKind, a.Kind)
	assert.True(t, a.Flow)

	b, _ := root.Get("b")
	assert.Equal(t, "", b.Tag)
	assert.Equal(t, yamlmeta.SequenceKind, b.Kind)

	c, _ := root.Get("c")
	assert.Equal(t, "", c.Tag)
	assert.Equal(t, yamlmeta.MappingKind, c.Kind)

	_, err := yamlmeta.ParseDocument([]byte("!!int [1]\n"), "")
	require.Error(t, err)
	assert.True(t, yamlerr.IsKind(err, yamlerr.Resolution))
	assert.Contains(t, err.Error(), "cannot use tag 'tag:yaml.org,2002:int' on a sequence")

	_, err = yamlmeta.ParseDocument([]byte("!!int abc\n"), "")
	require.Error(t, err)
	assert.True(t, yamlerr.IsKind(err, yamlerr.Resolution))
}

func TestParserAnchorsShareNodes(t *testing.T) {
	root := parseDoc(t, "a: &x {k: v}\nb: *x\nc: [*x]\n")

	a, _ := root.Get("a")
	b, _ := root.Get("b")
	c, _ := root.Get("c")

	assert.Same(t, a, b)
	assert.Same(t, a, c.Items[0])
	assert.Equal(t, "x", a.Anchor)
	assert.Equal(t, 8, yamlmeta.CountNodes(root))
}

func TestParserAnchorRedefinition(t *testing.T) {
	root := parseDoc(t, "- &x 1\n- *x\n- &x 2\n- *x\n")

	var vals []interface{}
	for _, item := range root.Items {
		vals = append(vals, item.Value)
	}
	assert.Equal(t, []interface{}{int64(1), int64(1), int64(2), int64(2)}, vals)
}

func TestParserAliasErrors(t *testing.T) {
	cases := []struct {
		Description string
		Data        string
		Message     string
	}{
		{"forward reference", "a: *x\nb: &x 1\n", "yaml: line 1, column 4: unknown anchor 'x' referenced"},
		{"self reference", "a: &x [1, *x]\n", "yaml: line 1, column 11: unknown anchor 'x' referenced"},
		{"anchor from another document", "a: &x 1\n---\nb: *x\n", "yaml: line 3, column 4: unknown anchor 'x' referenced"},
	}

	for _, tc := range cases {
		t.Run(tc.Description, func(t *testing.T) {
			_, err := yamlmeta.ParseBytes([]byte(tc.Data), "")
			require.Error(t, err)
			assert.True(t, yamlerr.IsKind(err, yamlerr.Resolution))
			assert.Equal(t, tc.Message, err.Error())
		})
	}
}

func TestParserMergeKeys(t *testing.T) {
	root := parseDoc(t, `
base: &base {a: 1, b: 2}
other: &other {b: 3, c: 4}
m:
  <<: [*base, *other]
  a: 10
single:
  x: 0
  <<: *other
`)

	m, _ := root.Get("m")
	assertPairs(t, m, "b", int64(2), "c", int64(4), "a", int64(10))

	single, _ := root.Get("single")
	assertPairs(t, single, "b", int64(3), "c", int64(4), "x", int64(0))
}

func TestParserMergedKeysPrecedeExplicitKeys(t *testing.T) {
	root := parseDoc(t, `x: &x {p: 1, q: 2}
b:
  q: 3
  <<: *x
  r: 4
`)

	b, _ := root.Get("b")
	assertPairs(t, b, "p", int64(1), "q", int64(3), "r", int64(4))
}

func TestParserMergeKeyTaggedAndQuoted(t *testing.T) {
	root := parseDoc(t, "b: &b {x: 1}\nt:\n  !!merge <<: *b\nq:\n  '<<': *b\n")

	tagged, _ := root.Get("t")
	assertPairs(t, tagged, "x", int64(1))

	quoted, _ := root.Get("q")
	require.Len(t, quoted.Pairs, 1)
	assert.Equal(t, "<<", quoted.Pairs[0].Key.Value)
	assert.Equal(t, yamlmeta.MappingKind, quoted.Pairs[0].Value.Kind)
}

func TestParserMergeKeyErrors(t *testing.T) {
	for _, data := range []string{"<<: 1\n", "<<: [{a: 1}, 2]\n"} {
		_, err := yamlmeta.ParseDocument([]byte(data), "")
		require.Error(t, err, data)
		assert.True(t, yamlerr.IsKind(err, yamlerr.Parse), data)
		assert.Contains(t, err.Error(), "map merge requires map or sequence of maps as the value")
	}
}

func TestParserDuplicateKeys(t *testing.T) {
	cases := []struct {
		Description string
		Data        string
		Message     string
	}{
		{"plain", "a: 1\nb: 2\na: 3\n",
			"yaml: line 3, column 1: found duplicate key 'a' (first defined at 1:1)"},
		{"same value different text", "1: a\n0x1: b\n",
			"yaml: line 2, column 1: found duplicate key '1' (first defined at 1:1)"},
		{"flow", "{a: 1, a: 2}",
			"yaml: line 1, column 8: found duplicate key 'a' (first defined at 1:2)"},
		{"complex", "? [1, 2]\n: a\n? [1, 2]\n: b\n",
			"yaml: line 3, column 3: found duplicate key sequence (first defined at 1:3)"},
		{"nested", "x:\n  a: 1\n  a: 2\n",
			"yaml: line 3, column 3: found duplicate key 'a' (first defined at 2:3)"},
	}

	for _, tc := range cases {
		t.Run(tc.Description, func(t *testing.T) {
			_, err := yamlmeta.ParseDocument([]byte(tc.Data), "")
			require.Error(t, err)
			assert.True(t, yamlerr.IsKind(err, yamlerr.Parse))
			assert.Equal(t, tc.Message, err.Error())
		})
	}
}

func TestParserDistinctKeysAreKept(t *testing.T) {
	root := parseDoc(t, "1: int\n'1': str\ntrue: bool\n1.5: float\n'1.5': str\n")
	assert.Len(t, root.Pairs, 5)
}

func TestParserErrorIncludesFile(t *testing.T) {
	_, err := yamlmeta.ParseDocument([]byte("a: 1\na: 2\n"), "values.yml")
	require.Error(t, err)
	assert.Equal(t, "yaml: values.yml: line 2, column 1: found duplicate key 'a' (first defined at values.yml:1:1)", err.Error())
}

func assertPairs(t *testing.T, node *yamlmeta.Node, keysAndValues ...interface{}) {
	t.Helper()
	require.Equal(t, yamlmeta.MappingKind, node.Kind)
	require.Len(t, node.Pairs, len(keysAndValues)/2)
	for i, pair := range node.Pairs {
		assert.Equal(t, keysAndValues[2*i], pair.Key.Value, "key %d", i)
		assert.Equal(t, keysAndValues[2*i+1], pair.Value.Value, "value %d", i)
	}
}

func assertEqual(t *testing.T, parsedValStr string, expectedValStr string) {
	if parsedValStr != expectedValStr {
		t.Fatalf("Not equal; diff expected...actual:\n%v\n", difflib.PPDiff(strings.Split(expectedValStr, "\n"), strings.Split(parsedValStr, "\n")))
	}
}
