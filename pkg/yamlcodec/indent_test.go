// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlcodec_test

import (
	"testing"

	"carvel.dev/yamlcodec/pkg/yamlcodec"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectIndentation(t *testing.T) {
	cases := []struct {
		desc  string
		text  string
		width int
	}{
		{"two spaces", "root:\n  child: value\n", 2},
		{"four spaces", "root:\n    child: value\n", 4},
		{"eight spaces", "root:\n        child: value\n", 8},
		{"three spaces", "root:\n   child: value\n", 3},
		{"nested", "a:\n  b:\n    c:\n      d: 1\n", 2},
		{"sequence", "items:\n  - one\n  - two\n", 2},
		{"comments", "\n# Comment at root\nroot:\n  # Comment at level 1\n  child: value\n", 2},
		{"deeply nested four", "a:\n    b:\n        c:\n            d: 1\n", 4},
		{"mixed content", "mapping:\n  key: value\nsequence:\n  - a\n  - b:\n      c: 1\n", 2},
		{"crlf", "root:\r\n  child: value\r\n", 2},
		{"emitted width", "name: a\ninner:\n      b: 1\n", 6},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			width, ok, err := yamlcodec.DetectIndentation(tc.text)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tc.width, width)
		})
	}
}

func TestDetectIndentationWithoutIndentedLines(t *testing.T) {
	for _, text := range []string{"key: value\n", "items: [1, 2, 3]\n", "", "# only a comment\n"} {
		_, ok, err := yamlcodec.DetectIndentation(text)
		require.NoError(t, err)
		assert.False(t, ok, "text %q", text)
	}
}

func TestDetectIndentationErrors(t *testing.T) {
	_, _, err := yamlcodec.DetectIndentation("@invalid")
	require.Error(t, err)
	assert.True(t, yamlerr.IsKind(err, yamlerr.Scan))

	_, _, err = yamlcodec.DetectIndentation("text: |\n  a\n  \tb\n")
	require.Error(t, err)
	assert.Equal(t, "yaml: line 3, column 3: tab characters are not allowed for indentation in YAML", err.Error())
}

func TestDetectIndentationOfSerializedText(t *testing.T) {
	val := outer{Name: "a", Inner: map[string]int{"b": 1}}

	for width := 2; width <= 9; width++ {
		text, err := yamlcodec.SerializeWithIndent(val, width)
		require.NoError(t, err)

		detected, ok, err := yamlcodec.DetectIndentation(text)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, width, detected)
	}
}
