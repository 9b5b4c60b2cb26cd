// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta_test

import (
	"math"
	"testing"

	"carvel.dev/yamlcodec/pkg/yamlmeta"
	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	cases := []struct {
		Description string
		A, B        string
		Equal       bool
	}{
		{"same mapping", "a: 1\nb: [x]\n", "{a: 1, b: [x]}", true},
		{"styles are ignored", "a: 'x'\n", "a: x\n", true},
		{"anchors are ignored", "a: &n 1\nb: *n\n", "a: 1\nb: 1\n", true},
		{"pair order matters", "a: 1\nb: 2\n", "b: 2\na: 1\n", false},
		{"kinds matter", "a: '1'\n", "a: 1\n", false},
		{"tags matter", "a: !T 1\n", "a: 1\n", false},
		{"nan equals nan", "a: .nan\n", "a: .NaN\n", true},
		{"lengths matter", "[1, 2]", "[1]", false},
	}

	for _, tc := range cases {
		t.Run(tc.Description, func(t *testing.T) {
			a := parseDoc(t, tc.A)
			b := parseDoc(t, tc.B)
			assert.Equal(t, tc.Equal, yamlmeta.Equal(a, b))
			assert.Equal(t, tc.Equal, yamlmeta.Equal(b, a))
		})
	}
}

func TestEqualConstructedNodes(t *testing.T) {
	assert.True(t, yamlmeta.Equal(yamlmeta.NewUint(5), yamlmeta.NewInt(5)))
	assert.False(t, yamlmeta.Equal(yamlmeta.NewUint(math.MaxUint64), yamlmeta.NewInt(-1)))
	assert.True(t, yamlmeta.Equal(yamlmeta.NewFloat(math.NaN()), yamlmeta.NewFloat(math.NaN())))
	assert.False(t, yamlmeta.Equal(yamlmeta.NewNull(), nil))
	assert.True(t, yamlmeta.Equal(nil, nil))
}
