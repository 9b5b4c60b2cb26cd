// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package resolve_test

import (
	"math"
	"testing"

	"carvel.dev/yamlcodec/pkg/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlain(t *testing.T) {
	cases := []struct {
		text  string
		kind  resolve.Kind
		value interface{}
	}{
		{"", resolve.Null, nil},
		{"~", resolve.Null, nil},
		{"null", resolve.Null, nil},
		{"Null", resolve.Null, nil},
		{"NULL", resolve.Null, nil},
		{"nULL", resolve.String, "nULL"},

		{"true", resolve.Bool, true},
		{"True", resolve.Bool, true},
		{"TRUE", resolve.Bool, true},
		{"false", resolve.Bool, false},
		{"FALSE", resolve.Bool, false},
		{"yes", resolve.String, "yes"},
		{"off", resolve.String, "off"},

		{"0", resolve.Int, int64(0)},
		{"42", resolve.Int, int64(42)},
		{"-17", resolve.Int, int64(-17)},
		{"+8", resolve.Int, int64(8)},
		{"0x1F", resolve.Int, int64(31)},
		{"-0x10", resolve.Int, int64(-16)},
		{"0o17", resolve.Int, int64(15)},
		{"017", resolve.Int, int64(15)},
		{"0b101", resolve.Int, int64(5)},
		{"9223372036854775807", resolve.Int, int64(math.MaxInt64)},
		{"-9223372036854775808", resolve.Int, int64(math.MinInt64)},
		{"9223372036854775808", resolve.Int, uint64(1 << 63)},
		{"18446744073709551615", resolve.Int, uint64(math.MaxUint64)},
		{"18446744073709551616", resolve.Float, 18446744073709551616.0},
		{"0x10000000000000000", resolve.String, "0x10000000000000000"},
		{"-", resolve.String, "-"},
		{"0x", resolve.String, "0x"},
		{"1_000", resolve.String, "1_000"},
		{"1:30", resolve.String, "1:30"},

		{"1.0", resolve.Float, 1.0},
		{"-2.5", resolve.Float, -2.5},
		{".5", resolve.Float, 0.5},
		{"1.", resolve.Float, 1.0},
		{"1e3", resolve.Float, 1000.0},
		{"6.02E+23", resolve.Float, 6.02e23},
		{"09", resolve.Float, 9.0},
		{".inf", resolve.Float, math.Inf(1)},
		{"+.Inf", resolve.Float, math.Inf(1)},
		{"-.INF", resolve.Float, math.Inf(-1)},
		{"1e", resolve.String, "1e"},
		{".", resolve.String, "."},

		{"hello", resolve.String, "hello"},
		{"12 monkeys", resolve.String, "12 monkeys"},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			kind, value := resolve.Plain(tc.text)
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.value, value)
		})
	}
}

func TestPlainNaN(t *testing.T) {
	for _, text := range []string{".nan", ".NaN", ".NAN"} {
		kind, value := resolve.Plain(text)
		require.Equal(t, resolve.Float, kind)
		assert.True(t, math.IsNaN(value.(float64)))
	}
}

func TestTagged(t *testing.T) {
	cases := []struct {
		tag   string
		text  string
		kind  resolve.Kind
		value interface{}
		err   string
	}{
		{tag: resolve.StrTag, text: "123", kind: resolve.String, value: "123"},
		{tag: resolve.StrTag, text: "", kind: resolve.String, value: ""},
		{tag: resolve.IntTag, text: "0x10", kind: resolve.Int, value: int64(16)},
		{tag: resolve.IntTag, text: "1.5", err: "cannot resolve '1.5' as !!int"},
		{tag: resolve.FloatTag, text: "3", kind: resolve.Float, value: 3.0},
		{tag: resolve.FloatTag, text: "2.5", kind: resolve.Float, value: 2.5},
		{tag: resolve.FloatTag, text: "abc", err: "cannot resolve 'abc' as !!float"},
		{tag: resolve.BoolTag, text: "True", kind: resolve.Bool, value: true},
		{tag: resolve.BoolTag, text: "yes", err: "cannot resolve 'yes' as !!bool"},
		{tag: resolve.NullTag, text: "~", kind: resolve.Null, value: nil},
		{tag: resolve.NullTag, text: "x", err: "cannot resolve 'x' as !!null"},
		{tag: resolve.MapTag, text: "x", err: "cannot use tag '!!map' on a scalar"},
		{tag: "!Custom", text: "12", kind: resolve.Int, value: int64(12)},
		{tag: "!Custom", text: "abc", kind: resolve.String, value: "abc"},
	}

	for _, tc := range cases {
		t.Run(tc.tag+" "+tc.text, func(t *testing.T) {
			kind, value, err := resolve.Tagged(tc.tag, tc.text)
			if len(tc.err) > 0 {
				require.EqualError(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.value, value)
		})
	}
}

func TestNeedsQuoting(t *testing.T) {
	quoted := []string{
		"", "~", "null", "true", "False", "12", "-3", "0x1f", "1.5", ".inf", ".nan",
		"yes", "No", "on", "OFF",
		"1_000", "0b1_0", "1:30", "190:20:30.15",
		"<<", "=",
	}
	for _, s := range quoted {
		assert.True(t, resolve.NeedsQuoting(s), "expected %q to need quoting", s)
	}

	plain := []string{"hello", "Unit", "a b", "1a", "x_y", "nULL", "yesterday", "1:2:x", "y", "Y", "n", "N"}
	for _, s := range plain {
		assert.False(t, resolve.NeedsQuoting(s), "expected %q to stay plain", s)
	}
}
