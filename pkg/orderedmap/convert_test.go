// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap_test

import (
	"reflect"
	"testing"

	"carvel.dev/yamlcodec/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUnorderedMaps(t *testing.T) {
	inputA := map[string]interface{}{
		"key": []interface{}{map[string]interface{}{"nestedKey": "nestedValue"}},
	}
	inputB := map[string]interface{}{
		"key": []interface{}{map[string]interface{}{"nestedKey": "nestedValue"}},
	}

	result := orderedmap.Conversion{Object: inputA}.FromUnorderedMaps()

	if !reflect.DeepEqual(inputA, inputB) {
		t.Errorf("Nested object was modified. Got: %v, Expected: %v", inputA, inputB)
	}

	resultMap, ok := result.(*orderedmap.Map)
	require.True(t, ok)
	nested, found := resultMap.Get("key")
	require.True(t, found)
	require.IsType(t, &orderedmap.Map{}, nested.([]interface{})[0])
}

func TestFromUnorderedMapsSortsKeys(t *testing.T) {
	result := orderedmap.Conversion{Object: map[string]interface{}{"b": 1, "c": 2, "a": 3}}.FromUnorderedMaps()
	assert.Equal(t, []interface{}{"a", "b", "c"}, result.(*orderedmap.Map).Keys())
}

func TestFromUnorderedMapsKeepsOrderedMaps(t *testing.T) {
	inner := orderedmap.NewMap()
	inner.Set("z", map[string]interface{}{"y": 1, "x": 2})
	inner.Set("a", 3)

	result := orderedmap.Conversion{Object: map[string]interface{}{"inner": inner}}.FromUnorderedMaps()

	converted, found := result.(*orderedmap.Map).Get("inner")
	require.True(t, found)
	assert.Equal(t, []interface{}{"z", "a"}, converted.(*orderedmap.Map).Keys())

	nested, found := converted.(*orderedmap.Map).Get("z")
	require.True(t, found)
	assert.Equal(t, []interface{}{"x", "y"}, nested.(*orderedmap.Map).Keys())
}

func TestAsUnorderedStringMaps(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("a", []interface{}{orderedmap.NewMapWithItems([]orderedmap.MapItem{{Key: 1, Value: "one"}})})

	result := orderedmap.Conversion{Object: m}.AsUnorderedStringMaps()
	expected := map[string]interface{}{
		"a": []interface{}{map[string]interface{}{"1": "one"}},
	}
	assert.Equal(t, expected, result)
}

func TestMapOperations(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("z", 1)
	m.Set([]interface{}{"complex"}, 2)
	m.Set("a", 3)
	m.Set("z", 4)

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []interface{}{"z", []interface{}{"complex"}, "a"}, m.Keys())

	val, found := m.Get([]interface{}{"complex"})
	assert.True(t, found)
	assert.Equal(t, 2, val)

	val, _ = m.Get("z")
	assert.Equal(t, 4, val)

	assert.True(t, m.Delete("z"))
	assert.False(t, m.Delete("z"))
	assert.Equal(t, []interface{}{[]interface{}{"complex"}, "a"}, m.Keys())
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("z", 1)
	m.Set("a", []interface{}{true, nil})
	m.Set(3, orderedmap.NewMapWithItems([]orderedmap.MapItem{{Key: "y", Value: "x"}}))

	bs, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[true,null],"3":{"y":"x"}}`, string(bs))
}

func TestFromJSONKeepsOrder(t *testing.T) {
	val, err := orderedmap.FromJSON([]byte(`{"z": 1, "a": {"y": [1.5, "s", null, false]}}`))
	require.NoError(t, err)

	m := val.(*orderedmap.Map)
	assert.Equal(t, []interface{}{"z", "a"}, m.Keys())

	z, _ := m.Get("z")
	assert.Equal(t, int64(1), z)

	a, _ := m.Get("a")
	y, _ := a.(*orderedmap.Map).Get("y")
	assert.Equal(t, []interface{}{1.5, "s", nil, false}, y)
}

func TestFromJSONRejectsTrailingValues(t *testing.T) {
	_, err := orderedmap.FromJSON([]byte(`{} []`))
	require.Error(t, err)
}
