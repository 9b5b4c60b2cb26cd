// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package serde

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"carvel.dev/yamlcodec/pkg/filepos"
	"carvel.dev/yamlcodec/pkg/orderedmap"
	"carvel.dev/yamlcodec/pkg/yamlerr"
)

// Marshal walks v and reports it to s. Go maps are written with sorted
// keys, structs in field declaration order.
func Marshal(v interface{}, s Serializer) error {
	m := &marshaler{s: s, visiting: map[visitKey]bool{}}
	return m.marshal(reflect.ValueOf(v))
}

type visitKey struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type marshaler struct {
	s        Serializer
	visiting map[visitKey]bool
	depth    int
}

func emitErrorf(msg string, args ...interface{}) error {
	return yamlerr.New(yamlerr.Emit, filepos.NewUnknownPosition(), msg, args...)
}

func (m *marshaler) marshal(rv reflect.Value) error {
	if !rv.IsValid() {
		return m.s.SerializeNull()
	}

	m.depth++
	defer func() { m.depth-- }()
	if m.depth > DefaultMaxDepth {
		return emitErrorf("exceeded max depth of %d", DefaultMaxDepth)
	}

	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return m.s.SerializeNull()
	}

	if rv.CanInterface() {
		if handled, err := m.marshalCustom(rv.Interface()); handled {
			return err
		}
	}
	if rv.Kind() != reflect.Pointer && rv.CanAddr() && rv.Addr().CanInterface() {
		if handled, err := m.marshalCustom(rv.Addr().Interface()); handled {
			return err
		}
	}

	switch rv.Kind() {
	case reflect.Pointer:
		leave, err := m.enter(rv, 0)
		if err != nil {
			return err
		}
		defer leave()
		return m.marshal(rv.Elem())

	case reflect.Interface:
		return m.marshal(rv.Elem())

	case reflect.Bool:
		return m.s.SerializeBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return m.s.SerializeInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return m.s.SerializeUint(rv.Uint())
	case reflect.Float32:
		// shortest text that round trips as float32
		f, _ := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
		return m.s.SerializeFloat(f)
	case reflect.Float64:
		return m.s.SerializeFloat(rv.Float())
	case reflect.String:
		return m.s.SerializeString(rv.String())

	case reflect.Slice:
		leave, err := m.enter(rv, rv.Len())
		if err != nil {
			return err
		}
		defer leave()
		return m.marshalSequence(rv)

	case reflect.Array:
		return m.marshalSequence(rv)

	case reflect.Map:
		leave, err := m.enter(rv, 0)
		if err != nil {
			return err
		}
		defer leave()
		return m.marshalMap(rv)

	case reflect.Struct:
		return m.marshalStruct(rv)

	default:
		return emitErrorf("cannot serialize value of type %s", rv.Type())
	}
}

func (m *marshaler) marshalCustom(val interface{}) (bool, error) {
	switch typedVal := val.(type) {
	case Serializable:
		return true, m.wrap(typedVal.SerializeYAML(m.s))
	case VariantMarshaler:
		return true, m.marshalVariant(typedVal)
	case *orderedmap.Map:
		return true, m.marshalOrderedMap(typedVal)
	case Tagged:
		err := m.s.BeginTagged(typedVal.Tag)
		if err != nil {
			return true, err
		}
		return true, m.marshal(reflect.ValueOf(typedVal.Value))
	case encoding.TextMarshaler:
		text, err := typedVal.MarshalText()
		if err != nil {
			return true, m.wrap(err)
		}
		return true, m.s.SerializeString(string(text))
	}
	return false, nil
}

func (m *marshaler) wrap(err error) error {
	return yamlerr.Wrap(yamlerr.Custom, filepos.NewUnknownPosition(), err)
}

// enter tracks references currently being written so that cycles fail
// instead of recursing forever.
func (m *marshaler) enter(rv reflect.Value, length int) (func(), error) {
	if rv.IsNil() {
		return func() {}, nil
	}
	key := visitKey{ptr: rv.Pointer(), typ: rv.Type(), len: length}
	if m.visiting[key] {
		return nil, emitErrorf("cannot serialize cyclic value of type %s", rv.Type())
	}
	m.visiting[key] = true
	return func() { delete(m.visiting, key) }, nil
}

func (m *marshaler) marshalSequence(rv reflect.Value) error {
	err := m.s.BeginSequence(rv.Len())
	if err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		err = m.marshal(rv.Index(i))
		if err != nil {
			return err
		}
	}
	return m.s.EndSequence()
}

func (m *marshaler) marshalMap(rv reflect.Value) error {
	keys := rv.MapKeys()
	sort.Sort(keyList(keys))

	err := m.s.BeginMapping(len(keys))
	if err != nil {
		return err
	}
	for _, key := range keys {
		err = m.marshal(key)
		if err != nil {
			return err
		}
		err = m.marshal(rv.MapIndex(key))
		if err != nil {
			return err
		}
	}
	return m.s.EndMapping()
}

func (m *marshaler) marshalOrderedMap(om *orderedmap.Map) error {
	err := m.s.BeginMapping(om.Len())
	if err != nil {
		return err
	}
	err = om.IterateErr(func(k, v interface{}) error {
		err := m.marshal(reflect.ValueOf(k))
		if err != nil {
			return err
		}
		return m.marshal(reflect.ValueOf(v))
	})
	if err != nil {
		return err
	}
	return m.s.EndMapping()
}

func (m *marshaler) marshalStruct(rv reflect.Value) error {
	sinfo, err := getStructInfo(rv.Type())
	if err != nil {
		return emitErrorf("%s", err)
	}

	type entry struct {
		key string
		val reflect.Value
	}
	var entries []entry

	for _, info := range sinfo.FieldsList {
		val, ok := fieldForMarshal(rv, info.index())
		if !ok || (info.OmitEmpty && isZero(val)) {
			continue
		}
		entries = append(entries, entry{info.Key, val})
	}

	var inlineKeys []reflect.Value
	var inlineMap reflect.Value
	if sinfo.InlineMap >= 0 {
		inlineMap = rv.Field(sinfo.InlineMap)
		inlineKeys = inlineMap.MapKeys()
		sort.Sort(keyList(inlineKeys))
	}

	err = m.s.BeginMapping(len(entries) + len(inlineKeys))
	if err != nil {
		return err
	}
	for _, e := range entries {
		err = m.s.SerializeString(e.key)
		if err != nil {
			return err
		}
		err = m.marshal(e.val)
		if err != nil {
			return err
		}
	}
	for _, key := range inlineKeys {
		if _, found := sinfo.FieldsMap[key.String()]; found {
			return emitErrorf("cannot have key '%s' in inlined map: conflicts with struct field", key.String())
		}
		err = m.marshal(key)
		if err != nil {
			return err
		}
		err = m.marshal(inlineMap.MapIndex(key))
		if err != nil {
			return err
		}
	}
	return m.s.EndMapping()
}

// fieldForMarshal follows index; fields behind nil embedded pointers are
// absent.
func fieldForMarshal(v reflect.Value, index []int) (reflect.Value, bool) {
	for _, num := range index {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(num)
	}
	return v, true
}

func (m *marshaler) marshalVariant(vm VariantMarshaler) error {
	variant, err := vm.MarshalVariant()
	if err != nil {
		return m.wrap(err)
	}
	if len(variant.Name) == 0 {
		return emitErrorf("variant of %T has no name", vm)
	}

	if variant.Shape == UnitVariant {
		return m.s.SerializeUnitVariant(variant.Name)
	}

	val := reflect.ValueOf(variant.Value)
	for val.IsValid() && (val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface) && !val.IsNil() {
		if _, ok := val.Interface().(VariantMarshaler); ok {
			break
		}
		val = val.Elem()
	}

	switch variant.Shape {
	case NewtypeVariant:
	case TupleVariant:
		if !val.IsValid() || (val.Kind() != reflect.Slice && val.Kind() != reflect.Array) {
			return emitErrorf("tuple variant '%s' of %T needs a slice or array value", variant.Name, vm)
		}
	case StructVariant:
		if !val.IsValid() || (val.Kind() != reflect.Struct && val.Kind() != reflect.Map) {
			return emitErrorf("struct variant '%s' of %T needs a struct or map value", variant.Name, vm)
		}
	default:
		return emitErrorf("variant '%s' of %T has unknown shape %s", variant.Name, vm, variant.Shape)
	}

	err = m.s.BeginVariant(variant.Name)
	if err != nil {
		return err
	}
	return m.marshal(reflect.ValueOf(variant.Value))
}

// keyList orders map keys: numbers by value, then everything else by
// kind and textual form.
type keyList []reflect.Value

func (l keyList) Len() int      { return len(l) }
func (l keyList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

func (l keyList) Less(i, j int) bool {
	a, b := l[i], l[j]
	for (a.Kind() == reflect.Interface || a.Kind() == reflect.Pointer) && !a.IsNil() {
		a = a.Elem()
	}
	for (b.Kind() == reflect.Interface || b.Kind() == reflect.Pointer) && !b.IsNil() {
		b = b.Elem()
	}

	af, aNum := keyNumber(a)
	bf, bNum := keyNumber(b)
	switch {
	case aNum && bNum:
		if af != bf {
			return af < bf
		}
	case aNum != bNum:
		return aNum
	}

	if a.Kind() != b.Kind() {
		return a.Kind() < b.Kind()
	}
	switch a.Kind() {
	case reflect.String:
		return a.String() < b.String()
	case reflect.Bool:
		return !a.Bool() && b.Bool()
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func keyNumber(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}
