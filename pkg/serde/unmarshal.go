// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package serde

import (
	"encoding"
	"fmt"
	"math"
	"reflect"

	"carvel.dev/yamlcodec/pkg/orderedmap"
	"carvel.dev/yamlcodec/pkg/spell"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
)

var (
	orderedMapType = reflect.TypeOf(orderedmap.Map{})
	taggedType     = reflect.TypeOf(Tagged{})
)

// Unmarshal decodes node into out, which must be a non-nil pointer.
//
// Untyped values (interface{}) decode as nil, bool, int, uint64, float64,
// string, []interface{}, *orderedmap.Map or Tagged (for custom tags).
func Unmarshal(node *yamlmeta.Node, out interface{}, opts DecodeOpts) error {
	return NewDeserializer(node, opts).Decode(out)
}

// Decode decodes the node into out, which must be a non-nil pointer.
func (d *Deserializer) Decode(out interface{}) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return yamlerr.New(yamlerr.Custom, d.Position(), "cannot decode into non-pointer %T", out)
	}
	return decodeValue(d, rv.Elem())
}

func decodeValue(d *Deserializer, rv reflect.Value) error {
	if rv.Kind() != reflect.Pointer && rv.CanAddr() && rv.Addr().CanInterface() {
		switch typedPtr := rv.Addr().Interface().(type) {
		case Deserializable:
			return d.wrap(typedPtr.DeserializeYAML(d))
		case VariantUnmarshaler:
			return d.Deserialize(&variantTarget{target: typedPtr})
		case encoding.TextUnmarshaler:
			return d.Deserialize(&textTarget{d: d, target: typedPtr})
		}
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if d.node.Kind == yamlmeta.NullKind && len(d.Tag()) == 0 {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeValue(d, rv.Elem())

	case reflect.Interface:
		if rv.NumMethod() > 0 {
			return d.wrap(Customf("cannot decode into non-empty interface %s", rv.Type()))
		}
		val, err := decodeAny(d)
		if err != nil {
			return err
		}
		if val == nil {
			rv.Set(reflect.Zero(rv.Type()))
		} else {
			rv.Set(reflect.ValueOf(val))
		}
		return nil
	}

	switch rv.Type() {
	case orderedMapType:
		val, err := decodeAny(d)
		if err != nil {
			return err
		}
		switch typedVal := val.(type) {
		case *orderedmap.Map:
			rv.Set(reflect.ValueOf(typedVal).Elem())
			return nil
		case nil:
			rv.Set(reflect.ValueOf(orderedmap.NewMap()).Elem())
			return nil
		default:
			return d.wrap(InvalidType(d.node.Kind.String(), "a mapping"))
		}

	case taggedType:
		val, err := decodeAny(d)
		if err != nil {
			return err
		}
		tagged, ok := val.(Tagged)
		if !ok {
			tagged = Tagged{Value: val}
		}
		rv.Set(reflect.ValueOf(tagged))
		return nil
	}

	return d.Deserialize(&valueTarget{rv: rv})
}

func decodeAny(d *Deserializer) (interface{}, error) {
	v := &anyTarget{}
	err := d.Deserialize(v)
	return v.result, err
}

type anyTarget struct {
	result interface{}
}

var _ TaggedVisitor = &anyTarget{}

func (v *anyTarget) VisitNull() error           { v.result = nil; return nil }
func (v *anyTarget) VisitBool(val bool) error   { v.result = val; return nil }
func (v *anyTarget) VisitUint(val uint64) error { v.result = val; return nil }
func (v *anyTarget) VisitFloat(val float64) error {
	v.result = val
	return nil
}
func (v *anyTarget) VisitString(val string) error { v.result = val; return nil }

func (v *anyTarget) VisitInt(val int64) error {
	if int64(int(val)) == val {
		v.result = int(val)
	} else {
		v.result = val
	}
	return nil
}

func (v *anyTarget) VisitSequence(seq SequenceAccess) error {
	result := make([]interface{}, 0, seq.Len())
	for {
		var item interface{}
		more, err := seq.NextElementWith(func(d *Deserializer) (err error) {
			item, err = decodeAny(d)
			return err
		})
		if err != nil {
			return err
		}
		if !more {
			break
		}
		result = append(result, item)
	}
	v.result = result
	return nil
}

func (v *anyTarget) VisitMapping(m MappingAccess) error {
	result := orderedmap.NewMap()
	for {
		var key, val interface{}
		more, err := m.NextKeyWith(func(d *Deserializer) (err error) {
			key, err = decodeAny(d)
			return err
		})
		if err != nil {
			return err
		}
		if !more {
			break
		}
		err = m.NextValueWith(func(d *Deserializer) (err error) {
			val, err = decodeAny(d)
			return err
		})
		if err != nil {
			return err
		}
		result.Set(key, val)
	}
	v.result = result
	return nil
}

func (v *anyTarget) VisitTagged(tag string, content *Deserializer) error {
	val, err := decodeAny(content)
	if err != nil {
		return err
	}
	v.result = Tagged{Tag: tag, Value: val}
	return nil
}

type variantTarget struct {
	NoopVisitor
	target VariantUnmarshaler
}

var _ EnumVisitor = &variantTarget{}

func (v *variantTarget) Variants() map[string]VariantShape { return v.target.Variants() }

func (v *variantTarget) VisitVariant(access VariantAccess) error {
	return v.target.UnmarshalVariant(access)
}

type textTarget struct {
	d      *Deserializer
	target encoding.TextUnmarshaler
}

func (v *textTarget) VisitNull() error             { return nil }
func (v *textTarget) VisitBool(bool) error         { return v.fromNodeText() }
func (v *textTarget) VisitInt(int64) error         { return v.fromNodeText() }
func (v *textTarget) VisitUint(uint64) error       { return v.fromNodeText() }
func (v *textTarget) VisitFloat(float64) error     { return v.fromNodeText() }
func (v *textTarget) VisitString(val string) error { return v.target.UnmarshalText([]byte(val)) }

func (v *textTarget) VisitSequence(SequenceAccess) error {
	return InvalidType("sequence", fmt.Sprintf("a scalar for %T", v.target))
}

func (v *textTarget) VisitMapping(MappingAccess) error {
	return InvalidType("mapping", fmt.Sprintf("a scalar for %T", v.target))
}

func (v *textTarget) fromNodeText() error {
	return v.target.UnmarshalText([]byte(v.d.Node().Text()))
}

// valueTarget decodes into concrete Go kinds.
type valueTarget struct {
	rv reflect.Value
}

var _ Visitor = &valueTarget{}

func (v *valueTarget) invalid(found string) error {
	return InvalidType(found, fmt.Sprintf("a value of type %s", v.rv.Type()))
}

func (v *valueTarget) overflow(val interface{}) error {
	return Customf("invalid value: %v overflows %s", val, v.rv.Type())
}

func (v *valueTarget) VisitNull() error {
	v.rv.Set(reflect.Zero(v.rv.Type()))
	return nil
}

func (v *valueTarget) VisitBool(val bool) error {
	if v.rv.Kind() != reflect.Bool {
		return v.invalid(fmt.Sprintf("boolean `%t`", val))
	}
	v.rv.SetBool(val)
	return nil
}

func (v *valueTarget) VisitInt(val int64) error {
	switch v.rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.rv.OverflowInt(val) {
			return v.overflow(val)
		}
		v.rv.SetInt(val)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if val < 0 || v.rv.OverflowUint(uint64(val)) {
			return v.overflow(val)
		}
		v.rv.SetUint(uint64(val))
	case reflect.Float32, reflect.Float64:
		v.rv.SetFloat(float64(val))
	default:
		return v.invalid(fmt.Sprintf("integer `%d`", val))
	}
	return nil
}

func (v *valueTarget) VisitUint(val uint64) error {
	switch v.rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.rv.OverflowUint(val) {
			return v.overflow(val)
		}
		v.rv.SetUint(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.overflow(val)
	case reflect.Float32, reflect.Float64:
		v.rv.SetFloat(float64(val))
	default:
		return v.invalid(fmt.Sprintf("integer `%d`", val))
	}
	return nil
}

func (v *valueTarget) VisitFloat(val float64) error {
	switch v.rv.Kind() {
	case reflect.Float32, reflect.Float64:
		if !math.IsInf(val, 0) && v.rv.OverflowFloat(val) {
			return v.overflow(val)
		}
		v.rv.SetFloat(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if val != math.Trunc(val) || val < math.MinInt64 || val >= math.MaxInt64 || v.rv.OverflowInt(int64(val)) {
			return v.invalid(fmt.Sprintf("floating point `%v`", val))
		}
		v.rv.SetInt(int64(val))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if val != math.Trunc(val) || val < 0 || val >= math.MaxUint64 || v.rv.OverflowUint(uint64(val)) {
			return v.invalid(fmt.Sprintf("floating point `%v`", val))
		}
		v.rv.SetUint(uint64(val))
	default:
		return v.invalid(fmt.Sprintf("floating point `%v`", val))
	}
	return nil
}

func (v *valueTarget) VisitString(val string) error {
	if v.rv.Kind() != reflect.String {
		return v.invalid(fmt.Sprintf("string %q", val))
	}
	v.rv.SetString(val)
	return nil
}

func (v *valueTarget) VisitSequence(seq SequenceAccess) error {
	switch v.rv.Kind() {
	case reflect.Slice:
		elemType := v.rv.Type().Elem()
		result := reflect.MakeSlice(v.rv.Type(), 0, seq.Len())
		for {
			elem := reflect.New(elemType).Elem()
			more, err := seq.NextElementWith(func(d *Deserializer) error { return decodeValue(d, elem) })
			if err != nil {
				return err
			}
			if !more {
				break
			}
			result = reflect.Append(result, elem)
		}
		v.rv.Set(result)
		return nil

	case reflect.Array:
		if seq.Len() != v.rv.Len() {
			return Customf("invalid length %d, expected an array of length %d", seq.Len(), v.rv.Len())
		}
		for i := 0; ; i++ {
			more, err := seq.NextElementWith(func(d *Deserializer) error { return decodeValue(d, v.rv.Index(i)) })
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}

	default:
		return v.invalid("sequence")
	}
}

func (v *valueTarget) VisitMapping(m MappingAccess) error {
	switch v.rv.Kind() {
	case reflect.Map:
		return v.visitMap(m)
	case reflect.Struct:
		return v.visitStruct(m)
	default:
		return v.invalid("mapping")
	}
}

func (v *valueTarget) visitMap(m MappingAccess) error {
	mapType := v.rv.Type()
	if v.rv.IsNil() {
		v.rv.Set(reflect.MakeMapWithSize(mapType, m.Len()))
	}

	for {
		key := reflect.New(mapType.Key()).Elem()
		more, err := m.NextKeyWith(func(d *Deserializer) error {
			err := decodeValue(d, key)
			if err != nil {
				return err
			}
			if !key.Comparable() {
				return Customf("invalid map key: %s cannot be used as a key of %s", d.Node().Kind, mapType)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		val := reflect.New(mapType.Elem()).Elem()
		err = m.NextValueWith(func(d *Deserializer) error { return decodeValue(d, val) })
		if err != nil {
			return err
		}
		v.rv.SetMapIndex(key, val)
	}
}

func (v *valueTarget) visitStruct(m MappingAccess) error {
	sinfo, err := getStructInfo(v.rv.Type())
	if err != nil {
		return Customf("%s", err)
	}

	var inlineMap reflect.Value
	if sinfo.InlineMap >= 0 {
		inlineMap = v.rv.Field(sinfo.InlineMap)
		if inlineMap.IsNil() {
			inlineMap.Set(reflect.MakeMap(inlineMap.Type()))
		}
	}

	for {
		var name string
		var info fieldInfo
		var found bool

		more, err := m.NextKeyWith(func(d *Deserializer) error {
			err := d.Deserialize(&fieldNameTarget{out: &name, NoopVisitor: NoopVisitor{Expecting: "a field name"}})
			if err != nil {
				return err
			}
			info, found = sinfo.FieldsMap[name]
			if !found && !inlineMap.IsValid() && d.Options().KnownFields {
				return unknownFieldError(name, v.rv.Type(), sinfo)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		switch {
		case found:
			err = m.NextValueWith(func(d *Deserializer) error {
				return decodeValue(d, fieldByIndex(v.rv, info.index()))
			})
		case inlineMap.IsValid():
			val := reflect.New(inlineMap.Type().Elem()).Elem()
			err = m.NextValueWith(func(d *Deserializer) error { return decodeValue(d, val) })
			if err == nil {
				inlineMap.SetMapIndex(reflect.ValueOf(name).Convert(inlineMap.Type().Key()), val)
			}
		default:
			err = m.NextValueWith(func(*Deserializer) error { return nil })
		}
		if err != nil {
			return err
		}
	}
}

type fieldNameTarget struct {
	NoopVisitor
	out *string
}

func (v *fieldNameTarget) VisitString(val string) error {
	*v.out = val
	return nil
}

func unknownFieldError(name string, typ reflect.Type, sinfo *structInfo) error {
	var keys []string
	for _, field := range sinfo.FieldsList {
		keys = append(keys, field.Key)
	}
	if suggestion := spell.Nearest(name, keys); len(suggestion) > 0 {
		return Customf("unknown field '%s' in %s (did you mean '%s'?)", name, typ, suggestion)
	}
	return Customf("unknown field '%s' in %s", name, typ)
}
