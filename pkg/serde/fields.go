// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package serde

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

type structInfo struct {
	FieldsMap  map[string]fieldInfo
	FieldsList []fieldInfo

	// InlineMap is the index of the ",inline" map field, or -1.
	InlineMap int
}

type fieldInfo struct {
	Key       string
	Num       int
	OmitEmpty bool
	Flow      bool

	// Inline is the index path of a field promoted from an inlined struct.
	Inline []int
}

func (f fieldInfo) index() []int {
	if f.Inline != nil {
		return f.Inline
	}
	return []int{f.Num}
}

var (
	structMap      = map[reflect.Type]*structInfo{}
	structMapMutex sync.RWMutex
)

func getStructInfo(st reflect.Type) (*structInfo, error) {
	structMapMutex.RLock()
	sinfo, found := structMap[st]
	structMapMutex.RUnlock()
	if found {
		return sinfo, nil
	}

	n := st.NumField()
	fieldsMap := map[string]fieldInfo{}
	fieldsList := make([]fieldInfo, 0, n)
	inlineMap := -1

	for i := 0; i != n; i++ {
		field := st.Field(i)
		if field.PkgPath != "" && !field.Anonymous {
			continue // private
		}

		info := fieldInfo{Num: i}

		tag := field.Tag.Get("yaml")
		if tag == "-" {
			continue
		}

		inline := false
		fields := strings.Split(tag, ",")
		if len(fields) > 1 {
			for _, flag := range fields[1:] {
				switch flag {
				case "omitempty":
					info.OmitEmpty = true
				case "flow":
					info.Flow = true
				case "inline":
					inline = true
				default:
					return nil, fmt.Errorf("unsupported flag %q in tag %q of type %s", flag, tag, st)
				}
			}
		}
		tag = fields[0]

		if inline {
			switch field.Type.Kind() {
			case reflect.Map:
				if inlineMap >= 0 {
					return nil, fmt.Errorf("multiple ,inline maps in struct %s", st)
				}
				if field.Type.Key().Kind() != reflect.String {
					return nil, fmt.Errorf("option ,inline needs a map with string keys in struct %s", st)
				}
				inlineMap = info.Num

			case reflect.Struct:
				inner, err := getStructInfo(field.Type)
				if err != nil {
					return nil, err
				}
				for _, finfo := range inner.FieldsList {
					if _, found := fieldsMap[finfo.Key]; found {
						return nil, fmt.Errorf("duplicated key '%s' in struct %s", finfo.Key, st)
					}
					finfo.Inline = append([]int{i}, finfo.index()...)
					fieldsMap[finfo.Key] = finfo
					fieldsList = append(fieldsList, finfo)
				}

			default:
				return nil, fmt.Errorf("option ,inline may only be used on a struct or map field")
			}
			continue
		}

		if field.PkgPath != "" {
			continue // embedded private type without ,inline
		}

		if tag != "" {
			info.Key = tag
		} else {
			info.Key = strings.ToLower(field.Name)
		}

		if _, found := fieldsMap[info.Key]; found {
			return nil, fmt.Errorf("duplicated key '%s' in struct %s", info.Key, st)
		}
		fieldsList = append(fieldsList, info)
		fieldsMap[info.Key] = info
	}

	sinfo = &structInfo{
		FieldsMap:  fieldsMap,
		FieldsList: fieldsList,
		InlineMap:  inlineMap,
	}

	structMapMutex.Lock()
	structMap[st] = sinfo
	structMapMutex.Unlock()
	return sinfo, nil
}

// IsZeroer lets types decide whether ",omitempty" drops them.
type IsZeroer interface {
	IsZero() bool
}

func isZero(v reflect.Value) bool {
	kind := v.Kind()
	if z, ok := v.Interface().(IsZeroer); ok {
		if (kind == reflect.Pointer || kind == reflect.Interface) && v.IsNil() {
			return true
		}
		return z.IsZero()
	}
	switch kind {
	case reflect.String:
		return len(v.String()) == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Struct:
		vt := v.Type()
		for i := v.NumField() - 1; i >= 0; i-- {
			if vt.Field(i).PkgPath != "" {
				continue // private
			}
			if !isZero(v.Field(i)) {
				return false
			}
		}
		return true
	}
	return false
}

// fieldByIndex returns the field at index, allocating nil embedded
// pointers on the way.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for _, num := range index {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(num)
	}
	return v
}
