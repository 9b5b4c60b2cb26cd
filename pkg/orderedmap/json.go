// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// FromJSON decodes a single JSON value keeping object keys in document
// order. Objects become *Map, arrays []interface{}, integral numbers
// int64 and other numbers float64.
func FromJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	val, err := jsonValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("Expected a single JSON value")
	}
	return val, nil
}

func jsonValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch typedTok := tok.(type) {
	case json.Delim:
		switch typedTok {
		case '{':
			result := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("Expected object key to be a string, but was %T", keyTok)
				}
				val, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				result.Set(key, val)
			}
			_, err := dec.Token()
			return result, err

		case '[':
			result := []interface{}{}
			for dec.More() {
				val, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				result = append(result, val)
			}
			_, err := dec.Token()
			return result, err

		default:
			return nil, fmt.Errorf("Unexpected delimiter '%c'", rune(typedTok))
		}

	case json.Number:
		if i, err := typedTok.Int64(); err == nil {
			return i, nil
		}
		return typedTok.Float64()

	default:
		// string, bool, nil
		return typedTok, nil
	}
}
