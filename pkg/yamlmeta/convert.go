// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"fmt"
	"time"

	"carvel.dev/yamlcodec/pkg/orderedmap"
)

// NewNodeFromGo converts plain Go data (as produced by JSON and TOML
// decoders) into a node graph. Go maps are converted with sorted keys.
func NewNodeFromGo(val interface{}) (*Node, error) {
	switch typedVal := val.(type) {
	case nil:
		return NewNull(), nil
	case *Node:
		return typedVal, nil
	case bool:
		return NewBool(typedVal), nil
	case int:
		return NewInt(int64(typedVal)), nil
	case int64:
		return NewInt(typedVal), nil
	case int32:
		return NewInt(int64(typedVal)), nil
	case uint64:
		return NewUint(typedVal), nil
	case float64:
		return NewFloat(typedVal), nil
	case float32:
		return NewFloat(float64(typedVal)), nil
	case string:
		return NewString(typedVal), nil
	case time.Time:
		return NewString(typedVal.Format(time.RFC3339Nano)), nil

	case []interface{}:
		result := NewSequence()
		for _, item := range typedVal {
			node, err := NewNodeFromGo(item)
			if err != nil {
				return nil, err
			}
			result.Items = append(result.Items, node)
		}
		return result, nil

	case []map[string]interface{}, map[string]interface{}, map[interface{}]interface{}:
		return NewNodeFromGo(orderedmap.Conversion{Object: typedVal}.FromUnorderedMaps())

	case *orderedmap.Map:
		result := NewMapping()
		err := typedVal.IterateErr(func(k, v interface{}) error {
			key, err := NewNodeFromGo(k)
			if err != nil {
				return err
			}
			node, err := NewNodeFromGo(v)
			if err != nil {
				return err
			}
			result.Pairs = append(result.Pairs, NewPair(key, node))
			return nil
		})
		if err != nil {
			return nil, err
		}
		return result, nil

	default:
		return nil, fmt.Errorf("Unsupported value of type %T", val)
	}
}

// AsGo returns plain Go data for n: scalar values, []interface{} and
// *orderedmap.Map. Tags are not represented. Shared nodes are converted
// once per reference.
func (n *Node) AsGo() interface{} {
	switch n.Kind {
	case SequenceKind:
		result := make([]interface{}, 0, len(n.Items))
		for _, item := range n.Items {
			result = append(result, item.AsGo())
		}
		return result

	case MappingKind:
		result := orderedmap.NewMap()
		for _, pair := range n.Pairs {
			result.Set(pair.Key.AsGo(), pair.Value.AsGo())
		}
		return result

	default:
		return n.Value
	}
}
