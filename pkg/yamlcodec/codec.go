// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlcodec

import (
	"strings"

	"carvel.dev/yamlcodec/pkg/emitter"
	"carvel.dev/yamlcodec/pkg/serde"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
)

// Serialize writes v as a single YAML document indented by two spaces.
func Serialize(v interface{}) (string, error) {
	return SerializeWithIndent(v, emitter.DefaultIndent)
}

// SerializeWithIndent writes v as a single YAML document indented by width
// (2 to 9) spaces per level.
func SerializeWithIndent(v interface{}, width int) (string, error) {
	var sb strings.Builder

	enc, err := NewEncoder(&sb, WithIndent(width))
	if err != nil {
		return "", err
	}
	err = enc.Encode(v)
	if err != nil {
		return "", err
	}
	err = enc.Close()
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Deserialize decodes the single document in text into out, which must be
// a non-nil pointer. Empty text decodes as null.
func Deserialize(text string, out interface{}) error {
	doc, err := yamlmeta.ParseDocument([]byte(text), "")
	if err != nil {
		return err
	}
	return serde.Unmarshal(doc.Root, out, serde.DecodeOpts{})
}

// DeserializeAs decodes the single document in text as a T.
func DeserializeAs[T any](text string) (T, error) {
	var out T
	err := Deserialize(text, &out)
	return out, err
}
