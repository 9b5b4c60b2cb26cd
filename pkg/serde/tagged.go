// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package serde

// Tagged is how untyped decoding represents a node with a custom tag,
// eg "!Point {x: 1}" becomes Tagged{Tag: "!Point", Value: <mapping>}.
// Marshaling a Tagged writes the tag back.
type Tagged struct {
	Tag   string
	Value interface{}
}

// Variant is returned by VariantMarshaler. Value holds the content of
// newtype, tuple (slice or array) and struct (struct or map) variants.
type Variant struct {
	Name  string
	Shape VariantShape
	Value interface{}
}

// Serializable types write themselves.
type Serializable interface {
	SerializeYAML(s Serializer) error
}

// Deserializable types read themselves. d is positioned on the node that
// belongs to the value.
type Deserializable interface {
	DeserializeYAML(d *Deserializer) error
}

// VariantMarshaler is implemented by enum-like types.
type VariantMarshaler interface {
	MarshalVariant() (Variant, error)
}

// VariantUnmarshaler is implemented (on the pointer) by enum-like types.
type VariantUnmarshaler interface {
	Variants() map[string]VariantShape
	UnmarshalVariant(access VariantAccess) error
}
