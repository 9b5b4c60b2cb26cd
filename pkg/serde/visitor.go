// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package serde

import (
	"fmt"

	"carvel.dev/yamlcodec/pkg/filepos"
	"carvel.dev/yamlcodec/pkg/yamlerr"
)

// Visitor receives exactly one call per Deserialize, matching the kind of
// the node being decoded.
type Visitor interface {
	VisitNull() error
	VisitBool(val bool) error
	VisitInt(val int64) error
	// VisitUint is only used for integers above math.MaxInt64.
	VisitUint(val uint64) error
	VisitFloat(val float64) error
	VisitString(val string) error
	VisitSequence(seq SequenceAccess) error
	VisitMapping(m MappingAccess) error
}

// TaggedVisitor is implemented by visitors that want to see custom tags
// (eg "!Point") instead of having them ignored.
type TaggedVisitor interface {
	Visitor
	VisitTagged(tag string, content *Deserializer) error
}

// SequenceAccess hands out sequence items in order.
type SequenceAccess interface {
	Len() int
	// NextElement decodes the next item with v. It returns false once
	// all items were consumed.
	NextElement(v Visitor) (bool, error)
	NextElementWith(fn func(*Deserializer) error) (bool, error)
}

// MappingAccess hands out mapping pairs in order. NextKey and NextValue
// must alternate; a value that is not needed may be skipped by calling
// NextValueWith with a function that ignores its argument.
type MappingAccess interface {
	Len() int
	NextKey(v Visitor) (bool, error)
	NextKeyWith(fn func(*Deserializer) error) (bool, error)
	NextValue(v Visitor) error
	NextValueWith(fn func(*Deserializer) error) error
}

type VariantShape int

const (
	UnitVariant VariantShape = iota + 1
	NewtypeVariant
	TupleVariant
	StructVariant
)

func (s VariantShape) String() string {
	switch s {
	case UnitVariant:
		return "unit"
	case NewtypeVariant:
		return "newtype"
	case TupleVariant:
		return "tuple"
	case StructVariant:
		return "struct"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// EnumVisitor is implemented by enum-like targets. The Deserializer then
// picks a variant from the node's tag (or from a bare string naming a unit
// variant) and calls VisitVariant instead of the regular Visit methods.
type EnumVisitor interface {
	Visitor
	Variants() map[string]VariantShape
	VisitVariant(access VariantAccess) error
}

// VariantAccess exposes the selected variant. Exactly one of the content
// methods matching Shape should be called.
type VariantAccess interface {
	Name() string
	Shape() VariantShape
	Position() *filepos.Position

	Unit() error
	Newtype(v Visitor) error
	// Tuple decodes the content sequence with v (VisitSequence).
	Tuple(v Visitor) error
	// Struct decodes the content mapping with v (VisitMapping).
	Struct(v Visitor) error
	// Content returns a Deserializer positioned on the variant content
	// with the variant tag already consumed.
	Content() *Deserializer
}

// Customf builds an error meant to be returned by visitors and host types.
// The Deserializer fills in the position of the node being decoded.
func Customf(format string, args ...interface{}) error {
	return yamlerr.New(yamlerr.Custom, filepos.NewUnknownPosition(), format, args...)
}

// NoopVisitor rejects every kind of node. Embed it to implement only the
// Visit methods a target accepts.
type NoopVisitor struct {
	Expecting string
}

var _ Visitor = NoopVisitor{}

func (v NoopVisitor) VisitNull() error           { return v.invalid("null") }
func (v NoopVisitor) VisitBool(val bool) error   { return v.invalid(fmt.Sprintf("boolean `%t`", val)) }
func (v NoopVisitor) VisitInt(val int64) error   { return v.invalid(fmt.Sprintf("integer `%d`", val)) }
func (v NoopVisitor) VisitUint(val uint64) error { return v.invalid(fmt.Sprintf("integer `%d`", val)) }
func (v NoopVisitor) VisitFloat(val float64) error {
	return v.invalid(fmt.Sprintf("floating point `%v`", val))
}
func (v NoopVisitor) VisitString(val string) error { return v.invalid(fmt.Sprintf("string %q", val)) }
func (v NoopVisitor) VisitSequence(SequenceAccess) error {
	return v.invalid("sequence")
}
func (v NoopVisitor) VisitMapping(MappingAccess) error { return v.invalid("mapping") }

func (v NoopVisitor) invalid(found string) error {
	expecting := v.Expecting
	if len(expecting) == 0 {
		expecting = "a different value"
	}
	return InvalidType(found, expecting)
}

// InvalidType reports a node that does not fit the target.
func InvalidType(found, expecting string) error {
	return Customf("invalid type: %s, expected %s", found, expecting)
}
