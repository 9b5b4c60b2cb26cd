// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package serde_test

import (
	"fmt"
	"strings"
	"testing"

	"carvel.dev/yamlcodec/pkg/serde"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tracer records every visit as a line of text.
type tracer struct {
	lines []string
	depth int
}

var _ serde.TaggedVisitor = &tracer{}

func (v *tracer) add(line string) {
	v.lines = append(v.lines, strings.Repeat("  ", v.depth)+line)
}

func (v *tracer) VisitNull() error             { v.add("null"); return nil }
func (v *tracer) VisitBool(val bool) error     { v.add(fmt.Sprintf("bool %t", val)); return nil }
func (v *tracer) VisitInt(val int64) error     { v.add(fmt.Sprintf("int %d", val)); return nil }
func (v *tracer) VisitUint(val uint64) error   { v.add(fmt.Sprintf("uint %d", val)); return nil }
func (v *tracer) VisitFloat(val float64) error { v.add(fmt.Sprintf("float %v", val)); return nil }
func (v *tracer) VisitString(val string) error { v.add(fmt.Sprintf("string %q", val)); return nil }

func (v *tracer) VisitSequence(seq serde.SequenceAccess) error {
	v.add(fmt.Sprintf("sequence (%d)", seq.Len()))
	v.depth++
	defer func() { v.depth-- }()
	for {
		more, err := seq.NextElement(v)
		if err != nil || !more {
			return err
		}
	}
}

func (v *tracer) VisitMapping(m serde.MappingAccess) error {
	v.add(fmt.Sprintf("mapping (%d)", m.Len()))
	v.depth++
	defer func() { v.depth-- }()
	for {
		more, err := m.NextKey(v)
		if err != nil || !more {
			return err
		}
		err = m.NextValue(v)
		if err != nil {
			return err
		}
	}
}

func (v *tracer) VisitTagged(tag string, content *serde.Deserializer) error {
	v.add("tagged " + tag)
	v.depth++
	defer func() { v.depth-- }()
	return content.Deserialize(v)
}

func TestDeserializerVisitsEveryNode(t *testing.T) {
	data := `
name: !Host example.com
ports: [80, 443]
weight: 0.5
enabled: true
empty:
`
	v := &tracer{}
	require.NoError(t, serde.NewDeserializer(parseNode(t, data), serde.DecodeOpts{}).Deserialize(v))
	assert.Equal(t, strings.Join([]string{
		`mapping (5)`,
		`  string "name"`,
		`  tagged !Host`,
		`    string "example.com"`,
		`  string "ports"`,
		`  sequence (2)`,
		`    int 80`,
		`    int 443`,
		`  string "weight"`,
		`  float 0.5`,
		`  string "enabled"`,
		`  bool true`,
		`  string "empty"`,
		`  null`,
	}, "\n"), strings.Join(v.lines, "\n"))
}

type valueFirst struct {
	serde.NoopVisitor
}

func (valueFirst) VisitMapping(m serde.MappingAccess) error {
	return m.NextValueWith(func(*serde.Deserializer) error { return nil })
}

func TestMappingAccessRequiresKeyFirst(t *testing.T) {
	err := serde.NewDeserializer(parseNode(t, "a: 1"), serde.DecodeOpts{}).Deserialize(valueFirst{})
	require.Error(t, err)
	assert.Equal(t, "yaml: line 1, column 1: mapping value requested before its key", err.Error())
}

func TestNoopVisitorRejects(t *testing.T) {
	v := serde.NoopVisitor{Expecting: "a port number"}
	err := serde.NewDeserializer(parseNode(t, "\n  http"), serde.DecodeOpts{}).Deserialize(v)
	require.Error(t, err)
	assert.Equal(t, `yaml: line 2, column 3: invalid type: string "http", expected a port number`, err.Error())
	assert.Equal(t, yamlerr.Custom, yamlerr.KindOf(err))
}

func TestDeserializerTagIsConsumedByVariant(t *testing.T) {
	var seen string
	var inner string
	target := &enumProbe{onVariant: func(access serde.VariantAccess) error {
		seen = access.Name()
		inner = access.Content().Tag()
		return access.Newtype(&tracer{})
	}}
	require.NoError(t, serde.NewDeserializer(parseNode(t, "!Wrap 1"), serde.DecodeOpts{}).Deserialize(target))
	assert.Equal(t, "Wrap", seen)
	assert.Equal(t, "", inner)
}

type enumProbe struct {
	serde.NoopVisitor
	onVariant func(serde.VariantAccess) error
}

func (*enumProbe) Variants() map[string]serde.VariantShape {
	return map[string]serde.VariantShape{"Wrap": serde.NewtypeVariant}
}

func (p *enumProbe) VisitVariant(access serde.VariantAccess) error { return p.onVariant(access) }
