// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package serde

import (
	"carvel.dev/yamlcodec/pkg/filepos"
	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
)

// Serializer receives a value one node at a time. Collections are framed
// by Begin/End calls; mapping entries alternate key and value.
type Serializer interface {
	SerializeNull() error
	SerializeBool(val bool) error
	SerializeInt(val int64) error
	SerializeUint(val uint64) error
	SerializeFloat(val float64) error
	SerializeString(val string) error

	// BeginSequence and BeginMapping take the number of entries, or -1
	// when unknown.
	BeginSequence(length int) error
	EndSequence() error
	BeginMapping(length int) error
	EndMapping() error

	// SerializeUnitVariant writes the bare variant name.
	SerializeUnitVariant(name string) error
	// BeginVariant tags the next node with "!name".
	BeginVariant(name string) error
	// BeginTagged tags the next node with tag (full form).
	BeginTagged(tag string) error
}

type serializerFrame struct {
	kind    yamlmeta.Kind
	entries int
}

// EventSerializer records the value as parser events.
type EventSerializer struct {
	events   []parser.Event
	stack    []serializerFrame
	tag      string
	complete bool
	maxDepth int
}

var _ Serializer = &EventSerializer{}

func NewEventSerializer() *EventSerializer {
	return &EventSerializer{maxDepth: DefaultMaxDepth}
}

// Events returns the events of the serialized value. It fails unless
// exactly one complete value was serialized.
func (s *EventSerializer) Events() ([]parser.Event, error) {
	if !s.complete || len(s.stack) > 0 || len(s.tag) > 0 {
		return nil, s.errorf("incomplete value")
	}
	return s.events, nil
}

func (s *EventSerializer) errorf(msg string, args ...interface{}) error {
	return yamlerr.New(yamlerr.Emit, filepos.NewUnknownPosition(), msg, args...)
}

func (s *EventSerializer) beginNode() error {
	if s.complete {
		return s.errorf("expected a single value but found another one")
	}
	return nil
}

func (s *EventSerializer) endNode() {
	if len(s.stack) == 0 {
		s.complete = true
		return
	}
	s.stack[len(s.stack)-1].entries++
}

func (s *EventSerializer) scalar(node *yamlmeta.Node) error {
	if err := s.beginNode(); err != nil {
		return err
	}
	if len(s.tag) > 0 {
		node.Tag = s.tag
		s.tag = ""
	}
	s.events = append(s.events, yamlmeta.ScalarEvent(node))
	s.endNode()
	return nil
}

func (s *EventSerializer) SerializeNull() error           { return s.scalar(yamlmeta.NewNull()) }
func (s *EventSerializer) SerializeBool(val bool) error   { return s.scalar(yamlmeta.NewBool(val)) }
func (s *EventSerializer) SerializeInt(val int64) error   { return s.scalar(yamlmeta.NewInt(val)) }
func (s *EventSerializer) SerializeUint(val uint64) error { return s.scalar(yamlmeta.NewUint(val)) }
func (s *EventSerializer) SerializeFloat(val float64) error {
	return s.scalar(yamlmeta.NewFloat(val))
}
func (s *EventSerializer) SerializeString(val string) error { return s.scalar(yamlmeta.NewString(val)) }

func (s *EventSerializer) begin(kind yamlmeta.Kind) error {
	if err := s.beginNode(); err != nil {
		return err
	}
	if len(s.stack) >= s.maxDepth {
		return s.errorf("exceeded max depth of %d", s.maxDepth)
	}
	ev := parser.Event{Kind: parser.SequenceStartEvent, Tag: s.tag, Implicit: len(s.tag) == 0}
	if kind == yamlmeta.MappingKind {
		ev.Kind = parser.MappingStartEvent
	}
	s.tag = ""
	s.events = append(s.events, ev)
	s.stack = append(s.stack, serializerFrame{kind: kind})
	return nil
}

func (s *EventSerializer) end(kind yamlmeta.Kind) error {
	if len(s.stack) == 0 || s.stack[len(s.stack)-1].kind != kind {
		return s.errorf("unexpected end of %s", kind)
	}
	if len(s.tag) > 0 {
		return s.errorf("tag '%s' is not followed by a value", s.tag)
	}
	top := s.stack[len(s.stack)-1]
	if kind == yamlmeta.MappingKind && top.entries%2 != 0 {
		return s.errorf("mapping key is missing its value")
	}
	s.stack = s.stack[:len(s.stack)-1]

	evKind := parser.SequenceEndEvent
	if kind == yamlmeta.MappingKind {
		evKind = parser.MappingEndEvent
	}
	s.events = append(s.events, parser.Event{Kind: evKind})
	s.endNode()
	return nil
}

func (s *EventSerializer) BeginSequence(int) error { return s.begin(yamlmeta.SequenceKind) }
func (s *EventSerializer) EndSequence() error      { return s.end(yamlmeta.SequenceKind) }
func (s *EventSerializer) BeginMapping(int) error  { return s.begin(yamlmeta.MappingKind) }
func (s *EventSerializer) EndMapping() error       { return s.end(yamlmeta.MappingKind) }

func (s *EventSerializer) SerializeUnitVariant(name string) error {
	return s.SerializeString(name)
}

func (s *EventSerializer) BeginVariant(name string) error {
	return s.BeginTagged("!" + name)
}

func (s *EventSerializer) BeginTagged(tag string) error {
	if len(s.tag) > 0 {
		return s.errorf("tag '%s' is not followed by a value", s.tag)
	}
	if len(tag) == 0 || tag == "!" {
		return s.errorf("expected a non-empty tag")
	}
	s.tag = tag
	return nil
}
