// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package serde_test

import (
	"testing"

	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/serde"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializerCollections(t *testing.T) {
	s := serde.NewEventSerializer()
	require.NoError(t, s.BeginMapping(1))
	require.NoError(t, s.SerializeString("items"))
	require.NoError(t, s.BeginVariant("List"))
	require.NoError(t, s.BeginSequence(-1))
	require.NoError(t, s.SerializeString("true"))
	require.NoError(t, s.EndSequence())
	require.NoError(t, s.EndMapping())

	events, err := s.Events()
	require.NoError(t, err)
	require.Len(t, events, 6)

	assert.Equal(t, parser.MappingStartEvent, events[0].Kind)
	assert.True(t, events[0].Implicit)
	assert.Equal(t, "!List", events[2].Tag)
	assert.False(t, events[2].Implicit)

	// a string that reads back as a bool must not be written plain
	assert.Equal(t, "true", events[3].Value)
	assert.False(t, events[3].PlainImplicit)
	assert.True(t, events[3].QuotedImplicit)
}

func TestEventSerializerErrors(t *testing.T) {
	cases := []struct {
		desc     string
		steps    func(s *serde.EventSerializer) error
		expected string
	}{
		{
			desc:     "end without begin",
			steps:    func(s *serde.EventSerializer) error { return s.EndSequence() },
			expected: "yaml: unexpected end of sequence",
		},
		{
			desc: "mismatched end",
			steps: func(s *serde.EventSerializer) error {
				_ = s.BeginSequence(0)
				return s.EndMapping()
			},
			expected: "yaml: unexpected end of mapping",
		},
		{
			desc: "key without value",
			steps: func(s *serde.EventSerializer) error {
				_ = s.BeginMapping(1)
				_ = s.SerializeString("a")
				return s.EndMapping()
			},
			expected: "yaml: mapping key is missing its value",
		},
		{
			desc: "second root",
			steps: func(s *serde.EventSerializer) error {
				_ = s.SerializeInt(1)
				return s.SerializeInt(2)
			},
			expected: "yaml: expected a single value but found another one",
		},
		{
			desc: "tag without value",
			steps: func(s *serde.EventSerializer) error {
				_ = s.BeginSequence(1)
				_ = s.BeginTagged("!T")
				return s.EndSequence()
			},
			expected: "yaml: tag '!T' is not followed by a value",
		},
		{
			desc:     "empty tag",
			steps:    func(s *serde.EventSerializer) error { return s.BeginTagged("!") },
			expected: "yaml: expected a non-empty tag",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.steps(serde.NewEventSerializer())
			require.Error(t, err)
			assert.Equal(t, tc.expected, err.Error())
			assert.Equal(t, yamlerr.Emit, yamlerr.KindOf(err))
		})
	}
}

func TestEventSerializerIncompleteValue(t *testing.T) {
	s := serde.NewEventSerializer()
	_, err := s.Events()
	require.Error(t, err)
	assert.Equal(t, "yaml: incomplete value", err.Error())

	require.NoError(t, s.BeginSequence(1))
	_, err = s.Events()
	require.Error(t, err)
}
