// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlerr_test

import (
	"fmt"
	"testing"

	"carvel.dev/yamlcodec/pkg/filepos"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessageIncludesLineAndColumn(t *testing.T) {
	err := yamlerr.New(yamlerr.Parse, filepos.NewPositionAt(3, 7, 20), "found duplicate key %q", "a")
	assert.Equal(t, `yaml: line 3, column 7: found duplicate key "a"`, err.Error())
	assert.Equal(t, 3, err.Line())
	assert.Equal(t, 7, err.Column())
}

func TestErrorMessageWithoutPosition(t *testing.T) {
	err := yamlerr.New(yamlerr.Configuration, filepos.NewUnknownPosition(), "indent must be between 2 and 9")
	assert.Equal(t, "yaml: indent must be between 2 and 9", err.Error())
	assert.Equal(t, 0, err.Line())
}

func TestErrorMessageWithFile(t *testing.T) {
	pos := filepos.NewPositionAt(1, 2, 1)
	pos.SetFile("config.yml")
	err := yamlerr.New(yamlerr.Scan, pos, "found character that cannot start any token")
	assert.Equal(t, "yaml: config.yml: line 1, column 2: found character that cannot start any token", err.Error())
}

func TestWrapKeepsInnermostError(t *testing.T) {
	inner := yamlerr.New(yamlerr.Resolution, filepos.NewPositionAt(2, 1, 5), "unknown anchor 'a' referenced")
	wrapped := yamlerr.Wrap(yamlerr.Custom, filepos.NewPositionAt(9, 9, 90), fmt.Errorf("decoding: %w", inner))

	assert.True(t, yamlerr.IsKind(wrapped, yamlerr.Resolution))
	assert.Equal(t, yamlerr.Resolution, yamlerr.KindOf(wrapped))
	require.Equal(t, 2, wrapped.(*yamlerr.Error).Line())
}

func TestWrapPlainError(t *testing.T) {
	cause := fmt.Errorf("port must be positive")
	wrapped := yamlerr.Wrap(yamlerr.Custom, filepos.NewPositionAt(4, 3, 30), cause)

	assert.True(t, yamlerr.IsKind(wrapped, yamlerr.Custom))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "yaml: line 4, column 3: port must be positive", wrapped.Error())
	assert.Nil(t, yamlerr.Wrap(yamlerr.Custom, nil, nil))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, yamlerr.Kind(0), yamlerr.KindOf(fmt.Errorf("other")))
	assert.False(t, yamlerr.IsKind(fmt.Errorf("other"), yamlerr.Scan))
	assert.Equal(t, "emit", yamlerr.Emit.String())
}
