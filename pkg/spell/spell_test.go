// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package spell_test

import (
	"testing"

	"carvel.dev/yamlcodec/pkg/spell"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, spell.Distance("name", "name"))
	assert.Equal(t, 1, spell.Distance("nme", "name"))
	assert.Equal(t, 3, spell.Distance("kitten", "sitting"))
	assert.Equal(t, 4, spell.Distance("", "port"))
	assert.Equal(t, 1, spell.Distance("héllo", "hello"))
	assert.Equal(t, 1, spell.Distance("prot", "port"))
	assert.Equal(t, 1, spell.Distance("nmae", "name"))
	assert.Equal(t, 2, spell.Distance("ab", "bac"))
}

func TestNearest(t *testing.T) {
	candidates := []string{"name", "port", "tags"}

	assert.Equal(t, "name", spell.Nearest("nme", candidates))
	assert.Equal(t, "port", spell.Nearest("prot", candidates))
	assert.Equal(t, "tags", spell.Nearest("tgas", candidates))
	assert.Equal(t, "", spell.Nearest("z", candidates))
	assert.Equal(t, "", spell.Nearest("completely", candidates))
}
