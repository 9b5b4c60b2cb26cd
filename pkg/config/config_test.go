// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"carvel.dev/yamlcodec/pkg/config"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	conf, err := config.Parse([]byte("indent = 4\nknown_fields = true\noutput = \"json\"\n"), "test.toml")
	require.NoError(t, err)
	assert.Equal(t, config.Config{Indent: 4, KnownFields: true, Output: config.OutputJSON}, conf)

	conf, err = config.Parse([]byte("known_fields = true\n"), "test.toml")
	require.NoError(t, err)
	assert.Equal(t, config.Config{Indent: 2, KnownFields: true, Output: config.OutputYAML}, conf)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		data string
		err  string
	}{
		{"indent = 1\n", "yaml: indentation width must be between 2 and 9, got 1"},
		{"indent = 10\n", "yaml: indentation width must be between 2 and 9, got 10"},
		{"output = \"xml\"\n", "yaml: output must be 'yaml' or 'json', got 'xml'"},
		{"width = 2\nalign = true\n", "yaml: test.toml: unknown settings: align, width"},
	}
	for _, tc := range cases {
		_, err := config.Parse([]byte(tc.data), "test.toml")
		require.Error(t, err, "data %q", tc.data)
		assert.Equal(t, tc.err, err.Error())
		assert.True(t, yamlerr.IsKind(err, yamlerr.Configuration))
	}

	_, err := config.Parse([]byte("indent = \n"), "test.toml")
	require.Error(t, err)
	assert.True(t, yamlerr.IsKind(err, yamlerr.Configuration))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("indent = 3\n"), 0600))

	conf, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, conf.Indent)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Reading config file")
}

func TestLoadWithoutDefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	conf, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), conf)
}
