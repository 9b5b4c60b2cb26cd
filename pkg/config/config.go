// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"carvel.dev/yamlcodec/pkg/emitter"
	"carvel.dev/yamlcodec/pkg/filepos"
	"carvel.dev/yamlcodec/pkg/yamlerr"
	"github.com/BurntSushi/toml"
)

const DefaultPath = ".yamlcodec.toml"

const (
	OutputYAML = "yaml"
	OutputJSON = "json"
)

type Config struct {
	Indent      int    `toml:"indent"`
	KnownFields bool   `toml:"known_fields"`
	Output      string `toml:"output"`
}

func Default() Config {
	return Config{Indent: emitter.DefaultIndent, Output: OutputYAML}
}

// Load reads path on top of the defaults. A missing file at DefaultPath
// is not an error; a missing file named explicitly is.
func Load(path string) (Config, error) {
	explicit := len(path) > 0
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("Reading config file '%s': %s", path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML settings on top of the defaults and validates them.
func Parse(data []byte, name string) (Config, error) {
	conf := Default()

	meta, err := toml.Decode(string(data), &conf)
	if err != nil {
		return Config{}, configErrorf(name, "%s", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var keys []string
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Config{}, configErrorf(name, "unknown settings: %s", strings.Join(keys, ", "))
	}

	err = conf.Validate()
	if err != nil {
		return Config{}, err
	}
	return conf, nil
}

func (c Config) Validate() error {
	err := emitter.CheckIndent(c.Indent)
	if err != nil {
		return err
	}
	switch c.Output {
	case OutputYAML, OutputJSON:
		return nil
	default:
		return configErrorf("", "output must be '%s' or '%s', got '%s'", OutputYAML, OutputJSON, c.Output)
	}
}

func configErrorf(name, msg string, args ...interface{}) error {
	if len(name) > 0 {
		msg = name + ": " + msg
	}
	return yamlerr.New(yamlerr.Configuration, filepos.NewUnknownPosition(), msg, args...)
}
