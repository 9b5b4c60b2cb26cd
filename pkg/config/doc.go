// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package config loads the optional TOML settings file of the yamlcodec
command:

	indent = 4
	known_fields = true
	output = "json"

Command line flags take precedence over file values.
*/
package config
