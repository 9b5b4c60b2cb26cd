// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package yamlcodec converts between YAML 1.1 text and Go values.

	text, err := yamlcodec.Serialize(map[string]float64{"x": 1, "y": 2})
	// x: 1.0
	// y: 2.0

	var p struct{ X, Y float64 }
	err = yamlcodec.Deserialize(text, &p)

Enum-like Go types take part through serde.VariantMarshaler and
serde.VariantUnmarshaler and are written with "!Name" tags. Every error is a
*yamlerr.Error carrying its Kind and, when known, the line and column.
*/
package yamlcodec
