// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package orderedmap provides a map implementation where the order of keys is
maintained (unlike the native Go map).

Untyped decoding produces *Map for YAML mappings so that re-encoding a
document keeps its keys where they were.
*/
package orderedmap
