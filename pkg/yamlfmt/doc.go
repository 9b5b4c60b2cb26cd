// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package yamlfmt implements the "fmt" command: re-emitting parsed YAML
streams in canonical block style with a chosen indentation width. Anchors
and aliases are kept; comments are dropped.
*/
package yamlfmt
