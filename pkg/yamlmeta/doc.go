// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package yamlmeta parses YAML streams into a data structure (tree of
yamlmeta.Node's) on which comments and metadata can be attached.
*/
package yamlmeta
