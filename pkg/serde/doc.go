// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package serde connects value graphs (yamlmeta.Node) with Go values.

Decoding is visitor based: a Deserializer calls exactly one Visit method
per node, and collections hand out their entries through SequenceAccess
and MappingAccess. Targets implementing EnumVisitor get variant dispatch
driven by "!Name" tags. Encoding is the mirror image: values report
themselves to a Serializer, and EventSerializer records parser events for
the emitter.

Marshal and Unmarshal bridge ordinary Go values (structs, maps, slices,
scalars, encoding.Text(Un)Marshaler) onto both contracts.
*/
package serde
