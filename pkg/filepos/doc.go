// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filepos provides the concept of Position: a source name (usually a file),
a line and column within that source, and the byte offset of that character.

File positions are crucial when reporting errors to the user: every token,
event and node produced while reading YAML carries the Position it came from
so that a failure at any later stage can still point at the offending text.

Not all Positions point within a file (e.g. values built in memory before
being encoded). The zero-value of Position (can be created using
NewUnknownPosition()) represents this case.
*/
package filepos
