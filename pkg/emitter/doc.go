// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package emitter writes parser events as YAML text.

Collections are written in block style unless an event asks for flow
style; scalars are written plain whenever that reads back as the same
value and quoted (or as literal blocks) otherwise. Nesting is indented by
a configurable width of 2 to 9 columns.
*/
package emitter
