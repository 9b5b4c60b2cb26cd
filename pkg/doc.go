// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package pkg is the collection of packages that make up the implementation of
yamlcodec, a YAML 1.1 serializer and deserializer.

The codebase is organized into layers. Each package depends on the others
only to the degree required.

In the inventory, below, individual packages are named alongside their coupling
with the other packages in the codebase.

	(# of dependents) => <package name> => (# of dependencies)

# Entry Point

yamlcodec is built into a command-line tool:

	./cmd/yamlcodec

# Commands

The CLI formats YAML, converts between YAML, JSON and TOML, detects the
indentation width of a file and dumps parser events.

	(1) => pkg/cmd => (9)
	(1) => pkg/cmd/ui => (0)
	(1) => pkg/config => (3)
	(1) => pkg/files => (0)

# Codec

The public entry points: Serialize, Deserialize, streaming Encoder and
Decoder, and indentation detection.

	(1) => pkg/yamlcodec => (6)
	(1) => pkg/serde => (6)
	(1) => pkg/yamlfmt => (2)

# YAML Structures

Text is turned into tokens, tokens into events, events into a node graph.
Events are written back out as text by the emitter.

	(4) => pkg/yamlmeta => (7)
	(4) => pkg/emitter => (4)
	(5) => pkg/parser => (3)
	(3) => pkg/scanner => (2)
	(2) => pkg/resolve => (0)

# Utilities

	(7) => pkg/filepos => (0)
	(7) => pkg/yamlerr => (1)
	(3) => pkg/orderedmap => (0)
	(1) => pkg/spell => (0)
	(1) => pkg/version => (0)

# Dependencies

Each package's dependencies on other packages within this module are as follows
(if a package is not listed, it has no dependencies on other packages within
this module):

	pkg/cmd:
	- pkg/cmd/ui
	- pkg/config
	- pkg/files
	- pkg/orderedmap
	- pkg/parser
	- pkg/version
	- pkg/yamlcodec
	- pkg/yamlfmt
	- pkg/yamlmeta
	pkg/config:
	- pkg/emitter
	- pkg/filepos
	- pkg/yamlerr
	pkg/yamlcodec:
	- pkg/emitter
	- pkg/filepos
	- pkg/parser
	- pkg/serde
	- pkg/yamlerr
	- pkg/yamlmeta
	pkg/serde:
	- pkg/filepos
	- pkg/orderedmap
	- pkg/parser
	- pkg/spell
	- pkg/yamlerr
	- pkg/yamlmeta
	pkg/yamlfmt:
	- pkg/emitter
	- pkg/yamlmeta
	pkg/yamlmeta:
	- pkg/emitter
	- pkg/filepos
	- pkg/orderedmap
	- pkg/parser
	- pkg/resolve
	- pkg/scanner
	- pkg/yamlerr
	pkg/emitter:
	- pkg/filepos
	- pkg/parser
	- pkg/scanner
	- pkg/yamlerr
	pkg/parser:
	- pkg/resolve
	- pkg/scanner
	- pkg/yamlerr
	pkg/scanner:
	- pkg/filepos
	- pkg/yamlerr
	pkg/yamlerr:
	- pkg/filepos
*/
package pkg
