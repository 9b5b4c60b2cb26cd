// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package scanner splits YAML 1.1 text into tokens.

The scanner keeps an indentation stack to turn block structure into
BLOCK-SEQUENCE-START, BLOCK-MAPPING-START and BLOCK-END tokens, and tracks
possible simple keys so that a KEY token can be inserted retroactively once
the ':' indicator is seen. Comments are collected on the side and never
reach the token stream.
*/
package scanner
