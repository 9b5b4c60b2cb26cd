// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package ui provides a thin abstraction over the output of yamlcodec commands
(typically, a tty device): results on stdout, warnings and debug output on
stderr.
*/
package ui
