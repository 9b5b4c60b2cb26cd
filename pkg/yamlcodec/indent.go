// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlcodec

import (
	"strings"
	"unicode/utf8"

	"carvel.dev/yamlcodec/pkg/filepos"
	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/yamlerr"
)

// DetectIndentation returns the indentation width used by text: the
// greatest common divisor of its leading-space levels and of the steps
// between consecutive levels. Documents without indented lines (eg flat
// or flow-only ones) report false. Text that is not valid YAML, or that
// indents with tabs, is an error.
func DetectIndentation(text string) (int, bool, error) {
	_, err := parser.All([]byte(text))
	if err != nil {
		return 0, false, err
	}
	if !utf8.ValidString(text) {
		return 0, false, yamlerr.New(yamlerr.Scan, filepos.NewUnknownPosition(), "input is not valid UTF-8")
	}

	var levels []int
	offset := 0

	for i, line := range strings.Split(text, "\n") {
		lineOffset := offset
		offset += len(line) + 1

		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "#") {
			continue
		}

		spaces := len(line) - len(strings.TrimLeft(line, " "))
		if spaces < len(line) && line[spaces] == '\t' {
			return 0, false, yamlerr.New(yamlerr.Scan, filepos.NewPositionAt(i+1, spaces+1, lineOffset+spaces),
				"tab characters are not allowed for indentation in YAML")
		}
		levels = append(levels, spaces)
	}

	var steps []int
	seen := map[int]bool{}
	prev := 0

	for _, level := range levels {
		if diff := abs(level - prev); diff > 0 {
			steps = append(steps, diff)
		}
		if level > 0 && !seen[level] {
			seen[level] = true
			steps = append(steps, level)
		}
		prev = level
	}

	if len(seen) == 0 {
		return 0, false, nil
	}

	width := 0
	for _, step := range steps {
		width = gcd(width, step)
	}
	return width, true, nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
