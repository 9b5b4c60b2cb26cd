// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat writes f so that Plain reads it back as the same float:
// shortest representation, always with a '.' or an exponent.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}

	text := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(text, ".e") {
		// 'g' writes 1e+20 and 1e-07; both already read back as floats.
		return text
	}
	return text + ".0"
}
