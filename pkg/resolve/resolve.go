// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type Kind int

const (
	Null Kind = iota + 1
	Bool
	Int
	Float
	String
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const (
	yamlTagPrefix = "tag:yaml.org,2002:"

	StrTag   = yamlTagPrefix + "str"
	IntTag   = yamlTagPrefix + "int"
	FloatTag = yamlTagPrefix + "float"
	BoolTag  = yamlTagPrefix + "bool"
	NullTag  = yamlTagPrefix + "null"
	SeqTag   = yamlTagPrefix + "seq"
	MapTag   = yamlTagPrefix + "map"
	MergeTag = yamlTagPrefix + "merge"
)

var (
	floatPattern = regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?$`)

	sexagesimalPattern = regexp.MustCompile(`^[-+]?[0-9][0-9_]*(:[0-5]?[0-9])+(\.[0-9_]*)?$`)
	underscoredPattern = regexp.MustCompile(`^[-+]?(0b[01_]+|0x[0-9a-fA-F_]+|0o?[0-7_]+|[0-9][0-9_]*(\.[0-9_]*)?([eE][-+]?[0-9]+)?|\.[0-9_]+)$`)
)

var nullValues = map[string]bool{"": true, "~": true, "null": true, "Null": true, "NULL": true}

var boolValues = map[string]bool{
	"true": true, "True": true, "TRUE": true,
	"false": false, "False": false, "FALSE": false,
}

// legacyBools are read as booleans by YAML 1.1 processors that implement
// the full 1.1 bool type, so they are always emitted quoted. The single
// letter forms y and n are left plain; they are common keys.
var legacyBools = map[string]bool{
	"yes": true, "Yes": true, "YES": true,
	"no": true, "No": true, "NO": true,
	"on": true, "On": true, "ON": true,
	"off": true, "Off": true, "OFF": true,
}

// Plain resolves the text of an untagged plain scalar. The returned value
// is nil, bool, int64, uint64, float64 or string matching the Kind.
func Plain(text string) (Kind, interface{}) {
	if nullValues[text] {
		return Null, nil
	}
	if b, found := boolValues[text]; found {
		return Bool, b
	}
	if kind, val, ok := resolveInt(text); ok {
		return kind, val
	}
	if f, ok := resolveFloat(text); ok {
		return Float, f
	}
	return String, text
}

func resolveInt(text string) (Kind, interface{}, bool) {
	digits := text
	neg := false
	if len(digits) > 0 && (digits[0] == '-' || digits[0] == '+') {
		neg = digits[0] == '-'
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return 0, nil, false
	}

	base := 10
	switch {
	case strings.HasPrefix(digits, "0x"):
		base, digits = 16, digits[2:]
	case strings.HasPrefix(digits, "0o"):
		base, digits = 8, digits[2:]
	case strings.HasPrefix(digits, "0b"):
		base, digits = 2, digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		// YAML 1.1 octal
		base, digits = 8, digits[1:]
	}
	if len(digits) == 0 || !allDigits(digits, base) {
		return 0, nil, false
	}

	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		if base == 10 {
			// Too large for any integer type; it still reads as a number.
			if f, ok := resolveFloat(text); ok {
				return Float, f, true
			}
		}
		return String, text, true
	}

	switch {
	case !neg && u <= math.MaxInt64:
		return Int, int64(u), true
	case !neg:
		return Int, u, true
	case u <= 1<<63:
		return Int, int64(-u), true
	case base == 10:
		f, _ := resolveFloat(text)
		return Float, f, true
	default:
		return String, text, true
	}
}

func allDigits(s string, base int) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		var ok bool
		switch base {
		case 2:
			ok = c == '0' || c == '1'
		case 8:
			ok = c >= '0' && c <= '7'
		case 10:
			ok = c >= '0' && c <= '9'
		case 16:
			ok = (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		}
		if !ok {
			return false
		}
	}
	return true
}

func resolveFloat(text string) (float64, bool) {
	switch text {
	case ".inf", ".Inf", ".INF", "+.inf", "+.Inf", "+.INF":
		return math.Inf(1), true
	case "-.inf", "-.Inf", "-.INF":
		return math.Inf(-1), true
	case ".nan", ".NaN", ".NAN":
		return math.NaN(), true
	}
	if !floatPattern.MatchString(text) {
		return 0, false
	}
	// Out of range values come back as +-Inf.
	f, _ := strconv.ParseFloat(text, 64)
	return f, true
}

// Tagged converts the text of a scalar carrying one of the core tags
// (!!null, !!bool, !!int, !!float, !!str). Any other tag resolves its
// content implicitly.
func Tagged(tag, text string) (Kind, interface{}, error) {
	switch tag {
	case StrTag:
		return String, text, nil

	case NullTag:
		if nullValues[text] {
			return Null, nil, nil
		}

	case BoolTag:
		if b, found := boolValues[text]; found {
			return Bool, b, nil
		}

	case IntTag:
		if kind, val, ok := resolveInt(text); ok && kind == Int {
			return Int, val, nil
		}

	case FloatTag:
		if _, val, ok := resolveInt(text); ok {
			switch typedVal := val.(type) {
			case int64:
				return Float, float64(typedVal), nil
			case uint64:
				return Float, float64(typedVal), nil
			case float64:
				return Float, typedVal, nil
			}
		}
		if f, ok := resolveFloat(text); ok {
			return Float, f, nil
		}

	case SeqTag, MapTag:
		return 0, nil, fmt.Errorf("cannot use tag '%s' on a scalar", shortTag(tag))

	default:
		kind, val := Plain(text)
		return kind, val, nil
	}

	return 0, nil, fmt.Errorf("cannot resolve '%s' as %s", text, shortTag(tag))
}

// IsCoreTag reports whether tag is one of the yaml.org scalar tags that
// Tagged converts.
func IsCoreTag(tag string) bool {
	switch tag {
	case StrTag, NullTag, BoolTag, IntTag, FloatTag:
		return true
	}
	return false
}

func shortTag(tag string) string {
	if strings.HasPrefix(tag, yamlTagPrefix) {
		return "!!" + tag[len(yamlTagPrefix):]
	}
	return tag
}

// NeedsQuoting reports whether s, written as a plain scalar, would be read
// back as something other than the same string. It covers resolution only;
// syntactic restrictions of plain scalars are the emitter's concern.
func NeedsQuoting(s string) bool {
	if kind, _ := Plain(s); kind != String {
		return true
	}
	if legacyBools[s] || s == "<<" || s == "=" {
		return true
	}
	if sexagesimalPattern.MatchString(s) {
		return true
	}
	if strings.Contains(s, "_") && underscoredPattern.MatchString(s) {
		return true
	}
	return false
}
