// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"bytes"
	"fmt"
	"io"

	"carvel.dev/yamlcodec/pkg/filepos"
)

// Printer dumps node graphs with positions, for debugging.
type Printer struct {
	writer io.Writer
	opts   PrinterOpts
}

type PrinterOpts struct {
	ExcludeRefs bool
}

func NewPrinter(writer io.Writer) Printer {
	return Printer{writer, PrinterOpts{}}
}

func NewPrinterWithOpts(writer io.Writer, opts PrinterOpts) Printer {
	return Printer{writer, opts}
}

func (p Printer) Print(val interface{}) {
	fmt.Fprintf(p.writer, "%s", p.PrintStr(val))
}

func (p Printer) PrintStr(val interface{}) string {
	buf := new(bytes.Buffer)
	p.print(val, "", buf, map[*Node]bool{})
	return buf.String()
}

func (p Printer) print(val interface{}, indent string, writer io.Writer, seen map[*Node]bool) {
	const indentLvl = "    "

	switch typedVal := val.(type) {
	case *DocumentSet:
		fmt.Fprintf(writer, "%s%s: docset%s\n", indent, p.lineStr(typedVal.Position), p.ptrStr(typedVal))
		for _, comment := range typedVal.AllComments {
			fmt.Fprintf(writer, "%scomment: %s: '%s'\n", indent, p.lineStr(comment.Position), comment.Data)
		}
		for _, item := range typedVal.Items {
			p.print(item, indent+indentLvl, writer, seen)
		}

	case *Document:
		fmt.Fprintf(writer, "%s%s: doc%s\n", indent, p.lineStr(typedVal.Position), p.ptrStr(typedVal))
		p.print(typedVal.Root, indent+indentLvl, writer, seen)

	case *Node:
		if seen[typedVal] {
			fmt.Fprintf(writer, "%s%s: alias *%s%s\n", indent, p.lineStr(typedVal.Position), typedVal.Anchor, p.ptrStr(typedVal))
			return
		}
		seen[typedVal] = true

		switch typedVal.Kind {
		case MappingKind:
			fmt.Fprintf(writer, "%s%s: map%s%s\n", indent, p.lineStr(typedVal.Position), p.propsStr(typedVal), p.ptrStr(typedVal))
			for _, pair := range typedVal.Pairs {
				fmt.Fprintf(writer, "%s%s: key=%s\n", indent, p.lineStr(pair.Position), pair.Key)
				p.print(pair.Value, indent+indentLvl, writer, seen)
			}

		case SequenceKind:
			fmt.Fprintf(writer, "%s%s: array%s%s\n", indent, p.lineStr(typedVal.Position), p.propsStr(typedVal), p.ptrStr(typedVal))
			for i, item := range typedVal.Items {
				fmt.Fprintf(writer, "%s%s: idx=%d\n", indent, p.lineStr(item.Position), i)
				p.print(item, indent+indentLvl, writer, seen)
			}

		default:
			fmt.Fprintf(writer, "%s%s: %s %s%s%s\n", indent, p.lineStr(typedVal.Position),
				typedVal.Kind, typedVal, p.propsStr(typedVal), p.ptrStr(typedVal))
		}

	default:
		fmt.Fprintf(writer, "%s: %v\n", indent, typedVal)
	}
}

func (p Printer) lineStr(pos *filepos.Position) string {
	if pos == nil {
		return filepos.NewUnknownPosition().As4DigitString()
	}
	return pos.As4DigitString()
}

func (p Printer) propsStr(node *Node) string {
	if len(node.Anchor) > 0 {
		return " &" + node.Anchor
	}
	return ""
}

func (p Printer) ptrStr(val interface{}) string {
	if !p.opts.ExcludeRefs {
		return fmt.Sprintf(" (obj=%p)", val)
	}
	return ""
}
