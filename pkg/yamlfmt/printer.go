// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlfmt

import (
	"io"
	"strings"

	"carvel.dev/yamlcodec/pkg/emitter"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
)

type Printer struct {
	writer io.Writer
	opts   PrinterOpts
}

type PrinterOpts struct {
	// Indent defaults to emitter.DefaultIndent.
	Indent int
}

func NewPrinter(writer io.Writer) *Printer {
	return &Printer{writer, PrinterOpts{}}
}

func NewPrinterWithOpts(writer io.Writer, opts PrinterOpts) *Printer {
	return &Printer{writer, opts}
}

// Print writes every document of docSet; documents after the first one
// start with "---".
func (p *Printer) Print(docSet *yamlmeta.DocumentSet) error {
	return p.print(docSet, p.writer)
}

func (p *Printer) PrintStr(docSet *yamlmeta.DocumentSet) (string, error) {
	var sb strings.Builder
	err := p.print(docSet, &sb)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (p *Printer) print(docSet *yamlmeta.DocumentSet, writer io.Writer) error {
	indent := p.opts.Indent
	if indent == 0 {
		indent = emitter.DefaultIndent
	}

	e, err := emitter.New(writer, emitter.Options{Indent: indent})
	if err != nil {
		return err
	}

	for _, doc := range docSet.Items {
		err = e.Emit(doc.Events())
		if err != nil {
			return err
		}
	}
	return e.Close()
}

// DroppedComments returns the number of comments Print leaves out.
func DroppedComments(docSet *yamlmeta.DocumentSet) int {
	return len(docSet.AllComments)
}
