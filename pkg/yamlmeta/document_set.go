// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"bytes"
	"io"
)

// NewDocumentSetFromGo wraps each value in a document of its own.
func NewDocumentSetFromGo(vals ...interface{}) (*DocumentSet, error) {
	docSet := &DocumentSet{}
	for _, val := range vals {
		root, err := NewNodeFromGo(val)
		if err != nil {
			return nil, err
		}
		docSet.Items = append(docSet.Items, &Document{Root: root})
	}
	return docSet, nil
}

func (d *DocumentSet) Print(writer io.Writer) {
	NewPrinter(writer).Print(d)
}

func (d *DocumentSet) AsBytes() ([]byte, error) {
	return d.AsBytesWithPrinter(nil)
}

// AsBytesWithPrinter writes every document with the printer returned by
// printerFunc, which defaults to a YAMLPrinter.
func (d *DocumentSet) AsBytesWithPrinter(printerFunc func(io.Writer) (DocumentPrinter, error)) ([]byte, error) {
	if printerFunc == nil {
		printerFunc = func(w io.Writer) (DocumentPrinter, error) { return NewYAMLPrinter(w, 0) }
	}

	buf := new(bytes.Buffer)
	printer, err := printerFunc(buf)
	if err != nil {
		return nil, err
	}

	for _, item := range d.Items {
		err = printer.Print(item)
		if err != nil {
			return nil, err
		}
	}
	err = printer.Close()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
