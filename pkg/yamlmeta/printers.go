// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"fmt"
	"io"
	"strings"

	"carvel.dev/yamlcodec/pkg/emitter"
	"github.com/goccy/go-json"
)

type DocumentPrinter interface {
	Print(*Document) error
	Close() error
}

// YAMLPrinter writes documents as one YAML stream, keeping tags, anchors
// and aliases.
type YAMLPrinter struct {
	emitter *emitter.Emitter
}

var _ DocumentPrinter = &YAMLPrinter{}

// NewYAMLPrinter uses emitter.DefaultIndent when indent is 0.
func NewYAMLPrinter(writer io.Writer, indent int) (*YAMLPrinter, error) {
	if indent == 0 {
		indent = emitter.DefaultIndent
	}
	e, err := emitter.New(writer, emitter.Options{Indent: indent})
	if err != nil {
		return nil, err
	}
	return &YAMLPrinter{e}, nil
}

func (p *YAMLPrinter) Print(item *Document) error {
	return p.emitter.Emit(item.Events())
}

func (p *YAMLPrinter) Close() error { return p.emitter.Close() }

// JSONPrinter writes each document as a JSON value followed by a newline.
// Tags are dropped; aliased nodes are repeated.
type JSONPrinter struct {
	buf    io.Writer
	indent string
}

var _ DocumentPrinter = JSONPrinter{}

// NewJSONPrinter writes compact JSON when indent is 0.
func NewJSONPrinter(writer io.Writer, indent int) JSONPrinter {
	return JSONPrinter{writer, strings.Repeat(" ", indent)}
}

func (p JSONPrinter) Print(item *Document) error {
	var bs []byte
	var err error

	if len(p.indent) > 0 {
		bs, err = json.MarshalIndent(item.AsInterface(), "", p.indent)
	} else {
		bs, err = json.Marshal(item.AsInterface())
	}
	if err != nil {
		return fmt.Errorf("marshaling doc: %s", err)
	}

	_, err = p.buf.Write(append(bs, '\n'))
	return err
}

func (p JSONPrinter) Close() error { return nil }
