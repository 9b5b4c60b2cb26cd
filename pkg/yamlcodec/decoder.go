// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlcodec

import (
	"io"

	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/serde"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
)

type DecoderOpts struct {
	// KnownFields rejects mapping keys without a matching struct field.
	KnownFields bool
	// FileName is included in error positions.
	FileName string
}

type DecoderOpt func(*DecoderOpts)

func WithKnownFields() DecoderOpt {
	return func(opts *DecoderOpts) { opts.KnownFields = true }
}

func WithFileName(name string) DecoderOpt {
	return func(opts *DecoderOpts) { opts.FileName = name }
}

// Decoder reads the documents of a stream one at a time.
type Decoder struct {
	r       io.Reader
	opts    DecoderOpts
	builder *yamlmeta.Builder
}

func NewDecoder(r io.Reader, opts ...DecoderOpt) *Decoder {
	d := &Decoder{r: r}
	for _, opt := range opts {
		opt(&d.opts)
	}
	return d
}

// Decode decodes the next document into out. It returns io.EOF once all
// documents were decoded.
func (d *Decoder) Decode(out interface{}) error {
	doc, err := d.DecodeDocument()
	if err != nil {
		return err
	}
	return serde.Unmarshal(doc.Root, out, serde.DecodeOpts{KnownFields: d.opts.KnownFields})
}

// DecodeDocument returns the value graph of the next document.
func (d *Decoder) DecodeDocument() (*yamlmeta.Document, error) {
	if d.builder == nil {
		data, err := io.ReadAll(d.r)
		if err != nil {
			return nil, err
		}
		d.builder = yamlmeta.NewBuilder(parser.New(data)).WithFile(d.opts.FileName)
	}
	return d.builder.Next()
}
