// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlcodec

import (
	"io"

	"carvel.dev/yamlcodec/pkg/emitter"
	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/serde"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
)

type EncoderOpts struct {
	Indent int
}

type EncoderOpt func(*EncoderOpts)

func WithIndent(width int) EncoderOpt {
	return func(opts *EncoderOpts) { opts.Indent = width }
}

// Encoder writes one document per Encode call; documents after the first
// one start with "---".
type Encoder struct {
	emitter *emitter.Emitter
}

func NewEncoder(w io.Writer, opts ...EncoderOpt) (*Encoder, error) {
	encOpts := EncoderOpts{Indent: emitter.DefaultIndent}
	for _, opt := range opts {
		opt(&encOpts)
	}

	e, err := emitter.New(w, emitter.Options{Indent: encOpts.Indent})
	if err != nil {
		return nil, err
	}
	return &Encoder{emitter: e}, nil
}

// Encode writes v as the next document. Value graphs (*yamlmeta.Node,
// *yamlmeta.Document) are written as they are, keeping shared nodes as
// anchors and aliases.
func (e *Encoder) Encode(v interface{}) error {
	events, err := e.events(v)
	if err != nil {
		return err
	}
	return e.emitter.Emit(events)
}

func (e *Encoder) events(v interface{}) ([]parser.Event, error) {
	switch typedVal := v.(type) {
	case *yamlmeta.Node:
		if typedVal != nil {
			return typedVal.Events(), nil
		}
	case *yamlmeta.Document:
		if typedVal != nil {
			return typedVal.Events(), nil
		}
	}

	s := serde.NewEventSerializer()
	err := serde.Marshal(v, s)
	if err != nil {
		return nil, err
	}
	return s.Events()
}

func (e *Encoder) Close() error {
	return e.emitter.Close()
}
