// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"fmt"
	"io"

	"carvel.dev/yamlcodec/pkg/cmd/ui"
	"carvel.dev/yamlcodec/pkg/config"
	"carvel.dev/yamlcodec/pkg/files"
	"carvel.dev/yamlcodec/pkg/orderedmap"
	"carvel.dev/yamlcodec/pkg/yamlcodec"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type ConvertOptions struct {
	File     string
	From     string
	Output   string
	Settings SettingsFlags
}

func NewConvertOptions() *ConvertOptions {
	return &ConvertOptions{}
}

func NewConvertCmd(o *ConvertOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert between YAML, JSON and TOML",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.File, "file", "f", "", "File (ie local path, HTTP URL, -)")
	cmd.Flags().StringVar(&o.From, "from", "", "Input format: yaml, json or toml (defaults to the file extension)")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "Output format: yaml or json (defaults to the config file, then yaml)")
	o.Settings.Set(cmd)
	return cmd
}

func (o *ConvertOptions) Run() error {
	if len(o.File) == 0 {
		return fmt.Errorf("Expected --file to be specified")
	}
	filesToProcess, err := files.NewSortedFilesFromPaths([]string{o.File})
	if err != nil {
		return err
	}
	if len(filesToProcess) != 1 {
		return fmt.Errorf("Expected exactly one file to convert, but found %d", len(filesToProcess))
	}
	return o.RunWithFile(filesToProcess[0], o.Settings.UI())
}

func (o *ConvertOptions) RunWithFile(file *files.File, ui ui.UI) error {
	conf, err := o.Settings.Config()
	if err != nil {
		return err
	}
	if len(o.Output) > 0 {
		conf.Output = o.Output
		err = conf.Validate()
		if err != nil {
			return err
		}
	}

	from := file.Type()
	if len(o.From) > 0 {
		from, err = files.TypeFromName(o.From)
		if err != nil {
			return err
		}
	}
	if from == files.TypeUnknown {
		from = files.TypeYAML
	}
	ui.Debugf("converting %s from %s to %s\n", file.Description(), from, conf.Output)

	data, err := file.Bytes()
	if err != nil {
		return err
	}
	ui.Debugf("read %s\n", humanize.Bytes(uint64(len(data))))

	docSet, err := o.decode(data, from, file.RelativePath(), conf)
	if err != nil {
		return err
	}
	ui.Debugf("decoded %d document(s)\n", len(docSet.Items))

	out, err := o.encode(docSet, conf)
	if err != nil {
		return err
	}
	ui.Printf("%s", out)
	return nil
}

// decode returns the documents of the input; JSON and TOML inputs hold a
// single document.
func (o *ConvertOptions) decode(data []byte, from files.Type, name string, conf config.Config) (*yamlmeta.DocumentSet, error) {
	switch from {
	case files.TypeJSON:
		val, err := orderedmap.FromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("Unmarshaling JSON from %s: %s", name, err)
		}
		return yamlmeta.NewDocumentSetFromGo(val)

	case files.TypeTOML:
		var val map[string]interface{}
		_, err := toml.Decode(string(data), &val)
		if err != nil {
			return nil, fmt.Errorf("Unmarshaling TOML from %s: %s", name, err)
		}
		return yamlmeta.NewDocumentSetFromGo(val)

	default:
		opts := []yamlcodec.DecoderOpt{yamlcodec.WithFileName(name)}
		if conf.KnownFields {
			opts = append(opts, yamlcodec.WithKnownFields())
		}
		dec := yamlcodec.NewDecoder(bytes.NewReader(data), opts...)

		docSet := &yamlmeta.DocumentSet{}
		for {
			doc, err := dec.DecodeDocument()
			if err == io.EOF {
				return docSet, nil
			}
			if err != nil {
				return nil, err
			}
			docSet.Items = append(docSet.Items, doc)
		}
	}
}

func (o *ConvertOptions) encode(docSet *yamlmeta.DocumentSet, conf config.Config) ([]byte, error) {
	return docSet.AsBytesWithPrinter(func(w io.Writer) (yamlmeta.DocumentPrinter, error) {
		if conf.Output == config.OutputJSON {
			return yamlmeta.NewJSONPrinter(w, conf.Indent), nil
		}
		return yamlmeta.NewYAMLPrinter(w, conf.Indent)
	})
}
