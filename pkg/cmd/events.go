// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"carvel.dev/yamlcodec/pkg/cmd/ui"
	"carvel.dev/yamlcodec/pkg/files"
	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
	"github.com/spf13/cobra"
)

type EventsOptions struct {
	File      string
	Positions bool
	Graph     bool
}

func NewEventsOptions() *EventsOptions {
	return &EventsOptions{}
}

func NewEventsCmd(o *EventsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the parser events of a YAML file",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.File, "file", "f", "", "File (ie local path, HTTP URL, -)")
	cmd.Flags().BoolVar(&o.Positions, "positions", false, "Prefix events with their line and column")
	cmd.Flags().BoolVar(&o.Graph, "graph", false, "Print the node graph built from the events instead")
	return cmd
}

func (o *EventsOptions) Run() error {
	if len(o.File) == 0 {
		return fmt.Errorf("Expected --file to be specified")
	}
	filesToProcess, err := files.NewSortedFilesFromPaths([]string{o.File})
	if err != nil {
		return err
	}
	for _, file := range filesToProcess {
		err = o.RunWithFile(file, ui.NewTTY(false))
		if err != nil {
			return err
		}
	}
	return nil
}

// RunWithFile prints events as they are parsed, so events before a syntax
// error are still shown.
func (o *EventsOptions) RunWithFile(file *files.File, ui ui.UI) error {
	data, err := file.Bytes()
	if err != nil {
		return err
	}

	if o.Graph {
		docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes(data, file.RelativePath())
		if err != nil {
			return err
		}
		printer := yamlmeta.NewPrinterWithOpts(nil, yamlmeta.PrinterOpts{ExcludeRefs: true})
		ui.Printf("%s", printer.PrintStr(docSet))
		return nil
	}

	p := parser.New(data)
	for {
		ev, err := p.Next()
		if err != nil {
			return err
		}
		if o.Positions {
			ui.Printf("%d:%d ", ev.Start.Line+1, ev.Start.Column+1)
		}
		ui.Printf("%s\n", ev)
		if ev.Kind == parser.StreamEndEvent {
			return nil
		}
	}
}
