// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"carvel.dev/yamlcodec/pkg/cmd/ui"
	"carvel.dev/yamlcodec/pkg/files"
	"carvel.dev/yamlcodec/pkg/yamlcodec"
	"github.com/spf13/cobra"
)

type DetectIndentOptions struct {
	File  string
	Debug bool
}

func NewDetectIndentOptions() *DetectIndentOptions {
	return &DetectIndentOptions{}
}

func NewDetectIndentCmd(o *DetectIndentOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect-indent",
		Short: "Print the indentation width used by a YAML file",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.File, "file", "f", "", "File (ie local path, HTTP URL, -)")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	return cmd
}

func (o *DetectIndentOptions) Run() error {
	if len(o.File) == 0 {
		return fmt.Errorf("Expected --file to be specified")
	}
	filesToProcess, err := files.NewSortedFilesFromPaths([]string{o.File})
	if err != nil {
		return err
	}
	for _, file := range filesToProcess {
		err = o.RunWithFile(file, ui.NewTTY(o.Debug))
		if err != nil {
			return err
		}
	}
	return nil
}

// RunWithFile prints the detected width, or "none" for documents without
// indented lines.
func (o *DetectIndentOptions) RunWithFile(file *files.File, ui ui.UI) error {
	data, err := file.Bytes()
	if err != nil {
		return err
	}

	width, ok, err := yamlcodec.DetectIndentation(string(data))
	if err != nil {
		return fmt.Errorf("Detecting indentation of %s: %w", file.Description(), err)
	}
	if !ok {
		ui.Printf("none\n")
		return nil
	}
	ui.Printf("%d\n", width)
	return nil
}
