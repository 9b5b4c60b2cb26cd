// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"runtime"
	"time"

	"carvel.dev/yamlcodec/pkg/cmd/ui"
	"carvel.dev/yamlcodec/pkg/files"
	"carvel.dev/yamlcodec/pkg/yamlfmt"
	"carvel.dev/yamlcodec/pkg/yamlmeta"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type FmtOptions struct {
	Files    []string
	Settings SettingsFlags
}

func NewFmtOptions() *FmtOptions {
	return &FmtOptions{}
}

func NewFmtCmd(o *FmtOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Format YAML documents",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringArrayVarP(&o.Files, "file", "f", nil, "File (ie local path, HTTP URL, -) (can be specified multiple times)")
	o.Settings.Set(cmd)
	return cmd
}

func (o *FmtOptions) Run() error {
	filesToProcess, err := files.NewSortedFilesFromPaths(o.Files)
	if err != nil {
		return err
	}
	return o.RunWithFiles(filesToProcess, o.Settings.UI())
}

// RunWithFiles prints the documents of all YAML files as one stream.
func (o *FmtOptions) RunWithFiles(filesToProcess []*files.File, ui ui.UI) error {
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Now().Sub(t1))
	}()

	conf, err := o.Settings.Config()
	if err != nil {
		return err
	}

	var yamlFiles []*files.File
	for _, file := range filesToProcess {
		if file.Type() != files.TypeYAML {
			ui.Warnf("Warning: skipping %s (not a YAML file)\n", file.Description())
			continue
		}
		yamlFiles = append(yamlFiles, file)
	}

	docSets, err := o.parseFiles(yamlFiles, ui)
	if err != nil {
		return err
	}

	combined := &yamlmeta.DocumentSet{}

	for i, docSet := range docSets {
		if dropped := yamlfmt.DroppedComments(docSet); dropped > 0 {
			ui.Warnf("Warning: dropping %d comment(s) from %s\n", dropped, yamlFiles[i].Description())
		}
		ui.Debugf("parsed %s: %d document(s)\n", yamlFiles[i].Description(), len(docSet.Items))

		combined.Items = append(combined.Items, docSet.Items...)
	}

	out, err := yamlfmt.NewPrinterWithOpts(nil, yamlfmt.PrinterOpts{Indent: conf.Indent}).PrintStr(combined)
	if err != nil {
		return err
	}
	ui.Printf("%s", out)
	return nil
}

// parseFiles reads and parses files concurrently. Results keep the order of
// files; the first failure is returned.
func (o *FmtOptions) parseFiles(filesToParse []*files.File, ui ui.UI) ([]*yamlmeta.DocumentSet, error) {
	docSets := make([]*yamlmeta.DocumentSet, len(filesToParse))
	sizes := make([]uint64, len(filesToParse))

	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range filesToParse {
		i, file := i, file
		group.Go(func() error {
			data, err := file.Bytes()
			if err != nil {
				return err
			}
			sizes[i] = uint64(len(data))

			docSets[i], err = yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes(data, file.RelativePath())
			return err
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}
	for i, file := range filesToParse {
		ui.Debugf("read %s (%s)\n", file.Description(), humanize.Bytes(sizes[i]))
	}
	return docSets, nil
}
