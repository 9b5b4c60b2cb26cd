// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"carvel.dev/yamlcodec/pkg/cmd/ui"
	"carvel.dev/yamlcodec/pkg/parser"
	"carvel.dev/yamlcodec/pkg/version"
	"github.com/spf13/cobra"
)

type VersionOptions struct{}

func NewVersionOptions() *VersionOptions {
	return &VersionOptions{}
}

func NewVersionCmd(o *VersionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.RunWithUI(ui.NewTTY(false)) },
	}
	return cmd
}

func (o *VersionOptions) RunWithUI(ui ui.UI) error {
	ui.Printf("yamlcodec version %s (YAML %s)\n", version.Version, parser.SupportedVersion)
	return nil
}
