// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"carvel.dev/yamlcodec/pkg/version"
	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"
)

func NewDefaultYamlcodecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "yamlcodec",
		Version: version.Version,
		Short:   "yamlcodec formats, converts and inspects YAML 1.1 documents",
	}

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	// Disable docs header
	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewVersionCmd(NewVersionOptions()))
	cmd.AddCommand(NewFmtCmd(NewFmtOptions()))
	cmd.AddCommand(NewConvertCmd(NewConvertOptions()))
	cmd.AddCommand(NewDetectIndentCmd(NewDetectIndentOptions()))
	cmd.AddCommand(NewEventsCmd(NewEventsOptions()))

	// Reconfigure Commands
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.DisallowExtraArgs, cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}
