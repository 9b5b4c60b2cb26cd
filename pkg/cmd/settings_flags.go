// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"carvel.dev/yamlcodec/pkg/cmd/ui"
	"carvel.dev/yamlcodec/pkg/config"
	"github.com/spf13/cobra"
)

// SettingsFlags combine the config file with flags that override it.
type SettingsFlags struct {
	ConfigPath string
	Indent     int
	Debug      bool
	Quiet      bool
}

func (s *SettingsFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.ConfigPath, "config", "", "Settings file (defaults to "+config.DefaultPath+" when present)")
	cmd.Flags().IntVar(&s.Indent, "indent", 0, "Indentation width (2 to 9)")
	cmd.Flags().BoolVar(&s.Debug, "debug", false, "Enable debug output")
	cmd.Flags().BoolVar(&s.Quiet, "quiet", false, "Suppress warnings")
}

func (s *SettingsFlags) Config() (config.Config, error) {
	conf, err := config.Load(s.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if s.Indent != 0 {
		conf.Indent = s.Indent
	}
	return conf, conf.Validate()
}

func (s *SettingsFlags) UI() ui.TTY {
	return ui.NewTTYWithOpts(ui.TTYOpts{Debug: s.Debug, Quiet: s.Quiet})
}
