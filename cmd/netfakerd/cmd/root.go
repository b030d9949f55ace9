// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd wires netfakerd's cobra command tree, grounded on
// gnmidiff/cmd/root.go's --config_file/viper plumbing.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd builds the netfakerd command tree: serve, reload, version.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "netfakerd",
		Short: "netfakerd simulates NETCONF/SNMP/SSH/TELNET/HTTP network devices",
	}

	cfgFile := root.PersistentFlags().String("config_file", "", "Path to a netfakerd config file (yaml).")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config file: %w", err)
			}
		}
		viper.SetEnvPrefix("netfakerd")
		viper.AutomaticEnv()
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("binding flags: %w", err)
		}
		return nil
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newReloadCmd())
	root.AddCommand(newVersionCmd())
	return root
}
