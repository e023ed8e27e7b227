// Copyright (C) 2023 The Marquee Authors.
//
// This file is part of Marquee.
//
// Marquee is free software: you can redistribute it and/or modify it under the
// terms of the GNU Affero General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.
//
// Marquee is distributed in the hope that it will be useful, but WITHOUT ANY
// WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License for
// more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with Marquee.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"

	"github.com/defsub/marquee/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Marquee is a movie catalog service",
	Long:  `https://defsub.github.io/`,
}

var configFile string
var configPath string
var configName string

func getConfig() (*config.Config, error) {
	if configPath == "" {
		configPath = os.Getenv("MARQUEE_HOME")
	}
	if configName == "" {
		configName = os.Getenv("MARQUEE_CONFIG")
	}
	if configFile != "" {
		config.SetConfigFile(configFile)
	} else {
		if configPath == "" {
			configPath = "."
		}
		if configName == "" {
			configName = "marquee"
		}
		config.AddConfigPath(configPath)
		config.SetConfigName(configName)
	}
	return config.GetConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
