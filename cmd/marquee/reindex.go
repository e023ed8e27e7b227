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
	"github.com/defsub/marquee/catalog"
	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "rebuild the movie search index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reindex()
	},
}

func reindex() error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}
	c := catalog.NewCatalog(cfg)
	err = c.Open()
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Reindex()
}

func init() {
	reindexCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file")
	rootCmd.AddCommand(reindexCmd)
}
