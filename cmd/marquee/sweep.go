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
	"time"

	"github.com/defsub/marquee/catalog"
	"github.com/defsub/marquee/reminder"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "dispatch due reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sweep()
	},
}

// sweep runs one reminder sweep with mail delivery only. Dashboard
// reminders need the server's websocket hub and are skipped here.
func sweep() error {
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

	d := reminder.NewDispatcher(cfg)
	err = d.Open()
	if err != nil {
		return err
	}
	defer d.Close()

	d.SetNotifier(reminder.NotifyEmail, reminder.NewMailer(&cfg.Mail, movieTitles{c}))

	swept := d.Sweep(time.Now())
	fmt.Printf("swept %d reminders\n", swept)
	return nil
}

type movieTitles struct {
	catalog *catalog.Catalog
}

func (t movieTitles) MovieTitle(id uint) string {
	m, err := t.catalog.Movie(id)
	if err != nil {
		return ""
	}
	return m.Title
}

func init() {
	sweepCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file")
	rootCmd.AddCommand(sweepCmd)
}
