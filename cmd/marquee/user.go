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
	"github.com/defsub/marquee/auth"
	"github.com/defsub/marquee/lib/str"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "user admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		return doit()
	},
}

var user, pass, name, genres string
var add, change, admin, del bool

func doit() error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}
	a := auth.NewAuth(cfg)
	err = a.Open()
	if err != nil {
		return err
	}
	defer a.Close()

	if user == "" {
		return nil
	}

	switch {
	case add && admin:
		err = a.AddAdmin(user, pass)
	case add:
		err = a.AddUser(user, pass, name)
	case change && admin:
		err = a.ChangeAdminPass(user, pass)
	case change:
		err = a.ChangePass(user, pass)
	case del && admin:
		err = a.DeleteAdmin(user)
	case del:
		err = a.DeleteUser(user)
	}
	if err != nil {
		return err
	}

	if genres != "" && !admin {
		err = a.SetFavoriteGenres(user, str.Split(genres))
	}
	return err
}

func init() {
	userCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file")
	userCmd.Flags().StringVarP(&user, "user", "u", "", "user email")
	userCmd.Flags().StringVarP(&pass, "pass", "p", "", "pass")
	userCmd.Flags().StringVarP(&name, "name", "m", "", "display name")
	userCmd.Flags().StringVarP(&genres, "genres", "g", "", "favorite genres, comma-separated")
	userCmd.Flags().BoolVarP(&add, "add", "a", false, "add")
	userCmd.Flags().BoolVarP(&change, "change", "n", false, "change pass")
	userCmd.Flags().BoolVarP(&del, "delete", "d", false, "delete")
	userCmd.Flags().BoolVarP(&admin, "admin", "A", false, "apply to admins")
	rootCmd.AddCommand(userCmd)
}
