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

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "listen for dashboard notices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listen()
	},
}

var listenURL, listenToken string

// listen connects to the live dashboard endpoint and prints each notice.
func listen() error {
	conn, _, err := websocket.DefaultDialer.Dial(listenURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	err = conn.WriteMessage(websocket.TextMessage,
		[]byte(fmt.Sprintf("/auth %s", listenToken)))
	if err != nil {
		return err
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func init() {
	listenCmd.Flags().StringVarP(&listenURL, "url", "u", "ws://127.0.0.1:3000/live", "server url")
	listenCmd.Flags().StringVarP(&listenToken, "token", "t", "", "user token")
	rootCmd.AddCommand(listenCmd)
}
