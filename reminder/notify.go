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

package reminder

import (
	"encoding/json"
	"fmt"
	"net/smtp"

	"github.com/defsub/marquee/config"
	"github.com/defsub/marquee/lib/log"
	"github.com/google/uuid"
)

// Titles resolves movie ids to titles for notification text. The catalog's
// Movie lookup backs this in the server.
type Titles interface {
	MovieTitle(id uint) string
}

// Mailer sends reminder email with net/smtp. When mail is disabled in config
// the message is logged instead of sent.
type Mailer struct {
	config *config.MailConfig
	titles Titles
}

func NewMailer(config *config.MailConfig, titles Titles) *Mailer {
	return &Mailer{config: config, titles: titles}
}

func (m *Mailer) Notify(r Reminder) error {
	subject := fmt.Sprintf("Reminder: %s", m.titles.MovieTitle(r.MovieID))
	body := fmt.Sprintf("%s releases on %s.",
		m.titles.MovieTitle(r.MovieID),
		r.ReminderDate.Format("Jan 2, 2006"))

	if !m.config.Enabled {
		log.Printf("mail disabled, reminder for %s: %s\n", r.User, subject)
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.config.From, r.User, subject, body))
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}
	return smtp.SendMail(addr, auth, m.config.From, []string{r.User}, msg)
}

// Broadcaster pushes a payload to connected dashboard clients. The websocket
// hub backs this in the server.
type Broadcaster interface {
	Broadcast(body []byte)
}

// Dashboard delivers reminders as JSON notices on the websocket hub.
type Dashboard struct {
	broadcaster Broadcaster
	titles      Titles
}

func NewDashboard(broadcaster Broadcaster, titles Titles) *Dashboard {
	return &Dashboard{broadcaster: broadcaster, titles: titles}
}

type notice struct {
	ID      string
	Type    string
	User    string
	MovieID uint
	Title   string
	Date    string
}

func (d *Dashboard) Notify(r Reminder) error {
	body, err := json.Marshal(notice{
		ID:      uuid.New().String(),
		Type:    "reminder",
		User:    r.User,
		MovieID: r.MovieID,
		Title:   d.titles.MovieTitle(r.MovieID),
		Date:    r.ReminderDate.Format("2006-01-02"),
	})
	if err != nil {
		return err
	}
	d.broadcaster.Broadcast(body)
	return nil
}
