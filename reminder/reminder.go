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

// Package reminder stores release reminders and sweeps the due ones.
// Dispatch is at-most-once: a swept reminder is deleted whether or not its
// notification went out.
package reminder

import (
	"errors"
	"time"

	"github.com/defsub/marquee/config"
	"github.com/defsub/marquee/lib/gorm"
	"github.com/defsub/marquee/lib/log"
	g "gorm.io/gorm"
)

const (
	NotifyEmail     = "email"
	NotifyDashboard = "dashboard"
)

var (
	ErrInvalidNotifyType = errors.New("invalid notification type")
	ErrNoNotifier        = errors.New("no notifier for type")
)

type Reminder struct {
	gorm.Model
	User             string `gorm:"index:idx_reminder_user"`
	MovieID          uint
	ReminderDate     time.Time
	NotificationType string
}

// Notifier delivers one reminder on some channel.
type Notifier interface {
	Notify(r Reminder) error
}

type Dispatcher struct {
	config    *config.Config
	db        *g.DB
	notifiers map[string]Notifier
}

func NewDispatcher(config *config.Config) *Dispatcher {
	return &Dispatcher{
		config:    config,
		notifiers: make(map[string]Notifier),
	}
}

// SetNotifier binds a delivery channel to a notification type.
func (d *Dispatcher) SetNotifier(notificationType string, n Notifier) {
	d.notifiers[notificationType] = n
}

func (d *Dispatcher) Open() (err error) {
	d.db, err = gorm.Open(
		d.config.Reminder.DB.Driver,
		d.config.Reminder.DB.Source,
		d.config.Reminder.DB.LogMode)
	if err != nil {
		return
	}
	err = d.db.AutoMigrate(&Reminder{})
	return
}

func (d *Dispatcher) Close() {
	conn, err := d.db.DB()
	if err != nil {
		return
	}
	conn.Close()
}

// Add creates a reminder for the user.
func (d *Dispatcher) Add(user string, movieID uint, when time.Time, notificationType string) (Reminder, error) {
	if notificationType != NotifyEmail && notificationType != NotifyDashboard {
		return Reminder{}, ErrInvalidNotifyType
	}
	r := Reminder{
		User:             user,
		MovieID:          movieID,
		ReminderDate:     when,
		NotificationType: notificationType,
	}
	err := d.db.Create(&r).Error
	return r, err
}

// Reminders returns the user's pending reminders, soonest first.
func (d *Dispatcher) Reminders(user string) []Reminder {
	var reminders []Reminder
	d.db.Where("user = ?", user).Order("reminder_date").Find(&reminders)
	return reminders
}

// Due returns reminders whose date has passed.
func (d *Dispatcher) Due(now time.Time) []Reminder {
	var reminders []Reminder
	d.db.Where("reminder_date <= ?", now).Order("reminder_date").Find(&reminders)
	return reminders
}

// Sweep dispatches every due reminder and deletes it regardless of the
// dispatch outcome. Returns how many reminders were swept.
func (d *Dispatcher) Sweep(now time.Time) int {
	due := d.Due(now)
	for _, r := range due {
		err := d.dispatch(r)
		if err != nil {
			log.Printf("reminder %d dispatch failed: %s\n", r.ID, err)
		}
		d.db.Unscoped().Delete(&r)
	}
	return len(due)
}

func (d *Dispatcher) dispatch(r Reminder) error {
	n, ok := d.notifiers[r.NotificationType]
	if !ok {
		return ErrNoNotifier
	}
	return n.Notify(r)
}
