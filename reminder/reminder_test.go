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
	"errors"
	"testing"
	"time"

	"github.com/defsub/marquee/config"
)

type testNotifier struct {
	notified []Reminder
	err      error
}

func (n *testNotifier) Notify(r Reminder) error {
	n.notified = append(n.notified, r)
	return n.err
}

func makeDispatcher(t *testing.T) *Dispatcher {
	cfg, err := config.TestConfig(t.TempDir())
	if err != nil {
		t.Fatalf("TestConfig %s", err)
	}
	d := NewDispatcher(cfg)
	err = d.Open()
	if err != nil {
		t.Fatalf("Open %s", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestAdd(t *testing.T) {
	d := makeDispatcher(t)

	when := time.Now().Add(24 * time.Hour)
	if _, err := d.Add("ricky@marquee.dev", 1, when, NotifyEmail); err != nil {
		t.Errorf("Add %s", err)
	}
	if _, err := d.Add("ricky@marquee.dev", 2, when, "pigeon"); err != ErrInvalidNotifyType {
		t.Errorf("expected invalid type, got %v", err)
	}

	reminders := d.Reminders("ricky@marquee.dev")
	if len(reminders) != 1 {
		t.Errorf("got %d reminders", len(reminders))
	}
}

func TestDue(t *testing.T) {
	d := makeDispatcher(t)

	now := time.Now()
	d.Add("ricky@marquee.dev", 1, now.Add(-time.Hour), NotifyEmail)
	d.Add("ricky@marquee.dev", 2, now.Add(time.Hour), NotifyEmail)

	due := d.Due(now)
	if len(due) != 1 || due[0].MovieID != 1 {
		t.Errorf("got %d due", len(due))
	}
}

func TestSweep(t *testing.T) {
	d := makeDispatcher(t)
	n := &testNotifier{}
	d.SetNotifier(NotifyEmail, n)

	now := time.Now()
	d.Add("ricky@marquee.dev", 1, now.Add(-time.Hour), NotifyEmail)
	d.Add("ricky@marquee.dev", 2, now.Add(time.Hour), NotifyEmail)

	swept := d.Sweep(now)
	if swept != 1 {
		t.Errorf("swept %d", swept)
	}
	if len(n.notified) != 1 || n.notified[0].MovieID != 1 {
		t.Errorf("notified %v", n.notified)
	}

	// the due reminder is gone, the future one remains
	reminders := d.Reminders("ricky@marquee.dev")
	if len(reminders) != 1 || reminders[0].MovieID != 2 {
		t.Errorf("got %v", reminders)
	}
}

func TestSweepDeletesOnFailure(t *testing.T) {
	d := makeDispatcher(t)
	n := &testNotifier{err: errors.New("smtp down")}
	d.SetNotifier(NotifyEmail, n)

	d.Add("ricky@marquee.dev", 1, time.Now().Add(-time.Hour), NotifyEmail)

	d.Sweep(time.Now())

	// at-most-once: failed dispatch still deletes
	if reminders := d.Reminders("ricky@marquee.dev"); len(reminders) != 0 {
		t.Errorf("got %v", reminders)
	}
}

func TestSweepNoNotifier(t *testing.T) {
	d := makeDispatcher(t)

	d.Add("ricky@marquee.dev", 1, time.Now().Add(-time.Hour), NotifyDashboard)
	d.Sweep(time.Now())

	if reminders := d.Reminders("ricky@marquee.dev"); len(reminders) != 0 {
		t.Errorf("got %v", reminders)
	}
}

type testTitles map[uint]string

func (t testTitles) MovieTitle(id uint) string {
	return t[id]
}

type testBroadcaster struct {
	sent [][]byte
}

func (b *testBroadcaster) Broadcast(body []byte) {
	b.sent = append(b.sent, body)
}

func TestDashboardNotify(t *testing.T) {
	b := &testBroadcaster{}
	d := NewDashboard(b, testTitles{7: "The Thing"})

	r := Reminder{User: "ricky@marquee.dev", MovieID: 7,
		ReminderDate:     time.Date(2023, time.June, 25, 0, 0, 0, 0, time.UTC),
		NotificationType: NotifyDashboard}
	if err := d.Notify(r); err != nil {
		t.Fatalf("Notify %s", err)
	}
	if len(b.sent) != 1 {
		t.Fatalf("sent %d", len(b.sent))
	}

	var n notice
	if err := json.Unmarshal(b.sent[0], &n); err != nil {
		t.Fatalf("Unmarshal %s", err)
	}
	if n.Type != "reminder" || n.Title != "The Thing" || n.Date != "2023-06-25" {
		t.Errorf("got %+v", n)
	}
	if n.ID == "" {
		t.Error("missing notice id")
	}
}

func TestMailerDisabled(t *testing.T) {
	cfg := &config.MailConfig{Enabled: false, From: "marquee@defsub.com"}
	m := NewMailer(cfg, testTitles{7: "The Thing"})

	r := Reminder{User: "ricky@marquee.dev", MovieID: 7,
		ReminderDate: time.Now(), NotificationType: NotifyEmail}
	// disabled mail logs and succeeds
	if err := m.Notify(r); err != nil {
		t.Errorf("Notify %s", err)
	}
}
