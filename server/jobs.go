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

package server

import (
	"time"

	"github.com/defsub/marquee/config"
	"github.com/defsub/marquee/lib/log"
	"github.com/defsub/marquee/reminder"
	"github.com/go-co-op/gocron"
)

// schedule runs the daily reminder sweep at the configured time.
func schedule(config *config.Config, dispatcher *reminder.Dispatcher) {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.Every(1).Day().At(config.Reminder.SweepTime).Do(func() {
		swept := dispatcher.Sweep(time.Now())
		if swept > 0 {
			log.Printf("swept %d reminders\n", swept)
		}
	})
	scheduler.StartAsync()
}
