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

package date

import (
	"time"
)

// Format the current time with the given layout and return whether or not it
// matches the provided format.
func Match(layout, format string) bool {
	return MatchTime(layout, format, time.Now())
}

// Format the given time with layout and return whether or not it matches the
// provided format.
func MatchTime(layout, format string, t time.Time) bool {
	result := t.Format(layout)
	return result == format
}

// StartOfYear returns midnight January 1st of the given year.
func StartOfYear(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfYear returns the last instant of December 31st of the given year.
func EndOfYear(year int) time.Time {
	return time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
}
