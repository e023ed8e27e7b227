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
	"testing"
	"time"
)

func TestMatchTime(t *testing.T) {
	friday13 := time.Date(2021, time.August, 13, 12, 0, 0, 0, time.UTC)
	if !MatchTime("Mon 02", "Fri 13", friday13) {
		t.Error("expected friday the 13th")
	}

	halloween := time.Date(2021, time.October, 15, 0, 0, 0, 0, time.UTC)
	if !MatchTime("Jan", "Oct", halloween) {
		t.Error("expected halloween time")
	}
	if MatchTime("Jan", "Dec", halloween) {
		t.Error("october is not december")
	}

	july4 := time.Date(2022, time.July, 4, 8, 0, 0, 0, time.UTC)
	if !MatchTime("Jan 02", "Jul 04", july4) {
		t.Error("expected july 4th")
	}
}

func TestYearRange(t *testing.T) {
	start := StartOfYear(1994)
	end := EndOfYear(1994)
	if !start.Before(end) {
		t.Error("year start should precede year end")
	}
	if start.Year() != 1994 || end.Year() != 1994 {
		t.Error("wrong year")
	}
	release := time.Date(1994, time.September, 23, 0, 0, 0, 0, time.UTC)
	if release.Before(start) || release.After(end) {
		t.Error("release should fall within the year")
	}
}
