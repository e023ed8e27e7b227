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

package str

import (
	"strconv"
	"strings"
)

// Split a comma-separated string into trimmed parts.
func Split(s string) []string {
	if len(s) == 0 {
		return make([]string, 0)
	}
	a := strings.Split(s, ",")
	for i := range a {
		a[i] = strings.Trim(a[i], " ")
	}
	return a
}

func Atoi(a string) int {
	i, err := strconv.Atoi(a)
	if err != nil {
		i = 0
	}
	return i
}

func Itoa(i int) string {
	return strconv.Itoa(i)
}

// SortTitle moves a leading article to the end so titles sort naturally;
// "The Thing" becomes "Thing, The".
func SortTitle(title string) string {
	for _, a := range []string{"A ", "An ", "The "} {
		if strings.HasPrefix(title, a) {
			return strings.TrimPrefix(title, a) + ", " + strings.TrimSpace(a)
		}
	}
	return title
}
