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

import "testing"

func TestSplit(t *testing.T) {
	a := Split("Horror, Comedy ,Drama")
	if len(a) != 3 || a[0] != "Horror" || a[1] != "Comedy" || a[2] != "Drama" {
		t.Errorf("got %v", a)
	}
	if a := Split(""); len(a) != 0 {
		t.Errorf("got %v", a)
	}
}

func TestSortTitle(t *testing.T) {
	if s := SortTitle("The Thing"); s != "Thing, The" {
		t.Errorf("got %s", s)
	}
	if s := SortTitle("An American Werewolf in London"); s != "American Werewolf in London, An" {
		t.Errorf("got %s", s)
	}
	if s := SortTitle("Alien"); s != "Alien" {
		t.Errorf("got %s", s)
	}
}
