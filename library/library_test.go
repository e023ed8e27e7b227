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

package library

import (
	"testing"

	"github.com/defsub/marquee/config"
)

// checker that knows movies 1..5
type testChecker struct{}

func (testChecker) MissingMovies(ids []uint) []uint {
	var missing []uint
	for _, id := range ids {
		if id < 1 || id > 5 {
			missing = append(missing, id)
		}
	}
	return missing
}

func makeLibrary(t *testing.T) *Library {
	cfg, err := config.TestConfig(t.TempDir())
	if err != nil {
		t.Fatalf("TestConfig %s", err)
	}
	l := NewLibrary(cfg, testChecker{})
	err = l.Open()
	if err != nil {
		t.Fatalf("Open %s", err)
	}
	t.Cleanup(l.Close)
	return l
}

func TestCreateList(t *testing.T) {
	l := makeLibrary(t)

	list, err := l.CreateList("ricky@marquee.dev", "Favorites", "the good ones", []uint{1, 2})
	if err != nil {
		t.Fatalf("CreateList %s", err)
	}

	got, err := l.List(list.ID)
	if err != nil {
		t.Fatalf("List %s", err)
	}
	if got.Name != "Favorites" || len(got.MovieIDs) != 2 {
		t.Errorf("got %v", got)
	}
}

func TestCreateListMissingMovies(t *testing.T) {
	l := makeLibrary(t)

	_, err := l.CreateList("ricky@marquee.dev", "Broken", "", []uint{1, 42, 99})
	missing, ok := err.(MissingMoviesError)
	if !ok {
		t.Fatalf("expected missing movies error, got %v", err)
	}
	if len(missing.IDs) != 2 || missing.IDs[0] != 42 || missing.IDs[1] != 99 {
		t.Errorf("got %v", missing.IDs)
	}
}

func TestShareList(t *testing.T) {
	l := makeLibrary(t)

	list, _ := l.CreateList("ricky@marquee.dev", "Favorites", "", []uint{1})

	err := l.ShareList(list.ID, "julian@marquee.dev", "bubbles@marquee.dev")
	if err != ErrNotListOwner {
		t.Errorf("expected not owner, got %v", err)
	}

	// idempotent
	if err := l.ShareList(list.ID, "ricky@marquee.dev", "bubbles@marquee.dev"); err != nil {
		t.Errorf("ShareList %s", err)
	}
	if err := l.ShareList(list.ID, "ricky@marquee.dev", "bubbles@marquee.dev"); err != nil {
		t.Errorf("ShareList again %s", err)
	}

	lists := l.UserLists("bubbles@marquee.dev")
	if len(lists) != 1 {
		t.Errorf("got %d shared lists", len(lists))
	}
}

func TestFollowList(t *testing.T) {
	l := makeLibrary(t)

	list, _ := l.CreateList("ricky@marquee.dev", "Favorites", "", []uint{1})

	if err := l.FollowList(list.ID, "julian@marquee.dev"); err != nil {
		t.Errorf("FollowList %s", err)
	}
	if err := l.FollowList(list.ID, "julian@marquee.dev"); err != nil {
		t.Errorf("FollowList again %s", err)
	}

	followed := l.FollowedLists("julian@marquee.dev")
	if len(followed) != 1 {
		t.Errorf("got %d followed", len(followed))
	}

	if err := l.FollowList(999, "julian@marquee.dev"); err != ErrListNotFound {
		t.Error("expected list not found")
	}
}

func TestDeleteList(t *testing.T) {
	l := makeLibrary(t)

	list, _ := l.CreateList("ricky@marquee.dev", "Favorites", "", []uint{1})

	if err := l.DeleteList(list.ID, "julian@marquee.dev"); err != ErrNotListOwner {
		t.Errorf("expected not owner, got %v", err)
	}
	if err := l.DeleteList(list.ID, "ricky@marquee.dev"); err != nil {
		t.Fatalf("DeleteList %s", err)
	}
	if _, err := l.List(list.ID); err != ErrListNotFound {
		t.Error("expected list not found")
	}
}

func TestPatchList(t *testing.T) {
	l := makeLibrary(t)

	list, _ := l.CreateList("ricky@marquee.dev", "Favorites", "", []uint{1, 2})

	patch := []byte(`[{"op":"add","path":"/-","value":3},{"op":"remove","path":"/0"}]`)
	got, err := l.PatchList(list.ID, "ricky@marquee.dev", patch)
	if err != nil {
		t.Fatalf("PatchList %s", err)
	}
	if len(got.MovieIDs) != 2 || got.MovieIDs[0] != 2 || got.MovieIDs[1] != 3 {
		t.Errorf("got %v", got.MovieIDs)
	}

	// non-owner leaves the list unchanged
	_, err = l.PatchList(list.ID, "julian@marquee.dev",
		[]byte(`[{"op":"add","path":"/-","value":4}]`))
	if err != ErrNotListOwner {
		t.Errorf("expected not owner, got %v", err)
	}
	got, _ = l.List(list.ID)
	if len(got.MovieIDs) != 2 {
		t.Errorf("list changed: %v", got.MovieIDs)
	}

	// patched ids are validated
	_, err = l.PatchList(list.ID, "ricky@marquee.dev",
		[]byte(`[{"op":"add","path":"/-","value":42}]`))
	if _, ok := err.(MissingMoviesError); !ok {
		t.Errorf("expected missing movies error, got %v", err)
	}
}

func TestWishlist(t *testing.T) {
	l := makeLibrary(t)

	if err := l.AddToWishlist("ricky@marquee.dev", 1); err != nil {
		t.Fatalf("AddToWishlist %s", err)
	}
	if err := l.AddToWishlist("ricky@marquee.dev", 1); err != ErrAlreadyInWishlist {
		t.Errorf("expected already in wishlist, got %v", err)
	}

	ids := l.Wishlist("ricky@marquee.dev")
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("got %v", ids)
	}

	if err := l.RemoveFromWishlist("ricky@marquee.dev", 1); err != nil {
		t.Errorf("RemoveFromWishlist %s", err)
	}
	if err := l.RemoveFromWishlist("ricky@marquee.dev", 1); err != ErrNotInWishlist {
		t.Errorf("expected not in wishlist, got %v", err)
	}
}
