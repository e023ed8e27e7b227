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

package discussion

import (
	"testing"

	"github.com/defsub/marquee/config"
)

// reference with movie 1, genre Horror, actor Kurt Russell
type testReference struct{}

func (testReference) MissingMovies(ids []uint) []uint {
	var missing []uint
	for _, id := range ids {
		if id != 1 {
			missing = append(missing, id)
		}
	}
	return missing
}

func (testReference) HasGenre(name string) bool {
	return name == "Horror"
}

func (testReference) HasActor(name string) bool {
	return name == "Kurt Russell"
}

func makeBoard(t *testing.T) *Board {
	cfg, err := config.TestConfig(t.TempDir())
	if err != nil {
		t.Fatalf("TestConfig %s", err)
	}
	b := NewBoard(cfg, testReference{})
	err = b.Open()
	if err != nil {
		t.Fatalf("Open %s", err)
	}
	t.Cleanup(b.Close)
	return b
}

func TestCreateDiscussion(t *testing.T) {
	b := makeBoard(t)

	d := Discussion{
		Title:     "Best practical effects?",
		Author:    "ricky@marquee.dev",
		Content:   "Gotta be the kennel scene.",
		Category:  CategoryMovie,
		RelatedID: 1,
	}
	if err := b.CreateDiscussion(&d); err != nil {
		t.Fatalf("CreateDiscussion %s", err)
	}

	got, err := b.Discussion(d.ID)
	if err != nil {
		t.Fatalf("Discussion %s", err)
	}
	if got.Title != d.Title {
		t.Errorf("got %s", got.Title)
	}
}

func TestCreateDiscussionValidation(t *testing.T) {
	b := makeBoard(t)

	cases := []Discussion{
		{Title: "x", Category: CategoryMovie, RelatedID: 42},
		{Title: "x", Category: CategoryGenre, RelatedName: "Polka"},
		{Title: "x", Category: CategoryActor, RelatedName: "Nobody"},
	}
	for _, d := range cases {
		if err := b.CreateDiscussion(&d); err != ErrUnknownReference {
			t.Errorf("category %s: expected unknown reference, got %v", d.Category, err)
		}
	}

	bad := Discussion{Title: "x", Category: "studio"}
	if err := b.CreateDiscussion(&bad); err != ErrInvalidCategory {
		t.Errorf("expected invalid category, got %v", err)
	}

	genre := Discussion{Title: "scariest?", Category: CategoryGenre, RelatedName: "Horror"}
	if err := b.CreateDiscussion(&genre); err != nil {
		t.Errorf("CreateDiscussion %s", err)
	}
	actor := Discussion{Title: "ranked", Category: CategoryActor, RelatedName: "Kurt Russell"}
	if err := b.CreateDiscussion(&actor); err != nil {
		t.Errorf("CreateDiscussion %s", err)
	}
}

func TestAddComment(t *testing.T) {
	b := makeBoard(t)

	d := Discussion{Title: "x", Category: CategoryMovie, RelatedID: 1}
	b.CreateDiscussion(&d)

	if _, err := b.AddComment(d.ID, "julian@marquee.dev", "agreed"); err != nil {
		t.Fatalf("AddComment %s", err)
	}
	if _, err := b.AddComment(999, "julian@marquee.dev", "lost"); err != ErrDiscussionNotFound {
		t.Error("expected discussion not found")
	}

	got, _ := b.Discussion(d.ID)
	if len(got.Comments) != 1 || got.Comments[0].Content != "agreed" {
		t.Errorf("got %v", got.Comments)
	}

	all := b.Discussions()
	if len(all) != 1 || len(all[0].Comments) != 1 {
		t.Errorf("got %d discussions", len(all))
	}
}
