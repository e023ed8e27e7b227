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

package catalog

import (
	"testing"
	"time"

	"github.com/defsub/marquee/config"
)

func makeCatalog(t *testing.T) *Catalog {
	cfg, err := config.TestConfig(t.TempDir())
	if err != nil {
		t.Fatalf("TestConfig %s", err)
	}
	c := NewCatalog(cfg)
	err = c.Open()
	if err != nil {
		t.Fatalf("Open %s", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestAddMovie(t *testing.T) {
	c := makeCatalog(t)

	m := Movie{
		Title:       "The Thing",
		Director:    "John Carpenter",
		ReleaseDate: time.Date(1982, time.June, 25, 0, 0, 0, 0, time.UTC),
		Genres:      []string{"Horror", "Science Fiction"},
		Cast: []CastMember{
			{Name: "Kurt Russell", Rank: 1},
			{Name: "Keith David", Rank: 2},
		},
		Keywords: []string{"antarctica", "paranoia"},
		Trivia:   []string{"Shot in British Columbia."},
	}
	if err := c.AddMovie(&m); err != nil {
		t.Fatalf("AddMovie %s", err)
	}

	got, err := c.Movie(m.ID)
	if err != nil {
		t.Fatalf("Movie %s", err)
	}
	if got.SortTitle != "Thing, The" {
		t.Errorf("got sort title %q", got.SortTitle)
	}
	if got.Upcoming {
		t.Error("1982 release is not upcoming")
	}
	if len(got.Genres) != 2 || len(got.Cast) != 2 || len(got.Keywords) != 2 {
		t.Errorf("side tables not hydrated: %v %v %v", got.Genres, got.Cast, got.Keywords)
	}

	if _, err := c.Movie(9999); err != ErrMovieNotFound {
		t.Error("expected movie not found")
	}
}

func TestUpcomingInvariant(t *testing.T) {
	c := makeCatalog(t)

	future := Movie{
		Title:       "Next Year's Movie",
		ReleaseDate: time.Now().Add(365 * 24 * time.Hour),
	}
	c.AddMovie(&future)
	past := Movie{
		Title:       "Old Movie",
		ReleaseDate: time.Date(1960, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	c.AddMovie(&past)

	upcoming := c.UpcomingMovies()
	if len(upcoming) != 1 || upcoming[0].Title != "Next Year's Movie" {
		t.Errorf("got %d upcoming", len(upcoming))
	}

	// the flag cannot be forced by the caller
	past.Upcoming = true
	c.UpdateMovie(&past)
	got, _ := c.Movie(past.ID)
	if got.Upcoming {
		t.Error("past release should not stay upcoming")
	}
}

func TestFilterMovies(t *testing.T) {
	c := makeCatalog(t)

	a := addMovie(t, c, "Movie A")
	b := addMovie(t, c, "Movie B")
	c.AddReview(a.ID, "u1@marquee.dev", 5, "")
	c.AddReview(b.ID, "u1@marquee.dev", 2, "")

	movies := c.FilterMovies(4, 0, 0, 0)
	if len(movies) != 1 || movies[0].Title != "Movie A" {
		t.Errorf("got %d movies", len(movies))
	}

	movies = c.FilterMovies(0, 3, 0, 0)
	if len(movies) != 1 || movies[0].Title != "Movie B" {
		t.Errorf("got %d movies", len(movies))
	}

	// both released 1994
	movies = c.FilterMovies(0, 0, 0, 1994)
	if len(movies) != 2 {
		t.Errorf("got %d movies", len(movies))
	}
	movies = c.FilterMovies(0, 0, 0, 2001)
	if len(movies) != 0 {
		t.Errorf("got %d movies", len(movies))
	}
}

func TestAdvancedFilter(t *testing.T) {
	c := makeCatalog(t)

	m := Movie{
		Title:       "Oldboy",
		ReleaseDate: time.Date(2003, time.November, 21, 0, 0, 0, 0, time.UTC),
		Country:     "KR",
		Language:    "ko",
		Keywords:    []string{"revenge"},
	}
	c.AddMovie(&m)
	addMovie(t, c, "Unrelated")

	movies := c.AdvancedFilter(2000, "", "", "")
	if len(movies) != 1 || movies[0].Title != "Oldboy" {
		t.Errorf("decade: got %d", len(movies))
	}
	movies = c.AdvancedFilter(0, "KR", "ko", "revenge")
	if len(movies) != 1 {
		t.Errorf("combined: got %d", len(movies))
	}
	movies = c.AdvancedFilter(0, "", "", "heist")
	if len(movies) != 0 {
		t.Errorf("keyword: got %d", len(movies))
	}
}

func TestSimilarMovies(t *testing.T) {
	c := makeCatalog(t)

	thing := Movie{Title: "The Thing", Director: "John Carpenter",
		Genres: []string{"Horror"}}
	c.AddMovie(&thing)
	halloween := Movie{Title: "Halloween", Director: "John Carpenter",
		Genres: []string{"Horror"}}
	c.AddMovie(&halloween)
	escape := Movie{Title: "Escape from New York", Director: "John Carpenter",
		Genres: []string{"Action"}}
	c.AddMovie(&escape)
	alien := Movie{Title: "Alien", Director: "Ridley Scott",
		Genres: []string{"Horror"}}
	c.AddMovie(&alien)
	heat := Movie{Title: "Heat", Director: "Michael Mann",
		Genres: []string{"Crime"}}
	c.AddMovie(&heat)

	similar := c.SimilarMovies(thing, 10)
	if len(similar) != 3 {
		t.Fatalf("got %d similar", len(similar))
	}
	for _, m := range similar {
		if m.ID == thing.ID {
			t.Error("similar includes itself")
		}
		if m.Title == "Heat" {
			t.Error("unrelated movie included")
		}
	}
}

func TestActiveReviewers(t *testing.T) {
	c := makeCatalog(t)

	a := addMovie(t, c, "Movie A")
	b := addMovie(t, c, "Movie B")
	c.AddReview(a.ID, "busy@marquee.dev", 4, "")
	c.AddReview(b.ID, "busy@marquee.dev", 3, "")
	c.AddReview(a.ID, "casual@marquee.dev", 5, "")

	reviewers := c.ActiveReviewers(5)
	if len(reviewers) != 2 {
		t.Fatalf("got %d reviewers", len(reviewers))
	}
	if reviewers[0].User != "busy@marquee.dev" || reviewers[0].ReviewCount != 2 {
		t.Errorf("got %v", reviewers[0])
	}
}

func TestMissingMovies(t *testing.T) {
	c := makeCatalog(t)

	m := addMovie(t, c, "Exists")
	missing := c.MissingMovies([]uint{m.ID, 777, 888})
	if len(missing) != 2 {
		t.Errorf("got %v", missing)
	}
}

func TestSearch(t *testing.T) {
	c := makeCatalog(t)

	m := Movie{
		Title:    "The Thing",
		Director: "John Carpenter",
		Genres:   []string{"Horror"},
		Keywords: []string{"antarctica"},
	}
	c.AddMovie(&m)

	movies := c.Search(`+title:thing`)
	if len(movies) != 1 {
		t.Errorf("title: got %d", len(movies))
	}
	movies = c.Search(`+genre:Horror`)
	if len(movies) != 1 {
		t.Errorf("genre: got %d", len(movies))
	}
	movies = c.Search(`+keyword:antarctica`)
	if len(movies) != 1 {
		t.Errorf("keyword: got %d", len(movies))
	}

	c.DeleteMovie(m.ID)
	movies = c.Search(`+title:thing`)
	if len(movies) != 0 {
		t.Errorf("after delete: got %d", len(movies))
	}
}

func TestTrendingAndTopRated(t *testing.T) {
	c := makeCatalog(t)

	quiet := addMovie(t, c, "Quiet")
	busy := addMovie(t, c, "Busy")
	best := addMovie(t, c, "Best")

	c.AddReview(busy.ID, "u1@marquee.dev", 3, "")
	c.AddReview(busy.ID, "u2@marquee.dev", 4, "")
	c.AddReview(best.ID, "u1@marquee.dev", 5, "")
	c.AddReview(quiet.ID, "u3@marquee.dev", 2, "")

	trending := c.Trending(10)
	if trending[0].Title != "Busy" {
		t.Errorf("trending first is %s", trending[0].Title)
	}

	top := c.TopRated(10)
	if top[0].Title != "Best" {
		t.Errorf("top rated first is %s", top[0].Title)
	}
}
