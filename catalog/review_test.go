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
)

func addMovie(t *testing.T, c *Catalog, title string, genres ...string) Movie {
	m := Movie{
		Title:       title,
		Director:    "Someone",
		ReleaseDate: time.Date(1994, time.June, 10, 0, 0, 0, 0, time.UTC),
		Genres:      genres,
	}
	err := c.AddMovie(&m)
	if err != nil {
		t.Fatalf("AddMovie %s", err)
	}
	return m
}

func TestRatingAverage(t *testing.T) {
	c := makeCatalog(t)
	m := addMovie(t, c, "The Room")

	if _, err := c.AddReview(m.ID, "ricky@marquee.dev", 3, "ok"); err != nil {
		t.Fatalf("AddReview %s", err)
	}
	if _, err := c.AddReview(m.ID, "julian@marquee.dev", 5, "great"); err != nil {
		t.Fatalf("AddReview %s", err)
	}

	got, _ := c.Movie(m.ID)
	if got.RatingCount != 2 || got.AverageRating != 4 {
		t.Errorf("got count %d avg %f", got.RatingCount, got.AverageRating)
	}
}

func TestRatingAverageAfterDelete(t *testing.T) {
	c := makeCatalog(t)
	m := addMovie(t, c, "The Room")

	r1, _ := c.AddReview(m.ID, "ricky@marquee.dev", 3, "ok")
	r2, _ := c.AddReview(m.ID, "julian@marquee.dev", 5, "great")

	if err := c.DeleteReview(r1.ID, "ricky@marquee.dev"); err != nil {
		t.Fatalf("DeleteReview %s", err)
	}
	got, _ := c.Movie(m.ID)
	if got.RatingCount != 1 || got.AverageRating != 5 {
		t.Errorf("got count %d avg %f", got.RatingCount, got.AverageRating)
	}

	if err := c.DeleteReview(r2.ID, "julian@marquee.dev"); err != nil {
		t.Fatalf("DeleteReview %s", err)
	}
	got, _ = c.Movie(m.ID)
	if got.RatingCount != 0 || got.AverageRating != 0 {
		t.Errorf("got count %d avg %f", got.RatingCount, got.AverageRating)
	}
}

func TestRatingAverageAfterMovieUpdate(t *testing.T) {
	c := makeCatalog(t)
	m := addMovie(t, c, "The Room")

	c.AddReview(m.ID, "ricky@marquee.dev", 3, "ok")
	c.AddReview(m.ID, "julian@marquee.dev", 5, "great")

	// a metadata update carries no aggregate fields, like a decoded request
	update := Movie{
		Title:       "The Room (Director's Cut)",
		Director:    m.Director,
		ReleaseDate: m.ReleaseDate,
	}
	update.ID = m.ID
	if err := c.UpdateMovie(&update); err != nil {
		t.Fatalf("UpdateMovie %s", err)
	}

	got, _ := c.Movie(m.ID)
	if got.Title != "The Room (Director's Cut)" {
		t.Errorf("got title %q", got.Title)
	}
	if got.RatingCount != 2 || got.AverageRating != 4 {
		t.Errorf("got count %d avg %f", got.RatingCount, got.AverageRating)
	}
}

func TestDuplicateReview(t *testing.T) {
	c := makeCatalog(t)
	m := addMovie(t, c, "The Room")

	c.AddReview(m.ID, "ricky@marquee.dev", 3, "ok")
	_, err := c.AddReview(m.ID, "ricky@marquee.dev", 5, "changed my mind")
	if err != ErrDuplicateReview {
		t.Errorf("expected duplicate review, got %v", err)
	}
}

func TestInvalidRating(t *testing.T) {
	c := makeCatalog(t)
	m := addMovie(t, c, "The Room")

	if _, err := c.AddReview(m.ID, "ricky@marquee.dev", 0, ""); err != ErrInvalidRating {
		t.Error("expected invalid rating")
	}
	if _, err := c.AddReview(m.ID, "ricky@marquee.dev", 6, ""); err != ErrInvalidRating {
		t.Error("expected invalid rating")
	}
}

func TestUpdateReview(t *testing.T) {
	c := makeCatalog(t)
	m := addMovie(t, c, "The Room")

	c.AddReview(m.ID, "ricky@marquee.dev", 3, "ok")

	// rating only, comment kept
	r, err := c.UpdateReview(m.ID, "ricky@marquee.dev", 5, "")
	if err != nil {
		t.Fatalf("UpdateReview %s", err)
	}
	if r.Rating != 5 || r.Comment != "ok" {
		t.Errorf("got rating %d comment %q", r.Rating, r.Comment)
	}

	got, _ := c.Movie(m.ID)
	if got.RatingCount != 1 || got.AverageRating != 5 {
		t.Errorf("got count %d avg %f", got.RatingCount, got.AverageRating)
	}

	// comment only, rating kept
	r, err = c.UpdateReview(m.ID, "ricky@marquee.dev", 0, "better on rewatch")
	if err != nil {
		t.Fatalf("UpdateReview %s", err)
	}
	if r.Rating != 5 || r.Comment != "better on rewatch" {
		t.Errorf("got rating %d comment %q", r.Rating, r.Comment)
	}

	if _, err = c.UpdateReview(m.ID, "nobody@marquee.dev", 4, ""); err != ErrReviewNotFound {
		t.Error("expected review not found")
	}
}

func TestDeleteReviewOwnership(t *testing.T) {
	c := makeCatalog(t)
	m := addMovie(t, c, "The Room")

	r, _ := c.AddReview(m.ID, "ricky@marquee.dev", 3, "ok")

	if err := c.DeleteReview(r.ID, "julian@marquee.dev"); err != ErrNotReviewOwner {
		t.Errorf("expected not owner, got %v", err)
	}
	// aggregate unchanged
	got, _ := c.Movie(m.ID)
	if got.RatingCount != 1 {
		t.Errorf("got count %d", got.RatingCount)
	}

	// admin removal skips the ownership check
	if err := c.RemoveReview(r.ID); err != nil {
		t.Errorf("RemoveReview %s", err)
	}
	got, _ = c.Movie(m.ID)
	if got.RatingCount != 0 {
		t.Errorf("got count %d", got.RatingCount)
	}
}

func TestDeleteMovieDeletesReviews(t *testing.T) {
	c := makeCatalog(t)
	m := addMovie(t, c, "The Room")
	c.AddReview(m.ID, "ricky@marquee.dev", 3, "ok")

	if err := c.DeleteMovie(m.ID); err != nil {
		t.Fatalf("DeleteMovie %s", err)
	}
	if reviews := c.Reviews(m.ID); len(reviews) != 0 {
		t.Errorf("got %d reviews", len(reviews))
	}
}
