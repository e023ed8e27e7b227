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
	"github.com/defsub/marquee/catalog"
)

type LoginView struct {
	Token string
}

type MovieView struct {
	catalog.Movie
	Reviews []catalog.Review
	Similar []catalog.Movie
}

type ProfileView struct {
	Email          string
	Name           string
	FavoriteGenres []string
	Wishlist       []catalog.Movie
}

type AdminProfileView struct {
	Email string
}

type IndexView struct {
	Movies   []catalog.Movie
	Upcoming []catalog.Movie
	Recent   []catalog.Movie
}

type SearchView struct {
	Query  string
	Hits   int
	Movies []catalog.Movie
}

type RecommendView struct {
	Personalized []catalog.Movie
	Seasonal     []catalog.Pick
}

type InsightsView struct {
	MovieCount      int64
	TopMovies       []catalog.Movie
	ActiveReviewers []catalog.Reviewer
}

type UpcomingView struct {
	Movies []catalog.Movie
}

// movieTitles adapts the catalog to reminder notification text.
type movieTitles struct {
	catalog *catalog.Catalog
}

func (t movieTitles) MovieTitle(id uint) string {
	m, err := t.catalog.Movie(id)
	if err != nil {
		return ""
	}
	return m.Title
}
