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

// Package recommend is a read-only ranking layer over the catalog. All
// orderings carry movie id as a secondary key so results are reproducible.
package recommend

import (
	"github.com/defsub/marquee/catalog"
	"github.com/defsub/marquee/config"
)

// Profile provides a user's favorite genres.
type Profile interface {
	FavoriteGenres(user string) []string
}

// Wishlist provides a user's wishlist movie ids.
type Wishlist interface {
	Wishlist(user string) []uint
}

type Engine struct {
	config    *config.Config
	catalog   *catalog.Catalog
	profiles  Profile
	wishlists Wishlist
}

func NewEngine(config *config.Config, c *catalog.Catalog, profiles Profile, wishlists Wishlist) *Engine {
	return &Engine{
		config:    config,
		catalog:   c,
		profiles:  profiles,
		wishlists: wishlists,
	}
}

// Personalized returns the best rated movies matching the user's favorite
// genres, excluding movies already wishlisted. Users with no favorite genres
// get nothing rather than a generic fallback.
func (e *Engine) Personalized(user string) []catalog.Movie {
	genres := e.profiles.FavoriteGenres(user)
	if len(genres) == 0 {
		return nil
	}
	exclude := e.wishlists.Wishlist(user)
	return e.catalog.MoviesByGenres(genres, exclude,
		e.config.Recommend.PersonalizedLimit)
}

// Similar returns movies sharing a genre or director with the given movie.
func (e *Engine) Similar(movieID uint) ([]catalog.Movie, error) {
	m, err := e.catalog.Movie(movieID)
	if err != nil {
		return nil, err
	}
	return e.catalog.SimilarMovies(m, e.config.Recommend.SimilarLimit), nil
}

// Trending returns the most reviewed movies, best rated first among ties.
func (e *Engine) Trending() []catalog.Movie {
	return e.catalog.Trending(e.config.Recommend.TrendingLimit)
}

// TopRated returns the best rated movies.
func (e *Engine) TopRated() []catalog.Movie {
	return e.catalog.TopRated(e.config.Recommend.TopRatedLimit)
}

// Seasonal returns date-matched picks from the catalog config.
func (e *Engine) Seasonal() []catalog.Pick {
	return e.catalog.Seasonal()
}
