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

// Package catalog is the movie store: movies with their side tables, the
// review aggregate, and the bleve search index over all of it.
package catalog

import (
	"github.com/defsub/marquee/config"
	"github.com/defsub/marquee/lib/date"
	"github.com/defsub/marquee/lib/search"
	"gorm.io/gorm"
)

type Catalog struct {
	config *config.Config
	db     *gorm.DB
}

func NewCatalog(config *config.Config) *Catalog {
	return &Catalog{
		config: config,
	}
}

func (c *Catalog) Open() (err error) {
	err = c.openDB()
	return
}

func (c *Catalog) Close() {
	c.closeDB()
}

func (c *Catalog) newSearch() *search.Search {
	s := search.NewSearch(c.config)
	s.Keywords = []string{
		FieldGenre,
		FieldKeyword,
	}
	s.Open("catalog")
	return s
}

func (c *Catalog) Search(q string, limit ...int) []Movie {
	s := c.newSearch()
	defer s.Close()

	l := c.config.Catalog.SearchLimit
	if len(limit) == 1 {
		l = limit[0]
	}

	keys, err := s.Search(q, l)
	if err != nil {
		return nil
	}

	// split potentially large # of result keys into chunks to query
	chunkSize := 100
	var movies []Movie
	for i := 0; i < len(keys); i += chunkSize {
		end := i + chunkSize
		if end > len(keys) {
			end = len(keys)
		}
		chunk := keys[i:end]
		movies = append(movies, c.moviesFor(chunk)...)
	}

	return movies
}

// Seasonal returns the config-driven picks whose date pattern matches today.
func (c *Catalog) Seasonal() []Pick {
	var picks []Pick
	for _, p := range c.config.Catalog.Seasonal {
		if date.Match(p.Layout, p.Match) {
			movies := c.Search(p.Query)
			if len(movies) > 0 {
				picks = append(picks, Pick{
					Name:   p.Name,
					Movies: movies,
				})
			}
		}
	}
	return picks
}

func (c *Catalog) HasMovies() bool {
	return c.MovieCount() > 0
}
