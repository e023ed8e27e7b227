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
	"strings"

	"github.com/defsub/marquee/lib/search"
	"github.com/defsub/marquee/lib/str"
)

const (
	FieldBudget   = "budget"
	FieldCast     = "cast"
	FieldCountry  = "country"
	FieldDate     = "date"
	FieldDirector = "director"
	FieldGenre    = "genre"
	FieldKeyword  = "keyword"
	FieldLanguage = "language"
	FieldRating   = "rating"
	FieldRuntime  = "runtime"
	FieldSynopsis = "synopsis"
	FieldTitle    = "title"
)

// movieFields builds the search document for one movie.
func (c *Catalog) movieFields(m *Movie) search.FieldMap {
	fields := make(search.FieldMap)
	search.AddField(fields, FieldBudget, m.Budget)
	search.AddField(fields, FieldCountry, m.Country)
	search.AddField(fields, FieldDate, m.ReleaseDate)
	search.AddField(fields, FieldDirector, m.Director)
	search.AddField(fields, FieldLanguage, m.Language)
	search.AddField(fields, FieldRating, m.AgeRating)
	search.AddField(fields, FieldRuntime, m.Runtime)
	search.AddField(fields, FieldSynopsis, m.Synopsis)
	search.AddField(fields, FieldTitle, m.Title)
	for _, g := range m.Genres {
		search.AddField(fields, FieldGenre, g)
	}
	for _, k := range m.Keywords {
		search.AddField(fields, FieldKeyword, strings.ToLower(k))
	}
	for _, member := range m.Cast {
		search.AddField(fields, FieldCast, member.Name)
	}
	return fields
}

func (c *Catalog) indexMovie(m *Movie) {
	s := c.newSearch()
	defer s.Close()
	index := make(search.IndexMap)
	index[str.Itoa(int(m.ID))] = c.movieFields(m)
	s.Index(index)
}

func (c *Catalog) unindexMovie(id uint) {
	s := c.newSearch()
	defer s.Close()
	s.Delete(str.Itoa(int(id)))
}

// Reindex rebuilds the search index from the database.
func (c *Catalog) Reindex() error {
	s := c.newSearch()
	defer s.Close()
	index := make(search.IndexMap)
	for _, m := range c.Movies() {
		c.hydrate(&m)
		index[str.Itoa(int(m.ID))] = c.movieFields(&m)
	}
	s.Index(index)
	return nil
}
