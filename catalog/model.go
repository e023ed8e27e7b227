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
	"time"

	"github.com/defsub/marquee/lib/gorm"
)

type Movie struct {
	gorm.Model
	Title                string
	SortTitle            string
	Director             string
	ReleaseDate          time.Time
	Runtime              int
	Synopsis             string
	Popularity           float32
	AgeRating            string
	ParentalGuidance     string
	Country              string
	Language             string
	TrailerURL           string
	ProductionCompany    string
	Budget               int64
	OpeningWeekend       int64
	TotalEarnings        int64
	InternationalRevenue int64
	PosterPath           string
	Upcoming             bool
	RatingSum            int64   `json:"-"`
	RatingCount          int64   `json:"ReviewCount"`
	AverageRating        float32 `json:"AverageRating"`

	// side tables, not stored with the movie row
	Genres   []string     `gorm:"-"`
	Cast     []CastMember `gorm:"-"`
	Keywords []string     `gorm:"-"`
	Trivia   []string     `gorm:"-"`
	Awards   []Award      `gorm:"-"`
}

type Genre struct {
	gorm.Model
	MovieID uint `gorm:"index:idx_genre_movie"`
	Name    string
}

type CastMember struct {
	gorm.Model
	MovieID uint `gorm:"index:idx_cast_movie"`
	Name    string
	Rank    int
}

func (CastMember) TableName() string {
	return "cast" // not cast_members
}

type Keyword struct {
	gorm.Model
	MovieID uint `gorm:"index:idx_keyword_movie"`
	Name    string
}

type Trivia struct {
	gorm.Model
	MovieID uint `gorm:"index:idx_trivia_movie"`
	Text    string
}

func (Trivia) TableName() string {
	return "trivia" // not trivias
}

type Award struct {
	gorm.Model
	MovieID  uint `gorm:"index:idx_award_movie"`
	Name     string
	Year     int
	Category string
	Result   string
}

type Review struct {
	gorm.Model
	MovieID uint   `gorm:"uniqueIndex:idx_review_movie_user"`
	User    string `gorm:"uniqueIndex:idx_review_movie_user"`
	Rating  int
	Comment string
}

// Pick is a named group of movies surfaced by a date-matched query.
type Pick struct {
	Name   string
	Movies []Movie
}

// Reviewer is a user and how many reviews they have written.
type Reviewer struct {
	User        string
	ReviewCount int
}
