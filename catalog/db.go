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
	"errors"
	"time"

	"github.com/defsub/marquee/lib/date"
	gdb "github.com/defsub/marquee/lib/gorm"
	"github.com/defsub/marquee/lib/str"
	"gorm.io/gorm"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
)

func (c *Catalog) openDB() (err error) {
	c.db, err = gdb.Open(
		c.config.Catalog.DB.Driver,
		c.config.Catalog.DB.Source,
		c.config.Catalog.DB.LogMode)
	if err != nil {
		return
	}
	err = c.db.AutoMigrate(&Award{}, &CastMember{}, &Genre{}, &Keyword{},
		&Movie{}, &Review{}, &Trivia{})
	return
}

func (c *Catalog) closeDB() {
	conn, err := c.db.DB()
	if err != nil {
		return
	}
	conn.Close()
}

func (c *Catalog) Movies() []Movie {
	var movies []Movie
	c.db.Order("sort_title").Find(&movies)
	return movies
}

// Movie returns the movie with its side tables hydrated.
func (c *Catalog) Movie(id uint) (Movie, error) {
	var m Movie
	err := c.db.First(&m, id).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return Movie{}, ErrMovieNotFound
	}
	c.hydrate(&m)
	return m, nil
}

func (c *Catalog) hydrate(m *Movie) {
	m.Genres = c.Genres(m)
	m.Cast = c.Cast(m)
	m.Keywords = c.Keywords(m)
	m.Trivia = c.MovieTrivia(m)
	m.Awards = c.MovieAwards(m)
}

func (c *Catalog) Genres(m *Movie) []string {
	var genres []Genre
	var list []string
	c.db.Where("movie_id = ?", m.ID).Order("name").Find(&genres)
	for _, g := range genres {
		list = append(list, g.Name)
	}
	return list
}

func (c *Catalog) Cast(m *Movie) []CastMember {
	var cast []CastMember
	c.db.Where("movie_id = ?", m.ID).Order("rank").
		Limit(c.config.Catalog.CastLimit).Find(&cast)
	return cast
}

func (c *Catalog) Keywords(m *Movie) []string {
	var keywords []Keyword
	var list []string
	c.db.Where("movie_id = ?", m.ID).Order("name").Find(&keywords)
	for _, k := range keywords {
		list = append(list, k.Name)
	}
	return list
}

func (c *Catalog) MovieTrivia(m *Movie) []string {
	var trivia []Trivia
	var list []string
	c.db.Where("movie_id = ?", m.ID).Find(&trivia)
	for _, t := range trivia {
		list = append(list, t.Text)
	}
	return list
}

func (c *Catalog) MovieAwards(m *Movie) []Award {
	var awards []Award
	c.db.Where("movie_id = ?", m.ID).Order("year").Find(&awards)
	return awards
}

// applyInvariants derives the stored fields every persist must maintain.
func (m *Movie) applyInvariants() {
	if m.SortTitle == "" {
		m.SortTitle = str.SortTitle(m.Title)
	}
	m.Upcoming = m.ReleaseDate.After(time.Now())
	if m.RatingCount <= 0 {
		m.RatingSum = 0
		m.RatingCount = 0
		m.AverageRating = 0
	} else {
		m.AverageRating = float32(m.RatingSum) / float32(m.RatingCount)
	}
}

// AddMovie persists the movie with its side tables and indexes it.
func (c *Catalog) AddMovie(m *Movie) error {
	m.applyInvariants()
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return c.createSideTables(tx, m)
	})
	if err != nil {
		return err
	}
	c.indexMovie(m)
	return nil
}

// UpdateMovie replaces the movie row and side tables and reindexes. The
// rating aggregate is owned by the review transactions; the stored values
// carry over no matter what the caller's struct holds.
func (c *Catalog) UpdateMovie(m *Movie) error {
	existing, err := c.Movie(m.ID)
	if err != nil {
		return err
	}
	m.RatingSum = existing.RatingSum
	m.RatingCount = existing.RatingCount
	m.applyInvariants()
	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		if err := c.deleteSideTables(tx, m.ID); err != nil {
			return err
		}
		return c.createSideTables(tx, m)
	})
	if err != nil {
		return err
	}
	c.indexMovie(m)
	return nil
}

// DeleteMovie removes the movie, its side tables, its reviews and its search
// document. References from other stores are weak and left behind.
func (c *Catalog) DeleteMovie(id uint) error {
	m, err := c.Movie(id)
	if err != nil {
		return err
	}
	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&m).Error; err != nil {
			return err
		}
		if err := c.deleteSideTables(tx, id); err != nil {
			return err
		}
		return tx.Unscoped().Delete(Review{}, "movie_id = ?", id).Error
	})
	if err != nil {
		return err
	}
	c.unindexMovie(id)
	return nil
}

func (c *Catalog) createSideTables(tx *gorm.DB, m *Movie) error {
	for _, name := range m.Genres {
		g := Genre{MovieID: m.ID, Name: name}
		if err := tx.Create(&g).Error; err != nil {
			return err
		}
	}
	for i := range m.Cast {
		m.Cast[i].ID = 0
		m.Cast[i].MovieID = m.ID
		if err := tx.Create(&m.Cast[i]).Error; err != nil {
			return err
		}
	}
	for _, name := range m.Keywords {
		k := Keyword{MovieID: m.ID, Name: name}
		if err := tx.Create(&k).Error; err != nil {
			return err
		}
	}
	for _, text := range m.Trivia {
		t := Trivia{MovieID: m.ID, Text: text}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
	}
	for i := range m.Awards {
		m.Awards[i].ID = 0
		m.Awards[i].MovieID = m.ID
		if err := tx.Create(&m.Awards[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) deleteSideTables(tx *gorm.DB, id uint) error {
	for _, m := range []interface{}{Award{}, CastMember{}, Genre{}, Keyword{}, Trivia{}} {
		if err := tx.Unscoped().Delete(m, "movie_id = ?", id).Error; err != nil {
			return err
		}
	}
	return nil
}

// FilterMovies applies rating, popularity and release year ranges. Zero
// values leave a range open.
func (c *Catalog) FilterMovies(minRating, maxRating float32, minPopularity float32, releaseYear int) []Movie {
	q := c.db.Order("average_rating desc, id")
	if minRating > 0 {
		q = q.Where("average_rating >= ?", minRating)
	}
	if maxRating > 0 {
		q = q.Where("average_rating <= ?", maxRating)
	}
	if minPopularity > 0 {
		q = q.Where("popularity >= ?", minPopularity)
	}
	if releaseYear > 0 {
		q = q.Where("release_date >= ? and release_date <= ?",
			date.StartOfYear(releaseYear), date.EndOfYear(releaseYear))
	}
	var movies []Movie
	q.Find(&movies)
	return movies
}

// AdvancedFilter applies decade, country, language and keyword filters.
func (c *Catalog) AdvancedFilter(decade int, country, language, keyword string) []Movie {
	q := c.db.Order("average_rating desc, id")
	if decade > 0 {
		q = q.Where("release_date >= ? and release_date <= ?",
			date.StartOfYear(decade), date.EndOfYear(decade+9))
	}
	if country != "" {
		q = q.Where("country = ?", country)
	}
	if language != "" {
		q = q.Where("language = ?", language)
	}
	if keyword != "" {
		q = q.Where("movies.id in (select movie_id from keywords where name = ?)", keyword)
	}
	var movies []Movie
	q.Find(&movies)
	return movies
}

// UpcomingMovies returns movies flagged upcoming whose release date is still
// in the future, soonest first.
func (c *Catalog) UpcomingMovies() []Movie {
	var movies []Movie
	c.db.Where("upcoming = ? and release_date >= ?", true, time.Now()).
		Order("release_date").Find(&movies)
	return movies
}

func (c *Catalog) Trending(limit int) []Movie {
	var movies []Movie
	c.db.Order("rating_count desc, average_rating desc, id").
		Limit(limit).Find(&movies)
	return movies
}

func (c *Catalog) TopRated(limit int) []Movie {
	var movies []Movie
	c.db.Order("average_rating desc, id").Limit(limit).Find(&movies)
	return movies
}

// TopMovies ranks by rating then popularity, for the insights view.
func (c *Catalog) TopMovies(limit int) []Movie {
	var movies []Movie
	c.db.Order("average_rating desc, popularity desc, id").
		Limit(limit).Find(&movies)
	return movies
}

// ActiveReviewers returns users with the most reviews.
func (c *Catalog) ActiveReviewers(limit int) []Reviewer {
	var reviewers []Reviewer
	c.db.Model(&Review{}).
		Select("user, count(*) as review_count").
		Group("user").
		Order("review_count desc, user").
		Limit(limit).
		Find(&reviewers)
	return reviewers
}

// MoviesByGenres returns movies matching any of the genres, excluding the
// provided ids, best rated first.
func (c *Catalog) MoviesByGenres(genres []string, exclude []uint, limit int) []Movie {
	if len(genres) == 0 {
		return nil
	}
	q := c.db.Where("movies.id in (select movie_id from genres where name in (?))", genres)
	if len(exclude) > 0 {
		q = q.Where("movies.id not in (?)", exclude)
	}
	var movies []Movie
	q.Order("average_rating desc, id").Limit(limit).Find(&movies)
	return movies
}

// SimilarMovies returns movies sharing a genre with m or directed by the same
// director, excluding m itself.
func (c *Catalog) SimilarMovies(m Movie, limit int) []Movie {
	genres := c.Genres(&m)
	q := c.db.Where("movies.id <> ?", m.ID)
	if len(genres) > 0 {
		q = q.Where(
			"movies.id in (select movie_id from genres where name in (?)) or director = ?",
			genres, m.Director)
	} else {
		q = q.Where("director = ?", m.Director)
	}
	var movies []Movie
	q.Order("average_rating desc, id").Limit(limit).Find(&movies)
	return movies
}

// MissingMovies returns the subset of ids with no catalog movie.
func (c *Catalog) MissingMovies(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	var movies []Movie
	c.db.Select("id").Where("id in (?)", ids).Find(&movies)
	found := make(map[uint]bool)
	for _, m := range movies {
		found[m.ID] = true
	}
	var missing []uint
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func (c *Catalog) moviesFor(keys []string) []Movie {
	var ids []uint
	for _, k := range keys {
		ids = append(ids, uint(str.Atoi(k)))
	}
	var movies []Movie
	c.db.Where("id in (?)", ids).Find(&movies)
	return movies
}

func (c *Catalog) RecentlyAdded() []Movie {
	var movies []Movie
	c.db.Order("created_at desc").
		Limit(c.config.Catalog.RecentLimit).Find(&movies)
	return movies
}

// HasGenre reports whether any movie carries the genre.
func (c *Catalog) HasGenre(name string) bool {
	var count int64
	c.db.Model(&Genre{}).Where("name = ?", name).Count(&count)
	return count > 0
}

// HasActor reports whether any movie credits the actor.
func (c *Catalog) HasActor(name string) bool {
	var count int64
	c.db.Model(&CastMember{}).Where("name = ?", name).Count(&count)
	return count > 0
}

func (c *Catalog) MovieCount() int64 {
	var count int64
	c.db.Model(&Movie{}).Count(&count)
	return count
}
