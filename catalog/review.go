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

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("user already reviewed this movie")
	ErrNotReviewOwner  = errors.New("not the review owner")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// Reviews returns all reviews for the movie, newest first.
func (c *Catalog) Reviews(movieID uint) []Review {
	var reviews []Review
	c.db.Where("movie_id = ?", movieID).Order("created_at desc").Find(&reviews)
	return reviews
}

// Review returns the review with the provided id.
func (c *Catalog) Review(id uint) (Review, error) {
	var r Review
	err := c.db.First(&r, id).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return Review{}, ErrReviewNotFound
	}
	return r, nil
}

// UserReview returns the user's review of the movie.
func (c *Catalog) UserReview(movieID uint, user string) (Review, error) {
	var r Review
	err := c.db.Where("movie_id = ? and user = ?", movieID, user).First(&r).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return Review{}, ErrReviewNotFound
	}
	return r, nil
}

// AddReview creates the review and folds its rating into the movie aggregate.
// One review per (movie, user).
func (c *Catalog) AddReview(movieID uint, user string, rating int, comment string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, ErrInvalidRating
	}
	if _, err := c.Movie(movieID); err != nil {
		return Review{}, err
	}
	if _, err := c.UserReview(movieID, user); err == nil {
		return Review{}, ErrDuplicateReview
	}

	r := Review{MovieID: movieID, User: user, Rating: rating, Comment: comment}
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		return applyRatingDelta(tx, movieID, int64(rating), 1)
	})
	if err != nil {
		return Review{}, err
	}
	return r, nil
}

// UpdateReview replaces the rating and/or comment of the user's review.
// Zero-valued arguments keep the existing values.
func (c *Catalog) UpdateReview(movieID uint, user string, rating int, comment string) (Review, error) {
	if rating != 0 && (rating < 1 || rating > 5) {
		return Review{}, ErrInvalidRating
	}
	r, err := c.UserReview(movieID, user)
	if err != nil {
		return Review{}, err
	}

	delta := int64(0)
	if rating != 0 {
		delta = int64(rating - r.Rating)
		r.Rating = rating
	}
	if comment != "" {
		r.Comment = comment
	}

	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&r).Error; err != nil {
			return err
		}
		return applyRatingDelta(tx, movieID, delta, 0)
	})
	if err != nil {
		return Review{}, err
	}
	return r, nil
}

// DeleteReview removes the review by id after checking ownership, backing its
// rating out of the aggregate.
func (c *Catalog) DeleteReview(id uint, user string) error {
	r, err := c.Review(id)
	if err != nil {
		return err
	}
	if r.User != user {
		return ErrNotReviewOwner
	}
	return c.removeReview(r)
}

// RemoveReview removes the review by id without an ownership check, for
// admin moderation.
func (c *Catalog) RemoveReview(id uint) error {
	r, err := c.Review(id)
	if err != nil {
		return err
	}
	return c.removeReview(r)
}

func (c *Catalog) removeReview(r Review) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&r).Error; err != nil {
			return err
		}
		return applyRatingDelta(tx, r.MovieID, -int64(r.Rating), -1)
	})
}

// applyRatingDelta moves the movie's rating sum, count and average in a
// single statement so concurrent review writers cannot lose updates.
func applyRatingDelta(tx *gorm.DB, movieID uint, sumDelta, countDelta int64) error {
	return tx.Exec(
		`update movies set
			rating_sum = rating_sum + ?,
			rating_count = rating_count + ?,
			average_rating = case
				when rating_count + ? <= 0 then 0
				else (rating_sum + ?) * 1.0 / (rating_count + ?)
			end
		where id = ?`,
		sumDelta, countDelta, countDelta, sumDelta, countDelta, movieID).Error
}
