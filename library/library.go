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

// Package library holds user-curated movie collections: named lists with
// sharing and following, and the per-user wishlist. Movie references are
// weak ids into the catalog.
package library

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/defsub/marquee/config"
	"github.com/defsub/marquee/lib/gorm"
	jsonpatch "github.com/evanphx/json-patch"
	g "gorm.io/gorm"
)

var (
	ErrListNotFound      = errors.New("list not found")
	ErrNotListOwner      = errors.New("not the list owner")
	ErrAlreadyInWishlist = errors.New("movie already in wishlist")
	ErrNotInWishlist     = errors.New("movie not in wishlist")
)

// MissingMoviesError reports the referenced movie ids with no catalog entry.
type MissingMoviesError struct {
	IDs []uint
}

func (e MissingMoviesError) Error() string {
	return fmt.Sprintf("movies not found: %v", e.IDs)
}

// MovieChecker reports which of the provided movie ids do not resolve.
// The catalog implements this.
type MovieChecker interface {
	MissingMovies(ids []uint) []uint
}

type List struct {
	gorm.Model
	Name        string
	Description string
	Owner       string `gorm:"index:idx_list_owner"`

	MovieIDs []uint `gorm:"-"`
}

type ListEntry struct {
	gorm.Model
	ListID  uint `gorm:"index:idx_entry_list"`
	MovieID uint
}

type ListShare struct {
	gorm.Model
	ListID uint   `gorm:"uniqueIndex:idx_share_list_user"`
	User   string `gorm:"uniqueIndex:idx_share_list_user"`
}

type ListFollower struct {
	gorm.Model
	ListID uint   `gorm:"uniqueIndex:idx_follower_list_user"`
	User   string `gorm:"uniqueIndex:idx_follower_list_user"`
}

type WishlistEntry struct {
	gorm.Model
	User    string `gorm:"uniqueIndex:idx_wishlist_user_movie"`
	MovieID uint   `gorm:"uniqueIndex:idx_wishlist_user_movie"`
}

type Library struct {
	config  *config.Config
	db      *g.DB
	checker MovieChecker
}

func NewLibrary(config *config.Config, checker MovieChecker) *Library {
	return &Library{
		config:  config,
		checker: checker,
	}
}

func (l *Library) Open() (err error) {
	err = l.openDB()
	return
}

func (l *Library) Close() {
	l.closeDB()
}

func (l *Library) checkMovies(ids []uint) error {
	missing := l.checker.MissingMovies(ids)
	if len(missing) > 0 {
		return MissingMoviesError{IDs: missing}
	}
	return nil
}

// CreateList creates a list after verifying every referenced movie exists.
// The error names the missing ids.
func (l *Library) CreateList(owner, name, description string, movieIDs []uint) (List, error) {
	if err := l.checkMovies(movieIDs); err != nil {
		return List{}, err
	}
	list := List{Name: name, Description: description, Owner: owner}
	err := l.db.Transaction(func(tx *g.DB) error {
		if err := tx.Create(&list).Error; err != nil {
			return err
		}
		return createEntries(tx, list.ID, movieIDs)
	})
	if err != nil {
		return List{}, err
	}
	list.MovieIDs = movieIDs
	return list, nil
}

// DeleteList permanently removes the list; owner only.
func (l *Library) DeleteList(id uint, user string) error {
	list, err := l.List(id)
	if err != nil {
		return err
	}
	if list.Owner != user {
		return ErrNotListOwner
	}
	return l.db.Transaction(func(tx *g.DB) error {
		if err := tx.Unscoped().Delete(&list).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{ListEntry{}, ListShare{}, ListFollower{}} {
			if err := tx.Unscoped().Delete(m, "list_id = ?", id).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ShareList shares the list with another user; owner only, idempotent.
func (l *Library) ShareList(id uint, owner, user string) error {
	list, err := l.List(id)
	if err != nil {
		return err
	}
	if list.Owner != owner {
		return ErrNotListOwner
	}
	if l.hasShare(id, user) {
		return nil
	}
	share := ListShare{ListID: id, User: user}
	return l.db.Create(&share).Error
}

// FollowList adds the user as a follower; idempotent.
func (l *Library) FollowList(id uint, user string) error {
	if _, err := l.List(id); err != nil {
		return err
	}
	if l.hasFollower(id, user) {
		return nil
	}
	follower := ListFollower{ListID: id, User: user}
	return l.db.Create(&follower).Error
}

// PatchList applies an RFC 6902 patch to the list's movie id array;
// owner only, result re-validated against the catalog.
func (l *Library) PatchList(id uint, user string, patch []byte) (List, error) {
	list, err := l.List(id)
	if err != nil {
		return List{}, err
	}
	if list.Owner != user {
		return List{}, ErrNotListOwner
	}

	before, err := json.Marshal(list.MovieIDs)
	if err != nil {
		return List{}, err
	}
	if list.MovieIDs == nil {
		before = []byte("[]")
	}

	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return List{}, err
	}
	after, err := p.Apply(before)
	if err != nil {
		return List{}, err
	}

	var movieIDs []uint
	if err := json.Unmarshal(after, &movieIDs); err != nil {
		return List{}, err
	}
	if err := l.checkMovies(movieIDs); err != nil {
		return List{}, err
	}

	err = l.db.Transaction(func(tx *g.DB) error {
		err := tx.Unscoped().Delete(ListEntry{}, "list_id = ?", id).Error
		if err != nil {
			return err
		}
		return createEntries(tx, id, movieIDs)
	})
	if err != nil {
		return List{}, err
	}
	list.MovieIDs = movieIDs
	return list, nil
}

// AddToWishlist adds the movie to the user's wishlist.
func (l *Library) AddToWishlist(user string, movieID uint) error {
	if err := l.checkMovies([]uint{movieID}); err != nil {
		return err
	}
	if l.hasWishlistEntry(user, movieID) {
		return ErrAlreadyInWishlist
	}
	entry := WishlistEntry{User: user, MovieID: movieID}
	return l.db.Create(&entry).Error
}

// RemoveFromWishlist removes the movie from the user's wishlist.
func (l *Library) RemoveFromWishlist(user string, movieID uint) error {
	if !l.hasWishlistEntry(user, movieID) {
		return ErrNotInWishlist
	}
	return l.db.Unscoped().
		Delete(WishlistEntry{}, "user = ? and movie_id = ?", user, movieID).Error
}
