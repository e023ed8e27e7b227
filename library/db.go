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

package library

import (
	"errors"

	gdb "github.com/defsub/marquee/lib/gorm"
	g "gorm.io/gorm"
)

func (l *Library) openDB() (err error) {
	l.db, err = gdb.Open(
		l.config.Library.DB.Driver,
		l.config.Library.DB.Source,
		l.config.Library.DB.LogMode)
	if err != nil {
		return
	}
	err = l.db.AutoMigrate(&List{}, &ListEntry{}, &ListFollower{},
		&ListShare{}, &WishlistEntry{})
	return
}

func (l *Library) closeDB() {
	conn, err := l.db.DB()
	if err != nil {
		return
	}
	conn.Close()
}

// List returns the list with its movie ids hydrated.
func (l *Library) List(id uint) (List, error) {
	var list List
	err := l.db.First(&list, id).Error
	if err != nil && errors.Is(err, g.ErrRecordNotFound) {
		return List{}, ErrListNotFound
	}
	list.MovieIDs = l.movieIDs(id)
	return list, nil
}

// UserLists returns lists the user owns or was given access to.
func (l *Library) UserLists(user string) []List {
	var lists []List
	l.db.Where("owner = ? or id in (select list_id from list_shares where user = ?)",
		user, user).Order("name").Find(&lists)
	for i := range lists {
		lists[i].MovieIDs = l.movieIDs(lists[i].ID)
	}
	return lists
}

// FollowedLists returns lists the user follows.
func (l *Library) FollowedLists(user string) []List {
	var lists []List
	l.db.Where("id in (select list_id from list_followers where user = ?)", user).
		Order("name").Find(&lists)
	for i := range lists {
		lists[i].MovieIDs = l.movieIDs(lists[i].ID)
	}
	return lists
}

// Wishlist returns the user's wishlist movie ids, oldest first.
func (l *Library) Wishlist(user string) []uint {
	var entries []WishlistEntry
	var ids []uint
	l.db.Where("user = ?", user).Order("id").Find(&entries)
	for _, e := range entries {
		ids = append(ids, e.MovieID)
	}
	return ids
}

func (l *Library) movieIDs(listID uint) []uint {
	var entries []ListEntry
	var ids []uint
	l.db.Where("list_id = ?", listID).Order("id").Find(&entries)
	for _, e := range entries {
		ids = append(ids, e.MovieID)
	}
	return ids
}

func (l *Library) hasShare(listID uint, user string) bool {
	var count int64
	l.db.Model(&ListShare{}).
		Where("list_id = ? and user = ?", listID, user).Count(&count)
	return count > 0
}

func (l *Library) hasFollower(listID uint, user string) bool {
	var count int64
	l.db.Model(&ListFollower{}).
		Where("list_id = ? and user = ?", listID, user).Count(&count)
	return count > 0
}

func (l *Library) hasWishlistEntry(user string, movieID uint) bool {
	var count int64
	l.db.Model(&WishlistEntry{}).
		Where("user = ? and movie_id = ?", user, movieID).Count(&count)
	return count > 0
}

func createEntries(tx *g.DB, listID uint, movieIDs []uint) error {
	for _, movieID := range movieIDs {
		e := ListEntry{ListID: listID, MovieID: movieID}
		if err := tx.Create(&e).Error; err != nil {
			return err
		}
	}
	return nil
}
