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

// Package discussion holds threaded talk about movies, genres and actors.
// The category reference is validated against the catalog when the thread is
// created, so a thread never points at something that didn't exist.
package discussion

import (
	"errors"

	"github.com/defsub/marquee/config"
	"github.com/defsub/marquee/lib/gorm"
	g "gorm.io/gorm"
)

const (
	CategoryMovie = "movie"
	CategoryGenre = "genre"
	CategoryActor = "actor"
)

var (
	ErrDiscussionNotFound = errors.New("discussion not found")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrUnknownReference   = errors.New("category reference not in catalog")
)

// Reference checks discussion subjects against the catalog.
type Reference interface {
	MissingMovies(ids []uint) []uint
	HasGenre(name string) bool
	HasActor(name string) bool
}

type Discussion struct {
	gorm.Model
	Title       string
	Author      string
	Content     string
	Category    string
	RelatedID   uint   // movie category
	RelatedName string // genre and actor categories

	Comments []Comment `gorm:"-"`
}

type Comment struct {
	gorm.Model
	DiscussionID uint `gorm:"index:idx_comment_discussion"`
	User         string
	Content      string
}

type Board struct {
	config    *config.Config
	db        *g.DB
	reference Reference
}

func NewBoard(config *config.Config, reference Reference) *Board {
	return &Board{
		config:    config,
		reference: reference,
	}
}

func (b *Board) Open() (err error) {
	b.db, err = gorm.Open(
		b.config.Discussion.DB.Driver,
		b.config.Discussion.DB.Source,
		b.config.Discussion.DB.LogMode)
	if err != nil {
		return
	}
	err = b.db.AutoMigrate(&Comment{}, &Discussion{})
	return
}

func (b *Board) Close() {
	conn, err := b.db.DB()
	if err != nil {
		return
	}
	conn.Close()
}

// CreateDiscussion validates the category reference and creates the thread.
func (b *Board) CreateDiscussion(d *Discussion) error {
	switch d.Category {
	case CategoryMovie:
		if missing := b.reference.MissingMovies([]uint{d.RelatedID}); len(missing) > 0 {
			return ErrUnknownReference
		}
	case CategoryGenre:
		if !b.reference.HasGenre(d.RelatedName) {
			return ErrUnknownReference
		}
	case CategoryActor:
		if !b.reference.HasActor(d.RelatedName) {
			return ErrUnknownReference
		}
	default:
		return ErrInvalidCategory
	}
	return b.db.Create(d).Error
}

// Discussion returns the thread with its comments.
func (b *Board) Discussion(id uint) (Discussion, error) {
	var d Discussion
	err := b.db.First(&d, id).Error
	if err != nil && errors.Is(err, g.ErrRecordNotFound) {
		return Discussion{}, ErrDiscussionNotFound
	}
	d.Comments = b.comments(id)
	return d, nil
}

// Discussions returns all threads, newest first, comments included.
func (b *Board) Discussions() []Discussion {
	var discussions []Discussion
	b.db.Order("created_at desc").Find(&discussions)
	for i := range discussions {
		discussions[i].Comments = b.comments(discussions[i].ID)
	}
	return discussions
}

// AddComment appends a comment to the thread.
func (b *Board) AddComment(discussionID uint, user, content string) (Comment, error) {
	if _, err := b.Discussion(discussionID); err != nil {
		return Comment{}, err
	}
	comment := Comment{DiscussionID: discussionID, User: user, Content: content}
	err := b.db.Create(&comment).Error
	return comment, err
}

func (b *Board) comments(discussionID uint) []Comment {
	var comments []Comment
	b.db.Where("discussion_id = ?", discussionID).Order("id").Find(&comments)
	return comments
}
