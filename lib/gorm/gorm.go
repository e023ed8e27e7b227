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

package gorm

import (
	"errors"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	g "gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gorm model with bookkeeping fields excluded from json serialization.
//
// note that gorm uses reflection so fields can be added or removed as needed.
type Model struct {
	ID        uint        `gorm:"primarykey"`
	CreatedAt time.Time   `json:"-"`
	UpdatedAt time.Time   `json:"-"`
	DeletedAt g.DeletedAt `gorm:"index" json:"-"`
}

var ErrDriverNotSupported = errors.New("driver not supported")

// Open a database connection using the named driver. Supported drivers are
// sqlite3, mysql and postgres.
func Open(driver, source string, logMode bool) (*g.DB, error) {
	var glog logger.Interface
	if logMode == false {
		glog = logger.Discard
	} else {
		glog = logger.Default
	}
	cfg := &g.Config{
		Logger: glog,
	}

	switch driver {
	case "sqlite3":
		return g.Open(sqlite.Open(source), cfg)
	case "mysql":
		return g.Open(mysql.Open(source), cfg)
	case "postgres":
		return g.Open(postgres.Open(source), cfg)
	}
	return nil, ErrDriverNotSupported
}
