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

package server

import (
	"context"
	"net/http"

	"github.com/defsub/marquee/auth"
	"github.com/defsub/marquee/catalog"
	"github.com/defsub/marquee/config"
	"github.com/defsub/marquee/discussion"
	"github.com/defsub/marquee/library"
	"github.com/defsub/marquee/recommend"
	"github.com/defsub/marquee/reminder"
)

type contextKey string

var contextKeyContext = contextKey("context")

func withContext(r *http.Request, ctx Context) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), contextKeyContext, ctx))
}

func contextValue(r *http.Request) Context {
	return r.Context().Value(contextKeyContext).(Context)
}

type Context interface {
	Auth() *auth.Auth
	Board() *discussion.Board
	Catalog() *catalog.Catalog
	Config() *config.Config
	Engine() *recommend.Engine
	Library() *library.Library
	Reminders() *reminder.Dispatcher

	User() *auth.User
	Admin() *auth.Admin
}

type RequestContext struct {
	auth      *auth.Auth
	board     *discussion.Board
	catalog   *catalog.Catalog
	config    *config.Config
	engine    *recommend.Engine
	library   *library.Library
	reminders *reminder.Dispatcher
	user      *auth.User
	admin     *auth.Admin
}

func (ctx RequestContext) Auth() *auth.Auth {
	return ctx.auth
}

func (ctx RequestContext) Board() *discussion.Board {
	return ctx.board
}

func (ctx RequestContext) Catalog() *catalog.Catalog {
	return ctx.catalog
}

func (ctx RequestContext) Config() *config.Config {
	return ctx.config
}

func (ctx RequestContext) Engine() *recommend.Engine {
	return ctx.engine
}

func (ctx RequestContext) Library() *library.Library {
	return ctx.library
}

func (ctx RequestContext) Reminders() *reminder.Dispatcher {
	return ctx.reminders
}

func (ctx RequestContext) User() *auth.User {
	return ctx.user
}

func (ctx RequestContext) Admin() *auth.Admin {
	return ctx.admin
}
