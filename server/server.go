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
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bmizerany/pat"
	"github.com/defsub/marquee/auth"
	"github.com/defsub/marquee/catalog"
	"github.com/defsub/marquee/config"
	"github.com/defsub/marquee/discussion"
	"github.com/defsub/marquee/library"
	"github.com/defsub/marquee/lib/hub"
	"github.com/defsub/marquee/lib/log"
	"github.com/defsub/marquee/recommend"
	"github.com/defsub/marquee/reminder"
	"golang.org/x/time/rate"
)

const (
	AuthorizationHeader = "Authorization"
	BearerAuthorization = "Bearer"
)

func bearerToken(r *http.Request) string {
	value := r.Header.Get(AuthorizationHeader)
	if value == "" {
		return ""
	}
	result := strings.Split(value, " ")
	switch len(result) {
	case 1:
		// Authorization: <token>
		return result[0]
	case 2:
		// Authorization: Bearer <token>
		if strings.EqualFold(result[0], BearerAuthorization) {
			return result[1]
		}
	}
	return ""
}

func authorizeUser(ctx Context, r *http.Request) *auth.User {
	token := bearerToken(r)
	if token == "" {
		return nil
	}
	user, err := ctx.Auth().CheckUserTokenUser(token)
	if err != nil {
		return nil
	}
	return &user
}

func authorizeAdmin(ctx Context, r *http.Request) *auth.Admin {
	token := bearerToken(r)
	if token == "" {
		return nil
	}
	admin, err := ctx.Auth().CheckAdminTokenAdmin(token)
	if err != nil {
		return nil
	}
	return &admin
}

// requestHandler serves unauthenticated requests.
func requestHandler(ctx RequestContext, handler http.HandlerFunc) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, withContext(r, ctx))
	}
	return http.HandlerFunc(fn)
}

// userHandler requires a valid user bearer token.
func userHandler(ctx RequestContext, handler http.HandlerFunc) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		user := authorizeUser(ctx, r)
		if user == nil {
			apiErr(w, ErrUnauthorized)
			return
		}
		rctx := ctx
		rctx.user = user
		handler.ServeHTTP(w, withContext(r, rctx))
	}
	return http.HandlerFunc(fn)
}

// adminHandler requires a valid admin bearer token. User tokens are issued
// by a different issuer and never pass.
func adminHandler(ctx RequestContext, handler http.HandlerFunc) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		admin := authorizeAdmin(ctx, r)
		if admin == nil {
			apiErr(w, ErrUnauthorized)
			return
		}
		rctx := ctx
		rctx.admin = admin
		handler.ServeHTTP(w, withContext(r, rctx))
	}
	return http.HandlerFunc(fn)
}

func hubHandler(ctx RequestContext, h *hub.Hub) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		r = withContext(r, ctx)
		h.Handle(ctx.Auth(), w, r)
	}
	return http.HandlerFunc(fn)
}

// rateLimit applies a global token bucket to the whole mux.
func rateLimit(config *config.Config, next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(config.Server.RateLimit),
		config.Server.RateBurst)
	fn := func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeStatus(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

func makeAuth(config *config.Config) (*auth.Auth, error) {
	a := auth.NewAuth(config)
	err := a.Open()
	return a, err
}

func makeCatalog(config *config.Config) (*catalog.Catalog, error) {
	c := catalog.NewCatalog(config)
	err := c.Open()
	return c, err
}

func makeLibrary(config *config.Config, c *catalog.Catalog) (*library.Library, error) {
	l := library.NewLibrary(config, c)
	err := l.Open()
	return l, err
}

func makeBoard(config *config.Config, c *catalog.Catalog) (*discussion.Board, error) {
	b := discussion.NewBoard(config, c)
	err := b.Open()
	return b, err
}

func makeDispatcher(config *config.Config, c *catalog.Catalog, h *hub.Hub) (*reminder.Dispatcher, error) {
	d := reminder.NewDispatcher(config)
	err := d.Open()
	if err != nil {
		return nil, err
	}
	titles := movieTitles{catalog: c}
	d.SetNotifier(reminder.NotifyEmail, reminder.NewMailer(&config.Mail, titles))
	d.SetNotifier(reminder.NotifyDashboard, reminder.NewDashboard(h, titles))
	return d, nil
}

func makeHub() *hub.Hub {
	h := hub.NewHub()
	go h.Run()
	return h
}

func Serve(config *config.Config) error {
	auther, err := makeAuth(config)
	log.CheckError(err)

	cat, err := makeCatalog(config)
	log.CheckError(err)

	lib, err := makeLibrary(config, cat)
	log.CheckError(err)

	board, err := makeBoard(config, cat)
	log.CheckError(err)

	h := makeHub()

	dispatcher, err := makeDispatcher(config, cat, h)
	log.CheckError(err)

	engine := recommend.NewEngine(config, cat, auther, lib)

	schedule(config, dispatcher)

	// base context for all requests
	ctx := RequestContext{
		auth:      auther,
		board:     board,
		catalog:   cat,
		config:    config,
		engine:    engine,
		library:   lib,
		reminders: dispatcher,
	}

	mux := pat.New()

	// users
	mux.Post("/api/users/register", requestHandler(ctx, apiUserRegister))
	mux.Post("/api/users/login", requestHandler(ctx, apiUserLogin))
	mux.Get("/api/users/profile", userHandler(ctx, apiProfileGet))
	mux.Put("/api/users/profile", userHandler(ctx, apiProfileUpdate))
	mux.Get("/api/users/wishlist", userHandler(ctx, apiWishlistGet))
	mux.Post("/api/users/wishlist", userHandler(ctx, apiWishlistAdd))
	mux.Del("/api/users/wishlist/:id", userHandler(ctx, apiWishlistRemove))

	// movies
	mux.Get("/api/movies", requestHandler(ctx, apiMovies))
	mux.Post("/api/movies", adminHandler(ctx, apiMovieAdd))
	mux.Get("/api/movies/search", requestHandler(ctx, apiSearch))
	mux.Get("/api/movies/filter", requestHandler(ctx, apiFilter))
	mux.Get("/api/movies/filter/advanced", requestHandler(ctx, apiAdvancedFilter))
	mux.Get("/api/movies/insights", adminHandler(ctx, apiInsights))
	mux.Get("/api/movies/:id", requestHandler(ctx, apiMovieGet))
	mux.Put("/api/movies/:id", adminHandler(ctx, apiMovieUpdate))
	mux.Del("/api/movies/:id", adminHandler(ctx, apiMovieDelete))
	mux.Post("/api/movies/:id/poster", adminHandler(ctx, apiPosterUpload))

	// reviews
	mux.Get("/api/movies/:id/reviews", requestHandler(ctx, apiReviews))
	mux.Post("/api/movies/:id/reviews", userHandler(ctx, apiReviewAdd))
	mux.Put("/api/movies/:id/reviews", userHandler(ctx, apiReviewUpdate))
	mux.Del("/api/reviews/:id", userHandler(ctx, apiReviewDelete))
	mux.Del("/api/admin/reviews/:id", adminHandler(ctx, apiReviewRemove))

	// lists
	mux.Get("/api/lists", userHandler(ctx, apiLists))
	mux.Post("/api/lists", userHandler(ctx, apiListCreate))
	mux.Get("/api/lists/followed", userHandler(ctx, apiListsFollowed))
	mux.Get("/api/lists/:id", userHandler(ctx, apiListGet))
	mux.Patch("/api/lists/:id", userHandler(ctx, apiListPatch))
	mux.Del("/api/lists/:id", userHandler(ctx, apiListDelete))
	mux.Post("/api/lists/:id/share", userHandler(ctx, apiListShare))
	mux.Post("/api/lists/:id/follow", userHandler(ctx, apiListFollow))

	// discussions
	mux.Get("/api/discussions", requestHandler(ctx, apiDiscussions))
	mux.Post("/api/discussions", userHandler(ctx, apiDiscussionCreate))
	mux.Post("/api/discussions/:id/comments", userHandler(ctx, apiDiscussionComment))

	// recommendations
	mux.Get("/api/recommendations", userHandler(ctx, apiRecommendations))
	mux.Get("/api/recommendations/similar/:id", requestHandler(ctx, apiSimilar))
	mux.Get("/api/recommendations/trending", requestHandler(ctx, apiTrending))
	mux.Get("/api/recommendations/toprated", requestHandler(ctx, apiTopRated))

	// upcoming
	mux.Get("/api/upcoming", requestHandler(ctx, apiUpcoming))
	mux.Get("/api/upcoming/reminders", userHandler(ctx, apiReminders))
	mux.Post("/api/upcoming/reminders", userHandler(ctx, apiReminderAdd))

	// admin
	mux.Post("/api/admin/register", requestHandler(ctx, apiAdminRegister))
	mux.Post("/api/admin/login", requestHandler(ctx, apiAdminLogin))
	mux.Get("/api/admin/profile", adminHandler(ctx, apiAdminProfileGet))
	mux.Put("/api/admin/profile", adminHandler(ctx, apiAdminProfileUpdate))
	mux.Del("/api/admin/profile", adminHandler(ctx, apiAdminProfileDelete))
	mux.Get("/api/admin/users", adminHandler(ctx, apiAdminUsers))

	// live dashboard
	mux.Get("/live", hubHandler(ctx, h))

	// posters
	uploadServer := http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(config.Server.ImageDir)))
	mux.Get("/uploads/", uploadServer)

	server := &http.Server{
		Addr:    config.Server.Listen,
		Handler: rateLimit(config, mux),
	}

	// stop accepting on SIGINT/SIGTERM and drain
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s\n", config.Server.Listen)
	err = server.ListenAndServe()
	if err == http.ErrServerClosed {
		err = nil
	}

	dispatcher.Close()
	board.Close()
	lib.Close()
	cat.Close()
	auther.Close()
	return err
}
