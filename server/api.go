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
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/defsub/marquee/catalog"
	"github.com/defsub/marquee/discussion"
	"github.com/defsub/marquee/lib/bucket"
	"github.com/defsub/marquee/lib/client"
	"github.com/defsub/marquee/lib/log"
	"github.com/defsub/marquee/lib/str"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	ApplicationJson = "application/json"
)

var validate = validator.New()

func writeJson(w http.ResponseWriter, result interface{}) {
	w.Header().Set("Content-Type", ApplicationJson)
	enc := json.NewEncoder(w)
	enc.Encode(result)
}

// decodeValid decodes the JSON request body and checks validation tags.
func decodeValid(r *http.Request, result interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(result); err != nil {
		return ErrInvalidContent
	}
	return validate.Struct(result)
}

func paramID(r *http.Request) (uint, error) {
	v := r.URL.Query().Get(":id")
	if v == "" {
		return 0, ErrMissingParam
	}
	id, err := strconv.Atoi(v)
	if err != nil || id < 0 {
		return 0, ErrInvalidContent
	}
	return uint(id), nil
}

// users

type registerRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Name     string
}

func apiUserRegister(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	var req registerRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	if err := ctx.Auth().AddUser(req.Email, req.Password, req.Name); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusCreated, "user created")
}

type loginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func apiUserLogin(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	var req loginRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	u, err := ctx.Auth().Check(req.Email, req.Password)
	if err != nil {
		apiErr(w, err)
		return
	}
	token, err := ctx.Auth().NewUserToken(u)
	if err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, LoginView{Token: token})
}

func apiProfileGet(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	user := ctx.User()
	writeJson(w, ProfileView{
		Email:          user.Email,
		Name:           user.Name,
		FavoriteGenres: ctx.Auth().FavoriteGenres(user.Email),
		Wishlist:       wishlistMovies(ctx, user.Email),
	})
}

type profileRequest struct {
	Name           string
	Password       string
	FavoriteGenres []string
}

func apiProfileUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	user := ctx.User()
	var req profileRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	if req.Name != "" {
		if err := ctx.Auth().ChangeName(user.Email, req.Name); err != nil {
			apiErr(w, err)
			return
		}
	}
	if req.Password != "" {
		if err := ctx.Auth().ChangePass(user.Email, req.Password); err != nil {
			apiErr(w, err)
			return
		}
	}
	if req.FavoriteGenres != nil {
		if err := ctx.Auth().SetFavoriteGenres(user.Email, req.FavoriteGenres); err != nil {
			apiErr(w, err)
			return
		}
	}
	writeStatus(w, http.StatusOK, "profile updated")
}

func wishlistMovies(ctx Context, user string) []catalog.Movie {
	var movies []catalog.Movie
	for _, id := range ctx.Library().Wishlist(user) {
		m, err := ctx.Catalog().Movie(id)
		if err != nil {
			continue
		}
		movies = append(movies, m)
	}
	return movies
}

func apiWishlistGet(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, wishlistMovies(ctx, ctx.User().Email))
}

type wishlistRequest struct {
	MovieID uint `validate:"required"`
}

func apiWishlistAdd(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	var req wishlistRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	if _, err := ctx.Catalog().Movie(req.MovieID); err != nil {
		apiErr(w, err)
		return
	}
	if err := ctx.Library().AddToWishlist(ctx.User().Email, req.MovieID); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusCreated, "added to wishlist")
}

func apiWishlistRemove(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	if err := ctx.Library().RemoveFromWishlist(ctx.User().Email, id); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "removed from wishlist")
}

// movies

func apiMovies(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, IndexView{
		Movies:   ctx.Catalog().TopMovies(ctx.Config().Catalog.RecentLimit),
		Upcoming: ctx.Catalog().UpcomingMovies(),
		Recent:   ctx.Catalog().RecentlyAdded(),
	})
}

func apiMovieGet(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	m, err := ctx.Catalog().Movie(id)
	if err != nil {
		apiErr(w, err)
		return
	}
	similar, _ := ctx.Engine().Similar(id)
	writeJson(w, MovieView{
		Movie:   m,
		Reviews: ctx.Catalog().Reviews(id),
		Similar: similar,
	})
}

func apiMovieAdd(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	var m catalog.Movie
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		apiErr(w, ErrInvalidContent)
		return
	}
	if m.Title == "" {
		apiErr(w, ErrInvalidContent)
		return
	}
	if err := ctx.Catalog().AddMovie(&m); err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, m)
}

func apiMovieUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	if _, err := ctx.Catalog().Movie(id); err != nil {
		apiErr(w, err)
		return
	}
	var m catalog.Movie
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		apiErr(w, ErrInvalidContent)
		return
	}
	if m.Title == "" {
		apiErr(w, ErrInvalidContent)
		return
	}
	m.ID = id
	if err := ctx.Catalog().UpdateMovie(&m); err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, m)
}

func apiMovieDelete(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	if err := ctx.Catalog().DeleteMovie(id); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "movie deleted")
}

func apiSearch(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	q := r.URL.Query().Get("q")
	if q == "" {
		apiErr(w, ErrMissingParam)
		return
	}
	movies := ctx.Catalog().Search(q)
	writeJson(w, SearchView{Query: q, Hits: len(movies), Movies: movies})
}

func queryFloat(r *http.Request, name string) float32 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 32)
	if err != nil {
		return 0
	}
	return float32(v)
}

func apiFilter(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	movies := ctx.Catalog().FilterMovies(
		queryFloat(r, "minRating"),
		queryFloat(r, "maxRating"),
		queryFloat(r, "minPopularity"),
		str.Atoi(r.URL.Query().Get("year")))
	writeJson(w, movies)
}

func apiAdvancedFilter(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	movies := ctx.Catalog().AdvancedFilter(
		str.Atoi(r.URL.Query().Get("decade")),
		r.URL.Query().Get("country"),
		r.URL.Query().Get("language"),
		r.URL.Query().Get("keyword"))
	writeJson(w, movies)
}

func apiInsights(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	limit := ctx.Config().Recommend.InsightLimit
	writeJson(w, InsightsView{
		MovieCount:      ctx.Catalog().MovieCount(),
		TopMovies:       ctx.Catalog().TopMovies(limit),
		ActiveReviewers: ctx.Catalog().ActiveReviewers(limit),
	})
}

// apiPosterUpload accepts a multipart "poster" file or a JSON body with a URL
// to fetch. The image lands in ImageDir and optionally in the first bucket.
func apiPosterUpload(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	m, err := ctx.Catalog().Movie(id)
	if err != nil {
		apiErr(w, err)
		return
	}

	data, err := posterData(ctx, r)
	if err != nil {
		apiErr(w, err)
		return
	}

	var ext string
	switch http.DetectContentType(data) {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	default:
		apiErr(w, ErrInvalidContent)
		return
	}

	name := uuid.New().String() + ext
	path := filepath.Join(ctx.Config().Server.ImageDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		apiErr(w, err)
		return
	}

	m.PosterPath = "/uploads/" + name
	if u := storePoster(ctx, name, data); u != "" {
		m.PosterPath = u
	}
	if err := ctx.Catalog().UpdateMovie(&m); err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, m)
}

func posterData(ctx Context, r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, ErrInvalidContent
		}
		file, _, err := r.FormFile("poster")
		if err != nil {
			return nil, ErrInvalidContent
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	var req struct {
		URL string `validate:"required,url"`
	}
	if err := decodeValid(r, &req); err != nil {
		return nil, err
	}
	c := client.NewClient(&ctx.Config().Client)
	_, data, err := c.Get(req.URL)
	return data, err
}

// storePoster puts the image in the first usable bucket and returns a
// presigned GET url, or "" when no bucket took it.
func storePoster(ctx Context, name string, data []byte) string {
	for _, cfg := range ctx.Config().Buckets {
		b, err := bucket.Open(cfg)
		if err != nil {
			log.Printf("bucket open failed: %s\n", err)
			continue
		}
		err = b.Put(name, http.DetectContentType(data), data)
		if err != nil {
			log.Printf("bucket put failed: %s\n", err)
			continue
		}
		if u := b.Presign(name); u != nil {
			return u.String()
		}
	}
	return ""
}

// reviews

func apiReviews(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	if _, err := ctx.Catalog().Movie(id); err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, ctx.Catalog().Reviews(id))
}

type reviewRequest struct {
	Rating  int `validate:"required"`
	Comment string
}

func apiReviewAdd(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	var req reviewRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	review, err := ctx.Catalog().AddReview(id, ctx.User().Email, req.Rating, req.Comment)
	if err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, review)
}

type reviewUpdateRequest struct {
	Rating  int
	Comment string
}

func apiReviewUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	var req reviewUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiErr(w, ErrInvalidContent)
		return
	}
	review, err := ctx.Catalog().UpdateReview(id, ctx.User().Email, req.Rating, req.Comment)
	if err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, review)
}

func apiReviewDelete(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	if err := ctx.Catalog().DeleteReview(id, ctx.User().Email); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "review deleted")
}

func apiReviewRemove(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	if err := ctx.Catalog().RemoveReview(id); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "review removed")
}

// lists

func apiLists(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, ctx.Library().UserLists(ctx.User().Email))
}

type listRequest struct {
	Name        string `validate:"required"`
	Description string
	MovieIDs    []uint
}

func apiListCreate(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	var req listRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	list, err := ctx.Library().CreateList(ctx.User().Email, req.Name, req.Description, req.MovieIDs)
	if err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, list)
}

func apiListGet(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	list, err := ctx.Library().List(id)
	if err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, list)
}

func apiListPatch(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	patch, err := io.ReadAll(r.Body)
	if err != nil {
		apiErr(w, ErrInvalidContent)
		return
	}
	list, err := ctx.Library().PatchList(id, ctx.User().Email, patch)
	if err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, list)
}

func apiListDelete(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	if err := ctx.Library().DeleteList(id, ctx.User().Email); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "list deleted")
}

type shareRequest struct {
	User string `validate:"required,email"`
}

func apiListShare(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	var req shareRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	if _, err := ctx.Auth().User(req.User); err != nil {
		apiErr(w, err)
		return
	}
	if err := ctx.Library().ShareList(id, ctx.User().Email, req.User); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "list shared")
}

func apiListFollow(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	if err := ctx.Library().FollowList(id, ctx.User().Email); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "list followed")
}

func apiListsFollowed(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, ctx.Library().FollowedLists(ctx.User().Email))
}

// discussions

func apiDiscussions(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, ctx.Board().Discussions())
}

type discussionRequest struct {
	Title       string `validate:"required"`
	Content     string `validate:"required"`
	Category    string `validate:"required"`
	RelatedID   uint
	RelatedName string
}

func apiDiscussionCreate(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	var req discussionRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	d := discussion.Discussion{
		Title:       req.Title,
		Author:      ctx.User().Email,
		Content:     req.Content,
		Category:    req.Category,
		RelatedID:   req.RelatedID,
		RelatedName: req.RelatedName,
	}
	if err := ctx.Board().CreateDiscussion(&d); err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, d)
}

type commentRequest struct {
	Content string `validate:"required"`
}

func apiDiscussionComment(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	var req commentRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	comment, err := ctx.Board().AddComment(id, ctx.User().Email, req.Content)
	if err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, comment)
}

// recommendations

func apiRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, RecommendView{
		Personalized: ctx.Engine().Personalized(ctx.User().Email),
		Seasonal:     ctx.Engine().Seasonal(),
	})
}

func apiSimilar(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	id, err := paramID(r)
	if err != nil {
		apiErr(w, err)
		return
	}
	movies, err := ctx.Engine().Similar(id)
	if err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, movies)
}

func apiTrending(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, ctx.Engine().Trending())
}

func apiTopRated(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, ctx.Engine().TopRated())
}

// upcoming

func apiUpcoming(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, UpcomingView{Movies: ctx.Catalog().UpcomingMovies()})
}

func apiReminders(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, ctx.Reminders().Reminders(ctx.User().Email))
}

type reminderRequest struct {
	MovieID          uint   `validate:"required"`
	NotificationType string `validate:"required"`
	ReminderDate     time.Time
}

func apiReminderAdd(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	var req reminderRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	m, err := ctx.Catalog().Movie(req.MovieID)
	if err != nil {
		apiErr(w, err)
		return
	}
	when := req.ReminderDate
	if when.IsZero() {
		when = m.ReleaseDate
	}
	reminder, err := ctx.Reminders().Add(ctx.User().Email, req.MovieID, when, req.NotificationType)
	if err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, reminder)
}

// admin

func apiAdminRegister(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	var req loginRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	if err := ctx.Auth().AddAdmin(req.Email, req.Password); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusCreated, "admin created")
}

func apiAdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	var req loginRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	admin, err := ctx.Auth().CheckAdmin(req.Email, req.Password)
	if err != nil {
		apiErr(w, err)
		return
	}
	token, err := ctx.Auth().NewAdminToken(admin)
	if err != nil {
		apiErr(w, err)
		return
	}
	writeJson(w, LoginView{Token: token})
}

func apiAdminProfileGet(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, AdminProfileView{Email: ctx.Admin().Email})
}

type adminProfileRequest struct {
	Password string `validate:"required,min=8"`
}

func apiAdminProfileUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	var req adminProfileRequest
	if err := decodeValid(r, &req); err != nil {
		apiErr(w, err)
		return
	}
	if err := ctx.Auth().ChangeAdminPass(ctx.Admin().Email, req.Password); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "profile updated")
}

func apiAdminProfileDelete(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	if err := ctx.Auth().DeleteAdmin(ctx.Admin().Email); err != nil {
		apiErr(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "admin deleted")
}

func apiAdminUsers(w http.ResponseWriter, r *http.Request) {
	ctx := contextValue(r)
	writeJson(w, ctx.Auth().Users())
}
