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
	"errors"
	"net/http"

	"github.com/defsub/marquee/auth"
	"github.com/defsub/marquee/catalog"
	"github.com/defsub/marquee/discussion"
	"github.com/defsub/marquee/library"
	"github.com/defsub/marquee/reminder"
	"github.com/go-playground/validator/v10"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrMissingParam   = errors.New("missing parameter")
	ErrInvalidContent = errors.New("invalid content")
)

type status struct {
	Status  int
	Message string
	Error   string `json:",omitempty"`
}

func writeStatus(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.Encode(status{Status: code, Message: message})
}

// apiErr translates domain errors into the response envelope.
func apiErr(w http.ResponseWriter, err error) {
	code := errCode(err)
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.Encode(status{Status: code, Message: http.StatusText(code), Error: err.Error()})
}

func errCode(err error) int {
	switch err {
	case catalog.ErrMovieNotFound,
		catalog.ErrReviewNotFound,
		library.ErrListNotFound,
		library.ErrNotInWishlist,
		discussion.ErrDiscussionNotFound,
		auth.ErrUserNotFound,
		ErrMissingParam:
		return http.StatusNotFound
	case catalog.ErrNotReviewOwner,
		library.ErrNotListOwner:
		return http.StatusForbidden
	case catalog.ErrDuplicateReview,
		library.ErrAlreadyInWishlist,
		auth.ErrUserExists,
		auth.ErrAdminExists:
		return http.StatusConflict
	case catalog.ErrInvalidRating,
		discussion.ErrInvalidCategory,
		discussion.ErrUnknownReference,
		reminder.ErrInvalidNotifyType,
		ErrInvalidContent:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	}

	if auth.CredentialsError(err) {
		return http.StatusUnauthorized
	}
	// unresolved movie ids are a lookup failure, not a malformed request
	var missing library.MissingMoviesError
	if errors.As(err, &missing) {
		return http.StatusNotFound
	}
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
