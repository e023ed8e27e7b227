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

// Package auth manages users, admins and the signed tokens that identify
// them. Users are keyed by email and referenced by email everywhere else.
package auth

import (
	"bytes"
	"crypto/rand"
	"errors"
	"time"

	"github.com/defsub/marquee/config"
	gdb "github.com/defsub/marquee/lib/gorm"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/scrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrAdminNotFound       = errors.New("admin not found")
	ErrAdminExists         = errors.New("admin already exists")
	ErrKeyMismatch         = errors.New("key mismatch")
	ErrInvalidTokenSubject = errors.New("invalid subject")
	ErrInvalidTokenMethod  = errors.New("invalid token method")
	ErrInvalidTokenIssuer  = errors.New("invalid token issuer")
	ErrInvalidTokenClaims  = errors.New("invalid token claims")
	ErrInvalidTokenSecret  = errors.New("invalid token secret")
	ErrTokenExpired        = errors.New("token expired")
)

type User struct {
	gorm.Model
	Email string `gorm:"uniqueIndex:idx_user_email"`
	Name  string
	Key   []byte `json:"-"`
	Salt  []byte `json:"-"`
}

type Admin struct {
	gorm.Model
	Email string `gorm:"uniqueIndex:idx_admin_email"`
	Key   []byte `json:"-"`
	Salt  []byte `json:"-"`
}

// FavoriteGenre is one genre a user likes, used to personalize picks.
type FavoriteGenre struct {
	gorm.Model
	User string `gorm:"index:idx_favorite_user"`
	Name string
}

type Auth struct {
	config *config.Config
	db     *gorm.DB
}

func NewAuth(config *config.Config) *Auth {
	if config.Auth.UserToken.Secret == "" {
		panic(ErrInvalidTokenSecret)
	}
	if config.Auth.AdminToken.Secret == "" {
		panic(ErrInvalidTokenSecret)
	}
	return &Auth{config: config}
}

func (a *Auth) Open() (err error) {
	a.db, err = gdb.Open(
		a.config.Auth.DB.Driver,
		a.config.Auth.DB.Source,
		a.config.Auth.DB.LogMode)
	if err != nil {
		return
	}
	err = a.db.AutoMigrate(&Admin{}, &FavoriteGenre{}, &User{})
	return
}

func (a *Auth) Close() {
	conn, err := a.db.DB()
	if err != nil {
		return
	}
	conn.Close()
}

// AddUser adds a new user to the user database.
func (a *Auth) AddUser(email, pass, name string) error {
	if _, err := a.User(email); err == nil {
		return ErrUserExists
	}

	salt := make([]byte, 8)
	_, err := rand.Read(salt)
	if err != nil {
		return err
	}

	key, err := a.key(pass, salt)
	if err != nil {
		return err
	}

	u := User{Email: email, Name: name, Key: key, Salt: salt}

	return a.createUser(&u)
}

// User returns the user found with the provided email.
func (a *Auth) User(email string) (User, error) {
	var u User
	err := a.db.Where("email = ?", email).First(&u).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// Users returns all users, ordered by email.
func (a *Auth) Users() []User {
	var users []User
	a.db.Order("email").Find(&users)
	return users
}

// Check will check if the provided email and password match a user in the
// database.
func (a *Auth) Check(email, pass string) (User, error) {
	u, err := a.User(email)
	if err != nil {
		return u, ErrUserNotFound
	}

	key, err := a.key(pass, u.Salt)
	if err != nil {
		return User{}, err
	}

	if !bytes.Equal(u.Key, key) {
		return User{}, ErrKeyMismatch
	}

	return u, nil
}

func CredentialsError(err error) bool {
	switch err {
	case ErrUserNotFound, ErrAdminNotFound, ErrKeyMismatch:
		return true
	default:
		return false
	}
}

// ChangePass changes the password associated with the provided email. Use
// Check prior to this if you'd like to verify the current password.
func (a *Auth) ChangePass(email, newpass string) error {
	u, err := a.User(email)
	if err != nil {
		return ErrUserNotFound
	}

	salt := make([]byte, 8)
	_, err = rand.Read(salt)
	if err != nil {
		return err
	}

	key, err := a.key(newpass, salt)
	if err != nil {
		return err
	}

	u.Salt = salt
	u.Key = key

	return a.db.Model(u).Update("salt", u.Salt).Update("key", u.Key).Error
}

// ChangeName updates the display name for the provided email.
func (a *Auth) ChangeName(email, name string) error {
	u, err := a.User(email)
	if err != nil {
		return ErrUserNotFound
	}
	u.Name = name
	return a.updateUser(&u)
}

// DeleteUser removes the user and their favorite genres.
func (a *Auth) DeleteUser(email string) error {
	u, err := a.User(email)
	if err != nil {
		return ErrUserNotFound
	}
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&u).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(FavoriteGenre{}, "user = ?", email).Error
	})
}

// FavoriteGenres returns the user's favorite genre names.
func (a *Auth) FavoriteGenres(email string) []string {
	var favorites []FavoriteGenre
	var list []string
	a.db.Where("user = ?", email).Order("name").Find(&favorites)
	for _, f := range favorites {
		list = append(list, f.Name)
	}
	return list
}

// SetFavoriteGenres replaces the user's favorite genres.
func (a *Auth) SetFavoriteGenres(email string, genres []string) error {
	if _, err := a.User(email); err != nil {
		return ErrUserNotFound
	}
	return a.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Unscoped().Delete(FavoriteGenre{}, "user = ?", email).Error
		if err != nil {
			return err
		}
		for _, name := range genres {
			f := FavoriteGenre{User: email, Name: name}
			if err := tx.Create(&f).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AddAdmin adds a new admin to the database.
func (a *Auth) AddAdmin(email, pass string) error {
	if _, err := a.Admin(email); err == nil {
		return ErrAdminExists
	}

	salt := make([]byte, 8)
	_, err := rand.Read(salt)
	if err != nil {
		return err
	}

	key, err := a.key(pass, salt)
	if err != nil {
		return err
	}

	admin := Admin{Email: email, Key: key, Salt: salt}

	return a.db.Create(&admin).Error
}

// Admin returns the admin found with the provided email.
func (a *Auth) Admin(email string) (Admin, error) {
	var admin Admin
	err := a.db.Where("email = ?", email).First(&admin).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return Admin{}, ErrAdminNotFound
	}
	return admin, nil
}

// CheckAdmin will check if the provided email and password match an admin.
func (a *Auth) CheckAdmin(email, pass string) (Admin, error) {
	admin, err := a.Admin(email)
	if err != nil {
		return admin, ErrAdminNotFound
	}

	key, err := a.key(pass, admin.Salt)
	if err != nil {
		return Admin{}, err
	}

	if !bytes.Equal(admin.Key, key) {
		return Admin{}, ErrKeyMismatch
	}

	return admin, nil
}

// ChangeAdminPass changes the password associated with the provided admin
// email. Use CheckAdmin prior to this to verify the current password.
func (a *Auth) ChangeAdminPass(email, newpass string) error {
	admin, err := a.Admin(email)
	if err != nil {
		return ErrAdminNotFound
	}

	salt := make([]byte, 8)
	_, err = rand.Read(salt)
	if err != nil {
		return err
	}

	key, err := a.key(newpass, salt)
	if err != nil {
		return err
	}

	admin.Salt = salt
	admin.Key = key

	return a.db.Model(admin).Update("salt", admin.Salt).Update("key", admin.Key).Error
}

// DeleteAdmin removes the admin with the provided email.
func (a *Auth) DeleteAdmin(email string) error {
	admin, err := a.Admin(email)
	if err != nil {
		return ErrAdminNotFound
	}
	return a.db.Unscoped().Delete(&admin).Error
}

// newToken creates a new JWT token for the provided subject.
func newToken(subject string, cfg config.TokenConfig) (string, error) {
	age := int(cfg.Age.Seconds())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.StandardClaims{
			Issuer:    cfg.Issuer,
			Subject:   subject,
			ExpiresAt: time.Now().Add(time.Second * time.Duration(age)).Unix(),
		})
	return token.SignedString([]byte(cfg.Secret))
}

// NewUserToken creates a new JWT token for the provided user.
func (a *Auth) NewUserToken(u User) (string, error) {
	return newToken(u.Email, a.config.Auth.UserToken)
}

// NewAdminToken creates a new JWT token for the provided admin.
func (a *Auth) NewAdminToken(admin Admin) (string, error) {
	return newToken(admin.Email, a.config.Auth.AdminToken)
}

func (a *Auth) CheckUserToken(signedToken string) error {
	_, _, err := a.processToken(signedToken, a.config.Auth.UserToken)
	return err
}

func (a *Auth) CheckUserTokenUser(signedToken string) (User, error) {
	_, claims, err := a.processToken(signedToken, a.config.Auth.UserToken)
	if err != nil {
		return User{}, err
	}
	return a.User(claims.Subject)
}

func (a *Auth) CheckAdminToken(signedToken string) error {
	_, _, err := a.processToken(signedToken, a.config.Auth.AdminToken)
	return err
}

func (a *Auth) CheckAdminTokenAdmin(signedToken string) (Admin, error) {
	_, claims, err := a.processToken(signedToken, a.config.Auth.AdminToken)
	if err != nil {
		return Admin{}, err
	}
	return a.Admin(claims.Subject)
}

// Authenticate implements hub.Authenticator using user tokens.
func (a *Auth) Authenticate(signedToken string) bool {
	return a.CheckUserToken(signedToken) == nil
}

// processToken parses and verifies the signed token is valid.
func (a *Auth) processToken(signedToken string, cfg config.TokenConfig) (*jwt.Token, *jwt.StandardClaims, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&jwt.StandardClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.Secret), nil
		})
	if err != nil {
		return nil, nil, err
	}
	if token.Method != jwt.SigningMethodHS256 {
		return nil, nil, ErrInvalidTokenMethod
	}
	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok {
		return nil, nil, ErrInvalidTokenClaims
	}
	if claims.Issuer != cfg.Issuer {
		return nil, nil, ErrInvalidTokenIssuer
	}
	if claims.ExpiresAt < time.Now().Unix() {
		return nil, nil, ErrTokenExpired
	}
	if claims.Subject == "" {
		return nil, nil, ErrInvalidTokenSubject
	}
	return token, claims, nil
}

func (a *Auth) key(pass string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(pass), salt, 32768, 8, 1, 32)
}

func (a *Auth) createUser(u *User) (err error) {
	err = a.db.Create(u).Error
	return
}

func (a *Auth) updateUser(u *User) (err error) {
	err = a.db.Save(u).Error
	return
}
