package model

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/puoklam/microblog-backend/hash"
	"gorm.io/gorm"
)

const (
	maxNameLen         = 50
	maxUsernameLen     = 50
	maxEmailLen        = 255
	maxIntroductionLen = 50
	minPasswordLen     = 6
)

var (
	ErrNameRequired     = errors.New("name required")
	ErrNameTooLong      = errors.New("name too long")
	ErrUsernameRequired = errors.New("username required")
	ErrUsernameTooLong  = errors.New("username too long")
	ErrEmailRequired    = errors.New("email required")
	ErrEmailTooLong     = errors.New("email too long")
	ErrEmailInvalid     = errors.New("invalid email")
	ErrIntroTooLong     = errors.New("introduction too long")
	ErrPasswordTooShort = errors.New("password too short")
)

type User struct {
	Base
	Name           string       `json:"name"`
	Username       string       `gorm:"uniqueIndex" json:"username"`
	Email          string       `gorm:"uniqueIndex" json:"email"`
	Introduction   string       `json:"introduction"`
	PasswordDigest string       `json:"-"`
	RememberDigest *string      `json:"-"`
	Microposts     []*Micropost `json:"-"`
}

// BeforeSave keeps the case-insensitive email uniqueness honest: the
// lower-cased form is the stored form.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(u.Email)
	return nil
}

// Validate runs the pre-persistence checks. Lengths count characters, not
// bytes, so multibyte names fit the same limits. Uniqueness is left to the
// database indexes.
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(u.Name) > maxNameLen {
		return ErrNameTooLong
	}
	if u.Username == "" {
		return ErrUsernameRequired
	}
	if utf8.RuneCountInString(u.Username) > maxUsernameLen {
		return ErrUsernameTooLong
	}
	if u.Email == "" {
		return ErrEmailRequired
	}
	if utf8.RuneCountInString(u.Email) > maxEmailLen {
		return ErrEmailTooLong
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrEmailInvalid
	}
	if utf8.RuneCountInString(u.Introduction) > maxIntroductionLen {
		return ErrIntroTooLong
	}
	return nil
}

// ValidatePassword checks a raw password before it is digested.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// Authenticated reports whether token matches the stored remember digest.
// A user with no outstanding session authenticates nothing.
func (u *User) Authenticated(token string) bool {
	if u.RememberDigest == nil {
		return false
	}
	return hash.Compare(*u.RememberDigest, token)
}
