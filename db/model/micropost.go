package model

import (
	"errors"
	"unicode/utf8"
)

const maxContentLen = 140

var (
	ErrContentRequired = errors.New("content required")
	ErrContentTooLong  = errors.New("content too long")
)

type Micropost struct {
	Base
	Content string `json:"content"`
	UserID  uint   `gorm:"index" json:"user_id"`
	User    *User  `json:"user"`
}

// Validate checks content presence and the character limit; the limit
// counts runes so multibyte posts get the full 140.
func (m *Micropost) Validate() error {
	if m.Content == "" {
		return ErrContentRequired
	}
	if utf8.RuneCountInString(m.Content) > maxContentLen {
		return ErrContentTooLong
	}
	return nil
}
