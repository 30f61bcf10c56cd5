package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puoklam/microblog-backend/hash"
)

func validUser() *User {
	return &User{
		Name:     "Alice",
		Username: "alice",
		Email:    "alice@example.com",
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*User)
		want   error
	}{
		{"valid", func(u *User) {}, nil},
		{"missing name", func(u *User) { u.Name = "" }, ErrNameRequired},
		{"name too long", func(u *User) { u.Name = strings.Repeat("a", 51) }, ErrNameTooLong},
		{"missing username", func(u *User) { u.Username = "" }, ErrUsernameRequired},
		{"username too long", func(u *User) { u.Username = strings.Repeat("a", 51) }, ErrUsernameTooLong},
		{"missing email", func(u *User) { u.Email = "" }, ErrEmailRequired},
		{"email too long", func(u *User) { u.Email = strings.Repeat("a", 250) + "@example.com" }, ErrEmailTooLong},
		{"email unparseable", func(u *User) { u.Email = "not-an-email" }, ErrEmailInvalid},
		{"introduction too long", func(u *User) { u.Introduction = strings.Repeat("a", 51) }, ErrIntroTooLong},
		// limits count characters, not bytes
		{"multibyte name at limit", func(u *User) { u.Name = strings.Repeat("あ", 50) }, nil},
		{"multibyte name over limit", func(u *User) { u.Name = strings.Repeat("あ", 51) }, ErrNameTooLong},
		{"multibyte username at limit", func(u *User) { u.Username = strings.Repeat("あ", 50) }, nil},
		{"multibyte introduction at limit", func(u *User) { u.Introduction = strings.Repeat("あ", 50) }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(u)
			assert.ErrorIs(t, u.Validate(), tt.want)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("short"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePassword("longenough"))
	// six characters is enough even when each is multibyte
	assert.NoError(t, ValidatePassword(strings.Repeat("あ", 6)))
}

func TestBeforeSaveLowercasesEmail(t *testing.T) {
	u := validUser()
	u.Email = "Alice@Example.COM"
	require.NoError(t, u.BeforeSave(nil))
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestAuthenticatedWithoutSession(t *testing.T) {
	u := validUser()
	// no digest stored: every token fails, including the empty one
	assert.False(t, u.Authenticated(""))
	assert.False(t, u.Authenticated("anything"))
}

func TestAuthenticatedMatchesStoredDigest(t *testing.T) {
	token, err := hash.NewToken()
	require.NoError(t, err)
	digest, err := hash.Digest(token)
	require.NoError(t, err)

	u := validUser()
	u.RememberDigest = &digest
	assert.True(t, u.Authenticated(token))
	assert.False(t, u.Authenticated("wrong-token"))
}
