package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/puoklam/microblog-backend/env"
)

// genAccessToken mints the short-lived request credential. aud is the
// device IP the token was issued to; sub is the user id. The remember
// cookie, not this token, is what keeps a user signed in past the hour.
func genAccessToken(aud, sub string) (string, error) {
	// HS256 for symmetric signature, sign and verify in server
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		IssuedAt:  time.Now().Unix(),
		Issuer:    "https://microblog.test.com",
		Audience:  aud,
		Subject:   sub,
	})
	return token.SignedString(env.HS256_SECRET)
}
