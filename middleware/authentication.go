package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/puoklam/microblog-backend/db"
	"github.com/puoklam/microblog-backend/db/model"
	"github.com/puoklam/microblog-backend/env"
	"github.com/puoklam/microblog-backend/session"
	"gorm.io/gorm"
)

// Authenticator resolves the signed-in user, first from the short-lived
// access token, then from the remember cookie pair (uid + remember_token).
// Both paths end with "user" in the request context; both failures are the
// same 401 with no detail about which credential was wrong.
func Authenticator(logger *log.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if u := userFromAccessToken(r); u != nil {
				ctx := context.WithValue(r.Context(), "user", u)
				h.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			u, err := userFromRememberCookie(r)
			if err != nil {
				logger.Println(err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if u == nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), "user", u)
			h.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

func userFromAccessToken(r *http.Request) *model.User {
	c, err := r.Cookie("accessToken")
	if err != nil {
		return nil
	}
	t, err := jwt.Parse(c.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return env.HS256_SECRET, nil
	})
	if err != nil {
		return nil
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid || claims["aud"] != r.Context().Value("deviceIP") {
		return nil
	}
	uid, ok := claims["sub"].(string)
	if !ok {
		return nil
	}
	var u model.User
	if err := db.GetDB(r.Context()).First(&u, uid).Error; err != nil {
		return nil
	}
	return &u
}

func userFromRememberCookie(r *http.Request) (*model.User, error) {
	uid, err := r.Cookie("uid")
	if err != nil {
		return nil, nil
	}
	token, err := r.Cookie("remember_token")
	if err != nil {
		return nil, nil
	}
	var u model.User
	if err := db.GetDB(r.Context()).First(&u, uid.Value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !session.New(db.GetDB(r.Context())).Authenticate(&u, token.Value) {
		return nil, nil
	}
	return &u, nil
}
