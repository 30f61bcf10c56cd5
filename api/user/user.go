package user

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/puoklam/microblog-backend/db"
	"github.com/puoklam/microblog-backend/db/model"
	"github.com/puoklam/microblog-backend/graph"
	"github.com/puoklam/microblog-backend/middleware"
	"gorm.io/gorm"
)

type Handlers struct {
	logger *log.Logger
}

// OutUser is the profile payload: the user plus graph counts.
type OutUser struct {
	model.User
	FollowingCount int `json:"following_count"`
	FollowerCount  int `json:"follower_count"`
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	other := r.Context().Value("other").(*model.User)
	store := graph.New(db.GetDB(r.Context()))
	following, err := store.FollowingIDs(r.Context(), other.ID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	followers, err := store.FollowerIDs(r.Context(), other.ID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(&OutUser{
		User:           *other,
		FollowingCount: len(following),
		FollowerCount:  len(followers),
	})
}

func (h *Handlers) getFollowing(w http.ResponseWriter, r *http.Request) {
	other := r.Context().Value("other").(*model.User)
	users, err := graph.New(db.GetDB(r.Context())).Following(r.Context(), other.ID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(users)
}

func (h *Handlers) getFollowers(w http.ResponseWriter, r *http.Request) {
	other := r.Context().Value("other").(*model.User)
	users, err := graph.New(db.GetDB(r.Context())).Followers(r.Context(), other.ID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(users)
}

// deleteMe destroys the signed-in user's account. The cascade is explicit
// and transactional: edges first, then microposts, then the user row.
func (h *Handlers) deleteMe(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	store := graph.New(db.GetDB(r.Context()))
	err := db.GetDB(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := store.WithTx(tx).CascadeDeleteUser(r.Context(), u.ID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&model.Micropost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, u.ID).Error
	})
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.Delete("/me", h.deleteMe)
		r.Group(func(r chi.Router) {
			r.Use(middleware.WithOtherUser)
			r.Get("/{userID}", h.getUser)
			r.Get("/{userID}/following", h.getFollowing)
			r.Get("/{userID}/followers", h.getFollowers)
		})
	})
}

func NewHandlers(l *log.Logger) *Handlers {
	return &Handlers{l}
}
