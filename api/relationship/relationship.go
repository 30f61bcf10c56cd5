package relationship

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/puoklam/microblog-backend/db"
	"github.com/puoklam/microblog-backend/db/model"
	"github.com/puoklam/microblog-backend/graph"
	"github.com/puoklam/microblog-backend/middleware"
)

type Handlers struct {
	logger *log.Logger
}

func (h *Handlers) getRelationship(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	other := r.Context().Value("other").(*model.User)
	following, err := graph.New(db.GetDB(r.Context())).IsFollowing(r.Context(), u.ID, other.ID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(struct {
		Following bool `json:"following"`
	}{
		Following: following,
	})
}

func (h *Handlers) follow(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	other := r.Context().Value("other").(*model.User)
	if err := graph.New(db.GetDB(r.Context())).Follow(r.Context(), u.ID, other.ID); err != nil {
		if errors.Is(err, graph.ErrSelfFollow) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) unfollow(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	other := r.Context().Value("other").(*model.User)
	if err := graph.New(db.GetDB(r.Context())).Unfollow(r.Context(), u.ID, other.ID); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/relationships", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticator(h.logger), middleware.WithOtherUser)
			r.Get("/{userID}", h.getRelationship)
			r.Post("/{userID}", h.follow)
			r.Delete("/{userID}", h.unfollow)
		})
	})
}

func NewHandlers(l *log.Logger) *Handlers {
	return &Handlers{l}
}
