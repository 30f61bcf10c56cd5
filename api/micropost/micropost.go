package micropost

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/puoklam/microblog-backend/db"
	"github.com/puoklam/microblog-backend/db/model"
	"github.com/puoklam/microblog-backend/feed"
	"github.com/puoklam/microblog-backend/middleware"
	"github.com/puoklam/microblog-backend/mq"
	"gorm.io/gorm"
)

const defaultFeedLimit = 30

type Handlers struct {
	logger *log.Logger
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	post := &model.Micropost{
		Content: body.Content,
		UserID:  u.ID,
	}
	if err := post.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	if err := db.GetDB(r.Context()).Create(post).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	// fan-out is best effort, the post is already committed
	if err := mq.PublishPost(post); err != nil {
		h.logger.Println(err)
	}
	json.NewEncoder(w).Encode(post)
}

func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	id := chi.URLParam(r, "micropostID")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var post model.Micropost
	if err := db.GetDB(r.Context()).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.WriteHeader(http.StatusNotFound)
		} else {
			h.logger.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}
	if post.UserID != u.ID {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if err := db.GetDB(r.Context()).Delete(&post).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) feed(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	limit, offset := defaultFeedLimit, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	posts, err := feed.New(db.GetDB(r.Context())).Feed(r.Context(), u.ID, limit, offset)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(posts)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.Route("/microposts", func(r chi.Router) {
			r.Post("/", h.create)
			r.Delete("/{micropostID}", h.delete)
		})
		r.With(middleware.NoCache).Get("/feed", h.feed)
	})
}

func NewHandlers(l *log.Logger) *Handlers {
	return &Handlers{l}
}
