package mq

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/nsqio/go-nsq"
	"github.com/puoklam/microblog-backend/db/model"
	"github.com/puoklam/microblog-backend/env"
)

const postTopic = "microposts"

var producer *nsq.Producer
var once sync.Once

// PostEvent announces a committed micropost to downstream consumers
// (notification and timeline services).
type PostEvent struct {
	ID        uuid.UUID `json:"id"`
	ServerID  string    `json:"server_id"`
	UserID    uint      `json:"user_id"`
	PostID    uint      `json:"post_id"`
	CreatedAt int64     `json:"created_at"`
}

func GetProducer() *nsq.Producer {
	once.Do(func() {
		cfg := nsq.NewConfig()
		p, err := nsq.NewProducer(env.NSQD_TCP_ADDR, cfg)
		if err != nil {
			os.Exit(1)
		}
		producer = p
	})
	return producer
}

func PublishPost(post *model.Micropost) error {
	e := &PostEvent{
		ID:        uuid.New(),
		ServerID:  env.SERVER_ID,
		UserID:    post.UserID,
		PostID:    post.ID,
		CreatedAt: post.CreatedAt.Unix(),
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return GetProducer().Publish(postTopic, b)
}

// StopProducers flushes pending publishes; part of process shutdown.
func StopProducers() {
	if producer != nil {
		producer.Stop()
	}
}
