// Package graph is the relationship store: directed follower->followed
// edges between users.
package graph

import (
	"context"
	"errors"

	"github.com/puoklam/microblog-backend/db/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSelfFollow rejects a follow where both endpoints are the same user.
// The pair index alone would happily store a self-loop, so the guard lives
// here, before any write.
var ErrSelfFollow = errors.New("graph: user cannot follow themselves")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx returns a Store bound to tx, for callers composing edge writes
// into a larger transaction.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// Follow creates the edge if absent. Following an already-followed user is
// a no-op: the insert carries ON CONFLICT DO NOTHING, so a duplicate
// (including one racing a concurrent Follow into the pair constraint) is
// absorbed rather than surfaced.
func (s *Store) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}
	rel := &model.Relationship{FollowerID: followerID, FollowedID: followedID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rel).
		Error
}

// Unfollow deletes the edge if present; an absent edge is a no-op.
func (s *Store) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.Relationship{}).
		Error
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Relationship{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).
		Error
	return count > 0, err
}

// FollowingIDs returns the ids of every user userID follows.
func (s *Store) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := s.db.WithContext(ctx).
		Model(&model.Relationship{}).
		Where("follower_id = ?", userID).
		Pluck("followed_id", &ids).
		Error
	return ids, err
}

// FollowerIDs returns the ids of every user following userID.
func (s *Store) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := s.db.WithContext(ctx).
		Model(&model.Relationship{}).
		Where("followed_id = ?", userID).
		Pluck("follower_id", &ids).
		Error
	return ids, err
}

// Following returns the users userID follows, for profile listings.
func (s *Store) Following(ctx context.Context, userID uint) ([]model.User, error) {
	users := make([]model.User, 0)
	err := s.db.WithContext(ctx).
		Joins("JOIN relationships ON relationships.followed_id = users.id").
		Where("relationships.follower_id = ?", userID).
		Find(&users).
		Error
	return users, err
}

// Followers is the inverse of Following.
func (s *Store) Followers(ctx context.Context, userID uint) ([]model.User, error) {
	users := make([]model.User, 0)
	err := s.db.WithContext(ctx).
		Joins("JOIN relationships ON relationships.follower_id = users.id").
		Where("relationships.followed_id = ?", userID).
		Find(&users).
		Error
	return users, err
}

// CascadeDeleteUser removes every edge with userID on either end. The user
// destroy path must run this (via WithTx, inside its transaction) before
// removing the user row.
func (s *Store) CascadeDeleteUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? OR followed_id = ?", userID, userID).
		Delete(&model.Relationship{}).
		Error
}
