// Package feed computes the microposts visible to a user: their own plus
// those of every user they follow.
package feed

import (
	"context"

	"github.com/puoklam/microblog-backend/db/model"
	"gorm.io/gorm"
)

type Composer struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Composer {
	return &Composer{db: db}
}

// Feed returns the visible posts newest-first, ties broken by id
// descending so pagination stays stable. Followed authors are resolved in
// a subquery rather than loaded into memory first; one round trip total.
// A non-positive limit disables the cap; offset applies either way.
func (c *Composer) Feed(ctx context.Context, userID uint, limit, offset int) ([]model.Micropost, error) {
	following := c.db.
		Model(&model.Relationship{}).
		Select("followed_id").
		Where("follower_id = ?", userID)

	q := c.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN (?) OR user_id = ?", following, userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	posts := make([]model.Micropost, 0)
	err := q.Find(&posts).Error
	return posts, err
}
