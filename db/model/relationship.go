package model

import "time"

// Relationship is a directed follow edge. The composite primary key is the
// uniqueness constraint for the ordered pair.
type Relationship struct {
	FollowerID uint      `json:"follower_id" gorm:"primaryKey"`
	FollowedID uint      `json:"followed_id" gorm:"primaryKey"`
	Follower   *User     `json:"-" gorm:"foreignKey:FollowerID"`
	Followed   *User     `json:"-" gorm:"foreignKey:FollowedID"`
	CreatedAt  time.Time `json:"created_at"`
}
