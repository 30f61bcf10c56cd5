//go:build integration
// +build integration

package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/puoklam/microblog-backend/db/dbtest"
	"github.com/puoklam/microblog-backend/db/model"
	"github.com/puoklam/microblog-backend/graph"
)

func seedPost(t *testing.T, gdb *gorm.DB, userID uint, content string, at time.Time) *model.Micropost {
	t.Helper()
	p := &model.Micropost{Content: content, UserID: userID}
	p.CreatedAt = at
	require.NoError(t, gdb.Create(p).Error)
	return p
}

func TestFeedEmpty(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	u := dbtest.SeedUser(t, gdb, "loner")

	posts, err := New(gdb).Feed(ctx, u.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFeedComposition(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	u := dbtest.SeedUser(t, gdb, "u")
	v := dbtest.SeedUser(t, gdb, "v")
	w := dbtest.SeedUser(t, gdb, "w")
	x := dbtest.SeedUser(t, gdb, "x") // not followed

	s := graph.New(gdb)
	require.NoError(t, s.Follow(ctx, u.ID, v.ID))
	require.NoError(t, s.Follow(ctx, u.ID, w.ID))

	base := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	pu := seedPost(t, gdb, u.ID, "own post", base.Add(1*time.Hour))
	pv := seedPost(t, gdb, v.ID, "followee v", base.Add(3*time.Hour))
	pw := seedPost(t, gdb, w.ID, "followee w", base.Add(2*time.Hour))
	seedPost(t, gdb, x.ID, "stranger", base.Add(4*time.Hour))

	posts, err := New(gdb).Feed(ctx, u.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	// newest first, stranger excluded, no duplicates
	assert.Equal(t, pv.ID, posts[0].ID)
	assert.Equal(t, pw.ID, posts[1].ID)
	assert.Equal(t, pu.ID, posts[2].ID)
}

func TestFeedDoesNotLeakToNonFollower(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	u := dbtest.SeedUser(t, gdb, "u")
	v := dbtest.SeedUser(t, gdb, "v")

	require.NoError(t, graph.New(gdb).Follow(ctx, u.ID, v.ID))
	seedPost(t, gdb, u.ID, "from u", time.Now())

	// v does not follow u back; v sees nothing
	posts, err := New(gdb).Feed(ctx, v.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFeedTieBreakIsIDDescending(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	u := dbtest.SeedUser(t, gdb, "u")

	at := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	p1 := seedPost(t, gdb, u.ID, "first", at)
	p2 := seedPost(t, gdb, u.ID, "second", at)

	posts, err := New(gdb).Feed(ctx, u.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, p2.ID, posts[0].ID)
	assert.Equal(t, p1.ID, posts[1].ID)
}

func TestFeedPagination(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	u := dbtest.SeedUser(t, gdb, "u")

	base := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedPost(t, gdb, u.ID, "post", base.Add(time.Duration(i)*time.Minute))
	}

	c := New(gdb)
	page1, err := c.Feed(ctx, u.ID, 2, 0)
	require.NoError(t, err)
	page2, err := c.Feed(ctx, u.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.Len(t, page2, 2)

	// pages are disjoint and keep descending order across the boundary
	assert.True(t, page1[1].ID != page2[0].ID)
	assert.True(t, page1[1].CreatedAt.After(page2[0].CreatedAt) || page1[1].ID > page2[0].ID)
}

func TestFeedOffsetWithoutLimit(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	u := dbtest.SeedUser(t, gdb, "u")

	base := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedPost(t, gdb, u.ID, "post", base.Add(time.Duration(i)*time.Minute))
	}

	all, err := New(gdb).Feed(ctx, u.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)

	// offset still skips when no limit is set
	rest, err := New(gdb).Feed(ctx, u.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, rest, 3)
	assert.Equal(t, all[2].ID, rest[0].ID)
}

func TestFeedPreloadsAuthor(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	u := dbtest.SeedUser(t, gdb, "u")
	seedPost(t, gdb, u.ID, "hello", time.Now())

	posts, err := New(gdb).Feed(ctx, u.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.NotNil(t, posts[0].User)
	assert.Equal(t, u.Username, posts[0].User.Username)
}
