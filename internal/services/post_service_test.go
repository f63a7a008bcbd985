package services

import (
	"errors"
	"testing"

	"echoboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostRequiresVerifiedEmail(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewPostService(gdb)

	unverified := seedAccount(t, gdb, "rookie", false)
	_, err := s.Create(unverified, "hello", "world", models.VisibilityPublic)
	assert.True(t, errors.Is(err, ErrAccessDenied))

	_, err = s.Create(nil, "hello", "world", models.VisibilityPublic)
	assert.True(t, errors.Is(err, ErrAccessDenied))

	verified := seedAccount(t, gdb, "aiden", true)
	post, err := s.Create(verified, "hello", "world", models.VisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, verified.ID, post.AccountID)
}

// 私密文章：aiden 可读，bob 和未登录访客都拿到 AccessDenied（而不是 404）
func TestPrivatePostVisibility(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewPostService(gdb)

	aiden := seedAccount(t, gdb, "aiden", true)
	bob := seedAccount(t, gdb, "bob", true)

	post, err := s.Create(aiden, "hello", "secret diary", models.VisibilityPrivate)
	require.NoError(t, err)

	_, err = s.Get(post.ID, bob)
	assert.True(t, errors.Is(err, ErrAccessDenied))
	_, err = s.Get(post.ID, nil)
	assert.True(t, errors.Is(err, ErrAccessDenied))

	detail, err := s.Get(post.ID, aiden)
	require.NoError(t, err)
	assert.Equal(t, "hello", detail.Post.Title)

	// 不存在的文章才是 404
	_, err = s.Get(9999, aiden)
	assert.True(t, errors.Is(err, ErrResourceNotFound))
}

func TestPostListFiltersByVisibility(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewPostService(gdb)

	aiden := seedAccount(t, gdb, "aiden", true)
	bob := seedAccount(t, gdb, "bob", true)

	_, err := s.Create(aiden, "public post", "", models.VisibilityPublic)
	require.NoError(t, err)
	_, err = s.Create(aiden, "private post", "", models.VisibilityPrivate)
	require.NoError(t, err)

	titles := func(posts []models.Post) []string {
		out := make([]string, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.Title)
		}
		return out
	}

	anonymous, err := s.List(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"public post"}, titles(anonymous))

	bobView, err := s.List(bob)
	require.NoError(t, err)
	assert.Equal(t, []string{"public post"}, titles(bobView))

	aidenView, err := s.List(aiden)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"public post", "private post"}, titles(aidenView))
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewPostService(gdb)

	aiden := seedAccount(t, gdb, "aiden", true)
	bob := seedAccount(t, gdb, "bob", true)

	post, err := s.Create(aiden, "hello", "world", models.VisibilityPrivate)
	require.NoError(t, err)

	// 非作者不能改，内容保持原样
	_, err = s.Update(bob, post.ID, "hacked", "pwned", models.VisibilityPublic)
	assert.True(t, errors.Is(err, ErrAccessDenied))
	_, err = s.Update(nil, post.ID, "hacked", "pwned", models.VisibilityPublic)
	assert.True(t, errors.Is(err, ErrAccessDenied))

	var stored models.Post
	require.NoError(t, gdb.First(&stored, post.ID).Error)
	assert.Equal(t, "hello", stored.Title)
	assert.Equal(t, models.VisibilityPrivate, stored.Visibility)

	// 作者整体编辑：标题、正文、可见性一起替换
	updated, err := s.Update(aiden, post.ID, "hello v2", "world v2", models.VisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, updated.Visibility)
}

func TestDeletePostOwnerOnly(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewPostService(gdb)

	aiden := seedAccount(t, gdb, "aiden", true)
	bob := seedAccount(t, gdb, "bob", true)

	post, err := s.Create(aiden, "hello", "world", models.VisibilityPrivate)
	require.NoError(t, err)

	err = s.Delete(bob, post.ID)
	assert.True(t, errors.Is(err, ErrAccessDenied))
	var count int64
	gdb.Model(&models.Post{}).Count(&count)
	assert.EqualValues(t, 1, count)

	// 删除连同评论
	require.NoError(t, gdb.Create(&models.Comment{PostID: post.ID, AccountID: bob.ID, Content: "hi", Visibility: models.VisibilityPublic}).Error)
	require.NoError(t, s.Delete(aiden, post.ID))

	gdb.Model(&models.Post{}).Count(&count)
	assert.EqualValues(t, 0, count)
	gdb.Model(&models.Comment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPostHitsAndCache(t *testing.T) {
	gdb := setupTestDB(t)
	s := NewPostService(gdb)

	aiden := seedAccount(t, gdb, "aiden", true)
	post, err := s.Create(aiden, "hello", "# title\n\nbody", models.VisibilityPublic)
	require.NoError(t, err)

	// 每次读取浏览量 +1，第二次走缓存也一样计数
	first, err := s.Get(post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Post.Hits)
	assert.Contains(t, string(first.ContentHTML), "<h1")

	second, err := s.Get(post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Post.Hits)

	// 连续命中缓存计数照样累加，不会停在首次加载的值
	third, err := s.Get(post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, third.Post.Hits)

	var stored models.Post
	require.NoError(t, gdb.First(&stored, post.ID).Error)
	assert.Equal(t, 3, stored.Hits)
}
