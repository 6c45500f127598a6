package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cascade/internal/domain"
	apperrors "cascade/pkg/errors"
)

func seedBlog(t *testing.T, db *gorm.DB) (*domain.User, *domain.BlogCategory) {
	t.Helper()

	author := &domain.User{Username: "editor", Email: "editor@cascadedigital.com", HashedPassword: "x", IsActive: true, IsStaff: true}
	require.NoError(t, db.Create(author).Error)

	category := &domain.BlogCategory{Name: "Technology", IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return author, category
}

func seedPost(t *testing.T, db *gorm.DB, author *domain.User, category *domain.BlogCategory, title, status string) *domain.Post {
	t.Helper()
	post := &domain.Post{
		Title:         title,
		Content:       "Body of the article with enough words to read in about a minute.",
		CategoryID:    category.ID,
		AuthorID:      author.ID,
		Status:        status,
		AllowComments: true,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestListPostsOnlyPublished(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	seedPost(t, db, author, category, "Published Piece", domain.PostStatusPublished)
	seedPost(t, db, author, category, "Draft Piece", domain.PostStatusDraft)

	list, err := svc.ListPosts(ctx, PostFilter{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "published-piece", list.Items[0].Slug)
	assert.GreaterOrEqual(t, list.Items[0].ReadingTimeMinutes, 1)
}

func TestListPostsPagination(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	for i := 0; i < postsPerPage+3; i++ {
		seedPost(t, db, author, category, fmt.Sprintf("Article %d", i), domain.PostStatusPublished)
	}

	first, err := svc.ListPosts(ctx, PostFilter{Page: 1})
	require.NoError(t, err)
	assert.Len(t, first.Items, postsPerPage)
	assert.Equal(t, 2, first.TotalPages)

	second, err := svc.ListPosts(ctx, PostFilter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Items, 3)
}

func TestGetPostIncrementsViews(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	post := seedPost(t, db, author, category, "Counted Article", domain.PostStatusPublished)

	_, err := svc.GetPost(ctx, post.Slug)
	require.NoError(t, err)
	_, err = svc.GetPost(ctx, post.Slug)
	require.NoError(t, err)

	var stored domain.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.EqualValues(t, 2, stored.ViewCount)
}

func TestGetPostExcludesDraftAndScheduled(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	draft := seedPost(t, db, author, category, "Hidden Draft", domain.PostStatusDraft)

	future := time.Now().Add(24 * time.Hour)
	scheduled := &domain.Post{
		Title:       "Tomorrow's News",
		Content:     "Not yet.",
		CategoryID:  category.ID,
		AuthorID:    author.ID,
		Status:      domain.PostStatusPublished,
		PublishedAt: &future,
	}
	require.NoError(t, db.Create(scheduled).Error)

	var appErr *apperrors.AppError
	_, err := svc.GetPost(ctx, draft.Slug)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)

	_, err = svc.GetPost(ctx, scheduled.Slug)
	require.ErrorAs(t, err, &appErr)
}

func TestSubmitCommentModeration(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	post := seedPost(t, db, author, category, "Discussed Article", domain.PostStatusPublished)

	comment, err := svc.SubmitComment(ctx, post.Slug, &CommentSubmission{
		AuthorName:  "Reader",
		AuthorEmail: "Reader@Example.com",
		Content:     "Great write-up, thanks.",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CommentStatusPending, comment.Status)
	assert.Equal(t, "reader@example.com", comment.AuthorEmail)

	// Pending comments are invisible on the public post
	detail, err := svc.GetPost(ctx, post.Slug)
	require.NoError(t, err)
	assert.Empty(t, detail.Comments)

	_, err = svc.ModerateComment(ctx, comment.ID, domain.CommentStatusApproved)
	require.NoError(t, err)

	detail, err = svc.GetPost(ctx, post.Slug)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, comment.ID, detail.Comments[0].ID)
}

func TestSubmitCommentTooShort(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	post := seedPost(t, db, author, category, "Strict Article", domain.PostStatusPublished)

	_, err := svc.SubmitComment(ctx, post.Slug, &CommentSubmission{
		AuthorName:  "A",
		AuthorEmail: "a@example.com",
		Content:     "Long enough to pass the content check.",
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeBadRequest, appErr.Code)

	_, err = svc.SubmitComment(ctx, post.Slug, &CommentSubmission{
		AuthorName:  "Reader",
		AuthorEmail: "reader@example.com",
		Content:     "hi",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeBadRequest, appErr.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListPendingComments(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	post := seedPost(t, db, author, category, "Moderated Article", domain.PostStatusPublished)

	first, err := svc.SubmitComment(ctx, post.Slug, &CommentSubmission{
		AuthorName:  "Reader",
		AuthorEmail: "reader@example.com",
		Content:     "Waiting in the queue.",
	})
	require.NoError(t, err)
	second, err := svc.SubmitComment(ctx, post.Slug, &CommentSubmission{
		AuthorName:  "Other Reader",
		AuthorEmail: "other@example.com",
		Content:     "Also waiting here.",
	})
	require.NoError(t, err)

	_, err = svc.ModerateComment(ctx, second.ID, domain.CommentStatusApproved)
	require.NoError(t, err)

	pending, err := svc.ListPendingComments(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, post.Title, pending[0].PostTitle)
	assert.Equal(t, post.Slug, pending[0].PostSlug)
}

func TestSubmitCommentClosedPost(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	post := seedPost(t, db, author, category, "Quiet Article", domain.PostStatusPublished)
	post.AllowComments = false
	require.NoError(t, db.Save(post).Error)

	_, err := svc.SubmitComment(ctx, post.Slug, &CommentSubmission{
		AuthorName:  "Reader",
		AuthorEmail: "reader@example.com",
		Content:     "Anyone here?",
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeBadRequest, appErr.Code)
}

func TestModerateCommentRejectsUnknownStatus(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	post := seedPost(t, db, author, category, "Any Article", domain.PostStatusPublished)
	comment, err := svc.SubmitComment(ctx, post.Slug, &CommentSubmission{
		AuthorName:  "Reader",
		AuthorEmail: "reader@example.com",
		Content:     "First to comment!",
	})
	require.NoError(t, err)

	_, err = svc.ModerateComment(ctx, comment.ID, "promoted")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
}

func TestCreatePostStampsPublishedAt(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, &domain.Post{
		Title:      "Launch Notes",
		Content:    "We shipped.",
		CategoryID: category.ID,
		Status:     domain.PostStatusPublished,
	}, author)
	require.NoError(t, err)
	assert.Equal(t, "launch-notes", post.Slug)
	require.NotNil(t, post.PublishedAt)
	stamp := *post.PublishedAt

	// Re-saving does not move the publish timestamp
	post.Title = "Launch Notes (updated)"
	updated, err := svc.UpdatePost(ctx, post)
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	assert.True(t, updated.PublishedAt.Equal(stamp))
}

func TestCreatePostScheduledNeedsFutureDate(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, &domain.Post{
		Title:      "Coming Soon",
		Content:    "Almost there.",
		CategoryID: category.ID,
		Status:     domain.PostStatusScheduled,
	}, author)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeBadRequest, appErr.Code)

	past := time.Now().Add(-time.Hour)
	_, err = svc.CreatePost(ctx, &domain.Post{
		Title:       "Coming Soon",
		Content:     "Almost there.",
		CategoryID:  category.ID,
		Status:      domain.PostStatusScheduled,
		PublishedAt: &past,
	}, author)
	require.ErrorAs(t, err, &appErr)

	future := time.Now().Add(time.Hour)
	post, err := svc.CreatePost(ctx, &domain.Post{
		Title:       "Coming Soon",
		Content:     "Almost there.",
		CategoryID:  category.ID,
		Status:      domain.PostStatusScheduled,
		PublishedAt: &future,
	}, author)
	require.NoError(t, err)
	assert.True(t, post.PublishedAt.Equal(future))
}

func TestUpdatePostPreservesHistory(t *testing.T) {
	db := testDB(t)
	svc := NewBlogService(db)
	author, category := seedBlog(t, db)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, &domain.Post{
		Title:      "Retained History",
		Content:    "First version.",
		CategoryID: category.ID,
		Status:     domain.PostStatusPublished,
	}, author)
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	stamp := *post.PublishedAt

	_, err = svc.GetPost(ctx, post.Slug)
	require.NoError(t, err)

	// A sparse update payload, the way a PUT body without published_at or
	// view_count arrives, must not rewrite either
	updated, err := svc.UpdatePost(ctx, &domain.Post{
		ID:         post.ID,
		Title:      "Retained History",
		Slug:       post.Slug,
		Content:    "Second version.",
		CategoryID: category.ID,
		Status:     domain.PostStatusPublished,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	assert.True(t, updated.PublishedAt.Equal(stamp), "publish timestamp must survive a sparse update")
	assert.EqualValues(t, 1, updated.ViewCount)
	assert.Equal(t, author.ID, updated.AuthorID)
}
