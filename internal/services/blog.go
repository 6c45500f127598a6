package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"cascade/internal/domain"
	"cascade/internal/metrics"
	apperrors "cascade/pkg/errors"
)

// postsPerPage matches the public listing page size
const postsPerPage = 12

// BlogService implements the public blog and its staff-side management
type BlogService struct {
	db *gorm.DB
}

// NewBlogService creates a new blog service
func NewBlogService(db *gorm.DB) *BlogService {
	return &BlogService{db: db}
}

// PostFilter narrows the public post listing
type PostFilter struct {
	CategorySlug string
	TagSlug      string
	Search       string
	Page         int
}

// PostListItem is one post in a listing, with computed display fields
type PostListItem struct {
	domain.Post
	ReadingTimeMinutes int `json:"reading_time_minutes"`
}

// PostList is one page of published posts
type PostList struct {
	Items      []PostListItem `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
}

// PostDetail is the full post payload with approved comments and related
// posts
type PostDetail struct {
	domain.Post
	ReadingTimeMinutes int              `json:"reading_time_minutes"`
	Comments           []domain.Comment `json:"comments"`
	RelatedPosts       []PostListItem   `json:"related_posts"`
}

// published scopes a query to posts visible to the public
func published(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND published_at <= ?", domain.PostStatusPublished, time.Now())
}

// ListPosts returns a filtered page of published posts, newest first
func (s *BlogService) ListPosts(ctx context.Context, filter PostFilter) (*PostList, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}

	query := s.db.WithContext(ctx).Model(&domain.Post{}).Scopes(published)

	if filter.CategorySlug != "" {
		query = query.
			Joins("JOIN blog_categories ON blog_categories.id = posts.category_id").
			Where("blog_categories.slug = ?", filter.CategorySlug)
	}
	if filter.TagSlug != "" {
		query = query.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", filter.TagSlug)
	}
	if filter.Search != "" {
		like := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("posts.title LIKE ? OR posts.excerpt LIKE ? OR posts.content LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Distinct("posts.id").Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []domain.Post
	err := query.
		Distinct("posts.*").
		Preload("Category").
		Preload("Author").
		Preload("Tags").
		Order("posts.published_at DESC").
		Offset((filter.Page - 1) * postsPerPage).
		Limit(postsPerPage).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	items := make([]PostListItem, len(posts))
	for i, post := range posts {
		items[i] = PostListItem{Post: post, ReadingTimeMinutes: post.ReadingTime()}
	}

	return &PostList{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		PerPage:    postsPerPage,
		TotalPages: totalPages(total, postsPerPage),
	}, nil
}

// GetPost fetches a published post by slug, increments its view counter, and
// attaches approved top-level comments and related posts from the same
// category
func (s *BlogService) GetPost(ctx context.Context, slug string) (*PostDetail, error) {
	var post domain.Post
	err := s.db.WithContext(ctx).
		Scopes(published).
		Preload("Category").
		Preload("Author").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	// Counter bump is best-effort; a lost increment is not worth failing
	// the read
	if err := s.db.WithContext(ctx).Model(&post).UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		log.Printf("[BLOG] Failed to increment view count for post id=%d: %v", post.ID, err)
	}

	var comments []domain.Comment
	err = s.db.WithContext(ctx).
		Where("post_id = ? AND status = ? AND parent_id IS NULL", post.ID, domain.CommentStatusApproved).
		Preload("Replies", "status = ?", domain.CommentStatusApproved).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	var related []domain.Post
	err = s.db.WithContext(ctx).
		Scopes(published).
		Where("category_id = ? AND id != ?", post.CategoryID, post.ID).
		Order("published_at DESC").
		Limit(3).
		Find(&related).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load related posts: %w", err)
	}

	relatedItems := make([]PostListItem, len(related))
	for i, rp := range related {
		relatedItems[i] = PostListItem{Post: rp, ReadingTimeMinutes: rp.ReadingTime()}
	}

	return &PostDetail{
		Post:               post,
		ReadingTimeMinutes: post.ReadingTime(),
		Comments:           comments,
		RelatedPosts:       relatedItems,
	}, nil
}

// ListBlogCategories returns active blog categories in display order
func (s *BlogService) ListBlogCategories(ctx context.Context) ([]domain.BlogCategory, error) {
	var categories []domain.BlogCategory
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list blog categories: %w", err)
	}
	return categories, nil
}

// CommentSubmission carries a new comment plus request metadata
type CommentSubmission struct {
	AuthorName    string `json:"author_name"`
	AuthorEmail   string `json:"author_email"`
	AuthorWebsite string `json:"author_website"`
	Content       string `json:"content"`
	ParentID      *uint  `json:"parent_id"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// SubmitComment stores a comment in pending state for moderation
func (s *BlogService) SubmitComment(ctx context.Context, postSlug string, sub *CommentSubmission) (*domain.Comment, error) {
	name := strings.TrimSpace(sub.AuthorName)
	email := strings.ToLower(strings.TrimSpace(sub.AuthorEmail))
	content := strings.TrimSpace(sub.Content)

	if name == "" || email == "" || content == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "name, email and comment text are required")
	}
	if utf8.RuneCountInString(name) < 2 {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "name must be at least 2 characters")
	}
	if utf8.RuneCountInString(content) < 10 {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "comment must be at least 10 characters")
	}

	var post domain.Post
	err := s.db.WithContext(ctx).Scopes(published).Where("slug = ?", postSlug).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if !post.AllowComments {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "comments are closed for this post")
	}

	if sub.ParentID != nil {
		var parent domain.Comment
		if err := s.db.WithContext(ctx).Where("id = ? AND post_id = ?", *sub.ParentID, post.ID).First(&parent).Error; err != nil {
			return nil, apperrors.New(apperrors.ErrCodeBadRequest, "parent comment not found")
		}
	}

	comment := domain.Comment{
		PostID:      post.ID,
		AuthorName:  name,
		AuthorEmail: email,
		Content:     content,
		Status:      domain.CommentStatusPending,
		ParentID:    sub.ParentID,
		UserAgent:   sub.UserAgent,
	}
	if website := strings.TrimSpace(sub.AuthorWebsite); website != "" {
		comment.AuthorWebsite = &website
	}
	if sub.IPAddress != "" {
		ip := sub.IPAddress
		comment.IPAddress = &ip
	}

	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	log.Printf("[BLOG] Comment submitted: id=%d, post=%s", comment.ID, postSlug)
	metrics.RecordCommentSubmission()
	return &comment, nil
}

// PendingComment is a comment awaiting moderation with its post context
type PendingComment struct {
	domain.Comment
	PostTitle string `json:"post_title"`
	PostSlug  string `json:"post_slug"`
}

// ListPendingComments returns comments awaiting moderation, oldest first
func (s *BlogService) ListPendingComments(ctx context.Context) ([]PendingComment, error) {
	var comments []domain.Comment
	err := s.db.WithContext(ctx).
		Where("status = ?", domain.CommentStatusPending).
		Preload("Post", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "slug")
		}).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending comments: %w", err)
	}

	items := make([]PendingComment, 0, len(comments))
	for _, c := range comments {
		item := PendingComment{Comment: c}
		if c.Post != nil {
			item.PostTitle = c.Post.Title
			item.PostSlug = c.Post.Slug
		}
		items = append(items, item)
	}
	return items, nil
}

// ModerateComment moves a comment to approved, rejected or spam
func (s *BlogService) ModerateComment(ctx context.Context, id uint, status string) (*domain.Comment, error) {
	switch status {
	case domain.CommentStatusApproved, domain.CommentStatusRejected, domain.CommentStatusSpam:
	default:
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, fmt.Sprintf("invalid moderation status '%s'", status))
	}

	var comment domain.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "comment not found")
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	comment.Status = status
	if err := s.db.WithContext(ctx).Save(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	log.Printf("[BLOG] Comment id=%d moderated -> %s", id, status)
	return &comment, nil
}

// validatePostSchedule rejects a scheduled post whose publish time is
// missing or already past
func validatePostSchedule(post *domain.Post) error {
	if post.Status != domain.PostStatusScheduled {
		return nil
	}
	if post.PublishedAt == nil || !post.PublishedAt.After(time.Now()) {
		return apperrors.New(apperrors.ErrCodeBadRequest, "scheduled posts require a future publish time")
	}
	return nil
}

// CreatePost stores a post authored by a staff user
func (s *BlogService) CreatePost(ctx context.Context, post *domain.Post, author *domain.User) (*domain.Post, error) {
	post.AuthorID = author.ID
	if err := validatePostSchedule(post); err != nil {
		return nil, err
	}

	var category domain.BlogCategory
	if err := s.db.WithContext(ctx).First(&category, post.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeBadRequest, "blog category not found")
		}
		return nil, fmt.Errorf("failed to get blog category: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	log.Printf("[BLOG] Post created: id=%d, slug=%s, status=%s", post.ID, post.Slug, post.Status)
	return post, nil
}

// UpdatePost saves changes to a post
func (s *BlogService) UpdatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	var existing domain.Post
	if err := s.db.WithContext(ctx).First(&existing, post.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	// Publish history, view counter and authorship survive partial
	// update payloads
	if post.PublishedAt == nil {
		post.PublishedAt = existing.PublishedAt
	}
	post.ViewCount = existing.ViewCount
	if post.AuthorID == 0 {
		post.AuthorID = existing.AuthorID
	}
	post.CreatedAt = existing.CreatedAt

	if err := validatePostSchedule(post); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(post).Error; err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	log.Printf("[BLOG] Post updated: id=%d, slug=%s, status=%s", post.ID, post.Slug, post.Status)
	return post, nil
}
