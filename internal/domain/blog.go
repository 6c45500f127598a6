package domain

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"cascade/internal/text"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusScheduled = "scheduled"
	PostStatusArchived  = "archived"
)

// Comment moderation statuses
const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusRejected = "rejected"
	CommentStatusSpam     = "spam"
)

// BlogCategory groups posts into logical sections
// (Technology, Business, Design, Tutorials, ...).
type BlogCategory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug         string    `gorm:"size:120;uniqueIndex" json:"slug"`
	Description  string    `gorm:"type:text" json:"description"`
	IconClass    string    `gorm:"size:50;default:'fas fa-folder'" json:"icon_class"`
	DisplayOrder uint      `gorm:"default:0" json:"display_order"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for BlogCategory
func (BlogCategory) TableName() string {
	return "blog_categories"
}

// BeforeSave auto-generates the slug from the name if not provided
func (c *BlogCategory) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = text.Slugify(c.Name)
	}
	return nil
}

// Tag provides flexible post categorization and filtering
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"size:60;uniqueIndex" json:"slug"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	Posts []Post `gorm:"many2many:post_tags;" json:"-"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// BeforeSave auto-generates the slug from the name if not provided
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = text.Slugify(t.Name)
	}
	return nil
}

// Post represents a blog article. Featured images live at external URLs.
type Post struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	Title            string        `gorm:"size:200;not null" json:"title"`
	Slug             string        `gorm:"size:220;uniqueIndex" json:"slug"`
	Excerpt          string        `gorm:"size:500" json:"excerpt"`
	Content          string        `gorm:"type:text;not null" json:"content"`
	CategoryID       uint          `gorm:"not null;index:idx_posts_cat_status" json:"category_id"`
	Category         *BlogCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags             []Tag         `gorm:"many2many:post_tags;" json:"tags,omitempty"`
	AuthorID         uint          `gorm:"not null" json:"author_id"`
	Author           *User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	FeaturedImageURL *string       `gorm:"size:500" json:"featured_image_url"`
	Status           string        `gorm:"size:20;default:'draft';index:idx_posts_cat_status" json:"status"`
	PublishedAt      *time.Time    `gorm:"index" json:"published_at"`
	IsFeatured       bool          `gorm:"default:false;index" json:"is_featured"`
	AllowComments    bool          `gorm:"default:true" json:"allow_comments"`
	ViewCount        uint          `gorm:"default:0" json:"view_count"`
	MetaTitle        string        `gorm:"size:60" json:"meta_title"`
	MetaDescription  string        `gorm:"size:160" json:"meta_description"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"-"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// BeforeSave auto-generates slug and SEO fields, and stamps published_at the
// first time a post moves to published.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = text.Slugify(p.Title)
	}
	if p.Status == PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	if p.MetaTitle == "" {
		p.MetaTitle = text.Truncate(p.Title, 60)
	}
	if p.MetaDescription == "" && p.Excerpt != "" {
		p.MetaDescription = text.Truncate(p.Excerpt, 160)
	}
	return nil
}

// IsPublished reports whether the post is currently visible
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished && p.PublishedAt != nil && !p.PublishedAt.After(time.Now())
}

// ReadingTime estimates reading time in minutes at 200 words per minute
func (p *Post) ReadingTime() int {
	words := len(strings.Fields(p.Content))
	minutes := int(math.Round(float64(words) / 200))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Comment represents reader feedback on a post, held for moderation
type Comment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PostID        uint      `gorm:"not null;index:idx_comments_post_status" json:"post_id"`
	Post          *Post     `gorm:"foreignKey:PostID" json:"-"`
	AuthorName    string    `gorm:"size:100;not null" json:"author_name"`
	AuthorEmail   string    `gorm:"size:255;not null" json:"author_email"`
	AuthorWebsite *string   `gorm:"size:200" json:"author_website"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Status        string    `gorm:"size:20;default:'pending';index:idx_comments_post_status" json:"status"`
	IPAddress     *string   `gorm:"size:45" json:"-"`
	UserAgent     string    `gorm:"size:500" json:"-"`
	ParentID      *uint     `json:"parent_id"`
	Replies       []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// IsApproved reports whether the comment passed moderation
func (c *Comment) IsApproved() bool {
	return c.Status == CommentStatusApproved
}
