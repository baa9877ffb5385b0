package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	StatusPublished = "publish"
	StatusDraft     = "draft"
	StatusPrivate   = "private"
)

// Page is a hierarchical page.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:pg"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ParentID  *uuid.UUID `bun:"parent_id,type:uuid,nullzero" json:"parent_id,omitempty"`
	Slug      string     `bun:"slug,notnull,unique" json:"slug"`
	Title     string     `bun:"title,notnull" json:"title"`
	MenuOrder int        `bun:"menu_order,notnull,default:0" json:"menu_order"`
	Status    string     `bun:"status,notnull" json:"status"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Post is a dated entry filed under categories and tags.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:ps"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug        string    `bun:"slug,notnull,unique" json:"slug"`
	Title       string    `bun:"title,notnull" json:"title"`
	Status      string    `bun:"status,notnull" json:"status"`
	PublishedAt time.Time `bun:"published_at,nullzero" json:"published_at"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Category is a hierarchical post taxonomy term.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID       uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ParentID *uuid.UUID `bun:"parent_id,type:uuid,nullzero" json:"parent_id,omitempty"`
	Slug     string     `bun:"slug,notnull,unique" json:"slug"`
	Name     string     `bun:"name,notnull" json:"name"`
}

// Tag is a flat post taxonomy term.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:tg"`

	ID   uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug string    `bun:"slug,notnull,unique" json:"slug"`
	Name string    `bun:"name,notnull" json:"name"`
}

// PostCategory links a post to a category.
type PostCategory struct {
	bun.BaseModel `bun:"table:post_categories,alias:pcat"`

	PostID     uuid.UUID `bun:"post_id,pk,type:uuid"`
	CategoryID uuid.UUID `bun:"category_id,pk,type:uuid"`
}

// PostTag links a post to a tag.
type PostTag struct {
	bun.BaseModel `bun:"table:post_tags,alias:ptag"`

	PostID uuid.UUID `bun:"post_id,pk,type:uuid"`
	TagID  uuid.UUID `bun:"tag_id,pk,type:uuid"`
}

// Meta is a key/value pair attached to a page or post.
type Meta struct {
	bun.BaseModel `bun:"table:content_meta,alias:meta"`

	ID      uuid.UUID `bun:",pk,type:uuid" json:"id"`
	OwnerID uuid.UUID `bun:"owner_id,notnull,type:uuid" json:"owner_id"`
	Key     string    `bun:"meta_key,notnull" json:"key"`
	Value   string    `bun:"meta_value" json:"value"`
}

// Models lists every table so callers can create the schema.
func Models() []any {
	return []any{
		(*Page)(nil),
		(*Post)(nil),
		(*Category)(nil),
		(*Tag)(nil),
		(*PostCategory)(nil),
		(*PostTag)(nil),
		(*Meta)(nil),
	}
}
