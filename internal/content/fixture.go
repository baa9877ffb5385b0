package content

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goliatone/go-pagelist/internal/identity"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Fixture describes seed content. Parents and taxonomy links refer to slugs.
type Fixture struct {
	Pages      []PageFixture `yaml:"pages"`
	Categories []TermFixture `yaml:"categories"`
	Tags       []TermFixture `yaml:"tags"`
	Posts      []PostFixture `yaml:"posts"`
}

type PageFixture struct {
	Slug      string            `yaml:"slug"`
	Title     string            `yaml:"title"`
	Parent    string            `yaml:"parent"`
	MenuOrder int               `yaml:"menu_order"`
	Status    string            `yaml:"status"`
	Meta      map[string]string `yaml:"meta"`
}

type TermFixture struct {
	Slug   string `yaml:"slug"`
	Name   string `yaml:"name"`
	Parent string `yaml:"parent"`
}

type PostFixture struct {
	Slug        string            `yaml:"slug"`
	Title       string            `yaml:"title"`
	Status      string            `yaml:"status"`
	PublishedAt time.Time         `yaml:"published_at"`
	Categories  []string          `yaml:"categories"`
	Tags        []string          `yaml:"tags"`
	Meta        map[string]string `yaml:"meta"`
}

// LoadFixtureFile decodes a YAML fixture from path.
func LoadFixtureFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeFixture(f)
}

// DecodeFixture decodes a YAML fixture.
func DecodeFixture(r io.Reader) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.NewDecoder(r).Decode(&fixture); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &fixture, nil
}

// Seed writes the fixture through repos using deterministic ids derived from slugs.
func Seed(ctx context.Context, repos Repositories, fixture *Fixture) error {
	if fixture == nil {
		return nil
	}
	for _, term := range fixture.Categories {
		if term.Slug == "" {
			return fmt.Errorf("category: %w", ErrSlugRequired)
		}
		record := &Category{
			ID:       identity.CategoryUUID(term.Slug),
			ParentID: parentRef(term.Parent, identity.CategoryUUID),
			Slug:     term.Slug,
			Name:     term.Name,
		}
		if _, err := repos.Taxonomies.CreateCategory(ctx, record); err != nil {
			return fmt.Errorf("seed category %s: %w", term.Slug, err)
		}
	}
	for _, term := range fixture.Tags {
		if term.Slug == "" {
			return fmt.Errorf("tag: %w", ErrSlugRequired)
		}
		record := &Tag{ID: identity.TagUUID(term.Slug), Slug: term.Slug, Name: term.Name}
		if _, err := repos.Taxonomies.CreateTag(ctx, record); err != nil {
			return fmt.Errorf("seed tag %s: %w", term.Slug, err)
		}
	}
	for _, page := range fixture.Pages {
		if page.Slug == "" {
			return fmt.Errorf("page: %w", ErrSlugRequired)
		}
		record := &Page{
			ID:        identity.PageUUID(page.Slug),
			ParentID:  parentRef(page.Parent, identity.PageUUID),
			Slug:      page.Slug,
			Title:     page.Title,
			MenuOrder: page.MenuOrder,
			Status:    statusOrPublished(page.Status),
		}
		if _, err := repos.Pages.Create(ctx, record); err != nil {
			return fmt.Errorf("seed page %s: %w", page.Slug, err)
		}
		if err := seedMeta(ctx, repos.Meta, record.ID, page.Meta); err != nil {
			return err
		}
	}
	for _, post := range fixture.Posts {
		if post.Slug == "" {
			return fmt.Errorf("post: %w", ErrSlugRequired)
		}
		record := &Post{
			ID:          identity.PostUUID(post.Slug),
			Slug:        post.Slug,
			Title:       post.Title,
			Status:      statusOrPublished(post.Status),
			PublishedAt: post.PublishedAt,
		}
		if _, err := repos.Posts.Create(ctx, record); err != nil {
			return fmt.Errorf("seed post %s: %w", post.Slug, err)
		}
		for _, cat := range post.Categories {
			if err := repos.Posts.AssignCategory(ctx, record.ID, identity.CategoryUUID(cat)); err != nil {
				return fmt.Errorf("seed post %s category %s: %w", post.Slug, cat, err)
			}
		}
		for _, tag := range post.Tags {
			if err := repos.Posts.AssignTag(ctx, record.ID, identity.TagUUID(tag)); err != nil {
				return fmt.Errorf("seed post %s tag %s: %w", post.Slug, tag, err)
			}
		}
		if err := seedMeta(ctx, repos.Meta, record.ID, post.Meta); err != nil {
			return err
		}
	}
	return nil
}

func seedMeta(ctx context.Context, repo MetaRepository, owner uuid.UUID, meta map[string]string) error {
	for key, value := range meta {
		if err := repo.Set(ctx, owner, key, value); err != nil {
			return fmt.Errorf("seed meta %s: %w", key, err)
		}
	}
	return nil
}

func parentRef(slug string, derive func(string) uuid.UUID) *uuid.UUID {
	if slug == "" {
		return nil
	}
	id := derive(slug)
	return &id
}

func statusOrPublished(status string) string {
	if status == "" {
		return StatusPublished
	}
	return status
}
