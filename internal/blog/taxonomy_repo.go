package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/pkg"
	"github.com/2beens/quillhub/pkg/slug"
)

const (
	maxCategorySlugLen = 100
	maxTagSlugLen      = 50
)

type TaxonomyRepo struct {
	db *pgxpool.Pool
}

func NewTaxonomyRepo(db *pgxpool.Pool) *TaxonomyRepo {
	return &TaxonomyRepo{
		db: db,
	}
}

func (r *TaxonomyRepo) ListCategories(ctx context.Context) (_ []Category, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.taxonomy.listCategories")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name, slug, description FROM category ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *TaxonomyRepo) CategoryBySlug(ctx context.Context, categorySlug string) (*Category, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.taxonomy.categoryBySlug")
	defer span.End()

	var c Category
	err := r.db.QueryRow(
		ctx, `SELECT id, name, slug, description FROM category WHERE slug = $1`, categorySlug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *TaxonomyRepo) CreateCategory(ctx context.Context, name, description string) (_ *Category, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.taxonomy.createCategory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	c := &Category{Name: name, Description: description}
	c.Slug, err = insertWithSlug(slug.MakeMax(name, maxCategorySlugLen, "category"), maxCategorySlugLen, func(candidate string) error {
		return r.db.QueryRow(
			ctx,
			`INSERT INTO category (name, slug, description) VALUES ($1, $2, $3) RETURNING id`,
			name, candidate, description,
		).Scan(&c.ID)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *TaxonomyRepo) ListTags(ctx context.Context) (_ []Tag, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.taxonomy.listTags")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name, slug FROM tag ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TaxonomyRepo) TagBySlug(ctx context.Context, tagSlug string) (*Tag, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.taxonomy.tagBySlug")
	defer span.End()

	var t Tag
	err := r.db.QueryRow(ctx, `SELECT id, name, slug FROM tag WHERE slug = $1`, tagSlug).Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaxonomyRepo) CreateTag(ctx context.Context, name string) (_ *Tag, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.taxonomy.createTag")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	t := &Tag{Name: name}
	t.Slug, err = insertWithSlug(slug.MakeMax(name, maxTagSlugLen, "tag"), maxTagSlugLen, func(candidate string) error {
		return r.db.QueryRow(
			ctx, `INSERT INTO tag (name, slug) VALUES ($1, $2) RETURNING id`, name, candidate,
		).Scan(&t.ID)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// insertWithSlug runs insert with base, base-2, base-3, ... until the slug is
// free. A clash on the name is ErrNameTaken.
func insertWithSlug(base string, maxLen int, insert func(candidate string) error) (string, error) {
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.Nth(base, n, maxLen)
		err := insert(candidate)
		if err == nil {
			return candidate, nil
		}
		constraint, ok := pkg.UniqueViolationConstraint(err)
		switch {
		case !ok:
			return "", err
		case strings.Contains(constraint, "name"):
			return "", ErrNameTaken
		}
	}
	return "", fmt.Errorf("no free slug for [%s]", base)
}
