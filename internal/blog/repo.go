package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/quillhub/internal/db"
	"github.com/2beens/quillhub/internal/pagination"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/internal/visibility"
	"github.com/2beens/quillhub/pkg"
	"github.com/2beens/quillhub/pkg/slug"
)

// manual caching of statements not needed, pgx does that:
// https://github.com/jackc/pgx/wiki/Automatic-Prepared-Statement-Caching

const maxSlugAttempts = 1000

const postColumns = `
	p.id, p.title, p.slug, p.content, p.author_id, u.username,
	c.id, COALESCE(c.name, ''), COALESCE(c.slug, ''), COALESCE(c.description, ''),
	p.featured_image, p.status, p.is_featured, p.created_at, p.updated_at, p.views_count`

const postJoins = `
	JOIN users u ON u.id = p.author_id
	LEFT JOIN category c ON c.id = p.category_id`

const postFrom = ` FROM post p` + postJoins

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var (
		p          Post
		categoryID *int
		category   Category
		status     string
	)
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.AuthorID, &p.AuthorName,
		&categoryID, &category.Name, &category.Slug, &category.Description,
		&p.FeaturedImage, &status, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt, &p.ViewsCount,
	); err != nil {
		return nil, err
	}
	p.Status = Status(status)
	if categoryID != nil {
		category.ID = *categoryID
		p.Category = &category
	}
	return &p, nil
}

// CheckRefs verifies that the category and every tag exist.
func (r *Repo) CheckRefs(ctx context.Context, categoryID *int, tagIDs []int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.checkRefs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if categoryID != nil {
		var exists bool
		if err := r.db.QueryRow(
			ctx, `SELECT EXISTS (SELECT 1 FROM category WHERE id = $1)`, *categoryID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if !exists {
			return ErrCategoryNotFound
		}
	}

	if len(tagIDs) > 0 {
		var found int
		if err := r.db.QueryRow(
			ctx, `SELECT COUNT(DISTINCT id) FROM tag WHERE id = ANY($1)`, tagIDs,
		).Scan(&found); err != nil {
			return fmt.Errorf("check tags: %w", err)
		}
		if found != len(distinct(tagIDs)) {
			return ErrTagNotFound
		}
	}

	return nil
}

// Create stores the post and its tags and returns the new id. A derived slug
// that is taken gets -2, -3, ... appended until the insert succeeds; a taken
// explicit slug is ErrSlugTaken.
func (r *Repo) Create(ctx context.Context, post NewPost) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.Nth(post.Slug, n, maxSlugLen)

		var id int
		err = db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
			if err := tx.QueryRow(
				ctx,
				`INSERT INTO post (title, slug, content, author_id, category_id, status, is_featured)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id`,
				post.Title, candidate, post.Content, post.AuthorID, post.CategoryID, string(post.Status), post.IsFeatured,
			).Scan(&id); err != nil {
				return err
			}
			return replaceTags(ctx, tx, id, post.TagIDs)
		})

		if constraint, ok := pkg.UniqueViolationConstraint(err); ok && strings.Contains(constraint, "slug") {
			if post.Explicit {
				return 0, ErrSlugTaken
			}
			log.Tracef("slug [%s] taken, trying next", candidate)
			continue
		}
		if err != nil {
			if refErr := refViolation(err); refErr != nil {
				return 0, refErr
			}
			return 0, fmt.Errorf("insert post: %w", err)
		}

		span.SetAttributes(attribute.String("post.slug", candidate))
		return id, nil
	}

	return 0, fmt.Errorf("no free slug for [%s]", post.Slug)
}

func replaceTags(ctx context.Context, tx pgx.Tx, postID int, tagIDs []int) error {
	if _, err := tx.Exec(ctx, `DELETE FROM post_tag WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	if _, err := tx.Exec(
		ctx,
		`INSERT INTO post_tag (post_id, tag_id) SELECT $1, unnest($2::int[]) ON CONFLICT DO NOTHING`,
		postID, tagIDs,
	); err != nil {
		return fmt.Errorf("insert tags: %w", err)
	}
	return nil
}

// Get returns the post regardless of its status.
func (r *Repo) Get(ctx context.Context, id int) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.get")
	span.SetAttributes(attribute.Int("post.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.one(ctx, `SELECT `+postColumns+postFrom+` WHERE p.id = $1`, id)
}

// GetVisible returns the post with the given slug if scope may read it.
func (r *Repo) GetVisible(ctx context.Context, postSlug string, scope visibility.Scope) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.getVisible")
	span.SetAttributes(attribute.String("post.slug", postSlug))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cond, args := scope.PostCondition("p", []any{postSlug})
	return r.one(ctx, `SELECT `+postColumns+postFrom+` WHERE p.slug = $1 AND `+cond, args...)
}

// ReadAndCount increments the view counter of a visible post and returns it
// with the incremented value, in a single statement.
func (r *Repo) ReadAndCount(ctx context.Context, postSlug string, scope visibility.Scope) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.readAndCount")
	span.SetAttributes(attribute.String("post.slug", postSlug))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cond, args := scope.PostCondition("p", []any{postSlug})
	return r.one(
		ctx,
		`WITH viewed AS (
			UPDATE post p SET views_count = p.views_count + 1
			WHERE p.slug = $1 AND `+cond+`
			RETURNING p.*
		)
		SELECT `+postColumns+` FROM viewed p`+postJoins,
		args...,
	)
}

func (r *Repo) one(ctx context.Context, sql string, args ...any) (*Post, error) {
	post, err := scanPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if err := r.loadTags(ctx, []*Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// List pages through the posts visible to scope that match filter.
func (r *Repo) List(
	ctx context.Context,
	scope visibility.Scope,
	filter ListFilter,
	params pagination.Params,
) (_ []*Post, _ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cond, args := scope.PostCondition("p", nil)
	where, args := filter.conditions([]string{cond}, args)
	whereClause := ` WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+postFrom+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	args = append(args, params.Limit(), params.Offset())
	rows, err := r.db.Query(
		ctx,
		`SELECT `+postColumns+postFrom+whereClause+
			fmt.Sprintf(` ORDER BY %s LIMIT $%d OFFSET $%d`, filter.orderBy(), len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	posts, err := r.collect(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetMany returns the posts with the given ids keyed by id, whatever their status.
func (r *Repo) GetMany(ctx context.Context, ids []int) (_ map[int]*Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.getMany")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if len(ids) == 0 {
		return map[int]*Post{}, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+postColumns+postFrom+` WHERE p.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get posts: %w", err)
	}
	posts, err := r.collect(ctx, rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	return byID, nil
}

func (r *Repo) collect(ctx context.Context, rows pgx.Rows) ([]*Post, error) {
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	rows.Close()

	if err := r.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadTags fills the tags of all given posts with one query.
func (r *Repo) loadTags(ctx context.Context, posts []*Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int]*Post, len(posts))
	ids := make([]int, 0, len(posts))
	for _, p := range posts {
		p.Tags = []Tag{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT pt.post_id, t.id, t.name, t.slug
		FROM post_tag pt JOIN tag t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID int
			tag    Tag
		)
		if err := rows.Scan(&postID, &tag.ID, &tag.Name, &tag.Slug); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, tag)
		}
	}
	return rows.Err()
}

// Update applies the changes and, when tags are given, replaces the post's tags.
func (r *Repo) Update(ctx context.Context, id int, update PostUpdate) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.update")
	span.SetAttributes(attribute.Int("post.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var status *string
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}

	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(
			ctx,
			`UPDATE post SET
				title = COALESCE($2, title),
				content = COALESCE($3, content),
				category_id = CASE WHEN $4::boolean THEN $5::integer ELSE category_id END,
				status = COALESCE($6, status),
				is_featured = COALESCE($7, is_featured),
				updated_at = now()
			WHERE id = $1`,
			id, update.Title, update.Content, update.Category.Set, update.Category.Value, status, update.IsFeatured,
		)
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrPostNotFound
		}
		if update.TagIDs != nil {
			return replaceTags(ctx, tx, id, *update.TagIDs)
		}
		return nil
	})
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.delete")
	span.SetAttributes(attribute.Int("post.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM post WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// SetFeaturedImage stores the new image reference and returns the replaced one.
func (r *Repo) SetFeaturedImage(ctx context.Context, id int, ref string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.setFeaturedImage")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var previous string
	err = r.db.QueryRow(
		ctx,
		`UPDATE post p SET featured_image = $2, updated_at = now()
		FROM post old
		WHERE p.id = $1 AND old.id = p.id
		RETURNING old.featured_image`,
		id, ref,
	).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrPostNotFound
		}
		return "", err
	}
	return previous, nil
}

// Statistics aggregates over published posts. The most viewed post is the
// one with the highest view count, the lowest id winning ties.
func (r *Repo) Statistics(ctx context.Context) (_ *Statistics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.statistics")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stats := &Statistics{}
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*), COALESCE(SUM(views_count), 0) FROM post WHERE status = 'published'`,
	).Scan(&stats.TotalPosts, &stats.TotalViews); err != nil {
		return nil, fmt.Errorf("aggregate posts: %w", err)
	}

	var mostViewed MostViewed
	err = r.db.QueryRow(
		ctx,
		`SELECT title, slug, views_count FROM post
		WHERE status = 'published'
		ORDER BY views_count DESC, id ASC
		LIMIT 1`,
	).Scan(&mostViewed.Title, &mostViewed.Slug, &mostViewed.Views)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return stats, nil
	case err != nil:
		return nil, fmt.Errorf("most viewed post: %w", err)
	}

	stats.MostViewed = &mostViewed
	return stats, nil
}

// ReactionSummaries counts reactions per type for each post and lists the
// types viewerID reacted with. Posts without reactions get an empty summary.
func (r *Repo) ReactionSummaries(ctx context.Context, viewerID int, postIDs []int) (_ map[int]ReactionSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.reactionSummaries")
	span.SetAttributes(attribute.Int("posts.count", len(postIDs)))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	summaries := make(map[int]ReactionSummary, len(postIDs))
	for _, id := range postIDs {
		summaries[id] = newReactionSummary()
	}
	if len(postIDs) == 0 {
		return summaries, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT post_id, reaction_type, COUNT(*), COALESCE(bool_or(user_id = $2), FALSE)
		FROM reaction
		WHERE post_id = ANY($1)
		GROUP BY post_id, reaction_type
		ORDER BY post_id, reaction_type`,
		postIDs, viewerID,
	)
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID       int
			reactionType string
			count        int
			mine         bool
		)
		if err := rows.Scan(&postID, &reactionType, &count, &mine); err != nil {
			return nil, fmt.Errorf("scan reactions: %w", err)
		}
		summary, ok := summaries[postID]
		if !ok {
			continue
		}
		summary.Counts[reactionType] = count
		if mine {
			summary.Mine = append(summary.Mine, reactionType)
		}
		summaries[postID] = summary
	}
	return summaries, rows.Err()
}

func distinct(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// refViolation maps a foreign key violation on post or post_tag to the
// missing reference. A category or tag removed after CheckRefs ends up here.
func refViolation(err error) error {
	constraint, ok := pkg.ForeignKeyViolationConstraint(err)
	switch {
	case !ok:
		return nil
	case strings.Contains(constraint, "category"):
		return ErrCategoryNotFound
	case strings.Contains(constraint, "tag_id"):
		return ErrTagNotFound
	default:
		return nil
	}
}
