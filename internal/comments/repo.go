package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/quillhub/internal/pagination"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/internal/visibility"
)

const commentColumns = `c.id, c.post_id, c.author_id, COALESCE(u.username, ''), c.email, c.content, c.is_approved, c.created_at`

const commentFrom = `
	FROM comment c
	JOIN post p ON p.id = c.post_id
	LEFT JOIN users u ON u.id = c.author_id`

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

func scanComment(row rowScanner) (*Comment, error) {
	var c Comment
	if err := row.Scan(
		&c.ID, &c.PostID, &c.AuthorID, &c.AuthorUsername, &c.Email, &c.Content, &c.IsApproved, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// scopeWhere builds the conditions limiting comments to those the scope may
// read on posts the scope may read.
func scopeWhere(scope visibility.Scope, args []any) ([]string, []any) {
	postCond, args := scope.PostCondition("p", args)
	return []string{postCond, scope.CommentCondition("c")}, args
}

// PublishedPostID returns the id of the published post with the given slug.
// Drafts are reported as ErrPostNotFound whoever asks.
func (r *Repo) PublishedPostID(ctx context.Context, slug string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.comments.publishedPostID")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	err = r.db.QueryRow(
		ctx,
		`SELECT id FROM post WHERE slug = $1 AND status = 'published'`,
		slug,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *Repo) Create(ctx context.Context, comment *Comment) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.comments.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO comment (post_id, author_id, email, content, is_approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		comment.PostID, comment.AuthorID, comment.Email, comment.Content, comment.IsApproved,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// Get returns the comment if the scope may read both it and its post.
func (r *Repo) Get(ctx context.Context, id int, scope visibility.Scope) (_ *Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.comments.get")
	span.SetAttributes(attribute.Int("comment.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	where, args := scopeWhere(scope, []any{id})
	where = append(where, "c.id = $1")

	comment, err := scanComment(r.db.QueryRow(
		ctx,
		`SELECT `+commentColumns+commentFrom+` WHERE `+strings.Join(where, " AND "),
		args...,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// List pages through the comments visible to scope, newest first, optionally
// restricted to one post.
func (r *Repo) List(
	ctx context.Context,
	scope visibility.Scope,
	postSlug string,
	params pagination.Params,
) (_ []*Comment, _ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.comments.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	where, args := scopeWhere(scope, nil)
	if postSlug != "" {
		args = append(args, postSlug)
		where = append(where, fmt.Sprintf("p.slug = $%d", len(args)))
	}
	whereClause := ` WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+commentFrom+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	args = append(args, params.Limit(), params.Offset())
	rows, err := r.db.Query(
		ctx,
		`SELECT `+commentColumns+commentFrom+whereClause+
			fmt.Sprintf(` ORDER BY c.created_at DESC, c.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// ForPost returns the comments of one post visible to scope, oldest first.
func (r *Repo) ForPost(ctx context.Context, postID int, scope visibility.Scope) (_ []*Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.comments.forPost")
	span.SetAttributes(attribute.Int("post.id", postID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+commentColumns+commentFrom+` WHERE c.post_id = $1 AND `+scope.CommentCondition("c")+
			` ORDER BY c.created_at, c.id`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("list post comments: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

func (r *Repo) ApprovedCount(ctx context.Context, postID int) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.comments.approvedCount")
	defer span.End()

	var count int
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM comment WHERE post_id = $1 AND is_approved`,
		postID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count approved comments: %w", err)
	}
	return count, nil
}

func (r *Repo) UpdateContent(ctx context.Context, id int, content string) error {
	return r.exec(ctx, "repo.comments.updateContent", `UPDATE comment SET content = $2 WHERE id = $1`, id, content)
}

func (r *Repo) Approve(ctx context.Context, id int) error {
	return r.exec(ctx, "repo.comments.approve", `UPDATE comment SET is_approved = TRUE WHERE id = $1`, id)
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	return r.exec(ctx, "repo.comments.delete", `DELETE FROM comment WHERE id = $1`, id)
}

func (r *Repo) exec(ctx context.Context, spanName, sql string, id int, args ...any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, spanName)
	span.SetAttributes(attribute.Int("comment.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, sql, append([]any{id}, args...)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func collect(rows pgx.Rows) ([]*Comment, error) {
	var comments []*Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}
