package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/quillhub/internal/db"
	"github.com/2beens/quillhub/internal/pagination"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/internal/visibility"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ToggleReaction removes the user's reaction of the given type when present
// and adds it otherwise, inside one transaction.
func (r *Repo) ToggleReaction(ctx context.Context, userID, postID int, reactionType string) (_ ToggleResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.toggleReaction")
	span.SetAttributes(
		attribute.Int("post.id", postID),
		attribute.String("reaction.type", reactionType),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var result ToggleResult
	err = db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(
			ctx,
			`DELETE FROM reaction WHERE user_id = $1 AND post_id = $2 AND reaction_type = $3`,
			userID, postID, reactionType,
		)
		if err != nil {
			return fmt.Errorf("delete reaction: %w", err)
		}
		if tag.RowsAffected() > 0 {
			result.Removed = true
			return nil
		}

		reaction := &Reaction{UserID: userID, PostID: postID, Type: reactionType}
		err = tx.QueryRow(
			ctx,
			`INSERT INTO reaction (user_id, post_id, reaction_type) VALUES ($1, $2, $3)
			ON CONFLICT ON CONSTRAINT reaction_unique DO NOTHING
			RETURNING id, created_at`,
			userID, postID, reactionType,
		).Scan(&reaction.ID, &reaction.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			// a concurrent toggle inserted the same reaction first
			err = tx.QueryRow(
				ctx,
				`SELECT id, created_at FROM reaction WHERE user_id = $1 AND post_id = $2 AND reaction_type = $3`,
				userID, postID, reactionType,
			).Scan(&reaction.ID, &reaction.CreatedAt)
		}
		if err != nil {
			return fmt.Errorf("insert reaction: %w", err)
		}
		result.Reaction = reaction
		return nil
	})
	if err != nil {
		return ToggleResult{}, err
	}
	return result, nil
}

func (r *Repo) AddToReadingList(ctx context.Context, userID, postID int) (_ *ReadingEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.addToReadingList")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entry := &ReadingEntry{UserID: userID, PostID: postID}
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO reading_list (user_id, post_id) VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT reading_list_unique DO NOTHING
		RETURNING id, added_at`,
		userID, postID,
	).Scan(&entry.ID, &entry.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadyInReadingList
		}
		return nil, err
	}
	return entry, nil
}

func (r *Repo) RemoveFromReadingList(ctx context.Context, userID, postID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.removeFromReadingList")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM reading_list WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotInReadingList
	}
	return nil
}

// ReadingList pages through the user's entries whose post the scope can
// still see, most recently added first.
func (r *Repo) ReadingList(
	ctx context.Context,
	userID int,
	scope visibility.Scope,
	params pagination.Params,
) (_ []*ReadingEntry, _ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.readingList")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cond, args := scope.PostCondition("p", []any{userID})
	from := ` FROM reading_list rl JOIN post p ON p.id = rl.post_id WHERE rl.user_id = $1 AND ` + cond

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reading list: %w", err)
	}

	args = append(args, params.Limit(), params.Offset())
	rows, err := r.db.Query(
		ctx,
		`SELECT rl.id, rl.user_id, rl.post_id, rl.added_at`+from+
			fmt.Sprintf(` ORDER BY rl.added_at DESC, rl.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list reading list: %w", err)
	}
	defer rows.Close()

	var entries []*ReadingEntry
	for rows.Next() {
		var e ReadingEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.PostID, &e.AddedAt); err != nil {
			return nil, 0, fmt.Errorf("scan reading entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
