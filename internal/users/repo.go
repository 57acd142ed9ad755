package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/quillhub/internal/db"
	"github.com/2beens/quillhub/internal/pagination"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/pkg"
)

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.is_staff, u.date_joined,
	p.user_id IS NOT NULL,
	COALESCE(p.bio, ''), COALESCE(p.avatar, ''), COALESCE(p.website, ''),
	COALESCE(p.twitter, ''), COALESCE(p.github, ''), COALESCE(p.linkedin, ''),
	COALESCE(p.follower_count, 0), COALESCE(p.following_count, 0),
	COALESCE(p.created_at, u.date_joined), COALESCE(p.updated_at, u.date_joined)`

const userFrom = ` FROM users u LEFT JOIN user_profile p ON p.user_id = u.id`

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

func scanUser(row rowScanner) (*User, error) {
	var (
		u          User
		p          Profile
		hasProfile bool
	)
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.IsStaff, &u.DateJoined,
		&hasProfile,
		&p.Bio, &p.Avatar, &p.Website,
		&p.Twitter, &p.Github, &p.Linkedin,
		&p.FollowerCount, &p.FollowingCount,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if hasProfile {
		p.UserID = u.ID
		u.Profile = &p
	}
	return &u, nil
}

// Create inserts the user row. Unique violations are reported as
// ErrEmailTaken or ErrUsernameTaken depending on the constraint hit.
func (r *Repo) Create(ctx context.Context, user *User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO users (username, email, password_hash, first_name, last_name, is_staff)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, date_joined`,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.IsStaff,
	).Scan(&user.ID, &user.DateJoined)
	if err != nil {
		if constraint, ok := pkg.UniqueViolationConstraint(err); ok {
			if strings.Contains(constraint, "email") {
				return ErrEmailTaken
			}
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *Repo) EmailExists(ctx context.Context, email string) (bool, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.emailExists")
	defer span.End()

	var exists bool
	err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`,
		email,
	).Scan(&exists)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	return exists, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	span.SetAttributes(attribute.Int("user.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+userFrom+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := scanUser(r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+userFrom+` WHERE lower(u.email) = lower($1)`,
		email,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetMany returns the users with the given ids keyed by id. Unknown ids are skipped.
func (r *Repo) GetMany(ctx context.Context, ids []int) (_ map[int]*User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getMany")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	found := make(map[int]*User, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+userFrom+` WHERE u.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		found[user.ID] = user
	}

	return found, rows.Err()
}

func (r *Repo) List(ctx context.Context, params pagination.Params) (_ []*User, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+userColumns+userFrom+` ORDER BY u.id LIMIT $1 OFFSET $2`,
		params.Limit(), params.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}

	return users, total, rows.Err()
}

func (r *Repo) CreateProfile(ctx context.Context, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.createProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO user_profile (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	return err
}

// UpdateProfile applies the non nil fields of update to the user and profile rows.
func (r *Repo) UpdateProfile(ctx context.Context, userID int, update ProfileUpdate) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updateProfile")
	defer span.End()

	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(
			ctx,
			`UPDATE users SET
				first_name = COALESCE($2, first_name),
				last_name = COALESCE($3, last_name)
			WHERE id = $1`,
			userID, update.FirstName, update.LastName,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}

		if err := ensureProfile(ctx, tx, userID); err != nil {
			return err
		}
		tag, err = tx.Exec(
			ctx,
			`UPDATE user_profile SET
				bio = COALESCE($2, bio),
				website = COALESCE($3, website),
				twitter = COALESCE($4, twitter),
				github = COALESCE($5, github),
				linkedin = COALESCE($6, linkedin),
				updated_at = now()
			WHERE user_id = $1`,
			userID, update.Bio, update.Website, update.Twitter, update.Github, update.Linkedin,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrProfileNotFound
		}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	return err
}

// SetAvatar stores the new avatar reference and returns the previous one.
func (r *Repo) SetAvatar(ctx context.Context, userID int, ref string) (previous string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.setAvatar")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ensureProfile(ctx, r.db, userID); err != nil {
		return "", err
	}
	err = r.db.QueryRow(
		ctx,
		`UPDATE user_profile p SET avatar = $2, updated_at = now()
		FROM user_profile old
		WHERE p.user_id = $1 AND old.user_id = p.user_id
		RETURNING old.avatar`,
		userID, ref,
	).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	return previous, nil
}

// Follow creates the follow row and bumps both counters in one transaction.
func (r *Repo) Follow(ctx context.Context, followerID, followingID int) (_ *Follow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.follow")
	span.SetAttributes(
		attribute.Int("follower.id", followerID),
		attribute.Int("following.id", followingID),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	follow := &Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	err = db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(
			ctx,
			`INSERT INTO follow (follower_id, following_id) VALUES ($1, $2)
			ON CONFLICT ON CONSTRAINT follow_unique DO NOTHING
			RETURNING id, created_at`,
			followerID, followingID,
		).Scan(&follow.ID, &follow.CreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrAlreadyFollowing
			}
			return err
		}
		return adjustFollowCounters(ctx, tx, followerID, followingID, 1)
	})
	if err != nil {
		return nil, err
	}

	return follow, nil
}

// Unfollow removes the follow row and decrements both counters in one transaction.
func (r *Repo) Unfollow(ctx context.Context, followerID, followingID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.unfollow")
	span.SetAttributes(
		attribute.Int("follower.id", followerID),
		attribute.Int("following.id", followingID),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(
			ctx,
			`DELETE FROM follow WHERE follower_id = $1 AND following_id = $2`,
			followerID, followingID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFollowing
		}
		return adjustFollowCounters(ctx, tx, followerID, followingID, -1)
	})
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// ensureProfile inserts the empty profile row when the created hook did not
// get to it, so counters and profile updates always have a row to land on.
func ensureProfile(ctx context.Context, conn execer, userID int) error {
	if _, err := conn.Exec(
		ctx,
		`INSERT INTO user_profile (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	); err != nil {
		return fmt.Errorf("ensure profile of user %d: %w", userID, err)
	}
	return nil
}

func adjustFollowCounters(ctx context.Context, tx pgx.Tx, followerID, followingID, delta int) error {
	for _, userID := range []int{followerID, followingID} {
		if err := ensureProfile(ctx, tx, userID); err != nil {
			return err
		}
	}

	tag, err := tx.Exec(
		ctx,
		`UPDATE user_profile SET following_count = following_count + $2 WHERE user_id = $1`,
		followerID, delta,
	)
	if err != nil {
		return fmt.Errorf("update following count: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update following count of user %d: %w", followerID, ErrProfileNotFound)
	}

	tag, err = tx.Exec(
		ctx,
		`UPDATE user_profile SET follower_count = follower_count + $2 WHERE user_id = $1`,
		followingID, delta,
	)
	if err != nil {
		return fmt.Errorf("update follower count: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update follower count of user %d: %w", followingID, ErrProfileNotFound)
	}
	return nil
}

// Followers lists follow rows pointing at userID, newest first.
func (r *Repo) Followers(ctx context.Context, userID int, params pagination.Params) ([]*Follow, int, error) {
	return r.listFollows(ctx, "following_id", userID, params)
}

// Following lists follow rows created by userID, newest first.
func (r *Repo) Following(ctx context.Context, userID int, params pagination.Params) ([]*Follow, int, error) {
	return r.listFollows(ctx, "follower_id", userID, params)
}

func (r *Repo) listFollows(
	ctx context.Context,
	column string,
	userID int,
	params pagination.Params,
) (_ []*Follow, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.listFollows")
	span.SetAttributes(attribute.String("column", column))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM follow WHERE `+column+` = $1`,
		userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, follower_id, following_id, created_at FROM follow
		WHERE `+column+` = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, params.Limit(), params.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var follows []*Follow
	for rows.Next() {
		var f Follow
		if err := rows.Scan(&f.ID, &f.FollowerID, &f.FollowingID, &f.CreatedAt); err != nil {
			return nil, 0, err
		}
		follows = append(follows, &f)
	}

	return follows, total, rows.Err()
}

// FollowingAmong reports which of ids the follower follows.
func (r *Repo) FollowingAmong(ctx context.Context, followerID int, ids []int) (_ map[int]bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.followingAmong")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	following := make(map[int]bool, len(ids))
	if len(ids) == 0 {
		return following, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT following_id FROM follow WHERE follower_id = $1 AND following_id = ANY($2)`,
		followerID, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		following[id] = true
	}

	return following, rows.Err()
}
