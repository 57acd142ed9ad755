package users

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// CreatedHook runs after a new user row has been committed.
type CreatedHook func(ctx context.Context, user *User) error

type profileCreator interface {
	CreateProfile(ctx context.Context, userID int) error
}

// ProfileHook creates the empty profile every new user gets.
func ProfileHook(repo profileCreator) CreatedHook {
	return func(ctx context.Context, user *User) error {
		if err := repo.CreateProfile(ctx, user.ID); err != nil {
			return fmt.Errorf("create profile for user %d: %w", user.ID, err)
		}
		log.Debugf("profile created for user %d [%s]", user.ID, user.Username)
		user.Profile = &Profile{
			UserID:    user.ID,
			CreatedAt: user.DateJoined,
			UpdatedAt: user.DateJoined,
		}
		return nil
	}
}
