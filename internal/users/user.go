package users

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email taken")
	ErrUsernameTaken      = errors.New("username taken")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrAlreadyFollowing   = errors.New("already following")
	ErrNotFollowing       = errors.New("not following")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      bool
	DateJoined   time.Time
	// Profile is nil until the profile hook has run for the user.
	Profile *Profile
}

type Profile struct {
	UserID         int
	Bio            string
	Avatar         string
	Website        string
	Twitter        string
	Github         string
	Linkedin       string
	FollowerCount  int
	FollowingCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Follow struct {
	ID          int
	FollowerID  int
	FollowingID int
	CreatedAt   time.Time
}

// ProfileUpdate holds the editable user and profile fields, nil means unchanged.
type ProfileUpdate struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
	Website   *string `json:"website" validate:"omitempty,url,max=200"`
	Twitter   *string `json:"twitter" validate:"omitempty,max=50"`
	Github    *string `json:"github" validate:"omitempty,max=50"`
	Linkedin  *string `json:"linkedin" validate:"omitempty,max=50"`
}

type NewUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}
