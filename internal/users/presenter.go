package users

import (
	"time"

	"github.com/2beens/quillhub/internal/media"
)

type ProfilePayload struct {
	Bio            string            `json:"bio"`
	Avatar         *string           `json:"avatar"`
	AvatarURLs     map[string]string `json:"avatar_urls"`
	Website        string            `json:"website"`
	Twitter        string            `json:"twitter"`
	Github         string            `json:"github"`
	Linkedin       string            `json:"linkedin"`
	FollowerCount  int               `json:"follower_count"`
	FollowingCount int               `json:"following_count"`
}

type UserPayload struct {
	ID          int             `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	DateJoined  time.Time       `json:"date_joined"`
	Profile     *ProfilePayload `json:"profile"`
	IsFollowing bool            `json:"is_following"`
}

type FollowPayload struct {
	ID        int         `json:"id"`
	Follower  UserPayload `json:"follower"`
	Following UserPayload `json:"following"`
	CreatedAt time.Time   `json:"created_at"`
}

type Presenter struct {
	pipeline *media.Pipeline
}

func NewPresenter(pipeline *media.Pipeline) *Presenter {
	return &Presenter{
		pipeline: pipeline,
	}
}

func (p *Presenter) User(user *User, isFollowing bool) UserPayload {
	payload := UserPayload{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		DateJoined:  user.DateJoined,
		IsFollowing: isFollowing,
	}

	if profile := user.Profile; profile != nil {
		payload.Profile = &ProfilePayload{
			Bio:            profile.Bio,
			AvatarURLs:     p.pipeline.AvatarURLs(profile.Avatar),
			Website:        profile.Website,
			Twitter:        profile.Twitter,
			Github:         profile.Github,
			Linkedin:       profile.Linkedin,
			FollowerCount:  profile.FollowerCount,
			FollowingCount: profile.FollowingCount,
		}
		if profile.Avatar != "" {
			avatarURL := p.pipeline.URL(profile.Avatar)
			payload.Profile.Avatar = &avatarURL
		}
	}

	return payload
}

func (p *Presenter) Users(users []*User, following map[int]bool) []UserPayload {
	payloads := make([]UserPayload, 0, len(users))
	for _, u := range users {
		payloads = append(payloads, p.User(u, following[u.ID]))
	}
	return payloads
}

func (p *Presenter) Follows(entries []FollowEntry, following map[int]bool) []FollowPayload {
	payloads := make([]FollowPayload, 0, len(entries))
	for _, e := range entries {
		payloads = append(payloads, FollowPayload{
			ID:        e.Follow.ID,
			Follower:  p.User(e.Follower, following[e.Follower.ID]),
			Following: p.User(e.Following, following[e.Following.ID]),
			CreatedAt: e.Follow.CreatedAt,
		})
	}
	return payloads
}
