// Package identity models who is making a request. A Viewer is one of
// anonymous, member or staff and can only be built through the constructors below.
package identity

import (
	"context"
	"fmt"
	"net/http"
)

type role int

const (
	roleAnonymous role = iota
	roleMember
	roleStaff
)

type Viewer struct {
	role     role
	id       int
	username string
}

func Anonymous() Viewer {
	return Viewer{role: roleAnonymous}
}

func Member(id int, username string) Viewer {
	return Viewer{role: roleMember, id: id, username: username}
}

func Staff(id int, username string) Viewer {
	return Viewer{role: roleStaff, id: id, username: username}
}

func (v Viewer) IsAnonymous() bool {
	return v.role == roleAnonymous
}

func (v Viewer) IsAuthenticated() bool {
	return v.role != roleAnonymous
}

func (v Viewer) IsStaff() bool {
	return v.role == roleStaff
}

// ID is the user id, 0 for anonymous viewers.
func (v Viewer) ID() int {
	return v.id
}

func (v Viewer) Username() string {
	return v.username
}

// Owns reports whether the viewer is the given user.
func (v Viewer) Owns(userID int) bool {
	return v.IsAuthenticated() && v.id == userID
}

// CanManage is true for the owner and for staff.
func (v Viewer) CanManage(ownerID int) bool {
	return v.IsStaff() || v.Owns(ownerID)
}

func (v Viewer) String() string {
	switch v.role {
	case roleMember:
		return fmt.Sprintf("member(%d:%s)", v.id, v.username)
	case roleStaff:
		return fmt.Sprintf("staff(%d:%s)", v.id, v.username)
	default:
		return "anonymous"
	}
}

type viewerCtxKey struct{}

func WithViewer(ctx context.Context, viewer Viewer) context.Context {
	return context.WithValue(ctx, viewerCtxKey{}, viewer)
}

// FromContext returns the viewer stored in ctx, anonymous when there is none.
func FromContext(ctx context.Context) Viewer {
	if viewer, ok := ctx.Value(viewerCtxKey{}).(Viewer); ok {
		return viewer
	}
	return Anonymous()
}

func FromRequest(r *http.Request) Viewer {
	return FromContext(r.Context())
}
