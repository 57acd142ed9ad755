// Package visibility decides which posts and comments a viewer may read.
//
// Anonymous viewers see published posts only, members additionally see
// their own posts in any status and staff see everything. Unapproved
// comments are visible to staff only.
package visibility

import (
	"fmt"

	"github.com/2beens/quillhub/internal/identity"
)

const StatusPublished = "published"

type Scope struct {
	all     bool
	ownerID int
}

func For(viewer identity.Viewer) Scope {
	switch {
	case viewer.IsStaff():
		return Scope{all: true}
	case viewer.IsAuthenticated():
		return Scope{ownerID: viewer.ID()}
	default:
		return Scope{}
	}
}

// All is true for staff scopes.
func (s Scope) All() bool {
	return s.all
}

// CanSeePost mirrors PostCondition for a post already in memory.
func (s Scope) CanSeePost(status string, authorID int) bool {
	switch {
	case s.all:
		return true
	case status == StatusPublished:
		return true
	default:
		return s.ownerID != 0 && s.ownerID == authorID
	}
}

func (s Scope) CanSeeComment(approved bool) bool {
	return s.all || approved
}

// PostCondition renders the scope as a SQL condition over the post table
// aliased as alias. Placeholders continue after the given args.
func (s Scope) PostCondition(alias string, args []any) (string, []any) {
	switch {
	case s.all:
		return "TRUE", args
	case s.ownerID != 0:
		args = append(args, s.ownerID)
		return fmt.Sprintf("(%[1]s.status = 'published' OR %[1]s.author_id = $%[2]d)", alias, len(args)), args
	default:
		return fmt.Sprintf("%s.status = 'published'", alias), args
	}
}

// CommentCondition renders the comment part of the scope over the comment
// table aliased as alias.
func (s Scope) CommentCondition(alias string) string {
	if s.all {
		return "TRUE"
	}
	return alias + ".is_approved"
}
