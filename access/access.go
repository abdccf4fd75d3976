// Package access holds the per-collection, per-operation visibility rules as
// typed predicates. Every entry point evaluates these before touching a record;
// handler-side checks are convenience only and never the boundary.
package access

import (
	"github.com/google/uuid"
	"github.com/rpupo63/agile-blog-backend/models"
)

// Requester is the identity issuing an operation, authenticated or anonymous.
type Requester struct {
	ID            uuid.UUID
	Authenticated bool
}

// Anonymous returns a requester with no session.
func Anonymous() Requester {
	return Requester{}
}

// User returns an authenticated requester.
func User(id uuid.UUID) Requester {
	return Requester{ID: id, Authenticated: true}
}

// Posts: list/view is `status = published || caller authenticated`;
// create requires a session; update/delete require authorship.

func CanViewPost(r Requester, p *models.Post) bool {
	return r.Authenticated || p.Status == models.PostStatusPublished
}

func CanCreatePost(r Requester) bool {
	return r.Authenticated
}

func CanMutatePost(r Requester, p *models.Post) bool {
	return r.Authenticated && r.ID == p.AuthorID
}

// Tags: public list/view, any authenticated caller may write.

func CanViewTag(Requester, *models.Tag) bool {
	return true
}

func CanMutateTag(r Requester) bool {
	return r.Authenticated
}

// Comments: the view rule is
//
//	status = "visible" || author = caller || caller authenticated
//
// The third disjunct makes every comment, hidden or not, visible to any
// logged-in caller; only anonymous callers are restricted to visible status.
// That matches the deployed rule and is pinned by tests, so keep all three
// disjuncts even though the middle one is shadowed.

func CanViewComment(r Requester, c *models.Comment) bool {
	if c.Status == models.CommentStatusVisible {
		return true
	}
	if r.Authenticated && r.ID == c.AuthorID {
		return true
	}
	return r.Authenticated
}

func CanCreateComment(r Requester) bool {
	return r.Authenticated
}

func CanMutateComment(r Requester, c *models.Comment) bool {
	return r.Authenticated && r.ID == c.AuthorID
}

// Users: public profile view, self-only update. Signup is the auth surface's
// concern, deletion is not exposed.

func CanViewUser(Requester, *models.User) bool {
	return true
}

func CanMutateUser(r Requester, u *models.User) bool {
	return r.Authenticated && r.ID == u.ID
}
