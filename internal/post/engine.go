package post

import (
	"time"

	"github.com/postboard/postboard/internal/apperr"
	"github.com/postboard/postboard/internal/identity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAlreadyLiked    = apperr.Conflict("Post already liked")
	ErrNotLiked        = apperr.Conflict("Post has not been liked yet")
	ErrCommentNotFound = apperr.NotFound("Comment does not exist")
	ErrNotCommentOwner = apperr.Unauthorized("User is not authorized to delete the comment")
)

// NewID returns a fresh ObjectId-shaped identifier.
var NewID = func() string { return primitive.NewObjectID().Hex() }

func likeIndex(p *Post, userID string) int {
	for i, l := range p.Likes {
		if l.User == userID {
			return i
		}
	}
	return -1
}

// AddLike records caller's like at the front of the list. A user can like a
// post at most once.
func AddLike(p *Post, caller identity.Identity) ([]Like, error) {
	if likeIndex(p, caller.UserID) >= 0 {
		return p.Likes, ErrAlreadyLiked
	}
	p.Likes = append([]Like{{User: caller.UserID}}, p.Likes...)
	return p.Likes, nil
}

// RemoveLike removes the first like entry belonging to caller.
func RemoveLike(p *Post, caller identity.Identity) ([]Like, error) {
	i := likeIndex(p, caller.UserID)
	if i < 0 {
		return p.Likes, ErrNotLiked
	}
	p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
	return p.Likes, nil
}

// AddComment prepends a new comment authored by caller. Text is validated
// by the caller.
func AddComment(p *Post, caller identity.Identity, text, name, avatar string) Comment {
	c := Comment{
		ID:     NewID(),
		User:   caller.UserID,
		Text:   text,
		Name:   name,
		Avatar: avatar,
		Date:   time.Now().UTC(),
	}
	p.Comments = append([]Comment{c}, p.Comments...)
	return c
}

// RemoveComment deletes the comment with commentID if caller authored it.
// The entry is located by its id.
func RemoveComment(p *Post, caller identity.Identity, commentID string) ([]Comment, error) {
	idx := -1
	for i, c := range p.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return p.Comments, ErrCommentNotFound
	}
	if !IsOwner(p.Comments[idx].User, caller) {
		return p.Comments, ErrNotCommentOwner
	}
	p.Comments = append(p.Comments[:idx:idx], p.Comments[idx+1:]...)
	return p.Comments, nil
}
