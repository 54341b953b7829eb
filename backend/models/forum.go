package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type ForumDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Forum is a discussion question with an embedded comment thread.
type Forum struct {
	ID          string         `bson:"_id" json:"id"`
	CreatorID   string         `bson:"creatorId" json:"creatorId"`
	Title       string         `bson:"title" json:"title"`
	Description string         `bson:"description" json:"description"`
	ImageURL    string         `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Status      Status         `bson:"status" json:"status"`
	Comments    []ForumComment `bson:"comments" json:"comments"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`

	CreatorUsername string `bson:"-" json:"creatorUsername,omitempty"`
	CreatorAvatar   string `bson:"-" json:"creatorAvatar,omitempty"`
}

var errMalformedForum = errors.New("models: forum requires creator and title")

func NewForum(draft ForumDraft, creatorID string, now time.Time) (*Forum, error) {
	if creatorID == "" || draft.Title == "" {
		return nil, errMalformedForum
	}
	return &Forum{
		ID:          uuid.NewString(),
		CreatorID:   creatorID,
		Title:       draft.Title,
		Description: draft.Description,
		ImageURL:    draft.ImageURL,
		Status:      StatusOpen,
		Comments:    []ForumComment{},
		CreatedAt:   now.UTC(),
	}, nil
}

func (f *Forum) IsOwner(userID string) bool { return userID != "" && f.CreatorID == userID }

func (f *Forum) IsClosed() bool { return f.Status == StatusClosed }

func (f *Forum) AddComment(c ForumComment) {
	f.Comments = append(f.Comments, c)
}

func (f *Forum) FindComment(commentID string) *ForumComment {
	for idx := range f.Comments {
		if f.Comments[idx].ID == commentID {
			return &f.Comments[idx]
		}
	}
	return nil
}

func (f *Forum) RemoveComment(commentID string) bool {
	for idx := range f.Comments {
		if f.Comments[idx].ID == commentID {
			f.Comments = append(f.Comments[:idx], f.Comments[idx+1:]...)
			return true
		}
	}
	return false
}

// MarkHelpful flags or unflags a comment. It reports false when the comment is missing.
func (f *Forum) MarkHelpful(commentID string, helpful bool) bool {
	c := f.FindComment(commentID)
	if c == nil {
		return false
	}
	c.IsHelpful = helpful
	return true
}

// Close moves the forum to Closed. There is no way back.
func (f *Forum) Close() error {
	if f.IsClosed() {
		return ErrForumAlreadyClosed
	}
	f.Status = StatusClosed
	return nil
}

func (f *Forum) Clone() *Forum {
	c := *f
	c.Comments = append([]ForumComment{}, f.Comments...)
	return &c
}
