package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxCommentLength is counted in characters, not bytes.
const MaxCommentLength = 500

type Comment struct {
	ID       string `bson:"_id" json:"id"`
	Text     string `bson:"text" json:"text"`
	AuthorID string `bson:"authorId" json:"authorId"`
	// resolved from the user store at read time, never persisted
	AuthorUsername string    `bson:"-" json:"authorUsername,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// NewComment builds a comment with a fresh id. Text validation is the caller's job.
func NewComment(text, authorID string, now time.Time) Comment {
	return Comment{
		ID:        uuid.NewString(),
		Text:      text,
		AuthorID:  authorID,
		CreatedAt: now.UTC(),
	}
}

// ForumComment is a comment that the forum owner can flag as helpful.
type ForumComment struct {
	Comment   `bson:",inline"`
	IsHelpful bool `bson:"isHelpful" json:"isHelpful"`
}

type Rating struct {
	RatedBy string `bson:"ratedBy" json:"ratedBy"`
	Rate    int    `bson:"rate" json:"rate"`
}

type FundingHistoryElement struct {
	FunderID       string    `bson:"funderId" json:"funderId"`
	FunderUsername string    `bson:"funderUsername" json:"funderUsername"`
	Amount         float64   `bson:"amount" json:"amount"`
	FundedAt       time.Time `bson:"fundedAt" json:"fundedAt"`
}
