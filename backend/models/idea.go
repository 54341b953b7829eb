package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 0
	MaxRating = 5
	// MaxFundingAmount bounds both an idea's target and a single investment.
	MaxFundingAmount = 1_000_000
)

// IdeaDraft is the user supplied part of a new idea.
type IdeaDraft struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	TargetAmount    float64   `json:"targetAmount"`
	FundingDeadline time.Time `json:"fundingDeadline"`
}

// Idea is a funding-seeking proposal. Ratings, comments and funding history
// are embedded and owned by the idea.
type Idea struct {
	ID               string                  `bson:"_id" json:"id"`
	CreatorID        string                  `bson:"creatorId" json:"creatorId"`
	Name             string                  `bson:"name" json:"name"`
	Description      string                  `bson:"description" json:"description"`
	TargetAmount     float64                 `bson:"targetAmount" json:"targetAmount"`
	AlreadyCollected float64                 `bson:"alreadyCollected" json:"alreadyCollected"`
	FundingDeadline  time.Time               `bson:"fundingDeadline" json:"fundingDeadline"`
	Status           Status                  `bson:"status" json:"status"`
	Ratings          []Rating                `bson:"ratings" json:"ratings"`
	Comments         []Comment               `bson:"comments" json:"comments"`
	FundingHistory   []FundingHistoryElement `bson:"fundingHistory" json:"fundingHistory"`
	CreatedAt        time.Time               `bson:"createdAt" json:"createdAt"`

	CreatorUsername string `bson:"-" json:"creatorUsername,omitempty"`
	CreatorAvatar   string `bson:"-" json:"creatorAvatar,omitempty"`
}

var (
	errMalformedIdea     = errors.New("models: idea requires creator, name and a positive target")
	errCollectedOverflow = errors.New("models: investment would exceed target amount")
)

// NewIdea constructs an open idea. It refuses malformed construction outright;
// user-facing validation happens in the strategies before this is called.
func NewIdea(draft IdeaDraft, creatorID string, now time.Time) (*Idea, error) {
	if creatorID == "" || draft.Name == "" || draft.TargetAmount <= 0 {
		return nil, errMalformedIdea
	}
	return &Idea{
		ID:              uuid.NewString(),
		CreatorID:       creatorID,
		Name:            draft.Name,
		Description:     draft.Description,
		TargetAmount:    draft.TargetAmount,
		FundingDeadline: draft.FundingDeadline.UTC(),
		Status:          StatusOpen,
		Ratings:         []Rating{},
		Comments:        []Comment{},
		FundingHistory:  []FundingHistoryElement{},
		CreatedAt:       now.UTC(),
	}, nil
}

func (i *Idea) IsOwner(userID string) bool { return userID != "" && i.CreatorID == userID }

func (i *Idea) IsClosed() bool { return i.Status == StatusClosed }

// HasRated reports whether raterID already rated this idea.
func (i *Idea) HasRated(raterID string) bool {
	for _, r := range i.Ratings {
		if r.RatedBy == raterID {
			return true
		}
	}
	return false
}

// AverageRating is 0 for an unrated idea.
func (i *Idea) AverageRating() float64 {
	if len(i.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range i.Ratings {
		sum += r.Rate
	}
	return float64(sum) / float64(len(i.Ratings))
}

// IsExpired reports whether an open idea is past its funding deadline.
func (i *Idea) IsExpired(now time.Time) bool {
	return i.Status == StatusOpen && !i.FundingDeadline.After(now)
}

// AddRating appends r unless its rater already rated.
func (i *Idea) AddRating(r Rating) error {
	if i.HasRated(r.RatedBy) {
		return ErrAlreadyRated
	}
	i.Ratings = append(i.Ratings, r)
	return nil
}

func (i *Idea) AddComment(c Comment) {
	i.Comments = append(i.Comments, c)
}

// FindComment returns a pointer into the embedded slice, or nil.
func (i *Idea) FindComment(commentID string) *Comment {
	for idx := range i.Comments {
		if i.Comments[idx].ID == commentID {
			return &i.Comments[idx]
		}
	}
	return nil
}

func (i *Idea) RemoveComment(commentID string) bool {
	for idx := range i.Comments {
		if i.Comments[idx].ID == commentID {
			i.Comments = append(i.Comments[:idx], i.Comments[idx+1:]...)
			return true
		}
	}
	return false
}

// ApplyInvestment records entry and raises AlreadyCollected. The collected
// amount never exceeds the target: an overflowing entry is refused, not clamped.
func (i *Idea) ApplyInvestment(entry FundingHistoryElement) error {
	if i.AlreadyCollected+entry.Amount > i.TargetAmount {
		return errCollectedOverflow
	}
	i.AlreadyCollected += entry.Amount
	i.FundingHistory = append(i.FundingHistory, entry)
	return nil
}

// Close moves the idea to Closed. There is no way back.
func (i *Idea) Close() error {
	if i.IsClosed() {
		return ErrIdeaAlreadyClosed
	}
	i.Status = StatusClosed
	return nil
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (i *Idea) Clone() *Idea {
	c := *i
	c.Ratings = append([]Rating{}, i.Ratings...)
	c.Comments = append([]Comment{}, i.Comments...)
	c.FundingHistory = append([]FundingHistoryElement{}, i.FundingHistory...)
	return &c
}
