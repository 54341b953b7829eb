// Package storage defines the narrow collection interfaces the services use
// and their MongoDB, GORM and in-memory implementations.
//
// Every mutation is field scoped (push, pull, set, increment) on a single
// idea or forum document. Missing documents surface as the matching
// models.ErrXxxNotFound rejection.
package storage

import (
	"context"
	"time"

	"crowdfund/backend/models"
	"crowdfund/backend/query"
)

type IdeaStore interface {
	Insert(ctx context.Context, idea *models.Idea) error
	FindByID(ctx context.Context, id string) (*models.Idea, error)
	NameExists(ctx context.Context, name string) (bool, error)
	// PushRating appends r only if its rater has not rated the idea yet,
	// as one atomic update. A lost race returns models.ErrAlreadyRated.
	PushRating(ctx context.Context, ideaID string, r models.Rating) error
	PushComment(ctx context.Context, ideaID string, c models.Comment) error
	PullComment(ctx context.Context, ideaID, commentID string) error
	// ApplyInvestment increments alreadyCollected and appends entry only while
	// the idea is open and the new total stays within the target. It returns
	// the new total.
	ApplyInvestment(ctx context.Context, ideaID string, entry models.FundingHistoryElement) (float64, error)
	SetStatus(ctx context.Context, ideaID string, status models.Status) error
	// FindExpired returns open ideas whose deadline is at or before now.
	FindExpired(ctx context.Context, now time.Time) ([]*models.Idea, error)
	// ListOpen returns one sorted page of open ideas and the open total.
	ListOpen(ctx context.Context, sort query.IdeaSort, page query.Page) ([]*models.Idea, int64, error)
	SearchOpen(ctx context.Context, search query.Search, sort query.IdeaSort) ([]*models.Idea, error)
}

type ForumStore interface {
	Insert(ctx context.Context, forum *models.Forum) error
	FindByID(ctx context.Context, id string) (*models.Forum, error)
	TitleExists(ctx context.Context, title string) (bool, error)
	PushComment(ctx context.Context, forumID string, c models.ForumComment) error
	PullComment(ctx context.Context, forumID, commentID string) error
	SetCommentHelpful(ctx context.Context, forumID, commentID string, helpful bool) error
	SetStatus(ctx context.Context, forumID string, status models.Status) error
	ListOpen(ctx context.Context, sort query.ForumSort, page query.Page) ([]*models.Forum, int64, error)
	SearchOpen(ctx context.Context, search query.Search) ([]*models.Forum, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// FindByIDs resolves many users in one round trip. Unknown ids are absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
	SetBanned(ctx context.Context, id string, banned bool) error
}

// UniqueIDs drops empty and repeated ids, keeping first-seen order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
