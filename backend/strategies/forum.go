package strategies

import (
	"strings"
	"time"

	"crowdfund/backend/models"
)

// ForumStrategy mirrors IdeaStrategy for discussion forums.
type ForumStrategy interface {
	Role() models.Role
	CreateForum(draft models.ForumDraft, creatorID string, now time.Time) (*models.Forum, error)
	AddComment(forum *models.Forum, text, authorID string, now time.Time) (models.ForumComment, error)
	CanDeleteComment(commentAuthorID, callerID string) bool
	CanCloseForum(forum *models.Forum, callerID string) bool
	CanMarkHelpful(forum *models.Forum, callerID string) bool
	FormatForView(forum *models.Forum, isOwner bool) models.ForumView
}

type baseForumStrategy struct{}

func (baseForumStrategy) CreateForum(models.ForumDraft, string, time.Time) (*models.Forum, error) {
	return nil, models.ErrUnableToCreateForum
}

func (baseForumStrategy) AddComment(*models.Forum, string, string, time.Time) (models.ForumComment, error) {
	return models.ForumComment{}, models.ErrUnableToComment
}

func (baseForumStrategy) CanDeleteComment(commentAuthorID, callerID string) bool {
	return isCommentAuthor(commentAuthorID, callerID)
}

func (baseForumStrategy) CanCloseForum(forum *models.Forum, callerID string) bool {
	return forum.IsOwner(callerID)
}

func (baseForumStrategy) CanMarkHelpful(forum *models.Forum, callerID string) bool {
	return forum.IsOwner(callerID)
}

func (baseForumStrategy) FormatForView(forum *models.Forum, isOwner bool) models.ForumView {
	return forumView(forum, isOwner)
}

func forumView(forum *models.Forum, canEdit bool) models.ForumView {
	return models.ForumView{Forum: forum, CanEdit: canEdit, IsClosed: forum.IsClosed()}
}

type ClientForumStrategy struct{ baseForumStrategy }

func (ClientForumStrategy) Role() models.Role { return models.RoleClient }

func (ClientForumStrategy) CreateForum(draft models.ForumDraft, creatorID string, now time.Time) (*models.Forum, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)

	if draft.Title == "" {
		return nil, models.ErrEmptyTitle
	}
	if draft.Description == "" {
		return nil, models.ErrEmptyDescription
	}
	return models.NewForum(draft, creatorID, now)
}

func (ClientForumStrategy) AddComment(forum *models.Forum, text, authorID string, now time.Time) (models.ForumComment, error) {
	if err := validateComment(text, authorID); err != nil {
		return models.ForumComment{}, err
	}
	if forum.IsClosed() {
		return models.ForumComment{}, models.ErrForumClosed
	}
	return models.ForumComment{Comment: models.NewComment(text, authorID, now)}, nil
}

type ModeratorForumStrategy struct{ baseForumStrategy }

func (ModeratorForumStrategy) Role() models.Role { return models.RoleModerator }

func (ModeratorForumStrategy) CanDeleteComment(string, string) bool { return true }

func (ModeratorForumStrategy) CanCloseForum(*models.Forum, string) bool { return true }

func (ModeratorForumStrategy) FormatForView(forum *models.Forum, _ bool) models.ForumView {
	return forumView(forum, true)
}

type AdminForumStrategy struct{ baseForumStrategy }

func (AdminForumStrategy) Role() models.Role { return models.RoleAdmin }

func (AdminForumStrategy) CanDeleteComment(string, string) bool { return true }

func (AdminForumStrategy) CanCloseForum(*models.Forum, string) bool { return true }

func (AdminForumStrategy) FormatForView(forum *models.Forum, _ bool) models.ForumView {
	return forumView(forum, true)
}

var (
	_ ForumStrategy = ClientForumStrategy{}
	_ ForumStrategy = ModeratorForumStrategy{}
	_ ForumStrategy = AdminForumStrategy{}
)
