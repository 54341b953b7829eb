package strategies

import (
	"strings"
	"time"

	"crowdfund/backend/models"
)

// IdeaStrategy decides what a role may do with an idea and shapes the result.
// Expected refusals come back as *models.Rejection errors.
type IdeaStrategy interface {
	Role() models.Role
	StartIdea(draft models.IdeaDraft, creatorID string, now time.Time) (*models.Idea, error)
	RateIdea(idea *models.Idea, rate int, raterID string, isOwner bool) (models.Rating, error)
	AddComment(idea *models.Idea, text, authorID string, now time.Time) (models.Comment, error)
	CanDeleteComment(commentAuthorID, callerID string) bool
	CanCloseIdea(idea *models.Idea, callerID string) bool
	InvestIdea(idea *models.Idea, funderID, funderUsername string, amount float64, isOwner bool, now time.Time) (InvestResult, error)
	FormatForView(idea *models.Idea, isOwner bool) models.IdeaView
}

// InvestResult is the delta an accepted investment produces.
type InvestResult struct {
	NewCollectedTotal float64
	Entry             models.FundingHistoryElement
}

// baseIdeaStrategy refuses every mutating action. Roles embed it and
// override only what they are allowed to do.
type baseIdeaStrategy struct{}

func (baseIdeaStrategy) StartIdea(models.IdeaDraft, string, time.Time) (*models.Idea, error) {
	return nil, models.ErrUnableToStartIdea
}

func (baseIdeaStrategy) RateIdea(*models.Idea, int, string, bool) (models.Rating, error) {
	return models.Rating{}, models.ErrUnableToRate
}

func (baseIdeaStrategy) AddComment(*models.Idea, string, string, time.Time) (models.Comment, error) {
	return models.Comment{}, models.ErrUnableToComment
}

func (baseIdeaStrategy) CanDeleteComment(commentAuthorID, callerID string) bool {
	return isCommentAuthor(commentAuthorID, callerID)
}

func (baseIdeaStrategy) CanCloseIdea(idea *models.Idea, callerID string) bool {
	return idea.IsOwner(callerID)
}

func (baseIdeaStrategy) InvestIdea(*models.Idea, string, string, float64, bool, time.Time) (InvestResult, error) {
	return InvestResult{}, models.ErrUnableToInvest
}

func (baseIdeaStrategy) FormatForView(idea *models.Idea, isOwner bool) models.IdeaView {
	return ideaView(idea, isOwner)
}

func ideaView(idea *models.Idea, canEdit bool) models.IdeaView {
	return models.IdeaView{
		Idea:          idea,
		CanEdit:       canEdit,
		IsClosed:      idea.IsClosed(),
		AverageRating: idea.AverageRating(),
	}
}

// ClientIdeaStrategy carries the full validation rules. Clients are the only
// role that authors, rates and funds ideas.
type ClientIdeaStrategy struct{ baseIdeaStrategy }

func (ClientIdeaStrategy) Role() models.Role { return models.RoleClient }

func (ClientIdeaStrategy) StartIdea(draft models.IdeaDraft, creatorID string, now time.Time) (*models.Idea, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Description = strings.TrimSpace(draft.Description)

	switch {
	case draft.Name == "":
		return nil, models.ErrEmptyName
	case draft.Description == "":
		return nil, models.ErrEmptyDescription
	case draft.TargetAmount <= 0 || draft.TargetAmount > models.MaxFundingAmount:
		return nil, models.ErrInvalidTargetAmount
	case !draft.FundingDeadline.After(now):
		return nil, models.ErrInvalidDeadline
	}
	return models.NewIdea(draft, creatorID, now)
}

func (ClientIdeaStrategy) RateIdea(idea *models.Idea, rate int, raterID string, isOwner bool) (models.Rating, error) {
	switch {
	case raterID == "":
		return models.Rating{}, models.ErrEmptyRatedBy
	case rate < models.MinRating || rate > models.MaxRating:
		return models.Rating{}, models.ErrInvalidRating
	case idea.HasRated(raterID):
		return models.Rating{}, models.ErrAlreadyRated
	case isOwner:
		return models.Rating{}, models.ErrRateYourIdea
	}
	return models.Rating{RatedBy: raterID, Rate: rate}, nil
}

func (ClientIdeaStrategy) AddComment(_ *models.Idea, text, authorID string, now time.Time) (models.Comment, error) {
	if err := validateComment(text, authorID); err != nil {
		return models.Comment{}, err
	}
	return models.NewComment(text, authorID, now), nil
}

func (ClientIdeaStrategy) InvestIdea(idea *models.Idea, funderID, funderUsername string, amount float64, isOwner bool, now time.Time) (InvestResult, error) {
	switch {
	case funderID == "" || funderUsername == "":
		return InvestResult{}, models.ErrEmptyFunder
	case amount <= 0 || amount > models.MaxFundingAmount:
		return InvestResult{}, models.ErrInvalidFundingAmount
	case isOwner:
		return InvestResult{}, models.ErrInvestYourIdea
	case idea.IsClosed():
		return InvestResult{}, models.ErrIdeaClosed
	case idea.AlreadyCollected+amount > idea.TargetAmount:
		return InvestResult{}, models.ErrFundingGreaterThanTarget
	}
	return InvestResult{
		NewCollectedTotal: idea.AlreadyCollected + amount,
		Entry: models.FundingHistoryElement{
			FunderID:       funderID,
			FunderUsername: funderUsername,
			Amount:         amount,
			FundedAt:       now.UTC(),
		},
	}, nil
}

// ModeratorIdeaStrategy may delete any comment, close any idea and edit any idea view.
type ModeratorIdeaStrategy struct{ baseIdeaStrategy }

func (ModeratorIdeaStrategy) Role() models.Role { return models.RoleModerator }

func (ModeratorIdeaStrategy) CanDeleteComment(string, string) bool { return true }

func (ModeratorIdeaStrategy) CanCloseIdea(*models.Idea, string) bool { return true }

func (ModeratorIdeaStrategy) FormatForView(idea *models.Idea, _ bool) models.IdeaView {
	return ideaView(idea, true)
}

// AdminIdeaStrategy has the moderator's elevated view and moderation rights.
type AdminIdeaStrategy struct{ baseIdeaStrategy }

func (AdminIdeaStrategy) Role() models.Role { return models.RoleAdmin }

func (AdminIdeaStrategy) CanDeleteComment(string, string) bool { return true }

func (AdminIdeaStrategy) CanCloseIdea(*models.Idea, string) bool { return true }

func (AdminIdeaStrategy) FormatForView(idea *models.Idea, _ bool) models.IdeaView {
	return ideaView(idea, true)
}

var (
	_ IdeaStrategy = ClientIdeaStrategy{}
	_ IdeaStrategy = ModeratorIdeaStrategy{}
	_ IdeaStrategy = AdminIdeaStrategy{}
)
