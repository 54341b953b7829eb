package services

import (
	"context"
	"log"
	"strings"
	"time"

	"crowdfund/backend/cache"
	"crowdfund/backend/models"
	"crowdfund/backend/query"
	"crowdfund/backend/storage"
	"crowdfund/backend/strategies"
)

type IdeaService struct {
	Ideas    storage.IdeaStore
	Users    storage.UserStore
	Cache    cache.Cache
	CacheTTL time.Duration
	Logger   *log.Logger
	Now      clock
}

func NewIdeaService(ideas storage.IdeaStore, users storage.UserStore, c cache.Cache, cacheTTL time.Duration, logger *log.Logger) *IdeaService {
	return &IdeaService{
		Ideas:    ideas,
		Users:    users,
		Cache:    c,
		CacheTTL: cacheTTL,
		Logger:   logger,
		Now:      time.Now,
	}
}

// IdeaSearchResult is the cached, denormalized shape of a search hit.
type IdeaSearchResult struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	TargetAmount     float64   `json:"targetAmount"`
	AlreadyCollected float64   `json:"alreadyCollected"`
	FundingDeadline  time.Time `json:"fundingDeadline"`
	CreatedAt        time.Time `json:"createdAt"`
	CreatorID        string    `json:"creatorId"`
	CreatorUsername  string    `json:"creatorUsername"`
	CreatorAvatar    string    `json:"creatorAvatar,omitempty"`
}

// Start creates an idea. Name uniqueness is checked here, after the role gate
// and before the strategy validates the draft.
func (s *IdeaService) Start(ctx context.Context, caller Caller, draft models.IdeaDraft) (string, error) {
	st, err := strategies.ResolveIdeaStrategy(caller.Role)
	if err != nil {
		return "", err
	}

	if !strategies.CanAuthor(caller.Role) {
		return "", models.ErrUnableToStartIdea
	}
	if name := strings.TrimSpace(draft.Name); name != "" {
		taken, err := s.Ideas.NameExists(ctx, name)
		if err != nil {
			return "", err
		}
		if taken {
			return "", models.ErrIdeaNameTaken
		}
	}

	idea, err := st.StartIdea(draft, caller.ID, s.Now())
	if err != nil {
		return "", err
	}
	if err := s.Ideas.Insert(ctx, idea); err != nil {
		return "", err
	}
	s.Logger.Printf("idea %s %q started by %s", idea.ID, idea.Name, caller.ID)
	return idea.ID, nil
}

// load resolves the caller's strategy and the target idea.
func (s *IdeaService) load(ctx context.Context, caller Caller, ideaID string) (strategies.IdeaStrategy, *models.Idea, error) {
	st, err := strategies.ResolveIdeaStrategy(caller.Role)
	if err != nil {
		return nil, nil, err
	}
	idea, err := s.Ideas.FindByID(ctx, ideaID)
	if err != nil {
		return nil, nil, err
	}
	return st, idea, nil
}

func (s *IdeaService) Rate(ctx context.Context, caller Caller, ideaID string, rate int) error {
	st, idea, err := s.load(ctx, caller, ideaID)
	if err != nil {
		return err
	}
	rating, err := st.RateIdea(idea, rate, caller.ID, idea.IsOwner(caller.ID))
	if err != nil {
		return err
	}
	return s.Ideas.PushRating(ctx, idea.ID, rating)
}

func (s *IdeaService) AddComment(ctx context.Context, caller Caller, ideaID, text string) (models.Comment, error) {
	st, idea, err := s.load(ctx, caller, ideaID)
	if err != nil {
		return models.Comment{}, err
	}
	comment, err := st.AddComment(idea, text, caller.ID, s.Now())
	if err != nil {
		return models.Comment{}, err
	}
	if err := s.Ideas.PushComment(ctx, idea.ID, comment); err != nil {
		return models.Comment{}, err
	}
	comment.AuthorUsername = caller.Username
	return comment, nil
}

func (s *IdeaService) DeleteComment(ctx context.Context, caller Caller, ideaID, commentID string) error {
	st, idea, err := s.load(ctx, caller, ideaID)
	if err != nil {
		return err
	}
	comment := idea.FindComment(commentID)
	if comment == nil {
		return models.ErrCommentNotFound
	}
	if !st.CanDeleteComment(comment.AuthorID, caller.ID) {
		return models.ErrNotEnoughAccess
	}
	return s.Ideas.PullComment(ctx, idea.ID, commentID)
}

// Invest returns the idea's new collected total.
func (s *IdeaService) Invest(ctx context.Context, caller Caller, ideaID string, amount float64) (float64, error) {
	st, idea, err := s.load(ctx, caller, ideaID)
	if err != nil {
		return 0, err
	}
	res, err := st.InvestIdea(idea, caller.ID, caller.Username, amount, idea.IsOwner(caller.ID), s.Now())
	if err != nil {
		return 0, err
	}
	total, err := s.Ideas.ApplyInvestment(ctx, idea.ID, res.Entry)
	if err != nil {
		return 0, err
	}
	s.Logger.Printf("idea %s funded %.2f by %s, collected %.2f/%.2f", idea.ID, amount, caller.ID, total, idea.TargetAmount)
	return total, nil
}

func (s *IdeaService) Close(ctx context.Context, caller Caller, ideaID string) error {
	st, idea, err := s.load(ctx, caller, ideaID)
	if err != nil {
		return err
	}
	if !st.CanCloseIdea(idea, caller.ID) {
		return models.ErrNotEnoughAccess
	}
	if err := idea.Close(); err != nil {
		return err
	}
	return s.Ideas.SetStatus(ctx, idea.ID, idea.Status)
}

// Get returns the idea shaped for the caller's role and ownership.
func (s *IdeaService) Get(ctx context.Context, caller Caller, ideaID string) (models.IdeaView, error) {
	st, idea, err := s.load(ctx, caller, ideaID)
	if err != nil {
		return models.IdeaView{}, err
	}
	if err := s.denormalize(ctx, []*models.Idea{idea}, true); err != nil {
		return models.IdeaView{}, err
	}
	return st.FormatForView(idea, idea.IsOwner(caller.ID)), nil
}

// ListSorted returns one page of open ideas.
func (s *IdeaService) ListSorted(ctx context.Context, sort query.IdeaSort, page query.Page) (query.Result[*models.Idea], error) {
	ideas, total, err := s.Ideas.ListOpen(ctx, sort, page)
	if err != nil {
		return query.Result[*models.Idea]{}, err
	}
	if err := s.denormalize(ctx, ideas, false); err != nil {
		return query.Result[*models.Idea]{}, err
	}
	return query.NewResult(ideas, total, page), nil
}

// Search is served from the cache when possible.
func (s *IdeaService) Search(ctx context.Context, search query.Search, sort query.IdeaSort) ([]IdeaSearchResult, error) {
	key := search.CacheKey("idea", sort.Key())
	return cache.ReadThrough(ctx, s.Cache, s.Logger, key, s.CacheTTL, func(ctx context.Context) ([]IdeaSearchResult, error) {
		ideas, err := s.Ideas.SearchOpen(ctx, search, sort)
		if err != nil {
			return nil, err
		}
		if err := s.denormalize(ctx, ideas, false); err != nil {
			return nil, err
		}
		out := make([]IdeaSearchResult, 0, len(ideas))
		for _, idea := range ideas {
			out = append(out, IdeaSearchResult{
				ID:               idea.ID,
				Name:             idea.Name,
				Description:      idea.Description,
				TargetAmount:     idea.TargetAmount,
				AlreadyCollected: idea.AlreadyCollected,
				FundingDeadline:  idea.FundingDeadline,
				CreatedAt:        idea.CreatedAt,
				CreatorID:        idea.CreatorID,
				CreatorUsername:  idea.CreatorUsername,
				CreatorAvatar:    idea.CreatorAvatar,
			})
		}
		return out, nil
	})
}

// denormalize fills creator (and optionally comment author) names from one batch lookup.
func (s *IdeaService) denormalize(ctx context.Context, ideas []*models.Idea, withComments bool) error {
	var ids []string
	for _, idea := range ideas {
		ids = append(ids, idea.CreatorID)
		if withComments {
			for _, c := range idea.Comments {
				ids = append(ids, c.AuthorID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	byID, err := creatorLookup(ctx, s.Users, ids)
	if err != nil {
		return err
	}
	for _, idea := range ideas {
		idea.CreatorUsername = usernameOf(byID, idea.CreatorID)
		idea.CreatorAvatar = avatarOf(byID, idea.CreatorID)
		if withComments {
			for i := range idea.Comments {
				idea.Comments[i].AuthorUsername = usernameOf(byID, idea.Comments[i].AuthorID)
			}
		}
	}
	return nil
}
