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

type ForumService struct {
	Forums   storage.ForumStore
	Users    storage.UserStore
	Cache    cache.Cache
	CacheTTL time.Duration
	Logger   *log.Logger
	Now      clock
}

func NewForumService(forums storage.ForumStore, users storage.UserStore, c cache.Cache, cacheTTL time.Duration, logger *log.Logger) *ForumService {
	return &ForumService{
		Forums:   forums,
		Users:    users,
		Cache:    c,
		CacheTTL: cacheTTL,
		Logger:   logger,
		Now:      time.Now,
	}
}

type ForumSearchResult struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	ImageURL        string        `json:"imageUrl,omitempty"`
	CommentCount    int           `json:"commentCount"`
	Status          models.Status `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	CreatorID       string        `json:"creatorId"`
	CreatorUsername string        `json:"creatorUsername"`
	CreatorAvatar   string        `json:"creatorAvatar,omitempty"`
}

func (s *ForumService) Create(ctx context.Context, caller Caller, draft models.ForumDraft) (string, error) {
	st, err := strategies.ResolveForumStrategy(caller.Role)
	if err != nil {
		return "", err
	}

	if !strategies.CanAuthor(caller.Role) {
		return "", models.ErrUnableToCreateForum
	}
	if title := strings.TrimSpace(draft.Title); title != "" {
		taken, err := s.Forums.TitleExists(ctx, title)
		if err != nil {
			return "", err
		}
		if taken {
			return "", models.ErrForumTitleTaken
		}
	}

	forum, err := st.CreateForum(draft, caller.ID, s.Now())
	if err != nil {
		return "", err
	}
	if err := s.Forums.Insert(ctx, forum); err != nil {
		return "", err
	}
	s.Logger.Printf("forum %s %q created by %s", forum.ID, forum.Title, caller.ID)
	return forum.ID, nil
}

func (s *ForumService) load(ctx context.Context, caller Caller, forumID string) (strategies.ForumStrategy, *models.Forum, error) {
	st, err := strategies.ResolveForumStrategy(caller.Role)
	if err != nil {
		return nil, nil, err
	}
	forum, err := s.Forums.FindByID(ctx, forumID)
	if err != nil {
		return nil, nil, err
	}
	return st, forum, nil
}

func (s *ForumService) AddComment(ctx context.Context, caller Caller, forumID, text string) (models.ForumComment, error) {
	st, forum, err := s.load(ctx, caller, forumID)
	if err != nil {
		return models.ForumComment{}, err
	}
	comment, err := st.AddComment(forum, text, caller.ID, s.Now())
	if err != nil {
		return models.ForumComment{}, err
	}
	if err := s.Forums.PushComment(ctx, forum.ID, comment); err != nil {
		return models.ForumComment{}, err
	}
	comment.AuthorUsername = caller.Username
	return comment, nil
}

func (s *ForumService) DeleteComment(ctx context.Context, caller Caller, forumID, commentID string) error {
	st, forum, err := s.load(ctx, caller, forumID)
	if err != nil {
		return err
	}
	comment := forum.FindComment(commentID)
	if comment == nil {
		return models.ErrCommentNotFound
	}
	if !st.CanDeleteComment(comment.AuthorID, caller.ID) {
		return models.ErrNotEnoughAccess
	}
	return s.Forums.PullComment(ctx, forum.ID, commentID)
}

func (s *ForumService) MarkHelpful(ctx context.Context, caller Caller, forumID, commentID string, helpful bool) error {
	st, forum, err := s.load(ctx, caller, forumID)
	if err != nil {
		return err
	}
	if forum.FindComment(commentID) == nil {
		return models.ErrCommentNotFound
	}
	if !st.CanMarkHelpful(forum, caller.ID) {
		return models.ErrNotEnoughAccess
	}
	return s.Forums.SetCommentHelpful(ctx, forum.ID, commentID, helpful)
}

func (s *ForumService) Close(ctx context.Context, caller Caller, forumID string) error {
	st, forum, err := s.load(ctx, caller, forumID)
	if err != nil {
		return err
	}
	if !st.CanCloseForum(forum, caller.ID) {
		return models.ErrNotEnoughAccess
	}
	if err := forum.Close(); err != nil {
		return err
	}
	if err := s.Forums.SetStatus(ctx, forum.ID, forum.Status); err != nil {
		return err
	}
	s.Logger.Printf("forum %s closed by %s (%s)", forum.ID, caller.ID, caller.Role)
	return nil
}

func (s *ForumService) Get(ctx context.Context, caller Caller, forumID string) (models.ForumView, error) {
	st, forum, err := s.load(ctx, caller, forumID)
	if err != nil {
		return models.ForumView{}, err
	}
	if err := s.denormalize(ctx, []*models.Forum{forum}, true); err != nil {
		return models.ForumView{}, err
	}
	return st.FormatForView(forum, forum.IsOwner(caller.ID)), nil
}

func (s *ForumService) ListSorted(ctx context.Context, sort query.ForumSort, page query.Page) (query.Result[*models.Forum], error) {
	forums, total, err := s.Forums.ListOpen(ctx, sort, page)
	if err != nil {
		return query.Result[*models.Forum]{}, err
	}
	if err := s.denormalize(ctx, forums, false); err != nil {
		return query.Result[*models.Forum]{}, err
	}
	return query.NewResult(forums, total, page), nil
}

func (s *ForumService) Search(ctx context.Context, search query.Search) ([]ForumSearchResult, error) {
	return cache.ReadThrough(ctx, s.Cache, s.Logger, search.CacheKey("forum"), s.CacheTTL, func(ctx context.Context) ([]ForumSearchResult, error) {
		forums, err := s.Forums.SearchOpen(ctx, search)
		if err != nil {
			return nil, err
		}
		if err := s.denormalize(ctx, forums, false); err != nil {
			return nil, err
		}
		out := make([]ForumSearchResult, 0, len(forums))
		for _, f := range forums {
			out = append(out, ForumSearchResult{
				ID:              f.ID,
				Title:           f.Title,
				Description:     f.Description,
				ImageURL:        f.ImageURL,
				CommentCount:    len(f.Comments),
				Status:          f.Status,
				CreatedAt:       f.CreatedAt,
				CreatorID:       f.CreatorID,
				CreatorUsername: f.CreatorUsername,
				CreatorAvatar:   f.CreatorAvatar,
			})
		}
		return out, nil
	})
}

func (s *ForumService) denormalize(ctx context.Context, forums []*models.Forum, withComments bool) error {
	var ids []string
	for _, f := range forums {
		ids = append(ids, f.CreatorID)
		if withComments {
			for _, c := range f.Comments {
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
	for _, f := range forums {
		f.CreatorUsername = usernameOf(byID, f.CreatorID)
		f.CreatorAvatar = avatarOf(byID, f.CreatorID)
		if withComments {
			for i := range f.Comments {
				f.Comments[i].AuthorUsername = usernameOf(byID, f.Comments[i].AuthorID)
			}
		}
	}
	return nil
}
