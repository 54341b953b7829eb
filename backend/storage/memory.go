package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"crowdfund/backend/models"
	"crowdfund/backend/query"
)

// MemoryIdeaStore keeps ideas in process. Reads return deep copies, so the
// stored documents change only through the store's own update methods.
type MemoryIdeaStore struct {
	mu    sync.RWMutex
	ideas map[string]*models.Idea
}

func NewMemoryIdeaStore() *MemoryIdeaStore {
	return &MemoryIdeaStore{ideas: make(map[string]*models.Idea)}
}

func (s *MemoryIdeaStore) Insert(_ context.Context, idea *models.Idea) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.ideas {
		if existing.Name == idea.Name {
			return models.ErrIdeaNameTaken
		}
	}
	s.ideas[idea.ID] = idea.Clone()
	return nil
}

func (s *MemoryIdeaStore) FindByID(_ context.Context, id string) (*models.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idea, ok := s.ideas[id]
	if !ok {
		return nil, models.ErrIdeaNotFound
	}
	return idea.Clone(), nil
}

func (s *MemoryIdeaStore) NameExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, idea := range s.ideas {
		if idea.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryIdeaStore) update(id string, fn func(idea *models.Idea) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[id]
	if !ok {
		return models.ErrIdeaNotFound
	}
	return fn(idea)
}

func (s *MemoryIdeaStore) PushRating(_ context.Context, ideaID string, r models.Rating) error {
	return s.update(ideaID, func(idea *models.Idea) error {
		return idea.AddRating(r)
	})
}

func (s *MemoryIdeaStore) PushComment(_ context.Context, ideaID string, c models.Comment) error {
	c.AuthorUsername = ""
	return s.update(ideaID, func(idea *models.Idea) error {
		idea.AddComment(c)
		return nil
	})
}

func (s *MemoryIdeaStore) PullComment(_ context.Context, ideaID, commentID string) error {
	return s.update(ideaID, func(idea *models.Idea) error {
		if !idea.RemoveComment(commentID) {
			return models.ErrCommentNotFound
		}
		return nil
	})
}

func (s *MemoryIdeaStore) ApplyInvestment(_ context.Context, ideaID string, entry models.FundingHistoryElement) (float64, error) {
	var total float64
	err := s.update(ideaID, func(idea *models.Idea) error {
		if idea.IsClosed() {
			return models.ErrIdeaClosed
		}
		if err := idea.ApplyInvestment(entry); err != nil {
			return models.ErrFundingGreaterThanTarget
		}
		total = idea.AlreadyCollected
		return nil
	})
	return total, err
}

func (s *MemoryIdeaStore) SetStatus(_ context.Context, ideaID string, status models.Status) error {
	return s.update(ideaID, func(idea *models.Idea) error {
		idea.Status = status
		return nil
	})
}

func (s *MemoryIdeaStore) FindExpired(_ context.Context, now time.Time) ([]*models.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Idea
	for _, idea := range s.ideas {
		if idea.IsExpired(now) {
			out = append(out, idea.Clone())
		}
	}
	return out, nil
}

func (s *MemoryIdeaStore) open() []*models.Idea {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Idea, 0, len(s.ideas))
	for _, idea := range s.ideas {
		if idea.Status == models.StatusOpen {
			out = append(out, idea.Clone())
		}
	}
	return out
}

func (s *MemoryIdeaStore) ListOpen(_ context.Context, sort query.IdeaSort, page query.Page) ([]*models.Idea, int64, error) {
	ideas := s.open()
	sort.Apply(ideas)
	return query.Paginate(ideas, page), int64(len(ideas)), nil
}

func (s *MemoryIdeaStore) SearchOpen(_ context.Context, search query.Search, sort query.IdeaSort) ([]*models.Idea, error) {
	var matched []*models.Idea
	for _, idea := range s.open() {
		if search.Matches(idea.Name) {
			matched = append(matched, idea)
		}
	}
	sort.Apply(matched)
	return query.Paginate(matched, query.Page{Page: 1, Limit: search.Limit}), nil
}

// MemoryForumStore is the in-process ForumStore.
type MemoryForumStore struct {
	mu     sync.RWMutex
	forums map[string]*models.Forum
}

func NewMemoryForumStore() *MemoryForumStore {
	return &MemoryForumStore{forums: make(map[string]*models.Forum)}
}

func (s *MemoryForumStore) Insert(_ context.Context, forum *models.Forum) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.forums {
		if existing.Title == forum.Title {
			return models.ErrForumTitleTaken
		}
	}
	s.forums[forum.ID] = forum.Clone()
	return nil
}

func (s *MemoryForumStore) FindByID(_ context.Context, id string) (*models.Forum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	forum, ok := s.forums[id]
	if !ok {
		return nil, models.ErrForumNotFound
	}
	return forum.Clone(), nil
}

func (s *MemoryForumStore) TitleExists(_ context.Context, title string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, forum := range s.forums {
		if forum.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryForumStore) update(id string, fn func(forum *models.Forum) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	forum, ok := s.forums[id]
	if !ok {
		return models.ErrForumNotFound
	}
	return fn(forum)
}

func (s *MemoryForumStore) PushComment(_ context.Context, forumID string, c models.ForumComment) error {
	c.AuthorUsername = ""
	return s.update(forumID, func(forum *models.Forum) error {
		forum.AddComment(c)
		return nil
	})
}

func (s *MemoryForumStore) PullComment(_ context.Context, forumID, commentID string) error {
	return s.update(forumID, func(forum *models.Forum) error {
		if !forum.RemoveComment(commentID) {
			return models.ErrCommentNotFound
		}
		return nil
	})
}

func (s *MemoryForumStore) SetCommentHelpful(_ context.Context, forumID, commentID string, helpful bool) error {
	return s.update(forumID, func(forum *models.Forum) error {
		if !forum.MarkHelpful(commentID, helpful) {
			return models.ErrCommentNotFound
		}
		return nil
	})
}

func (s *MemoryForumStore) SetStatus(_ context.Context, forumID string, status models.Status) error {
	return s.update(forumID, func(forum *models.Forum) error {
		forum.Status = status
		return nil
	})
}

func (s *MemoryForumStore) open() []*models.Forum {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Forum, 0, len(s.forums))
	for _, forum := range s.forums {
		if forum.Status == models.StatusOpen {
			out = append(out, forum.Clone())
		}
	}
	return out
}

func (s *MemoryForumStore) ListOpen(_ context.Context, sort query.ForumSort, page query.Page) ([]*models.Forum, int64, error) {
	forums := s.open()
	sort.Apply(forums)
	return query.Paginate(forums, page), int64(len(forums)), nil
}

func (s *MemoryForumStore) SearchOpen(_ context.Context, search query.Search) ([]*models.Forum, error) {
	var matched []*models.Forum
	for _, forum := range s.open() {
		if search.Matches(forum.Title) {
			matched = append(matched, forum)
		}
	}
	query.ForumSort{By: query.ForumByCreatedAt, Order: query.Desc}.Apply(matched)
	return query.Paginate(matched, query.Page{Page: 1, Limit: search.Limit}), nil
}

// MemoryUserStore is the in-process UserStore.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*models.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, user.Username) {
			return models.ErrUsernameTaken
		}
		if strings.EqualFold(u.Email, user.Email) {
			return models.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleClient
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *MemoryUserStore) FindByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*models.User, len(ids))
	for _, id := range UniqueIDs(ids) {
		if u, ok := s.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *MemoryUserStore) UpdateRole(_ context.Context, id string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (s *MemoryUserStore) SetBanned(_ context.Context, id string, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	u.IsBanned = banned
	return nil
}

var (
	_ IdeaStore  = (*MemoryIdeaStore)(nil)
	_ ForumStore = (*MemoryForumStore)(nil)
	_ UserStore  = (*MemoryUserStore)(nil)
)
