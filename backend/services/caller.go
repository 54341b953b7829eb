// Package services runs each use case: resolve the caller's role, let the
// matching strategy validate and compute the change, persist it through a
// field-scoped store update, and hand back a role-shaped view.
package services

import (
	"context"
	"time"

	"crowdfund/backend/models"
	"crowdfund/backend/storage"
)

// Caller identifies who is acting on a request.
type Caller struct {
	ID       string
	Username string
	Role     models.Role
}

func CallerFromUser(u *models.User) Caller {
	return Caller{ID: u.ID, Username: u.Username, Role: u.Role}
}

type clock func() time.Time

// creatorLookup resolves usernames and avatars for a set of user ids in one query.
func creatorLookup(ctx context.Context, users storage.UserStore, ids []string) (map[string]*models.User, error) {
	return users.FindByIDs(ctx, storage.UniqueIDs(ids))
}

func usernameOf(byID map[string]*models.User, id string) string {
	if u, ok := byID[id]; ok {
		return u.Username
	}
	return ""
}

func avatarOf(byID map[string]*models.User, id string) string {
	if u, ok := byID[id]; ok {
		return u.AvatarURL
	}
	return ""
}
