// Package strategies holds the per-role permission and validation rules for
// ideas and forums. Each role resolves to its own strategy value; there is one
// resolution table for ideas and an independent one for forums.
package strategies

import (
	"errors"
	"fmt"

	"crowdfund/backend/models"
)

// ErrUnknownRole means a role outside the closed enum reached resolution.
// Validated input never produces it.
var ErrUnknownRole = errors.New("strategies: unknown role")

func ResolveIdeaStrategy(role models.Role) (IdeaStrategy, error) {
	switch role {
	case models.RoleClient:
		return ClientIdeaStrategy{}, nil
	case models.RoleModerator:
		return ModeratorIdeaStrategy{}, nil
	case models.RoleAdmin:
		return AdminIdeaStrategy{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

func ResolveForumStrategy(role models.Role) (ForumStrategy, error) {
	switch role {
	case models.RoleClient:
		return ClientForumStrategy{}, nil
	case models.RoleModerator:
		return ModeratorForumStrategy{}, nil
	case models.RoleAdmin:
		return AdminForumStrategy{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

// CanAuthor reports whether role may create ideas and forums at all.
// Callers use it to refuse staff before any uniqueness lookup.
func CanAuthor(role models.Role) bool {
	return role == models.RoleClient
}
