package services

import (
	"context"
	"log"

	"crowdfund/backend/models"
	"crowdfund/backend/storage"
)

// UserService holds account moderation: role changes and bans.
type UserService struct {
	Users  storage.UserStore
	Logger *log.Logger
}

func NewUserService(users storage.UserStore, logger *log.Logger) *UserService {
	return &UserService{Users: users, Logger: logger}
}

func (s *UserService) Me(ctx context.Context, caller Caller) (*models.User, error) {
	return s.Users.FindByID(ctx, caller.ID)
}

// SetRole is reserved to admins.
func (s *UserService) SetRole(ctx context.Context, caller Caller, targetID string, role models.Role) error {
	if caller.Role != models.RoleAdmin {
		return models.ErrNotEnoughAccess
	}
	if !role.Valid() {
		return models.ErrInvalidRole
	}
	if err := s.Users.UpdateRole(ctx, targetID, role); err != nil {
		return err
	}
	s.Logger.Printf("user %s role set to %s by %s", targetID, role, caller.ID)
	return nil
}

// SetBanned is open to staff, but a moderator cannot ban an admin.
func (s *UserService) SetBanned(ctx context.Context, caller Caller, targetID string, banned bool) error {
	if !caller.Role.IsStaff() {
		return models.ErrNotEnoughAccess
	}
	target, err := s.Users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role == models.RoleAdmin && caller.Role != models.RoleAdmin {
		return models.ErrNotEnoughAccess
	}
	if err := s.Users.SetBanned(ctx, targetID, banned); err != nil {
		return err
	}
	s.Logger.Printf("user %s banned=%t by %s", targetID, banned, caller.ID)
	return nil
}
