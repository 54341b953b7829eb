package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crowdfund/backend/models"
)

// GormUserStore keeps accounts in the relational database.
type GormUserStore struct {
	DB *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	db := s.DB.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("LOWER(username) = LOWER(?)", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return models.ErrUsernameTaken
	}
	if err := db.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return models.ErrEmailTaken
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleClient
	}
	return db.Create(user).Error
}

func (s *GormUserStore) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *GormUserStore) FindByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	ids = UniqueIDs(ids)
	out := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (s *GormUserStore) updateColumn(ctx context.Context, id, column string, value any) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (s *GormUserStore) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return s.updateColumn(ctx, id, "role", string(role))
}

func (s *GormUserStore) SetBanned(ctx context.Context, id string, banned bool) error {
	return s.updateColumn(ctx, id, "is_banned", banned)
}

var _ UserStore = (*GormUserStore)(nil)
