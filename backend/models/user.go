package models

import (
	"time"
)

type User struct {
	ID                 string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	Username           string     `gorm:"unique;not null" json:"username"`
	Email              string     `gorm:"unique;not null" json:"email"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	Role               Role       `gorm:"type:varchar(16);default:'Client';not null" json:"role"`
	IsBanned           bool       `gorm:"default:false" json:"isBanned"`
	AvatarURL          string     `json:"avatarUrl,omitempty"`
	RefreshToken       *string    `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
}
