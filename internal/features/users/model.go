package users

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id"        gorm:"column:id"`
	Email          string    `json:"email"     gorm:"column:email"`
	HashedPassword string    `json:"-"         gorm:"column:hashed_password"`
	CreatedAt      time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}
