package models

import "time"

const (
	RoleManager = "manager"
	RoleWorker  = "worker"
)

type User struct {
	ID                 uint      `gorm:"primaryKey"`
	Email              string    `gorm:"uniqueIndex;not null"`
	Name               string    `gorm:"not null"`
	PasswordHash       string    `gorm:"not null"`
	Role               string    `gorm:"not null;default:worker"`
	Active             bool      `gorm:"not null;default:true"`
	MustChangePassword bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time
}

func ValidRole(role string) bool {
	return role == RoleManager || role == RoleWorker
}
