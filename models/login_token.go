package models

import (
	"time"

	"gorm.io/gorm"
)

type LoginToken struct {
	gorm.Model
	Token          string
	ExpirationTime time.Time
	UserID         uint
	Role           string
}
