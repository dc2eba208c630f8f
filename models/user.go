package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username    string `gorm:"size:191;unique;not null"`
	Email       string `gorm:"size:191;unique;not null"`
	Password    string `gorm:"not null" json:"-"`
	Name        string
	Address     string
	Phone       string
	LoginTokens []LoginToken `json:"-"`
	Role        string
}
