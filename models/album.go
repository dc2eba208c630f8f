package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Genre struct {
	gorm.Model
	Name        string `gorm:"size:120;unique;not null"`
	Description string
}

type Artist struct {
	gorm.Model
	Name string `gorm:"size:120;not null"`
}

type Album struct {
	gorm.Model
	GenreID     uint            `gorm:"index"`
	Genre       Genre
	ArtistID    uint            `gorm:"index"`
	Artist      Artist
	Title       string          `gorm:"size:160;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	AlbumArtURL string          `gorm:"size:1024"`
}
