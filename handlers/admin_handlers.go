package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"MusicStore/cart"
	"MusicStore/models"
	"MusicStore/repositories"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func isValidImageExtensions(file *multipart.FileHeader) bool {
	allowExtensions := []string{".jpg", ".jpeg", ".png"}
	fileExt := strings.ToLower(filepath.Ext(file.Filename))
	for _, allowExt := range allowExtensions {
		if fileExt == allowExt {
			return true
		}
	}
	return false
}

func makeUniqueFileName(file *multipart.FileHeader) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
}

// GetUserListHandler lists every account for the store manager.
func GetUserListHandler(c *gin.Context, db *gorm.DB) {
	var userList []struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	err := db.WithContext(c).
		Model(&models.User{}).
		Select("id", "username", "role").
		Order("id").
		Find(&userList).
		Error
	if err != nil {
		respondError(c, "failed to list users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "users loaded",
		"userList": userList,
	})
}

// UploadImageHandler stores album art under uploadsDir and returns its URL.
func UploadImageHandler(c *gin.Context, uploadsDir string) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "image missing",
			"error":   err.Error(),
		})
		return
	}

	if !isValidImageExtensions(file) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "image must be jpg, jpeg or png",
		})
		return
	}

	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		respondError(c, "failed to create uploads directory", err)
		return
	}

	imageName := makeUniqueFileName(file)
	if err := c.SaveUploadedFile(file, filepath.Join(uploadsDir, imageName)); err != nil {
		respondError(c, "failed to save image", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "image uploaded",
		"albumArtUrl": "/uploads/" + imageName,
	})
}

type albumRequest struct {
	GenreID     *uint            `json:"genreId"`
	ArtistID    *uint            `json:"artistId"`
	Title       *string          `json:"title"`
	Price       *decimal.Decimal `json:"price"`
	AlbumArtURL *string          `json:"albumArtUrl"`
}

func (req albumRequest) apply(album *models.Album) error {
	if req.GenreID != nil {
		album.GenreID = *req.GenreID
	}
	if req.ArtistID != nil {
		album.ArtistID = *req.ArtistID
	}
	if req.Title != nil {
		album.Title = strings.TrimSpace(*req.Title)
	}
	if req.Price != nil {
		album.Price = *req.Price
	}
	if req.AlbumArtURL != nil {
		album.AlbumArtURL = *req.AlbumArtURL
	}

	if album.Title == "" {
		return fmt.Errorf("title is required: %w", cart.ErrValidation)
	}
	if !album.Price.IsPositive() {
		return fmt.Errorf("price must be positive: %w", cart.ErrValidation)
	}
	if album.GenreID == 0 || album.ArtistID == 0 {
		return fmt.Errorf("genre and artist are required: %w", cart.ErrValidation)
	}
	return nil
}

func CreateAlbumHandler(c *gin.Context, albums *repositories.AlbumRepository) {
	var req albumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}

	var album models.Album
	if err := req.apply(&album); err != nil {
		respondError(c, "invalid album", err)
		return
	}

	if err := albums.Create(c, &album); err != nil {
		respondError(c, "failed to create album", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "album created",
		"album":   albumJSON(album),
	})
}

func UpdateAlbumHandler(c *gin.Context, albums *repositories.AlbumRepository) {
	albumID, ok := parseID(c, "albumID")
	if !ok {
		return
	}

	var req albumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}

	album, err := albums.Find(c, albumID)
	if err != nil {
		respondError(c, "album not found", err)
		return
	}
	if err := req.apply(&album); err != nil {
		respondError(c, "invalid album", err)
		return
	}

	if err := albums.Update(c, &album); err != nil {
		respondError(c, "failed to update album", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "album updated",
		"album":   albumJSON(album),
	})
}

// DeleteAlbumHandler also drops the album from every cart.
func DeleteAlbumHandler(c *gin.Context, albums *repositories.AlbumRepository) {
	albumID, ok := parseID(c, "albumID")
	if !ok {
		return
	}

	if err := albums.Delete(c, albumID); err != nil {
		respondError(c, "failed to delete album", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "album deleted",
	})
}
