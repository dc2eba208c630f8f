package handlers

import (
	"net/http"
	"strconv"

	"MusicStore/models"
	"MusicStore/repositories"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 50

func albumJSON(album models.Album) gin.H {
	return gin.H{
		"id":          album.ID,
		"title":       album.Title,
		"price":       album.Price,
		"albumArtUrl": album.AlbumArtURL,
		"genreId":     album.GenreID,
		"genre":       album.Genre.Name,
		"artistId":    album.ArtistID,
		"artist":      album.Artist.Name,
	}
}

// GetAlbumListHandler pages through the catalog with limit and offset.
func GetAlbumListHandler(c *gin.Context, albums *repositories.AlbumRepository) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid limit",
		})
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid offset",
		})
		return
	}

	page, total, err := albums.List(c, offset, limit)
	if err != nil {
		respondError(c, "failed to list albums", err)
		return
	}

	albumsData := make([]gin.H, 0, len(page))
	for _, album := range page {
		albumsData = append(albumsData, albumJSON(album))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "albums loaded",
		"albums":     albumsData,
		"totalCount": total,
	})
}

func GetAlbumHandler(c *gin.Context, albums *repositories.AlbumRepository) {
	albumID, ok := parseID(c, "albumID")
	if !ok {
		return
	}

	album, err := albums.Find(c, albumID)
	if err != nil {
		respondError(c, "album not found", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "album loaded",
		"album":   albumJSON(album),
	})
}

func GetGenreListHandler(c *gin.Context, albums *repositories.AlbumRepository) {
	genres, err := albums.Genres(c)
	if err != nil {
		respondError(c, "failed to list genres", err)
		return
	}

	genresData := make([]gin.H, 0, len(genres))
	for _, genre := range genres {
		genresData = append(genresData, gin.H{
			"id":          genre.ID,
			"name":        genre.Name,
			"description": genre.Description,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "genres loaded",
		"genres":  genresData,
	})
}

// GetGenreAlbumsHandler browses one genre.
func GetGenreAlbumsHandler(c *gin.Context, albums *repositories.AlbumRepository) {
	genreID, ok := parseID(c, "genreID")
	if !ok {
		return
	}

	genreAlbums, err := albums.ByGenre(c, genreID)
	if err != nil {
		respondError(c, "genre not found", err)
		return
	}

	albumsData := make([]gin.H, 0, len(genreAlbums))
	for _, album := range genreAlbums {
		albumsData = append(albumsData, albumJSON(album))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "albums loaded",
		"albums":  albumsData,
	})
}
