package repositories

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"MusicStore/cart"
	"MusicStore/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// albumsKey is a sorted set of album JSON documents scored by album id.
// albumsWarmKey is set together with a full rebuild of albumsKey. Single
// reads may add entries to a cold set, so only the marker says the set holds
// the whole catalog.
const (
	albumsKey     = "albums"
	albumsWarmKey = "albums:warm"
)

// AlbumRepository reads albums through a Redis cache and keeps the cache in
// step with writes. It implements cart.Catalog.
type AlbumRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewAlbumRepository(db *gorm.DB, rdb *redis.Client) *AlbumRepository {
	return &AlbumRepository{db: db, rdb: rdb}
}

var _ cart.Catalog = (*AlbumRepository)(nil)

func (r *AlbumRepository) GetAlbum(ctx context.Context, id uint) (cart.Album, error) {
	album, err := r.Find(ctx, id)
	if err != nil {
		return cart.Album{}, err
	}
	return cart.Album{ID: album.ID, Title: album.Title, Price: album.Price}, nil
}

// Find returns one album with its genre and artist, from the cache when it
// holds the id.
func (r *AlbumRepository) Find(ctx context.Context, id uint) (models.Album, error) {
	score := strconv.FormatUint(uint64(id), 10)
	cached, err := r.rdb.ZRangeByScore(ctx, albumsKey, &redis.ZRangeBy{Min: score, Max: score}).Result()
	if err != nil {
		slog.WarnContext(ctx, "album cache read failed", "album_id", id, "error", err)
	}
	if len(cached) > 0 {
		var album models.Album
		if err := json.Unmarshal([]byte(cached[0]), &album); err == nil {
			return album, nil
		}
		slog.WarnContext(ctx, "album cache entry unreadable", "album_id", id)
	}

	var album models.Album
	err = r.db.WithContext(ctx).
		Preload("Genre").
		Preload("Artist").
		First(&album, id).
		Error
	if err != nil {
		return models.Album{}, translateError(err)
	}

	if err := r.cache(ctx, album); err != nil {
		slog.WarnContext(ctx, "album cache write failed", "album_id", id, "error", err)
	}
	return album, nil
}

// List pages through the catalog ordered by id. The cache is rebuilt from
// the database until it has been fully loaded once. The second value is the
// catalog size.
func (r *AlbumRepository) List(ctx context.Context, offset, limit int) ([]models.Album, int64, error) {
	var total int64
	warmed, err := r.rdb.Exists(ctx, albumsWarmKey).Result()
	if err == nil && warmed > 0 {
		total, err = r.rdb.ZCard(ctx, albumsKey).Result()
	}
	if err != nil || warmed == 0 {
		if total, err = r.warm(ctx); err != nil {
			return nil, 0, err
		}
	}

	members, err := r.rdb.ZRange(ctx, albumsKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, err
	}

	albums := make([]models.Album, 0, len(members))
	for _, member := range members {
		var album models.Album
		if err := json.Unmarshal([]byte(member), &album); err != nil {
			slog.WarnContext(ctx, "album cache entry unreadable", "error", err)
			continue
		}
		albums = append(albums, album)
	}
	return albums, total, nil
}

// warm replaces the cache with every album in the database.
func (r *AlbumRepository) warm(ctx context.Context) (int64, error) {
	var albums []models.Album
	err := r.db.WithContext(ctx).
		Preload("Genre").
		Preload("Artist").
		Order("id").
		Find(&albums).
		Error
	if err != nil {
		return 0, err
	}

	members := make([]redis.Z, 0, len(albums))
	for _, album := range albums {
		albumJSON, err := json.Marshal(album)
		if err != nil {
			return 0, err
		}
		members = append(members, redis.Z{Score: float64(album.ID), Member: albumJSON})
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, albumsKey)
		if len(members) > 0 {
			pipe.ZAdd(ctx, albumsKey, members...)
		}
		pipe.Set(ctx, albumsWarmKey, 1, 0)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int64(len(albums)), nil
}

func (r *AlbumRepository) cache(ctx context.Context, album models.Album) error {
	albumJSON, err := json.Marshal(album)
	if err != nil {
		return err
	}

	score := strconv.FormatUint(uint64(album.ID), 10)
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, albumsKey, score, score)
		pipe.ZAdd(ctx, albumsKey, redis.Z{Score: float64(album.ID), Member: albumJSON})
		return nil
	})
	return err
}

func (r *AlbumRepository) uncache(ctx context.Context, id uint) error {
	score := strconv.FormatUint(uint64(id), 10)
	return r.rdb.ZRemRangeByScore(ctx, albumsKey, score, score).Err()
}

// ByGenre lists the albums of one genre straight from the database.
func (r *AlbumRepository) ByGenre(ctx context.Context, genreID uint) ([]models.Album, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).First(&genre, genreID).Error; err != nil {
		return nil, translateError(err)
	}

	var albums []models.Album
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Where("genre_id = ?", genreID).
		Order("title").
		Find(&albums).
		Error
	if err != nil {
		return nil, err
	}
	return albums, nil
}

func (r *AlbumRepository) Genres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.WithContext(ctx).Order("name").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

// Create stores the album and caches it. The row is rolled back when the
// cache write fails so the two never disagree.
func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	return r.write(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit("Genre", "Artist").Create(album).Error; err != nil {
			return err
		}
		return tx.Preload("Genre").Preload("Artist").First(album, album.ID).Error
	}, func() error {
		return r.cache(ctx, *album)
	})
}

func (r *AlbumRepository) Update(ctx context.Context, album *models.Album) error {
	return r.write(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit("Genre", "Artist").Save(album).Error; err != nil {
			return err
		}
		return tx.Preload("Genre").Preload("Artist").First(album, album.ID).Error
	}, func() error {
		return r.cache(ctx, *album)
	})
}

// Delete removes the album and every cart row that still points at it.
func (r *AlbumRepository) Delete(ctx context.Context, id uint) error {
	return r.write(ctx, func(tx *gorm.DB) error {
		var album models.Album
		if err := tx.First(&album, id).Error; err != nil {
			return err
		}
		if err := tx.Where("album_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&album).Error
	}, func() error {
		return r.uncache(ctx, id)
	})
}

func (r *AlbumRepository) write(ctx context.Context, dbFn func(tx *gorm.DB) error, cacheFn func() error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := dbFn(tx); err != nil {
			return err
		}
		return cacheFn()
	})
	return translateError(err)
}
