package repositories

import (
	"path/filepath"
	"testing"

	"MusicStore/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection serializes writers the way row locks do on MySQL
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// seedAlbums stores a small catalog: ids 1..3 priced 8.99, 7.49 and 12.00.
func seedAlbums(t *testing.T, db *gorm.DB) []models.Album {
	t.Helper()

	rock := models.Genre{Name: "Rock"}
	metal := models.Genre{Name: "Metal"}
	acdc := models.Artist{Name: "AC/DC"}
	sabbath := models.Artist{Name: "Black Sabbath"}
	for _, row := range []interface{}{&rock, &metal, &acdc, &sabbath} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed %T: %v", row, err)
		}
	}

	albums := []models.Album{
		{GenreID: rock.ID, ArtistID: acdc.ID, Title: "Let There Be Rock", Price: decimal.RequireFromString("8.99")},
		{GenreID: metal.ID, ArtistID: sabbath.ID, Title: "Black Sabbath", Price: decimal.RequireFromString("7.49")},
		{GenreID: rock.ID, ArtistID: acdc.ID, Title: "Back in Black", Price: decimal.RequireFromString("12.00")},
	}
	if err := db.Create(&albums).Error; err != nil {
		t.Fatalf("seed albums: %v", err)
	}
	return albums
}
