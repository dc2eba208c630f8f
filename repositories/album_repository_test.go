package repositories

import (
	"context"
	"errors"
	"testing"

	"MusicStore/cart"
	"MusicStore/models"

	"github.com/shopspring/decimal"
)

func TestAlbumRepositoryGetAlbumReadsThroughCache(t *testing.T) {
	db := newTestDB(t)
	albums := seedAlbums(t, db)
	mr, rdb := newTestRedis(t)
	repo := NewAlbumRepository(db, rdb)
	ctx := context.Background()

	got, err := repo.GetAlbum(ctx, albums[0].ID)
	if err != nil {
		t.Fatalf("GetAlbum: %v", err)
	}
	if got.Title != "Let There Be Rock" || !got.Price.Equal(decimal.RequireFromString("8.99")) {
		t.Fatalf("unexpected album %+v", got)
	}
	if members, _ := mr.ZMembers(albumsKey); len(members) != 1 {
		t.Fatalf("expected album to be cached, got %d members", len(members))
	}

	// served from the cache once the row is gone
	if err := db.Unscoped().Delete(&models.Album{}, albums[0].ID).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetAlbum(ctx, albums[0].ID); err != nil {
		t.Fatalf("cached GetAlbum: %v", err)
	}

	if _, err := repo.GetAlbum(ctx, 999); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAlbumRepositoryList(t *testing.T) {
	db := newTestDB(t)
	seedAlbums(t, db)
	_, rdb := newTestRedis(t)
	repo := NewAlbumRepository(db, rdb)
	ctx := context.Background()

	page, total, err := repo.List(ctx, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(page) != 2 || page[0].Title != "Black Sabbath" || page[1].Title != "Back in Black" {
		t.Fatalf("unexpected page %+v", page)
	}
	if page[0].Genre.Name != "Metal" || page[0].Artist.Name != "Black Sabbath" {
		t.Fatalf("genre and artist should be cached with the album: %+v", page[0])
	}
}

func TestAlbumRepositoryListAfterSingleRead(t *testing.T) {
	db := newTestDB(t)
	albums := seedAlbums(t, db)
	mr, rdb := newTestRedis(t)
	repo := NewAlbumRepository(db, rdb)
	ctx := context.Background()

	if _, err := repo.GetAlbum(ctx, albums[1].ID); err != nil {
		t.Fatalf("GetAlbum: %v", err)
	}

	page, total, err := repo.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(page) != 3 {
		t.Fatalf("List = %d albums of %d, want 3 of 3", len(page), total)
	}
	if !mr.Exists(albumsWarmKey) {
		t.Fatal("full rebuild should mark the cache warm")
	}

	// served from the warm cache once loaded
	if err := db.Unscoped().Delete(&models.Album{}, albums[2].ID).Error; err != nil {
		t.Fatal(err)
	}
	if _, total, _ := repo.List(ctx, 0, 10); total != 3 {
		t.Fatalf("warm List total = %d, want 3", total)
	}
}

func TestAlbumRepositoryWritesRefreshCache(t *testing.T) {
	db := newTestDB(t)
	albums := seedAlbums(t, db)
	mr, rdb := newTestRedis(t)
	repo := NewAlbumRepository(db, rdb)
	ctx := context.Background()

	created := models.Album{
		GenreID:  albums[0].GenreID,
		ArtistID: albums[0].ArtistID,
		Title:    "Highway to Hell",
		Price:    decimal.RequireFromString("9.99"),
	}
	if err := repo.Create(ctx, &created); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.Genre.Name != "Rock" {
		t.Fatalf("created album not reloaded: %+v", created)
	}

	created.Price = decimal.RequireFromString("10.49")
	if err := repo.Update(ctx, &created); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetAlbum(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Price.Equal(decimal.RequireFromString("10.49")) {
		t.Fatalf("cache kept the old price: %s", got.Price)
	}
	if members, _ := mr.ZMembers(albumsKey); len(members) != 1 {
		t.Fatalf("update must replace the cached entry, got %d members", len(members))
	}

	cartRepo := NewCartRepository(db)
	if err := cartRepo.IncrementItem(ctx, "owner", created.ID, created.CreatedAt); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetAlbum(ctx, created.ID); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("deleted album still visible: %v", err)
	}
	if n := countRows(t, db, "owner"); n != 0 {
		t.Fatalf("cart rows of a deleted album must go, got %d", n)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestAlbumRepositoryByGenre(t *testing.T) {
	db := newTestDB(t)
	albums := seedAlbums(t, db)
	_, rdb := newTestRedis(t)
	repo := NewAlbumRepository(db, rdb)
	ctx := context.Background()

	rock, err := repo.ByGenre(ctx, albums[0].GenreID)
	if err != nil {
		t.Fatalf("ByGenre: %v", err)
	}
	if len(rock) != 2 || rock[0].Title != "Back in Black" {
		t.Fatalf("unexpected rock albums %+v", rock)
	}

	if _, err := repo.ByGenre(ctx, 999); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	genres, err := repo.Genres(ctx)
	if err != nil || len(genres) != 2 || genres[0].Name != "Metal" {
		t.Fatalf("Genres = %+v, %v", genres, err)
	}
}
