package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MusicStore/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestSigner(t *testing.T) (*Signer, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return NewSignerFromKey(key), key
}

func newTokenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tokens.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&models.LoginToken{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestGenerateAndVerify(t *testing.T) {
	signer, _ := newTestSigner(t)
	db := newTokenDB(t)

	claims := Claims{UserID: 7, Username: "alice", Role: "user"}
	token, err := signer.GenerateToken(claims, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := signer.VerifyToken(token, db); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("token not stored yet: expected ErrTokenRevoked, got %v", err)
	}

	if err := db.Create(&models.LoginToken{Token: token, UserID: 7, Role: "user"}).Error; err != nil {
		t.Fatal(err)
	}
	got, err := signer.VerifyToken(token, db)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if got != claims {
		t.Fatalf("claims = %+v, want %+v", got, claims)
	}
}

func TestVerifyRejects(t *testing.T) {
	signer, _ := newTestSigner(t)
	other, _ := newTestSigner(t)
	db := newTokenDB(t)
	claims := Claims{UserID: 1, Username: "bob", Role: "admin"}

	expired, _ := signer.GenerateToken(claims, time.Now().Add(-time.Minute))
	forged, _ := other.GenerateToken(claims, time.Now().Add(time.Hour))
	for _, tok := range []string{expired, forged} {
		db.Create(&models.LoginToken{Token: tok})
	}

	if _, err := signer.VerifyToken(expired, db); err == nil {
		t.Fatal("expired token accepted")
	}
	if _, err := signer.VerifyToken(forged, db); err == nil {
		t.Fatal("token signed by another key accepted")
	}
	if _, err := signer.VerifyToken("garbage", db); err == nil {
		t.Fatal("garbage accepted")
	}
}

func TestNewSignerFromFiles(t *testing.T) {
	_, key := newTestSigner(t)
	dir := t.TempDir()

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	privPath := filepath.Join(dir, "private_key.pem")
	pubPath := filepath.Join(dir, "public_key.pem")
	if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pubPath, pubPEM, 0o644); err != nil {
		t.Fatal(err)
	}

	signer, err := NewSigner(privPath, pubPath)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	if !signer.publicKey.Equal(&key.PublicKey) {
		t.Fatal("public key mismatch")
	}

	if _, err := NewSigner(filepath.Join(dir, "missing.pem"), pubPath); err == nil {
		t.Fatal("expected an error for a missing key file")
	}
}
