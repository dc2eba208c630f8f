package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"MusicStore/models"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var ErrTokenRevoked = errors.New("token revoked")

// Claims is what a login token carries about its user.
type Claims struct {
	UserID   uint
	Username string
	Role     string
}

// Signer issues and verifies RS256 login tokens.
type Signer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// NewSigner loads the key pair from PEM files.
func NewSigner(privateKeyPath, publicKeyPath string) (*Signer, error) {
	keyBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	keyBytes, err = os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, err
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return &Signer{privateKey: privateKey, publicKey: publicKey}, nil
}

func NewSignerFromKey(key *rsa.PrivateKey) *Signer {
	return &Signer{privateKey: key, publicKey: &key.PublicKey}
}

// GenerateToken signs claims valid until expTime.
func (s *Signer) GenerateToken(claims Claims, expTime time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"userID":   claims.UserID,
		"username": claims.Username,
		"role":     claims.Role,
		"exp":      expTime.Unix(),
	})
	return token.SignedString(s.privateKey)
}

// VerifyToken checks the signature and expiry, then that the token is still
// stored.
func (s *Signer) VerifyToken(tokenString string, db *gorm.DB) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, jwt.ErrTokenSignatureInvalid
	}

	// logout deletes the stored token
	var loginToken models.LoginToken
	err = db.Where("token = ?", tokenString).First(&loginToken).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Claims{}, ErrTokenRevoked
	}
	if err != nil {
		return Claims{}, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}
	userID, _ := mapClaims["userID"].(float64)
	username, _ := mapClaims["username"].(string)
	role, _ := mapClaims["role"].(string)
	if userID == 0 || username == "" {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}

	return Claims{UserID: uint(userID), Username: username, Role: role}, nil
}
