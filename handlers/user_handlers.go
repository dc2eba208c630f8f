package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"time"
	"unicode"

	"MusicStore/cart"
	"MusicStore/jwt"
	"MusicStore/models"
	"MusicStore/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	usernamePattern = regexp.MustCompile("^[a-zA-Z0-9_-]+$")
	emailPattern    = regexp.MustCompile("^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\\.[a-zA-Z0-9-.]+$")
)

// ValidateUsername accepts 8 to 20 letters, digits, '_' or '-'.
func ValidateUsername(username string) bool {
	if len(username) < 8 || len(username) > 20 {
		return false
	}
	return usernamePattern.MatchString(username)
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword wants 8 to 50 characters mixing upper and lower case,
// digits and symbols, without spaces.
func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 50 {
		return false
	}

	var (
		isUpper   = false
		isLower   = false
		isNumber  = false
		isSpecial = false
		isSpace   = false
	)

	for _, s := range password {
		switch {
		case unicode.IsSpace(s):
			isSpace = true
		case unicode.IsUpper(s):
			isUpper = true
		case unicode.IsLower(s):
			isLower = true
		case unicode.IsDigit(s):
			isNumber = true
		case unicode.IsPunct(s) || unicode.IsSymbol(s):
			isSpecial = true
		default:
		}
	}

	return isUpper && isLower && isNumber && isSpecial && !isSpace
}

func IsUserNameExists(db *gorm.DB, username string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func IsUserEmailExists(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func RegisterHandler(c *gin.Context, db *gorm.DB) {
	var registerReq struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&registerReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}

	if !ValidateUsername(registerReq.Username) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid username",
		})
		return
	}
	if !ValidateEmail(registerReq.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid email",
		})
		return
	}
	if !ValidatePassword(registerReq.Password) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid password",
		})
		return
	}

	exists, err := IsUserNameExists(db.WithContext(c), registerReq.Username)
	if err != nil {
		respondError(c, "failed to check username", err)
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{
			"message": "username already taken",
		})
		return
	}

	exists, err = IsUserEmailExists(db.WithContext(c), registerReq.Email)
	if err != nil {
		respondError(c, "failed to check email", err)
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{
			"message": "email already registered",
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registerReq.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, "failed to hash password", err)
		return
	}

	newUser := models.User{
		Username: registerReq.Username,
		Email:    registerReq.Email,
		Password: string(hashedPassword),
		Role:     "user",
	}
	if err := db.WithContext(c).Create(&newUser).Error; err != nil {
		respondError(c, "failed to store user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "user registered",
		"username": newUser.Username,
	})
}

// LoginHandler checks the credentials, moves the visitor's anonymous cart to
// the account and issues a login token.
func LoginHandler(c *gin.Context, db *gorm.DB, signer *jwt.Signer, engine *cart.Engine, tokenTTL time.Duration) {
	if _, ok := c.Get("UserID"); ok {
		c.JSON(http.StatusOK, gin.H{
			"message": "already logged in",
		})
		return
	}

	var loginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}

	var user models.User
	err := db.WithContext(c).First(&user, "username = ?", loginReq.Username).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, "failed to load user", err)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginReq.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "wrong username or password",
		})
		return
	}

	expiresAt := time.Now().Add(tokenTTL)
	token, err := signer.GenerateToken(jwt.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, expiresAt)
	if err != nil {
		respondError(c, "failed to sign token", err)
		return
	}

	loginToken := models.LoginToken{
		Token:          token,
		ExpirationTime: expiresAt,
		UserID:         user.ID,
		Role:           user.Role,
	}
	if err := db.WithContext(c).Create(&loginToken).Error; err != nil {
		respondError(c, "failed to store token", err)
		return
	}

	// the session moves to the account only once the login has succeeded
	if sess, ok := session.FromContext(c); ok {
		if err := adoptCart(c, engine, sess, user.Username); err != nil {
			db.WithContext(c).Unscoped().Delete(&loginToken)
			respondError(c, "failed to migrate cart", err)
			return
		}
	}

	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, gin.H{
		"message":  "logged in",
		"username": user.Username,
	})
}

// adoptCart moves an anonymous cart to username and points the session at
// the user's cart. A slot holding another user name is only rebound, never
// merged, so one account cannot inherit another's cart.
func adoptCart(c *gin.Context, engine *cart.Engine, sess *session.Session, username string) error {
	current, err := sess.Get(c, cart.OwnerKeySlot)
	if err != nil {
		return err
	}

	if _, err := uuid.Parse(current); err == nil {
		if err := engine.MigrateCart(c, current, username); err != nil {
			return err
		}
	}
	return cart.BindOwnerKey(c, sess, username)
}

func LogOutHandler(c *gin.Context, db *gorm.DB) {
	token := c.GetString("Token")

	result := db.WithContext(c).Unscoped().Delete(&models.LoginToken{}, "token = ?", token)
	if result.Error != nil {
		respondError(c, "failed to revoke token", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "token not found or already logged out",
		})
		return
	}

	// the next anonymous visit starts a fresh cart
	if sess, ok := session.FromContext(c); ok {
		if err := sess.Clear(c); err != nil {
			respondError(c, "logged out, failed to reset session", err)
			return
		}
	}

	c.Header("Authorization", "")
	c.JSON(http.StatusOK, gin.H{
		"message": "logged out",
	})
}

func GetUserProfileHandler(c *gin.Context, db *gorm.DB) {
	var user models.User
	err := db.WithContext(c).First(&user, "id = ?", c.GetUint("UserID")).Error
	if err != nil {
		respondError(c, "failed to load profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile loaded",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"name":     user.Name,
			"address":  user.Address,
			"phone":    user.Phone,
			"role":     user.Role,
		},
	})
}

func UpdateUserProfileHandler(c *gin.Context, db *gorm.DB) {
	var newUserData struct {
		Email       string  `json:"email"`
		OldPassword string  `json:"oldPassword" binding:"required"`
		NewPassword string  `json:"newPassword"`
		Name        *string `json:"name"`
		Phone       *string `json:"phone"`
		Address     *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&newUserData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}

	var user models.User
	if err := db.WithContext(c).First(&user, "id = ?", c.GetUint("UserID")).Error; err != nil {
		respondError(c, "failed to load profile", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(newUserData.OldPassword)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "wrong password",
		})
		return
	}

	if newUserData.NewPassword != "" {
		if !ValidatePassword(newUserData.NewPassword) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "invalid new password",
			})
			return
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newUserData.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, "failed to hash password", err)
			return
		}
		user.Password = string(hashedPassword)
	}

	if newUserData.Email != "" {
		if !ValidateEmail(newUserData.Email) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "invalid email",
			})
			return
		}
		user.Email = newUserData.Email
	}

	// provided fields overwrite, empty strings included
	if newUserData.Name != nil {
		user.Name = *newUserData.Name
	}
	if newUserData.Phone != nil {
		user.Phone = *newUserData.Phone
	}
	if newUserData.Address != nil {
		user.Address = *newUserData.Address
	}

	if err := db.WithContext(c).Save(&user).Error; err != nil {
		respondError(c, "failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated",
	})
}
