package routers

import (
	"log/slog"
	"time"

	"MusicStore/cart"
	"MusicStore/config"
	"MusicStore/handlers"
	"MusicStore/jwt"
	"MusicStore/middleware"
	"MusicStore/repositories"
	"MusicStore/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRouters(cfg config.Config, db *gorm.DB, rdb *redis.Client, signer *jwt.Signer, log *slog.Logger) *gin.Engine {
	albums := repositories.NewAlbumRepository(db, rdb)
	orders := repositories.NewOrderRepository(db)
	engine := cart.NewEngine(repositories.NewCartRepository(db), albums)
	sessions := session.NewStore(rdb, cfg.Session.TTL)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Error("set trusted proxies", "error", err)
	}

	// album art
	router.Static("/uploads", cfg.Server.UploadsDir)

	router.Use(
		middleware.AuthMiddleware(db, signer),
		session.Middleware(sessions, cfg.Session.CookieName, cfg.Session.Secure),
	)

	api := router.Group("/api/v1")
	{
		api.GET("/albums", func(c *gin.Context) {
			handlers.GetAlbumListHandler(c, albums)
		})
		api.GET("/albums/:albumID", func(c *gin.Context) {
			handlers.GetAlbumHandler(c, albums)
		})
		api.GET("/genres", func(c *gin.Context) {
			handlers.GetGenreListHandler(c, albums)
		})
		api.GET("/genres/:genreID/albums", func(c *gin.Context) {
			handlers.GetGenreAlbumsHandler(c, albums)
		})

		api.POST("/register", func(c *gin.Context) {
			handlers.RegisterHandler(c, db)
		})
		api.POST("/login", func(c *gin.Context) {
			handlers.LoginHandler(c, db, signer, engine, cfg.JWT.TokenTTL)
		})

		api.GET("/carts", func(c *gin.Context) {
			handlers.GetCartHandler(c, engine)
		})
		api.GET("/carts/summary", func(c *gin.Context) {
			handlers.CartSummaryHandler(c, engine)
		})
		api.POST("/carts/add/:albumID", func(c *gin.Context) {
			handlers.AddToCartHandler(c, engine)
		})
		api.POST("/carts/remove/:recordID", func(c *gin.Context) {
			handlers.RemoveFromCartHandler(c, engine)
		})
		api.DELETE("/carts", func(c *gin.Context) {
			handlers.ClearCartHandler(c, engine)
		})

		loginRequired := api.Group("/user")
		loginRequired.Use(middleware.CheckLoginMiddleware())
		{
			loginRequired.GET("/profile", func(c *gin.Context) {
				handlers.GetUserProfileHandler(c, db)
			})
			loginRequired.PATCH("/profile/edit", func(c *gin.Context) {
				handlers.UpdateUserProfileHandler(c, db)
			})
			loginRequired.POST("/checkout", func(c *gin.Context) {
				handlers.CheckoutHandler(c, engine)
			})
			loginRequired.GET("/orders", func(c *gin.Context) {
				handlers.GetOrderListHandler(c, orders)
			})
			loginRequired.GET("/orders/:orderID", func(c *gin.Context) {
				handlers.GetOrderDataHandler(c, orders)
			})
			loginRequired.POST("/logout", func(c *gin.Context) {
				handlers.LogOutHandler(c, db)
			})
		}

		adminRequired := api.Group("/admin")
		adminRequired.Use(middleware.CheckLoginMiddleware(), middleware.CheckAdminPermissionMiddleware())
		{
			adminRequired.GET("/users", func(c *gin.Context) {
				handlers.GetUserListHandler(c, db)
			})
			adminRequired.POST("/image", func(c *gin.Context) {
				handlers.UploadImageHandler(c, cfg.Server.UploadsDir)
			})
			adminRequired.POST("/albums", func(c *gin.Context) {
				handlers.CreateAlbumHandler(c, albums)
			})
			adminRequired.PATCH("/albums/:albumID", func(c *gin.Context) {
				handlers.UpdateAlbumHandler(c, albums)
			})
			adminRequired.DELETE("/albums/:albumID", func(c *gin.Context) {
				handlers.DeleteAlbumHandler(c, albums)
			})
		}
	}

	return router
}
