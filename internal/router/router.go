// internal/router/router.go
package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/javajoker/catalog-backend/internal/config"
	"github.com/javajoker/catalog-backend/internal/handlers"
	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/middleware"
	"github.com/javajoker/catalog-backend/internal/repository"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

type Services struct {
	Auth     *services.AuthService
	Products *services.ProductService
	Users    *services.UserService
}

// Initialize wires the gorm repositories and the asset store into the
// services and returns the engine with a cleanup func.
func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, func(), error) {
	assetStore, err := services.NewAssetStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize asset store: %w", err)
	}

	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)

	authService := services.NewAuthService(userRepo, cfg)

	r, cleanup := New(cfg, Services{
		Auth:     authService,
		Products: services.NewProductService(productRepo, userRepo, assetStore),
		Users:    services.NewUserService(userRepo, productRepo, authService, cfg),
	})
	return r, cleanup, nil
}

func New(cfg *config.Config, svc Services) (*gin.Engine, func()) {
	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	utils.SetJWTIssuer(cfg.JWT.Issuer)

	productHandler := handlers.NewProductHandler(svc.Products)
	userHandler := handlers.NewUserHandler(svc.Users)

	generalLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	authLimiter := middleware.NewRateLimiter(rate.Every(time.Minute/time.Duration(max(cfg.RateLimit.AuthPerMinute, 1))), max(cfg.RateLimit.AuthPerMinute, 1))
	cleanup := func() {
		generalLimiter.Stop()
		authLimiter.Stop()
	}

	authRequired := middleware.AuthRequired(svc.Auth)
	optionalAuth := middleware.OptionalAuth(svc.Auth)

	r := gin.New()
	r.MaxMultipartMemory = int64(cfg.Storage.MaxUploadMB) << 20

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())
	r.Use(generalLimiter.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   "1.0.0",
			"languages": i18n.GetSupportedLanguages(),
		})
	})

	// Uploaded images and avatars
	r.Static(cfg.Storage.ImagesURLPath, cfg.Storage.ImagesDir)
	r.Static(cfg.Storage.AvatarsURL, cfg.Storage.AvatarsDir)

	api := r.Group("/api")
	{
		products := api.Group("/product")
		{
			products.GET("", optionalAuth, productHandler.GetProducts)
			products.GET("/:id", optionalAuth, productHandler.GetProduct)

			// Authenticated routes
			protected := products.Group("")
			protected.Use(authRequired)
			{
				protected.POST("", productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
			}
		}

		users := api.Group("/user")
		{
			users.GET("", optionalAuth, userHandler.GetUsers)
			users.GET("/Avatars", optionalAuth, userHandler.GetAvatars)
			users.GET("/userDetails", optionalAuth, userHandler.GetUserDetailsList)
			users.GET("/userDetails/:id", optionalAuth, userHandler.GetUserDetails)
			users.GET("/:id/product", optionalAuth, userHandler.GetUserProducts)

			users.POST("/register", authLimiter.Middleware(), userHandler.Register)
			users.POST("/login", authLimiter.Middleware(), userHandler.Login)

			// Authenticated routes
			protected := users.Group("")
			protected.Use(authRequired)
			{
				protected.PUT("/:id", userHandler.UpdateUser)
				protected.DELETE("/:id", userHandler.DeleteUser)
			}
		}
	}

	return r, cleanup
}
