package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"vidshare/internal/config"
	"vidshare/internal/database"
	"vidshare/internal/middleware"
	"vidshare/internal/modules/auth"
	"vidshare/internal/modules/media"
	jwtsvc "vidshare/internal/pkg/jwt"
	"vidshare/internal/pkg/password"
	"vidshare/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	if err := userRepo.Migrate(); err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&media.Upload{}); err != nil {
		log.Fatal(err)
	}

	codec, err := jwtsvc.New(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatal(err)
	}
	hasher := password.NewHasher(cfg.BcryptCost)

	mediaRepo := media.NewRepository(db)
	mediaService := media.NewService(mediaRepo, cfg.UploadDir, media.StaticURLBase)
	mediaHandler := media.NewHandler(mediaService)

	authService := auth.NewService(userRepo, codec, hasher, mediaService)
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure:   cfg.CookieSecure,
		SameSite: parseSameSite(cfg.CookieSameSite),
		Path:     cfg.CookiePath,
	})

	r := gin.Default()
	r.MaxMultipartMemory = 16 << 20
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorLogger())
	r.Static(media.StaticURLBase, cfg.UploadDir)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Authenticate(codec, userRepo))
		{
			authHandler.RegisterProtectedRoutes(protected)
			mediaHandler.RegisterProtectedRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
