package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bananina/storefront-api/config"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/routes"
	"github.com/bananina/storefront-api/session"
)

func main() {
	cfg := config.Load()

	db := initDatabase(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Address{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.ProductGallery{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentDetail{},
		&models.OrderStatusEntry{},
		&models.RefundRequest{},
	); err != nil {
		logrus.Fatalf("automigrate failed: %v", err)
	}

	store := initSessionStore(cfg)

	r := gin.Default()
	r.MaxMultipartMemory = 16 << 20 // 16MB, gallery uploads are a few MB each

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/assets", filepath.Join(cfg.PublicDir, "assets"))
	r.LoadHTMLGlob("web/templates/*.tmpl")

	routes.SetupRoutes(r, db, store, cfg)

	logrus.Infof("server running on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("failed to start server: %v", err)
	}
}

// initDatabase opens the postgres connection. TranslateError turns
// driver unique-violation errors into gorm.ErrDuplicatedKey, which the
// registration and import paths rely on.
func initDatabase(cfg config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

// initSessionStore picks redis when configured, otherwise the
// in-process store for single-instance deployments.
func initSessionStore(cfg config.Config) session.Store {
	if cfg.RedisAddr == "" {
		logrus.Info("using in-memory session store")
		return session.NewMemoryStore()
	}

	store := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
	if err := store.Ping(context.Background()); err != nil {
		logrus.Fatalf("failed to connect to redis: %v", err)
	}
	logrus.Infof("using redis session store at %s", cfg.RedisAddr)
	return store
}
