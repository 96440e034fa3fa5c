package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Ambreesh-Kumar/ecommerce-backend/config"
	"github.com/Ambreesh-Kumar/ecommerce-backend/events"
	"github.com/Ambreesh-Kumar/ecommerce-backend/gateway"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
	"github.com/Ambreesh-Kumar/ecommerce-backend/routes"
	"github.com/Ambreesh-Kumar/ecommerce-backend/services"
	"github.com/Ambreesh-Kumar/ecommerce-backend/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zlog.Logger = zlog.Output(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db := initDatabase(cfg.DatabaseURL)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Optional product cache
	var cache *store.ProductCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		cache = store.NewProductCache(redis.NewClient(opts))
		zlog.Info().Msg("product cache enabled")
	}

	// Optional event publisher
	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, "orders")
		if err != nil {
			log.Fatalf("failed to connect event publisher: %v", err)
		}
		defer amqpPub.Close()
		publisher = amqpPub
		zlog.Info().Msg("event publisher enabled")
	}

	st := store.NewGorm(db, cache)
	gw := gateway.NewRazorpay(cfg.GatewayKeyID, cfg.GatewayKeySecret, cfg.GatewayAPIURL)

	cartSvc := services.NewCartService(st)
	orderSvc := services.NewOrderService(st, publisher)
	paymentSvc := services.NewPaymentService(st, gw, publisher)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, db, cartSvc, orderSvc, paymentSvc)

	zlog.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM connection. TranslateError is required
// so unique violations surface as gorm.ErrDuplicatedKey (order number
// collision handling relies on it).
func initDatabase(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect DB: %v", err)
	}
	return db
}
