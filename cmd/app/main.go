package main

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/velomart/storefront-backend/internal/cache"
	"github.com/velomart/storefront-backend/internal/cart"
	"github.com/velomart/storefront-backend/internal/config"
	"github.com/velomart/storefront-backend/internal/product"
	"github.com/velomart/storefront-backend/internal/settings"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	ensureSchema(db)

	// product storefront reads (public)
	productRepo := product.NewPostgresRepository(db)
	productHandler := product.NewHandler(product.NewService(productRepo))
	productHandler.RegisterPublicRoutes(app)

	// cart policy: read is public so guest clients can fetch it pre-auth
	settingsService := settings.NewService(settings.NewPostgresRepository(db), openCache(cfg))
	settingsHandler := settings.NewHandler(settingsService)
	settingsHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		// public GETs were registered above; everything past this point
		// carries an identity
		Filter: func(c *fiber.Ctx) bool {
			if c.Method() != fiber.MethodGet {
				return false
			}
			p := c.Path()
			return strings.HasPrefix(p, "/api/v1/products") ||
				strings.HasPrefix(p, "/api/v1/product/") ||
				p == "/api/v1/settings/cart"
		},
	}))

	// authoritative server cart (protected)
	cartService := cart.NewService(cart.NewPostgresRepository(db), productRepo)
	cartHandler := cart.NewHandler(cartService)
	cartHandler.RegisterProtectedRoutes(app)

	settingsHandler.RegisterProtectedRoutes(app)

	if err := app.Listen(cfg.Addr); err != nil {
		panic(err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

// openCache prefers Redis when configured and quietly falls back to the
// in-process cache otherwise.
func openCache(cfg config.Config) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewInMemoryCache()
	}
	c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPass, 0)
	if err != nil {
		fmt.Printf("warning: redis unavailable, using in-memory cache: %v\n", err)
		return cache.NewInMemoryCache()
	}
	return c
}

// ensureSchema makes the columns and tables this service writes exist.
// Statements are idempotent so restarts are safe.
func ensureSchema(db *sql.DB) {
	// per-user cart lines live in a jsonb column on users
	if _, err := db.Exec(`ALTER TABLE users ADD COLUMN IF NOT EXISTS cart jsonb NOT NULL DEFAULT '[]'`); err != nil {
		panic(err)
	}

	// campaign columns on products; older installs predate promotions
	if _, err := db.Exec(`ALTER TABLE products
        ADD COLUMN IF NOT EXISTS "discountPercent" INT NOT NULL DEFAULT 0,
        ADD COLUMN IF NOT EXISTS "compareAtPrice" INT,
        ADD COLUMN IF NOT EXISTS "flashDeal" BOOLEAN NOT NULL DEFAULT FALSE,
        ADD COLUMN IF NOT EXISTS "flashEndsAt" TEXT,
        ADD COLUMN IF NOT EXISTS "specialOffer" BOOLEAN NOT NULL DEFAULT FALSE,
        ADD COLUMN IF NOT EXISTS "specialEndsAt" TEXT,
        ADD COLUMN IF NOT EXISTS "campaignLabel" TEXT`); err != nil {
		panic(err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS settings (
        key TEXT PRIMARY KEY,
        value jsonb NOT NULL
    )`); err != nil {
		panic(err)
	}

	// rows written before the lines format hold a productID->qty map; the
	// cart repository upgrades them on read, nothing to do here
	if _, err := db.Exec(`UPDATE users SET cart = '[]' WHERE cart IS NULL`); err != nil {
		fmt.Printf("warning: cart backfill failed: %v\n", err)
	}
}
