package main

import (
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/banmai-pos/console/internal/backend"
	"github.com/banmai-pos/console/internal/cart"
	"github.com/banmai-pos/console/internal/catalog"
	"github.com/banmai-pos/console/internal/checkout"
	"github.com/banmai-pos/console/internal/config"
	"github.com/banmai-pos/console/internal/router"
	"github.com/banmai-pos/console/internal/ws"
)

func main() {
	cfg := config.Load()

	api := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	var carts cart.Store
	switch cfg.CartStore {
	case "redis":
		if rdb == nil {
			log.Fatal("CART_STORE=redis requires REDIS_ADDR")
		}
		carts = cart.NewRedisStore(rdb, cfg.CartTTL)
	default:
		carts = cart.NewMemoryStore()
	}

	cache := catalog.NewCache(api, rdb, cfg.CatalogCacheTTL)

	hub := ws.NewHub()
	go hub.Run()

	svc := checkout.NewService(carts, api, &ws.PaymentNotifier{Hub: hub}, cache)

	r := router.New(cfg, api, carts, cache, svc, hub)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("Starting POS console on :%s (backend %s)", cfg.Port, cfg.BackendBaseURL)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
