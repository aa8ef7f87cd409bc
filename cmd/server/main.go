package main

import (
	"net/http"

	"tour-booking-platform/internal/backend"
	"tour-booking-platform/internal/cart"
	"tour-booking-platform/internal/config"
	"tour-booking-platform/internal/handlers"
	"tour-booking-platform/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}

	client := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})

	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   false, // behind TLS termination
		SameSite: http.SameSiteLaxMode,
	}

	var cache cart.Cache
	if cfg.Cache.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
		cache = cart.NewRedisCache(redisClient, cfg.Cache.TTL, logger)
		logger.WithField("addr", cfg.Cache.RedisAddr).Info("using redis cart cache")
	} else {
		cache = cart.NewMemoryCache(cfg.Cache.TTL, nil)
	}

	cartService := cart.NewService(client, cache, cart.NewBus(), logger)

	cartEvents, _ := cartService.Events().Subscribe(cart.TopicCartUpdated)
	go func() {
		for ev := range cartEvents {
			logger.WithField("topic", ev.Topic).Debug("cart updated")
		}
	}()

	cartHandler := handlers.NewCartHandler(cartService, sessionStore, cfg.Session.CookieName, logger)
	checkoutHandler := handlers.NewCheckoutHandler(cartService, client, sessionStore, cfg.Session.CookieName, nil, logger)
	paymentHandler := handlers.NewPaymentHandler(client, cartService, sessionStore, cfg.Session.CookieName, nil, cfg.Payment.PollInterval, cfg.Payment.MaxPollInterval, logger)
	bookingsHandler := handlers.NewBookingsHandler(client, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.WithToken)

	r.Get("/health", handlers.Health)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.ViewCart)
		r.Post("/add", cartHandler.AddToCart)
		r.Post("/remove", cartHandler.RemoveFromCart)
		r.Post("/clear", cartHandler.ClearCart)
		r.With(middleware.RequireToken).Post("/sync", cartHandler.SyncCart)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Get("/", checkoutHandler.ViewCheckout)
		r.Post("/voucher", checkoutHandler.ApplyVoucher)
		r.Delete("/voucher", checkoutHandler.RemoveVoucher)
		r.With(middleware.RequireToken).Post("/pay", checkoutHandler.Pay)
	})

	r.Route("/payment", func(r chi.Router) {
		r.Get("/confirm", paymentHandler.ViewConfirmation)
		r.Get("/wait", paymentHandler.Wait)
		r.With(middleware.RequireToken).Post("/verify", paymentHandler.Verify)
		r.With(middleware.RequireToken).Post("/cancel", paymentHandler.Cancel)
	})

	r.With(middleware.RequireToken).Get("/bookings", bookingsHandler.ListBookings)

	addr := ":" + cfg.Server.Port
	logger.WithField("addr", addr).Info("storefront listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
