package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	"github.com/uptrace/bun"

	"ms-railway/internal/account"
	"ms-railway/internal/account/account_api"
	accountdb "ms-railway/internal/account/db"
	"ms-railway/internal/address"
	"ms-railway/internal/address/address_api"
	addressdb "ms-railway/internal/address/db"
	"ms-railway/internal/auth"
	"ms-railway/internal/catalog"
	"ms-railway/internal/catalog/cache"
	"ms-railway/internal/catalog/catalog_api"
	catalogdb "ms-railway/internal/catalog/db"
	"ms-railway/internal/catering"
	"ms-railway/internal/catering/catering_api"
	cateringdb "ms-railway/internal/catering/db"
	"ms-railway/internal/config"
	"ms-railway/internal/kafka"
	"ms-railway/internal/logger"
	"ms-railway/internal/metrics"
	"ms-railway/internal/order"
	orderdb "ms-railway/internal/order/db"
	"ms-railway/internal/order/order_api"
	"ms-railway/internal/order/qr"
	orderredis "ms-railway/internal/order/redis"
	"ms-railway/internal/passenger"
	"ms-railway/internal/passenger/passenger_api"
	passengerdb "ms-railway/internal/passenger/db"
	"ms-railway/internal/utils"
)

// Deps are the shared clients the HTTP surface is built from.
type Deps struct {
	Config *config.Config
	DB     *bun.DB
	Redis  *redis.Client
	Events *kafka.EventPublisher
	Logger *logger.Logger
}

func New(d Deps) http.Handler {
	cfg := d.Config
	log := d.Logger

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	accountService := account.NewService(
		&accountdb.DB{Bun: d.DB},
		auth.NewRedisRecoveryCache(d.Redis, cfg.Auth.RecoveryTTL),
		tokens,
		cfg.Auth,
		log,
	)
	catalogService := catalog.NewService(
		&catalogdb.DB{Bun: d.DB},
		cache.NewStationCache(d.Redis, cfg.Redis.StationCacheTTL),
		log,
	)
	passengerService := passenger.NewService(&passengerdb.DB{Bun: d.DB}, log)
	addressService := address.NewService(&addressdb.DB{Bun: d.DB}, log)

	var orderEvents order.EventPublisher
	var cateringEvents catering.EventPublisher
	if d.Events != nil {
		orderEvents = d.Events
		cateringEvents = d.Events
	}
	orderService := order.NewOrderService(
		&orderdb.DB{Bun: d.DB},
		orderredis.NewBookingLock(d.Redis, cfg.Redis.BookingLockTTL),
		orderEvents,
		passengerService,
		qr.NewGenerator(cfg.QR.Secret),
		log,
	)
	cateringService := catering.NewService(&cateringdb.DB{Bun: d.DB}, cateringEvents, log)

	accounts := &account_api.Handler{Service: accountService, Logger: log}
	catalogs := &catalog_api.Handler{Service: catalogService, Logger: log}
	passengers := &passenger_api.Handler{Service: passengerService, Logger: log}
	addresses := &address_api.Handler{Service: addressService, Logger: log}
	orders := order_api.NewHandler(orderService, log)
	meals := &catering_api.Handler{Service: cateringService, Logger: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metrics.Middleware)
	r.Use(requestLogger(log))

	// --- Public Routes ---
	var kafkaCheck func(context.Context) error
	if cfg.Kafka.Enabled {
		kafkaCheck = func(ctx context.Context) error {
			return kafka.CheckTopics(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topics.All())
		}
	}
	r.Get("/health", health(d.DB, d.Redis, kafkaCheck))
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if cfg.HTTP.AuthRateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.HTTP.AuthRateLimit, time.Minute))
		}
		r.Post("/register", accounts.Register)
		r.Post("/login", accounts.Login)
		r.Post("/forgot/check-user", accounts.CheckUser)
		r.Post("/forgot/verify-code", accounts.VerifyCode)
		r.Post("/forgot/reset-password", accounts.ResetPassword)
	})

	r.Get("/stations", catalogs.SearchStations)
	r.Get("/stations/hot", catalogs.HotStations)
	r.Get("/tickets", catalogs.SearchTrains)

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens, log))

		r.Get("/profile", accounts.Profile)

		r.Route("/passengers", func(r chi.Router) {
			r.Get("/", passengers.List)
			r.Post("/", passengers.Create)
			r.Delete("/{id}", passengers.Delete)
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", addresses.List)
			r.Post("/", addresses.Create)
			r.Delete("/{id}", addresses.Delete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orders.ListOrders)
			r.Post("/", orders.CreateOrder)
			r.Get("/{id}", orders.GetOrder)
			r.Post("/{id}/pay", orders.PayOrder)
			r.Post("/{id}/cancel", orders.CancelOrder)
			r.Post("/{id}/refund", orders.RefundOrder)
			r.Get("/{id}/boarding-pass", orders.BoardingPass)
		})

		r.Route("/catering", func(r chi.Router) {
			r.Get("/brands", meals.ListBrands)
			r.Post("/brands", meals.CreateBrand)
			r.Get("/items", meals.ListItems)
			r.Post("/items", meals.CreateItem)
			r.Get("/orders", meals.ListOrders)
			r.Post("/orders", meals.CreateOrder)
			r.Post("/orders/{id}/pay", meals.PayOrder)
			r.Post("/orders/{id}/cancel", meals.CancelOrder)
		})
	})

	log.Info("ROUTER", "Routes registered")
	return r
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.LogAPI(r.Method, r.URL.Path, status, time.Since(start))
		})
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
	Kafka    string `json:"kafka"`
}

// health pings the store and Redis. kafkaCheck is nil when Kafka is disabled.
func health(db *bun.DB, rdb *redis.Client, kafkaCheck func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Database: "up", Redis: "up", Kafka: "disabled"}
		status := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			resp.Database = fmt.Sprintf("down: %v", err)
			resp.Status, status = "degraded", http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			resp.Redis = fmt.Sprintf("down: %v", err)
			resp.Status, status = "degraded", http.StatusServiceUnavailable
		}
		if kafkaCheck != nil {
			resp.Kafka = "up"
			if err := kafkaCheck(ctx); err != nil {
				resp.Kafka = fmt.Sprintf("down: %v", err)
				resp.Status, status = "degraded", http.StatusServiceUnavailable
			}
		}
		utils.WriteJSON(w, status, resp)
	}
}
