package httpapi

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"dinehall-order-service/internal/catalog"
	"dinehall-order-service/internal/config"
	"dinehall-order-service/internal/engine"
	"dinehall-order-service/internal/http/handlers"
	"dinehall-order-service/internal/middleware"
	"dinehall-order-service/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(eng *engine.Engine, cat catalog.Catalog, logger *zap.Logger, cfg config.Config, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
				"Pragma",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{Engine: eng, Catalog: cat, Logger: logger, Config: cfg}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/pos", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		r.Get("/floor", h.FloorView)

		r.Route("/carts/{sessionId}", func(r chi.Router) {
			r.Get("/", h.CartGet)
			r.Delete("/", h.CartClear)
			r.Post("/items", h.CartAddItem)
			r.Patch("/items/{menuItemId}", h.CartSetQuantity)
			r.Delete("/items/{menuItemId}", h.CartRemoveItem)
		})

		r.Route("/tables/{tableId}", func(r chi.Router) {
			r.Get("/", h.TableGet)
			r.Post("/guest-session", h.GuestSessionCreate)
			r.Post("/orders", h.OrderPlace)
			r.Post("/orders/bulk", h.OrderPlaceBulk)
			r.Get("/items", h.TableItems)
			r.Get("/items/{itemId}", h.TableItemGet)
		})
	})

	r.Route("/api/kitchen", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		r.Get("/queue", h.KitchenQueue)
		r.Route("/tables/{tableId}/items/{itemId}", func(r chi.Router) {
			r.Post("/start-preparing", h.ItemStartPreparing)
			r.Post("/mark-ready", h.ItemMarkReady)
			r.Post("/mark-served", h.ItemMarkServed)
			r.Post("/cancel", h.ItemCancel)
		})
	})

	r.Route("/api/checkout", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		r.Route("/tables/{tableId}", func(r chi.Router) {
			r.Post("/", h.Checkout)
			r.Post("/bills", h.BillCreate)
			r.Get("/bills", h.BillList)
			r.Get("/bills/{billId}", h.BillGet)
			r.Patch("/bills/{billId}/status", h.BillUpdateStatus)
			r.Post("/bills/{billId}/complete", h.BillComplete)
			r.Post("/bills/{billId}/split", h.BillSplit)
		})
	})

	if wsServer != nil {
		r.Get("/ws/table", wsServer.TableWS)
		r.Get("/ws/kitchen", wsServer.KitchenWS)
		r.Get("/ws/floor", wsServer.FloorWS)
	}

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
