package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"veggie-orders/internal/shop/adapter/broker"
	"veggie-orders/internal/shop/adapter/cache"
	database "veggie-orders/internal/shop/adapter/db"
	"veggie-orders/internal/shop/api/http/handle"
	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/app/services"
	"veggie-orders/internal/xpkg/config"
	xdb "veggie-orders/internal/xpkg/db"
	"veggie-orders/internal/xpkg/token"
	"veggie-orders/pkg/logger"
	"veggie-orders/pkg/rabbitmq"
)

var ErrServerClosed = errors.New("Server closed")

type Server struct {
	mux        *http.ServeMux
	cfg        *config.Config
	srv        *http.Server
	shopParams *core.ShopParams
	mylog      logger.Logger
	db         *xdb.DB
	mq         *rabbitmq.RabbitMQ
	cache      *cache.RedisCache
	ctx        context.Context
	appCtx     context.Context
	mu         sync.Mutex
	wg         sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, shopParams *core.ShopParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:        ctx,
		appCtx:     appCtx,
		cfg:        cfg,
		shopParams: shopParams,
		mylog:      mylog,
		mux:        http.NewServeMux(),
	}
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initializeDatabase(); err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	mylog.Action("db_connected").Info("Successful database connection")

	// The broker and cache are optional collaborators; the API serves
	// without either of them.
	s.initializeRabbitMQ()
	s.initializeRedis()

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.shopParams.Port),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.shopParams.Port)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	s.wg.Wait()

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.mylog.Action("cache_close_failed").Error("Failed to close cache", err)
		}
	}

	if s.mq != nil {
		if err := s.mq.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Action("db_close_failed").Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Action("db_closed").Info("Database closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) initializeDatabase() error {
	db, err := xdb.Start(s.appCtx, s.cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Server) initializeRabbitMQ() {
	if s.cfg.RMQ == nil || s.cfg.RMQ.Host == "" {
		s.mylog.Action("mb_disabled").Info("No message broker configured, order events disabled")
		return
	}
	mq, err := rabbitmq.ConnectRabbitMQ(s.cfg.RMQ, s.mylog)
	if err != nil {
		s.mylog.Action("mb_connection_failed").Warn("Message broker unavailable, order events disabled", "error", err.Error())
		return
	}
	s.mq = mq
	s.mylog.Action("mb_connected").Info("Successful message broker connection")
}

func (s *Server) initializeRedis() {
	if s.cfg.Redis == nil || s.cfg.Redis.Addr == "" {
		s.mylog.Action("cache_disabled").Info("No cache configured, catalog reads go to the database")
		return
	}
	rc, err := cache.NewRedisCache(s.appCtx, s.cfg.Redis, s.mylog)
	if err != nil {
		s.mylog.Action("cache_connection_failed").Warn("Cache unavailable, catalog reads go to the database", "error", err.Error())
		return
	}
	s.cache = rc
	s.mylog.Action("cache_connected").Info("Successful cache connection")
}

// Configure builds the repositories, services, handlers and the route table.
func (s *Server) Configure() {
	orderRepo := database.NewOrderRepo(s.db, s.mylog)
	catalogRepo := database.NewCatalogRepo(s.db, s.mylog)
	userRepo := database.NewUserRepo(s.db, s.mylog)
	reportRepo := database.NewReportRepo(s.db, orderRepo, s.mylog)

	var publisher core.IPublisher = broker.NoopPublisher{}
	if s.mq != nil {
		publisher = broker.NewPublisher(s.mq)
	}

	var catalogCache core.ICache
	if s.cache != nil {
		catalogCache = s.cache
	}

	tokens := token.NewManager(s.cfg.Auth.JWTSecret)

	orderService := services.NewOrderService(orderRepo, catalogRepo, userRepo, publisher, s.mylog)
	catalogService := services.NewCatalogService(catalogRepo, catalogRepo, catalogCache, s.mylog)
	authService := services.NewAuthService(userRepo, tokens, s.mylog)
	reportService := services.NewReportService(reportRepo, s.mylog)

	auth := handle.NewAuthMiddleware(tokens, s.mylog)

	orderHandler := handle.NewOrderHandler(orderService, s.mylog)
	catalogHandler := handle.NewCatalogHandler(catalogService, s.mylog)
	authHandler := handle.NewAuthHandler(authService, s.mylog)
	adminHandler := handle.NewAdminHandler(orderService, catalogService, reportService, s.mylog)

	// Storefront
	s.mux.Handle("GET /products", catalogHandler.Products())
	s.mux.Handle("GET /categories", catalogHandler.Categories())
	s.mux.Handle("GET /zones", catalogHandler.Zones())
	s.mux.Handle("GET /offers", catalogHandler.Offers())

	// Auth
	s.mux.Handle("POST /auth/register", authHandler.Register())
	s.mux.Handle("POST /auth/login", authHandler.Login())
	s.mux.Handle("POST /auth/logout", authHandler.Logout())
	s.mux.Handle("GET /auth/me", auth.Require(authHandler.Me()))

	// Orders
	s.mux.Handle("POST /orders", auth.Require(orderHandler.Create()))
	s.mux.Handle("GET /orders", auth.Require(orderHandler.ListMine()))
	s.mux.Handle("GET /orders/{id}", auth.Require(orderHandler.Get()))
	s.mux.Handle("PATCH /orders/{id}", auth.RequireStaff(orderHandler.Transition()))

	// Staff dashboard
	s.mux.Handle("GET /admin/orders", auth.RequireStaff(adminHandler.Board()))
	s.mux.Handle("GET /admin/stats", auth.RequireStaff(adminHandler.Stats()))
	s.mux.Handle("GET /admin/accounting", auth.RequireAdmin(adminHandler.Accounting()))

	// Back-office catalog management
	s.mux.Handle("GET /admin/zones", auth.RequireAdmin(adminHandler.ListZones()))
	s.mux.Handle("POST /admin/zones", auth.RequireAdmin(adminHandler.CreateZone()))
	s.mux.Handle("PUT /admin/zones", auth.RequireAdmin(adminHandler.UpdateZone()))
	s.mux.Handle("DELETE /admin/zones", auth.RequireAdmin(adminHandler.DeleteZone()))

	s.mux.Handle("GET /admin/categories", auth.RequireAdmin(adminHandler.ListCategories()))
	s.mux.Handle("POST /admin/categories", auth.RequireAdmin(adminHandler.CreateCategory()))
	s.mux.Handle("PUT /admin/categories", auth.RequireAdmin(adminHandler.UpdateCategory()))
	s.mux.Handle("DELETE /admin/categories", auth.RequireAdmin(adminHandler.DeleteCategory()))

	s.mux.Handle("GET /admin/offers", auth.RequireAdmin(adminHandler.ListOffers()))
	s.mux.Handle("POST /admin/offers", auth.RequireAdmin(adminHandler.CreateOffer()))
	s.mux.Handle("PUT /admin/offers", auth.RequireAdmin(adminHandler.UpdateOffer()))
	s.mux.Handle("DELETE /admin/offers", auth.RequireAdmin(adminHandler.DeleteOffer()))

	s.mux.Handle("GET /admin/products", auth.RequireAdmin(adminHandler.ListProducts()))
	s.mux.Handle("POST /admin/products", auth.RequireAdmin(adminHandler.CreateProduct()))
	s.mux.Handle("PUT /admin/products", auth.RequireAdmin(adminHandler.UpdateProduct()))
	s.mux.Handle("DELETE /admin/products", auth.RequireAdmin(adminHandler.DeleteProduct()))

	// Health
	s.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		if err := s.db.IsAlive(ctx); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}
