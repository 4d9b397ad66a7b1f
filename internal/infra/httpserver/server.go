package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second // replies wait on outbound LINE calls
	idleTimeout     = 60 * time.Second
	healthzDBPingTO = 2 * time.Second
)

// Config holds the HTTP server settings.
type Config struct {
	Port          int
	ChannelSecret string
	// AdminAPIToken guards the broadcast endpoint; empty disables it.
	AdminAPIToken string
}

// Server hosts the webhook and broadcast endpoints.
type Server struct {
	httpServer *http.Server
	logger     *logrus.Entry
}

// New builds the router and wires the handlers.
func New(
	cfg Config,
	events EventHandler,
	broadcaster Broadcaster,
	db *sql.DB,
	logger *logrus.Entry,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", healthzHandler(db))

	webhook := NewWebhookHandler(cfg.ChannelSecret, events, logger.WithField("handler", "webhook"))
	router.POST("/callback", webhook.Handle)

	if cfg.AdminAPIToken != "" {
		broadcast := NewBroadcastHandler(cfg.AdminAPIToken, broadcaster, logger.WithField("handler", "broadcast"))
		router.POST("/api/broadcast", broadcast.Handle)
	} else {
		logger.Warn("ADMIN_API_TOKEN not set; broadcast endpoint disabled")
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		logger: logger,
	}
}

// Start blocks serving requests until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthzHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthzDBPingTO)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
