package httpserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"university_line_bot/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Broadcaster triggers a faculty-scoped announcement. Implemented by
// app.BroadcastService.
type Broadcaster interface {
	BroadcastToFaculty(ctx context.Context, faculty, message string) error
}

type broadcastRequest struct {
	Faculty string `json:"faculty" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// BroadcastHandler exposes faculty broadcasts over an authenticated JSON
// endpoint.
type BroadcastHandler struct {
	token   string
	service Broadcaster
	logger  *logrus.Entry
}

func NewBroadcastHandler(token string, service Broadcaster, logger *logrus.Entry) *BroadcastHandler {
	return &BroadcastHandler{
		token:   token,
		service: service,
		logger:  logger,
	}
}

// Handle is the gin handler for POST /api/broadcast.
func (h *BroadcastHandler) Handle(c *gin.Context) {
	if !h.authorized(c.GetHeader("Authorization")) {
		h.logger.Warn("Rejected broadcast request with missing or invalid token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "faculty and message are required"})
		return
	}

	if err := h.service.BroadcastToFaculty(c.Request.Context(), req.Faculty, req.Message); err != nil {
		if errors.Is(err, app.ErrUnknownFaculty) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown faculty"})
			return
		}
		h.logger.WithError(err).Error("Broadcast failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "broadcast failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *BroadcastHandler) authorized(header string) bool {
	got, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
