package relay

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ytget/credential-mapper/internal/events"
	"github.com/ytget/credential-mapper/internal/model"
)

// Response messages.
const (
	msgMissingFields = "Missing id or name"
	msgReceived      = "Mapping received, select type in app."
	msgRateLimited   = "Too many requests"
)

// mapRequest is the body of POST /map.
type mapRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// mapResponse is returned for every /map request.
type mapResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleMap validates the pushed pair, hands it to the UI and replies
// without waiting for the user to classify it.
func (l *Listener) handleMap(c *gin.Context) {
	var req mapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.log.Debug("rejected map request", "error", err)
		c.JSON(http.StatusBadRequest, mapResponse{Success: false, Message: msgMissingFields})
		return
	}

	incoming := model.NewIncomingRequest(req.ID, req.Name)
	l.log.Info("mapping received", "request_id", incoming.RequestID.String(), "credential_id", incoming.ID)

	if l.bus != nil {
		l.bus.Publish(context.Background(), events.IncomingMappingReceived{
			BaseEvent: events.NewBaseEvent(),
			Request:   incoming,
		})
	}

	c.JSON(http.StatusOK, mapResponse{Success: true, Message: msgReceived})
}

// handlePreflight answers OPTIONS on any path, with or without an Origin header.
func handlePreflight(c *gin.Context) {
	c.Status(http.StatusOK)
}
