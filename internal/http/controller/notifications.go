package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"markread_demo/internal/auth"
	"markread_demo/internal/config"
	"markread_demo/internal/domain"
	"markread_demo/internal/http/dto"
	"markread_demo/internal/http/middleware"
	"markread_demo/internal/http/resp"
	"markread_demo/internal/model"
	"markread_demo/internal/service/readstate"
	"markread_demo/internal/sse"
)

type Handler struct {
	cfg *config.Config
	svc *readstate.Service
	hub *sse.Hub
	log *zap.Logger
}

func NewHandler(cfg *config.Config, svc *readstate.Service, hub *sse.Hub, logger *zap.Logger) *Handler {
	return &Handler{cfg: cfg, svc: svc, hub: hub, log: logger}
}

// MarkRead handles POST /api/mark-read.
func (h *Handler) MarkRead(c *gin.Context) {
	userID, ok := auth.UserIDFrom(c)
	if !ok {
		h.log.Error("mark read without resolved user", zap.String("request_id", middleware.RequestIDFrom(c)))
		h.respond(c, h.svc.Reject(domain.OutcomeInternalError), "")
		return
	}

	var req dto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug("mark read body rejected", zap.Error(err))
	}
	if !req.Present {
		h.respond(c, h.svc.Reject(domain.OutcomeInvalidRequest), "")
		return
	}
	// A present id can derive the empty key, which no record has.
	if req.ID == "" {
		h.respond(c, h.svc.Reject(domain.OutcomeNotFoundOrDenied), "")
		return
	}

	outcome, err := h.svc.MarkAsRead(c.Request.Context(), req.ID, userID)
	if outcome == domain.OutcomeInternalError {
		h.log.Error("SERVER ERROR during /api/mark-read",
			zap.String("notification_id", req.ID),
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.Error(err),
		)
	}
	h.respond(c, outcome, req.ID)
}

func (h *Handler) respond(c *gin.Context, outcome domain.Outcome, id string) {
	middleware.SetOutcome(c, outcome, id)
	status, message := resp.Status(outcome)
	body := dto.StatusResponse{Success: status == http.StatusOK, Message: message}
	if body.Success {
		body.NotificationID = id
	}
	c.JSON(status, body)
}

// ReadEvents streams read events for the requesting user's notifications.
func (h *Handler) ReadEvents(c *gin.Context) {
	userID, ok := auth.UserIDFrom(c)
	if !ok {
		h.respond(c, domain.OutcomeInternalError, "")
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported", zap.Int64("user_id", userID))
		h.respond(c, domain.OutcomeInternalError, "")
		return
	}

	// Subscribe before the headers go out so a client that has seen the
	// response cannot miss events.
	client := &sse.Client{
		UserID: userID,
		Ch:     make(chan model.ReadEvent, 16),
	}
	if !h.hub.Register(client) {
		h.log.Warn("read event stream refused, hub stopped", zap.Int64("user_id", userID))
		c.JSON(http.StatusServiceUnavailable, dto.StatusResponse{Success: false, Message: "Server is shutting down."})
		return
	}
	defer h.hub.Unregister(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()

	heartbeat := h.cfg.SSEHeartbeat
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-h.hub.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Error("heartbeat write failed", zap.Int64("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		case event, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeReadEvent(c.Writer, event); err != nil {
				h.log.Error("write read event failed", zap.Int64("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeReadEvent(w http.ResponseWriter, event model.ReadEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: notification.read\ndata: %s\n\n", event.NotificationID, payload)
	return err
}
