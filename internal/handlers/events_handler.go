package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/buildsign/buildsign-api/internal/middleware"
	"github.com/buildsign/buildsign-api/internal/realtime"
	"github.com/buildsign/buildsign-api/internal/services"
	"github.com/buildsign/buildsign-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// Origin is enforced by the CORS middleware ahead of the upgrade
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const wsPingInterval = 30 * time.Second

// EventsHandler streams lifecycle events to the owner's dashboard over a
// websocket, one subscription per contract topic.
type EventsHandler struct {
	hub             *realtime.Hub
	contractService *services.ContractService
}

func NewEventsHandler(hub *realtime.Hub, contractService *services.ContractService) *EventsHandler {
	return &EventsHandler{hub: hub, contractService: contractService}
}

// @Summary Contract Event Stream
// @Description Subscribe to live lifecycle events for a contract over websocket
// @Tags Contracts
// @Param id path int true "Contract ID"
// @Success 101 {string} string "Switching Protocols"
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /ws/contracts/{id} [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	// Only the owner may listen on a contract's topic
	if _, err := h.contractService.FindByID(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		serviceError(c, err)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error(fmt.Sprintf("[Events] Failed to upgrade websocket: %v", err))
		return
	}
	defer ws.Close()

	sub := h.hub.Subscribe(uint(id))
	defer h.hub.Unsubscribe(sub)

	logger.Debug(fmt.Sprintf("[Events] Dashboard subscribed to contract %d", id))

	// Reader goroutine: its only job is to notice the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.C():
			if !ok {
				return
			}
			if err := ws.WriteJSON(event); err != nil {
				logger.Debug(fmt.Sprintf("[Events] Write failed for contract %d: %v", id, err))
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
