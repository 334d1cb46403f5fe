package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/repositories"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from a separate origin in development
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades authenticated dashboard connections and registers them
// with the hub
type Handler struct {
	hub      *Hub
	accounts *repositories.AccountRepository
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, accounts *repositories.AccountRepository, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		accounts: accounts,
		logger:   logger,
	}
}

// HandleConnection upgrades the HTTP connection for a teacher, department or
// admin dashboard. Students have no live stream; their view is request-driven.
func (h *Handler) HandleConnection(c *gin.Context) {
	accountIDValue, exists := c.Get("accountID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found in context"})
		return
	}
	accountID, ok := accountIDValue.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid account ID format"})
		return
	}

	account, err := h.accounts.GetByID(c, accountID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown account"})
		return
	}

	var department string
	switch account.Role {
	case models.RoleTeacher:
		department = account.Teacher.DepartmentCode
	case models.RoleDepartment:
		department = account.Department.DeptID
	case models.RoleAdmin:
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Live stream is not available for this role"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("accountID", accountID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:        h.hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		accountID:  accountID,
		role:       account.Role,
		department: department,
		logger:     h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("accountID", accountID).
		Str("role", string(account.Role)).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Dashboard WebSocket connection established")
}
