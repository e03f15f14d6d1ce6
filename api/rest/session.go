package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kawasemi/dungeon-crawler/server/config"
	mw "github.com/kawasemi/dungeon-crawler/server/middleware"
)

// SessionHandler issues client session tokens. There are no accounts; a
// session just ties audit trails and rate limits to one client install.
type SessionHandler struct {
	sec config.SecurityConfig
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sec config.SecurityConfig) *SessionHandler {
	return &SessionHandler{sec: sec}
}

type sessionRequest struct {
	ClientID string `json:"client_id" binding:"omitempty,max=64"`
}

// Create handles POST /api/session. Clients may present a previously issued
// client id to keep it across token renewals; otherwise a fresh one is
// generated.
func (h *SessionHandler) Create(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientID := req.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	token, err := mw.GenerateToken(clientID, h.sec.JWTSecret, h.sec.JWTTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "client_id": clientID})
}
