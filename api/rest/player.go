package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/dungeon-crawler/server/save"
)

// GetPlayer handles GET /api/saves/:slot/player.
func (h *SaveHandler) GetPlayer(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	player, err := h.store.GetPlayer(c.Request.Context(), slot)
	if err != nil {
		storeError(c, err)
		return
	}
	if player == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "save not found"})
		return
	}
	c.JSON(http.StatusOK, player)
}

// PatchPlayer handles PATCH /api/saves/:slot/player. Absent fields are left
// untouched; an unknown slot is accepted and ignored, matching the store.
func (h *SaveHandler) PatchPlayer(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	var upd save.PlayerUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := time.Now()

	err := h.store.UpdatePlayer(c.Request.Context(), slot, upd)
	h.record(c, slot, "player.update", upd, nil, start, err)
	if err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
