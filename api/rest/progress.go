package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/dungeon-crawler/server/save"
)

// GetProgress handles GET /api/saves/:slot/progress.
func (h *SaveHandler) GetProgress(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	progress, err := h.store.GetProgress(c.Request.Context(), slot)
	if err != nil {
		storeError(c, err)
		return
	}
	if progress == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "save not found"})
		return
	}
	c.JSON(http.StatusOK, progress)
}

// PatchProgress handles PATCH /api/saves/:slot/progress.
func (h *SaveHandler) PatchProgress(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	var upd save.ProgressUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := time.Now()

	err := h.store.UpdateProgress(c.Request.Context(), slot, upd)
	h.record(c, slot, "progress.update", upd, nil, start, err)
	if err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
